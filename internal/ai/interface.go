package ai

import (
	"context"

	"terra/internal/modules/conversation"
)

// TextGenerator defines the contract for the text-generation collaborator.
// This interface allows for swapping different AI providers (Gemini, OpenAI, etc.) in the future.
type TextGenerator interface {
	// Generate answers prompt as the final user turn, after the prior turns in
	// history, under the given system instruction.
	Generate(ctx context.Context, system string, history []conversation.Entry, prompt string) (string, error)
}
