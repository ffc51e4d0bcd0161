package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"terra/internal/modules/conversation"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.0-flash"

// ErrEmptyResponse is returned when Gemini answers without any text.
var ErrEmptyResponse = errors.New("no response candidates from Gemini")

// GeminiProvider implements TextGenerator using Google's Gemini models.
type GeminiProvider struct {
	client    *genai.Client
	modelName string
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	return &GeminiProvider{client: client, modelName: modelName}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// Generate runs one chat turn. A model handle is built per call so the
// system instruction never leaks between concurrent requests.
func (p *GeminiProvider) Generate(ctx context.Context, system string, history []conversation.Entry, prompt string) (string, error) {
	model := p.client.GenerativeModel(p.modelName)
	model.SetTemperature(0.7)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	past, pending := toGeminiHistory(history)
	cs := model.StartChat()
	cs.History = past

	parts := make([]genai.Part, 0, len(pending)+1)
	for _, t := range pending {
		parts = append(parts, genai.Text(t))
	}
	parts = append(parts, genai.Text(prompt))

	resp, err := cs.SendMessage(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	if out.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return out.String(), nil
}

// toGeminiHistory converts turns into Gemini chat contents. Gemini wants the
// history to start with a user turn and alternate roles, so leading assistant
// turns are dropped and consecutive turns of one role are merged. Trailing
// user turns are returned separately to be sent with the new message.
func toGeminiHistory(history []conversation.Entry) ([]*genai.Content, []string) {
	var out []*genai.Content
	for _, e := range history {
		role := "user"
		if e.Role == conversation.RoleAssistant {
			role = "model"
		}
		if len(out) == 0 && role == "model" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Parts = append(out[n-1].Parts, genai.Text(e.Text))
			continue
		}
		out = append(out, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(e.Text)}})
	}

	if n := len(out); n > 0 && out[n-1].Role == "user" {
		last := out[n-1]
		out = out[:n-1]
		pending := make([]string, 0, len(last.Parts))
		for _, p := range last.Parts {
			pending = append(pending, string(p.(genai.Text)))
		}
		return out, pending
	}
	return out, nil
}
