package ai

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terra/internal/modules/conversation"
)

func entry(role conversation.Role, text string) conversation.Entry {
	return conversation.Entry{Role: role, Text: text}
}

func TestToGeminiHistory_AlternatesRoles(t *testing.T) {
	past, pending := toGeminiHistory([]conversation.Entry{
		entry(conversation.RoleAssistant, "stale greeting"),
		entry(conversation.RoleUser, "hi"),
		entry(conversation.RoleUser, "anyone there?"),
		entry(conversation.RoleAssistant, "hello!"),
	})

	require.Len(t, past, 2)
	assert.Equal(t, "user", past[0].Role)
	assert.Equal(t, []genai.Part{genai.Text("hi"), genai.Text("anyone there?")}, past[0].Parts)
	assert.Equal(t, "model", past[1].Role)
	assert.Equal(t, []genai.Part{genai.Text("hello!")}, past[1].Parts)
	assert.Nil(t, pending)
}

func TestToGeminiHistory_TrailingUserTurnsArePending(t *testing.T) {
	past, pending := toGeminiHistory([]conversation.Entry{
		entry(conversation.RoleUser, "museums?"),
		entry(conversation.RoleAssistant, "where?"),
		entry(conversation.RoleUser, "in chicago"),
		entry(conversation.RoleUser, "cheap ones"),
	})

	require.Len(t, past, 2)
	assert.Equal(t, "model", past[len(past)-1].Role)
	assert.Equal(t, []string{"in chicago", "cheap ones"}, pending)
}

func TestToGeminiHistory_Empty(t *testing.T) {
	past, pending := toGeminiHistory(nil)
	assert.Empty(t, past)
	assert.Empty(t, pending)

	past, pending = toGeminiHistory([]conversation.Entry{entry(conversation.RoleAssistant, "only me")})
	assert.Empty(t, past)
	assert.Empty(t, pending)
}
