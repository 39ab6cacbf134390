package ai

import (
	"testing"

	"github.com/01moynul/aitools-golang/internal/models"
	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitForGemini(t *testing.T) {
	system, history, last := splitForGemini(ChatRequest{
		System: "Be helpful.",
		Messages: []models.ChatMessage{
			{Role: "system", Content: "Answer in French."},
			{Role: "user", Content: "Hi"},
			{Role: "assistant", Content: "Bonjour"},
			{Role: "user", Content: "How are you?"},
		},
	})

	assert.Equal(t, "Be helpful.\n\nAnswer in French.", system)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[1].Role)
	assert.Equal(t, "How are you?", last)
}

func TestResponseText(t *testing.T) {
	res := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Hello, "), genai.Text("world")}},
		}},
	}
	assert.Equal(t, "Hello, world", responseText(res))
	assert.Empty(t, responseText(&genai.GenerateContentResponse{}))
}
