// Package ai wraps the generative AI backends the tools call.
package ai

import (
	"context"

	"github.com/01moynul/aitools-golang/internal/models"
)

// ChatRequest is one chat completion call. System, when set, is sent ahead
// of Messages.
type ChatRequest struct {
	System      string
	Messages    []models.ChatMessage
	Temperature float32
	MaxTokens   int
}

// ChatResult holds the assistant reply and the tokens the call consumed.
type ChatResult struct {
	Message     models.ChatMessage
	TotalTokens int
}

type TextGenerator interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResult, error)
}

// ImageRequest carries an already styled prompt and a normalized size.
type ImageRequest struct {
	Prompt string
	Size   string
	N      int
}

type ImageGenerator interface {
	GenerateImages(ctx context.Context, req ImageRequest) ([]models.GeneratedImage, error)
}

// SpeechSynthesizer turns text into MP3 audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// VideoGenerator returns the URL of a rendered video.
type VideoGenerator interface {
	GenerateVideo(ctx context.Context, prompt string) (string, error)
}
