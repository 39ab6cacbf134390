package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/01moynul/aitools-golang/internal/config"
	"github.com/01moynul/aitools-golang/internal/models"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const providerGemini = "gemini"

// GeminiProvider answers chat-style tools with a Gemini model.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider initializes the Gemini client.
func NewGeminiProvider(ctx context.Context, cfg config.GeminiConfig) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

func (p *GeminiProvider) Chat(ctx context.Context, req ChatRequest) (ChatResult, error) {
	if len(req.Messages) == 0 {
		return ChatResult{}, fmt.Errorf("gemini.Chat: no messages")
	}

	// 1. Configure the model for this call
	model := p.client.GenerativeModel(p.model)
	system, history, last := splitForGemini(req)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if req.Temperature > 0 {
		model.SetTemperature(req.Temperature)
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	// 2. Replay earlier turns, then send the latest one
	cs := model.StartChat()
	cs.History = history

	start := time.Now()
	res, err := cs.SendMessage(ctx, genai.Text(last))
	if err != nil {
		err = Classify("gemini.Chat", err)
		observe(providerGemini, "chat", start, err)
		return ChatResult{}, err
	}
	observe(providerGemini, "chat", start, nil)

	// 3. Collect the text parts and the token count
	totalTokens := 0
	if res.UsageMetadata != nil {
		totalTokens = int(res.UsageMetadata.TotalTokenCount)
	}
	return ChatResult{
		Message:     models.ChatMessage{Role: models.RoleAssistant, Content: responseText(res)},
		TotalTokens: totalTokens,
	}, nil
}

// splitForGemini folds system messages into the system instruction and maps
// roles onto Gemini's "user" and "model".
func splitForGemini(req ChatRequest) (string, []*genai.Content, string) {
	var system []string
	if req.System != "" {
		system = append(system, req.System)
	}

	var turns []models.ChatMessage
	for _, m := range req.Messages {
		if m.Role == models.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}
	if len(turns) == 0 {
		return strings.Join(system, "\n\n"), nil, ""
	}

	history := make([]*genai.Content, 0, len(turns)-1)
	for _, m := range turns[:len(turns)-1] {
		role := "user"
		if m.Role == models.RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}
	return strings.Join(system, "\n\n"), history, turns[len(turns)-1].Content
}

func responseText(res *genai.GenerateContentResponse) string {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
