package ai

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/01moynul/aitools-golang/internal/config"
	"github.com/01moynul/aitools-golang/internal/metrics"
	"github.com/01moynul/aitools-golang/internal/models"
	"github.com/sashabaranov/go-openai"
)

const providerOpenAI = "openai"

// OpenAIProvider serves chat, image and speech calls from one OpenAI client.
type OpenAIProvider struct {
	client      *openai.Client
	chatModel   string
	imageModel  string
	speechModel string
}

func NewOpenAIProvider(cfg config.OpenAIConfig) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(clientCfg),
		chatModel:   cfg.ChatModel,
		imageModel:  cfg.ImageModel,
		speechModel: cfg.SpeechModel,
	}
}

func (p *OpenAIProvider) Chat(ctx context.Context, req ChatRequest) (ChatResult, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.chatModel,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		err = Classify("openai.Chat", err)
		observe(providerOpenAI, "chat", start, err)
		return ChatResult{}, err
	}
	observe(providerOpenAI, "chat", start, nil)

	if len(resp.Choices) == 0 {
		return ChatResult{}, fmt.Errorf("openai.Chat: empty response")
	}
	choice := resp.Choices[0].Message
	return ChatResult{
		Message:     models.ChatMessage{Role: choice.Role, Content: choice.Content},
		TotalTokens: resp.Usage.TotalTokens,
	}, nil
}

func (p *OpenAIProvider) GenerateImages(ctx context.Context, req ImageRequest) ([]models.GeneratedImage, error) {
	start := time.Now()
	resp, err := p.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          p.imageModel,
		N:              req.N,
		Size:           req.Size,
		Quality:        openai.CreateImageQualityStandard,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		err = Classify("openai.GenerateImages", err)
		observe(providerOpenAI, "image", start, err)
		return nil, err
	}
	observe(providerOpenAI, "image", start, nil)

	images := make([]models.GeneratedImage, 0, len(resp.Data))
	for _, d := range resp.Data {
		images = append(images, models.GeneratedImage{URL: d.URL, RevisedPrompt: d.RevisedPrompt})
	}
	return images, nil
}

func (p *OpenAIProvider) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	start := time.Now()
	resp, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.speechModel),
		Input:          text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		err = Classify("openai.Synthesize", err)
		observe(providerOpenAI, "speech", start, err)
		return nil, err
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		err = Classify("openai.Synthesize", err)
		observe(providerOpenAI, "speech", start, err)
		return nil, err
	}
	observe(providerOpenAI, "speech", start, nil)
	return audio, nil
}

// observe records one upstream call in the provider metrics.
func observe(provider, operation string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = outcomeLabel(err)
	}
	metrics.RecordUpstreamCall(provider, operation, outcome, time.Since(start).Seconds())
}
