package handlers

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/01moynul/aitools-golang/internal/ai"
	"github.com/01moynul/aitools-golang/internal/apperr"
	"github.com/01moynul/aitools-golang/internal/cache"
	"github.com/01moynul/aitools-golang/internal/logging"
	"github.com/01moynul/aitools-golang/internal/metrics"
	"github.com/01moynul/aitools-golang/internal/models"
	"github.com/01moynul/aitools-golang/internal/quota"
	"github.com/gin-gonic/gin"
)

const maxImagesPerRequest = 4

type ImageInput struct {
	Prompt     string `json:"prompt"`
	Amount     int    `json:"amount"`
	Resolution string `json:"resolution"`
	Style      string `json:"style"`
}

type VoiceInput struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

type VoiceResponse struct {
	Audio string `json:"audio"`
}

type VideoInput struct {
	Prompt string `json:"prompt"`
}

type VideoResponse struct {
	Video string `json:"video"`
}

// Image generates images, serving repeated requests from the cache.
func (h *Handlers) Image(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var input ImageInput
	if !h.bindJSON(c, userID, &input) {
		return
	}
	if strings.TrimSpace(input.Prompt) == "" {
		h.respondError(c, userID, apperr.Invalid("Prompt is required"))
		return
	}

	style := ai.NormalizeStyle(input.Style)
	size := ai.NormalizeResolution(input.Resolution)
	amount := min(max(input.Amount, 1), maxImagesPerRequest)
	key := cache.ImageKey(input.Prompt, style, size)

	h.runTool(c, userID, quota.FeatureImage, func(ctx context.Context, _ string) (toolResult, error) {
		// 1. Cache lookup
		if images, hit := h.cachedImages(ctx, key); hit {
			return toolResult{body: images, served: true}, nil
		}

		// 2. Generate with bounded retries
		images, err := ai.WithRetry(ctx, "handlers.Image", h.ImageRetry, func(ctx context.Context) ([]models.GeneratedImage, error) {
			return h.ImageAI.GenerateImages(ctx, ai.ImageRequest{
				Prompt: ai.StyledImagePrompt(input.Prompt, style),
				Size:   size,
				N:      amount,
			})
		})
		if err != nil {
			return toolResult{}, err
		}

		// 3. Populate the cache
		if h.ImageCache != nil {
			if err := h.ImageCache.Set(ctx, key, images); err != nil {
				logging.FromContext(ctx).Warn().Err(err).Msg("Image cache write failed")
			}
		}
		return toolResult{body: images}, nil
	})
}

// cachedImages returns a cache hit. Cache errors count as a miss.
func (h *Handlers) cachedImages(ctx context.Context, key string) ([]models.GeneratedImage, bool) {
	if h.ImageCache == nil {
		return nil, false
	}
	images, hit, err := h.ImageCache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.RecordImageCache("error")
		logging.FromContext(ctx).Warn().Err(err).Msg("Image cache read failed, continuing without cache")
		return nil, false
	case hit:
		metrics.RecordImageCache("hit")
		return images, true
	default:
		metrics.RecordImageCache("miss")
		return nil, false
	}
}

// Voice synthesizes speech and returns it as an MP3 data URL.
func (h *Handlers) Voice(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var input VoiceInput
	if !h.bindJSON(c, userID, &input) {
		return
	}
	if strings.TrimSpace(input.Text) == "" {
		h.respondError(c, userID, apperr.Invalid("Text is required"))
		return
	}

	h.runTool(c, userID, quota.FeatureVoice, func(ctx context.Context, _ string) (toolResult, error) {
		audio, err := h.SpeechAI.Synthesize(ctx, input.Text, ai.MapVoice(input.Voice))
		if err != nil {
			return toolResult{}, err
		}
		return toolResult{body: VoiceResponse{Audio: "data:audio/mp3;base64," + base64.StdEncoding.EncodeToString(audio)}}, nil
	})
}

// Video renders a short video from a prompt.
func (h *Handlers) Video(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var input VideoInput
	if !h.bindJSON(c, userID, &input) {
		return
	}
	if strings.TrimSpace(input.Prompt) == "" {
		h.respondError(c, userID, apperr.Invalid("Prompt is required"))
		return
	}

	h.runTool(c, userID, quota.FeatureVideo, func(ctx context.Context, _ string) (toolResult, error) {
		url, err := h.VideoAI.GenerateVideo(ctx, input.Prompt)
		if err != nil {
			return toolResult{}, err
		}
		return toolResult{body: VideoResponse{Video: url}}, nil
	})
}
