package handlers

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/01moynul/aitools-golang/internal/ai"
	"github.com/01moynul/aitools-golang/internal/apperr"
	"github.com/01moynul/aitools-golang/internal/models"
	"github.com/01moynul/aitools-golang/internal/quota"
	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
)

const (
	maxTopicLength = 1000
	maxSlugLength  = 80
)

type IdeasInput struct {
	Topic string `json:"topic"`
}

type IdeasResponse struct {
	Ideas []string `json:"ideas"`
}

type PresentationInput struct {
	Topic       string `json:"topic"`
	Template    string `json:"template"`
	ColorScheme string `json:"colorScheme"`
}

type PresentationResponse struct {
	Slug   string     `json:"slug"`
	Slides []ai.Slide `json:"slides"`
}

func validateTopic(topic string) error {
	if strings.TrimSpace(topic) == "" {
		return apperr.Invalid("Topic is required")
	}
	if utf8.RuneCountInString(topic) > maxTopicLength {
		return apperr.Invalid("Topic must be 1000 characters or fewer")
	}
	return nil
}

// Ideas generates a list of ideas for a topic.
func (h *Handlers) Ideas(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var input IdeasInput
	if !h.bindJSON(c, userID, &input) {
		return
	}
	if err := validateTopic(input.Topic); err != nil {
		h.respondError(c, userID, err)
		return
	}

	h.runTool(c, userID, quota.FeatureIdeas, func(ctx context.Context, _ string) (toolResult, error) {
		res, err := h.TextAI.Chat(ctx, ai.ChatRequest{
			System:      ai.IdeasSystemPrompt,
			Messages:    []models.ChatMessage{{Role: models.RoleUser, Content: input.Topic}},
			Temperature: 0.9,
			MaxTokens:   1000,
		})
		if err != nil {
			return toolResult{}, err
		}
		ideas, err := ai.ParseIdeas(res.Message.Content)
		if err != nil {
			return toolResult{}, apperr.Wrap(apperr.KindUnknown, "handlers.Ideas", err)
		}
		return toolResult{body: IdeasResponse{Ideas: ideas}}, nil
	})
}

// Presentation builds a slide deck for a topic.
func (h *Handlers) Presentation(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var input PresentationInput
	if !h.bindJSON(c, userID, &input) {
		return
	}
	if err := validateTopic(input.Topic); err != nil {
		h.respondError(c, userID, err)
		return
	}

	h.runTool(c, userID, quota.FeaturePresentation, func(ctx context.Context, _ string) (toolResult, error) {
		res, err := h.TextAI.Chat(ctx, ai.ChatRequest{
			System:      ai.PresentationSystemPrompt(input.Template, input.ColorScheme),
			Messages:    []models.ChatMessage{{Role: models.RoleUser, Content: input.Topic}},
			Temperature: 0.7,
			MaxTokens:   2000,
		})
		if err != nil {
			return toolResult{}, err
		}
		slides, err := ai.ParseSlides(res.Message.Content)
		if err != nil {
			return toolResult{}, apperr.Wrap(apperr.KindUnknown, "handlers.Presentation", err)
		}
		return toolResult{body: PresentationResponse{Slug: deckSlug(input.Topic), Slides: slides}}, nil
	})
}

// deckSlug makes a file-name friendly slug, cut at a word boundary.
func deckSlug(topic string) string {
	s := slug.Make(topic)
	if len(s) <= maxSlugLength {
		return s
	}
	s = s[:maxSlugLength]
	if i := strings.LastIndexByte(s, '-'); i > 0 {
		s = s[:i]
	}
	return s
}
