package handlers

import (
	"context"
	"strings"

	"github.com/01moynul/aitools-golang/internal/ai"
	"github.com/01moynul/aitools-golang/internal/apperr"
	"github.com/01moynul/aitools-golang/internal/models"
	"github.com/01moynul/aitools-golang/internal/quota"
	"github.com/gin-gonic/gin"
)

// ConversationInput defines the body of POST /api/conversation.
type ConversationInput struct {
	Messages       []models.ChatMessage `json:"messages"`
	ConversationID string               `json:"conversationId"`
}

type ConversationResponse struct {
	ConversationID string             `json:"conversationId"`
	Message        models.ChatMessage `json:"message"`
}

type ResearchInput struct {
	Messages     []models.ChatMessage `json:"messages"`
	ResearchType string               `json:"researchType"`
}

// StudyInput takes either raw content with a preset, or a full message list.
type StudyInput struct {
	Content   string               `json:"content"`
	StudyType string               `json:"studyType"`
	Messages  []models.ChatMessage `json:"messages"`
}

// validateMessages requires at least one non-empty user turn and known roles.
func validateMessages(msgs []models.ChatMessage) error {
	if len(msgs) == 0 {
		return apperr.Invalid("Messages are required")
	}
	hasUser := false
	for _, m := range msgs {
		switch m.Role {
		case models.RoleUser:
			if strings.TrimSpace(m.Content) != "" {
				hasUser = true
			}
		case models.RoleSystem, models.RoleAssistant:
		default:
			return apperr.Invalid("Unknown message role: " + m.Role)
		}
	}
	if !hasUser {
		return apperr.Invalid("Messages are required")
	}
	return nil
}

// Conversation handles the chat tool and persists the exchange.
func (h *Handlers) Conversation(c *gin.Context) {
	// 1. Get User Context (set by AuthMiddleware)
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	// 2. Parse Input
	var input ConversationInput
	if !h.bindJSON(c, userID, &input) {
		return
	}
	if err := validateMessages(input.Messages); err != nil {
		h.respondError(c, userID, err)
		return
	}

	// 3. A continued conversation must belong to the caller
	if input.ConversationID != "" {
		if _, err := h.Store.GetConversation(c.Request.Context(), userID, input.ConversationID); err != nil {
			h.respondError(c, userID, err)
			return
		}
	}

	h.runTool(c, userID, quota.FeatureConversation, func(ctx context.Context, userID string) (toolResult, error) {
		res, err := h.TextAI.Chat(ctx, ai.ChatRequest{Messages: input.Messages})
		if err != nil {
			return toolResult{}, err
		}
		reply := models.ChatMessage{Role: models.RoleAssistant, Content: res.Message.Content}

		// 4. Save to History
		conversationID, err := h.saveExchange(ctx, userID, input, reply)
		if err != nil {
			return toolResult{}, err
		}
		return toolResult{body: ConversationResponse{ConversationID: conversationID, Message: reply}}, nil
	})
}

// saveExchange appends the latest user turn and the reply to an existing
// conversation, or stores the whole exchange as a new one.
func (h *Handlers) saveExchange(ctx context.Context, userID string, input ConversationInput, reply models.ChatMessage) (string, error) {
	if input.ConversationID != "" {
		msgs := []models.Message{toMessage(lastUserMessage(input.Messages)), toMessage(reply)}
		if err := h.Store.AppendMessages(ctx, userID, input.ConversationID, msgs); err != nil {
			return "", err
		}
		return input.ConversationID, nil
	}

	msgs := make([]models.Message, 0, len(input.Messages)+1)
	for _, m := range input.Messages {
		if m.Role == models.RoleSystem {
			continue
		}
		msgs = append(msgs, toMessage(m))
	}
	msgs = append(msgs, toMessage(reply))

	conv := &models.Conversation{
		UserID:      userID,
		Title:       ai.ConversationTitle(firstUserMessage(input.Messages).Content),
		FeatureType: string(quota.FeatureConversation),
	}
	if err := h.Store.CreateConversation(ctx, conv, msgs); err != nil {
		return "", err
	}
	h.trackEvent(ctx, userID, models.EventConversationCreated, quota.FeatureConversation, gin.H{"conversationId": conv.ID})
	return conv.ID, nil
}

func toMessage(m models.ChatMessage) models.Message {
	return models.Message{Role: m.Role, Content: m.Content}
}

func firstUserMessage(msgs []models.ChatMessage) models.ChatMessage {
	for _, m := range msgs {
		if m.Role == models.RoleUser && strings.TrimSpace(m.Content) != "" {
			return m
		}
	}
	return models.ChatMessage{}
}

func lastUserMessage(msgs []models.ChatMessage) models.ChatMessage {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == models.RoleUser && strings.TrimSpace(msgs[i].Content) != "" {
			return msgs[i]
		}
	}
	return models.ChatMessage{}
}

// Research answers with a research-type specific system prompt.
func (h *Handlers) Research(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var input ResearchInput
	if !h.bindJSON(c, userID, &input) {
		return
	}
	if err := validateMessages(input.Messages); err != nil {
		h.respondError(c, userID, err)
		return
	}

	h.runTool(c, userID, quota.FeatureResearch, func(ctx context.Context, _ string) (toolResult, error) {
		res, err := h.TextAI.Chat(ctx, ai.ChatRequest{
			System:      ai.ResearchInstruction(input.ResearchType),
			Messages:    input.Messages,
			Temperature: 0.7,
			MaxTokens:   2000,
		})
		if err != nil {
			return toolResult{}, err
		}
		return toolResult{body: res.Message}, nil
	})
}

// Study turns content into a study aid, or continues a study chat.
func (h *Handlers) Study(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var input StudyInput
	if !h.bindJSON(c, userID, &input) {
		return
	}

	req := ai.ChatRequest{Temperature: 0.7, MaxTokens: 1000}
	switch {
	case len(input.Messages) > 0:
		if err := validateMessages(input.Messages); err != nil {
			h.respondError(c, userID, err)
			return
		}
		req.Messages = input.Messages
	case strings.TrimSpace(input.Content) != "":
		req.System = ai.StudyPrompt(input.StudyType)
		req.Messages = []models.ChatMessage{{Role: models.RoleUser, Content: input.Content}}
	default:
		h.respondError(c, userID, apperr.Invalid("Content or messages are required"))
		return
	}

	h.runTool(c, userID, quota.FeatureStudy, func(ctx context.Context, _ string) (toolResult, error) {
		res, err := h.TextAI.Chat(ctx, req)
		if err != nil {
			return toolResult{}, err
		}
		return toolResult{body: res.Message}, nil
	})
}
