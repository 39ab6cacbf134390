package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ConversationHistory lists the caller's conversations, newest first.
func (h *Handlers) ConversationHistory(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	conversations, err := h.Store.ListConversations(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, conversations)
}

// GetConversation returns one conversation. Unknown and foreign ids are 404.
func (h *Handlers) GetConversation(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	conv, err := h.Store.GetConversation(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}
