package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/01moynul/aitools-golang/internal/apperr"
	"github.com/01moynul/aitools-golang/internal/logging"
	"github.com/01moynul/aitools-golang/internal/middleware"
	"github.com/01moynul/aitools-golang/internal/models"
	"github.com/01moynul/aitools-golang/internal/quota"
	"github.com/gin-gonic/gin"
)

// toolResult is what a tool step hands back to the pipeline.
type toolResult struct {
	body any
	// served is set when the result did not cost an upstream call (cache hit).
	served bool
}

type toolFunc func(ctx context.Context, userID string) (toolResult, error)

// runTool drives one metered call: gate, upstream (plus persistence), usage
// record, response. Input must be validated before calling it so bad
// requests never touch the store.
func (h *Handlers) runTool(c *gin.Context, userID string, feature quota.Feature, step toolFunc) {
	reqCtx := c.Request.Context()

	// 1. Gate
	ent, err := h.Gate.Authorize(reqCtx, userID, feature)
	if err != nil {
		h.respondError(c, userID, err)
		return
	}

	// 2. Upstream call, detached from client cancellation
	ctx := context.WithoutCancel(reqCtx)
	h.trackEvent(ctx, userID, models.EventAPICall, feature, gin.H{"endpoint": c.FullPath(), "status": "attempt"})

	res, err := step(ctx, userID)
	if err != nil {
		h.trackEvent(ctx, userID, models.EventError, feature, gin.H{"endpoint": c.FullPath(), "kind": apperr.KindOf(err).String()})
		h.respondError(c, userID, err)
		return
	}

	// 3. Record usage once, on the success path only
	if ent.Metered() && !res.served {
		if err := h.Recorder.RecordUsage(ctx, userID, feature); err != nil {
			logging.FromContext(ctx).Error().Err(err).
				Str("user_id", userID).
				Str("feature", string(feature)).
				Msg("Failed to record usage after a successful call")
		}
	}

	h.trackEvent(ctx, userID, models.EventAPICall, feature, gin.H{"endpoint": c.FullPath(), "status": "success", "cached": res.served})
	c.JSON(http.StatusOK, res.body)
}

// currentUser returns the authenticated caller or answers 401.
func (h *Handlers) currentUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		h.respondError(c, "", apperr.Unauthenticated)
	}
	return userID, ok
}

// bindJSON decodes the body into dst or answers 400.
func (h *Handlers) bindJSON(c *gin.Context, userID string, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.respondError(c, userID, &apperr.Error{Kind: apperr.KindInvalidInput, Op: "bind", Message: "Invalid request body", Err: err})
		return false
	}
	return true
}

// respondError logs err with request context and writes the public message.
func (h *Handlers) respondError(c *gin.Context, userID string, err error) {
	status := apperr.Status(err)
	logger := logging.FromContext(c.Request.Context())

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).
		Str("user_id", userID).
		Str("endpoint", c.FullPath()).
		Str("kind", apperr.KindOf(err).String()).
		Int("status", status).
		Msg("Request failed")

	c.AbortWithStatusJSON(status, gin.H{"error": apperr.PublicMessage(err)})
}

// trackEvent stores an analytics event. Failures are logged and swallowed.
func (h *Handlers) trackEvent(ctx context.Context, userID, eventType string, feature quota.Feature, metadata gin.H) {
	raw, err := json.Marshal(metadata)
	if err != nil {
		raw = nil
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	ev := &models.AnalyticsEvent{UserID: userID, EventType: eventType, Feature: string(feature), Metadata: raw}
	if err := h.Store.InsertAnalyticsEvent(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn().Err(err).
			Str("user_id", userID).
			Str("event_type", eventType).
			Msg("Failed to track analytics event")
	}
}
