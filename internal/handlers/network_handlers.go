package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/01moynul/aitools-golang/internal/apperr"
	"github.com/01moynul/aitools-golang/internal/models"
	"github.com/01moynul/aitools-golang/internal/quota"
	"github.com/gin-gonic/gin"
)

// CreateNetworkMetric stores one network sample. Each sample is metered.
func (h *Handlers) CreateNetworkMetric(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var input models.NetworkMetricInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondError(c, userID, &apperr.Error{Kind: apperr.KindInvalidInput, Op: "bind", Message: "Latency and bandwidth are required", Err: err})
		return
	}
	if *input.Latency < 0 || *input.Bandwidth < 0 {
		h.respondError(c, userID, apperr.Invalid("Latency and bandwidth must not be negative"))
		return
	}

	metric := &models.NetworkMetric{
		UserID:     userID,
		Latency:    *input.Latency,
		Bandwidth:  *input.Bandwidth,
		PacketLoss: input.PacketLoss,
		Status:     input.Status,
		Metadata:   input.Metadata,
	}
	if metric.PacketLoss == nil {
		zero := 0.0
		metric.PacketLoss = &zero
	}
	if metric.Status == "" {
		metric.Status = "active"
	}

	h.runTool(c, userID, quota.FeatureNetwork, func(ctx context.Context, _ string) (toolResult, error) {
		if err := h.Store.InsertNetworkMetric(ctx, metric); err != nil {
			return toolResult{}, err
		}
		return toolResult{body: metric}, nil
	})
}

// ListNetworkMetrics returns samples for ?timeframe=day|week|month (default day).
func (h *Handlers) ListNetworkMetrics(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var window time.Duration
	switch c.DefaultQuery("timeframe", "day") {
	case "day":
		window = 24 * time.Hour
	case "week":
		window = 7 * 24 * time.Hour
	case "month":
		window = 30 * 24 * time.Hour
	default:
		h.respondError(c, userID, apperr.Invalid("timeframe must be day, week or month"))
		return
	}

	metrics, err := h.Store.ListNetworkMetrics(c.Request.Context(), userID, time.Now().UTC().Add(-window))
	if err != nil {
		h.respondError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}
