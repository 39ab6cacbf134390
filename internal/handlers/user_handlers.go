package handlers

import (
	"net/http"

	"github.com/01moynul/aitools-golang/internal/apperr"
	"github.com/01moynul/aitools-golang/internal/models"
	"github.com/01moynul/aitools-golang/internal/quota"
	"github.com/gin-gonic/gin"
)

// ApiUsage reports the caller's lifetime call count, remaining free calls
// and a per-feature breakdown. Subscribers get null limits.
func (h *Handlers) ApiUsage(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	_, isPro := h.Billing.Status(ctx, userID)

	count, err := h.Store.GetApiLimitCount(ctx, userID)
	if err != nil {
		h.respondError(c, userID, err)
		return
	}
	used, err := h.Store.ListFeatureUsage(ctx, userID)
	if err != nil {
		h.respondError(c, userID, err)
		return
	}

	resp := models.ApiUsageResponse{
		ApiLimitCount: count,
		IsPro:         isPro,
		Features:      make(map[string]models.FeatureUsage, len(h.Limits)),
	}

	totalRemaining := 0
	for _, feature := range quota.AllFeatures() {
		entry := models.FeatureUsage{Used: used[feature]}
		if limit, ok := h.Limits.Limit(feature); ok && !isPro {
			ent := quota.Entitlement{Kind: quota.Limited, Feature: feature, Used: used[feature], Limit: limit}
			remaining := ent.Remaining()
			entry.Limit = &limit
			entry.Remaining = &remaining
			totalRemaining += remaining
		}
		resp.Features[string(feature)] = entry
	}
	if !isPro {
		resp.RemainingFreeCredits = &totalRemaining
	}

	c.JSON(http.StatusOK, resp)
}

// PayPalClientToken exposes the public PayPal client configuration.
func (h *Handlers) PayPalClientToken(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	if h.PayPal.ClientID == "" || h.PayPal.APIBase == "" {
		h.respondError(c, userID, apperr.New(apperr.KindUnknown, "paypal.ClientToken", "PayPal configuration missing"))
		return
	}

	environment := "sandbox"
	if h.Production {
		environment = "production"
	}
	c.JSON(http.StatusOK, gin.H{
		"clientId":    h.PayPal.ClientID,
		"apiBase":     h.PayPal.APIBase,
		"environment": environment,
	})
}

// Health reports whether the database answers.
func (h *Handlers) Health(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
