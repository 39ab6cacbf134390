package handlers

import (
	"context"
	"time"

	"github.com/01moynul/aitools-golang/internal/ai"
	"github.com/01moynul/aitools-golang/internal/config"
	"github.com/01moynul/aitools-golang/internal/models"
	"github.com/01moynul/aitools-golang/internal/quota"
)

// Store is the persistence the handlers need.
type Store interface {
	Ping(ctx context.Context) error
	GetApiLimitCount(ctx context.Context, userID string) (int, error)
	ListFeatureUsage(ctx context.Context, userID string) (map[quota.Feature]int, error)
	CreateConversation(ctx context.Context, conv *models.Conversation, msgs []models.Message) error
	AppendMessages(ctx context.Context, userID, conversationID string, msgs []models.Message) error
	GetConversation(ctx context.Context, userID, conversationID string) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]models.Conversation, error)
	InsertAnalyticsEvent(ctx context.Context, ev *models.AnalyticsEvent) error
	InsertNetworkMetric(ctx context.Context, m *models.NetworkMetric) error
	ListNetworkMetrics(ctx context.Context, userID string, since time.Time) ([]models.NetworkMetric, error)
}

// Gate resolves a caller's entitlement and returns the denial error when
// the call may not proceed.
type Gate interface {
	Authorize(ctx context.Context, userID string, feature quota.Feature) (quota.Entitlement, error)
}

type UsageRecorder interface {
	RecordUsage(ctx context.Context, userID string, feature quota.Feature) error
}

type SubscriptionStatus interface {
	Status(ctx context.Context, userID string) (*models.UserSubscription, bool)
}

type ImageCache interface {
	Get(ctx context.Context, key string) ([]models.GeneratedImage, bool, error)
	Set(ctx context.Context, key string, images []models.GeneratedImage) error
}

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Store    Store
	Gate     Gate
	Recorder UsageRecorder
	Billing  SubscriptionStatus
	Limits   quota.Limits

	TextAI   ai.TextGenerator
	ImageAI  ai.ImageGenerator
	SpeechAI ai.SpeechSynthesizer
	VideoAI  ai.VideoGenerator

	// ImageCache is optional; nil disables caching.
	ImageCache ImageCache
	ImageRetry ai.RetryConfig

	PayPal     config.PayPalConfig
	Production bool
}
