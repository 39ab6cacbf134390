package handlers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/01moynul/aitools-golang/internal/ai"
	"github.com/01moynul/aitools-golang/internal/apperr"
	"github.com/01moynul/aitools-golang/internal/models"
	"github.com/01moynul/aitools-golang/internal/quota"
)

// memStore is an in-memory Store that also serves as the gate's usage
// reader and the recorder's writer.
type memStore struct {
	mu sync.Mutex

	usage    map[string]int
	apiCount map[string]int
	reads    int
	readErr  error

	conversations map[string]*models.Conversation
	nextConvID    int
	events        []models.AnalyticsEvent
	metrics       []models.NetworkMetric
	pingErr       error
}

func newMemStore() *memStore {
	return &memStore{
		usage:         map[string]int{},
		apiCount:      map[string]int{},
		conversations: map[string]*models.Conversation{},
	}
}

func usageKey(userID string, feature quota.Feature) string {
	return userID + "/" + string(feature)
}

func (s *memStore) count(userID string, feature quota.Feature) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usage[usageKey(userID, feature)]
}

func (s *memStore) GetFeatureUsage(_ context.Context, userID string, feature quota.Feature) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.readErr != nil {
		return 0, s.readErr
	}
	return s.usage[usageKey(userID, feature)], nil
}

func (s *memStore) IncrementUsage(_ context.Context, userID string, feature quota.Feature) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage[usageKey(userID, feature)]++
	s.apiCount[userID]++
	return nil
}

func (s *memStore) Ping(context.Context) error {
	return s.pingErr
}

func (s *memStore) GetApiLimitCount(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiCount[userID], nil
}

func (s *memStore) ListFeatureUsage(_ context.Context, userID string) (map[quota.Feature]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[quota.Feature]int{}
	for _, f := range quota.AllFeatures() {
		if n, ok := s.usage[usageKey(userID, f)]; ok {
			out[f] = n
		}
	}
	return out, nil
}

func (s *memStore) CreateConversation(_ context.Context, conv *models.Conversation, msgs []models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextConvID++
	conv.ID = fmt.Sprintf("conv-%d", s.nextConvID)
	stored := *conv
	for _, m := range msgs {
		m.ConversationID = conv.ID
		stored.Messages = append(stored.Messages, m)
	}
	s.conversations[conv.ID] = &stored
	return nil
}

func (s *memStore) AppendMessages(_ context.Context, userID, conversationID string, msgs []models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[conversationID]
	if !ok || conv.UserID != userID {
		return apperr.New(apperr.KindNotFound, "memStore.AppendMessages", "Conversation not found")
	}
	for _, m := range msgs {
		m.ConversationID = conversationID
		conv.Messages = append(conv.Messages, m)
	}
	return nil
}

func (s *memStore) GetConversation(_ context.Context, userID, conversationID string) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[conversationID]
	if !ok || conv.UserID != userID {
		return nil, apperr.New(apperr.KindNotFound, "memStore.GetConversation", "Conversation not found")
	}
	out := *conv
	out.Messages = append([]models.Message(nil), conv.Messages...)
	return &out, nil
}

func (s *memStore) ListConversations(_ context.Context, userID string) ([]models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Conversation
	for i := s.nextConvID; i >= 1; i-- {
		if conv, ok := s.conversations[fmt.Sprintf("conv-%d", i)]; ok && conv.UserID == userID {
			out = append(out, *conv)
		}
	}
	return out, nil
}

func (s *memStore) InsertAnalyticsEvent(_ context.Context, ev *models.AnalyticsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *ev)
	return nil
}

func (s *memStore) InsertNetworkMetric(_ context.Context, m *models.NetworkMetric) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = int64(len(s.metrics) + 1)
	m.CreatedAt = time.Now().UTC()
	s.metrics = append(s.metrics, *m)
	return nil
}

func (s *memStore) ListNetworkMetrics(_ context.Context, userID string, since time.Time) ([]models.NetworkMetric, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.NetworkMetric
	for _, m := range s.metrics {
		if m.UserID == userID && !m.CreatedAt.Before(since) {
			out = append(out, m)
		}
	}
	return out, nil
}

// proUsers answers both the gate and the usage report.
type proUsers map[string]bool

func (p proUsers) IsSubscribed(_ context.Context, userID string) bool {
	return p[userID]
}

func (p proUsers) Status(_ context.Context, userID string) (*models.UserSubscription, bool) {
	if !p[userID] {
		return nil, false
	}
	return &models.UserSubscription{UserID: userID, Status: models.SubscriptionStatusActive}, true
}

type fakeText struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
	last  ai.ChatRequest
}

func (f *fakeText) Chat(_ context.Context, req ai.ChatRequest) (ai.ChatResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	if f.err != nil {
		return ai.ChatResult{}, f.err
	}
	return ai.ChatResult{Message: models.ChatMessage{Role: models.RoleAssistant, Content: f.reply}}, nil
}

type fakeImages struct {
	mu    sync.Mutex
	err   error
	calls int
	last  ai.ImageRequest
}

func (f *fakeImages) GenerateImages(_ context.Context, req ai.ImageRequest) ([]models.GeneratedImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	images := make([]models.GeneratedImage, req.N)
	for i := range images {
		images[i] = models.GeneratedImage{URL: fmt.Sprintf("https://img.example/%d.png", i)}
	}
	return images, nil
}

type fakeSpeech struct {
	voice string
}

func (f *fakeSpeech) Synthesize(_ context.Context, _ string, voice string) ([]byte, error) {
	f.voice = voice
	return []byte("mp3"), nil
}

type fakeVideo struct{}

func (fakeVideo) GenerateVideo(context.Context, string) (string, error) {
	return "https://video.example/out.mp4", nil
}

type memImageCache struct {
	mu      sync.Mutex
	entries map[string][]models.GeneratedImage
}

func (c *memImageCache) Get(_ context.Context, key string) ([]models.GeneratedImage, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	images, ok := c.entries[key]
	return images, ok, nil
}

func (c *memImageCache) Set(_ context.Context, key string, images []models.GeneratedImage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = map[string][]models.GeneratedImage{}
	}
	c.entries[key] = images
	return nil
}

type failingRecorder struct{}

func (failingRecorder) RecordUsage(context.Context, string, quota.Feature) error {
	return apperr.Wrap(apperr.KindPersistence, "failingRecorder", fmt.Errorf("deadlock found"))
}
