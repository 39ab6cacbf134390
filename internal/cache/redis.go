// Package cache keeps generated image results in Redis so repeated prompts
// skip the upstream call.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/01moynul/aitools-golang/internal/models"
	"github.com/go-redis/redis/v8"
)

const imageKeyPrefix = "image:"

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// ImageCache stores image generation results keyed by request parameters.
type ImageCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewImageCache(client *redis.Client, ttl time.Duration) *ImageCache {
	return &ImageCache{client: client, ttl: ttl}
}

// ImageKey hashes the normalized prompt, style and resolution.
func ImageKey(prompt, style, resolution string) string {
	raw := strings.ToLower(strings.TrimSpace(prompt)) + "|" +
		strings.ToLower(strings.TrimSpace(style)) + "|" +
		strings.ToLower(strings.TrimSpace(resolution))
	sum := sha256.Sum256([]byte(raw))
	return imageKeyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached images for key. A miss returns ok == false and no error.
func (c *ImageCache) Get(ctx context.Context, key string) ([]models.GeneratedImage, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var images []models.GeneratedImage
	if err := json.Unmarshal(raw, &images); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return images, true, nil
}

// Set stores images under key with the cache TTL.
func (c *ImageCache) Set(ctx context.Context, key string, images []models.GeneratedImage) error {
	raw, err := json.Marshal(images)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
