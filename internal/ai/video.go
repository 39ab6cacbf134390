package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/01moynul/aitools-golang/internal/config"
)

const providerReplicate = "replicate"

// ReplicateClient renders videos through a Replicate-compatible predictions API.
type ReplicateClient struct {
	httpClient   *http.Client
	apiURL       string
	token        string
	version      string
	timeout      time.Duration
	pollInterval time.Duration
}

func NewReplicateClient(cfg config.VideoConfig) *ReplicateClient {
	return &ReplicateClient{
		httpClient:   &http.Client{},
		apiURL:       cfg.APIURL,
		token:        cfg.APIToken,
		version:      cfg.Version,
		timeout:      cfg.Timeout,
		pollInterval: 2 * time.Second,
	}
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  any             `json:"error"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

// GenerateVideo starts a prediction, waits for it to finish and returns the
// first output URL.
func (c *ReplicateClient) GenerateVideo(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	url, err := c.run(ctx, prompt)
	if err != nil {
		err = Classify("replicate.GenerateVideo", err)
	}
	observe(providerReplicate, "video", start, err)
	return url, err
}

func (c *ReplicateClient) run(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"version": c.version,
		"input":   map[string]string{"prompt": prompt},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "wait")

	p, err := c.do(req)
	if err != nil {
		return "", err
	}

	for {
		switch p.Status {
		case "succeeded":
			return firstOutput(p.Output)
		case "failed", "canceled":
			return "", fmt.Errorf("prediction %s %s: %v", p.ID, p.Status, p.Error)
		}
		if p.URLs.Get == "" {
			return "", fmt.Errorf("prediction %s is %s with no poll URL", p.ID, p.Status)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URLs.Get, nil)
		if err != nil {
			return "", err
		}
		if p, err = c.do(req); err != nil {
			return "", err
		}
	}
}

func (c *ReplicateClient) do(req *http.Request) (*prediction, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var p prediction
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode prediction: %w", err)
	}
	return &p, nil
}

// firstOutput accepts either a single URL or a list of URLs.
func firstOutput(raw json.RawMessage) (string, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return single, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0], nil
	}
	return "", fmt.Errorf("prediction has no usable output: %s", string(raw))
}
