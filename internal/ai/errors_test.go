package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/01moynul/aitools-golang/internal/apperr"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{"openai rate limit", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "Rate limit reached", Code: "rate_limit_exceeded"}, apperr.KindUpstreamRateLimited},
		{"openai insufficient quota", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "You exceeded your current quota", Code: "insufficient_quota"}, apperr.KindUpstreamBilling},
		{"billing message", errors.New("billing hard limit has been reached"), apperr.KindUpstreamBilling},
		{"payment required", &StatusError{StatusCode: http.StatusPaymentRequired, Body: "payment required"}, apperr.KindUpstreamBilling},
		{"request error 429", &openai.RequestError{HTTPStatusCode: http.StatusTooManyRequests, Err: errors.New("slow down")}, apperr.KindUpstreamRateLimited},
		{"gemini 429", &googleapi.Error{Code: http.StatusTooManyRequests, Message: "RESOURCE_EXHAUSTED"}, apperr.KindUpstreamRateLimited},
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), apperr.KindUpstreamTimeout},
		{"gateway timeout", &StatusError{StatusCode: http.StatusGatewayTimeout}, apperr.KindUpstreamTimeout},
		{"server error", &openai.APIError{HTTPStatusCode: http.StatusInternalServerError, Message: "boom"}, apperr.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify("test", tt.err)
			assert.Equal(t, tt.want, apperr.KindOf(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestClassifyKeepsClassifiedErrors(t *testing.T) {
	err := apperr.Wrap(apperr.KindUpstreamTimeout, "inner", errors.New("slow"))
	assert.Same(t, err, Classify("outer", err))
	assert.NoError(t, Classify("op", nil))
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(apperr.UpstreamRateLimited))
	assert.True(t, Retryable(apperr.UpstreamTimeout))
	assert.False(t, Retryable(apperr.UpstreamBilling))
	assert.False(t, Retryable(errors.New("other")))
}
