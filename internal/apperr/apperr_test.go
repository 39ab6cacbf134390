package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindInvalidInput, http.StatusBadRequest},
		{KindQuotaExceeded, http.StatusForbidden},
		{KindSubscriptionRequired, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindUpstreamRateLimited, http.StatusTooManyRequests},
		{KindUpstreamBilling, http.StatusPaymentRequired},
		{KindUpstreamTimeout, http.StatusGatewayTimeout},
		{KindPersistence, http.StatusInternalServerError},
		{KindUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Status())
		})
	}
}

func TestWrapKeepsChain(t *testing.T) {
	root := errors.New("connection refused")
	err := fmt.Errorf("loading counter: %w", Wrap(KindPersistence, "store.GetFeatureUsage", root))

	assert.True(t, errors.Is(err, root))
	assert.True(t, errors.Is(err, Persistence))
	assert.False(t, errors.Is(err, QuotaExceeded))
	assert.Equal(t, KindPersistence, KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, Status(err))
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(KindPersistence, "op", nil))
}

func TestPublicMessageHidesInternalDetail(t *testing.T) {
	err := Wrap(KindPersistence, "store.CreateConversation", errors.New("Error 1045: Access denied for user 'root'"))
	assert.Equal(t, "Internal error", PublicMessage(err))

	assert.Equal(t, "Internal error", PublicMessage(errors.New("boom")))
	assert.Equal(t, "Prompt is required", PublicMessage(Invalid("Prompt is required")))
	assert.Contains(t, PublicMessage(QuotaExceeded), "upgrade to pro")
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}
