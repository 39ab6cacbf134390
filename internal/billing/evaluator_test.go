package billing

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/01moynul/aitools-golang/internal/apperr"
	"github.com/01moynul/aitools-golang/internal/models"
	"github.com/stretchr/testify/assert"
)

type fakeSubscriptions struct {
	subs map[string]*models.UserSubscription
	err  error
}

func (f fakeSubscriptions) GetSubscription(_ context.Context, userID string) (*models.UserSubscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	sub, ok := f.subs[userID]
	if !ok {
		return nil, apperr.Wrap(apperr.KindNotFound, "fake", sql.ErrNoRows)
	}
	return sub, nil
}

func TestIsSubscribed(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		sub  *models.UserSubscription
		want bool
	}{
		{"no record", nil, false},
		{"active future period", &models.UserSubscription{Status: "active", CurrentPeriodEnd: now.Add(30 * 24 * time.Hour)}, true},
		{"active within grace", &models.UserSubscription{Status: "active", CurrentPeriodEnd: now.Add(-23 * time.Hour)}, true},
		{"active at grace boundary", &models.UserSubscription{Status: "active", CurrentPeriodEnd: now.Add(-24 * time.Hour)}, true},
		{"active one second past grace", &models.UserSubscription{Status: "active", CurrentPeriodEnd: now.Add(-24*time.Hour - time.Second)}, false},
		{"active past grace", &models.UserSubscription{Status: "active", CurrentPeriodEnd: now.Add(-25 * time.Hour)}, false},
		{"cancelled future period", &models.UserSubscription{Status: "cancelled", CurrentPeriodEnd: now.Add(time.Hour)}, false},
		{"suspended within grace", &models.UserSubscription{Status: "suspended", CurrentPeriodEnd: now.Add(-time.Hour)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs := fakeSubscriptions{subs: map[string]*models.UserSubscription{}}
			if tt.sub != nil {
				subs.subs["user_1"] = tt.sub
			}
			e := NewEvaluator(subs, DefaultGrace)
			e.now = func() time.Time { return now }

			assert.Equal(t, tt.want, e.IsSubscribed(context.Background(), "user_1"))
		})
	}
}

func TestIsSubscribedFailsClosed(t *testing.T) {
	e := NewEvaluator(fakeSubscriptions{err: apperr.Wrap(apperr.KindPersistence, "fake", errors.New("db down"))}, DefaultGrace)
	assert.False(t, e.IsSubscribed(context.Background(), "user_1"))

	sub, ok := e.Status(context.Background(), "user_1")
	assert.Nil(t, sub)
	assert.False(t, ok)
}

func TestZeroGrace(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	subs := fakeSubscriptions{subs: map[string]*models.UserSubscription{
		"user_1": {Status: "active", CurrentPeriodEnd: now.Add(-time.Minute)},
	}}
	e := NewEvaluator(subs, 0)
	e.now = func() time.Time { return now }

	assert.False(t, e.IsSubscribed(context.Background(), "user_1"))
}
