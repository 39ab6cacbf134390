// Package billing answers whether a user currently holds a paid plan.
package billing

import (
	"context"
	"errors"
	"time"

	"github.com/01moynul/aitools-golang/internal/apperr"
	"github.com/01moynul/aitools-golang/internal/models"
	"github.com/rs/zerolog/log"
)

// DefaultGrace keeps a subscription usable for a day past its period end
// while the payment provider renews it.
const DefaultGrace = 24 * time.Hour

// SubscriptionReader loads a user's subscription. A user without one must
// yield an error matching apperr.NotFound.
type SubscriptionReader interface {
	GetSubscription(ctx context.Context, userID string) (*models.UserSubscription, error)
}

type Evaluator struct {
	subs  SubscriptionReader
	grace time.Duration
	now   func() time.Time
}

func NewEvaluator(subs SubscriptionReader, grace time.Duration) *Evaluator {
	return &Evaluator{subs: subs, grace: grace, now: time.Now}
}

// Status returns the user's subscription record and whether it currently
// grants pro access. The record is nil when there is none or it could not be read.
func (e *Evaluator) Status(ctx context.Context, userID string) (*models.UserSubscription, bool) {
	sub, err := e.subs.GetSubscription(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperr.NotFound) {
			log.Error().Err(err).Str("user_id", userID).Msg("Subscription lookup failed, treating user as free tier")
		}
		return nil, false
	}
	return sub, e.active(sub)
}

// IsSubscribed reports whether the user may bypass free limits. Lookup
// failures answer false.
func (e *Evaluator) IsSubscribed(ctx context.Context, userID string) bool {
	_, ok := e.Status(ctx, userID)
	return ok
}

func (e *Evaluator) active(sub *models.UserSubscription) bool {
	if sub.Status != models.SubscriptionStatusActive {
		return false
	}
	// Inclusive: a period ending exactly now plus grace is still paid.
	return !sub.CurrentPeriodEnd.Add(e.grace).Before(e.now())
}
