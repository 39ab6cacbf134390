package quota

import (
	"context"
	"fmt"

	"github.com/01moynul/aitools-golang/internal/apperr"
	"github.com/01moynul/aitools-golang/internal/metrics"
	"github.com/rs/zerolog/log"
)

// SubscriptionChecker reports whether a user holds an active paid plan.
type SubscriptionChecker interface {
	IsSubscribed(ctx context.Context, userID string) bool
}

// UsageReader returns a user's counter for a feature. A missing row is 0.
type UsageReader interface {
	GetFeatureUsage(ctx context.Context, userID string, feature Feature) (int, error)
}

// Gate checks free-tier allowances before a tool runs.
type Gate struct {
	subs   SubscriptionChecker
	usage  UsageReader
	limits Limits
}

func NewGate(subs SubscriptionChecker, usage UsageReader, limits Limits) *Gate {
	return &Gate{subs: subs, usage: usage, limits: limits}
}

// Limits returns the allowances the gate enforces.
func (g *Gate) Limits() Limits {
	return g.limits
}

// Resolve works out the caller's entitlement for feature. A nil error with
// a disallowed entitlement means the free allowance is used up. Missing
// limit configuration and store failures deny with an error.
func (g *Gate) Resolve(ctx context.Context, userID string, feature Feature) (Entitlement, error) {
	// 1. Subscribers are never metered
	if g.subs.IsSubscribed(ctx, userID) {
		metrics.RecordGateDecision(string(feature), "allowed_pro")
		return Entitlement{Kind: Unlimited, Feature: feature}, nil
	}

	// 2. Limit lookup
	limit, ok := g.limits.Limit(feature)
	if !ok {
		log.Error().
			Str("feature", string(feature)).
			Str("user_id", userID).
			Msg("No free limit configured for feature, denying")
		metrics.RecordGateDecision(string(feature), "error")
		return Entitlement{Kind: Limited, Feature: feature}, &apperr.Error{
			Kind: apperr.KindQuotaExceeded,
			Op:   "quota.Resolve",
			Err:  fmt.Errorf("%w: %s", ErrNoLimitConfigured, feature),
		}
	}

	// 3. Current counter
	used, err := g.usage.GetFeatureUsage(ctx, userID, feature)
	if err != nil {
		metrics.RecordGateDecision(string(feature), "error")
		return Entitlement{Kind: Limited, Feature: feature, Limit: limit}, apperr.Wrap(apperr.KindPersistence, "quota.Resolve", err)
	}

	ent := Entitlement{Kind: Limited, Feature: feature, Used: used, Limit: limit}
	if ent.Allowed() {
		metrics.RecordGateDecision(string(feature), "allowed_free")
	} else {
		metrics.RecordGateDecision(string(feature), "denied")
	}
	return ent, nil
}

// HasRemainingUsage reports whether the user may call feature now. Any
// failure counts as no.
func (g *Gate) HasRemainingUsage(ctx context.Context, userID string, feature Feature) bool {
	ent, err := g.Resolve(ctx, userID, feature)
	if err != nil {
		return false
	}
	return ent.Allowed()
}

// Authorize is Resolve plus the denial error a handler surfaces. A feature
// with a zero free allowance reports SubscriptionRequired instead of
// QuotaExceeded.
func (g *Gate) Authorize(ctx context.Context, userID string, feature Feature) (Entitlement, error) {
	ent, err := g.Resolve(ctx, userID, feature)
	if err != nil {
		return ent, err
	}
	if ent.Allowed() {
		return ent, nil
	}
	if ent.Limit == 0 {
		return ent, apperr.SubscriptionRequired
	}
	return ent, apperr.QuotaExceeded
}
