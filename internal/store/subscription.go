package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/01moynul/aitools-golang/internal/apperr"
	"github.com/01moynul/aitools-golang/internal/models"
)

// GetSubscription loads the user's subscription record. A user without one
// gets an error matching apperr.NotFound.
func (s *Store) GetSubscription(ctx context.Context, userID string) (*models.UserSubscription, error) {
	query := `
		SELECT id, user_id, subscription_id, status, current_period_end, created_at, updated_at
		FROM user_subscription
		WHERE user_id = ?
	`

	var sub models.UserSubscription
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.SubscriptionID,
		&sub.Status,
		&sub.CurrentPeriodEnd,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.KindNotFound, "store.GetSubscription", err)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "store.GetSubscription", err)
	}
	return &sub, nil
}
