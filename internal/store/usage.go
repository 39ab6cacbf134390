package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/01moynul/aitools-golang/internal/apperr"
	"github.com/01moynul/aitools-golang/internal/quota"
)

// GetFeatureUsage returns the user's counter for feature. A user who never
// used the feature has no row, which reads as 0.
func (s *Store) GetFeatureUsage(ctx context.Context, userID string, feature quota.Feature) (int, error) {
	query := `SELECT count FROM user_feature_usage WHERE user_id = ? AND feature_type = ?`

	var count int
	err := s.db.QueryRowContext(ctx, query, userID, string(feature)).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, apperr.Wrap(apperr.KindPersistence, "store.GetFeatureUsage", err)
	}
	return count, nil
}

// ListFeatureUsage returns every counter the user has, keyed by feature.
func (s *Store) ListFeatureUsage(ctx context.Context, userID string) (map[quota.Feature]int, error) {
	query := `SELECT feature_type, count FROM user_feature_usage WHERE user_id = ?`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "store.ListFeatureUsage", err)
	}
	defer rows.Close()

	usage := make(map[quota.Feature]int)
	for rows.Next() {
		var (
			feature string
			count   int
		)
		if err := rows.Scan(&feature, &count); err != nil {
			return nil, apperr.Wrap(apperr.KindPersistence, "store.ListFeatureUsage", err)
		}
		usage[quota.Feature(feature)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "store.ListFeatureUsage", err)
	}
	return usage, nil
}

// GetApiLimitCount returns the user's lifetime metered call count.
func (s *Store) GetApiLimitCount(ctx context.Context, userID string) (int, error) {
	query := `SELECT count FROM user_api_limit WHERE user_id = ?`

	var count int
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, apperr.Wrap(apperr.KindPersistence, "store.GetApiLimitCount", err)
	}
	return count, nil
}

// IncrementUsage adds one to the user's feature counter and to the lifetime
// counter in a single transaction. Each upsert is an atomic increment at
// the storage layer, so concurrent calls never lose an update.
func (s *Store) IncrementUsage(ctx context.Context, userID string, feature quota.Feature) error {
	return s.withTx(ctx, "store.IncrementUsage", func(tx *sql.Tx) error {
		featureQuery := `
			INSERT INTO user_feature_usage (user_id, feature_type, count)
			VALUES (?, ?, 1)
			ON DUPLICATE KEY UPDATE count = count + 1
		`
		if _, err := tx.ExecContext(ctx, featureQuery, userID, string(feature)); err != nil {
			return fmt.Errorf("feature counter: %w", err)
		}

		limitQuery := `
			INSERT INTO user_api_limit (user_id, count)
			VALUES (?, 1)
			ON DUPLICATE KEY UPDATE count = count + 1
		`
		if _, err := tx.ExecContext(ctx, limitQuery, userID); err != nil {
			return fmt.Errorf("api limit counter: %w", err)
		}
		return nil
	})
}
