package store

import (
	"context"

	"github.com/01moynul/aitools-golang/internal/apperr"
	"github.com/01moynul/aitools-golang/internal/models"
)

// InsertAnalyticsEvent stores one analytics event.
func (s *Store) InsertAnalyticsEvent(ctx context.Context, ev *models.AnalyticsEvent) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = s.now()
	}
	var metadata any
	if len(ev.Metadata) > 0 {
		metadata = string(ev.Metadata)
	}

	query := `
		INSERT INTO analytics (user_id, event_type, feature, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, query, ev.UserID, ev.EventType, ev.Feature, metadata, ev.CreatedAt)
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, "store.InsertAnalyticsEvent", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		ev.ID = id
	}
	return nil
}
