package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/01moynul/aitools-golang/internal/apperr"
	"github.com/01moynul/aitools-golang/internal/models"
)

// InsertNetworkMetric stores one metric sample and fills in its id and timestamp.
func (s *Store) InsertNetworkMetric(ctx context.Context, m *models.NetworkMetric) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.now()
	}
	var metadata any
	if len(m.Metadata) > 0 {
		metadata = string(m.Metadata)
	}

	query := `
		INSERT INTO network_metric (user_id, latency, bandwidth, packet_loss, status, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, query, m.UserID, m.Latency, m.Bandwidth, m.PacketLoss, m.Status, metadata, m.CreatedAt)
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, "store.InsertNetworkMetric", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, "store.InsertNetworkMetric", err)
	}
	m.ID = id
	return nil
}

// ListNetworkMetrics returns the user's samples taken at or after since, oldest first.
func (s *Store) ListNetworkMetrics(ctx context.Context, userID string, since time.Time) ([]models.NetworkMetric, error) {
	query := `
		SELECT id, user_id, latency, bandwidth, packet_loss, status, metadata, created_at
		FROM network_metric
		WHERE user_id = ? AND created_at >= ?
		ORDER BY created_at ASC, id ASC
	`
	rows, err := s.reader.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "store.ListNetworkMetrics", err)
	}
	defer rows.Close()

	metrics := []models.NetworkMetric{}
	for rows.Next() {
		var (
			m          models.NetworkMetric
			packetLoss sql.NullFloat64
			metadata   sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.UserID, &m.Latency, &m.Bandwidth, &packetLoss, &m.Status, &metadata, &m.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindPersistence, "store.ListNetworkMetrics", err)
		}
		if packetLoss.Valid {
			v := packetLoss.Float64
			m.PacketLoss = &v
		}
		if metadata.Valid && metadata.String != "" {
			m.Metadata = json.RawMessage(metadata.String)
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "store.ListNetworkMetrics", err)
	}
	return metrics, nil
}
