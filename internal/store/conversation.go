package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/01moynul/aitools-golang/internal/apperr"
	"github.com/01moynul/aitools-golang/internal/models"
	"github.com/google/uuid"
)

// newMessageID returns a time-ordered id so (created_at, id) sorts messages
// in insertion order even when timestamps collide.
func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// CreateConversation inserts a conversation and its first messages. Empty
// ids and timestamps are filled in on conv and msgs.
func (s *Store) CreateConversation(ctx context.Context, conv *models.Conversation, msgs []models.Message) error {
	now := s.now()
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	conv.CreatedAt = now
	conv.UpdatedAt = now

	err := s.withTx(ctx, "store.CreateConversation", func(tx *sql.Tx) error {
		query := `
			INSERT INTO conversation (id, user_id, title, feature_type, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`
		if _, err := tx.ExecContext(ctx, query, conv.ID, conv.UserID, conv.Title, conv.FeatureType, conv.CreatedAt, conv.UpdatedAt); err != nil {
			return fmt.Errorf("insert conversation: %w", err)
		}
		return s.insertMessages(ctx, tx, conv.ID, msgs, now)
	})
	if err != nil {
		return err
	}
	conv.Messages = msgs
	return nil
}

// AppendMessages adds messages to a conversation owned by userID and bumps
// its updated_at. A missing or foreign conversation matches apperr.NotFound.
func (s *Store) AppendMessages(ctx context.Context, userID, conversationID string, msgs []models.Message) error {
	now := s.now()
	return s.withTx(ctx, "store.AppendMessages", func(tx *sql.Tx) error {
		query := `UPDATE conversation SET updated_at = ? WHERE id = ? AND user_id = ?`
		res, err := tx.ExecContext(ctx, query, now, conversationID, userID)
		if err != nil {
			return fmt.Errorf("touch conversation: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("touch conversation: %w", err)
		}
		if n == 0 {
			return apperr.New(apperr.KindNotFound, "store.AppendMessages", "Conversation not found")
		}
		return s.insertMessages(ctx, tx, conversationID, msgs, now)
	})
}

func (s *Store) insertMessages(ctx context.Context, tx *sql.Tx, conversationID string, msgs []models.Message, now time.Time) error {
	query := `
		INSERT INTO message (id, conversation_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	for i := range msgs {
		m := &msgs[i]
		if m.ID == "" {
			m.ID = newMessageID()
		}
		m.ConversationID = conversationID
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		if _, err := tx.ExecContext(ctx, query, m.ID, m.ConversationID, m.Role, m.Content, m.CreatedAt); err != nil {
			return fmt.Errorf("insert message %d: %w", i, err)
		}
	}
	return nil
}

// GetConversation loads one conversation with its messages, oldest first.
// Conversations owned by another user are reported as not found.
func (s *Store) GetConversation(ctx context.Context, userID, conversationID string) (*models.Conversation, error) {
	query := `
		SELECT id, user_id, title, feature_type, created_at, updated_at
		FROM conversation
		WHERE id = ? AND user_id = ?
	`
	var conv models.Conversation
	err := s.db.QueryRowContext(ctx, query, conversationID, userID).Scan(
		&conv.ID, &conv.UserID, &conv.Title, &conv.FeatureType, &conv.CreatedAt, &conv.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "store.GetConversation", "Conversation not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "store.GetConversation", err)
	}

	msgQuery := `
		SELECT id, conversation_id, role, content, created_at
		FROM message
		WHERE conversation_id = ?
		ORDER BY created_at ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, msgQuery, conv.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "store.GetConversation", err)
	}
	defer rows.Close()

	conv.Messages = []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindPersistence, "store.GetConversation", err)
		}
		conv.Messages = append(conv.Messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "store.GetConversation", err)
	}
	return &conv, nil
}

// ListConversations returns the user's conversations, newest first, each
// with its messages oldest first.
func (s *Store) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	query := `
		SELECT c.id, c.user_id, c.title, c.feature_type, c.created_at, c.updated_at,
		       m.id, m.role, m.content, m.created_at
		FROM conversation c
		LEFT JOIN message m ON m.conversation_id = c.id
		WHERE c.user_id = ?
		ORDER BY c.created_at DESC, c.id ASC, m.created_at ASC, m.id ASC
	`
	rows, err := s.reader.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "store.ListConversations", err)
	}
	defer rows.Close()

	conversations := []models.Conversation{}
	for rows.Next() {
		var (
			conv      models.Conversation
			msgID     sql.NullString
			role      sql.NullString
			content   sql.NullString
			createdAt sql.NullTime
		)
		if err := rows.Scan(
			&conv.ID, &conv.UserID, &conv.Title, &conv.FeatureType, &conv.CreatedAt, &conv.UpdatedAt,
			&msgID, &role, &content, &createdAt,
		); err != nil {
			return nil, apperr.Wrap(apperr.KindPersistence, "store.ListConversations", err)
		}

		// Rows arrive grouped by conversation.
		if n := len(conversations); n == 0 || conversations[n-1].ID != conv.ID {
			conv.Messages = []models.Message{}
			conversations = append(conversations, conv)
		}
		if msgID.Valid {
			last := &conversations[len(conversations)-1]
			last.Messages = append(last.Messages, models.Message{
				ID:             msgID.String,
				ConversationID: conv.ID,
				Role:           role.String,
				Content:        content.String,
				CreatedAt:      createdAt.Time,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "store.ListConversations", err)
	}
	return conversations, nil
}
