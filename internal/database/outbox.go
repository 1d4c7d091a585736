package database

import (
	"context"
	"fmt"
	"time"

	"github.com/01moynul/storefront-golang/internal/models"
)

const queryPendingOutbox = `SELECT id, event_id, topic, message_key, payload, created_at
	FROM outbox WHERE sent_at IS NULL ORDER BY id LIMIT ?`

func (s *Store) PendingOutbox(ctx context.Context, limit int) ([]models.OutboxMessage, error) {
	rows, err := s.DB.QueryContext(ctx, queryPendingOutbox, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var msgs []models.OutboxMessage
	for rows.Next() {
		var m models.OutboxMessage
		if err := rows.Scan(&m.ID, &m.EventID, &m.Topic, &m.Key, &m.Payload, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *Store) MarkOutboxSent(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE outbox SET sent_at = ? WHERE id IN (` + placeholders(len(ids)) + `)`
	args := append([]any{time.Now().UTC()}, int64Args(ids)...)
	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark outbox sent: %w", err)
	}
	return nil
}
