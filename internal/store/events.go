package store

import (
	"context"
	"fmt"

	"simple-ecommerce/internal/models"
)

// RecordOrderStatus appends a status history entry and marks the event
// processed in one transaction. It reports false when the event was
// already recorded.
func (s *Store) RecordOrderStatus(ctx context.Context, eventID, eventType string, orderID int64, status string) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	if err != nil {
		return false, fmt.Errorf("failed to mark event processed: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return false, err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO order_status_history (order_id, status, event_id) VALUES ($1, $2, $3)",
		orderID, status, eventID); err != nil {
		return false, fmt.Errorf("failed to insert status history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit status history: %w", err)
	}
	return true, nil
}

// ListOrderHistory retrieves an order's status timeline, oldest first
func (s *Store) ListOrderHistory(ctx context.Context, orderID int64) ([]models.OrderStatusChange, error) {
	history := []models.OrderStatusChange{}
	err := s.db.SelectContext(ctx, &history,
		"SELECT * FROM order_status_history WHERE order_id = $1 ORDER BY changed_at, id", orderID)
	return history, err
}
