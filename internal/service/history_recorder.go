package service

import (
	"context"
	"fmt"

	"simple-ecommerce/internal/models"
	"simple-ecommerce/internal/util"

	"go.uber.org/zap"
)

// HistoryRecorder turns consumed order events into the status timeline.
// Redelivered events are recorded once.
type HistoryRecorder struct {
	repo   HistoryRepository
	logger *zap.Logger
}

// NewHistoryRecorder creates a new history recorder
func NewHistoryRecorder(repo HistoryRepository) *HistoryRecorder {
	return &HistoryRecorder{repo: repo, logger: util.GetLogger()}
}

// HandleOrderPlaced records the initial PLACED entry
func (hr *HistoryRecorder) HandleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	ctx, span := util.StartSpan(ctx, "HistoryRecorder.HandleOrderPlaced")
	defer span.End()

	return hr.record(ctx, event.BaseEvent, event.OrderID, models.OrderStatusPlaced)
}

// HandleOrderStatusChanged records an admin status change
func (hr *HistoryRecorder) HandleOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	ctx, span := util.StartSpan(ctx, "HistoryRecorder.HandleOrderStatusChanged")
	defer span.End()

	return hr.record(ctx, event.BaseEvent, event.OrderID, event.Status)
}

func (hr *HistoryRecorder) record(ctx context.Context, base models.BaseEvent, orderID int64, status string) error {
	recorded, err := hr.repo.RecordOrderStatus(ctx, base.EventID, base.EventType, orderID, status)
	if err != nil {
		util.EventsConsumedTotal.WithLabelValues(base.EventType, "error").Inc()
		return fmt.Errorf("failed to record order status: %w", err)
	}

	if !recorded {
		util.EventsConsumedTotal.WithLabelValues(base.EventType, "duplicate").Inc()
		hr.logger.Info("Event already processed", zap.String("event_id", base.EventID))
		return nil
	}

	util.EventsConsumedTotal.WithLabelValues(base.EventType, "recorded").Inc()
	hr.logger.Info("Order status recorded",
		zap.Int64("order_id", orderID),
		zap.String("status", status),
		zap.String("event_id", base.EventID))
	return nil
}
