package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"simple-ecommerce/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: value}
}

func TestHandleMessageRoutesByType(t *testing.T) {
	handler := NewEventHandler()

	var placed *models.OrderPlacedEvent
	var changed *models.OrderStatusChangedEvent
	handler.OnOrderPlaced(func(_ context.Context, e *models.OrderPlacedEvent) error {
		placed = e
		return nil
	})
	handler.OnOrderStatusChanged(func(_ context.Context, e *models.OrderStatusChangedEvent) error {
		changed = e
		return nil
	})

	ctx := context.Background()
	err := handler.HandleMessage(ctx, message(t, &models.OrderPlacedEvent{
		BaseEvent:  models.BaseEvent{EventID: "a", EventType: models.EventTypeOrderPlaced, Timestamp: time.Now()},
		OrderID:    3,
		FinalTotal: decimal.RequireFromString("12.50"),
	}))
	require.NoError(t, err)
	require.NotNil(t, placed)
	assert.Equal(t, int64(3), placed.OrderID)
	assert.True(t, decimal.RequireFromString("12.5").Equal(placed.FinalTotal))

	err = handler.HandleMessage(ctx, message(t, &models.OrderStatusChangedEvent{
		BaseEvent:      models.BaseEvent{EventID: "b", EventType: models.EventTypeOrderStatusChanged},
		OrderID:        3,
		PreviousStatus: models.OrderStatusPlaced,
		Status:         models.OrderStatusPacked,
	}))
	require.NoError(t, err)
	require.NotNil(t, changed)
	assert.Equal(t, models.OrderStatusPacked, changed.Status)

	assert.NoError(t, handler.HandleMessage(ctx, message(t, &models.BaseEvent{EventType: "SOMETHING_ELSE"})))
	assert.Error(t, handler.HandleMessage(ctx, kafka.Message{Value: []byte("{")}))
}

func TestPublisherWithoutProducerIsNoop(t *testing.T) {
	publisher := NewEventPublisher(nil)
	err := publisher.PublishOrderPlaced(context.Background(), &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{EventType: models.EventTypeOrderPlaced},
		OrderID:   1,
	})
	assert.NoError(t, err)
	assert.Equal(t, "order-42", orderKey(42))
}
