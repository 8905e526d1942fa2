package service

import (
	"context"
	"testing"
	"time"

	"simple-ecommerce/internal/models"
	"simple-ecommerce/internal/service/servicetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRecorderIgnoresRedelivery(t *testing.T) {
	repo := servicetest.NewMemStore()
	recorder := NewHistoryRecorder(repo)
	ctx := context.Background()

	placed := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{EventID: "evt-1", EventType: models.EventTypeOrderPlaced, Timestamp: time.Now()},
		OrderID:   7,
	}
	require.NoError(t, recorder.HandleOrderPlaced(ctx, placed))
	require.NoError(t, recorder.HandleOrderPlaced(ctx, placed))

	changed := &models.OrderStatusChangedEvent{
		BaseEvent:      models.BaseEvent{EventID: "evt-2", EventType: models.EventTypeOrderStatusChanged, Timestamp: time.Now()},
		OrderID:        7,
		PreviousStatus: models.OrderStatusPlaced,
		Status:         models.OrderStatusShipped,
	}
	require.NoError(t, recorder.HandleOrderStatusChanged(ctx, changed))

	history, err := repo.ListOrderHistory(ctx, 7)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.OrderStatusPlaced, history[0].Status)
	assert.Equal(t, models.OrderStatusShipped, history[1].Status)
	assert.Equal(t, "evt-2", history[1].EventID)
}
