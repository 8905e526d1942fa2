package worker

import (
	"context"

	"simple-ecommerce/internal/broker"
	"simple-ecommerce/internal/service"
	"simple-ecommerce/internal/util"

	"go.uber.org/zap"
)

// OrderEventWorker consumes order events and records the status timeline
type OrderEventWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewOrderEventWorker creates a new order event worker
func NewOrderEventWorker(consumer *broker.Consumer, recorder *service.HistoryRecorder) *OrderEventWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnOrderPlaced(recorder.HandleOrderPlaced)
	eventHandler.OnOrderStatusChanged(recorder.HandleOrderStatusChanged)

	return &OrderEventWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		logger:       util.GetLogger(),
	}
}

// Start blocks until ctx is cancelled
func (w *OrderEventWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting order event worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *OrderEventWorker) Stop() error {
	w.logger.Info("Stopping order event worker")
	return w.consumer.Close()
}
