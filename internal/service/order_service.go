package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"simple-ecommerce/internal/apperr"
	"simple-ecommerce/internal/models"
	"simple-ecommerce/internal/store"
	"simple-ecommerce/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService handles checkout and order business logic
type OrderService struct {
	orders        OrderRepository
	coupons       *CouponService
	payments      *PaymentService
	events        EventPublisher
	defaultMethod string
	logger        *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orders OrderRepository,
	coupons *CouponService,
	payments *PaymentService,
	events EventPublisher,
	defaultMethod string,
) *OrderService {
	if defaultMethod == "" {
		defaultMethod = "dummy"
	}
	return &OrderService{
		orders:        orders,
		coupons:       coupons,
		payments:      payments,
		events:        events,
		defaultMethod: defaultMethod,
		logger:        util.GetLogger(),
	}
}

// CheckoutRequest represents a checkout of the caller's open cart. A
// client-computed discount may be sent but is never read; the discount is
// always derived from coupon_code.
type CheckoutRequest struct {
	PaymentMethod string       `json:"payment_method"`
	CouponCode    *string      `json:"coupon_code"`
	Card          *CardDetails `json:"card"`
}

// CheckoutResponse represents the placed order
type CheckoutResponse struct {
	Message       string          `json:"message"`
	OrderID       int64           `json:"order_id"`
	Total         decimal.Decimal `json:"total"`
	Discount      decimal.Decimal `json:"discount"`
	FinalAmount   decimal.Decimal `json:"final_amount"`
	PaymentMethod string          `json:"payment_method"`
	CouponCode    *string         `json:"coupon_code"`
}

// Checkout converts the open cart into a paid order in one transaction
func (s *OrderService) Checkout(ctx context.Context, userID int64, req *CheckoutRequest) (*CheckoutResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Checkout")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		method = s.defaultMethod
	}

	var couponCode *string
	if req.CouponCode != nil {
		if code := normalizeCode(*req.CouponCode); code != "" {
			couponCode = &code
		}
	}

	order, items, err := s.orders.PlaceOrder(ctx, userID, func(lines []models.CartLine) (*models.CheckoutQuote, error) {
		quote := &models.CheckoutQuote{
			Subtotal:      LinesTotal(lines),
			Discount:      decimal.Zero,
			PaymentMethod: method,
		}

		if couponCode != nil {
			couponQuote, err := s.coupons.Validate(ctx, *couponCode, quote.Subtotal)
			if err != nil {
				return nil, err
			}
			quote.Discount = couponQuote.Discount
			quote.CouponCode = couponCode
		}

		quote.FinalTotal = decimal.Max(quote.Subtotal.Sub(quote.Discount), decimal.Zero)

		ref, err := s.payments.Charge(ctx, ChargeRequest{Method: method, Amount: quote.FinalTotal, Card: req.Card})
		if err != nil {
			return nil, err
		}
		quote.PaymentRef = ref
		return quote, nil
	})
	if err != nil {
		if errors.Is(err, store.ErrCartEmpty) {
			util.OrdersFailedTotal.WithLabelValues("cart_empty").Inc()
			return nil, apperr.Validation("Cart is empty").WithCode("CART_EMPTY")
		}

		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal {
			util.OrdersFailedTotal.WithLabelValues(strings.ToLower(appErr.Code)).Inc()
			return nil, appErr
		}

		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		s.logger.Error("Checkout failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil, apperr.Internal("Error creating order", err)
	}

	util.OrdersPlacedTotal.Inc()
	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", userID),
		zap.String("final_total", order.FinalTotal.StringFixed(2)))

	s.publishOrderPlaced(ctx, order, items)

	return &CheckoutResponse{
		Message:       "Order placed & payment successful (dummy)",
		OrderID:       order.ID,
		Total:         order.TotalAmount,
		Discount:      order.Discount,
		FinalAmount:   order.FinalTotal,
		PaymentMethod: order.PaymentMethod,
		CouponCode:    order.CouponCode,
	}, nil
}

// publishOrderPlaced runs after commit; failures are logged only
func (s *OrderService) publishOrderPlaced(ctx context.Context, order *models.Order, items []models.OrderItem) {
	data := make([]models.OrderItemData, 0, len(items))
	for _, item := range items {
		data = append(data, models.OrderItemData{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:       order.ID,
		UserID:        order.UserID,
		TotalAmount:   order.TotalAmount,
		Discount:      order.Discount,
		FinalTotal:    order.FinalTotal,
		PaymentMethod: order.PaymentMethod,
		Items:         data,
	}

	if err := s.events.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event", zap.Int64("order_id", order.ID), zap.Error(err))
	}
}

// ListUserOrders returns the user's orders, newest first
func (s *OrderService) ListUserOrders(ctx context.Context, userID int64) ([]models.OrderSummary, error) {
	orders, err := s.orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Error fetching orders", err)
	}
	for i := range orders {
		orders[i].FillAliases()
	}
	return orders, nil
}

// ListOrderItems returns the items of one of the user's orders
func (s *OrderService) ListOrderItems(ctx context.Context, userID, orderID int64) ([]models.OrderItemView, error) {
	if _, err := s.orders.GetOrderForUser(ctx, userID, orderID); err != nil {
		return nil, translate(err, "Order not found", "Error fetching order items")
	}

	items, err := s.orders.ListOrderItemViews(ctx, orderID)
	if err != nil {
		return nil, apperr.Internal("Error fetching order items", err)
	}
	return items, nil
}

// ListAllOrders returns every order with its owner's email
func (s *OrderService) ListAllOrders(ctx context.Context) ([]models.OrderSummary, error) {
	orders, err := s.orders.ListAllOrders(ctx)
	if err != nil {
		return nil, apperr.Internal("Error fetching orders", err)
	}
	for i := range orders {
		orders[i].FillAliases()
	}
	return orders, nil
}

func validOrderStatus(status string) bool {
	for _, s := range models.OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// UpdateStatus sets an order's status. Any known status may follow any other.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	status = strings.ToUpper(strings.TrimSpace(status))
	if !validOrderStatus(status) {
		return apperr.Validation("Invalid status").WithCode("INVALID_STATUS")
	}

	previous, err := s.orders.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return translate(err, "Order not found", "Error updating order status")
	}

	util.OrderStatusChangesTotal.WithLabelValues(status).Inc()
	s.logger.Info("Order status updated",
		zap.Int64("order_id", orderID),
		zap.String("from", previous),
		zap.String("to", status))

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:        orderID,
		PreviousStatus: previous,
		Status:         status,
	}
	if err := s.events.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Int64("order_id", orderID), zap.Error(err))
	}

	return nil
}

// History returns the recorded status timeline of an order
func (s *OrderService) History(ctx context.Context, orderID int64) ([]models.OrderStatusChange, error) {
	history, err := s.orders.ListOrderHistory(ctx, orderID)
	if err != nil {
		return nil, apperr.Internal("Error fetching order history", err)
	}
	return history, nil
}
