package store

import (
	"context"
	"errors"
	"fmt"

	"simple-ecommerce/internal/models"
)

// PriceFunc prices the locked cart lines. It runs inside the checkout
// transaction; returning an error rolls the checkout back.
type PriceFunc func(lines []models.CartLine) (*models.CheckoutQuote, error)

// PlaceOrder converts the user's open cart into an order in one transaction.
// The cart row is locked so concurrent checkouts of the same cart serialise;
// the loser finds no open cart and gets ErrCartEmpty.
func (s *Store) PlaceOrder(ctx context.Context, userID int64, price PriceFunc) (*models.Order, []models.OrderItem, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var cartID int64
	err = tx.GetContext(ctx, &cartID,
		"SELECT id FROM carts WHERE user_id = $1 AND status = 'OPEN' FOR UPDATE", userID)
	if err != nil {
		if errors.Is(classify(err), ErrNotFound) {
			return nil, nil, ErrCartEmpty
		}
		return nil, nil, fmt.Errorf("failed to lock cart: %w", err)
	}

	lines := []models.CartLine{}
	if err := tx.SelectContext(ctx, &lines, cartLinesQuery, cartID); err != nil {
		return nil, nil, fmt.Errorf("failed to load cart lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, nil, ErrCartEmpty
	}

	quote, err := price(lines)
	if err != nil {
		return nil, nil, err
	}

	order := &models.Order{
		UserID:        userID,
		TotalAmount:   quote.Subtotal,
		Discount:      quote.Discount,
		FinalTotal:    quote.FinalTotal,
		CouponCode:    quote.CouponCode,
		Status:        models.OrderStatusPlaced,
		PaymentStatus: models.PaymentStatusPaid,
		PaymentMethod: quote.PaymentMethod,
		PaymentRef:    quote.PaymentRef,
	}
	err = tx.GetContext(ctx, order, `
		INSERT INTO orders (user_id, total_amount, discount, final_total, coupon_code,
			status, payment_status, payment_method, payment_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		order.UserID, order.TotalAmount, order.Discount, order.FinalTotal, order.CouponCode,
		order.Status, order.PaymentStatus, order.PaymentMethod, order.PaymentRef)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert order: %w", err)
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		item := models.OrderItem{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		}
		err := tx.GetContext(ctx, &item.ID, `
			INSERT INTO order_items (order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			item.OrderID, item.ProductID, item.Quantity, item.Price)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to insert order item: %w", err)
		}
		items = append(items, item)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE carts SET status = 'CHECKED_OUT' WHERE id = $1", cartID); err != nil {
		return nil, nil, fmt.Errorf("failed to close cart: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM cart_items WHERE cart_id = $1", cartID); err != nil {
		return nil, nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit checkout: %w", err)
	}
	return order, items, nil
}

// ListOrdersByUser retrieves a user's orders, newest first
func (s *Store) ListOrdersByUser(ctx context.Context, userID int64) ([]models.OrderSummary, error) {
	orders := []models.OrderSummary{}
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC", userID)
	return orders, err
}

// ListAllOrders retrieves every order with the owner's email, newest first
func (s *Store) ListAllOrders(ctx context.Context) ([]models.OrderSummary, error) {
	orders := []models.OrderSummary{}
	err := s.db.SelectContext(ctx, &orders, `
		SELECT o.*, u.email AS user_email
		FROM orders o
		JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC, o.id DESC`)
	return orders, err
}

// GetOrderForUser retrieves an order only if it belongs to the user
func (s *Store) GetOrderForUser(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE id = $1 AND user_id = $2", orderID, userID)
	if err != nil {
		return nil, classify(err)
	}
	return &order, nil
}

// ListOrderItemViews retrieves an order's items with whatever product data survives
func (s *Store) ListOrderItemViews(ctx context.Context, orderID int64) ([]models.OrderItemView, error) {
	items := []models.OrderItemView{}
	err := s.db.SelectContext(ctx, &items, `
		SELECT oi.*, p.name, p.image_url
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`, orderID)
	return items, err
}

// UpdateOrderStatus sets an order's status and returns the status it replaced
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (string, error) {
	var previous string
	err := s.db.GetContext(ctx, &previous, `
		UPDATE orders o SET status = $1
		FROM (SELECT id, status FROM orders WHERE id = $2 FOR UPDATE) prev
		WHERE o.id = prev.id
		RETURNING prev.status`,
		status, orderID)
	if err != nil {
		return "", classify(err)
	}
	return previous, nil
}
