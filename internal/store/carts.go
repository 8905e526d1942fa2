package store

import (
	"context"
	"database/sql"
	"errors"

	"simple-ecommerce/internal/models"
)

const cartLinesQuery = `
	SELECT ci.id, ci.product_id, ci.quantity, p.name, p.price, p.image_url
	FROM cart_items ci
	JOIN products p ON ci.product_id = p.id
	WHERE ci.cart_id = $1
	ORDER BY ci.id`

// GetOrCreateOpenCart returns the user's open cart, creating it when absent.
// The partial unique index on open carts makes concurrent calls converge.
func (s *Store) GetOrCreateOpenCart(ctx context.Context, userID int64) (*models.Cart, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO carts (user_id, status) VALUES ($1, 'OPEN')
		ON CONFLICT (user_id) WHERE status = 'OPEN' DO NOTHING`, userID)
	if err != nil {
		return nil, classify(err)
	}

	var cart models.Cart
	err = s.db.GetContext(ctx, &cart,
		"SELECT * FROM carts WHERE user_id = $1 AND status = 'OPEN'", userID)
	if err != nil {
		return nil, classify(err)
	}
	return &cart, nil
}

// GetCartLines retrieves cart items joined with live product data
func (s *Store) GetCartLines(ctx context.Context, cartID int64) ([]models.CartLine, error) {
	lines := []models.CartLine{}
	err := s.db.SelectContext(ctx, &lines, cartLinesQuery, cartID)
	return lines, err
}

// AddCartItem inserts a line or increments the quantity of the existing one.
// The boolean reports whether a new row was created. The cart row is share
// locked, so the write waits for a running checkout and fails with
// ErrCartClosed once that checkout has closed the cart.
func (s *Store) AddCartItem(ctx context.Context, cartID, productID int64, quantity int) (*models.CartItem, bool, error) {
	var row struct {
		models.CartItem
		Inserted bool `db:"inserted"`
	}
	err := s.db.GetContext(ctx, &row, `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		SELECT c.id, $2, $3
		FROM carts c
		WHERE c.id = $1 AND c.status = 'OPEN'
		FOR SHARE
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, cart_id, product_id, quantity, (xmax = 0) AS inserted`,
		cartID, productID, quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, ErrCartClosed
	}
	if err != nil {
		return nil, false, classify(err)
	}
	return &row.CartItem, row.Inserted, nil
}

// UpdateCartItemQuantity sets the quantity of an item in the user's open cart
func (s *Store) UpdateCartItemQuantity(ctx context.Context, userID, itemID int64, quantity int) error {
	return affected(s.db.ExecContext(ctx, `
		UPDATE cart_items ci SET quantity = $1
		FROM carts c
		WHERE ci.id = $2 AND ci.cart_id = c.id AND c.user_id = $3 AND c.status = 'OPEN'`,
		quantity, itemID, userID))
}

// RemoveCartItem deletes an item from the user's open cart
func (s *Store) RemoveCartItem(ctx context.Context, userID, itemID int64) error {
	return affected(s.db.ExecContext(ctx, `
		DELETE FROM cart_items ci
		USING carts c
		WHERE ci.id = $1 AND ci.cart_id = c.id AND c.user_id = $2 AND c.status = 'OPEN'`,
		itemID, userID))
}
