package service

import (
	"context"
	"errors"

	"simple-ecommerce/internal/apperr"
	"simple-ecommerce/internal/models"
	"simple-ecommerce/internal/store"
	"simple-ecommerce/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartService manages the single open cart of each user
type CartService struct {
	repo   CartRepository
	logger *zap.Logger
}

func NewCartService(repo CartRepository) *CartService {
	return &CartService{repo: repo, logger: util.GetLogger()}
}

// CartView is the open cart priced at current product prices
type CartView struct {
	CartID int64             `json:"cart_id"`
	Items  []models.CartLine `json:"items"`
	Total  decimal.Decimal   `json:"total"`
}

// LinesTotal sums price × quantity over the lines
func LinesTotal(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// View returns the user's open cart, creating an empty one if needed
func (s *CartService) View(ctx context.Context, userID int64) (*CartView, error) {
	ctx, span := util.StartSpan(ctx, "CartService.View")
	defer span.End()

	cart, err := s.repo.GetOrCreateOpenCart(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Error loading cart", err)
	}

	lines, err := s.repo.GetCartLines(ctx, cart.ID)
	if err != nil {
		return nil, apperr.Internal("Error loading cart items", err)
	}

	return &CartView{CartID: cart.ID, Items: lines, Total: LinesTotal(lines)}, nil
}

// AddItemRequest represents an add-to-cart submission
type AddItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// AddItem adds a product line or increases the existing line's quantity.
// The boolean reports whether a new line was created.
func (s *CartService) AddItem(ctx context.Context, userID int64, req *AddItemRequest) (*models.CartItem, bool, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddItem")
	defer span.End()

	if req.ProductID == 0 || req.Quantity == 0 {
		return nil, false, apperr.Validation("product_id and quantity required")
	}
	if req.Quantity < 1 {
		return nil, false, apperr.Validation("Quantity must be >= 1")
	}

	if _, err := s.repo.GetProductByID(ctx, req.ProductID); err != nil {
		return nil, false, translate(err, "Product not found", "Error loading product")
	}

	item, inserted, err := s.addToOpenCart(ctx, userID, req)
	if errors.Is(err, store.ErrCartClosed) {
		// a checkout closed the cart in between; the next open cart takes the line
		item, inserted, err = s.addToOpenCart(ctx, userID, req)
	}
	if errors.Is(err, store.ErrCartClosed) {
		return nil, false, apperr.Conflict("Cart was checked out, please retry")
	}
	if err != nil {
		return nil, false, err
	}

	util.CartItemsAddedTotal.Inc()
	s.logger.Debug("Cart item added",
		zap.Int64("user_id", userID),
		zap.Int64("product_id", req.ProductID),
		zap.Int("quantity", item.Quantity))

	return item, inserted, nil
}

func (s *CartService) addToOpenCart(ctx context.Context, userID int64, req *AddItemRequest) (*models.CartItem, bool, error) {
	cart, err := s.repo.GetOrCreateOpenCart(ctx, userID)
	if err != nil {
		return nil, false, apperr.Internal("Error loading cart", err)
	}

	item, inserted, err := s.repo.AddCartItem(ctx, cart.ID, req.ProductID, req.Quantity)
	if errors.Is(err, store.ErrCartClosed) {
		return nil, false, err
	}
	if err != nil {
		return nil, false, translate(err, "Product not found", "Error updating cart")
	}
	return item, inserted, nil
}

// UpdateItem sets the quantity of a line in the user's open cart
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID int64, quantity int) error {
	if quantity < 1 {
		return apperr.Validation("Quantity must be >= 1")
	}
	return translate(s.repo.UpdateCartItemQuantity(ctx, userID, itemID, quantity),
		"Cart item not found", "Error updating cart")
}

// RemoveItem deletes a line from the user's open cart
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	return translate(s.repo.RemoveCartItem(ctx, userID, itemID),
		"Cart item not found", "Error removing item")
}
