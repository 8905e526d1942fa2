package service

import (
	"context"
	"time"

	"simple-ecommerce/internal/models"
	"simple-ecommerce/internal/redisclient"
	"simple-ecommerce/internal/store"
)

// The interfaces below are the slices of *store.Store, *redisclient.Client
// and *broker.EventPublisher each service depends on.

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, userID int64, name, phone string) error
	UpdatePasswordHash(ctx context.Context, userID int64, hash string) error
}

type AddressRepository interface {
	GetAddress(ctx context.Context, userID int64) (*models.Address, error)
	UpsertAddress(ctx context.Context, addr *models.Address) error
}

type OTPStore interface {
	SaveOTP(ctx context.Context, email, code string, ttl time.Duration) error
	ConsumeOTP(ctx context.Context, email, code string, maxAttempts int) (redisclient.OTPResult, error)
}

type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type CartRepository interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetOrCreateOpenCart(ctx context.Context, userID int64) (*models.Cart, error)
	GetCartLines(ctx context.Context, cartID int64) ([]models.CartLine, error)
	AddCartItem(ctx context.Context, cartID, productID int64, quantity int) (*models.CartItem, bool, error)
	UpdateCartItemQuantity(ctx context.Context, userID, itemID int64, quantity int) error
	RemoveCartItem(ctx context.Context, userID, itemID int64) error
}

type OrderRepository interface {
	PlaceOrder(ctx context.Context, userID int64, price store.PriceFunc) (*models.Order, []models.OrderItem, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]models.OrderSummary, error)
	ListAllOrders(ctx context.Context) ([]models.OrderSummary, error)
	GetOrderForUser(ctx context.Context, userID, orderID int64) (*models.Order, error)
	ListOrderItemViews(ctx context.Context, orderID int64) ([]models.OrderItemView, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) (string, error)
	ListOrderHistory(ctx context.Context, orderID int64) ([]models.OrderStatusChange, error)
}

type CouponRepository interface {
	GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error)
	GetCouponByID(ctx context.Context, id int64) (*models.Coupon, error)
	ListCoupons(ctx context.Context) ([]models.Coupon, error)
	CreateCoupon(ctx context.Context, coupon *models.Coupon) error
	UpdateCoupon(ctx context.Context, coupon *models.Coupon) error
	DeleteCoupon(ctx context.Context, id int64) error
}

type CardRepository interface {
	ListCards(ctx context.Context) ([]models.StoredCard, error)
	GetCard(ctx context.Context, id int64) (*models.StoredCard, error)
	CreateCard(ctx context.Context, card *models.StoredCard) error
	UpdateCard(ctx context.Context, card *models.StoredCard) error
	DeleteCard(ctx context.Context, id int64) error
}

type StatsRepository interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

type HistoryRepository interface {
	RecordOrderStatus(ctx context.Context, eventID, eventType string, orderID int64, status string) (bool, error)
}

type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
}
