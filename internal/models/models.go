package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Money is written to JSON as numbers, which is what the storefront reads.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// User represents a registered account
type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Phone        string    `db:"phone" json:"phone"`
	IsAdmin      bool      `db:"is_admin" json:"is_admin"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Identity is the caller decoded from a session token
type Identity struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// Category groups products
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Product represents a product in the catalog
type Product struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	CategoryID  *int64          `db:"category_id" json:"category_id"`
	ImageURL    string          `db:"image_url" json:"image_url"`
	Stock       int             `db:"stock" json:"stock"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// ProductFilter narrows product listings; nil fields are ignored
type ProductFilter struct {
	CategoryID *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Search     string
}

// Cart represents a user's shopping cart
type Cart struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CartItem is a product line inside a cart
type CartItem struct {
	ID        int64 `db:"id" json:"id"`
	CartID    int64 `db:"cart_id" json:"cart_id"`
	ProductID int64 `db:"product_id" json:"product_id"`
	Quantity  int   `db:"quantity" json:"quantity"`
}

// CartLine is a cart item joined with the live product row
type CartLine struct {
	ID        int64           `db:"id" json:"id"`
	ProductID int64           `db:"product_id" json:"product_id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Name      string          `db:"name" json:"name"`
	Price     decimal.Decimal `db:"price" json:"price"`
	ImageURL  string          `db:"image_url" json:"image_url"`
}

// Cart statuses
const (
	CartStatusOpen       = "OPEN"
	CartStatusCheckedOut = "CHECKED_OUT"
)

// Order represents a placed order
type Order struct {
	ID            int64           `db:"id" json:"id"`
	UserID        int64           `db:"user_id" json:"user_id"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	Discount      decimal.Decimal `db:"discount" json:"discount"`
	FinalTotal    decimal.Decimal `db:"final_total" json:"final_total"`
	CouponCode    *string         `db:"coupon_code" json:"coupon_code"`
	Status        string          `db:"status" json:"status"`
	PaymentStatus string          `db:"payment_status" json:"payment_status"`
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	PaymentRef    string          `db:"payment_ref" json:"payment_ref"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// OrderSummary is an order as listed to users and admins; Subtotal and
// FinalAmount mirror TotalAmount and FinalTotal for older clients.
type OrderSummary struct {
	Order
	UserEmail   string          `db:"user_email" json:"user_email,omitempty"`
	Subtotal    decimal.Decimal `db:"-" json:"subtotal"`
	FinalAmount decimal.Decimal `db:"-" json:"final_amount"`
}

// FillAliases copies the canonical totals into the compatibility fields.
func (o *OrderSummary) FillAliases() {
	o.Subtotal = o.TotalAmount
	o.FinalAmount = o.FinalTotal
}

// OrderItem represents items in an order
type OrderItem struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"order_id"`
	ProductID int64           `db:"product_id" json:"product_id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"`
}

// OrderItemView is an order item joined with the product, which may no
// longer exist.
type OrderItemView struct {
	OrderItem
	Name     *string `db:"name" json:"name"`
	ImageURL *string `db:"image_url" json:"image_url"`
}

// OrderStatusChange is one entry of an order's status timeline
type OrderStatusChange struct {
	ID        int64     `db:"id" json:"id"`
	OrderID   int64     `db:"order_id" json:"order_id"`
	Status    string    `db:"status" json:"status"`
	EventID   string    `db:"event_id" json:"event_id"`
	ChangedAt time.Time `db:"changed_at" json:"changed_at"`
}

// Order statuses
const (
	OrderStatusPlaced         = "PLACED"
	OrderStatusPacked         = "PACKED"
	OrderStatusShipped        = "SHIPPED"
	OrderStatusOutForDelivery = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      = "DELIVERED"
)

// OrderStatuses lists every status an admin may set.
var OrderStatuses = []string{
	OrderStatusPlaced,
	OrderStatusPacked,
	OrderStatusShipped,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

// Payment statuses
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
)

// CheckoutQuote is the priced result of a cart, computed inside the
// checkout transaction.
type CheckoutQuote struct {
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	FinalTotal    decimal.Decimal
	CouponCode    *string
	PaymentMethod string
	PaymentRef    string
}

// Address is the single saved shipping address of a user
type Address struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	FullName     string    `db:"full_name" json:"full_name"`
	Phone        string    `db:"phone" json:"phone"`
	AddressLine1 string    `db:"address_line1" json:"address_line1"`
	AddressLine2 string    `db:"address_line2" json:"address_line2"`
	City         string    `db:"city" json:"city"`
	State        string    `db:"state" json:"state"`
	PostalCode   string    `db:"postal_code" json:"postal_code"`
	Country      string    `db:"country" json:"country"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Coupon discount types
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Coupon entitles a discount on a cart subtotal
type Coupon struct {
	ID            int64           `db:"id" json:"id"`
	Code          string          `db:"code" json:"code"`
	DiscountType  string          `db:"discount_type" json:"discount_type"`
	DiscountValue decimal.Decimal `db:"discount_value" json:"discount_value"`
	MinAmount     decimal.Decimal `db:"min_amount" json:"min_amount"`
	ExpiresAt     *time.Time      `db:"expires_at" json:"expires_at"`
	IsActive      bool            `db:"is_active" json:"is_active"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// StoredCard is an admin-managed demo payment instrument. Only the masked
// number is persisted.
type StoredCard struct {
	ID          int64           `db:"id" json:"id"`
	CardHolder  string          `db:"card_holder" json:"card_holder"`
	CardNumber  string          `db:"card_number" json:"card_number"`
	CardLast4   string          `db:"card_last4" json:"card_last4"`
	ExpiryMonth string          `db:"expiry_month" json:"expiry_month"`
	ExpiryYear  string          `db:"expiry_year" json:"expiry_year"`
	Balance     decimal.Decimal `db:"balance" json:"balance"`
	Status      string          `db:"status" json:"status"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// DashboardStats aggregates store-wide counters
type DashboardStats struct {
	TotalUsers    int64           `db:"total_users" json:"total_users"`
	TotalProducts int64           `db:"total_products" json:"total_products"`
	TotalOrders   int64           `db:"total_orders" json:"total_orders"`
	TotalRevenue  decimal.Decimal `db:"total_revenue" json:"total_revenue"`
	TotalDiscount decimal.Decimal `db:"total_discount" json:"total_discount"`
	NetRevenue    decimal.Decimal `db:"net_revenue" json:"net_revenue"`
}

// ProcessedEvent for idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}

// Flag decodes booleans sent either as true/false or as 0/1.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "true", "1":
		*f = true
	case "false", "0", "", "null":
		*f = false
	default:
		return fmt.Errorf("invalid boolean value %s", data)
	}
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}
