package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"simple-ecommerce/internal/apperr"
	"simple-ecommerce/internal/models"
	"simple-ecommerce/internal/service/servicetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	repo   *servicetest.MemStore
	events *servicetest.RecordingPublisher
	carts  *CartService
	coupon *CouponService
	orders *OrderService
}

func newOrderFixture() *orderFixture {
	repo := servicetest.NewMemStore()
	events := &servicetest.RecordingPublisher{}
	coupons := NewCouponService(repo)
	return &orderFixture{
		repo:   repo,
		events: events,
		carts:  NewCartService(repo),
		coupon: coupons,
		orders: NewOrderService(repo, coupons, NewPaymentService(), events, "dummy"),
	}
}

func (f *orderFixture) fillCart(t *testing.T, userID int64) {
	t.Helper()
	a := f.repo.AddProduct("A", 500)
	b := f.repo.AddProduct("B", 300)
	_, _, err := f.carts.AddItem(context.Background(), userID, &AddItemRequest{ProductID: a.ID, Quantity: 2})
	require.NoError(t, err)
	_, _, err = f.carts.AddItem(context.Background(), userID, &AddItemRequest{ProductID: b.ID, Quantity: 1})
	require.NoError(t, err)
}

func strPtr(s string) *string {
	return &s
}

func TestCheckoutWithFixedCoupon(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	user := f.repo.AddUser("buyer@example.com")
	f.fillCart(t, user.ID)

	_, err := f.coupon.Create(ctx, &CouponRequest{Code: "FLAT100", DiscountType: "fixed", DiscountValue: d(100)})
	require.NoError(t, err)

	before, err := f.carts.View(ctx, user.ID)
	require.NoError(t, err)

	resp, err := f.orders.Checkout(ctx, user.ID, &CheckoutRequest{CouponCode: strPtr("flat100")})
	require.NoError(t, err)
	assert.True(t, d(1300).Equal(resp.Total))
	assert.True(t, d(100).Equal(resp.Discount))
	assert.True(t, d(1200).Equal(resp.FinalAmount))
	assert.Equal(t, "dummy", resp.PaymentMethod)
	require.NotNil(t, resp.CouponCode)
	assert.Equal(t, "FLAT100", *resp.CouponCode)

	order := f.repo.Orders[resp.OrderID]
	require.NotNil(t, order)
	assert.Equal(t, models.OrderStatusPlaced, order.Status)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.NotEmpty(t, order.PaymentRef)

	items, err := f.orders.ListOrderItems(ctx, user.ID, resp.OrderID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	// the old cart is closed and a fresh one is handed out
	after, err := f.carts.View(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, before.CartID, after.CartID)
	assert.Empty(t, after.Items)
	assert.Equal(t, models.CartStatusCheckedOut, f.repo.Carts[before.CartID].Status)

	require.Len(t, f.events.Placed, 1)
	assert.Equal(t, resp.OrderID, f.events.Placed[0].OrderID)
	assert.Equal(t, models.EventTypeOrderPlaced, f.events.Placed[0].EventType)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	user := f.repo.AddUser("buyer@example.com")

	_, err := f.orders.Checkout(ctx, user.ID, &CheckoutRequest{})
	require.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "Cart is empty", apperr.From(err).Message)

	f.fillCart(t, user.ID)
	_, err = f.orders.Checkout(ctx, user.ID, &CheckoutRequest{})
	require.NoError(t, err)

	_, err = f.orders.Checkout(ctx, user.ID, &CheckoutRequest{})
	assert.Equal(t, "CART_EMPTY", apperr.From(err).Code)
	assert.Len(t, f.repo.Orders, 1)
}

func TestCheckoutRejectedCouponLeavesCartIntact(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	user := f.repo.AddUser("buyer@example.com")
	f.fillCart(t, user.ID)

	_, err := f.coupon.Create(ctx, &CouponRequest{Code: "BIG", DiscountType: "fixed", DiscountValue: d(50), MinAmount: d(5000)})
	require.NoError(t, err)

	_, err = f.orders.Checkout(ctx, user.ID, &CheckoutRequest{CouponCode: strPtr("BIG")})
	assert.True(t, apperr.Is(err, apperr.KindMinAmount))

	view, err := f.carts.View(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, view.Items, 2)
	assert.Empty(t, f.repo.Orders)
	assert.Empty(t, f.events.Placed)
}

func TestCheckoutWithCard(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	user := f.repo.AddUser("buyer@example.com")
	f.fillCart(t, user.ID)

	_, err := f.orders.Checkout(ctx, user.ID, &CheckoutRequest{PaymentMethod: "card"})
	assert.Equal(t, "INVALID_CARD", apperr.From(err).Code)
	assert.Empty(t, f.repo.Orders)

	year := time.Now().Year() + 1
	resp, err := f.orders.Checkout(ctx, user.ID, &CheckoutRequest{
		PaymentMethod: "card",
		Card: &CardDetails{
			Number:   "4111 1111 1111 1111",
			ExpMonth: "12",
			ExpYear:  strconv.Itoa(year),
			CVV:      "123",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "card", resp.PaymentMethod)
	assert.True(t, d(1300).Equal(resp.FinalAmount))
}

func TestListOrderItemsIsOwnerOnly(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	owner := f.repo.AddUser("owner@example.com")
	other := f.repo.AddUser("other@example.com")
	f.fillCart(t, owner.ID)

	resp, err := f.orders.Checkout(ctx, owner.ID, &CheckoutRequest{})
	require.NoError(t, err)

	_, err = f.orders.ListOrderItems(ctx, other.ID, resp.OrderID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	orders, err := f.orders.ListUserOrders(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderItemsSurviveProductDeletion(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	user := f.repo.AddUser("buyer@example.com")
	f.fillCart(t, user.ID)

	resp, err := f.orders.Checkout(ctx, user.ID, &CheckoutRequest{})
	require.NoError(t, err)

	items, err := f.orders.ListOrderItems(ctx, user.ID, resp.OrderID)
	require.NoError(t, err)
	require.NoError(t, NewCatalogService(f.repo).DeleteProduct(ctx, items[0].ProductID))

	items, err = f.orders.ListOrderItems(ctx, user.ID, resp.OrderID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Nil(t, items[0].Name)
	assert.True(t, d(500).Equal(items[0].Price))
	require.NotNil(t, items[1].Name)
}

func TestListOrdersFillsAliases(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	user := f.repo.AddUser("buyer@example.com")
	f.fillCart(t, user.ID)

	_, err := f.orders.Checkout(ctx, user.ID, &CheckoutRequest{})
	require.NoError(t, err)

	mine, err := f.orders.ListUserOrders(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].FinalTotal.Equal(mine[0].FinalAmount))

	all, err := f.orders.ListAllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "buyer@example.com", all[0].UserEmail)
	assert.True(t, d(1300).Equal(all[0].Subtotal))
}

func TestUpdateStatus(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	user := f.repo.AddUser("buyer@example.com")
	f.fillCart(t, user.ID)

	resp, err := f.orders.Checkout(ctx, user.ID, &CheckoutRequest{})
	require.NoError(t, err)

	err = f.orders.UpdateStatus(ctx, resp.OrderID, "LOST")
	assert.Equal(t, 400, apperr.From(err).Status())

	err = f.orders.UpdateStatus(ctx, 9999, models.OrderStatusShipped)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, f.orders.UpdateStatus(ctx, resp.OrderID, "delivered"))
	// backwards moves are accepted
	require.NoError(t, f.orders.UpdateStatus(ctx, resp.OrderID, models.OrderStatusPacked))
	assert.Equal(t, models.OrderStatusPacked, f.repo.Orders[resp.OrderID].Status)

	require.Len(t, f.events.Changed, 2)
	assert.Equal(t, models.OrderStatusPlaced, f.events.Changed[0].PreviousStatus)
	assert.Equal(t, models.OrderStatusDelivered, f.events.Changed[0].Status)
	assert.Equal(t, models.OrderStatusDelivered, f.events.Changed[1].PreviousStatus)
}

func TestDashboardRevenue(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	user := f.repo.AddUser("buyer@example.com")
	f.fillCart(t, user.ID)

	_, err := f.coupon.Create(ctx, &CouponRequest{Code: "FLAT100", DiscountType: "fixed", DiscountValue: d(100)})
	require.NoError(t, err)
	_, err = f.orders.Checkout(ctx, user.ID, &CheckoutRequest{CouponCode: strPtr("FLAT100")})
	require.NoError(t, err)

	stats, err := NewDashboardService(f.repo).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalOrders)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.True(t, d(1300).Equal(stats.TotalRevenue))
	assert.True(t, d(100).Equal(stats.TotalDiscount))
	assert.True(t, d(1200).Equal(stats.NetRevenue))
}
