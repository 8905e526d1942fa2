// Package servicetest provides in-memory stand-ins for the store, the OTP
// cache and the event publisher, shared by the service and api tests.
package servicetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"simple-ecommerce/internal/models"
	"simple-ecommerce/internal/redisclient"
	"simple-ecommerce/internal/store"

	"github.com/shopspring/decimal"
)

// MemStore is an in-memory stand-in for *store.Store
type MemStore struct {
	mu         sync.Mutex
	nextID     int64
	Users      map[int64]*models.User
	Categories map[int64]*models.Category
	Products   map[int64]*models.Product
	Carts      map[int64]*models.Cart
	CartItems  map[int64]*models.CartItem
	Orders     map[int64]*models.Order
	OrderItems []models.OrderItem
	Coupons    map[int64]*models.Coupon
	Addresses  map[int64]*models.Address
	Cards      map[int64]*models.StoredCard
	History    []models.OrderStatusChange
	Processed  map[string]bool
}

// NewMemStore returns an empty store
func NewMemStore() *MemStore {
	return &MemStore{
		Users:      map[int64]*models.User{},
		Categories: map[int64]*models.Category{},
		Products:   map[int64]*models.Product{},
		Carts:      map[int64]*models.Cart{},
		CartItems:  map[int64]*models.CartItem{},
		Orders:     map[int64]*models.Order{},
		Coupons:    map[int64]*models.Coupon{},
		Addresses:  map[int64]*models.Address{},
		Cards:      map[int64]*models.StoredCard{},
		Processed:  map[string]bool{},
	}
}

func (m *MemStore) id() int64 {
	m.nextID++
	return m.nextID
}

func sortedIDs[T any](rows map[int64]T) []int64 {
	ids := make([]int64, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// users

func (m *MemStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.Email == user.Email {
			return store.ErrDuplicate
		}
	}
	user.ID = m.id()
	user.CreatedAt = time.Now()
	cp := *user
	m.Users[user.ID] = &cp
	return nil
}

func (m *MemStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MemStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemStore) ListUsers(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := []models.User{}
	for _, id := range sortedIDs(m.Users) {
		users = append(users, *m.Users[id])
	}
	return users, nil
}

func (m *MemStore) UpdateProfile(_ context.Context, userID int64, name, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.Name, u.Phone = name, phone
	return nil
}

func (m *MemStore) UpdatePasswordHash(_ context.Context, userID int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

// addresses

func (m *MemStore) GetAddress(_ context.Context, userID int64) (*models.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Addresses[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MemStore) UpsertAddress(_ context.Context, addr *models.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.Addresses[addr.UserID]; ok {
		addr.ID = existing.ID
	} else {
		addr.ID = m.id()
	}
	addr.UpdatedAt = time.Now()
	cp := *addr
	m.Addresses[addr.UserID] = &cp
	return nil
}

// catalog

func (m *MemStore) ListCategories(_ context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	categories := []models.Category{}
	for _, id := range sortedIDs(m.Categories) {
		categories = append(categories, *m.Categories[id])
	}
	return categories, nil
}

func (m *MemStore) CreateCategory(_ context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	category.ID = m.id()
	cp := *category
	m.Categories[category.ID] = &cp
	return nil
}

func (m *MemStore) UpdateCategory(_ context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Categories[category.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *category
	m.Categories[category.ID] = &cp
	return nil
}

func (m *MemStore) DeleteCategory(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Categories[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.Categories, id)
	return nil
}

func (m *MemStore) ListProducts(_ context.Context, filter models.ProductFilter) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	products := []models.Product{}
	search := strings.ToLower(filter.Search)
	for _, id := range sortedIDs(m.Products) {
		p := m.Products[id]
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		products = append(products, *p)
	}
	return products, nil
}

func (m *MemStore) GetProductByID(_ context.Context, id int64) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemStore) CreateProduct(_ context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product.ID = m.id()
	product.CreatedAt = time.Now()
	cp := *product
	m.Products[product.ID] = &cp
	return nil
}

func (m *MemStore) UpdateProduct(_ context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Products[product.ID]
	if !ok {
		return store.ErrNotFound
	}
	product.CreatedAt = existing.CreatedAt
	cp := *product
	m.Products[product.ID] = &cp
	return nil
}

func (m *MemStore) DeleteProduct(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Products[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.Products, id)
	for itemID, item := range m.CartItems {
		if item.ProductID == id {
			delete(m.CartItems, itemID)
		}
	}
	return nil
}

// carts

func (m *MemStore) openCart(userID int64) *models.Cart {
	for _, c := range m.Carts {
		if c.UserID == userID && c.Status == models.CartStatusOpen {
			return c
		}
	}
	return nil
}

func (m *MemStore) GetOrCreateOpenCart(_ context.Context, userID int64) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart := m.openCart(userID)
	if cart == nil {
		cart = &models.Cart{ID: m.id(), UserID: userID, Status: models.CartStatusOpen, CreatedAt: time.Now()}
		m.Carts[cart.ID] = cart
	}
	cp := *cart
	return &cp, nil
}

func (m *MemStore) cartLines(cartID int64) []models.CartLine {
	lines := []models.CartLine{}
	for _, id := range sortedIDs(m.CartItems) {
		item := m.CartItems[id]
		if item.CartID != cartID {
			continue
		}
		p := m.Products[item.ProductID]
		lines = append(lines, models.CartLine{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Name:      p.Name,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
		})
	}
	return lines
}

func (m *MemStore) GetCartLines(_ context.Context, cartID int64) ([]models.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cartLines(cartID), nil
}

func (m *MemStore) AddCartItem(_ context.Context, cartID, productID int64, quantity int) (*models.CartItem, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart, ok := m.Carts[cartID]; !ok || cart.Status != models.CartStatusOpen {
		return nil, false, store.ErrCartClosed
	}
	if _, ok := m.Products[productID]; !ok {
		return nil, false, store.ErrForeignKey
	}
	for _, item := range m.CartItems {
		if item.CartID == cartID && item.ProductID == productID {
			item.Quantity += quantity
			cp := *item
			return &cp, false, nil
		}
	}
	item := &models.CartItem{ID: m.id(), CartID: cartID, ProductID: productID, Quantity: quantity}
	m.CartItems[item.ID] = item
	cp := *item
	return &cp, true, nil
}

func (m *MemStore) ownedItem(userID, itemID int64) *models.CartItem {
	item, ok := m.CartItems[itemID]
	if !ok {
		return nil
	}
	cart := m.Carts[item.CartID]
	if cart == nil || cart.UserID != userID || cart.Status != models.CartStatusOpen {
		return nil
	}
	return item
}

func (m *MemStore) UpdateCartItemQuantity(_ context.Context, userID, itemID int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item := m.ownedItem(userID, itemID)
	if item == nil {
		return store.ErrNotFound
	}
	item.Quantity = quantity
	return nil
}

func (m *MemStore) RemoveCartItem(_ context.Context, userID, itemID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ownedItem(userID, itemID) == nil {
		return store.ErrNotFound
	}
	delete(m.CartItems, itemID)
	return nil
}

// orders

func (m *MemStore) PlaceOrder(_ context.Context, userID int64, price store.PriceFunc) (*models.Order, []models.OrderItem, error) {
	m.mu.Lock()
	cart := m.openCart(userID)
	var lines []models.CartLine
	if cart != nil {
		lines = m.cartLines(cart.ID)
	}
	m.mu.Unlock()

	if len(lines) == 0 {
		return nil, nil, store.ErrCartEmpty
	}

	// price may read coupons, so it runs without the lock
	quote, err := price(lines)
	if err != nil {
		return nil, nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	order := &models.Order{
		ID:            m.id(),
		UserID:        userID,
		TotalAmount:   quote.Subtotal,
		Discount:      quote.Discount,
		FinalTotal:    quote.FinalTotal,
		CouponCode:    quote.CouponCode,
		Status:        models.OrderStatusPlaced,
		PaymentStatus: models.PaymentStatusPaid,
		PaymentMethod: quote.PaymentMethod,
		PaymentRef:    quote.PaymentRef,
		CreatedAt:     time.Now(),
	}
	m.Orders[order.ID] = order

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		item := models.OrderItem{ID: m.id(), OrderID: order.ID, ProductID: line.ProductID, Quantity: line.Quantity, Price: line.Price}
		m.OrderItems = append(m.OrderItems, item)
		items = append(items, item)
	}

	cart.Status = models.CartStatusCheckedOut
	for id, item := range m.CartItems {
		if item.CartID == cart.ID {
			delete(m.CartItems, id)
		}
	}

	cp := *order
	return &cp, items, nil
}

func (m *MemStore) listOrders(match func(*models.Order) bool) []models.OrderSummary {
	orders := []models.OrderSummary{}
	ids := sortedIDs(m.Orders)
	for i := len(ids) - 1; i >= 0; i-- {
		o := m.Orders[ids[i]]
		if !match(o) {
			continue
		}
		summary := models.OrderSummary{Order: *o}
		if u, ok := m.Users[o.UserID]; ok {
			summary.UserEmail = u.Email
		}
		orders = append(orders, summary)
	}
	return orders
}

func (m *MemStore) ListOrdersByUser(_ context.Context, userID int64) ([]models.OrderSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	orders := m.listOrders(func(o *models.Order) bool { return o.UserID == userID })
	for i := range orders {
		orders[i].UserEmail = ""
	}
	return orders, nil
}

func (m *MemStore) ListAllOrders(_ context.Context) ([]models.OrderSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listOrders(func(*models.Order) bool { return true }), nil
}

func (m *MemStore) GetOrderForUser(_ context.Context, userID, orderID int64) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.Orders[orderID]
	if !ok || o.UserID != userID {
		return nil, store.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MemStore) ListOrderItemViews(_ context.Context, orderID int64) ([]models.OrderItemView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	views := []models.OrderItemView{}
	for _, item := range m.OrderItems {
		if item.OrderID != orderID {
			continue
		}
		view := models.OrderItemView{OrderItem: item}
		if p, ok := m.Products[item.ProductID]; ok {
			name, image := p.Name, p.ImageURL
			view.Name, view.ImageURL = &name, &image
		}
		views = append(views, view)
	}
	return views, nil
}

func (m *MemStore) UpdateOrderStatus(_ context.Context, orderID int64, status string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.Orders[orderID]
	if !ok {
		return "", store.ErrNotFound
	}
	previous := o.Status
	o.Status = status
	return previous, nil
}

func (m *MemStore) ListOrderHistory(_ context.Context, orderID int64) ([]models.OrderStatusChange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	history := []models.OrderStatusChange{}
	for _, h := range m.History {
		if h.OrderID == orderID {
			history = append(history, h)
		}
	}
	return history, nil
}

func (m *MemStore) RecordOrderStatus(_ context.Context, eventID, eventType string, orderID int64, status string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Processed[eventID] {
		return false, nil
	}
	m.Processed[eventID] = true
	m.History = append(m.History, models.OrderStatusChange{
		ID: m.id(), OrderID: orderID, Status: status, EventID: eventID, ChangedAt: time.Now(),
	})
	return true, nil
}

// coupons

func (m *MemStore) GetCouponByCode(_ context.Context, code string) (*models.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Coupons {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MemStore) GetCouponByID(_ context.Context, id int64) (*models.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Coupons[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MemStore) ListCoupons(_ context.Context) ([]models.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	coupons := []models.Coupon{}
	for _, id := range sortedIDs(m.Coupons) {
		coupons = append(coupons, *m.Coupons[id])
	}
	return coupons, nil
}

func (m *MemStore) codeTaken(code string, except int64) bool {
	for _, c := range m.Coupons {
		if c.Code == code && c.ID != except {
			return true
		}
	}
	return false
}

func (m *MemStore) CreateCoupon(_ context.Context, coupon *models.Coupon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.codeTaken(coupon.Code, 0) {
		return store.ErrDuplicate
	}
	coupon.ID = m.id()
	coupon.CreatedAt = time.Now()
	cp := *coupon
	m.Coupons[coupon.ID] = &cp
	return nil
}

func (m *MemStore) UpdateCoupon(_ context.Context, coupon *models.Coupon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Coupons[coupon.ID]; !ok {
		return store.ErrNotFound
	}
	if m.codeTaken(coupon.Code, coupon.ID) {
		return store.ErrDuplicate
	}
	cp := *coupon
	m.Coupons[coupon.ID] = &cp
	return nil
}

func (m *MemStore) DeleteCoupon(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Coupons[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.Coupons, id)
	return nil
}

// cards

func (m *MemStore) ListCards(_ context.Context) ([]models.StoredCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cards := []models.StoredCard{}
	for _, id := range sortedIDs(m.Cards) {
		cards = append(cards, *m.Cards[id])
	}
	return cards, nil
}

func (m *MemStore) GetCard(_ context.Context, id int64) (*models.StoredCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Cards[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MemStore) CreateCard(_ context.Context, card *models.StoredCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	card.ID = m.id()
	card.CreatedAt = time.Now()
	cp := *card
	m.Cards[card.ID] = &cp
	return nil
}

func (m *MemStore) UpdateCard(_ context.Context, card *models.StoredCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Cards[card.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *card
	m.Cards[card.ID] = &cp
	return nil
}

func (m *MemStore) DeleteCard(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Cards[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.Cards, id)
	return nil
}

// dashboard

func (m *MemStore) DashboardStats(_ context.Context) (*models.DashboardStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &models.DashboardStats{
		TotalUsers:    int64(len(m.Users)),
		TotalProducts: int64(len(m.Products)),
		TotalOrders:   int64(len(m.Orders)),
		TotalRevenue:  decimal.Zero,
		TotalDiscount: decimal.Zero,
		NetRevenue:    decimal.Zero,
	}
	for _, o := range m.Orders {
		stats.TotalRevenue = stats.TotalRevenue.Add(o.TotalAmount)
		stats.TotalDiscount = stats.TotalDiscount.Add(o.Discount)
		stats.NetRevenue = stats.NetRevenue.Add(o.FinalTotal)
	}
	return stats, nil
}

// seeding helpers

func (m *MemStore) AddProduct(name string, price int64) *models.Product {
	p := &models.Product{Name: name, Price: decimal.NewFromInt(price), Stock: 10}
	_ = m.CreateProduct(context.Background(), p)
	return p
}

func (m *MemStore) AddUser(email string) *models.User {
	u := &models.User{Name: "Test", Email: email, PasswordHash: "x"}
	_ = m.CreateUser(context.Background(), u)
	return u
}

// MemOTPStore mirrors the Redis OTP script
type MemOTPStore struct {
	mu    sync.Mutex
	Codes map[string]string
	tries map[string]int
}

func NewMemOTPStore() *MemOTPStore {
	return &MemOTPStore{Codes: map[string]string{}, tries: map[string]int{}}
}

func (o *MemOTPStore) SaveOTP(_ context.Context, email, code string, _ time.Duration) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Codes[email] = code
	o.tries[email] = 0
	return nil
}

func (o *MemOTPStore) ConsumeOTP(_ context.Context, email, code string, maxAttempts int) (redisclient.OTPResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	stored, ok := o.Codes[email]
	if !ok {
		return redisclient.OTPMissing, nil
	}
	if stored == code {
		delete(o.Codes, email)
		return redisclient.OTPValid, nil
	}
	o.tries[email]++
	if o.tries[email] >= maxAttempts {
		delete(o.Codes, email)
	}
	return redisclient.OTPMismatch, nil
}

// RecordingPublisher captures published events
type RecordingPublisher struct {
	mu      sync.Mutex
	Placed  []*models.OrderPlacedEvent
	Changed []*models.OrderStatusChangedEvent
}

func (p *RecordingPublisher) PublishOrderPlaced(_ context.Context, event *models.OrderPlacedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Placed = append(p.Placed, event)
	return nil
}

func (p *RecordingPublisher) PublishOrderStatusChanged(_ context.Context, event *models.OrderStatusChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Changed = append(p.Changed, event)
	return nil
}
