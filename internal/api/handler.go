package api

import (
	"context"
	"net/http"
	"time"

	"simple-ecommerce/internal/models"
	"simple-ecommerce/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TokenVerifier decodes a bearer token into the caller's identity
type TokenVerifier interface {
	Verify(raw string) (*models.Identity, error)
}

// Pinger is a dependency checked by /ready
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles the business services served over HTTP
type Services struct {
	Auth      *service.AuthService
	Accounts  *service.AccountService
	Catalog   *service.CatalogService
	Carts     *service.CartService
	Orders    *service.OrderService
	Coupons   *service.CouponService
	Cards     *service.CardService
	Dashboard *service.DashboardService
}

// Handler contains HTTP handlers
type Handler struct {
	svc    Services
	tokens TokenVerifier
	checks map[string]Pinger
}

// NewHandler creates a new HTTP handler. checks are pinged by /ready.
func NewHandler(svc Services, tokens TokenVerifier, checks map[string]Pinger) *Handler {
	return &Handler{
		svc:    svc,
		tokens: tokens,
		checks: checks,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine, corsOrigins []string) {
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(corsMiddleware(corsOrigins))
	router.Use(prometheusMiddleware())
	router.Use(accessLogMiddleware())

	router.GET("/", h.index)
	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.POST("/logout", h.logout)
	}

	reset := api.Group("/reset-password")
	{
		reset.POST("/send-otp", h.sendResetOTP)
		reset.POST("/verify", h.verifyResetOTP)
	}

	api.GET("/categories", h.listCategories)
	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)

	user := api.Group("", h.authRequired())
	{
		user.GET("/me", h.me)

		user.GET("/cart", h.getCart)
		user.POST("/cart/items", h.addCartItem)
		user.PUT("/cart/items/:id", h.updateCartItem)
		user.DELETE("/cart/items/:id", h.removeCartItem)

		user.POST("/checkout", h.checkout)
		user.POST("/coupons/validate", h.validateCoupon)

		user.GET("/user/address", h.getAddress)
		user.POST("/user/address", h.saveAddress)
		user.PUT("/user/profile", h.updateProfile)
		user.PUT("/user/change-password", h.changePassword)
		user.GET("/user/orders", h.listMyOrders)
		user.GET("/user/orders/:id/items", h.listMyOrderItems)
	}

	admin := api.Group("/admin", h.authRequired(), adminRequired())
	{
		admin.GET("/users", h.adminListUsers)
		admin.GET("/dashboard", h.adminDashboard)

		admin.GET("/orders", h.adminListOrders)
		admin.PUT("/orders/:id/status", h.adminUpdateOrderStatus)
		admin.GET("/orders/:id/history", h.adminOrderHistory)

		admin.POST("/products", h.adminCreateProduct)
		admin.PUT("/products/:id", h.adminUpdateProduct)
		admin.DELETE("/products/:id", h.adminDeleteProduct)

		admin.POST("/categories", h.adminCreateCategory)
		admin.PUT("/categories/:id", h.adminUpdateCategory)
		admin.DELETE("/categories/:id", h.adminDeleteCategory)

		admin.GET("/coupons", h.adminListCoupons)
		admin.GET("/coupons/:id", h.adminGetCoupon)
		admin.POST("/coupons", h.adminCreateCoupon)
		admin.PUT("/coupons/:id", h.adminUpdateCoupon)
		admin.DELETE("/coupons/:id", h.adminDeleteCoupon)

		admin.GET("/cards", h.adminListCards)
		admin.GET("/cards/:id", h.adminGetCard)
		admin.POST("/cards", h.adminCreateCard)
		admin.PUT("/cards/:id", h.adminUpdateCard)
		admin.DELETE("/cards/:id", h.adminDeleteCard)
	}
}

// index lists the public surface of the API
func (h *Handler) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Simple E-commerce API",
		"docs": gin.H{
			"auth": []string{
				"POST /api/auth/register",
				"POST /api/auth/login",
				"POST /api/auth/logout",
				"POST /api/reset-password/send-otp",
				"POST /api/reset-password/verify",
			},
			"products": []string{
				"GET /api/categories",
				"GET /api/products?category=&minPrice=&maxPrice=&search=",
				"GET /api/products/:id",
			},
			"cart": []string{
				"GET /api/cart",
				"POST /api/cart/items",
				"PUT /api/cart/items/:id",
				"DELETE /api/cart/items/:id",
			},
			"checkout": []string{
				"POST /api/coupons/validate",
				"POST /api/checkout",
			},
			"user": []string{
				"GET /api/me",
				"GET /api/user/address",
				"POST /api/user/address",
				"PUT /api/user/profile",
				"PUT /api/user/change-password",
				"GET /api/user/orders",
				"GET /api/user/orders/:id/items",
			},
			"admin": []string{
				"GET /api/admin/users",
				"GET /api/admin/orders",
				"PUT /api/admin/orders/:id/status",
				"GET /api/admin/orders/:id/history",
				"GET /api/admin/dashboard",
				"POST /api/admin/products",
				"PUT /api/admin/products/:id",
				"DELETE /api/admin/products/:id",
				"POST /api/admin/categories",
				"PUT /api/admin/categories/:id",
				"DELETE /api/admin/categories/:id",
				"GET|POST /api/admin/coupons",
				"GET|PUT|DELETE /api/admin/coupons/:id",
				"GET|POST /api/admin/cards",
				"GET|PUT|DELETE /api/admin/cards/:id",
			},
		},
	})
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck pings every dependency and reports the failing ones
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failed := gin.H{}
	for name, dep := range h.checks {
		if err := dep.Ping(ctx); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"failed": failed,
			"time":   time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}
