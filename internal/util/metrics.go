package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UsersRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shop_users_registered_total",
		Help: "Total number of registered users",
	})

	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_login_attempts_total",
		Help: "Total number of login attempts by outcome",
	}, []string{"outcome"})

	OTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_otp_requests_total",
		Help: "Total number of password reset OTP operations",
	}, []string{"operation", "outcome"})

	CartItemsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shop_cart_items_added_total",
		Help: "Total number of add-to-cart operations",
	})

	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shop_orders_placed_total",
		Help: "Total number of orders placed",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_orders_failed_total",
		Help: "Total number of failed checkouts",
	}, []string{"reason"})

	OrderStatusChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_order_status_changes_total",
		Help: "Total number of admin order status changes",
	}, []string{"status"})

	CheckoutLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shop_checkout_latency_seconds",
		Help:    "Latency of the checkout transaction",
		Buckets: prometheus.DefBuckets,
	})

	CouponValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_coupon_validations_total",
		Help: "Total number of coupon validations by outcome",
	}, []string{"outcome"})

	PaymentAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_payment_attempts_total",
		Help: "Total number of payment attempts by method",
	}, []string{"method"})

	PaymentFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_payment_failed_total",
		Help: "Total number of rejected payments",
	}, []string{"reason"})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_events_published_total",
		Help: "Total number of order events published by outcome",
	}, []string{"event_type", "outcome"})

	EventsConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_events_consumed_total",
		Help: "Total number of order events consumed by outcome",
	}, []string{"event_type", "outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
