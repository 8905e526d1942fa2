package api

import (
	"strconv"
	"strings"
	"time"

	"simple-ecommerce/internal/apperr"
	"simple-ecommerce/internal/models"
	"simple-ecommerce/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	identityKey     = "identity"
	requestIDHeader = "X-Request-ID"
)

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			status,
		).Inc()
	}
}

// requestIDMiddleware propagates or assigns X-Request-ID
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(util.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// accessLogMiddleware writes one structured line per request
func accessLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}

		logger := util.LoggerFromContext(c.Request.Context())
		if status >= 500 {
			logger.Warn("Request served", fields...)
			return
		}
		logger.Info("Request served", fields...)
	}
}

// corsMiddleware allows the static frontend, served from another origin,
// to call the API with a bearer token.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "*" {
			cfg.AllowAllOrigins = true
			allowed = nil
			break
		}
		if o != "" {
			allowed = append(allowed, o)
		}
	}
	if len(allowed) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowed
	}

	return cors.New(cfg)
}

// authRequired rejects requests without a valid bearer token
func (h *Handler) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		raw = strings.TrimSpace(raw)
		if !found || raw == "" {
			writeError(c, apperr.MissingToken())
			return
		}

		identity, err := h.tokens.Verify(raw)
		if err != nil {
			writeError(c, apperr.InvalidToken(err))
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// adminRequired must run after authRequired
func adminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := currentUser(c)
		if identity == nil || !identity.IsAdmin {
			writeError(c, apperr.Forbidden("Admin access required"))
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*models.Identity)
	return identity
}
