package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"simple-ecommerce/internal/models"
	"simple-ecommerce/internal/service"
	"simple-ecommerce/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens map[string]*models.Identity

func (s stubTokens) Verify(raw string) (*models.Identity, error) {
	if identity, ok := s[raw]; ok {
		return identity, nil
	}
	return nil, errors.New("bad token")
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// stubCatalog serves a fixed category list and no products
type stubCatalog struct {
	categories []models.Category
}

func (s *stubCatalog) ListCategories(context.Context) ([]models.Category, error) {
	return s.categories, nil
}

func (s *stubCatalog) CreateCategory(_ context.Context, category *models.Category) error {
	category.ID = int64(len(s.categories) + 1)
	s.categories = append(s.categories, *category)
	return nil
}

func (s *stubCatalog) UpdateCategory(context.Context, *models.Category) error { return store.ErrNotFound }
func (s *stubCatalog) DeleteCategory(context.Context, int64) error            { return store.ErrNotFound }

func (s *stubCatalog) ListProducts(context.Context, models.ProductFilter) ([]models.Product, error) {
	return []models.Product{}, nil
}

func (s *stubCatalog) GetProductByID(context.Context, int64) (*models.Product, error) {
	return nil, store.ErrNotFound
}

func (s *stubCatalog) CreateProduct(context.Context, *models.Product) error { return nil }
func (s *stubCatalog) UpdateProduct(context.Context, *models.Product) error { return store.ErrNotFound }
func (s *stubCatalog) DeleteProduct(context.Context, int64) error           { return store.ErrNotFound }

func newTestRouter(checks map[string]Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)

	tokens := stubTokens{
		"user-token":  {ID: 2, Email: "user@example.com"},
		"admin-token": {ID: 1, Email: "admin@example.com", IsAdmin: true},
	}
	catalog := &stubCatalog{categories: []models.Category{{ID: 1, Name: "Books"}}}

	h := NewHandler(Services{Catalog: service.NewCatalogService(catalog)}, tokens, checks)
	router := gin.New()
	h.SetupRoutes(router, []string{"*"})
	return router
}

func do(t *testing.T, router *gin.Engine, method, path, token, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var payload map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &payload)
	return w, payload
}

func TestHealthAndIndex(t *testing.T) {
	router := newTestRouter(nil)

	w, body := do(t, router, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	w, body = do(t, router, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Simple E-commerce API", body["message"])
}

func TestReadinessReportsFailingDependency(t *testing.T) {
	router := newTestRouter(map[string]Pinger{
		"postgres": pingFunc(func(context.Context) error { return nil }),
		"redis":    pingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})

	w, body := do(t, router, http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	failed, ok := body["failed"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, failed, "redis")
	assert.NotContains(t, failed, "postgres")
}

func TestAuthMiddleware(t *testing.T) {
	router := newTestRouter(nil)

	w, body := do(t, router, http.MethodGet, "/api/cart", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Missing token", body["message"])
	assert.Equal(t, "MISSING_TOKEN", body["code"])

	w, body = do(t, router, http.MethodGet, "/api/cart", "forged", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Invalid token", body["message"])

	w, body = do(t, router, http.MethodGet, "/api/admin/users", "user-token", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Admin access required", body["message"])
}

func TestPublicCatalogRoutes(t *testing.T) {
	router := newTestRouter(nil)

	w, _ := do(t, router, http.MethodGet, "/api/categories", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Books"}]`, w.Body.String())

	w, body := do(t, router, http.MethodGet, "/api/products/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])

	w, body = do(t, router, http.MethodGet, "/api/products/5", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", body["message"])

	w, body = do(t, router, http.MethodGet, "/api/products?minPrice=cheap", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid minPrice filter", body["message"])

	w, body = do(t, router, http.MethodPost, "/api/auth/logout", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out (client should delete token)", body["message"])
}

func TestAdminCategoryRoutes(t *testing.T) {
	router := newTestRouter(nil)

	w, body := do(t, router, http.MethodPost, "/api/admin/categories", "admin-token", `{"name":"Toys"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Toys", body["name"])
	assert.EqualValues(t, 2, body["id"])

	w, body = do(t, router, http.MethodPost, "/api/admin/categories", "admin-token", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Category name required", body["message"])

	w, _ = do(t, router, http.MethodPost, "/api/admin/categories", "admin-token", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = do(t, router, http.MethodDelete, "/api/admin/categories/9", "admin-token", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Category not found", body["message"])
}
