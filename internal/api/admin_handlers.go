package api

import (
	"net/http"

	"simple-ecommerce/internal/service"

	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name string `json:"name"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) adminListUsers(c *gin.Context) {
	users, err := h.svc.Accounts.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) adminDashboard(c *gin.Context) {
	stats, err := h.svc.Dashboard.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// orders

func (h *Handler) adminListOrders(c *gin.Context) {
	orders, err := h.svc.Orders.ListAllOrders(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) adminUpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.svc.Orders.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
}

func (h *Handler) adminOrderHistory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	history, err := h.svc.Orders.History(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// products

func (h *Handler) adminCreateProduct(c *gin.Context) {
	var req service.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.svc.Catalog.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": product.ID, "name": product.Name, "price": product.Price})
}

func (h *Handler) adminUpdateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.svc.Catalog.UpdateProduct(c.Request.Context(), id, &req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}

func (h *Handler) adminDeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// categories

func (h *Handler) adminCreateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.svc.Catalog.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *Handler) adminUpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req categoryRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.svc.Catalog.UpdateCategory(c.Request.Context(), id, req.Name); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category updated"})
}

func (h *Handler) adminDeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// coupons

func (h *Handler) adminListCoupons(c *gin.Context) {
	coupons, err := h.svc.Coupons.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, coupons)
}

func (h *Handler) adminGetCoupon(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	coupon, err := h.svc.Coupons.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, coupon)
}

func (h *Handler) adminCreateCoupon(c *gin.Context) {
	var req service.CouponRequest
	if !bindJSON(c, &req) {
		return
	}

	coupon, err := h.svc.Coupons.Create(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, coupon)
}

func (h *Handler) adminUpdateCoupon(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.CouponRequest
	if !bindJSON(c, &req) {
		return
	}

	coupon, err := h.svc.Coupons.Update(c.Request.Context(), id, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, coupon)
}

func (h *Handler) adminDeleteCoupon(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Coupons.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted"})
}

// cards

func (h *Handler) adminListCards(c *gin.Context) {
	cards, err := h.svc.Cards.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (h *Handler) adminGetCard(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	card, err := h.svc.Cards.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *Handler) adminCreateCard(c *gin.Context) {
	var req service.CardRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.svc.Cards.Create(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (h *Handler) adminUpdateCard(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.CardRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.svc.Cards.Update(c.Request.Context(), id, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *Handler) adminDeleteCard(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Cards.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Card deleted"})
}
