package api

import (
	"net/http"

	"simple-ecommerce/internal/apperr"
	"simple-ecommerce/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) register(c *gin.Context) {
	var req service.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Auth.Register(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) login(c *gin.Context) {
	var req service.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// logout is stateless; tokens simply expire
func (h *Handler) logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out (client should delete token)"})
}

func (h *Handler) sendResetOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Auth.SendResetOTP(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) verifyResetOTP(c *gin.Context) {
	var req service.VerifyOTPRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.svc.Auth.VerifyResetOTP(c.Request.Context(), &req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.svc.Accounts.Me(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.svc.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) listProducts(c *gin.Context) {
	var q service.ProductQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, apperr.Validation("Invalid query"))
		return
	}

	products, err := h.svc.Catalog.ListProducts(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	product, err := h.svc.Catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) getCart(c *gin.Context) {
	view, err := h.svc.Carts.View(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// addCartItem answers 201 for a new line and 200 when an existing line grew
func (h *Handler) addCartItem(c *gin.Context) {
	var req service.AddItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, inserted, err := h.svc.Carts.AddItem(c.Request.Context(), currentUser(c).ID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	c.JSON(status, item)
}

func (h *Handler) updateCartItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if err := h.svc.Carts.UpdateItem(c.Request.Context(), currentUser(c).ID, id, req.Quantity); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "quantity": req.Quantity})
}

func (h *Handler) removeCartItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Carts.RemoveItem(c.Request.Context(), currentUser(c).ID, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
}

func (h *Handler) checkout(c *gin.Context) {
	var req service.CheckoutRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Orders.Checkout(c.Request.Context(), currentUser(c).ID, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) validateCoupon(c *gin.Context) {
	var req service.ValidateRequest
	if !bindJSON(c, &req) {
		return
	}

	quote, err := h.svc.Coupons.Validate(c.Request.Context(), req.Code, req.CartTotal)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// getAddress returns null when the user has not saved an address
func (h *Handler) getAddress(c *gin.Context) {
	addr, err := h.svc.Accounts.GetAddress(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, addr)
}

func (h *Handler) saveAddress(c *gin.Context) {
	var req service.AddressRequest
	if !bindJSON(c, &req) {
		return
	}

	addr, err := h.svc.Accounts.SaveAddress(c.Request.Context(), currentUser(c).ID, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Address saved", "address": addr})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req service.ProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.svc.Accounts.UpdateProfile(c.Request.Context(), currentUser(c).ID, &req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

func (h *Handler) changePassword(c *gin.Context) {
	var req service.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.svc.Auth.ChangePassword(c.Request.Context(), currentUser(c).ID, &req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

func (h *Handler) listMyOrders(c *gin.Context) {
	orders, err := h.svc.Orders.ListUserOrders(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) listMyOrderItems(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	items, err := h.svc.Orders.ListOrderItems(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
