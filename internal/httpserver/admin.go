package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"webhost-storefront/internal/domain"
)

type roleRequest struct {
	UserID string      `json:"userId"`
	Role   domain.Role `json:"role"`
}

type orderStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

type invoiceStatusRequest struct {
	Status domain.InvoiceStatus `json:"status"`
}

func (h *handlers) adminListUsers(c *gin.Context) {
	users, err := h.deps.Users.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listOf(users))
}

func (h *handlers) adminUpdateRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		badRequest(c, "userId and role are required")
		return
	}
	u, err := h.deps.Users.UpdateRole(c.Request.Context(), req.UserID, req.Role)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.logger.WithField("user_id", u.ID).WithField("role", u.Role).Info("admin: role changed")
	c.JSON(http.StatusOK, u)
}

func (h *handlers) adminListOrders(c *gin.Context) {
	orders, err := h.deps.Billing.ListOrders(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listOf(orders))
}

func (h *handlers) adminGetOrder(c *gin.Context) {
	order, err := h.deps.Billing.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) adminUpdateOrder(c *gin.Context) {
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	order, err := h.deps.Billing.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) adminListInvoices(c *gin.Context) {
	invoices, err := h.deps.Billing.ListInvoices(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listOf(invoices))
}

func (h *handlers) adminGetInvoice(c *gin.Context) {
	inv, err := h.deps.Billing.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *handlers) adminUpdateInvoice(c *gin.Context) {
	var req invoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	inv, err := h.deps.Billing.UpdateInvoiceStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}
