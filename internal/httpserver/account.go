package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) myOrders(c *gin.Context) {
	orders, err := h.deps.Billing.ListUserOrders(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listOf(orders))
}

func (h *handlers) myOrder(c *gin.Context) {
	order, err := h.deps.Billing.GetUserOrder(c.Request.Context(), currentUser(c).ID, c.Param("orderId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) myInvoices(c *gin.Context) {
	invoices, err := h.deps.Billing.ListUserInvoices(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listOf(invoices))
}
