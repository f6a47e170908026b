package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const stripeSignatureHeader = "Stripe-Signature"

// maxWebhookBody caps the webhook payload size.
const maxWebhookBody = 1 << 16

type createSessionRequest struct {
	InvoiceID string `json:"invoiceId"`
}

func (h *handlers) checkout(c *gin.Context) {
	res, err := h.deps.Checkout.Checkout(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Checkout successful",
		"order":   res.Order,
		"invoice": res.Invoice,
	})
}

func (h *handlers) createCheckoutSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.InvoiceID == "" {
		badRequest(c, "invoiceId is required")
		return
	}
	sess, err := h.deps.Checkout.CreatePaymentSession(c.Request.Context(), currentUser(c).ID, req.InvoiceID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// paymentWebhook must see the body exactly as sent for signature checks.
func (h *handlers) paymentWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)
	payload, err := c.GetRawData()
	if err != nil {
		badRequest(c, "unable to read request body")
		return
	}
	if err := h.deps.Checkout.HandleWebhook(c.Request.Context(), payload, c.GetHeader(stripeSignatureHeader)); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *handlers) sessionStatus(c *gin.Context) {
	sess, err := h.deps.Checkout.SessionStatus(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *handlers) verifyPayment(c *gin.Context) {
	v, err := h.deps.Checkout.VerifyPayment(c.Request.Context(), currentUser(c), c.Param("invoiceId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, v)
}
