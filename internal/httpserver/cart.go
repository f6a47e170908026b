package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addHostingRequest struct {
	HostingID string `json:"hostingId"`
}

type addWordpressRequest struct {
	WordpressID string `json:"wordpressId"`
}

type addAddonRequest struct {
	AddonID string `json:"addonId"`
}

func (h *handlers) getCart(c *gin.Context) {
	cart, err := h.deps.Cart.Get(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) addHostingToCart(c *gin.Context) {
	var req addHostingRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.HostingID == "" {
		badRequest(c, "hostingId is required")
		return
	}
	cart, err := h.deps.Cart.AddHosting(c.Request.Context(), currentUser(c).ID, req.HostingID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) addWordpressToCart(c *gin.Context) {
	var req addWordpressRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.WordpressID == "" {
		badRequest(c, "wordpressId is required")
		return
	}
	cart, err := h.deps.Cart.AddWordpress(c.Request.Context(), currentUser(c).ID, req.WordpressID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) addAddonToCart(c *gin.Context) {
	var req addAddonRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.AddonID == "" {
		badRequest(c, "addonId is required")
		return
	}
	cart, err := h.deps.Cart.AddAddon(c.Request.Context(), currentUser(c).ID, req.AddonID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) removeCartItem(c *gin.Context) {
	cart, err := h.deps.Cart.RemoveItem(c.Request.Context(), currentUser(c).ID, c.Param("itemId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}
