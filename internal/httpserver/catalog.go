package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"webhost-storefront/internal/domain"
)

// listOf keeps empty collections rendering as [] rather than null.
func listOf[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func (h *handlers) listHosting(c *gin.Context) {
	plans, err := h.deps.Catalog.ListHosting(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listOf(plans))
}

func (h *handlers) listWordpress(c *gin.Context) {
	plans, err := h.deps.Catalog.ListWordpress(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listOf(plans))
}

func (h *handlers) listAddons(c *gin.Context) {
	addons, err := h.deps.Catalog.ListAddons(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listOf(addons))
}

func (h *handlers) adminGetHosting(c *gin.Context) {
	p, err := h.deps.Catalog.GetHosting(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) adminCreateHosting(c *gin.Context) {
	var req domain.HostingPlan
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	p, err := h.deps.Catalog.CreateHosting(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *handlers) adminUpdateHosting(c *gin.Context) {
	var req domain.HostingPlan
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	p, err := h.deps.Catalog.UpdateHosting(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) adminDeleteHosting(c *gin.Context) {
	if err := h.deps.Catalog.DeleteHosting(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handlers) adminGetWordpress(c *gin.Context) {
	p, err := h.deps.Catalog.GetWordpress(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) adminCreateWordpress(c *gin.Context) {
	var req domain.WordpressPlan
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	p, err := h.deps.Catalog.CreateWordpress(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *handlers) adminUpdateWordpress(c *gin.Context) {
	var req domain.WordpressPlan
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	p, err := h.deps.Catalog.UpdateWordpress(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) adminDeleteWordpress(c *gin.Context) {
	if err := h.deps.Catalog.DeleteWordpress(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handlers) adminGetAddon(c *gin.Context) {
	a, err := h.deps.Catalog.GetAddon(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *handlers) adminCreateAddon(c *gin.Context) {
	var req domain.Addon
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	a, err := h.deps.Catalog.CreateAddon(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *handlers) adminUpdateAddon(c *gin.Context) {
	var req domain.Addon
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	a, err := h.deps.Catalog.UpdateAddon(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *handlers) adminDeleteAddon(c *gin.Context) {
	if err := h.deps.Catalog.DeleteAddon(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
