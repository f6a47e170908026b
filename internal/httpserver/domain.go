package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type domainRequest struct {
	DomainName string `json:"domainName"`
}

func (h *handlers) searchDomain(c *gin.Context) {
	var req domainRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.DomainName) == "" {
		badRequest(c, "domain name is required")
		return
	}
	res, err := h.deps.Registrar.Search(c.Request.Context(), req.DomainName)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) registerDomain(c *gin.Context) {
	var req domainRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.DomainName) == "" {
		badRequest(c, "domain name is required")
		return
	}
	res, err := h.deps.Registrar.Register(c.Request.Context(), currentUser(c).ID, req.DomainName)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *handlers) myDomains(c *gin.Context) {
	list, err := h.deps.Registrar.ListMine(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
