package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ticketsvc "webhost-storefront/internal/service/ticket"
)

type ticketMessageRequest struct {
	Message string `json:"message"`
}

type supportReplyRequest struct {
	TicketID string `json:"ticketId"`
	Message  string `json:"message"`
}

func (h *handlers) openTicket(c *gin.Context) {
	var req ticketsvc.OpenInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	t, err := h.deps.Tickets.Open(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *handlers) myTickets(c *gin.Context) {
	list, err := h.deps.Tickets.ListMine(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listOf(list))
}

func (h *handlers) addTicketMessage(c *gin.Context) {
	var req ticketMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	t, err := h.deps.Tickets.AddMessage(c.Request.Context(), currentUser(c), c.Param("id"), req.Message)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *handlers) supportAllTickets(c *gin.Context) {
	list, err := h.deps.Tickets.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listOf(list))
}

func (h *handlers) supportOpenTickets(c *gin.Context) {
	list, err := h.deps.Tickets.ListOpen(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listOf(list))
}

func (h *handlers) supportUnresolvedTickets(c *gin.Context) {
	list, err := h.deps.Tickets.ListUnresolved(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listOf(list))
}

func (h *handlers) supportReply(c *gin.Context) {
	var req supportReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	t, err := h.deps.Tickets.Reply(c.Request.Context(), req.TicketID, req.Message)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *handlers) supportResolve(c *gin.Context) {
	t, err := h.deps.Tickets.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ticket resolved successfully", "ticket": t})
}
