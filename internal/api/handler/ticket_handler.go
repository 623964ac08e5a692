package handler

import (
	"Milestone/internal/api/dto"
	"Milestone/internal/pkg/response"
	"Milestone/internal/service"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	ticketSvc service.TicketService
}

func NewTicketHandler(ticketSvc service.TicketService) *TicketHandler {
	return &TicketHandler{ticketSvc: ticketSvc}
}

func (s *TicketHandler) CreateTicket(c *gin.Context) {
	var req dto.CreateTicketReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	ticket, err := s.ticketSvc.CreateTicket(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ticket)
}

func (s *TicketHandler) GetTicket(c *gin.Context) {
	ticketID, err := parseIDParam(c, "ticket_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	ticket, err := s.ticketSvc.GetTicket(c.Request.Context(), c.GetUint64("user_id"), c.GetString("role"), ticketID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ticket)
}

func (s *TicketHandler) UpdateTicket(c *gin.Context) {
	ticketID, err := parseIDParam(c, "ticket_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.UpdateTicketReq
	if err = c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	ticket, err := s.ticketSvc.UpdateTicket(c.Request.Context(), c.GetUint64("user_id"), c.GetString("role"), ticketID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ticket)
}

func (s *TicketHandler) ListTickets(c *gin.Context) {
	status := c.Query("status")
	tickets, err := s.ticketSvc.ListTickets(c.Request.Context(), c.GetUint64("user_id"), c.GetString("role"), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tickets)
}
