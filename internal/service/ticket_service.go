package service

import (
	"Milestone/internal/api/dto"
	"Milestone/internal/model"
	"Milestone/internal/pkg/consts"
	"Milestone/internal/repository"
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

type TicketService interface {
	CreateTicket(ctx context.Context, userID uint64, req *dto.CreateTicketReq) (*dto.TicketDTO, error)
	GetTicket(ctx context.Context, userID uint64, role string, ticketID uint64) (*dto.TicketDTO, error)
	UpdateTicket(ctx context.Context, userID uint64, role string, ticketID uint64, req *dto.UpdateTicketReq) (*dto.TicketDTO, error)
	ListTickets(ctx context.Context, userID uint64, role string, status string) ([]*dto.TicketDTO, error)
}

type TicketServiceImpl struct {
	ticketRepo repository.TicketRepo
	notify     NotifyService
}

func NewTicketService(ticketRepo repository.TicketRepo, notify NotifyService) TicketService {
	return &TicketServiceImpl{
		ticketRepo: ticketRepo,
		notify:     notify,
	}
}

func (s *TicketServiceImpl) CreateTicket(ctx context.Context, userID uint64, req *dto.CreateTicketReq) (*dto.TicketDTO, error) {
	priority := req.Priority
	if priority == "" {
		priority = "NORMAL"
	}
	ticket := &model.Ticket{
		ProjectID:   req.ProjectID,
		Subject:     req.Subject,
		Description: req.Description,
		Status:      consts.StatusOpen,
		Priority:    priority,
		ReporterID:  userID,
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}
	return toTicketDTO(ticket)
}

// GetTicket 客户只能查看自己提交的工单
func (s *TicketServiceImpl) GetTicket(ctx context.Context, userID uint64, role string, ticketID uint64) (*dto.TicketDTO, error) {
	ticket, err := s.findTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if role == consts.RoleCustomer && ticket.ReporterID != userID {
		return nil, ForbiddenError
	}
	return toTicketDTO(ticket)
}

// UpdateTicket 客户仅能补充描述，状态与指派由员工侧维护；改派时通知受理人
func (s *TicketServiceImpl) UpdateTicket(ctx context.Context, userID uint64, role string, ticketID uint64, req *dto.UpdateTicketReq) (*dto.TicketDTO, error) {
	ticket, err := s.findTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if role == consts.RoleCustomer {
		if ticket.ReporterID != userID {
			return nil, ForbiddenError
		}
		if req.Status != nil || req.AssigneeID != nil {
			return nil, ForbiddenError
		}
	}

	prevAssignee := ticket.AssigneeID
	if req.Subject != nil {
		ticket.Subject = *req.Subject
	}
	if req.Description != nil {
		ticket.Description = req.Description
	}
	if req.Status != nil {
		ticket.Status = *req.Status
	}
	if req.Priority != nil {
		ticket.Priority = *req.Priority
	}
	if req.AssigneeID != nil {
		ticket.AssigneeID = req.AssigneeID
	}
	if err = s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, err
	}

	if ticket.AssigneeID != nil && (prevAssignee == nil || *prevAssignee != *ticket.AssigneeID) {
		go s.notify.NotifyUser(context.WithoutCancel(ctx), *ticket.AssigneeID,
			fmt.Sprintf("工单「%s」已指派给你", ticket.Subject), "")
	}
	// 状态闭环时通知报告人
	if req.Status != nil && (*req.Status == consts.StatusResolved || *req.Status == consts.StatusClosed) {
		go s.notify.NotifyUser(context.WithoutCancel(ctx), ticket.ReporterID,
			fmt.Sprintf("你的工单「%s」已%s", ticket.Subject, statusLabel(*req.Status)), "")
	}
	return toTicketDTO(ticket)
}

// ListTickets 客户只看自己的工单，员工可按状态过滤全量
func (s *TicketServiceImpl) ListTickets(ctx context.Context, userID uint64, role string, status string) ([]*dto.TicketDTO, error) {
	var tickets []*model.Ticket
	var err error
	switch {
	case role == consts.RoleCustomer:
		tickets, err = s.ticketRepo.ListByReporter(ctx, userID)
	case status != "":
		tickets, err = s.ticketRepo.ListByStatus(ctx, status)
	default:
		tickets, err = s.ticketRepo.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	result := make([]*dto.TicketDTO, 0, len(tickets))
	for _, ticket := range tickets {
		ticketDTO, err := toTicketDTO(ticket)
		if err != nil {
			return nil, err
		}
		result = append(result, ticketDTO)
	}
	return result, nil
}

func (s *TicketServiceImpl) findTicket(ctx context.Context, ticketID uint64) (*model.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return ticket, nil
}

func statusLabel(status string) string {
	switch status {
	case consts.StatusResolved:
		return "解决"
	case consts.StatusClosed:
		return "关闭"
	default:
		return "更新"
	}
}

func toTicketDTO(ticket *model.Ticket) (*dto.TicketDTO, error) {
	ticketDTO := &dto.TicketDTO{}
	if err := copier.Copy(ticketDTO, ticket); err != nil {
		return nil, err
	}
	return ticketDTO, nil
}
