package repository

import (
	"Milestone/internal/model"
	"context"

	"gorm.io/gorm"
)

type TicketRepo interface {
	Create(ctx context.Context, ticket *model.Ticket) error
	GetByID(ctx context.Context, ticketID uint64) (*model.Ticket, error)
	Update(ctx context.Context, ticket *model.Ticket) error
	ListByReporter(ctx context.Context, userID uint64) ([]*model.Ticket, error)
	ListByStatus(ctx context.Context, status string) ([]*model.Ticket, error)
	ListAll(ctx context.Context) ([]*model.Ticket, error)
}

type ticketRepoImpl struct {
	db *gorm.DB
}

func NewTicketRepo(db *gorm.DB) TicketRepo {
	return &ticketRepoImpl{db: db}
}

func (s *ticketRepoImpl) Create(ctx context.Context, ticket *model.Ticket) error {
	return s.db.WithContext(ctx).Create(ticket).Error
}

func (s *ticketRepoImpl) GetByID(ctx context.Context, ticketID uint64) (*model.Ticket, error) {
	var ticket model.Ticket
	err := s.db.WithContext(ctx).First(&ticket, ticketID).Error
	return &ticket, err
}

func (s *ticketRepoImpl) Update(ctx context.Context, ticket *model.Ticket) error {
	return s.db.WithContext(ctx).Save(ticket).Error
}

func (s *ticketRepoImpl) ListByReporter(ctx context.Context, userID uint64) ([]*model.Ticket, error) {
	var tickets []*model.Ticket
	err := s.db.WithContext(ctx).
		Where("reporter_id = ?", userID).
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}

func (s *ticketRepoImpl) ListByStatus(ctx context.Context, status string) ([]*model.Ticket, error) {
	var tickets []*model.Ticket
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}

func (s *ticketRepoImpl) ListAll(ctx context.Context) ([]*model.Ticket, error) {
	var tickets []*model.Ticket
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}
