package repository

import (
	"Milestone/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type TimeLogRepo interface {
	Create(ctx context.Context, log *model.TimeLog) error
	GetByID(ctx context.Context, logID uint64) (*model.TimeLog, error)
	Update(ctx context.Context, log *model.TimeLog) error
	Delete(ctx context.Context, logID uint64) error
	GetRunning(ctx context.Context, userID uint64) (*model.TimeLog, error)
	ListByUser(ctx context.Context, userID uint64, from time.Time, to time.Time) ([]*model.TimeLog, error)
}

type timeLogRepoImpl struct {
	db *gorm.DB
}

func NewTimeLogRepo(db *gorm.DB) TimeLogRepo {
	return &timeLogRepoImpl{db: db}
}

func (s *timeLogRepoImpl) Create(ctx context.Context, log *model.TimeLog) error {
	return s.db.WithContext(ctx).Create(log).Error
}

func (s *timeLogRepoImpl) GetByID(ctx context.Context, logID uint64) (*model.TimeLog, error) {
	var log model.TimeLog
	err := s.db.WithContext(ctx).First(&log, logID).Error
	return &log, err
}

func (s *timeLogRepoImpl) Update(ctx context.Context, log *model.TimeLog) error {
	return s.db.WithContext(ctx).Save(log).Error
}

func (s *timeLogRepoImpl) Delete(ctx context.Context, logID uint64) error {
	return s.db.WithContext(ctx).Delete(&model.TimeLog{}, logID).Error
}

// GetRunning 查询本人尚未结束的计时
func (s *timeLogRepoImpl) GetRunning(ctx context.Context, userID uint64) (*model.TimeLog, error) {
	var log model.TimeLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND end_at IS NULL", userID).
		First(&log).Error
	return &log, err
}

func (s *timeLogRepoImpl) ListByUser(ctx context.Context, userID uint64, from time.Time, to time.Time) ([]*model.TimeLog, error) {
	var logs []*model.TimeLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND start_at BETWEEN ? AND ?", userID, from, to).
		Order("start_at DESC").
		Find(&logs).Error
	return logs, err
}
