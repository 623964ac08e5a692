package service

import (
	"Milestone/internal/api/dto"
	"Milestone/internal/model"
	"Milestone/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

type TimeLogService interface {
	CreateTimeLog(ctx context.Context, userID uint64, req *dto.CreateTimeLogReq) (*dto.TimeLogDTO, error)
	StopRunning(ctx context.Context, userID uint64) (*dto.TimeLogDTO, error)
	DeleteTimeLog(ctx context.Context, userID uint64, logID uint64) error
	ListMyTimeLogs(ctx context.Context, userID uint64, from time.Time, to time.Time) ([]*dto.TimeLogDTO, error)
}

type TimeLogServiceImpl struct {
	timeLogRepo repository.TimeLogRepo
}

func NewTimeLogService(timeLogRepo repository.TimeLogRepo) TimeLogService {
	return &TimeLogServiceImpl{timeLogRepo: timeLogRepo}
}

// CreateTimeLog end_at 为空表示开始计时，时长在结束时结算
func (s *TimeLogServiceImpl) CreateTimeLog(ctx context.Context, userID uint64, req *dto.CreateTimeLogReq) (*dto.TimeLogDTO, error) {
	logEntry := &model.TimeLog{
		UserID:    userID,
		TaskID:    req.TaskID,
		ProjectID: req.ProjectID,
		Note:      req.Note,
		StartAt:   req.StartAt,
		EndAt:     req.EndAt,
		Minutes:   req.Minutes,
	}
	if req.EndAt != nil && req.Minutes == 0 {
		logEntry.Minutes = int(req.EndAt.Sub(req.StartAt).Minutes())
	}
	if err := s.timeLogRepo.Create(ctx, logEntry); err != nil {
		return nil, err
	}
	return toTimeLogDTO(logEntry)
}

// StopRunning 结束当前进行中的计时并结算分钟数
func (s *TimeLogServiceImpl) StopRunning(ctx context.Context, userID uint64) (*dto.TimeLogDTO, error) {
	logEntry, err := s.timeLogRepo.GetRunning(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeLogNotFound
		}
		return nil, err
	}
	now := time.Now()
	logEntry.EndAt = &now
	logEntry.Minutes = int(now.Sub(logEntry.StartAt).Minutes())
	if err = s.timeLogRepo.Update(ctx, logEntry); err != nil {
		return nil, err
	}
	return toTimeLogDTO(logEntry)
}

func (s *TimeLogServiceImpl) DeleteTimeLog(ctx context.Context, userID uint64, logID uint64) error {
	logEntry, err := s.timeLogRepo.GetByID(ctx, logID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimeLogNotFound
		}
		return err
	}
	if logEntry.UserID != userID {
		return ForbiddenError
	}
	return s.timeLogRepo.Delete(ctx, logID)
}

func (s *TimeLogServiceImpl) ListMyTimeLogs(ctx context.Context, userID uint64, from time.Time, to time.Time) ([]*dto.TimeLogDTO, error) {
	logs, err := s.timeLogRepo.ListByUser(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.TimeLogDTO, 0, len(logs))
	for _, logEntry := range logs {
		logDTO, err := toTimeLogDTO(logEntry)
		if err != nil {
			return nil, err
		}
		result = append(result, logDTO)
	}
	return result, nil
}

func toTimeLogDTO(logEntry *model.TimeLog) (*dto.TimeLogDTO, error) {
	logDTO := &dto.TimeLogDTO{}
	if err := copier.Copy(logDTO, logEntry); err != nil {
		return nil, err
	}
	return logDTO, nil
}
