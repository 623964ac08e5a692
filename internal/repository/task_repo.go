package repository

import (
	"Milestone/internal/model"
	"context"

	"gorm.io/gorm"
)

type TaskRepo interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, taskID uint64) (*model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, taskID uint64) error
	ListByProject(ctx context.Context, projectID uint64) ([]*model.Task, error)
	ListByAssignee(ctx context.Context, userID uint64) ([]*model.Task, error)
}

type taskRepoImpl struct {
	db *gorm.DB
}

func NewTaskRepo(db *gorm.DB) TaskRepo {
	return &taskRepoImpl{db: db}
}

func (s *taskRepoImpl) Create(ctx context.Context, task *model.Task) error {
	return s.db.WithContext(ctx).Create(task).Error
}

func (s *taskRepoImpl) GetByID(ctx context.Context, taskID uint64) (*model.Task, error) {
	var task model.Task
	err := s.db.WithContext(ctx).First(&task, taskID).Error
	return &task, err
}

func (s *taskRepoImpl) Update(ctx context.Context, task *model.Task) error {
	return s.db.WithContext(ctx).Save(task).Error
}

func (s *taskRepoImpl) Delete(ctx context.Context, taskID uint64) error {
	return s.db.WithContext(ctx).Delete(&model.Task{}, taskID).Error
}

func (s *taskRepoImpl) ListByProject(ctx context.Context, projectID uint64) ([]*model.Task, error) {
	var tasks []*model.Task
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (s *taskRepoImpl) ListByAssignee(ctx context.Context, userID uint64) ([]*model.Task, error) {
	var tasks []*model.Task
	err := s.db.WithContext(ctx).
		Where("assignee_id = ?", userID).
		Order("due_at ASC").
		Find(&tasks).Error
	return tasks, err
}
