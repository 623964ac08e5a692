package repository

import (
	"Milestone/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepo interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, projectID uint64) (*model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	ListByUser(ctx context.Context, userID uint64) ([]*model.Project, error)
	IsMember(ctx context.Context, projectID uint64, userID uint64) (bool, error)
	AddMember(ctx context.Context, projectID uint64, userID uint64) error
	RemoveMember(ctx context.Context, projectID uint64, userID uint64) error
	GetMembers(ctx context.Context, projectID uint64) ([]*model.ProjectMember, error)
	BindChat(ctx context.Context, projectID uint64, chatID uint64) error
}

type projectRepoImpl struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepoImpl{db: db}
}

func (s *projectRepoImpl) Create(ctx context.Context, project *model.Project) error {
	return s.db.WithContext(ctx).Create(project).Error
}

func (s *projectRepoImpl) GetByID(ctx context.Context, projectID uint64) (*model.Project, error) {
	var project model.Project
	err := s.db.WithContext(ctx).Preload("Members").First(&project, projectID).Error
	return &project, err
}

func (s *projectRepoImpl) Update(ctx context.Context, project *model.Project) error {
	return s.db.WithContext(ctx).Save(project).Error
}

func (s *projectRepoImpl) ListByUser(ctx context.Context, userID uint64) ([]*model.Project, error) {
	var projects []*model.Project
	err := s.db.WithContext(ctx).
		Joins("JOIN project_members pm ON pm.project_id = projects.id").
		Where("pm.user_id = ?", userID).
		Order("projects.updated_at DESC").
		Find(&projects).Error
	return projects, err
}

func (s *projectRepoImpl) IsMember(ctx context.Context, projectID uint64, userID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddMember (project_id,user_id) 唯一键下幂等加入
func (s *projectRepoImpl) AddMember(ctx context.Context, projectID uint64, userID uint64) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.ProjectMember{
			ProjectID: projectID,
			UserID:    userID,
			JoinedAt:  time.Now(),
		}).Error
}

func (s *projectRepoImpl) RemoveMember(ctx context.Context, projectID uint64, userID uint64) error {
	return s.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.ProjectMember{}).Error
}

func (s *projectRepoImpl) GetMembers(ctx context.Context, projectID uint64) ([]*model.ProjectMember, error) {
	var members []*model.ProjectMember
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Find(&members).Error
	return members, err
}

// BindChat 将项目群聊与项目绑定
func (s *projectRepoImpl) BindChat(ctx context.Context, projectID uint64, chatID uint64) error {
	return s.db.WithContext(ctx).Model(&model.Project{}).
		Where("id = ?", projectID).
		Update("chat_id", chatID).Error
}
