package service

import (
	"Milestone/internal/api/dto"
	"Milestone/internal/model"
	"Milestone/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type ProjectService interface {
	CreateProject(ctx context.Context, userID uint64, req *dto.CreateProjectReq) (*dto.ProjectDTO, error)
	GetProject(ctx context.Context, userID uint64, projectID uint64) (*dto.ProjectDTO, error)
	UpdateProject(ctx context.Context, userID uint64, role string, projectID uint64, req *dto.UpdateProjectReq) error
	ListProjects(ctx context.Context, userID uint64) ([]*dto.ProjectDTO, error)
	AddMember(ctx context.Context, userID uint64, role string, projectID uint64, memberID uint64) error
	RemoveMember(ctx context.Context, userID uint64, role string, projectID uint64, memberID uint64) error
}

type ProjectServiceImpl struct {
	projectRepo repository.ProjectRepo
	chatRepo    repository.ChatRepo
	notify      NotifyService
}

func NewProjectService(projectRepo repository.ProjectRepo, chatRepo repository.ChatRepo, notify NotifyService) ProjectService {
	return &ProjectServiceImpl{
		projectRepo: projectRepo,
		chatRepo:    chatRepo,
		notify:      notify,
	}
}

func (s *ProjectServiceImpl) CreateProject(ctx context.Context, userID uint64, req *dto.CreateProjectReq) (*dto.ProjectDTO, error) {
	project := &model.Project{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	if err := s.projectRepo.AddMember(ctx, project.ID, userID); err != nil {
		return nil, err
	}
	for _, memberID := range req.MemberIDs {
		if memberID == userID {
			continue
		}
		if err := s.projectRepo.AddMember(ctx, project.ID, memberID); err != nil {
			return nil, err
		}
		go s.notify.NotifyUser(context.WithoutCancel(ctx), memberID,
			fmt.Sprintf("你已被加入项目「%s」", project.Name), "")
	}
	return s.loadProjectDTO(ctx, project.ID)
}

func (s *ProjectServiceImpl) GetProject(ctx context.Context, userID uint64, projectID uint64) (*dto.ProjectDTO, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	isMember, err := s.projectRepo.IsMember(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotProjectMember
	}
	return toProjectDTO(project), nil
}

// UpdateProject 仅项目负责人、管理员与项目经理可修改
func (s *ProjectServiceImpl) UpdateProject(ctx context.Context, userID uint64, role string, projectID uint64, req *dto.UpdateProjectReq) error {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	if project.OwnerID != userID && !isStaff(role) {
		return ForbiddenError
	}
	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = req.Description
	}
	return s.projectRepo.Update(ctx, project)
}

func (s *ProjectServiceImpl) ListProjects(ctx context.Context, userID uint64) ([]*dto.ProjectDTO, error) {
	projects, err := s.projectRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.ProjectDTO, 0, len(projects))
	for _, project := range projects {
		result = append(result, toProjectDTO(project))
	}
	return result, nil
}

// AddMember 新成员同步加入项目群聊（若已创建）
func (s *ProjectServiceImpl) AddMember(ctx context.Context, userID uint64, role string, projectID uint64, memberID uint64) error {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	if project.OwnerID != userID && !isStaff(role) {
		return ForbiddenError
	}
	if err = s.projectRepo.AddMember(ctx, projectID, memberID); err != nil {
		return err
	}
	if project.ChatID != nil {
		// 落一条成员记录即完成入群，已读水位从当前时刻起算
		if err = s.chatRepo.UpsertLastRead(ctx, *project.ChatID, memberID, time.Now()); err != nil {
			return err
		}
	}
	go s.notify.NotifyUser(context.WithoutCancel(ctx), memberID,
		fmt.Sprintf("你已被加入项目「%s」", project.Name), "")
	return nil
}

func (s *ProjectServiceImpl) RemoveMember(ctx context.Context, userID uint64, role string, projectID uint64, memberID uint64) error {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	if project.OwnerID != userID && !isStaff(role) {
		return ForbiddenError
	}
	if memberID == project.OwnerID {
		return ForbiddenError
	}
	return s.projectRepo.RemoveMember(ctx, projectID, memberID)
}

func (s *ProjectServiceImpl) loadProjectDTO(ctx context.Context, projectID uint64) (*dto.ProjectDTO, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return toProjectDTO(project), nil
}

func toProjectDTO(project *model.Project) *dto.ProjectDTO {
	memberIDs := make([]uint64, 0, len(project.Members))
	for _, m := range project.Members {
		memberIDs = append(memberIDs, m.UserID)
	}
	return &dto.ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		ChatID:      project.ChatID,
		MemberIDs:   memberIDs,
		CreatedAt:   project.CreatedAt,
	}
}
