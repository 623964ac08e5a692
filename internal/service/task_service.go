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

type TaskService interface {
	CreateTask(ctx context.Context, userID uint64, req *dto.CreateTaskReq) (*dto.TaskDTO, error)
	GetTask(ctx context.Context, userID uint64, taskID uint64) (*dto.TaskDTO, error)
	UpdateTask(ctx context.Context, userID uint64, role string, taskID uint64, req *dto.UpdateTaskReq) (*dto.TaskDTO, error)
	DeleteTask(ctx context.Context, userID uint64, role string, taskID uint64) error
	ListProjectTasks(ctx context.Context, userID uint64, projectID uint64) ([]*dto.TaskDTO, error)
	ListMyTasks(ctx context.Context, userID uint64) ([]*dto.TaskDTO, error)
}

type TaskServiceImpl struct {
	taskRepo    repository.TaskRepo
	projectRepo repository.ProjectRepo
	notify      NotifyService
}

func NewTaskService(taskRepo repository.TaskRepo, projectRepo repository.ProjectRepo, notify NotifyService) TaskService {
	return &TaskServiceImpl{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		notify:      notify,
	}
}

// CreateTask 创建者必须是项目成员，指派时通知被指派人
func (s *TaskServiceImpl) CreateTask(ctx context.Context, userID uint64, req *dto.CreateTaskReq) (*dto.TaskDTO, error) {
	isMember, err := s.projectRepo.IsMember(ctx, req.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotProjectMember
	}

	task := &model.Task{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      consts.StatusOpen,
		AssigneeID:  req.AssigneeID,
		CreatorID:   userID,
		DueAt:       req.DueAt,
	}
	if err = s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	if task.AssigneeID != nil && *task.AssigneeID != userID {
		go s.notify.NotifyUser(context.WithoutCancel(ctx), *task.AssigneeID,
			fmt.Sprintf("你有一个新任务：%s", task.Title), "")
	}
	return toTaskDTO(task)
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, userID uint64, taskID uint64) (*dto.TaskDTO, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err = s.requireProjectMember(ctx, task.ProjectID, userID); err != nil {
		return nil, err
	}
	return toTaskDTO(task)
}

func (s *TaskServiceImpl) UpdateTask(ctx context.Context, userID uint64, role string, taskID uint64, req *dto.UpdateTaskReq) (*dto.TaskDTO, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err = s.requireProjectMember(ctx, task.ProjectID, userID); err != nil {
		return nil, err
	}

	prevAssignee := task.AssigneeID
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.AssigneeID != nil {
		task.AssigneeID = req.AssigneeID
	}
	if req.DueAt != nil {
		task.DueAt = req.DueAt
	}
	if err = s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	if task.AssigneeID != nil && (prevAssignee == nil || *prevAssignee != *task.AssigneeID) && *task.AssigneeID != userID {
		go s.notify.NotifyUser(context.WithoutCancel(ctx), *task.AssigneeID,
			fmt.Sprintf("任务「%s」已指派给你", task.Title), "")
	}
	return toTaskDTO(task)
}

// DeleteTask 创建者或管理侧角色可删除
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, userID uint64, role string, taskID uint64) error {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return err
	}
	if task.CreatorID != userID && !isStaff(role) {
		return ForbiddenError
	}
	return s.taskRepo.Delete(ctx, taskID)
}

func (s *TaskServiceImpl) ListProjectTasks(ctx context.Context, userID uint64, projectID uint64) ([]*dto.TaskDTO, error) {
	if err := s.requireProjectMember(ctx, projectID, userID); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return toTaskDTOs(tasks)
}

func (s *TaskServiceImpl) ListMyTasks(ctx context.Context, userID uint64) ([]*dto.TaskDTO, error) {
	tasks, err := s.taskRepo.ListByAssignee(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toTaskDTOs(tasks)
}

func (s *TaskServiceImpl) findTask(ctx context.Context, taskID uint64) (*model.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskServiceImpl) requireProjectMember(ctx context.Context, projectID uint64, userID uint64) error {
	isMember, err := s.projectRepo.IsMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrNotProjectMember
	}
	return nil
}

func toTaskDTO(task *model.Task) (*dto.TaskDTO, error) {
	taskDTO := &dto.TaskDTO{}
	if err := copier.Copy(taskDTO, task); err != nil {
		return nil, err
	}
	return taskDTO, nil
}

func toTaskDTOs(tasks []*model.Task) ([]*dto.TaskDTO, error) {
	result := make([]*dto.TaskDTO, 0, len(tasks))
	for _, task := range tasks {
		taskDTO, err := toTaskDTO(task)
		if err != nil {
			return nil, err
		}
		result = append(result, taskDTO)
	}
	return result, nil
}
