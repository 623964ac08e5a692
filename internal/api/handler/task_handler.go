package handler

import (
	"Milestone/internal/api/dto"
	"Milestone/internal/pkg/response"
	"Milestone/internal/service"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskSvc service.TaskService
}

func NewTaskHandler(taskSvc service.TaskService) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

func (s *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	task, err := s.taskSvc.CreateTask(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, task)
}

func (s *TaskHandler) GetTask(c *gin.Context) {
	taskID, err := parseIDParam(c, "task_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	task, err := s.taskSvc.GetTask(c.Request.Context(), c.GetUint64("user_id"), taskID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, task)
}

func (s *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, err := parseIDParam(c, "task_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.UpdateTaskReq
	if err = c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	task, err := s.taskSvc.UpdateTask(c.Request.Context(), c.GetUint64("user_id"), c.GetString("role"), taskID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, task)
}

func (s *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, err := parseIDParam(c, "task_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.taskSvc.DeleteTask(c.Request.Context(), c.GetUint64("user_id"), c.GetString("role"), taskID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *TaskHandler) ListProjectTasks(c *gin.Context) {
	projectID, err := parseIDParam(c, "project_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	tasks, err := s.taskSvc.ListProjectTasks(c.Request.Context(), c.GetUint64("user_id"), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tasks)
}

func (s *TaskHandler) ListMyTasks(c *gin.Context) {
	tasks, err := s.taskSvc.ListMyTasks(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tasks)
}
