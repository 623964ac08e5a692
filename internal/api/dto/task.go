package dto

import "time"

// CreateTaskReq 创建任务请求体
type CreateTaskReq struct {
	ProjectID   uint64     `json:"project_id" binding:"required"`
	Title       string     `json:"title" binding:"required,max=200"`
	Description *string    `json:"description"`
	AssigneeID  *uint64    `json:"assignee_id"`
	DueAt       *time.Time `json:"due_at"`
}

// UpdateTaskReq 更新任务请求体
type UpdateTaskReq struct {
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Description *string    `json:"description"`
	Status      *string    `json:"status" binding:"omitempty,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
	AssigneeID  *uint64    `json:"assignee_id"`
	DueAt       *time.Time `json:"due_at"`
}

// TaskDTO 任务响应
type TaskDTO struct {
	ID          uint64     `json:"id"`
	ProjectID   uint64     `json:"project_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	AssigneeID  *uint64    `json:"assignee_id"`
	CreatorID   uint64     `json:"creator_id"`
	DueAt       *time.Time `json:"due_at"`
	CreatedAt   time.Time  `json:"createdAt"`
}
