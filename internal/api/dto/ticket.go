package dto

import "time"

// CreateTicketReq 创建工单请求体
type CreateTicketReq struct {
	ProjectID   *uint64 `json:"project_id"`
	Subject     string  `json:"subject" binding:"required,max=200"`
	Description *string `json:"description"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
}

// UpdateTicketReq 更新工单请求体
type UpdateTicketReq struct {
	Subject     *string `json:"subject" binding:"omitempty,max=200"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
	AssigneeID  *uint64 `json:"assignee_id"`
}

// TicketDTO 工单响应
type TicketDTO struct {
	ID          uint64    `json:"id"`
	ProjectID   *uint64   `json:"project_id"`
	Subject     string    `json:"subject"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	ReporterID  uint64    `json:"reporter_id"`
	AssigneeID  *uint64   `json:"assignee_id"`
	CreatedAt   time.Time `json:"createdAt"`
}
