package dto

import "time"

// CreateTimeLogReq 记录工时请求体
type CreateTimeLogReq struct {
	TaskID    *uint64    `json:"task_id"`
	ProjectID *uint64    `json:"project_id"`
	Note      *string    `json:"note" binding:"omitempty,max=255"`
	StartAt   time.Time  `json:"start_at" binding:"required"`
	EndAt     *time.Time `json:"end_at"`
	Minutes   int        `json:"minutes" binding:"omitempty,min=0"`
}

// TimeLogDTO 工时响应
type TimeLogDTO struct {
	ID        uint64     `json:"id"`
	UserID    uint64     `json:"user_id"`
	TaskID    *uint64    `json:"task_id"`
	ProjectID *uint64    `json:"project_id"`
	Note      *string    `json:"note"`
	StartAt   time.Time  `json:"start_at"`
	EndAt     *time.Time `json:"end_at"`
	Minutes   int        `json:"minutes"`
	CreatedAt time.Time  `json:"createdAt"`
}
