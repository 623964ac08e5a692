package dto

import "time"

// CreateProjectReq 创建项目请求体
type CreateProjectReq struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Description *string  `json:"description" binding:"omitempty,max=500"`
	MemberIDs   []uint64 `json:"member_ids"`
}

// UpdateProjectReq 更新项目请求体
type UpdateProjectReq struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// ProjectDTO 项目响应
type ProjectDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	OwnerID     uint64    `json:"owner_id"`
	ChatID      *uint64   `json:"chat_id"`
	MemberIDs   []uint64  `json:"member_ids"`
	CreatedAt   time.Time `json:"createdAt"`
}
