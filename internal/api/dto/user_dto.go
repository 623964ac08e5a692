package dto

import "time"

// RegisterDTO 注册请求体
type RegisterDTO struct {
	Username string  `json:"username" binding:"required,min=3,max=50"`
	Password string  `json:"password" binding:"required,min=6,max=64"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role" binding:"omitempty,oneof=ADMIN MANAGER TEAM_MEMBER CUSTOMER"`
}

// CredentialDTO 登录请求体
type CredentialDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResultDTO 登录响应
type LoginResultDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// UserDTO 用户信息响应
type UserDTO struct {
	ID       uint64     `json:"id"`
	Username string     `json:"username"`
	Email    *string    `json:"email"`
	Phone    *string    `json:"phone"`
	Role     string     `json:"role"`
	LastSeen *time.Time `json:"lastSeen"`
}
