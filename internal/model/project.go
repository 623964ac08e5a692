package model

import "time"

type Project struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description *string   `gorm:"type:varchar(500)" json:"description"`
	OwnerID     uint64    `gorm:"index;not null" json:"ownerId"`
	ChatID      *uint64   `gorm:"index" json:"chatId"` // 项目群聊
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Members []ProjectMember `gorm:"foreignKey:ProjectID;references:ID" json:"members"`
}

func (Project) TableName() string { return "projects" }

type ProjectMember struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID uint64    `gorm:"uniqueIndex:idx_project_user" json:"projectId"`
	UserID    uint64    `gorm:"uniqueIndex:idx_project_user;index" json:"userId"`
	JoinedAt  time.Time `json:"joinedAt"`
}

func (ProjectMember) TableName() string { return "project_members" }
