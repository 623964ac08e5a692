package model

import "time"

type Task struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID   uint64     `gorm:"index;not null" json:"projectId"`
	Title       string     `gorm:"type:varchar(200);not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	Status      string     `gorm:"type:varchar(20);not null;default:'OPEN'" json:"status"`
	AssigneeID  *uint64    `gorm:"index" json:"assigneeId"`
	CreatorID   uint64     `gorm:"index;not null" json:"creatorId"`
	DueAt       *time.Time `json:"dueAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Task) TableName() string { return "tasks" }
