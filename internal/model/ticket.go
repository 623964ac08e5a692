package model

import "time"

type Ticket struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID   *uint64   `gorm:"index" json:"projectId"`
	Subject     string    `gorm:"type:varchar(200);not null" json:"subject"`
	Description *string   `gorm:"type:text" json:"description"`
	Status      string    `gorm:"type:varchar(20);not null;default:'OPEN'" json:"status"`
	Priority    string    `gorm:"type:varchar(20);not null;default:'NORMAL'" json:"priority"`
	ReporterID  uint64    `gorm:"index;not null" json:"reporterId"`
	AssigneeID  *uint64   `gorm:"index" json:"assigneeId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Ticket) TableName() string { return "tickets" }
