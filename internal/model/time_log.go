package model

import "time"

type TimeLog struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64     `gorm:"index;not null" json:"userId"`
	TaskID    *uint64    `gorm:"index" json:"taskId"`
	ProjectID *uint64    `gorm:"index" json:"projectId"`
	Note      *string    `gorm:"type:varchar(255)" json:"note"`
	StartAt   time.Time  `gorm:"index" json:"startAt"`
	EndAt     *time.Time `json:"endAt"`
	Minutes   int        `gorm:"not null;default:0" json:"minutes"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (TimeLog) TableName() string { return "time_logs" }
