package model

import "time"

type Meeting struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID   *uint64   `gorm:"index" json:"projectId"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Agenda      *string   `gorm:"type:text" json:"agenda"`
	OrganizerID uint64    `gorm:"index;not null" json:"organizerId"`
	StartAt     time.Time `gorm:"index" json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	Reminded    bool      `gorm:"not null;default:0" json:"reminded"` // 提醒邮件最多发送一次
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Attendees []MeetingAttendee `gorm:"foreignKey:MeetingID;references:ID" json:"attendees"`
}

func (Meeting) TableName() string { return "meetings" }

type MeetingAttendee struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	MeetingID uint64 `gorm:"uniqueIndex:idx_meeting_user" json:"meetingId"`
	UserID    uint64 `gorm:"uniqueIndex:idx_meeting_user;index" json:"userId"`
}

func (MeetingAttendee) TableName() string { return "meeting_attendees" }
