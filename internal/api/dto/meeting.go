package dto

import "time"

// CreateMeetingReq 创建会议请求体
type CreateMeetingReq struct {
	ProjectID   *uint64   `json:"project_id"`
	Title       string    `json:"title" binding:"required,max=200"`
	Agenda      *string   `json:"agenda"`
	StartAt     time.Time `json:"start_at" binding:"required"`
	EndAt       time.Time `json:"end_at" binding:"required"`
	AttendeeIDs []uint64  `json:"attendee_ids"`
}

// MeetingDTO 会议响应
type MeetingDTO struct {
	ID          uint64    `json:"id"`
	ProjectID   *uint64   `json:"project_id"`
	Title       string    `json:"title"`
	Agenda      *string   `json:"agenda"`
	OrganizerID uint64    `json:"organizer_id"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	AttendeeIDs []uint64  `json:"attendee_ids"`
}
