package repository

import (
	"Milestone/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MeetingRepo interface {
	Create(ctx context.Context, meeting *model.Meeting, attendeeIDs []uint64) error
	GetByID(ctx context.Context, meetingID uint64) (*model.Meeting, error)
	Update(ctx context.Context, meeting *model.Meeting) error
	Delete(ctx context.Context, meetingID uint64) error
	ListByUser(ctx context.Context, userID uint64) ([]*model.Meeting, error)
	AddAttendee(ctx context.Context, meetingID uint64, userID uint64) error
	ListStartingBetween(ctx context.Context, from time.Time, to time.Time) ([]*model.Meeting, error)
	MarkReminded(ctx context.Context, meetingIDs []uint64) error
}

type meetingRepoImpl struct {
	db *gorm.DB
}

func NewMeetingRepo(db *gorm.DB) MeetingRepo {
	return &meetingRepoImpl{db: db}
}

// Create 事务创建会议并登记全部与会人（组织者总在其中）
func (s *meetingRepoImpl) Create(ctx context.Context, meeting *model.Meeting, attendeeIDs []uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(meeting).Error; err != nil {
			return err
		}
		for _, userID := range attendeeIDs {
			err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&model.MeetingAttendee{MeetingID: meeting.ID, UserID: userID}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *meetingRepoImpl) GetByID(ctx context.Context, meetingID uint64) (*model.Meeting, error) {
	var meeting model.Meeting
	err := s.db.WithContext(ctx).Preload("Attendees").First(&meeting, meetingID).Error
	return &meeting, err
}

func (s *meetingRepoImpl) Update(ctx context.Context, meeting *model.Meeting) error {
	return s.db.WithContext(ctx).Save(meeting).Error
}

func (s *meetingRepoImpl) Delete(ctx context.Context, meetingID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", meetingID).Delete(&model.MeetingAttendee{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Meeting{}, meetingID).Error
	})
}

func (s *meetingRepoImpl) ListByUser(ctx context.Context, userID uint64) ([]*model.Meeting, error) {
	var meetings []*model.Meeting
	err := s.db.WithContext(ctx).
		Preload("Attendees").
		Joins("JOIN meeting_attendees ma ON ma.meeting_id = meetings.id").
		Where("ma.user_id = ?", userID).
		Order("meetings.start_at ASC").
		Find(&meetings).Error
	return meetings, err
}

func (s *meetingRepoImpl) AddAttendee(ctx context.Context, meetingID uint64, userID uint64) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.MeetingAttendee{MeetingID: meetingID, UserID: userID}).Error
}

// ListStartingBetween 返回窗口内尚未提醒的会议，供定时任务扫描
func (s *meetingRepoImpl) ListStartingBetween(ctx context.Context, from time.Time, to time.Time) ([]*model.Meeting, error) {
	var meetings []*model.Meeting
	err := s.db.WithContext(ctx).
		Preload("Attendees").
		Where("start_at BETWEEN ? AND ? AND reminded = 0", from, to).
		Find(&meetings).Error
	return meetings, err
}

func (s *meetingRepoImpl) MarkReminded(ctx context.Context, meetingIDs []uint64) error {
	if len(meetingIDs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&model.Meeting{}).
		Where("id IN ?", meetingIDs).
		Update("reminded", true).Error
}
