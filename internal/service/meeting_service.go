package service

import (
	"Milestone/internal/api/dto"
	"Milestone/internal/model"
	"Milestone/internal/repository"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type MeetingService interface {
	CreateMeeting(ctx context.Context, userID uint64, req *dto.CreateMeetingReq) (*dto.MeetingDTO, error)
	GetMeeting(ctx context.Context, userID uint64, meetingID uint64) (*dto.MeetingDTO, error)
	CancelMeeting(ctx context.Context, userID uint64, role string, meetingID uint64) error
	ListMyMeetings(ctx context.Context, userID uint64) ([]*dto.MeetingDTO, error)
}

type MeetingServiceImpl struct {
	meetingRepo repository.MeetingRepo
	notify      NotifyService
}

func NewMeetingService(meetingRepo repository.MeetingRepo, notify NotifyService) MeetingService {
	return &MeetingServiceImpl{
		meetingRepo: meetingRepo,
		notify:      notify,
	}
}

// CreateMeeting 组织者自动在与会人列表内，创建后即时通知全部与会人
func (s *MeetingServiceImpl) CreateMeeting(ctx context.Context, userID uint64, req *dto.CreateMeetingReq) (*dto.MeetingDTO, error) {
	if !req.EndAt.After(req.StartAt) {
		return nil, ErrParamInvalid
	}

	attendeeSet := map[uint64]struct{}{userID: {}}
	for _, id := range req.AttendeeIDs {
		attendeeSet[id] = struct{}{}
	}
	attendeeIDs := make([]uint64, 0, len(attendeeSet))
	for id := range attendeeSet {
		attendeeIDs = append(attendeeIDs, id)
	}

	meeting := &model.Meeting{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Agenda:      req.Agenda,
		OrganizerID: userID,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
	}
	if err := s.meetingRepo.Create(ctx, meeting, attendeeIDs); err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("会议邀请：%s", meeting.Title)
	content := fmt.Sprintf("会议「%s」将于 %s 开始", meeting.Title, meeting.StartAt.Format("2006-01-02 15:04"))
	for _, id := range attendeeIDs {
		if id == userID {
			continue
		}
		go s.notify.NotifyUser(context.WithoutCancel(ctx), id, subject, content)
	}

	loaded, err := s.meetingRepo.GetByID(ctx, meeting.ID)
	if err != nil {
		return nil, err
	}
	return toMeetingDTO(loaded), nil
}

func (s *MeetingServiceImpl) GetMeeting(ctx context.Context, userID uint64, meetingID uint64) (*dto.MeetingDTO, error) {
	meeting, err := s.findMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if !isAttendee(meeting, userID) {
		return nil, ForbiddenError
	}
	return toMeetingDTO(meeting), nil
}

// CancelMeeting 仅组织者或管理侧角色可取消，取消后通知与会人
func (s *MeetingServiceImpl) CancelMeeting(ctx context.Context, userID uint64, role string, meetingID uint64) error {
	meeting, err := s.findMeeting(ctx, meetingID)
	if err != nil {
		return err
	}
	if meeting.OrganizerID != userID && !isStaff(role) {
		return ForbiddenError
	}
	if err = s.meetingRepo.Delete(ctx, meetingID); err != nil {
		return err
	}
	subject := fmt.Sprintf("会议取消：%s", meeting.Title)
	for _, attendee := range meeting.Attendees {
		if attendee.UserID == userID {
			continue
		}
		go s.notify.NotifyUser(context.WithoutCancel(ctx), attendee.UserID, subject, "")
	}
	return nil
}

func (s *MeetingServiceImpl) ListMyMeetings(ctx context.Context, userID uint64) ([]*dto.MeetingDTO, error) {
	meetings, err := s.meetingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.MeetingDTO, 0, len(meetings))
	for _, meeting := range meetings {
		result = append(result, toMeetingDTO(meeting))
	}
	return result, nil
}

func (s *MeetingServiceImpl) findMeeting(ctx context.Context, meetingID uint64) (*model.Meeting, error) {
	meeting, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, err
	}
	return meeting, nil
}

func isAttendee(meeting *model.Meeting, userID uint64) bool {
	if meeting.OrganizerID == userID {
		return true
	}
	for _, attendee := range meeting.Attendees {
		if attendee.UserID == userID {
			return true
		}
	}
	return false
}

func toMeetingDTO(meeting *model.Meeting) *dto.MeetingDTO {
	attendeeIDs := make([]uint64, 0, len(meeting.Attendees))
	for _, attendee := range meeting.Attendees {
		attendeeIDs = append(attendeeIDs, attendee.UserID)
	}
	return &dto.MeetingDTO{
		ID:          meeting.ID,
		ProjectID:   meeting.ProjectID,
		Title:       meeting.Title,
		Agenda:      meeting.Agenda,
		OrganizerID: meeting.OrganizerID,
		StartAt:     meeting.StartAt,
		EndAt:       meeting.EndAt,
		AttendeeIDs: attendeeIDs,
	}
}
