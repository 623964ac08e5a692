package handler

import (
	"Milestone/internal/api/dto"
	"Milestone/internal/pkg/response"
	"Milestone/internal/service"

	"github.com/gin-gonic/gin"
)

type MeetingHandler struct {
	meetingSvc service.MeetingService
}

func NewMeetingHandler(meetingSvc service.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetingSvc: meetingSvc}
}

func (s *MeetingHandler) CreateMeeting(c *gin.Context) {
	var req dto.CreateMeetingReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	meeting, err := s.meetingSvc.CreateMeeting(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, meeting)
}

func (s *MeetingHandler) GetMeeting(c *gin.Context) {
	meetingID, err := parseIDParam(c, "meeting_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	meeting, err := s.meetingSvc.GetMeeting(c.Request.Context(), c.GetUint64("user_id"), meetingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, meeting)
}

func (s *MeetingHandler) CancelMeeting(c *gin.Context) {
	meetingID, err := parseIDParam(c, "meeting_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	err = s.meetingSvc.CancelMeeting(c.Request.Context(), c.GetUint64("user_id"), c.GetString("role"), meetingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *MeetingHandler) ListMyMeetings(c *gin.Context) {
	meetings, err := s.meetingSvc.ListMyMeetings(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, meetings)
}
