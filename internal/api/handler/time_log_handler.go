package handler

import (
	"Milestone/internal/api/dto"
	"Milestone/internal/pkg/response"
	"Milestone/internal/service"
	"time"

	"github.com/gin-gonic/gin"
)

type TimeLogHandler struct {
	timeLogSvc service.TimeLogService
}

func NewTimeLogHandler(timeLogSvc service.TimeLogService) *TimeLogHandler {
	return &TimeLogHandler{timeLogSvc: timeLogSvc}
}

func (s *TimeLogHandler) CreateTimeLog(c *gin.Context) {
	var req dto.CreateTimeLogReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	logDTO, err := s.timeLogSvc.CreateTimeLog(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, logDTO)
}

func (s *TimeLogHandler) StopRunning(c *gin.Context) {
	logDTO, err := s.timeLogSvc.StopRunning(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, logDTO)
}

func (s *TimeLogHandler) DeleteTimeLog(c *gin.Context) {
	logID, err := parseIDParam(c, "log_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.timeLogSvc.DeleteTimeLog(c.Request.Context(), c.GetUint64("user_id"), logID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListMyTimeLogs 按时间段查询，缺省为最近 30 天
func (s *TimeLogHandler) ListMyTimeLogs(c *gin.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		to = t
	}
	logs, err := s.timeLogSvc.ListMyTimeLogs(c.Request.Context(), c.GetUint64("user_id"), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, logs)
}
