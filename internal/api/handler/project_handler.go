package handler

import (
	"Milestone/internal/api/dto"
	"Milestone/internal/pkg/response"
	"Milestone/internal/service"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectSvc service.ProjectService
}

func NewProjectHandler(projectSvc service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectSvc: projectSvc}
}

func (s *ProjectHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	project, err := s.projectSvc.CreateProject(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, project)
}

func (s *ProjectHandler) GetProject(c *gin.Context) {
	projectID, err := parseIDParam(c, "project_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	project, err := s.projectSvc.GetProject(c.Request.Context(), c.GetUint64("user_id"), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, project)
}

func (s *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID, err := parseIDParam(c, "project_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.UpdateProjectReq
	if err = c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	err = s.projectSvc.UpdateProject(c.Request.Context(), c.GetUint64("user_id"), c.GetString("role"), projectID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := s.projectSvc.ListProjects(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, projects)
}

func (s *ProjectHandler) AddMember(c *gin.Context) {
	projectID, err := parseIDParam(c, "project_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	memberID, err := parseIDParam(c, "member_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	err = s.projectSvc.AddMember(c.Request.Context(), c.GetUint64("user_id"), c.GetString("role"), projectID, memberID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ProjectHandler) RemoveMember(c *gin.Context) {
	projectID, err := parseIDParam(c, "project_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	memberID, err := parseIDParam(c, "member_id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	err = s.projectSvc.RemoveMember(c.Request.Context(), c.GetUint64("user_id"), c.GetString("role"), projectID, memberID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
