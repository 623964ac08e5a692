package handler

import (
	"Milestone/internal/api/dto"
	"Milestone/internal/pkg/response"
	"Milestone/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatSvc service.ChatService
}

func NewChatHandler(chatSvc service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

func (s *ChatHandler) CreatePrivateChat(c *gin.Context) {
	var req dto.CreatePrivateChatReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	chat, err := s.chatSvc.CreatePrivateChat(c.Request.Context(), c.GetUint64("user_id"), c.GetString("role"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, chat)
}

func (s *ChatHandler) CreateProjectChat(c *gin.Context) {
	var req dto.CreateProjectChatReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	chat, err := s.chatSvc.CreateProjectChat(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, chat)
}

func (s *ChatHandler) ListChats(c *gin.Context) {
	chats, err := s.chatSvc.ListChats(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, chats)
}

func (s *ChatHandler) GetChatHistory(c *gin.Context) {
	chatID, err := parseIDParam(c, "chatId")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	messages, err := s.chatSvc.GetChatHistory(c.Request.Context(), c.GetUint64("user_id"), chatID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, messages)
}

func (s *ChatHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	msg, err := s.chatSvc.SendMessage(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, msg)
}

func (s *ChatHandler) EditMessage(c *gin.Context) {
	messageID, err := parseIDParam(c, "messageId")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.EditMessageReq
	if err = c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	msg, err := s.chatSvc.EditMessage(c.Request.Context(), c.GetUint64("user_id"), messageID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, msg)
}

func (s *ChatHandler) DeleteMessage(c *gin.Context) {
	messageID, err := parseIDParam(c, "messageId")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.chatSvc.DeleteMessage(c.Request.Context(), c.GetUint64("user_id"), messageID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChatHandler) ClearChat(c *gin.Context) {
	chatID, err := parseIDParam(c, "chatId")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.ChatScopeReq
	if err = c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err = s.chatSvc.ClearChat(c.Request.Context(), c.GetUint64("user_id"), chatID, req.ForEveryone); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChatHandler) DeleteChat(c *gin.Context) {
	chatID, err := parseIDParam(c, "chatId")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.ChatScopeReq
	if err = c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err = s.chatSvc.DeleteChat(c.Request.Context(), c.GetUint64("user_id"), chatID, req.ForEveryone); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func parseIDParam(c *gin.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
