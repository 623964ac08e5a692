package api

import "Milestone/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler    *handler.UserHandler
	ChatHandler    *handler.ChatHandler
	WSHandler      *handler.WsHandler
	ProjectHandler *handler.ProjectHandler
	TaskHandler    *handler.TaskHandler
	TicketHandler  *handler.TicketHandler
	MeetingHandler *handler.MeetingHandler
	TimeLogHandler *handler.TimeLogHandler
	MediaHandler   *handler.MediaHandler
}
