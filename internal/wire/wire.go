package wire

import (
	"Milestone/internal/api"
	"Milestone/internal/api/handler"
	"Milestone/internal/job"
	"Milestone/internal/pkg/cron"
	"Milestone/internal/pkg/realtime"
	"Milestone/internal/repository"
	"Milestone/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	DB      *gorm.DB
	Hub     *realtime.Hub
	CronMgr *cron.Manager
}

func BuildApplication(db *gorm.DB) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	chatRepo := repository.NewChatRepo(db)
	messageRepo := repository.NewMessageRepo(db)
	projectRepo := repository.NewProjectRepo(db)
	taskRepo := repository.NewTaskRepo(db)
	ticketRepo := repository.NewTicketRepo(db)
	meetingRepo := repository.NewMeetingRepo(db)
	timeLogRepo := repository.NewTimeLogRepo(db)

	hub := realtime.NewHub()

	notifyService := service.NewNotifyService(userRepo)
	userService := service.NewUserService(userRepo)
	chatService := service.NewChatService(chatRepo, messageRepo, userRepo, projectRepo, hub, notifyService)
	gatewayService := service.NewGatewayService(chatRepo, messageRepo, userRepo, hub)
	projectService := service.NewProjectService(projectRepo, chatRepo, notifyService)
	taskService := service.NewTaskService(taskRepo, projectRepo, notifyService)
	ticketService := service.NewTicketService(ticketRepo, notifyService)
	meetingService := service.NewMeetingService(meetingRepo, notifyService)
	timeLogService := service.NewTimeLogService(timeLogRepo)
	mediaService := service.NewMediaService()

	handlers := &api.HandlersGroup{
		UserHandler:    handler.NewUserHandler(userService),
		ChatHandler:    handler.NewChatHandler(chatService),
		WSHandler:      handler.NewWsHandler(hub, gatewayService),
		ProjectHandler: handler.NewProjectHandler(projectService),
		TaskHandler:    handler.NewTaskHandler(taskService),
		TicketHandler:  handler.NewTicketHandler(ticketService),
		MeetingHandler: handler.NewMeetingHandler(meetingService),
		TimeLogHandler: handler.NewTimeLogHandler(timeLogService),
		MediaHandler:   handler.NewMediaHandler(mediaService),
	}

	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager(job.NewMeetingReminderJob(meetingRepo, notifyService))

	return &ApplicationContainer{
		Router:  router,
		DB:      db,
		Hub:     hub,
		CronMgr: cronMgr,
	}, nil
}
