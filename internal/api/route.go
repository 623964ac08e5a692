package api

import (
	"Milestone/internal/api/middleware"
	"Milestone/internal/pkg/consts"
	"Milestone/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.POST("/login", group.UserHandler.Login)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.GET("/info", group.UserHandler.GetUserInfo)
				authGroup.GET("/:user_id", group.UserHandler.GetUserByID)
			}
		}

		// 网关入口，token 随 query 鉴权
		apiGroup.GET("/ws", group.WSHandler.Connect)

		chatGroup := apiGroup.Group("/chats")
		chatGroup.Use(middleware.AuthMiddleware())
		{
			chatGroup.POST("/private", group.ChatHandler.CreatePrivateChat)
			chatGroup.POST("/project", group.ChatHandler.CreateProjectChat)
			chatGroup.GET("", group.ChatHandler.ListChats)
			chatGroup.GET("/:chatId/messages", group.ChatHandler.GetChatHistory)
			chatGroup.POST("/message", group.ChatHandler.SendMessage)
			chatGroup.PUT("/message/:messageId", group.ChatHandler.EditMessage)
			chatGroup.DELETE("/message/:messageId", group.ChatHandler.DeleteMessage)
			chatGroup.POST("/:chatId/clear", group.ChatHandler.ClearChat)
			chatGroup.DELETE("/:chatId", group.ChatHandler.DeleteChat)
		}

		projectGroup := apiGroup.Group("/projects")
		projectGroup.Use(middleware.AuthMiddleware())
		{
			projectGroup.GET("", group.ProjectHandler.ListProjects)
			projectGroup.GET("/:project_id", group.ProjectHandler.GetProject)
			projectGroup.GET("/:project_id/tasks", group.TaskHandler.ListProjectTasks)

			// 项目的创建与成员管理限员工侧角色
			staffGroup := projectGroup.Group("")
			staffGroup.Use(middleware.CheckRoles(consts.RoleAdmin, consts.RoleManager))
			{
				staffGroup.POST("", group.ProjectHandler.CreateProject)
				staffGroup.PUT("/:project_id", group.ProjectHandler.UpdateProject)
				staffGroup.POST("/:project_id/members/:member_id", group.ProjectHandler.AddMember)
				staffGroup.DELETE("/:project_id/members/:member_id", group.ProjectHandler.RemoveMember)
			}
		}

		taskGroup := apiGroup.Group("/tasks")
		taskGroup.Use(middleware.AuthMiddleware())
		{
			taskGroup.POST("", group.TaskHandler.CreateTask)
			taskGroup.GET("/self", group.TaskHandler.ListMyTasks)
			taskGroup.GET("/:task_id", group.TaskHandler.GetTask)
			taskGroup.PUT("/:task_id", group.TaskHandler.UpdateTask)
			taskGroup.DELETE("/:task_id", group.TaskHandler.DeleteTask)
		}

		ticketGroup := apiGroup.Group("/tickets")
		ticketGroup.Use(middleware.AuthMiddleware())
		{
			ticketGroup.POST("", group.TicketHandler.CreateTicket)
			ticketGroup.GET("", group.TicketHandler.ListTickets)
			ticketGroup.GET("/:ticket_id", group.TicketHandler.GetTicket)
			ticketGroup.PUT("/:ticket_id", group.TicketHandler.UpdateTicket)
		}

		meetingGroup := apiGroup.Group("/meetings")
		meetingGroup.Use(middleware.AuthMiddleware())
		{
			meetingGroup.POST("", group.MeetingHandler.CreateMeeting)
			meetingGroup.GET("", group.MeetingHandler.ListMyMeetings)
			meetingGroup.GET("/:meeting_id", group.MeetingHandler.GetMeeting)
			meetingGroup.DELETE("/:meeting_id", group.MeetingHandler.CancelMeeting)
		}

		timeLogGroup := apiGroup.Group("/time-logs")
		timeLogGroup.Use(middleware.AuthMiddleware())
		{
			timeLogGroup.POST("", group.TimeLogHandler.CreateTimeLog)
			timeLogGroup.POST("/stop", group.TimeLogHandler.StopRunning)
			timeLogGroup.GET("", group.TimeLogHandler.ListMyTimeLogs)
			timeLogGroup.DELETE("/:log_id", group.TimeLogHandler.DeleteTimeLog)
		}

		mediaGroup := apiGroup.Group("/media")
		{
			mediaGroup.Use(middleware.AuthMiddleware())
			mediaGroup.POST("/upload", group.MediaHandler.Upload)
		}
	}

	return r
}
