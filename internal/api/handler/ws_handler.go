package handler

import (
	"Milestone/internal/pkg/realtime"
	"Milestone/internal/pkg/response"
	"Milestone/internal/pkg/security"
	"Milestone/internal/service"
	"context"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

const (
	readLimit = 64 * 1024
	pongWait  = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WsHandler struct {
	hub        *realtime.Hub
	gatewaySvc service.GatewayService
}

func NewWsHandler(hub *realtime.Hub, gatewaySvc service.GatewayService) *WsHandler {
	return &WsHandler{
		hub:        hub,
		gatewaySvc: gatewaySvc,
	}
}

// Connect 网关入口：token 随 query 鉴权，升级后注册到 Hub 并进入读循环。
// 读循环内逐帧分发，非法帧丢弃不断连。
func (s *WsHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, service.UnauthorizedError)
		return
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		log.Warn("WS 鉴权失败", "err", err)
		response.Error(c, service.UnauthorizedError)
		return
	}
	userID := claims.UserID

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WS 协议升级失败", "err", err)
		return
	}

	conn := realtime.NewConnection(userID, ws)
	s.hub.Attach(conn)
	log.Info("用户 WS 连接已建立", "userID", userID, "connID", conn.ID)

	defer func() {
		s.hub.Detach(conn)
		conn.Close(websocket.CloseNormalClosure, "")
		s.gatewaySvc.HandleDisconnect(context.Background(), userID)
		log.Info("用户 WS 连接已断开", "userID", userID, "connID", conn.ID)
	}()

	ws.SetReadLimit(readLimit)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := ws.ReadMessage()
		if err != nil {
			return
		}
		var frame realtime.Frame
		if err = json.Unmarshal(payload, &frame); err != nil || frame.Event == "" {
			log.Warn("WS 帧解析失败", "userID", userID, "err", err)
			continue
		}
		s.gatewaySvc.HandleEvent(c.Request.Context(), conn.ID, userID, &frame)
	}
}
