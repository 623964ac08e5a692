package realtime

import (
	log "log/slog"
	"strconv"
	"sync"

	"github.com/goccy/go-json"
)

// Frame 网关统一帧格式：{"event": "...", "data": {...}}
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ChatRoom 会话房间名
func ChatRoom(chatID uint64) string {
	return "chat:" + strconv.FormatUint(chatID, 10)
}

// UserRoom 个人房间名，连接建立时自动订阅，用于按用户定向投递
func UserRoom(userID uint64) string {
	return "user:" + strconv.FormatUint(userID, 10)
}

// Hub 维护在线连接与房间订阅关系，负责房间内扇出。
// 单进程实现；房间内事件按处理顺序投递（FIFO），跨房间无顺序保证。
type Hub struct {
	mu        sync.RWMutex
	conns     map[string]*Connection            // connID -> connection
	userConns map[uint64]map[string]*Connection // userID -> connID -> connection
	rooms     map[string]map[string]*Connection // room -> connID -> connection
	connRooms map[string]map[string]struct{}    // connID -> set of rooms
}

// NewHub 构造已初始化的 Hub
func NewHub() *Hub {
	return &Hub{
		conns:     make(map[string]*Connection),
		userConns: make(map[uint64]map[string]*Connection),
		rooms:     make(map[string]map[string]*Connection),
		connRooms: make(map[string]map[string]struct{}),
	}
}

// Attach 注册连接并自动订阅其个人房间
func (h *Hub) Attach(conn *Connection) {
	h.mu.Lock()
	h.conns[conn.ID] = conn
	if h.userConns[conn.UserID] == nil {
		h.userConns[conn.UserID] = make(map[string]*Connection)
	}
	h.userConns[conn.UserID][conn.ID] = conn
	h.connRooms[conn.ID] = make(map[string]struct{})
	h.mu.Unlock()

	conn.Start()
	h.Subscribe(conn.ID, UserRoom(conn.UserID))
}

// Detach 注销连接并退出其订阅的全部房间
func (h *Hub) Detach(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[conn.ID]; !ok {
		return
	}
	delete(h.conns, conn.ID)

	if set := h.userConns[conn.UserID]; set != nil {
		delete(set, conn.ID)
		if len(set) == 0 {
			delete(h.userConns, conn.UserID)
		}
	}

	for room := range h.connRooms[conn.ID] {
		h.leaveLocked(room, conn.ID)
	}
	delete(h.connRooms, conn.ID)
}

// Subscribe 将连接订阅到房间
func (h *Hub) Subscribe(connID string, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.conns[connID]
	if !ok {
		return
	}

	members := h.rooms[room]
	if members == nil {
		members = make(map[string]*Connection)
		h.rooms[room] = members
	}
	members[connID] = conn

	memberships := h.connRooms[connID]
	if memberships == nil {
		memberships = make(map[string]struct{})
		h.connRooms[connID] = memberships
	}
	memberships[room] = struct{}{}
}

// Unsubscribe 将连接移出房间
func (h *Hub) Unsubscribe(connID string, room string) {
	h.mu.Lock()
	h.leaveLocked(room, connID)
	h.mu.Unlock()
}

// Emit 向房间内所有订阅连接投递事件，exceptConnID 非空时跳过该连接。
// 返回实际投递的连接数。
func (h *Hub) Emit(room string, event string, data any, exceptConnID string) int {
	payload, err := marshalFrame(event, data)
	if err != nil {
		log.Error("序列化网关事件失败", "event", event, "err", err)
		return 0
	}

	h.mu.RLock()
	members := h.rooms[room]
	if len(members) == 0 {
		h.mu.RUnlock()
		return 0
	}

	delivered := 0
	for id, conn := range members {
		if exceptConnID != "" && id == exceptConnID {
			continue
		}
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	h.mu.RUnlock()
	return delivered
}

// EmitToUser 向目标用户的个人房间投递事件，覆盖该用户的所有在线连接
func (h *Hub) EmitToUser(userID uint64, event string, data any) int {
	return h.Emit(UserRoom(userID), event, data, "")
}

// EmitToConnOwner 将连接ID解析为归属用户后投递到其个人房间。
// 呼叫应答以对端连接ID寻址（call_user 推送中的 from），
// 实际投递仍按用户覆盖其全部在线连接。
func (h *Hub) EmitToConnOwner(connID string, event string, data any) int {
	h.mu.RLock()
	conn, ok := h.conns[connID]
	h.mu.RUnlock()
	if !ok {
		return 0
	}
	return h.EmitToUser(conn.UserID, event, data)
}

// IsUserOnline 判断用户是否持有至少一条在线连接
func (h *Hub) IsUserOnline(userID uint64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userConns[userID]) > 0
}

// Close 关闭所有连接并清空状态
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*Connection, 0, len(h.conns))
	for _, conn := range h.conns {
		conns = append(conns, conn)
	}
	h.conns = make(map[string]*Connection)
	h.userConns = make(map[uint64]map[string]*Connection)
	h.rooms = make(map[string]map[string]*Connection)
	h.connRooms = make(map[string]map[string]struct{})
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close(1001, "hub shutdown")
	}
}

func (h *Hub) leaveLocked(room string, connID string) {
	members := h.rooms[room]
	if members == nil {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
	if memberships, ok := h.connRooms[connID]; ok {
		delete(memberships, room)
	}
}

func marshalFrame(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Data: raw})
}
