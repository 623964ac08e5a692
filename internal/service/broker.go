package service

// RoomBroker 网关扇出能力的抽象，由 realtime.Hub 实现。
// 服务层只依赖该接口，便于在测试中替换为内存假实现。
type RoomBroker interface {
	// Subscribe 将连接订阅到房间
	Subscribe(connID string, room string)
	// Emit 向房间广播事件，exceptConnID 非空时跳过该连接，返回投递连接数
	Emit(room string, event string, data any, exceptConnID string) int
	// EmitToUser 向用户个人房间投递事件，覆盖其全部在线连接
	EmitToUser(userID uint64, event string, data any) int
	// EmitToConnOwner 将连接ID解析为其归属用户并投递到该用户的个人房间，
	// 连接不存在时返回 0
	EmitToConnOwner(connID string, event string, data any) int
	// IsUserOnline 用户是否持有在线连接
	IsUserOnline(userID uint64) bool
}
