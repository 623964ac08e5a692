package consts

const (
	MimePrefixImage = "image"
	MimePrefixAudio = "audio"
	MimePrefixVideo = "video"
	MimePrefixApp   = "application"
)

// 用户角色
const (
	RoleAdmin      = "ADMIN"
	RoleManager    = "MANAGER"
	RoleTeamMember = "TEAM_MEMBER"
	RoleCustomer   = "CUSTOMER"
)

// 会话类型
const (
	ChatTypePrivate      = "PRIVATE"
	ChatTypeProjectGroup = "PROJECT_GROUP"
)

// DeletedMessagePlaceholder 软删除消息的占位内容
const DeletedMessagePlaceholder = "该消息已被删除"

// 任务/工单状态
const (
	StatusOpen       = "OPEN"
	StatusInProgress = "IN_PROGRESS"
	StatusResolved   = "RESOLVED"
	StatusClosed     = "CLOSED"
)
