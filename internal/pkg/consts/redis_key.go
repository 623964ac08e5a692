package consts

const (
	TokenBlacklistKey = "auth:token:blacklist:"
)

const (
	MeetingReminderLock = "lock:meeting:reminder"
)
