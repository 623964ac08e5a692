package dto

import "time"

// 入站事件名（客户端 → 网关）
const (
	EventJoinChat     = "join_chat"
	EventTyping       = "typing"
	EventStopTyping   = "stop_typing"
	EventMarkAsRead   = "mark_as_read"
	EventAddReaction  = "add_reaction"
	EventCallUser     = "call_user"
	EventAnswerCall   = "answer_call"
	EventIceCandidate = "ice_candidate"
	EventEndCall      = "end_call"
	EventRinging      = "ringing"
)

// 出站事件名（网关 → 客户端）
const (
	EventReceiveMessage   = "receive_message"
	EventMessageEdited    = "message_edited"
	EventMessageDeleted   = "message_deleted"
	EventChatCleared      = "chat_cleared"
	EventChatDeleted      = "chat_deleted"
	EventUserReadMessages = "user_read_messages"
	EventReactionAdded    = "reaction_added"
	EventCallAccepted     = "call_accepted"
	EventCallEnded        = "call_ended"
)

// 入站事件负载，每个事件一个封闭结构体，字段名即线上契约

type JoinChatEvent struct {
	ChatID uint64 `json:"chatId"`
}

type TypingEvent struct {
	ChatID   uint64 `json:"chatId"`
	UserName string `json:"userName"`
}

type StopTypingEvent struct {
	ChatID uint64 `json:"chatId"`
}

type MarkAsReadEvent struct {
	ChatID uint64 `json:"chatId"`
}

type AddReactionEvent struct {
	MessageID uint64 `json:"messageId"`
	Emoji     string `json:"emoji"`
	ChatID    uint64 `json:"chatId"`
}

type CallUserEvent struct {
	ChatID     uint64    `json:"chatId"`
	SignalData RawSignal `json:"signalData"`
	Name       string    `json:"name"`
}

// AnswerCallEvent to 为 call_user 推送中的 from（主叫连接ID），
// 网关解析为该连接归属用户的个人房间
type AnswerCallEvent struct {
	To     string    `json:"to"`
	Signal RawSignal `json:"signal"`
}

type IceCandidateEvent struct {
	To        string    `json:"to"`
	Candidate RawSignal `json:"candidate"`
}

// EndCallEvent to（对端连接ID）与 chatId 至少其一
type EndCallEvent struct {
	To     *string `json:"to"`
	ChatID *uint64 `json:"chatId"`
}

type RingingEvent struct {
	To string `json:"to"`
}

// 出站推送负载

type TypingPush struct {
	UserID   uint64 `json:"userId"`
	UserName string `json:"userName"`
	ChatID   uint64 `json:"chatId"`
}

type StopTypingPush struct {
	UserID uint64 `json:"userId"`
	ChatID uint64 `json:"chatId"`
}

type UserReadPush struct {
	UserID uint64    `json:"userId"`
	ChatID uint64    `json:"chatId"`
	ReadAt time.Time `json:"readAt"`
}

type ReactionPush struct {
	MessageID uint64      `json:"messageId"`
	Reaction  ReactionDTO `json:"reaction"`
	ChatID    uint64      `json:"chatId"`
}

type CallUserPush struct {
	Signal RawSignal `json:"signal"`
	From   string    `json:"from"` // 主叫连接ID，应答时作为 to 原样回传
	Name   string    `json:"name"`
}

type CallAcceptedPush struct {
	Signal RawSignal `json:"signal"`
	From   string    `json:"from"`
}

type IceCandidatePush struct {
	Candidate RawSignal `json:"candidate"`
}

type MessageDeletedPush struct {
	MessageID uint64 `json:"messageId"`
	ChatID    uint64 `json:"chatId"`
}

type ChatScopePush struct {
	ChatID uint64 `json:"chatId"`
}
