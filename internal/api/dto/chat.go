package dto

import (
	"time"

	"github.com/goccy/go-json"
)

// CreatePrivateChatReq 发起私聊请求体
type CreatePrivateChatReq struct {
	TargetUserID uint64 `json:"targetUserId" binding:"required"`
}

// CreateProjectChatReq 创建项目群聊请求体
type CreateProjectChatReq struct {
	ProjectID uint64   `json:"projectId" binding:"required"`
	Name      string   `json:"name" binding:"required,max=100"`
	MemberIDs []uint64 `json:"memberIds" binding:"required,min=1"`
}

// SendMessageReq 发送消息请求体，content 与 attachments 至少其一
type SendMessageReq struct {
	ChatID      uint64          `json:"chatId" binding:"required"`
	Content     string          `json:"content"`
	Attachments []AttachmentDTO `json:"attachments"`
	ReplyToID   *uint64         `json:"replyToId"`
}

// EditMessageReq 编辑消息请求体
type EditMessageReq struct {
	Content string `json:"content" binding:"required"`
}

// ChatScopeReq 清空/删除会话请求体
type ChatScopeReq struct {
	ForEveryone bool `json:"forEveryone"`
}

// AttachmentDTO 附件描述
type AttachmentDTO struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// MessageDTO 消息明细响应
type MessageDTO struct {
	ID          uint64          `json:"id"`
	ChatID      uint64          `json:"chatId"`
	SenderID    uint64          `json:"senderId"`
	Content     string          `json:"content"`
	Attachments []AttachmentDTO `json:"attachments"`
	ReplyToID   *uint64         `json:"replyToId"`
	Deleted     bool            `json:"deleted"`
	Reactions   []ReactionDTO   `json:"reactions"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ReactionDTO 表情回应响应
type ReactionDTO struct {
	MessageID uint64    `json:"messageId"`
	UserID    uint64    `json:"userId"`
	Emoji     string    `json:"emoji"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ChatDTO 会话列表项响应
type ChatDTO struct {
	ID            uint64    `json:"id"`
	Type          string    `json:"type"` // PRIVATE / PROJECT_GROUP
	Name          *string   `json:"name"`
	ProjectID     *uint64   `json:"projectId"`
	PeerID        uint64    `json:"peerId"` // 对手方ID (私聊有效)
	LastContent   string    `json:"lastContent"`
	LastSenderID  uint64    `json:"lastSenderId"`
	LastMessageAt time.Time `json:"lastMessageAt"`
}

// RawSignal 不透明的信令负载，网关只转发不解析
type RawSignal = json.RawMessage
