package model

import (
	"time"

	"gorm.io/datatypes"
)

// Message 消息表，软删除时内容被占位符覆盖但保留行序
type Message struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID      uint64         `gorm:"index;not null" json:"chatId"`
	SenderID    uint64         `gorm:"index;not null" json:"senderId"`
	Content     string         `gorm:"type:text" json:"content"`
	Attachments datatypes.JSON `json:"attachments"`
	ReplyToID   *uint64        `gorm:"index" json:"replyToId"`
	DeletedAt   *time.Time     `json:"deletedAt"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`

	Reactions []MessageReaction `gorm:"foreignKey:MessageID;references:ID" json:"reactions"`
}

func (Message) TableName() string { return "messages" }

// MessageReaction (message_id, user_id, emoji) 唯一，重复提交只刷新时间戳
type MessageReaction struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageID uint64    `gorm:"uniqueIndex:idx_msg_user_emoji;index" json:"messageId"`
	UserID    uint64    `gorm:"uniqueIndex:idx_msg_user_emoji" json:"userId"`
	Emoji     string    `gorm:"uniqueIndex:idx_msg_user_emoji;type:varchar(16);not null" json:"emoji"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (MessageReaction) TableName() string { return "message_reactions" }

// Attachment 附件描述，序列化存入 Message.Attachments
type Attachment struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}
