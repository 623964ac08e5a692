package model

import "time"

// Chat 会话主表，ID 同时作为网关房间名
type Chat struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Type          string    `gorm:"type:varchar(20);not null;default:'PRIVATE'" json:"type"` // PRIVATE / PROJECT_GROUP
	Name          *string   `gorm:"type:varchar(100)" json:"name"`
	ProjectID     *uint64   `gorm:"index" json:"projectId"`
	PeerKey       *string   `gorm:"uniqueIndex;type:varchar(64)" json:"peerKey"` // uid1_uid2，仅私聊
	LastContent   string    `gorm:"type:varchar(255)" json:"lastContent"`
	LastSenderID  uint64    `gorm:"not null;default:0" json:"lastSenderId"`
	LastMessageAt time.Time `gorm:"index" json:"lastMessageAt"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Chat) TableName() string { return "chats" }

// ChatParticipant 会话成员表
// IsDeleted 仅在本人会话列表中隐藏该会话；ClearedAt 之前的消息对本人不可见
type ChatParticipant struct {
	ID         uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID     uint64     `gorm:"uniqueIndex:idx_chat_user" json:"chatId"`
	UserID     uint64     `gorm:"uniqueIndex:idx_chat_user;index" json:"userId"`
	IsDeleted  bool       `gorm:"not null;default:0" json:"isDeleted"`
	ClearedAt  *time.Time `json:"clearedAt"`
	LastReadAt *time.Time `json:"lastReadAt"`
	JoinedAt   time.Time  `json:"joinedAt"`

	Chat Chat `gorm:"foreignKey:ChatID;references:ID" json:"chat"`
}

func (ChatParticipant) TableName() string { return "chat_participants" }
