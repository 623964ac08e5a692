package repository

import (
	"Milestone/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatRepo interface {
	CreateChat(ctx context.Context, chat *model.Chat, participants []*model.ChatParticipant) error
	GetChat(ctx context.Context, chatID uint64) (*model.Chat, error)
	GetChatByPeerKey(ctx context.Context, peerKey string) (*model.Chat, error)
	IsParticipant(ctx context.Context, chatID uint64, userID uint64) (bool, error)
	GetParticipant(ctx context.Context, chatID uint64, userID uint64) (*model.ChatParticipant, error)
	GetParticipants(ctx context.Context, chatID uint64) ([]*model.ChatParticipant, error)

	UpsertLastRead(ctx context.Context, chatID uint64, userID uint64, at time.Time) error
	SetCleared(ctx context.Context, chatID uint64, userID uint64, at time.Time) error
	SetHidden(ctx context.Context, chatID uint64, userID uint64, hidden bool) error
	TouchOnNewMessage(ctx context.Context, chatID uint64, preview string, senderID uint64, at time.Time) error

	ListUserChats(ctx context.Context, userID uint64) ([]*model.ChatParticipant, error)
	ClearMessages(ctx context.Context, chatID uint64) error
	DeleteChat(ctx context.Context, chatID uint64) error
}

type chatRepoImpl struct {
	db *gorm.DB
}

func NewChatRepo(db *gorm.DB) ChatRepo {
	return &chatRepoImpl{db: db}
}

// CreateChat 开启事务创建会话及初始成员
func (s *chatRepoImpl) CreateChat(ctx context.Context, chat *model.Chat, participants []*model.ChatParticipant) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(chat).Error; err != nil {
			return err
		}
		for _, p := range participants {
			p.ChatID = chat.ID
			p.JoinedAt = time.Now()
			if err := tx.Create(p).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *chatRepoImpl) GetChat(ctx context.Context, chatID uint64) (*model.Chat, error) {
	var chat model.Chat
	err := s.db.WithContext(ctx).First(&chat, chatID).Error
	return &chat, err
}

// GetChatByPeerKey 私聊幂等键查询
func (s *chatRepoImpl) GetChatByPeerKey(ctx context.Context, peerKey string) (*model.Chat, error) {
	var chat model.Chat
	err := s.db.WithContext(ctx).Where("peer_key = ?", peerKey).First(&chat).Error
	return &chat, err
}

func (s *chatRepoImpl) IsParticipant(ctx context.Context, chatID uint64, userID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ChatParticipant{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *chatRepoImpl) GetParticipant(ctx context.Context, chatID uint64, userID uint64) (*model.ChatParticipant, error) {
	var p model.ChatParticipant
	err := s.db.WithContext(ctx).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		First(&p).Error
	return &p, err
}

func (s *chatRepoImpl) GetParticipants(ctx context.Context, chatID uint64) ([]*model.ChatParticipant, error) {
	var participants []*model.ChatParticipant
	err := s.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Find(&participants).Error
	return participants, err
}

// UpsertLastRead 已读水位线；(chat_id,user_id) 唯一键保证并发重试下幂等
func (s *chatRepoImpl) UpsertLastRead(ctx context.Context, chatID uint64, userID uint64, at time.Time) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"last_read_at": at}),
	}).Create(&model.ChatParticipant{
		ChatID:     chatID,
		UserID:     userID,
		LastReadAt: &at,
		JoinedAt:   at,
	}).Error
}

// SetCleared 仅对本人隐藏该时刻之前的消息
func (s *chatRepoImpl) SetCleared(ctx context.Context, chatID uint64, userID uint64, at time.Time) error {
	return s.db.WithContext(ctx).Model(&model.ChatParticipant{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Update("cleared_at", at).Error
}

// SetHidden 在本人会话列表中隐藏/恢复该会话
func (s *chatRepoImpl) SetHidden(ctx context.Context, chatID uint64, userID uint64, hidden bool) error {
	return s.db.WithContext(ctx).Model(&model.ChatParticipant{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Update("is_deleted", hidden).Error
}

// TouchOnNewMessage 更新会话预览并唤醒所有成员可见性（“删除会话”后新消息自动浮现）
func (s *chatRepoImpl) TouchOnNewMessage(ctx context.Context, chatID uint64, preview string, senderID uint64, at time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Chat{}).Where("id = ?", chatID).
			Updates(map[string]interface{}{
				"last_content":    preview,
				"last_sender_id":  senderID,
				"last_message_at": at,
			}).Error
		if err != nil {
			return err
		}
		return tx.Model(&model.ChatParticipant{}).
			Where("chat_id = ?", chatID).
			Update("is_deleted", false).Error
	})
}

// ListUserChats 本人未隐藏的会话，按最近消息时间倒序
func (s *chatRepoImpl) ListUserChats(ctx context.Context, userID uint64) ([]*model.ChatParticipant, error) {
	var participants []*model.ChatParticipant
	err := s.db.WithContext(ctx).
		Preload("Chat").
		Joins("JOIN chats c ON chat_participants.chat_id = c.id").
		Where("chat_participants.user_id = ? AND chat_participants.is_deleted = 0", userID).
		Order("c.last_message_at DESC").
		Find(&participants).Error
	return participants, err
}

// ClearMessages 全员清空：物理删除消息与回应，会话与成员保留
func (s *chatRepoImpl) ClearMessages(ctx context.Context, chatID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("message_id IN (?)",
			tx.Model(&model.Message{}).Select("id").Where("chat_id = ?", chatID),
		).Delete(&model.MessageReaction{}).Error
		if err != nil {
			return err
		}
		return tx.Where("chat_id = ?", chatID).Delete(&model.Message{}).Error
	})
}

// DeleteChat 全员删除：不可逆，消息、成员、会话全部移除
func (s *chatRepoImpl) DeleteChat(ctx context.Context, chatID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("message_id IN (?)",
			tx.Model(&model.Message{}).Select("id").Where("chat_id = ?", chatID),
		).Delete(&model.MessageReaction{}).Error
		if err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", chatID).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", chatID).Delete(&model.ChatParticipant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Chat{}, chatID).Error
	})
}
