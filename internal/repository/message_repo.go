package repository

import (
	"Milestone/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessageRepo interface {
	CreateMessage(ctx context.Context, msg *model.Message) error
	GetMessage(ctx context.Context, messageID uint64) (*model.Message, error)
	UpdateContent(ctx context.Context, messageID uint64, content string) error
	SoftDelete(ctx context.Context, messageID uint64, placeholder string, at time.Time) error
	ListByChat(ctx context.Context, chatID uint64, after *time.Time) ([]*model.Message, error)
	UpsertReaction(ctx context.Context, messageID uint64, userID uint64, emoji string) (*model.MessageReaction, error)
}

type messageRepoImpl struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) MessageRepo {
	return &messageRepoImpl{db: db}
}

func (s *messageRepoImpl) CreateMessage(ctx context.Context, msg *model.Message) error {
	return s.db.WithContext(ctx).Create(msg).Error
}

func (s *messageRepoImpl) GetMessage(ctx context.Context, messageID uint64) (*model.Message, error) {
	var msg model.Message
	err := s.db.WithContext(ctx).First(&msg, messageID).Error
	return &msg, err
}

func (s *messageRepoImpl) UpdateContent(ctx context.Context, messageID uint64, content string) error {
	return s.db.WithContext(ctx).Model(&model.Message{}).
		Where("id = ?", messageID).
		Update("content", content).Error
}

// SoftDelete 内容覆盖为占位符、附件清空，行保留以维持排序与引用
func (s *messageRepoImpl) SoftDelete(ctx context.Context, messageID uint64, placeholder string, at time.Time) error {
	return s.db.WithContext(ctx).Model(&model.Message{}).
		Where("id = ?", messageID).
		Updates(map[string]interface{}{
			"content":     placeholder,
			"attachments": nil,
			"deleted_at":  at,
		}).Error
}

// ListByChat 按创建时间升序返回消息，after 非空时只返回其后的消息
func (s *messageRepoImpl) ListByChat(ctx context.Context, chatID uint64, after *time.Time) ([]*model.Message, error) {
	query := s.db.WithContext(ctx).
		Preload("Reactions").
		Where("chat_id = ?", chatID)
	if after != nil {
		query = query.Where("created_at > ?", *after)
	}

	var messages []*model.Message
	err := query.Order("created_at ASC").Find(&messages).Error
	return messages, err
}

// UpsertReaction (message_id,user_id,emoji) 唯一键下的幂等写入，冲突时只刷新时间戳
func (s *messageRepoImpl) UpsertReaction(ctx context.Context, messageID uint64, userID uint64, emoji string) (*model.MessageReaction, error) {
	reaction := &model.MessageReaction{
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}, {Name: "emoji"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"updated_at": time.Now()}),
	}).Create(reaction).Error
	if err != nil {
		return nil, err
	}

	var stored model.MessageReaction
	err = s.db.WithContext(ctx).
		Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
		First(&stored).Error
	return &stored, err
}
