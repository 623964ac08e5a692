package repository

import (
	"Milestone/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type UserRepo interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, userID uint64) (*model.User, error)
	GetByIDs(ctx context.Context, userIDs []uint64) ([]*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateLastSeen(ctx context.Context, userID uint64, at time.Time) error
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepoImpl{db: db}
}

func (s *userRepoImpl) Create(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *userRepoImpl) GetByID(ctx context.Context, userID uint64) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	return &user, err
}

func (s *userRepoImpl) GetByIDs(ctx context.Context, userIDs []uint64) ([]*model.User, error) {
	var users []*model.User
	err := s.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error
	return users, err
}

func (s *userRepoImpl) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return &user, err
}

// UpdateLastSeen 连接断开时刷新用户最后在线时间
func (s *userRepoImpl) UpdateLastSeen(ctx context.Context, userID uint64, at time.Time) error {
	return s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_seen", at).Error
}
