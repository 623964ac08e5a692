package model

import (
	"time"
)

type User struct {
	ID        uint64  `gorm:"primaryKey"`
	Username  string  `gorm:"type:varchar(50);uniqueIndex:idx_username;not null"`
	Email     *string `gorm:"type:varchar(100);uniqueIndex:idx_email"`
	Phone     *string `gorm:"type:varchar(30)"`
	Password  string  `gorm:"type:varchar(255);not null"`
	Role      string  `gorm:"type:varchar(20);not null;default:'TEAM_MEMBER'"` // ADMIN / MANAGER / TEAM_MEMBER / CUSTOMER
	LastSeen  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
