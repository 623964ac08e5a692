package service

import (
	"Milestone/internal/api/dto"
	"Milestone/internal/model"
	"Milestone/internal/pkg/consts"
	"Milestone/internal/pkg/redis"
	"Milestone/internal/pkg/security"
	"Milestone/internal/repository"
	"context"
	"errors"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

type UserService interface {
	Register(ctx context.Context, regDTO *dto.RegisterDTO) error
	Login(ctx context.Context, credential *dto.CredentialDTO) (*dto.LoginResultDTO, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
	GetUsersByIDs(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error)
}

type UserServiceImpl struct {
	userRepo repository.UserRepo
}

func NewUserService(userRepo repository.UserRepo) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

func (s *UserServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) error {
	_, err := s.userRepo.GetByUsername(ctx, regDTO.Username)
	if err == nil {
		return ErrUserExist
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := security.HashPassword(regDTO.Password)
	if err != nil {
		return err
	}

	role := regDTO.Role
	if role == "" {
		role = consts.RoleTeamMember
	}

	user := &model.User{
		Username: regDTO.Username,
		Password: passwordHash,
		Email:    regDTO.Email,
		Phone:    regDTO.Phone,
		Role:     role,
	}
	return s.userRepo.Create(ctx, user)
}

func (s *UserServiceImpl) Login(ctx context.Context, credential *dto.CredentialDTO) (*dto.LoginResultDTO, error) {
	user, err := s.userRepo.GetByUsername(ctx, credential.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err = security.CheckPasswordHash(credential.Password, user.Password); err != nil {
		return nil, ErrPasswordIncorrect
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	userDTO := dto.UserDTO{}
	if err = copier.Copy(&userDTO, user); err != nil {
		return nil, err
	}
	return &dto.LoginResultDTO{Token: token, User: userDTO}, nil
}

// Logout 将 token 签名写入黑名单，有效期与 token 寿命对齐
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, consts.TokenBlacklistKey+signature, true, security.JWTExpirationTime)
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	userDTO := &dto.UserDTO{}
	if err = copier.Copy(userDTO, user); err != nil {
		return nil, err
	}
	return userDTO, nil
}

func (s *UserServiceImpl) GetUsersByIDs(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error) {
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	userDTOs := make([]*dto.UserDTO, 0, len(users))
	for _, user := range users {
		userDTO := &dto.UserDTO{}
		if err = copier.Copy(userDTO, user); err != nil {
			return nil, err
		}
		userDTOs = append(userDTOs, userDTO)
	}
	return userDTOs, nil
}
