package service

import (
	"Milestone/internal/api/config"
	"Milestone/internal/pkg/util"
	"Milestone/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// NotifyService 站外通知（邮件/短信）。所有 Notify* 方法均为尽力而为：
// 发送失败只记日志，不影响调用方主流程。
type NotifyService interface {
	SendEmail(ctx context.Context, to string, subject string, content string) error
	NotifyUser(ctx context.Context, userID uint64, subject string, content string)
	NotifyUsers(ctx context.Context, userIDs []uint64, subject string, content string)
}

type NotifyServiceImpl struct {
	userRepo   repository.UserRepo
	httpClient *resty.Client
}

func NewNotifyService(userRepo repository.UserRepo) NotifyService {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2)

	return &NotifyServiceImpl{
		userRepo:   userRepo,
		httpClient: client,
	}
}

type mailPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}

// SendEmail 调用邮件网关发送一封邮件
func (s *NotifyServiceImpl) SendEmail(ctx context.Context, to string, subject string, content string) error {
	mailCfg := config.Cfg.Mail
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+mailCfg.ApiKey).
		SetBody(&mailPayload{
			From:    mailCfg.From,
			To:      to,
			Subject: subject,
			Content: content,
		}).
		Post(mailCfg.URL)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("mail send failed: %s", resp.Status())
	}
	return nil
}

// NotifyUser 优先邮件，无邮箱时回落短信；两者皆无则跳过
func (s *NotifyServiceImpl) NotifyUser(ctx context.Context, userID uint64, subject string, content string) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Warn("查询通知对象失败", "user_id", userID, "err", err)
		return
	}
	if user.Email != nil && *user.Email != "" {
		if err := s.SendEmail(ctx, *user.Email, subject, content); err != nil {
			log.Warn("通知邮件发送失败", "user_id", userID, "err", err)
		}
		return
	}
	if user.Phone != nil && *user.Phone != "" {
		if err := util.SendSms(*user.Phone, subject); err != nil {
			log.Warn("通知短信发送失败", "user_id", userID, "err", err)
		}
	}
}

func (s *NotifyServiceImpl) NotifyUsers(ctx context.Context, userIDs []uint64, subject string, content string) {
	for _, userID := range userIDs {
		s.NotifyUser(ctx, userID, subject, content)
	}
}
