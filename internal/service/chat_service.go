package service

import (
	"Milestone/internal/api/dto"
	"Milestone/internal/model"
	"Milestone/internal/pkg/consts"
	"Milestone/internal/pkg/realtime"
	"Milestone/internal/pkg/util"
	"Milestone/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

type ChatService interface {
	CreatePrivateChat(ctx context.Context, userID uint64, role string, req *dto.CreatePrivateChatReq) (*dto.ChatDTO, error)
	CreateProjectChat(ctx context.Context, userID uint64, req *dto.CreateProjectChatReq) (*dto.ChatDTO, error)
	ListChats(ctx context.Context, userID uint64) ([]*dto.ChatDTO, error)
	GetChatHistory(ctx context.Context, userID uint64, chatID uint64) ([]*dto.MessageDTO, error)
	SendMessage(ctx context.Context, userID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error)
	EditMessage(ctx context.Context, userID uint64, messageID uint64, content string) (*dto.MessageDTO, error)
	DeleteMessage(ctx context.Context, userID uint64, messageID uint64) error
	ClearChat(ctx context.Context, userID uint64, chatID uint64, forEveryone bool) error
	DeleteChat(ctx context.Context, userID uint64, chatID uint64, forEveryone bool) error
}

type ChatServiceImpl struct {
	chatRepo    repository.ChatRepo
	messageRepo repository.MessageRepo
	userRepo    repository.UserRepo
	projectRepo repository.ProjectRepo
	broker      RoomBroker
	notify      NotifyService
}

func NewChatService(
	chatRepo repository.ChatRepo,
	messageRepo repository.MessageRepo,
	userRepo repository.UserRepo,
	projectRepo repository.ProjectRepo,
	broker RoomBroker,
	notify NotifyService,
) ChatService {
	return &ChatServiceImpl{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		projectRepo: projectRepo,
		broker:      broker,
		notify:      notify,
	}
}

// PeerKey 私聊幂等键，双方ID升序拼接
func PeerKey(a uint64, b uint64) string {
	if a > b {
		a, b = b, a
	}
	return strconv.FormatUint(a, 10) + "_" + strconv.FormatUint(b, 10)
}

// CreatePrivateChat 发起或返回既有私聊。同一对用户只存在一条私聊会话。
func (s *ChatServiceImpl) CreatePrivateChat(ctx context.Context, userID uint64, role string, req *dto.CreatePrivateChatReq) (*dto.ChatDTO, error) {
	if req.TargetUserID == userID {
		return nil, ErrTargetUserInvalid
	}
	target, err := s.userRepo.GetByID(ctx, req.TargetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 客户的私聊对象限定为管理员与项目经理，双向生效
	if role == consts.RoleCustomer && !isStaff(target.Role) {
		return nil, ErrCustomerChatTarget
	}
	if target.Role == consts.RoleCustomer && !isStaff(role) {
		return nil, ErrCustomerChatTarget
	}

	peerKey := PeerKey(userID, req.TargetUserID)
	existing, err := s.chatRepo.GetChatByPeerKey(ctx, peerKey)
	if err == nil {
		// 复用既有会话时恢复本人列表可见性
		_ = s.chatRepo.SetHidden(ctx, existing.ID, userID, false)
		return s.toChatDTO(existing, userID), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	chat := &model.Chat{
		Type:          consts.ChatTypePrivate,
		PeerKey:       &peerKey,
		LastMessageAt: time.Now(),
	}
	participants := []*model.ChatParticipant{
		{UserID: userID},
		{UserID: req.TargetUserID},
	}
	if err = s.chatRepo.CreateChat(ctx, chat, participants); err != nil {
		// 并发下撞唯一键时回读既有会话
		if existing, retryErr := s.chatRepo.GetChatByPeerKey(ctx, peerKey); retryErr == nil {
			return s.toChatDTO(existing, userID), nil
		}
		return nil, err
	}
	return s.toChatDTO(chat, userID), nil
}

// CreateProjectChat 为项目创建群聊并绑定，成员以项目成员为准
func (s *ChatServiceImpl) CreateProjectChat(ctx context.Context, userID uint64, req *dto.CreateProjectChatReq) (*dto.ChatDTO, error) {
	project, err := s.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	isMember, err := s.projectRepo.IsMember(ctx, req.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember && project.OwnerID != userID {
		return nil, ErrNotProjectMember
	}

	memberSet := map[uint64]struct{}{userID: {}}
	for _, id := range req.MemberIDs {
		memberSet[id] = struct{}{}
	}
	participants := make([]*model.ChatParticipant, 0, len(memberSet))
	for id := range memberSet {
		participants = append(participants, &model.ChatParticipant{UserID: id})
	}

	chat := &model.Chat{
		Type:          consts.ChatTypeProjectGroup,
		Name:          &req.Name,
		ProjectID:     &req.ProjectID,
		LastMessageAt: time.Now(),
	}
	if err = s.chatRepo.CreateChat(ctx, chat, participants); err != nil {
		return nil, err
	}
	if err = s.projectRepo.BindChat(ctx, req.ProjectID, chat.ID); err != nil {
		return nil, err
	}
	return s.toChatDTO(chat, userID), nil
}

func (s *ChatServiceImpl) ListChats(ctx context.Context, userID uint64) ([]*dto.ChatDTO, error) {
	participants, err := s.chatRepo.ListUserChats(ctx, userID)
	if err != nil {
		return nil, err
	}
	chats := make([]*dto.ChatDTO, 0, len(participants))
	for _, p := range participants {
		chats = append(chats, s.toChatDTO(&p.Chat, userID))
	}
	return chats, nil
}

// GetChatHistory 返回对本人可见的消息：成员校验 + cleared_at 水位过滤
func (s *ChatServiceImpl) GetChatHistory(ctx context.Context, userID uint64, chatID uint64) ([]*dto.MessageDTO, error) {
	participant, err := s.chatRepo.GetParticipant(ctx, chatID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotParticipant
		}
		return nil, err
	}
	messages, err := s.messageRepo.ListByChat(ctx, chatID, participant.ClearedAt)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.MessageDTO, 0, len(messages))
	for _, msg := range messages {
		result = append(result, toMessageDTO(msg))
	}
	return result, nil
}

// SendMessage 持久化消息并向会话房间广播 receive_message，
// 离线成员走邮件兜底，广播与通知失败均不影响发送结果。
func (s *ChatServiceImpl) SendMessage(ctx context.Context, userID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error) {
	if strings.TrimSpace(req.Content) == "" && len(req.Attachments) == 0 {
		return nil, ErrEmptyMessage
	}
	isParticipant, err := s.chatRepo.IsParticipant(ctx, req.ChatID, userID)
	if err != nil {
		return nil, err
	}
	if !isParticipant {
		return nil, ErrNotParticipant
	}

	msg := &model.Message{
		ChatID:   req.ChatID,
		SenderID: userID,
		Content:  req.Content,
	}
	if len(req.Attachments) > 0 {
		raw, err := json.Marshal(req.Attachments)
		if err != nil {
			return nil, err
		}
		msg.Attachments = raw
	}
	if req.ReplyToID != nil {
		replied, err := s.messageRepo.GetMessage(ctx, *req.ReplyToID)
		if err != nil || replied.ChatID != req.ChatID {
			return nil, ErrMessageNotFound
		}
		msg.ReplyToID = req.ReplyToID
	}
	if err = s.messageRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	preview := util.TruncateRunes(req.Content, 120)
	if preview == "" {
		preview = "[附件]"
	}
	if err = s.chatRepo.TouchOnNewMessage(ctx, req.ChatID, preview, userID, msg.CreatedAt); err != nil {
		log.Warn("更新会话预览失败", "chat_id", req.ChatID, "err", err)
	}

	msgDTO := toMessageDTO(msg)
	s.broker.Emit(realtime.ChatRoom(req.ChatID), dto.EventReceiveMessage, msgDTO, "")

	go s.notifyOfflineParticipants(context.WithoutCancel(ctx), req.ChatID, userID, preview)

	return msgDTO, nil
}

// EditMessage 仅发送者可编辑，已删除消息不可编辑
func (s *ChatServiceImpl) EditMessage(ctx context.Context, userID uint64, messageID uint64, content string) (*dto.MessageDTO, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessage
	}
	msg, err := s.messageRepo.GetMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	if msg.SenderID != userID {
		return nil, ErrNotMessageSender
	}
	if msg.DeletedAt != nil {
		return nil, ErrMessageNotFound
	}
	if err = s.messageRepo.UpdateContent(ctx, messageID, content); err != nil {
		return nil, err
	}
	msg.Content = content

	msgDTO := toMessageDTO(msg)
	s.broker.Emit(realtime.ChatRoom(msg.ChatID), dto.EventMessageEdited, msgDTO, "")
	return msgDTO, nil
}

// DeleteMessage 软删除：内容替换为占位符，行保留以维持排序
func (s *ChatServiceImpl) DeleteMessage(ctx context.Context, userID uint64, messageID uint64) error {
	msg, err := s.messageRepo.GetMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	if msg.SenderID != userID {
		return ErrNotMessageSender
	}
	if err = s.messageRepo.SoftDelete(ctx, messageID, consts.DeletedMessagePlaceholder, time.Now()); err != nil {
		return err
	}
	s.broker.Emit(realtime.ChatRoom(msg.ChatID), dto.EventMessageDeleted,
		&dto.MessageDeletedPush{MessageID: messageID, ChatID: msg.ChatID}, "")
	return nil
}

// ClearChat forEveryone=false 只移动本人可见水位；
// forEveryone=true 物理清空消息并广播 chat_cleared。
func (s *ChatServiceImpl) ClearChat(ctx context.Context, userID uint64, chatID uint64, forEveryone bool) error {
	isParticipant, err := s.chatRepo.IsParticipant(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if !isParticipant {
		return ErrNotParticipant
	}
	if !forEveryone {
		return s.chatRepo.SetCleared(ctx, chatID, userID, time.Now())
	}
	if err = s.chatRepo.ClearMessages(ctx, chatID); err != nil {
		return err
	}
	s.broker.Emit(realtime.ChatRoom(chatID), dto.EventChatCleared, &dto.ChatScopePush{ChatID: chatID}, "")
	return nil
}

// DeleteChat forEveryone=false 仅在本人列表隐藏；
// forEveryone=true 不可逆删除并广播 chat_deleted。
func (s *ChatServiceImpl) DeleteChat(ctx context.Context, userID uint64, chatID uint64, forEveryone bool) error {
	isParticipant, err := s.chatRepo.IsParticipant(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if !isParticipant {
		return ErrNotParticipant
	}
	if !forEveryone {
		return s.chatRepo.SetHidden(ctx, chatID, userID, true)
	}
	// 广播先于删除，删除后房间成员关系仍在网关侧，客户端收到后自行退出
	s.broker.Emit(realtime.ChatRoom(chatID), dto.EventChatDeleted, &dto.ChatScopePush{ChatID: chatID}, "")
	return s.chatRepo.DeleteChat(ctx, chatID)
}

func (s *ChatServiceImpl) notifyOfflineParticipants(ctx context.Context, chatID uint64, senderID uint64, preview string) {
	participants, err := s.chatRepo.GetParticipants(ctx, chatID)
	if err != nil {
		log.Warn("查询会话成员失败", "chat_id", chatID, "err", err)
		return
	}
	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		log.Warn("查询发送者失败", "user_id", senderID, "err", err)
		return
	}
	subject := fmt.Sprintf("%s 给你发来了新消息", sender.Username)
	for _, p := range participants {
		if p.UserID == senderID || s.broker.IsUserOnline(p.UserID) {
			continue
		}
		s.notify.NotifyUser(ctx, p.UserID, subject, preview)
	}
}

func (s *ChatServiceImpl) toChatDTO(chat *model.Chat, viewerID uint64) *dto.ChatDTO {
	chatDTO := &dto.ChatDTO{
		ID:            chat.ID,
		Type:          chat.Type,
		Name:          chat.Name,
		ProjectID:     chat.ProjectID,
		LastContent:   chat.LastContent,
		LastSenderID:  chat.LastSenderID,
		LastMessageAt: chat.LastMessageAt,
	}
	if chat.PeerKey != nil {
		chatDTO.PeerID = parsePeerID(*chat.PeerKey, viewerID)
	}
	return chatDTO
}

func parsePeerID(peerKey string, viewerID uint64) uint64 {
	left, right, found := strings.Cut(peerKey, "_")
	if !found {
		return 0
	}
	a, _ := strconv.ParseUint(left, 10, 64)
	b, _ := strconv.ParseUint(right, 10, 64)
	if a == viewerID {
		return b
	}
	return a
}

func isStaff(role string) bool {
	return role == consts.RoleAdmin || role == consts.RoleManager
}

func toMessageDTO(msg *model.Message) *dto.MessageDTO {
	msgDTO := &dto.MessageDTO{
		ID:        msg.ID,
		ChatID:    msg.ChatID,
		SenderID:  msg.SenderID,
		Content:   msg.Content,
		ReplyToID: msg.ReplyToID,
		Deleted:   msg.DeletedAt != nil,
		CreatedAt: msg.CreatedAt,
	}
	if len(msg.Attachments) > 0 {
		_ = json.Unmarshal(msg.Attachments, &msgDTO.Attachments)
	}
	for _, r := range msg.Reactions {
		msgDTO.Reactions = append(msgDTO.Reactions, dto.ReactionDTO{
			MessageID: r.MessageID,
			UserID:    r.UserID,
			Emoji:     r.Emoji,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return msgDTO
}
