package service

import (
	"Milestone/internal/api/dto"
	"Milestone/internal/pkg/realtime"
	"Milestone/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
)

// GatewayService 网关入站事件分发。
// 网关是尽力而为通道：负载非法或副作用失败时丢弃事件并记日志，连接不中断。
type GatewayService interface {
	HandleEvent(ctx context.Context, connID string, userID uint64, frame *realtime.Frame)
	HandleDisconnect(ctx context.Context, userID uint64)
}

type GatewayServiceImpl struct {
	chatRepo    repository.ChatRepo
	messageRepo repository.MessageRepo
	userRepo    repository.UserRepo
	broker      RoomBroker
}

func NewGatewayService(
	chatRepo repository.ChatRepo,
	messageRepo repository.MessageRepo,
	userRepo repository.UserRepo,
	broker RoomBroker,
) GatewayService {
	return &GatewayServiceImpl{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		broker:      broker,
	}
}

func (s *GatewayServiceImpl) HandleEvent(ctx context.Context, connID string, userID uint64, frame *realtime.Frame) {
	switch frame.Event {
	case dto.EventJoinChat:
		s.handleJoinChat(connID, frame.Data)
	case dto.EventTyping:
		s.handleTyping(connID, userID, frame.Data)
	case dto.EventStopTyping:
		s.handleStopTyping(connID, userID, frame.Data)
	case dto.EventMarkAsRead:
		s.handleMarkAsRead(ctx, connID, userID, frame.Data)
	case dto.EventAddReaction:
		s.handleAddReaction(ctx, userID, frame.Data)
	case dto.EventCallUser:
		s.handleCallUser(ctx, connID, userID, frame.Data)
	case dto.EventAnswerCall:
		s.handleAnswerCall(connID, frame.Data)
	case dto.EventIceCandidate:
		s.handleIceCandidate(frame.Data)
	case dto.EventEndCall:
		s.handleEndCall(ctx, userID, frame.Data)
	case dto.EventRinging:
		s.handleRinging(frame.Data)
	default:
		log.Warn("未知网关事件", "event", frame.Event, "user_id", userID)
	}
}

// HandleDisconnect 连接断开时刷新最后在线时间
func (s *GatewayServiceImpl) HandleDisconnect(ctx context.Context, userID uint64) {
	if err := s.userRepo.UpdateLastSeen(ctx, userID, time.Now()); err != nil {
		log.Warn("更新最后在线时间失败", "user_id", userID, "err", err)
	}
}

// handleJoinChat 房间加入不做成员校验，换取首包延迟；
// 消息历史与发送路径由服务层做强校验兜底。
func (s *GatewayServiceImpl) handleJoinChat(connID string, data json.RawMessage) {
	var ev dto.JoinChatEvent
	if err := json.Unmarshal(data, &ev); err != nil || ev.ChatID == 0 {
		log.Warn("join_chat 负载非法", "err", err)
		return
	}
	s.broker.Subscribe(connID, realtime.ChatRoom(ev.ChatID))
}

func (s *GatewayServiceImpl) handleTyping(connID string, userID uint64, data json.RawMessage) {
	var ev dto.TypingEvent
	if err := json.Unmarshal(data, &ev); err != nil || ev.ChatID == 0 {
		return
	}
	s.broker.Emit(realtime.ChatRoom(ev.ChatID), dto.EventTyping, &dto.TypingPush{
		UserID:   userID,
		UserName: ev.UserName,
		ChatID:   ev.ChatID,
	}, connID)
}

func (s *GatewayServiceImpl) handleStopTyping(connID string, userID uint64, data json.RawMessage) {
	var ev dto.StopTypingEvent
	if err := json.Unmarshal(data, &ev); err != nil || ev.ChatID == 0 {
		return
	}
	s.broker.Emit(realtime.ChatRoom(ev.ChatID), dto.EventStopTyping, &dto.StopTypingPush{
		UserID: userID,
		ChatID: ev.ChatID,
	}, connID)
}

// handleMarkAsRead 先落库后广播，落库失败不广播，避免假已读
func (s *GatewayServiceImpl) handleMarkAsRead(ctx context.Context, connID string, userID uint64, data json.RawMessage) {
	var ev dto.MarkAsReadEvent
	if err := json.Unmarshal(data, &ev); err != nil || ev.ChatID == 0 {
		return
	}
	readAt := time.Now()
	if err := s.chatRepo.UpsertLastRead(ctx, ev.ChatID, userID, readAt); err != nil {
		log.Warn("更新已读水位失败", "chat_id", ev.ChatID, "user_id", userID, "err", err)
		return
	}
	s.broker.Emit(realtime.ChatRoom(ev.ChatID), dto.EventUserReadMessages, &dto.UserReadPush{
		UserID: userID,
		ChatID: ev.ChatID,
		ReadAt: readAt,
	}, connID)
}

// handleAddReaction 幂等写入后广播给全房间，发送者也收到以统一各端状态
func (s *GatewayServiceImpl) handleAddReaction(ctx context.Context, userID uint64, data json.RawMessage) {
	var ev dto.AddReactionEvent
	if err := json.Unmarshal(data, &ev); err != nil || ev.MessageID == 0 || ev.Emoji == "" {
		return
	}
	reaction, err := s.messageRepo.UpsertReaction(ctx, ev.MessageID, userID, ev.Emoji)
	if err != nil {
		log.Warn("写入表情回应失败", "message_id", ev.MessageID, "user_id", userID, "err", err)
		return
	}
	s.broker.Emit(realtime.ChatRoom(ev.ChatID), dto.EventReactionAdded, &dto.ReactionPush{
		MessageID: ev.MessageID,
		ChatID:    ev.ChatID,
		Reaction: dto.ReactionDTO{
			MessageID: reaction.MessageID,
			UserID:    reaction.UserID,
			Emoji:     reaction.Emoji,
			UpdatedAt: reaction.UpdatedAt,
		},
	}, "")
}

// handleCallUser 向会话内除主叫外的所有成员的个人房间投递呼叫邀请，
// 信令负载不透明转发，from 为主叫连接ID供应答路由
func (s *GatewayServiceImpl) handleCallUser(ctx context.Context, connID string, userID uint64, data json.RawMessage) {
	var ev dto.CallUserEvent
	if err := json.Unmarshal(data, &ev); err != nil || ev.ChatID == 0 {
		return
	}
	participants, err := s.chatRepo.GetParticipants(ctx, ev.ChatID)
	if err != nil {
		log.Warn("查询会话成员失败", "chat_id", ev.ChatID, "err", err)
		return
	}
	push := &dto.CallUserPush{
		Signal: ev.SignalData,
		From:   connID,
		Name:   ev.Name,
	}
	for _, p := range participants {
		if p.UserID == userID {
			continue
		}
		s.broker.EmitToUser(p.UserID, dto.EventCallUser, push)
	}
}

// handleAnswerCall to 为主叫连接ID（call_user 推送的 from 原样回传），
// 经连接归属解析投递到主叫用户的个人房间
func (s *GatewayServiceImpl) handleAnswerCall(connID string, data json.RawMessage) {
	var ev dto.AnswerCallEvent
	if err := json.Unmarshal(data, &ev); err != nil || ev.To == "" {
		return
	}
	s.broker.EmitToConnOwner(ev.To, dto.EventCallAccepted, &dto.CallAcceptedPush{
		Signal: ev.Signal,
		From:   connID,
	})
}

func (s *GatewayServiceImpl) handleIceCandidate(data json.RawMessage) {
	var ev dto.IceCandidateEvent
	if err := json.Unmarshal(data, &ev); err != nil || ev.To == "" {
		return
	}
	s.broker.EmitToConnOwner(ev.To, dto.EventIceCandidate, &dto.IceCandidatePush{
		Candidate: ev.Candidate,
	})
}

// handleEndCall to 与 chatId 至少其一：点对点挂断按对端连接寻址，
// 群挂断查会话成员后逐一投递个人房间（与 call_user 对称，
// 未 join_chat 的被叫同样能收到挂断）
func (s *GatewayServiceImpl) handleEndCall(ctx context.Context, userID uint64, data json.RawMessage) {
	var ev dto.EndCallEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return
	}
	switch {
	case ev.To != nil:
		s.broker.EmitToConnOwner(*ev.To, dto.EventCallEnded, struct{}{})
	case ev.ChatID != nil:
		participants, err := s.chatRepo.GetParticipants(ctx, *ev.ChatID)
		if err != nil {
			log.Warn("查询会话成员失败", "chat_id", *ev.ChatID, "err", err)
			return
		}
		for _, p := range participants {
			if p.UserID == userID {
				continue
			}
			s.broker.EmitToUser(p.UserID, dto.EventCallEnded, struct{}{})
		}
	}
}

func (s *GatewayServiceImpl) handleRinging(data json.RawMessage) {
	var ev dto.RingingEvent
	if err := json.Unmarshal(data, &ev); err != nil || ev.To == "" {
		return
	}
	s.broker.EmitToConnOwner(ev.To, dto.EventRinging, struct{}{})
}
