package service

import (
	"Milestone/internal/api/dto"
	"Milestone/internal/model"
	"Milestone/internal/pkg/realtime"
	"Milestone/internal/pkg/util"
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

type gatewayTestEnv struct {
	svc      GatewayService
	users    *fakeUserRepo
	chats    *fakeChatRepo
	messages *fakeMessageRepo
	broker   *fakeBroker
}

func newGatewayTestEnv() *gatewayTestEnv {
	users := newFakeUserRepo()
	chats := newFakeChatRepo()
	messages := newFakeMessageRepo()
	broker := newFakeBroker()
	return &gatewayTestEnv{
		svc:      NewGatewayService(chats, messages, users, broker),
		users:    users,
		chats:    chats,
		messages: messages,
		broker:   broker,
	}
}

func frame(t *testing.T, event string, payload any) *realtime.Frame {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return &realtime.Frame{Event: event, Data: raw}
}

func (e *gatewayTestEnv) seedChat(t *testing.T, userIDs ...uint64) uint64 {
	t.Helper()
	participants := make([]*model.ChatParticipant, 0, len(userIDs))
	for _, id := range userIDs {
		participants = append(participants, &model.ChatParticipant{UserID: id})
	}
	chat := &model.Chat{Type: "PRIVATE", LastMessageAt: time.Now()}
	if err := e.chats.CreateChat(context.Background(), chat, participants); err != nil {
		t.Fatalf("seed chat: %v", err)
	}
	return chat.ID
}

func TestJoinChatSubscribes(t *testing.T) {
	env := newGatewayTestEnv()
	chatID := env.seedChat(t, 1, 2)

	env.svc.HandleEvent(context.Background(), "conn-1", 1, frame(t, dto.EventJoinChat, dto.JoinChatEvent{ChatID: chatID}))

	env.broker.Subscribe("conn-2", realtime.ChatRoom(chatID))
	if got := env.broker.Emit(realtime.ChatRoom(chatID), "probe", nil, ""); got != 2 {
		t.Fatalf("room subscribers = %d, want 2", got)
	}
}

func TestTypingExcludesSender(t *testing.T) {
	env := newGatewayTestEnv()
	chatID := env.seedChat(t, 1, 2)
	room := realtime.ChatRoom(chatID)
	env.broker.Subscribe("conn-1", room)
	env.broker.Subscribe("conn-2", room)

	env.svc.HandleEvent(context.Background(), "conn-1", 1, frame(t, dto.EventTyping, dto.TypingEvent{ChatID: chatID, UserName: "alice"}))

	emitted := env.broker.emitted(dto.EventTyping)
	if len(emitted) != 1 {
		t.Fatalf("typing emissions = %d, want 1", len(emitted))
	}
	if emitted[0].except != "conn-1" {
		t.Errorf("except = %q, want conn-1", emitted[0].except)
	}
	push, ok := emitted[0].data.(*dto.TypingPush)
	if !ok {
		t.Fatalf("push type = %T", emitted[0].data)
	}
	if push.UserID != 1 || push.UserName != "alice" {
		t.Errorf("push = %+v", push)
	}
}

func TestMarkAsReadBroadcastsWatermark(t *testing.T) {
	env := newGatewayTestEnv()
	chatID := env.seedChat(t, 1, 2)

	env.svc.HandleEvent(context.Background(), "conn-1", 1, frame(t, dto.EventMarkAsRead, dto.MarkAsReadEvent{ChatID: chatID}))

	p, err := env.chats.GetParticipant(context.Background(), chatID, 1)
	if err != nil || p.LastReadAt == nil {
		t.Fatalf("last read not persisted: %v", err)
	}
	emitted := env.broker.emitted(dto.EventUserReadMessages)
	if len(emitted) != 1 {
		t.Fatalf("user_read_messages emissions = %d, want 1", len(emitted))
	}
	if emitted[0].except != "conn-1" {
		t.Errorf("except = %q, want conn-1", emitted[0].except)
	}
}

func TestMarkAsReadSkipsBroadcastOnStorageFailure(t *testing.T) {
	env := newGatewayTestEnv()
	chatID := env.seedChat(t, 1, 2)
	env.chats.failLastRead = true

	env.svc.HandleEvent(context.Background(), "conn-1", 1, frame(t, dto.EventMarkAsRead, dto.MarkAsReadEvent{ChatID: chatID}))

	if got := env.broker.emitted(dto.EventUserReadMessages); len(got) != 0 {
		t.Fatalf("user_read_messages emissions = %d, want 0", len(got))
	}
}

func TestAddReactionBroadcastsToAll(t *testing.T) {
	env := newGatewayTestEnv()
	chatID := env.seedChat(t, 1, 2)
	msg := &model.Message{ChatID: chatID, SenderID: 2, Content: "hi"}
	env.messages.CreateMessage(context.Background(), msg)

	env.svc.HandleEvent(context.Background(), "conn-1", 1,
		frame(t, dto.EventAddReaction, dto.AddReactionEvent{MessageID: msg.ID, Emoji: "👍", ChatID: chatID}))
	// 重复回应幂等
	env.svc.HandleEvent(context.Background(), "conn-1", 1,
		frame(t, dto.EventAddReaction, dto.AddReactionEvent{MessageID: msg.ID, Emoji: "👍", ChatID: chatID}))

	emitted := env.broker.emitted(dto.EventReactionAdded)
	if len(emitted) != 2 {
		t.Fatalf("reaction_added emissions = %d, want 2", len(emitted))
	}
	// 两次相同回应只落一行
	if got := env.messages.reactionCount(); got != 1 {
		t.Fatalf("reaction rows = %d, want 1", got)
	}
	// 发送者也收到，except 必须为空
	if emitted[0].except != "" {
		t.Errorf("except = %q, want empty", emitted[0].except)
	}
	push, ok := emitted[0].data.(*dto.ReactionPush)
	if !ok {
		t.Fatalf("push type = %T", emitted[0].data)
	}
	if push.Reaction.UserID != 1 || push.Reaction.Emoji != "👍" {
		t.Errorf("reaction = %+v", push.Reaction)
	}
}

func TestCallUserFansOutToOthers(t *testing.T) {
	env := newGatewayTestEnv()
	chatID := env.seedChat(t, 1, 2, 3)

	env.svc.HandleEvent(context.Background(), "conn-1", 1,
		frame(t, dto.EventCallUser, dto.CallUserEvent{ChatID: chatID, SignalData: json.RawMessage(`{"sdp":"offer"}`), Name: "alice"}))

	if got := env.broker.userEmits[1]; len(got) != 0 {
		t.Errorf("caller received own invite: %d", len(got))
	}
	for _, callee := range []uint64{2, 3} {
		got := env.broker.userEmits[callee]
		if len(got) != 1 || got[0].event != dto.EventCallUser {
			t.Fatalf("callee %d emits = %+v", callee, got)
		}
		push := got[0].data.(*dto.CallUserPush)
		if push.From != "conn-1" || push.Name != "alice" {
			t.Errorf("push = %+v", push)
		}
	}
}

func TestAnswerCallRelaysToCaller(t *testing.T) {
	env := newGatewayTestEnv()
	env.broker.registerConn("conn-1", 1)

	env.svc.HandleEvent(context.Background(), "conn-9", 2,
		frame(t, dto.EventAnswerCall, dto.AnswerCallEvent{To: "conn-1", Signal: json.RawMessage(`{"sdp":"answer"}`)}))

	got := env.broker.userEmits[1]
	if len(got) != 1 || got[0].event != dto.EventCallAccepted {
		t.Fatalf("caller emits = %+v", got)
	}
	push := got[0].data.(*dto.CallAcceptedPush)
	if push.From != "conn-9" {
		t.Errorf("from = %q, want conn-9", push.From)
	}
}

// 被叫仅凭 call_user 推送中的 from 即可应答：原样回传即寻址到主叫
func TestAnswerCallAddressesRelayedFrom(t *testing.T) {
	env := newGatewayTestEnv()
	chatID := env.seedChat(t, 1, 2)
	env.broker.registerConn("conn-1", 1)

	env.svc.HandleEvent(context.Background(), "conn-1", 1,
		frame(t, dto.EventCallUser, dto.CallUserEvent{ChatID: chatID, SignalData: json.RawMessage(`{"sdp":"offer"}`)}))

	invites := env.broker.userEmits[2]
	if len(invites) != 1 {
		t.Fatalf("callee invites = %d, want 1", len(invites))
	}
	relayedFrom := invites[0].data.(*dto.CallUserPush).From

	env.svc.HandleEvent(context.Background(), "conn-2", 2,
		frame(t, dto.EventAnswerCall, dto.AnswerCallEvent{To: relayedFrom, Signal: json.RawMessage(`{"sdp":"answer"}`)}))

	accepted := env.broker.userEmits[1]
	if len(accepted) != 1 || accepted[0].event != dto.EventCallAccepted {
		t.Fatalf("caller emits = %+v", accepted)
	}
}

func TestAnswerCallUnknownConnDropped(t *testing.T) {
	env := newGatewayTestEnv()

	env.svc.HandleEvent(context.Background(), "conn-9", 2,
		frame(t, dto.EventAnswerCall, dto.AnswerCallEvent{To: "conn-gone", Signal: json.RawMessage(`{}`)}))

	for userID, got := range env.broker.userEmits {
		if len(got) != 0 {
			t.Fatalf("user %d emits = %+v, want none", userID, got)
		}
	}
}

func TestEndCallRouting(t *testing.T) {
	env := newGatewayTestEnv()
	env.broker.registerConn("conn-2", 2)

	env.svc.HandleEvent(context.Background(), "conn-1", 1,
		frame(t, dto.EventEndCall, dto.EndCallEvent{To: util.PtrString("conn-2")}))
	if got := env.broker.userEmits[2]; len(got) != 1 || got[0].event != dto.EventCallEnded {
		t.Fatalf("point-to-point end emits = %+v", got)
	}
}

// 群挂断与 call_user 对称：查成员后逐一投递个人房间，
// 未 join_chat 的被叫同样收到 call_ended
func TestEndCallNotifiesAllParticipants(t *testing.T) {
	env := newGatewayTestEnv()
	chatID := env.seedChat(t, 1, 2, 3)

	env.svc.HandleEvent(context.Background(), "conn-1", 1,
		frame(t, dto.EventEndCall, dto.EndCallEvent{ChatID: util.PtrUint64(chatID)}))

	if got := env.broker.userEmits[1]; len(got) != 0 {
		t.Errorf("caller received own hangup: %d", len(got))
	}
	for _, callee := range []uint64{2, 3} {
		got := env.broker.userEmits[callee]
		if len(got) != 1 || got[0].event != dto.EventCallEnded {
			t.Fatalf("callee %d emits = %+v, want one call_ended", callee, got)
		}
	}
	// 不走会话房间广播
	if got := env.broker.emitted(dto.EventCallEnded); len(got) != 0 {
		t.Fatalf("room emissions = %d, want 0", len(got))
	}
}

func TestUnknownEventIgnored(t *testing.T) {
	env := newGatewayTestEnv()
	env.svc.HandleEvent(context.Background(), "conn-1", 1, &realtime.Frame{Event: "no_such_event"})
	if len(env.broker.emissions) != 0 {
		t.Fatalf("emissions = %d, want 0", len(env.broker.emissions))
	}
}

func TestDisconnectUpdatesLastSeen(t *testing.T) {
	env := newGatewayTestEnv()
	user := env.users.addUser("alice", "MANAGER")

	env.svc.HandleDisconnect(context.Background(), user.ID)

	stored, _ := env.users.GetByID(context.Background(), user.ID)
	if stored.LastSeen == nil {
		t.Fatal("last seen not updated")
	}
}
