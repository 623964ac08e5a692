package service

import (
	"Milestone/internal/api/dto"
	"Milestone/internal/pkg/consts"
	"context"
	"errors"
	"testing"
)

type chatTestEnv struct {
	svc      ChatService
	users    *fakeUserRepo
	chats    *fakeChatRepo
	messages *fakeMessageRepo
	projects *fakeProjectRepo
	broker   *fakeBroker
	notify   *fakeNotify
}

func newChatTestEnv() *chatTestEnv {
	users := newFakeUserRepo()
	chats := newFakeChatRepo()
	messages := newFakeMessageRepo()
	projects := newFakeProjectRepo()
	broker := newFakeBroker()
	notify := newFakeNotify()
	return &chatTestEnv{
		svc:      NewChatService(chats, messages, users, projects, broker, notify),
		users:    users,
		chats:    chats,
		messages: messages,
		projects: projects,
		broker:   broker,
		notify:   notify,
	}
}

func TestCreatePrivateChatIdempotent(t *testing.T) {
	env := newChatTestEnv()
	alice := env.users.addUser("alice", consts.RoleManager)
	bob := env.users.addUser("bob", consts.RoleTeamMember)
	ctx := context.Background()

	first, err := env.svc.CreatePrivateChat(ctx, alice.ID, alice.Role, &dto.CreatePrivateChatReq{TargetUserID: bob.ID})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	// 反向发起也命中同一会话
	second, err := env.svc.CreatePrivateChat(ctx, bob.ID, bob.Role, &dto.CreatePrivateChatReq{TargetUserID: alice.ID})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("chat id = %d, want %d", second.ID, first.ID)
	}
	if second.PeerID != alice.ID {
		t.Errorf("peer id = %d, want %d", second.PeerID, alice.ID)
	}
}

func TestCreatePrivateChatSelfTarget(t *testing.T) {
	env := newChatTestEnv()
	alice := env.users.addUser("alice", consts.RoleManager)

	_, err := env.svc.CreatePrivateChat(context.Background(), alice.ID, alice.Role, &dto.CreatePrivateChatReq{TargetUserID: alice.ID})
	if !errors.Is(err, ErrTargetUserInvalid) {
		t.Fatalf("err = %v, want ErrTargetUserInvalid", err)
	}
}

func TestCreatePrivateChatCustomerRule(t *testing.T) {
	env := newChatTestEnv()
	customer := env.users.addUser("customer", consts.RoleCustomer)
	member := env.users.addUser("member", consts.RoleTeamMember)
	manager := env.users.addUser("manager", consts.RoleManager)
	ctx := context.Background()

	_, err := env.svc.CreatePrivateChat(ctx, customer.ID, customer.Role, &dto.CreatePrivateChatReq{TargetUserID: member.ID})
	if !errors.Is(err, ErrCustomerChatTarget) {
		t.Fatalf("customer->member err = %v, want ErrCustomerChatTarget", err)
	}
	if _, err = env.svc.CreatePrivateChat(ctx, customer.ID, customer.Role, &dto.CreatePrivateChatReq{TargetUserID: manager.ID}); err != nil {
		t.Fatalf("customer->manager err = %v", err)
	}
	// 员工主动找客户同样受限
	_, err = env.svc.CreatePrivateChat(ctx, member.ID, member.Role, &dto.CreatePrivateChatReq{TargetUserID: customer.ID})
	if !errors.Is(err, ErrCustomerChatTarget) {
		t.Fatalf("member->customer err = %v, want ErrCustomerChatTarget", err)
	}
}

func TestSendMessageRequiresParticipant(t *testing.T) {
	env := newChatTestEnv()
	alice := env.users.addUser("alice", consts.RoleManager)
	bob := env.users.addUser("bob", consts.RoleTeamMember)
	outsider := env.users.addUser("outsider", consts.RoleTeamMember)
	ctx := context.Background()

	chat, err := env.svc.CreatePrivateChat(ctx, alice.ID, alice.Role, &dto.CreatePrivateChatReq{TargetUserID: bob.ID})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	_, err = env.svc.SendMessage(ctx, outsider.ID, &dto.SendMessageReq{ChatID: chat.ID, Content: "hi"})
	if !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("err = %v, want ErrNotParticipant", err)
	}
}

func TestSendMessageEmpty(t *testing.T) {
	env := newChatTestEnv()
	alice := env.users.addUser("alice", consts.RoleManager)
	bob := env.users.addUser("bob", consts.RoleTeamMember)
	ctx := context.Background()

	chat, _ := env.svc.CreatePrivateChat(ctx, alice.ID, alice.Role, &dto.CreatePrivateChatReq{TargetUserID: bob.ID})
	_, err := env.svc.SendMessage(ctx, alice.ID, &dto.SendMessageReq{ChatID: chat.ID, Content: "   "})
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
}

func TestSendMessageBroadcastsAndUnhides(t *testing.T) {
	env := newChatTestEnv()
	alice := env.users.addUser("alice", consts.RoleManager)
	bob := env.users.addUser("bob", consts.RoleTeamMember)
	ctx := context.Background()

	chat, _ := env.svc.CreatePrivateChat(ctx, alice.ID, alice.Role, &dto.CreatePrivateChatReq{TargetUserID: bob.ID})

	// bob 先在列表中删除会话
	if err := env.svc.DeleteChat(ctx, bob.ID, chat.ID, false); err != nil {
		t.Fatalf("delete for me: %v", err)
	}
	listed, _ := env.svc.ListChats(ctx, bob.ID)
	if len(listed) != 0 {
		t.Fatalf("bob chats = %d, want 0", len(listed))
	}

	msg, err := env.svc.SendMessage(ctx, alice.ID, &dto.SendMessageReq{ChatID: chat.ID, Content: "回来吧"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.SenderID != alice.ID {
		t.Errorf("sender = %d, want %d", msg.SenderID, alice.ID)
	}

	// 新消息让会话在 bob 列表中重新浮现
	listed, _ = env.svc.ListChats(ctx, bob.ID)
	if len(listed) != 1 {
		t.Fatalf("bob chats after message = %d, want 1", len(listed))
	}
	if listed[0].LastContent != "回来吧" {
		t.Errorf("preview = %q, want %q", listed[0].LastContent, "回来吧")
	}

	if got := env.broker.emitted(dto.EventReceiveMessage); len(got) != 1 {
		t.Fatalf("receive_message emissions = %d, want 1", len(got))
	}
}

func TestDeleteMessageKeepsPlaceholder(t *testing.T) {
	env := newChatTestEnv()
	alice := env.users.addUser("alice", consts.RoleManager)
	bob := env.users.addUser("bob", consts.RoleTeamMember)
	ctx := context.Background()

	chat, _ := env.svc.CreatePrivateChat(ctx, alice.ID, alice.Role, &dto.CreatePrivateChatReq{TargetUserID: bob.ID})
	first, _ := env.svc.SendMessage(ctx, alice.ID, &dto.SendMessageReq{ChatID: chat.ID, Content: "first"})
	env.svc.SendMessage(ctx, bob.ID, &dto.SendMessageReq{ChatID: chat.ID, Content: "second"})

	// 非发送者删除被拒
	if err := env.svc.DeleteMessage(ctx, bob.ID, first.ID); !errors.Is(err, ErrNotMessageSender) {
		t.Fatalf("err = %v, want ErrNotMessageSender", err)
	}
	if err := env.svc.DeleteMessage(ctx, alice.ID, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	history, err := env.svc.GetChatHistory(ctx, bob.ID, chat.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history len = %d, want 2", len(history))
	}
	if history[0].Content != consts.DeletedMessagePlaceholder {
		t.Errorf("content = %q, want placeholder", history[0].Content)
	}
	if !history[0].Deleted {
		t.Error("deleted flag not set")
	}
	if len(history[0].Attachments) != 0 {
		t.Error("attachments not cleared")
	}
}

func TestEditMessageSenderOnly(t *testing.T) {
	env := newChatTestEnv()
	alice := env.users.addUser("alice", consts.RoleManager)
	bob := env.users.addUser("bob", consts.RoleTeamMember)
	ctx := context.Background()

	chat, _ := env.svc.CreatePrivateChat(ctx, alice.ID, alice.Role, &dto.CreatePrivateChatReq{TargetUserID: bob.ID})
	msg, _ := env.svc.SendMessage(ctx, alice.ID, &dto.SendMessageReq{ChatID: chat.ID, Content: "typo"})

	if _, err := env.svc.EditMessage(ctx, bob.ID, msg.ID, "hack"); !errors.Is(err, ErrNotMessageSender) {
		t.Fatalf("err = %v, want ErrNotMessageSender", err)
	}
	edited, err := env.svc.EditMessage(ctx, alice.ID, msg.ID, "fixed")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Content != "fixed" {
		t.Errorf("content = %q, want %q", edited.Content, "fixed")
	}
	if got := env.broker.emitted(dto.EventMessageEdited); len(got) != 1 {
		t.Fatalf("message_edited emissions = %d, want 1", len(got))
	}
}

func TestClearChatForMeOnly(t *testing.T) {
	env := newChatTestEnv()
	alice := env.users.addUser("alice", consts.RoleManager)
	bob := env.users.addUser("bob", consts.RoleTeamMember)
	ctx := context.Background()

	chat, _ := env.svc.CreatePrivateChat(ctx, alice.ID, alice.Role, &dto.CreatePrivateChatReq{TargetUserID: bob.ID})
	env.svc.SendMessage(ctx, alice.ID, &dto.SendMessageReq{ChatID: chat.ID, Content: "old"})

	if err := env.svc.ClearChat(ctx, bob.ID, chat.ID, false); err != nil {
		t.Fatalf("clear: %v", err)
	}

	bobHistory, _ := env.svc.GetChatHistory(ctx, bob.ID, chat.ID)
	if len(bobHistory) != 0 {
		t.Errorf("bob history = %d, want 0", len(bobHistory))
	}
	aliceHistory, _ := env.svc.GetChatHistory(ctx, alice.ID, chat.ID)
	if len(aliceHistory) != 1 {
		t.Errorf("alice history = %d, want 1", len(aliceHistory))
	}

	// 清空后的新消息对 bob 可见
	env.svc.SendMessage(ctx, alice.ID, &dto.SendMessageReq{ChatID: chat.ID, Content: "new"})
	bobHistory, _ = env.svc.GetChatHistory(ctx, bob.ID, chat.ID)
	if len(bobHistory) != 1 || bobHistory[0].Content != "new" {
		t.Errorf("bob history after new message = %v", bobHistory)
	}
}

func TestDeleteChatForEveryone(t *testing.T) {
	env := newChatTestEnv()
	alice := env.users.addUser("alice", consts.RoleManager)
	bob := env.users.addUser("bob", consts.RoleTeamMember)
	ctx := context.Background()

	chat, _ := env.svc.CreatePrivateChat(ctx, alice.ID, alice.Role, &dto.CreatePrivateChatReq{TargetUserID: bob.ID})
	if err := env.svc.DeleteChat(ctx, alice.ID, chat.ID, true); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if got := env.broker.emitted(dto.EventChatDeleted); len(got) != 1 {
		t.Fatalf("chat_deleted emissions = %d, want 1", len(got))
	}
	// 会话已不存在，历史访问被拒
	if _, err := env.svc.GetChatHistory(ctx, bob.ID, chat.ID); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("err = %v, want ErrNotParticipant", err)
	}
}
