package service

import (
	"Milestone/internal/model"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
)

// 内存假实现，仅供本包测试使用

type emission struct {
	room   string
	event  string
	data   any
	except string
}

type fakeBroker struct {
	mu         sync.Mutex
	subs       map[string]map[string]struct{} // room -> connIDs
	emissions  []emission
	userEmits  map[uint64][]emission
	online     map[uint64]bool
	connOwners map[string]uint64 // connID -> userID
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{
		subs:       make(map[string]map[string]struct{}),
		userEmits:  make(map[uint64][]emission),
		online:     make(map[uint64]bool),
		connOwners: make(map[string]uint64),
	}
}

func (b *fakeBroker) registerConn(connID string, userID uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connOwners[connID] = userID
}

func (b *fakeBroker) Subscribe(connID string, room string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[room] == nil {
		b.subs[room] = make(map[string]struct{})
	}
	b.subs[room][connID] = struct{}{}
}

func (b *fakeBroker) Emit(room string, event string, data any, exceptConnID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.emissions = append(b.emissions, emission{room: room, event: event, data: data, except: exceptConnID})
	delivered := 0
	for connID := range b.subs[room] {
		if exceptConnID != "" && connID == exceptConnID {
			continue
		}
		delivered++
	}
	return delivered
}

func (b *fakeBroker) EmitToUser(userID uint64, event string, data any) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.userEmits[userID] = append(b.userEmits[userID], emission{event: event, data: data})
	return 1
}

func (b *fakeBroker) EmitToConnOwner(connID string, event string, data any) int {
	b.mu.Lock()
	ownerID, ok := b.connOwners[connID]
	b.mu.Unlock()
	if !ok {
		return 0
	}
	return b.EmitToUser(ownerID, event, data)
}

func (b *fakeBroker) IsUserOnline(userID uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.online[userID]
}

func (b *fakeBroker) emitted(event string) []emission {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []emission
	for _, e := range b.emissions {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint64]*model.User
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint64]*model.User), nextID: 1}
}

func (r *fakeUserRepo) addUser(username string, role string) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := &model.User{ID: r.nextID, Username: username, Role: role}
	r.users[user.ID] = user
	r.nextID++
	return user
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.users[user.ID] = user
	r.nextID++
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID uint64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return &model.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, userIDs []uint64) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.User
	for _, id := range userIDs {
		if user, ok := r.users[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return &model.User{}, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) UpdateLastSeen(_ context.Context, userID uint64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		user.LastSeen = &at
	}
	return nil
}

type fakeChatRepo struct {
	mu           sync.Mutex
	chats        map[uint64]*model.Chat
	participants map[uint64]map[uint64]*model.ChatParticipant // chatID -> userID
	nextID       uint64
	failLastRead bool
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:        make(map[uint64]*model.Chat),
		participants: make(map[uint64]map[uint64]*model.ChatParticipant),
		nextID:       1,
	}
}

func (r *fakeChatRepo) CreateChat(_ context.Context, chat *model.Chat, participants []*model.ChatParticipant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if chat.PeerKey != nil {
		for _, existing := range r.chats {
			if existing.PeerKey != nil && *existing.PeerKey == *chat.PeerKey {
				return fmt.Errorf("duplicate peer key")
			}
		}
	}
	chat.ID = r.nextID
	r.nextID++
	r.chats[chat.ID] = chat
	r.participants[chat.ID] = make(map[uint64]*model.ChatParticipant)
	for _, p := range participants {
		p.ChatID = chat.ID
		p.JoinedAt = time.Now()
		r.participants[chat.ID][p.UserID] = p
	}
	return nil
}

func (r *fakeChatRepo) GetChat(_ context.Context, chatID uint64) (*model.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[chatID]
	if !ok {
		return &model.Chat{}, gorm.ErrRecordNotFound
	}
	return chat, nil
}

func (r *fakeChatRepo) GetChatByPeerKey(_ context.Context, peerKey string) (*model.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, chat := range r.chats {
		if chat.PeerKey != nil && *chat.PeerKey == peerKey {
			return chat, nil
		}
	}
	return &model.Chat{}, gorm.ErrRecordNotFound
}

func (r *fakeChatRepo) IsParticipant(_ context.Context, chatID uint64, userID uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.participants[chatID][userID]
	return ok, nil
}

func (r *fakeChatRepo) GetParticipant(_ context.Context, chatID uint64, userID uint64) (*model.ChatParticipant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[chatID][userID]
	if !ok {
		return &model.ChatParticipant{}, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeChatRepo) GetParticipants(_ context.Context, chatID uint64) ([]*model.ChatParticipant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.ChatParticipant
	for _, p := range r.participants[chatID] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *fakeChatRepo) UpsertLastRead(_ context.Context, chatID uint64, userID uint64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failLastRead {
		return fmt.Errorf("storage unavailable")
	}
	if r.participants[chatID] == nil {
		r.participants[chatID] = make(map[uint64]*model.ChatParticipant)
	}
	p, ok := r.participants[chatID][userID]
	if !ok {
		p = &model.ChatParticipant{ChatID: chatID, UserID: userID, JoinedAt: at}
		r.participants[chatID][userID] = p
	}
	p.LastReadAt = &at
	return nil
}

func (r *fakeChatRepo) SetCleared(_ context.Context, chatID uint64, userID uint64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.participants[chatID][userID]; ok {
		p.ClearedAt = &at
	}
	return nil
}

func (r *fakeChatRepo) SetHidden(_ context.Context, chatID uint64, userID uint64, hidden bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.participants[chatID][userID]; ok {
		p.IsDeleted = hidden
	}
	return nil
}

func (r *fakeChatRepo) TouchOnNewMessage(_ context.Context, chatID uint64, preview string, senderID uint64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[chatID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	chat.LastContent = preview
	chat.LastSenderID = senderID
	chat.LastMessageAt = at
	for _, p := range r.participants[chatID] {
		p.IsDeleted = false
	}
	return nil
}

func (r *fakeChatRepo) ListUserChats(_ context.Context, userID uint64) ([]*model.ChatParticipant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.ChatParticipant
	for chatID, members := range r.participants {
		if p, ok := members[userID]; ok && !p.IsDeleted {
			cp := *p
			cp.Chat = *r.chats[chatID]
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Chat.LastMessageAt.After(out[j].Chat.LastMessageAt)
	})
	return out, nil
}

func (r *fakeChatRepo) ClearMessages(_ context.Context, chatID uint64) error {
	return nil
}

func (r *fakeChatRepo) DeleteChat(_ context.Context, chatID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.chats, chatID)
	delete(r.participants, chatID)
	return nil
}

type fakeMessageRepo struct {
	mu        sync.Mutex
	messages  map[uint64]*model.Message
	order     []uint64
	reactions map[string]*model.MessageReaction
	nextID    uint64
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{
		messages:  make(map[uint64]*model.Message),
		reactions: make(map[string]*model.MessageReaction),
		nextID:    1,
	}
}

func (r *fakeMessageRepo) CreateMessage(_ context.Context, msg *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = r.nextID
	msg.CreatedAt = time.Now()
	r.nextID++
	r.messages[msg.ID] = msg
	r.order = append(r.order, msg.ID)
	return nil
}

func (r *fakeMessageRepo) GetMessage(_ context.Context, messageID uint64) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[messageID]
	if !ok {
		return &model.Message{}, gorm.ErrRecordNotFound
	}
	return msg, nil
}

func (r *fakeMessageRepo) UpdateContent(_ context.Context, messageID uint64, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg, ok := r.messages[messageID]; ok {
		msg.Content = content
	}
	return nil
}

func (r *fakeMessageRepo) SoftDelete(_ context.Context, messageID uint64, placeholder string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[messageID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	msg.Content = placeholder
	msg.Attachments = nil
	msg.DeletedAt = &at
	return nil
}

func (r *fakeMessageRepo) ListByChat(_ context.Context, chatID uint64, after *time.Time) ([]*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Message
	for _, id := range r.order {
		msg := r.messages[id]
		if msg.ChatID != chatID {
			continue
		}
		if after != nil && !msg.CreatedAt.After(*after) {
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

func (r *fakeMessageRepo) UpsertReaction(_ context.Context, messageID uint64, userID uint64, emoji string) (*model.MessageReaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := fmt.Sprintf("%d_%d_%s", messageID, userID, emoji)
	if existing, ok := r.reactions[key]; ok {
		existing.UpdatedAt = time.Now()
		return existing, nil
	}
	reaction := &model.MessageReaction{
		ID:        uint64(len(r.reactions) + 1),
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
		UpdatedAt: time.Now(),
	}
	r.reactions[key] = reaction
	return reaction, nil
}

func (r *fakeMessageRepo) reactionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reactions)
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[uint64]*model.Project
	members  map[uint64]map[uint64]struct{}
	nextID   uint64
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects: make(map[uint64]*model.Project),
		members:  make(map[uint64]map[uint64]struct{}),
		nextID:   1,
	}
}

func (r *fakeProjectRepo) Create(_ context.Context, project *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	project.ID = r.nextID
	r.nextID++
	r.projects[project.ID] = project
	r.members[project.ID] = make(map[uint64]struct{})
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, projectID uint64) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.projects[projectID]
	if !ok {
		return &model.Project{}, gorm.ErrRecordNotFound
	}
	return project, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, project *model.Project) error {
	return nil
}

func (r *fakeProjectRepo) ListByUser(_ context.Context, userID uint64) ([]*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Project
	for projectID, members := range r.members {
		if _, ok := members[userID]; ok {
			out = append(out, r.projects[projectID])
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) IsMember(_ context.Context, projectID uint64, userID uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.members[projectID][userID]
	return ok, nil
}

func (r *fakeProjectRepo) AddMember(_ context.Context, projectID uint64, userID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.members[projectID] == nil {
		r.members[projectID] = make(map[uint64]struct{})
	}
	r.members[projectID][userID] = struct{}{}
	return nil
}

func (r *fakeProjectRepo) RemoveMember(_ context.Context, projectID uint64, userID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members[projectID], userID)
	return nil
}

func (r *fakeProjectRepo) GetMembers(_ context.Context, projectID uint64) ([]*model.ProjectMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.ProjectMember
	for userID := range r.members[projectID] {
		out = append(out, &model.ProjectMember{ProjectID: projectID, UserID: userID})
	}
	return out, nil
}

func (r *fakeProjectRepo) BindChat(_ context.Context, projectID uint64, chatID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if project, ok := r.projects[projectID]; ok {
		project.ChatID = &chatID
	}
	return nil
}

type fakeNotify struct {
	mu   sync.Mutex
	sent map[uint64][]string
}

func newFakeNotify() *fakeNotify {
	return &fakeNotify{sent: make(map[uint64][]string)}
}

func (n *fakeNotify) SendEmail(_ context.Context, to string, subject string, content string) error {
	return nil
}

func (n *fakeNotify) NotifyUser(_ context.Context, userID uint64, subject string, content string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent[userID] = append(n.sent[userID], subject)
}

func (n *fakeNotify) NotifyUsers(ctx context.Context, userIDs []uint64, subject string, content string) {
	for _, id := range userIDs {
		n.NotifyUser(ctx, id, subject, content)
	}
}
