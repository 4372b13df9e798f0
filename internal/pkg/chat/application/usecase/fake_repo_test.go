package usecase

import (
	"context"
	"fmt"
	"time"

	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
	repository "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/port"
)

// fakeRepo is a deterministic in-memory ChatRepository used by the use case
// tests. It mirrors the store's documented invariants (pair uniqueness,
// participant gating, monotonic receipts) without a database.
type fakeRepo struct {
	chats        map[string]*chat.Chat
	participants map[string]map[string]struct{} // chatID -> userIDs
	messages     map[string]*chat.Message       // messageID -> message
	order        []string                       // message ids in insert order

	pairs   map[string]string // "low|high" -> chatID
	nextID  int
	saveErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		chats:        make(map[string]*chat.Chat),
		participants: make(map[string]map[string]struct{}),
		messages:     make(map[string]*chat.Message),
		pairs:        make(map[string]string),
	}
}

func (f *fakeRepo) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

// seedGroup inserts a group chat with the given admin and members.
func (f *fakeRepo) seedGroup(chatID, admin string, members ...string) *chat.Chat {
	name := "group " + chatID
	a := admin
	c := &chat.Chat{ID: chatID, Kind: chat.ChatKindGroup, Name: &name, AdminUserID: &a, CreatedAt: time.Now()}
	f.chats[chatID] = c
	set := map[string]struct{}{admin: {}}
	for _, m := range members {
		set[m] = struct{}{}
	}
	f.participants[chatID] = set
	return c
}

func (f *fakeRepo) seedMessage(chatID, author, content string, at time.Time) *chat.Message {
	m := &chat.Message{ID: f.id("msg"), ChatID: chatID, AuthorID: author, Content: &content, CreatedAt: at}
	f.messages[m.ID] = m
	f.order = append(f.order, m.ID)
	return m
}

func (f *fakeRepo) GetChat(ctx context.Context, chatID string) (*chat.Chat, error) {
	c, ok := f.chats[chatID]
	if !ok {
		return nil, chat.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) CreateOneToOne(ctx context.Context, userA, userB string) (*chat.Chat, bool, error) {
	low, high := chat.PairKey(userA, userB)
	key := low + "|" + high
	if id, ok := f.pairs[key]; ok {
		c := *f.chats[id]
		return &c, false, nil
	}
	c := &chat.Chat{ID: f.id("chat"), Kind: chat.ChatKindOneOnOne, CreatedAt: time.Now()}
	f.chats[c.ID] = c
	f.pairs[key] = c.ID
	f.participants[c.ID] = map[string]struct{}{userA: {}, userB: {}}
	cp := *c
	return &cp, true, nil
}

func (f *fakeRepo) CreateGroup(ctx context.Context, adminUserID, name string, imageURL *string, participantIDs []string) (*chat.Chat, error) {
	a := adminUserID
	n := name
	c := &chat.Chat{ID: f.id("chat"), Kind: chat.ChatKindGroup, Name: &n, ImageURL: imageURL, AdminUserID: &a, CreatedAt: time.Now()}
	f.chats[c.ID] = c
	set := make(map[string]struct{}, len(participantIDs))
	for _, id := range participantIDs {
		set[id] = struct{}{}
	}
	f.participants[c.ID] = set
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) UpdateGroup(ctx context.Context, chatID string, name, imageURL *string) error {
	c, ok := f.chats[chatID]
	if !ok {
		return chat.ErrNotFound
	}
	if name != nil {
		c.Name = name
	}
	if imageURL != nil {
		c.ImageURL = imageURL
	}
	return nil
}

func (f *fakeRepo) DeleteChat(ctx context.Context, chatID string) ([]string, error) {
	if _, ok := f.chats[chatID]; !ok {
		return nil, chat.ErrNotFound
	}
	var urls []string
	for id, m := range f.messages {
		if m.ChatID != chatID {
			continue
		}
		for _, a := range m.Attachments {
			urls = append(urls, a.URL)
		}
		delete(f.messages, id)
	}
	delete(f.chats, chatID)
	delete(f.participants, chatID)
	return urls, nil
}

func (f *fakeRepo) IsParticipant(ctx context.Context, chatID, userID string) (bool, error) {
	_, ok := f.participants[chatID][userID]
	return ok, nil
}

func (f *fakeRepo) ListParticipantIDs(ctx context.Context, chatID string) ([]string, error) {
	var out []string
	for id := range f.participants[chatID] {
		out = append(out, id)
	}
	return out, nil
}

func (f *fakeRepo) ListChatIDsForUser(ctx context.Context, userID string) ([]string, error) {
	var out []string
	for chatID, set := range f.participants {
		if _, ok := set[userID]; ok {
			out = append(out, chatID)
		}
	}
	return out, nil
}

func (f *fakeRepo) AddParticipants(ctx context.Context, chatID string, userIDs []string) ([]string, error) {
	set, ok := f.participants[chatID]
	if !ok {
		return nil, chat.ErrNotFound
	}
	var added []string
	for _, id := range userIDs {
		if _, present := set[id]; present {
			continue
		}
		set[id] = struct{}{}
		added = append(added, id)
	}
	return added, nil
}

func (f *fakeRepo) RemoveParticipant(ctx context.Context, chatID, userID string) (bool, error) {
	set, ok := f.participants[chatID]
	if !ok {
		return false, chat.ErrNotFound
	}
	if _, present := set[userID]; !present {
		return false, nil
	}
	delete(set, userID)
	return true, nil
}

func (f *fakeRepo) SaveMessage(ctx context.Context, m chat.Message) (*chat.Message, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	if _, ok := f.participants[m.ChatID][m.AuthorID]; !ok {
		return nil, chat.ErrNotParticipant
	}
	m.ID = f.id("msg")
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	saved := m
	f.messages[saved.ID] = &saved
	f.order = append(f.order, saved.ID)
	out := saved
	return &out, nil
}

func (f *fakeRepo) GetMessage(ctx context.Context, messageID string) (*chat.Message, error) {
	m, ok := f.messages[messageID]
	if !ok {
		return nil, chat.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeRepo) ListMessages(ctx context.Context, chatID string, limit, offset int) ([]chat.Message, error) {
	var newestFirst []chat.Message
	for i := len(f.order) - 1; i >= 0; i-- {
		m, ok := f.messages[f.order[i]]
		if !ok || m.ChatID != chatID {
			continue
		}
		newestFirst = append(newestFirst, *m)
	}
	if offset >= len(newestFirst) {
		return nil, nil
	}
	newestFirst = newestFirst[offset:]
	if limit > 0 && limit < len(newestFirst) {
		newestFirst = newestFirst[:limit]
	}
	return newestFirst, nil
}

func (f *fakeRepo) DeleteMessage(ctx context.Context, messageID string) (string, []string, error) {
	m, ok := f.messages[messageID]
	if !ok {
		return "", nil, chat.ErrNotFound
	}
	var urls []string
	for _, a := range m.Attachments {
		urls = append(urls, a.URL)
	}
	delete(f.messages, messageID)
	return m.ChatID, urls, nil
}

func (f *fakeRepo) MarkRead(ctx context.Context, chatID, userID string) (int, error) {
	marked := 0
	for _, m := range f.messages {
		if m.ChatID != chatID || m.AuthorID == userID || m.ReadByUser(userID) {
			continue
		}
		m.ReadBy = append(m.ReadBy, userID)
		marked++
	}
	return marked, nil
}

func (f *fakeRepo) ListDirectory(ctx context.Context, userID string) ([]repository.DirectoryEntry, error) {
	var out []repository.DirectoryEntry
	for chatID, set := range f.participants {
		if _, ok := set[userID]; !ok {
			continue
		}
		entry := repository.DirectoryEntry{Chat: *f.chats[chatID]}
		for i := len(f.order) - 1; i >= 0; i-- {
			m, ok := f.messages[f.order[i]]
			if !ok || m.ChatID != chatID {
				continue
			}
			if entry.LastMessage == nil {
				cp := *m
				entry.LastMessage = &cp
			}
			if m.AuthorID != userID && !m.ReadByUser(userID) {
				entry.UnreadCount++
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

func (f *fakeRepo) ListOneToOnePeers(ctx context.Context, userID string) ([]string, error) {
	var out []string
	for _, chatID := range f.pairs {
		set := f.participants[chatID]
		if _, ok := set[userID]; !ok {
			continue
		}
		for id := range set {
			if id != userID {
				out = append(out, id)
			}
		}
	}
	return out, nil
}

var _ repository.ChatRepository = (*fakeRepo)(nil)
