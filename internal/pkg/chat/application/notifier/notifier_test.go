package notifier

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	qport "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/queue/port"
	"github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/realtime"
	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/presence"
)

type capturedTask struct {
	Type    string
	Payload []byte
}

type fakeQueue struct {
	mu    sync.Mutex
	tasks []capturedTask
}

func (f *fakeQueue) Enqueue(ctx context.Context, t qport.Task, opts ...qport.EnqueueOption) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, capturedTask{Type: t.Type, Payload: t.Payload})
	return "task-1", nil
}

func (f *fakeQueue) Close() error { return nil }

func strPtr(s string) *string { return &s }

func TestMessageCreatedQueuesPushForOfflineOnly(t *testing.T) {
	t.Parallel()

	router := realtime.NewRouter()
	router.Attach(realtime.NewConnection("bob", nil)) // bob has a live session, carol does not
	queue := &fakeQueue{}
	n := New(router, presence.NewTracker(), queue, zerolog.Nop())

	m := &chat.Message{ID: "m1", ChatID: "c1", AuthorID: "alice", Content: strPtr("hi")}
	n.MessageCreated(context.Background(), m, []string{"alice", "bob", "carol"})

	if len(queue.tasks) != 1 {
		t.Fatalf("queued %d tasks, want 1", len(queue.tasks))
	}
	if queue.tasks[0].Type != PushTaskType {
		t.Errorf("task type = %s, want %s", queue.tasks[0].Type, PushTaskType)
	}

	var payload PushTaskPayload
	if err := json.Unmarshal(queue.tasks[0].Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload.UserIDs) != 1 || payload.UserIDs[0] != "carol" {
		t.Errorf("push recipients = %v, want [carol]", payload.UserIDs)
	}
	if payload.AuthorID != "alice" || payload.ChatID != "c1" {
		t.Errorf("payload = %+v, want chat c1 from alice", payload)
	}
}

func TestMessageCreatedSkipsPushWhenAllOnline(t *testing.T) {
	t.Parallel()

	router := realtime.NewRouter()
	router.Attach(realtime.NewConnection("bob", nil))
	queue := &fakeQueue{}
	n := New(router, presence.NewTracker(), queue, zerolog.Nop())

	m := &chat.Message{ID: "m1", ChatID: "c1", AuthorID: "alice", Content: strPtr("hi")}
	n.MessageCreated(context.Background(), m, []string{"alice", "bob"})

	if len(queue.tasks) != 0 {
		t.Errorf("queued %d tasks, want 0", len(queue.tasks))
	}
}

func TestMessageCreatedClearsTyping(t *testing.T) {
	t.Parallel()

	tracker := presence.NewTracker()
	tracker.StartTyping("c1", "alice")
	n := New(realtime.NewRouter(), tracker, nil, zerolog.Nop())

	m := &chat.Message{ID: "m1", ChatID: "c1", AuthorID: "alice", Content: strPtr("hi")}
	n.MessageCreated(context.Background(), m, []string{"alice"})

	if got := tracker.TypingUsers("c1"); len(got) != 0 {
		t.Errorf("typing after message = %v, want empty", got)
	}
}

func TestLockChatSerializesPerChat(t *testing.T) {
	t.Parallel()

	n := New(realtime.NewRouter(), presence.NewTracker(), nil, zerolog.Nop())

	var order []int
	var mu sync.Mutex

	unlock := n.LockChat("c1")
	done := make(chan struct{})
	go func() {
		u := n.LockChat("c1")
		mu.Lock()
		order = append(order, 2)
		mu.Unlock()
		u()
		close(done)
	}()

	// A different chat's guard is independent and must not block.
	u2 := n.LockChat("c2")
	u2()

	mu.Lock()
	order = append(order, 1)
	mu.Unlock()
	unlock()
	<-done

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("execution order = %v, want [1 2]", order)
	}
}
