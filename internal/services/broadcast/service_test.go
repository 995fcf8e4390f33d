package broadcast

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/model"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/services/access"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type registryStub struct {
	ids []int64
}

func (r *registryStub) Snapshot() []int64 { return append([]int64(nil), r.ids...) }
func (r *registryStub) Count() int        { return len(r.ids) }

type notifierStub struct {
	mu     sync.Mutex
	failed map[int64]bool
	got    map[int64]string
	onSend func()
}

func (n *notifierStub) Deliver(_ context.Context, _ string, msg model.OutboundMessage) bool {
	if n.onSend != nil {
		n.onSend()
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.got == nil {
		n.got = make(map[int64]string)
	}
	if n.failed[msg.ChatID] {
		return false
	}
	n.got[msg.ChatID] = msg.Text
	return true
}

const moderatorID int64 = 1

func TestBroadcastCountsSuccesses(t *testing.T) {
	reg := &registryStub{ids: []int64{10, 11, 12, 13, 14}}
	notes := &notifierStub{failed: map[int64]bool{11: true, 13: true}}
	svc := NewService(reg, notes, access.NewPolicy(moderatorID), 3, zaptest.NewLogger(t))

	sent, err := svc.Broadcast(context.Background(), moderatorID, "hello all")
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if sent != 3 {
		t.Fatalf("expected 3 successful deliveries, got %d", sent)
	}
	for _, id := range []int64{10, 12, 14} {
		if notes.got[id] != "hello all" {
			t.Fatalf("user %d did not receive the message", id)
		}
	}
}

func TestBroadcastUsesSnapshot(t *testing.T) {
	reg := &registryStub{ids: []int64{1, 2}}
	notes := &notifierStub{}
	var once sync.Once
	notes.onSend = func() {
		once.Do(func() { reg.ids = append(reg.ids, 3) })
	}
	svc := NewService(reg, notes, access.NewPolicy(moderatorID), 1, zaptest.NewLogger(t))

	sent, err := svc.Broadcast(context.Background(), moderatorID, "msg")
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if sent != 2 {
		t.Fatalf("expected only snapshot members, got %d", sent)
	}
	if _, ok := notes.got[3]; ok {
		t.Fatal("user added mid-broadcast must not receive it")
	}
}

func TestBroadcastRequiresModerator(t *testing.T) {
	notes := &notifierStub{}
	svc := NewService(&registryStub{ids: []int64{5}}, notes, access.NewPolicy(moderatorID), 2, zaptest.NewLogger(t))

	if _, err := svc.Broadcast(context.Background(), 5, "hi"); !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(notes.got) != 0 {
		t.Fatal("forbidden broadcast must not deliver")
	}
}

func TestBroadcastRejectsEmptyMessage(t *testing.T) {
	svc := NewService(&registryStub{}, &notifierStub{}, access.NewPolicy(moderatorID), 2, zaptest.NewLogger(t))
	if _, err := svc.Broadcast(context.Background(), moderatorID, "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestStats(t *testing.T) {
	svc := NewService(&registryStub{ids: []int64{1, 2, 3}}, &notifierStub{}, access.NewPolicy(moderatorID), 1, zaptest.NewLogger(t))

	total, err := svc.Stats(moderatorID)
	if err != nil || total != 3 {
		t.Fatalf("stats: total=%d err=%v", total, err)
	}
	if _, err := svc.Stats(2); !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-moderator, got %v", err)
	}
}

func TestStatsUnsetModeratorMatchesNobody(t *testing.T) {
	svc := NewService(&registryStub{}, &notifierStub{}, access.NewPolicy(0), 1, zaptest.NewLogger(t))
	if _, err := svc.Stats(0); !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("expected ErrForbidden with unset moderator, got %v", err)
	}
}
