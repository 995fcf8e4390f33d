package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/enums"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/model"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/ui"
)

type registryStub struct {
	mu    sync.Mutex
	users map[int64]struct{}
	err   error
}

func (r *registryStub) Add(_ context.Context, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.users == nil {
		r.users = make(map[int64]struct{})
	}
	_, exists := r.users[userID]
	r.users[userID] = struct{}{}
	return !exists, r.err
}

type submitterStub struct {
	mu      sync.Mutex
	reports []model.PendingReport
	err     error
}

func (s *submitterStub) Submit(_ context.Context, report model.PendingReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return s.err
}

type notifierStub struct {
	mu   sync.Mutex
	sent []model.OutboundMessage
}

func (n *notifierStub) Deliver(_ context.Context, _ string, msg model.OutboundMessage) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return true
}

func (n *notifierStub) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return ""
	}
	return n.sent[len(n.sent)-1].Text
}

func newTestService(t *testing.T) (*Service, *registryStub, *submitterStub, *notifierStub) {
	t.Helper()
	reg := &registryStub{}
	sub := &submitterStub{}
	notes := &notifierStub{}
	return NewService(NewSessions(), reg, sub, notes, zaptest.NewLogger(t)), reg, sub, notes
}

func TestHappyPathSubmitsDraft(t *testing.T) {
	svc, reg, sub, notes := newTestService(t)
	ctx := context.Background()

	svc.Start(ctx, 100)
	if _, ok := reg.users[100]; !ok {
		t.Fatal("expected start to register the user")
	}
	if notes.last() != ui.StartPrompt {
		t.Fatalf("unexpected start prompt: %q", notes.last())
	}

	steps := []struct {
		text   string
		prompt string
		step   enums.Step
	}{
		{"@bad", ui.DescriptionPrompt, enums.StepAwaitingDescription},
		{"took 50 USDT", ui.AmountPrompt, enums.StepAwaitingAmount},
		{"50", ui.ProofLinkPrompt, enums.StepAwaitingProofLink},
	}
	for _, step := range steps {
		svc.HandleText(ctx, 100, step.text)
		if notes.last() != step.prompt {
			t.Fatalf("after %q expected prompt %q, got %q", step.text, step.prompt, notes.last())
		}
		state, ok := svc.State(100)
		if !ok || state.Step != step.step {
			t.Fatalf("after %q expected step %s, got %+v", step.text, step.step, state)
		}
	}

	svc.HandleText(ctx, 100, "https://t.me/c/1/2")

	if _, ok := svc.State(100); ok {
		t.Fatal("expected conversation to end after a valid proof link")
	}
	if len(sub.reports) != 1 {
		t.Fatalf("expected one submission, got %d", len(sub.reports))
	}
	got := sub.reports[0]
	want := model.Draft{
		ScammerIdentity: "@bad",
		Description:     "took 50 USDT",
		Amount:          "50",
		ProofLink:       "https://t.me/c/1/2",
	}
	if got.Draft != want || got.ReporterID != 100 {
		t.Fatalf("unexpected report: %+v", got)
	}
	if got.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatal("expected report id to be assigned")
	}
}

func TestInvalidProofLinkKeepsStep(t *testing.T) {
	svc, _, sub, notes := newTestService(t)
	ctx := context.Background()

	svc.Start(ctx, 7)
	for _, text := range []string{"@x", "desc", "10"} {
		svc.HandleText(ctx, 7, text)
	}

	for i := 0; i < 3; i++ {
		svc.HandleText(ctx, 7, "www.example.com")
		if notes.last() != ui.InvalidProofLink {
			t.Fatalf("expected invalid link error, got %q", notes.last())
		}
		state, ok := svc.State(7)
		if !ok || state.Step != enums.StepAwaitingProofLink {
			t.Fatalf("expected to stay on proof step, got %+v", state)
		}
	}

	svc.HandleText(ctx, 7, "t.me/proof")
	if len(sub.reports) != 1 {
		t.Fatalf("expected submission after valid link, got %d", len(sub.reports))
	}
}

func TestTextWithoutConversationIsIgnored(t *testing.T) {
	svc, _, sub, notes := newTestService(t)

	svc.HandleText(context.Background(), 5, "hello")

	if len(notes.sent) != 0 || len(sub.reports) != 0 {
		t.Fatal("expected no effects for a user without a conversation")
	}
	if _, ok := svc.State(5); ok {
		t.Fatal("ignored text must not create a conversation")
	}
}

func TestRestartDiscardsDraft(t *testing.T) {
	svc, reg, _, _ := newTestService(t)
	ctx := context.Background()

	svc.Start(ctx, 9)
	svc.HandleText(ctx, 9, "@first")
	svc.HandleText(ctx, 9, "desc")
	svc.Start(ctx, 9)

	state, ok := svc.State(9)
	if !ok || state.Step != enums.StepAwaitingUsername {
		t.Fatalf("expected reset to first step, got %+v", state)
	}
	if state.Draft != (model.Draft{}) {
		t.Fatalf("expected empty draft after restart, got %+v", state.Draft)
	}
	if len(reg.users) != 1 {
		t.Fatalf("expected one registered user, got %d", len(reg.users))
	}
}

func TestStartKeepsGoingWhenRegistryFails(t *testing.T) {
	svc, reg, _, notes := newTestService(t)
	reg.err = errors.New("disk full")

	svc.Start(context.Background(), 11)

	if _, ok := svc.State(11); !ok {
		t.Fatal("expected conversation to start despite persistence failure")
	}
	if notes.last() != ui.StartPrompt {
		t.Fatalf("unexpected prompt: %q", notes.last())
	}
}

func TestSubmitFailureTellsReporter(t *testing.T) {
	svc, _, sub, notes := newTestService(t)
	sub.err = errors.New("store down")
	ctx := context.Background()

	svc.Start(ctx, 3)
	for _, text := range []string{"@x", "d", "1", "http://proof"} {
		svc.HandleText(ctx, 3, text)
	}

	if notes.last() != ui.SubmitFailed {
		t.Fatalf("expected submit failure notice, got %q", notes.last())
	}
}

func TestCancel(t *testing.T) {
	svc, _, _, notes := newTestService(t)
	ctx := context.Background()

	if svc.Cancel(ctx, 1) {
		t.Fatal("cancel without a conversation must report false")
	}

	svc.Start(ctx, 1)
	if !svc.Cancel(ctx, 1) {
		t.Fatal("expected cancel to drop the conversation")
	}
	if _, ok := svc.State(1); ok {
		t.Fatal("expected no conversation after cancel")
	}
	if notes.last() != ui.CancelledNotice {
		t.Fatalf("unexpected cancel reply: %q", notes.last())
	}
}

func TestConcurrentUsersDoNotInterfere(t *testing.T) {
	svc, _, sub, _ := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for id := int64(1); id <= 64; id++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			svc.Start(ctx, id)
			for _, text := range []string{"@x", "d", "1", "https://p"} {
				svc.HandleText(ctx, id, text)
			}
		}(id)
	}
	wg.Wait()

	if len(sub.reports) != 64 {
		t.Fatalf("expected 64 submissions, got %d", len(sub.reports))
	}
	seen := make(map[int64]bool)
	for _, r := range sub.reports {
		if seen[r.ReporterID] {
			t.Fatalf("duplicate submission for %d", r.ReporterID)
		}
		seen[r.ReporterID] = true
	}
}

func TestIsProofLink(t *testing.T) {
	cases := map[string]bool{
		"https://example.com": true,
		"http://x":            true,
		"t.me/channel/1":      true,
		"httpfoo":             true,
		"www.example.com":     false,
		" https://x":          false,
		"":                    false,
	}
	for input, want := range cases {
		if got := IsProofLink(input); got != want {
			t.Fatalf("IsProofLink(%q) = %v, want %v", input, got, want)
		}
	}
}
