package redis

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/model"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/services/registry"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *RegistryRepo, *PendingRepo) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := NewClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewRegistryRepo(client, "test:registry"), NewPendingRepo(client)
}

func TestRegistryRepoRoundTrip(t *testing.T) {
	_, repo, _ := newTestClient(t)
	ctx := context.Background()

	ids, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load missing key: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty registry, got %v", ids)
	}

	if err := repo.Save(ctx, []int64{3, 7}); err != nil {
		t.Fatalf("save: %v", err)
	}
	ids, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(ids, []int64{3, 7}) {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestRegistryRepoCorruptDocument(t *testing.T) {
	mr, repo, _ := newTestClient(t)
	if err := mr.Set("test:registry", "not-json"); err != nil {
		t.Fatalf("seed corrupt value: %v", err)
	}

	if _, err := repo.Load(context.Background()); !errors.Is(err, registry.ErrCorruptDocument) {
		t.Fatalf("expected ErrCorruptDocument, got %v", err)
	}
}

func TestPendingRepoTakeIsOneShot(t *testing.T) {
	_, _, repo := newTestClient(t)
	ctx := context.Background()

	report := model.PendingReport{
		ID:         uuid.New(),
		ReporterID: 55,
		Draft: model.Draft{
			ScammerIdentity: "@bad",
			Description:     "took money",
			Amount:          "100",
			ProofLink:       "https://x",
		},
		SubmittedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := repo.Put(ctx, report); err != nil {
		t.Fatalf("put: %v", err)
	}

	report.Draft.Amount = "200"
	if err := repo.Put(ctx, report); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, ok, err := repo.Take(ctx, 55)
	if err != nil || !ok {
		t.Fatalf("take: ok=%v err=%v", ok, err)
	}
	if got.Draft.Amount != "200" || got.ID != report.ID {
		t.Fatalf("expected last submission, got %+v", got)
	}

	if _, ok, err := repo.Take(ctx, 55); err != nil || ok {
		t.Fatalf("expected second take to miss, ok=%v err=%v", ok, err)
	}
}
