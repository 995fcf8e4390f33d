package registry

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
)

type memoryStore struct {
	mu      sync.Mutex
	saved   [][]int64
	loadIDs []int64
	loadErr error
	saveErr error
}

func (m *memoryStore) Load(context.Context) ([]int64, error) {
	return m.loadIDs, m.loadErr
}

func (m *memoryStore) Save(_ context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, append([]int64(nil), ids...))
	return m.saveErr
}

func TestAddIsIdempotentAndPersists(t *testing.T) {
	store := &memoryStore{}
	svc := NewService(store)
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		added, err := svc.Add(ctx, id)
		if err != nil || !added {
			t.Fatalf("add %d: added=%v err=%v", id, added, err)
		}
	}

	added, err := svc.Add(ctx, 1)
	if err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if added {
		t.Fatal("expected repeated add to be a no-op")
	}

	if svc.Count() != 3 {
		t.Fatalf("unexpected count: %d", svc.Count())
	}
	if len(store.saved) != 3 {
		t.Fatalf("expected one save per insertion, got %d", len(store.saved))
	}
	if !reflect.DeepEqual(store.saved[2], []int64{1, 2, 3}) {
		t.Fatalf("expected full document on save, got %v", store.saved[2])
	}
}

func TestAddKeepsMembershipWhenSaveFails(t *testing.T) {
	store := &memoryStore{saveErr: errors.New("disk full")}
	svc := NewService(store)

	added, err := svc.Add(context.Background(), 10)
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if !added || !svc.Contains(10) {
		t.Fatal("user must stay registered in memory after a failed save")
	}
}

func TestLoadToleratesCorruptDocument(t *testing.T) {
	store := &memoryStore{loadErr: ErrCorruptDocument}
	svc := NewService(store)

	err := svc.Load(context.Background())
	if !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("expected ErrCorruptDocument, got %v", err)
	}
	if svc.Count() != 0 {
		t.Fatalf("expected empty registry, got %d", svc.Count())
	}

	if _, err := svc.Add(context.Background(), 5); err != nil {
		t.Fatalf("add after corrupt load: %v", err)
	}
	if svc.Count() != 1 {
		t.Fatalf("unexpected count after add: %d", svc.Count())
	}
}

func TestLoadRestoresMembers(t *testing.T) {
	svc := NewService(&memoryStore{loadIDs: []int64{9, 4}})
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(svc.Snapshot(), []int64{4, 9}) {
		t.Fatalf("unexpected snapshot: %v", svc.Snapshot())
	}
}

func TestSnapshotIsPointInTime(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()
	_, _ = svc.Add(ctx, 1)
	_, _ = svc.Add(ctx, 2)

	snapshot := svc.Snapshot()
	_, _ = svc.Add(ctx, 3)

	if !reflect.DeepEqual(snapshot, []int64{1, 2}) {
		t.Fatalf("snapshot changed after later add: %v", snapshot)
	}
}

func TestDocumentRoundTripAndCorruption(t *testing.T) {
	data, err := EncodeDocument(nil)
	if err != nil {
		t.Fatalf("encode empty: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("unexpected empty document: %s", data)
	}

	if _, err := DecodeDocument([]byte("{not json")); !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("expected ErrCorruptDocument, got %v", err)
	}
}
