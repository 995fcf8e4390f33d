package moderation

import (
	"context"
	"sync"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/model"
)

// PendingStore holds at most one report per reporter.
type PendingStore interface {
	Put(ctx context.Context, report model.PendingReport) error
	// Take removes and returns the report. ok is false when there was none.
	Take(ctx context.Context, reporterID int64) (report model.PendingReport, ok bool, err error)
}

// MemoryStore keeps pending reports in process memory; they are lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	reports map[int64]model.PendingReport
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[int64]model.PendingReport)}
}

func (s *MemoryStore) Put(_ context.Context, report model.PendingReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.ReporterID] = report
	return nil
}

func (s *MemoryStore) Take(_ context.Context, reporterID int64) (model.PendingReport, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.reports[reporterID]
	delete(s.reports, reporterID)
	return report, ok, nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}
