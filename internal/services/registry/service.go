package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/infra/metrics"
)

var ErrCorruptDocument = errors.New("registry document is corrupt")

// Store persists the whole registry as one document.
type Store interface {
	Load(ctx context.Context) ([]int64, error)
	Save(ctx context.Context, userIDs []int64) error
}

// Service is the durable, append-only set of users who ever started the bot.
// Callers never reach the Store directly.
type Service struct {
	store Store

	mu    sync.RWMutex
	users map[int64]struct{}
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		users: make(map[int64]struct{}),
	}
}

// Load replaces the in-memory set with the stored document. A missing document
// yields an empty registry; a corrupt or unreadable one also leaves the
// registry empty and returns the cause so the caller can log it.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[int64]struct{})
	defer func() { metrics.RegistryUsers.Set(float64(len(s.users))) }()

	if s.store == nil {
		return nil
	}

	ids, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	for _, id := range ids {
		s.users[id] = struct{}{}
	}
	return nil
}

func (s *Service) Contains(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[userID]
	return ok
}

// Add inserts userID and saves the full document before returning. added is
// false when the user was already known. A save failure is returned, but the
// user stays registered in memory.
func (s *Service) Add(ctx context.Context, userID int64) (added bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; ok {
		return false, nil
	}
	s.users[userID] = struct{}{}
	metrics.RegistryUsers.Set(float64(len(s.users)))

	if s.store == nil {
		return true, nil
	}

	// Saves run under the lock so documents reach the store in insertion order.
	if err := s.store.Save(ctx, s.sortedLocked()); err != nil {
		metrics.RegistryPersistFailuresTotal.Inc()
		return true, fmt.Errorf("persist registry: %w", err)
	}
	return true, nil
}

// Snapshot returns the members at call time in ascending order.
func (s *Service) Snapshot() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *Service) sortedLocked() []int64 {
	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
