package conversation

import (
	"sync"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/enums"
	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/domain/model"
)

const sessionShards = 32

// Session is the step a user is on plus the draft collected so far.
// A user without a Session has no conversation.
type Session struct {
	Step  enums.Step
	Draft model.Draft
}

type sessionShard struct {
	mu       sync.Mutex
	sessions map[int64]Session
}

// Sessions guards per-user conversation state. Each user maps to one shard,
// so a transition for one user never blocks on a different shard.
type Sessions struct {
	shards [sessionShards]sessionShard
}

func NewSessions() *Sessions {
	s := &Sessions{}
	for i := range s.shards {
		s.shards[i].sessions = make(map[int64]Session)
	}
	return s
}

// Update runs fn while holding the user's shard lock. fn gets the current
// session (ok=false when none) and returns the next one; keep=false removes it.
func (s *Sessions) Update(userID int64, fn func(cur Session, ok bool) (next Session, keep bool)) {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	cur, ok := sh.sessions[userID]
	next, keep := fn(cur, ok)
	if keep {
		sh.sessions[userID] = next
		return
	}
	delete(sh.sessions, userID)
}

func (s *Sessions) Get(userID int64) (Session, bool) {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	cur, ok := sh.sessions[userID]
	return cur, ok
}

func (s *Sessions) Delete(userID int64) bool {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	_, ok := sh.sessions[userID]
	delete(sh.sessions, userID)
	return ok
}

func (s *Sessions) shard(userID int64) *sessionShard {
	idx := uint64(userID) % sessionShards
	return &s.shards[idx]
}
