package service

import (
	"sync"
	"time"

	"github.com/samandr77/microservices/condo/internal/entity"
)

type rolePatch struct {
	role entity.Role
	at   time.Time
}

// Sessions holds role changes made through this gateway for users whose
// tokens still carry the old role. A patch only applies to tokens issued
// before it; a newer token already reflects the backend state.
type Sessions struct {
	mu    sync.RWMutex
	roles map[int64]rolePatch
}

func NewSessions() *Sessions {
	return &Sessions{roles: make(map[int64]rolePatch)}
}

func (s *Sessions) SetRole(userID int64, role entity.Role, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roles[userID] = rolePatch{role: role, at: at}
}

func (s *Sessions) Forget(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.roles, userID)
}

// Apply returns sess with the patched role, if any. Tokens without an iat
// claim are always patched.
func (s *Sessions) Apply(sess entity.Session) entity.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.roles[sess.UserID]
	if !ok {
		return sess
	}

	if !sess.IssuedAt.IsZero() && sess.IssuedAt.After(p.at) {
		return sess
	}

	sess.Role = p.role

	return sess
}
