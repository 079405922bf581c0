package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/chirp-server/internal/model"
)

// SessionRepository keeps sessions keyed by token.
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]model.Session
	now      func() time.Time
}

// NewSessionRepository creates an empty repository.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]model.Session),
		now:      time.Now,
	}
}

var _ model.SessionStore = (*SessionRepository)(nil)

func (r *SessionRepository) Create(_ context.Context, session model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[session.Token]; ok {
		return model.ErrConflict
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	r.sessions[session.Token] = session
	return nil
}

func (r *SessionRepository) GetByToken(_ context.Context, token string) (model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.live(token)
	if !ok {
		return model.Session{}, model.ErrNotFound
	}
	return session, nil
}

func (r *SessionRepository) DeleteByToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, token)
	return nil
}

func (r *SessionRepository) Rotate(_ context.Context, oldToken string, next model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.live(oldToken); !ok {
		return model.ErrNotFound
	}
	if _, ok := r.sessions[next.Token]; ok {
		return model.ErrConflict
	}
	if next.ID == uuid.Nil {
		next.ID = uuid.New()
	}

	delete(r.sessions, oldToken)
	r.sessions[next.Token] = next
	return nil
}

func (r *SessionRepository) DeleteByAccount(_ context.Context, accountID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for token, session := range r.sessions {
		if session.AccountID == accountID {
			delete(r.sessions, token)
		}
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for token, session := range r.sessions {
		if !session.ExpiresAt.After(now) {
			delete(r.sessions, token)
			n++
		}
	}
	return n, nil
}

// live must be called with mu held.
// Len returns the number of stored sessions, expired ones included.
func (r *SessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

func (r *SessionRepository) live(token string) (model.Session, bool) {
	session, ok := r.sessions[token]
	if !ok || !session.ExpiresAt.After(r.now()) {
		return model.Session{}, false
	}
	return session, true
}
