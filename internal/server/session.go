package server

import (
	"context"
	"encoding/gob"
	"net/http"
	"sync"

	"github.com/goliatone/go-regform/pkg/registration"
)

const (
	sessionKey = "registration"
	localeKey  = "locale"
)

func init() {
	// scs encodes session data with gob.
	gob.Register(registration.Snapshot{})
}

func (s *Server) loadSession(ctx context.Context) *registration.Session {
	snap, ok := s.sessions.Get(ctx, sessionKey).(registration.Snapshot)
	if !ok {
		return registration.NewSession()
	}
	return registration.Restore(snap)
}

func (s *Server) saveSession(ctx context.Context, session *registration.Session) {
	s.sessions.Put(ctx, sessionKey, session.Snapshot())
}

// sessionLocks serialises requests that carry the same session cookie, so a
// load, mutate and commit cycle never interleaves with another one for the
// same visitor. Entries are dropped when their last holder unlocks.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

func (l *sessionLocks) lock(token string) (unlock func()) {
	if token == "" {
		return func() {}
	}

	l.mu.Lock()
	entry := l.locks[token]
	if entry == nil {
		entry = &sessionLock{}
		l.locks[token] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, token)
		}
		l.mu.Unlock()
	}
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// serializeSessions must run outside LoadAndSave: scs reads the session before
// the handler and commits it after, and both steps need to be covered.
func (s *Server) serializeSessions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if cookie, err := r.Cookie(s.sessions.Cookie.Name); err == nil {
			token = cookie.Value
		}
		unlock := s.locks.lock(token)
		defer unlock()
		next.ServeHTTP(w, r)
	})
}
