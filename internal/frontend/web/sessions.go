package web

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vadimtrunov/moviedeck/internal/dashboard"
)

const (
	sessionCookie = "moviedeck_session"

	// Sessions idle longer than this are dropped when a new visitor arrives.
	sessionIdle = 2 * time.Hour
)

type visitor struct {
	session  *dashboard.Session
	lastSeen time.Time
}

// sessionStore keeps one dashboard session per browser, keyed by cookie.
type sessionStore struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	factory  func() *dashboard.Session
	now      func() time.Time
}

func newSessionStore(factory func() *dashboard.Session) *sessionStore {
	return &sessionStore{
		visitors: make(map[string]*visitor),
		factory:  factory,
		now:      time.Now,
	}
}

// get returns the session for id. Unknown or empty ids get a fresh session
// under a new id, which the caller must hand back to the browser.
func (st *sessionStore) get(id string) (string, *dashboard.Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	if v, ok := st.visitors[id]; ok && id != "" {
		v.lastSeen = now
		return id, v.session, false
	}

	st.evict(now)
	id = uuid.NewString()
	v := &visitor{session: st.factory(), lastSeen: now}
	st.visitors[id] = v
	return id, v.session, true
}

func (st *sessionStore) evict(now time.Time) {
	for id, v := range st.visitors {
		if now.Sub(v.lastSeen) > sessionIdle {
			delete(st.visitors, id)
		}
	}
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.visitors)
}

// sessionFor resolves the visitor's session and sets the cookie on first
// contact.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *dashboard.Session {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}

	id, session, created := s.sessions.get(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		s.logger.Debug("new dashboard session", slog.Int("visitors", s.sessions.len()))
	}
	return session
}
