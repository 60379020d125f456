package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/eugene-roi/internal/roi"
	"github.com/iwvelando/eugene-roi/pkg/constants"
)

type sessionEntry struct {
	results  roi.Results
	lastSeen time.Time
}

// sessionStore keeps each browser session's last results in memory. Entries
// are replaced wholesale and dropped once idle for longer than ttl.
type sessionStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*sessionEntry
}

func newSessionStore(ttl time.Duration) *sessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL()
	}
	return &sessionStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*sessionEntry),
	}
}

func (s *sessionStore) get(id string) (roi.Results, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[id]
	if !ok {
		return roi.Results{}, false
	}
	if now.Sub(entry.lastSeen) > s.ttl {
		delete(s.entries, id)
		return roi.Results{}, false
	}
	entry.lastSeen = now
	return entry.results, true
}

func (s *sessionStore) put(id string, res roi.Results) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	s.entries[id] = &sessionEntry{results: res, lastSeen: now}
}

func (s *sessionStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *sessionStore) sweepLocked(now time.Time) {
	for id, entry := range s.entries {
		if now.Sub(entry.lastSeen) > s.ttl {
			delete(s.entries, id)
		}
	}
}

// sessionID returns the request's session id, issuing a cookie for new or
// malformed ids.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(constants.SessionCookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
