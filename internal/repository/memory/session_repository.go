package memory

import (
	"time"

	"report-assistant-be/pkg/rag/session"

	"github.com/patrickmn/go-cache"
)

// NoExpiration keeps sessions until they are deleted.
const NoExpiration = cache.NoExpiration

// SessionRepository keeps live sessions in process memory only. Every read
// slides the expiry, so an active conversation is never evicted.
type SessionRepository struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewSessionRepository evicts idle sessions after ttl. A zero ttl means one
// hour; a negative ttl (NoExpiration) disables eviction.
func NewSessionRepository(ttl, cleanupInterval time.Duration) *SessionRepository {
	switch {
	case ttl == 0:
		ttl = time.Hour
	case ttl < 0:
		ttl = NoExpiration
	}
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}
	return &SessionRepository{
		cache: cache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

func (r *SessionRepository) Save(s *session.Session) {
	r.cache.Set(s.ID(), s, r.ttl)
}

func (r *SessionRepository) Get(sessionID string) (*session.Session, bool) {
	x, found := r.cache.Get(sessionID)
	if !found {
		return nil, false
	}
	s := x.(*session.Session)
	r.cache.Set(sessionID, s, r.ttl)
	return s, true
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
