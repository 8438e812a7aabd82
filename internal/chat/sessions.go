package chat

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/suPer8Hu/health-chat/internal/ai"
	"github.com/suPer8Hu/health-chat/internal/common"
	"github.com/suPer8Hu/health-chat/internal/observability"
)

const DefaultSessionCapacity = 10000

var newSessionID = common.NewULID

// SessionFactory builds a new conversation session for userID seeded with history.
type SessionFactory func(userID string, seed []ai.Message) *ai.Session

// NewSessionFactory returns a factory whose sessions call provider with the given
// per-call deadline.
func NewSessionFactory(provider ai.Provider, timeout time.Duration) SessionFactory {
	return func(userID string, seed []ai.Message) *ai.Session {
		id, err := newSessionID()
		if err != nil {
			id = uuid.NewString()
			log.Printf("[SessionStore] ulid failed, using uuid user_id=%s session_id=%s err=%v", userID, id, err)
		}
		return ai.StartSession(id, provider, seed, timeout)
	}
}

// SessionStore maps user ids to live sessions. It is bounded: past capacity the
// least recently used session is dropped, and with a non-zero idle TTL sessions
// untouched for that long expire.
type SessionStore struct {
	mu      sync.Mutex
	newFn   SessionFactory
	lru     *expirable.LRU[string, *ai.Session]
	idleTTL time.Duration
	metrics *observability.Metrics
}

func NewSessionStore(newFn SessionFactory, capacity int, idleTTL time.Duration, metrics *observability.Metrics) *SessionStore {
	if capacity <= 0 {
		capacity = DefaultSessionCapacity
	}
	s := &SessionStore{newFn: newFn, idleTTL: idleTTL, metrics: metrics}
	s.lru = expirable.NewLRU[string, *ai.Session](capacity, s.evicted, idleTTL)
	return s
}

// evicted runs inside the cache's lock; it must not call back into the store.
func (s *SessionStore) evicted(userID string, sess *ai.Session) {
	log.Printf("[SessionStore] evicted user_id=%s session_id=%s", userID, sess.ID)
	s.metrics.SessionEvicted()
}

// Get returns the user's session and marks it as recently used.
func (s *SessionStore) Get(userID string) (*ai.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(userID)
}

func (s *SessionStore) getLocked(userID string) (*ai.Session, bool) {
	sess, ok := s.lru.Get(userID)
	if ok && s.idleTTL > 0 {
		// re-adding restarts the idle clock
		s.lru.Add(userID, sess)
	}
	return sess, ok
}

// GetOrCreate returns the existing session for userID, ignoring seed, or atomically
// creates and stores one seeded with it. created reports which happened.
func (s *SessionStore) GetOrCreate(userID string, seed []ai.Message) (sess *ai.Session, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.getLocked(userID); ok {
		return sess, false
	}
	// drop an expired entry the cache has not swept yet
	s.lru.Remove(userID)

	sess = s.newFn(userID, seed)
	s.lru.Add(userID, sess)
	s.metrics.SessionCreated()
	return sess, true
}

func (s *SessionStore) Len() int {
	return s.lru.Len()
}
