package pagination

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry maps browse ids to sessions. A session lives from the list being
// mounted until it is closed or sits idle longer than the ttl.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	fetcher  Fetcher
	ttl      time.Duration
	now      func() time.Time
}

func NewRegistry(f Fetcher, ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		fetcher:  f,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Open creates an empty session under a new id.
func (r *Registry) Open() (string, *Session) {
	id := uuid.NewString()
	s := NewSession(r.fetcher)
	s.touch(r.now())

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return id, s
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if ok {
		s.touch(r.now())
	}
	return s, ok
}

func (r *Registry) Close(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the ttl and returns how many.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.idleSince(now) > r.ttl {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
