package lookup

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Domenick1991/skytrack/internal/domain"
)

const DefaultIdleTTL = 30 * time.Minute

// UseCase is the lookup surface used by the HTTP layer, keyed by session.
type UseCase interface {
	Search(sessionID, input string) (domain.View, error)
	BackToSearch(sessionID string) domain.View
	View(sessionID string) domain.View
}

type SessionsOption func(*Sessions)

// WithIdleTTL sets how long an untouched session keeps its controller.
func WithIdleTTL(ttl time.Duration) SessionsOption {
	return func(s *Sessions) {
		if ttl > 0 {
			s.idleTTL = ttl
		}
	}
}

func WithSessionClock(now func() time.Time) SessionsOption {
	return func(s *Sessions) {
		s.now = now
	}
}

type session struct {
	controller *Controller
	lastSeen   time.Time
}

// Sessions keeps one Controller per browser session that has searched.
// Sessions that only read get the initial view and are not stored.
type Sessions struct {
	resolver Resolver
	log      *zap.Logger
	idleTTL  time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessions(resolver Resolver, log *zap.Logger, opts ...SessionsOption) *Sessions {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Sessions{
		resolver: resolver,
		log:      log,
		idleTTL:  DefaultIdleTTL,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Controller returns the session's controller, creating it on first use.
func (s *Sessions) Controller(sessionID string) *Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		entry = &session{controller: NewController(s.resolver, s.log.With(zap.String("session", sessionID)))}
		s.sessions[sessionID] = entry
	}
	entry.lastSeen = s.now()
	return entry.controller
}

func (s *Sessions) existing(sessionID string) (*Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	entry.lastSeen = s.now()
	return entry.controller, true
}

func (s *Sessions) Search(sessionID, input string) (domain.View, error) {
	if _, err := domain.ValidateReference(input); err != nil {
		return s.View(sessionID), err
	}
	c := s.Controller(sessionID)
	if _, err := c.Search(input); err != nil {
		return c.View(), err
	}
	return c.View(), nil
}

func (s *Sessions) BackToSearch(sessionID string) domain.View {
	c, ok := s.existing(sessionID)
	if !ok {
		return domain.View{State: domain.ViewSearch}
	}
	c.BackToSearch()
	return c.View()
}

func (s *Sessions) View(sessionID string) domain.View {
	c, ok := s.existing(sessionID)
	if !ok {
		return domain.View{State: domain.ViewSearch}
	}
	return c.View()
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Evict drops sessions idle for longer than the TTL and cancels their
// pending lookups. It returns how many were dropped.
func (s *Sessions) Evict(now time.Time) int {
	s.mu.Lock()
	var stale []*Controller
	for id, entry := range s.sessions {
		if now.Sub(entry.lastSeen) > s.idleTTL {
			stale = append(stale, entry.controller)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, c := range stale {
		c.Close()
	}
	if len(stale) > 0 {
		s.log.Debug("evicted idle sessions", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// Janitor evicts idle sessions every interval until ctx is done.
func (s *Sessions) Janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Evict(s.now())
		}
	}
}

// Close cancels every pending lookup.
func (s *Sessions) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.sessions {
		entry.controller.Close()
	}
}

var _ UseCase = (*Sessions)(nil)
