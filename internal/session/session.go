package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"bizcards/internal/auth"
	"bizcards/internal/cards"
	"bizcards/internal/notify"
	"bizcards/internal/settings"
	"bizcards/internal/users"
	"bizcards/internal/views"
	rredis "bizcards/pkg/redis"
	"bizcards/pkg/rest"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 24 * time.Hour

// Deps are the process-wide collaborators shared by all sessions.
type Deps struct {
	API      *rest.Client
	Redis    *rredis.Client // optional; tokens stay in memory when nil
	Hub      *notify.Hub
	Geocoder views.Locator // optional
	TTL      time.Duration
}

// Session is the server-side state of one browser: its token, settings and
// mounted list views.
type Session struct {
	ID  string
	Env views.Env

	mu       sync.Mutex
	lists    map[views.Kind]*views.ListView
	lastSeen time.Time
}

// Mount mounts a fresh list view of kind, unmounting the previous one.
func (s *Session) Mount(ctx context.Context, kind views.Kind) *views.ListView {
	v := views.MountList(ctx, kind, s.Env)
	s.mu.Lock()
	old := s.lists[kind]
	s.lists[kind] = v
	s.mu.Unlock()
	if old != nil {
		old.Unmount()
	}
	return v
}

// List returns the mounted view of kind, mounting one if there is none.
func (s *Session) List(ctx context.Context, kind views.Kind) *views.ListView {
	s.mu.Lock()
	v := s.lists[kind]
	s.mu.Unlock()
	if v != nil {
		return v
	}
	return s.Mount(ctx, kind)
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range s.lists {
		v.Unmount()
		delete(s.lists, k)
	}
}

// Manager is the registry of live sessions.
type Manager struct {
	deps Deps
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(deps Deps) *Manager {
	if deps.TTL <= 0 {
		deps.TTL = DefaultTTL
	}
	return &Manager{deps: deps, now: time.Now, sessions: make(map[string]*Session)}
}

// Create starts a new anonymous session.
func (m *Manager) Create() *Session {
	id := uuid.NewString()

	var tokens auth.TokenStore = auth.NewMemoryTokens()
	if m.deps.Redis != nil {
		tokens = auth.NewRedisTokens(m.deps.Redis, id, m.deps.TTL)
	}
	var notifier notify.Notifier
	if m.deps.Hub != nil {
		notifier = m.deps.Hub.For(id)
	}

	s := &Session{
		ID: id,
		Env: views.Env{
			Cards:    cards.NewHTTPRepository(m.deps.API, tokens),
			Users:    users.NewHTTPRepository(m.deps.API, tokens),
			Tokens:   tokens,
			Settings: settings.New(),
			Notifier: notifier,
			Geocoder: m.deps.Geocoder,
		},
		lists:    make(map[views.Kind]*views.ListView),
		lastSeen: m.now(),
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	log.Printf("[session] created %s", id)
	return s
}

// toucher is a token store whose entries expire on their own.
type toucher interface {
	Touch(ctx context.Context) error
}

// Get returns a live session and marks it as seen, extending the life of
// its stored token. Expired sessions are removed and reported as missing.
func (m *Manager) Get(ctx context.Context, id string) (*Session, bool) {
	now := m.now()
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok && now.Sub(s.lastSeen) > m.deps.TTL {
		delete(m.sessions, id)
		m.mu.Unlock()
		m.release(s)
		return nil, false
	}
	if ok {
		s.lastSeen = now
	}
	m.mu.Unlock()

	if ok {
		if t, can := s.Env.Tokens.(toucher); can {
			if err := t.Touch(ctx); err != nil {
				log.Printf("[session] touch %s: %v", id, err)
			}
		}
	}
	return s, ok
}

// Exists reports whether id names a live session without touching it.
func (m *Manager) Exists(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return ok && m.now().Sub(s.lastSeen) <= m.deps.TTL
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the TTL.
func (m *Manager) Sweep() int {
	now := m.now()
	var expired []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.deps.TTL {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		m.release(s)
	}
	if len(expired) > 0 {
		log.Printf("[session] swept %d idle sessions", len(expired))
	}
	return len(expired)
}

// Start sweeps every interval until ctx is cancelled.
func (m *Manager) Start(ctx context.Context, interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				m.Sweep()
			}
		}
	}()
}

func (m *Manager) release(s *Session) {
	s.close()
	if _, stored := s.Env.Tokens.(toucher); stored {
		if err := s.Env.Tokens.ClearToken(context.Background()); err != nil {
			log.Printf("[session] clear token %s: %v", s.ID, err)
		}
	}
	if m.deps.Hub != nil {
		m.deps.Hub.Forget(s.ID)
	}
}
