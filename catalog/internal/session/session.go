package session

import (
	"context"
	"net/http"
	"sync"

	"github.com/pkg/errors"
)

type User struct {
	Email   string
	IsAdmin bool
}

// State is the persisted part of a session.
type State struct {
	Token   string
	User    User
	Cookies map[string]string
}

func (s State) Empty() bool {
	return s.Token == "" && s.User.Email == "" && len(s.Cookies) == 0
}

func (s State) clone() State {
	out := s
	out.Cookies = make(map[string]string, len(s.Cookies))
	for k, v := range s.Cookies {
		out.Cookies[k] = v
	}
	return out
}

type Store interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, st State) error
	Clear(ctx context.Context) error
	Close() error
}

// Session is the client's view of who is logged in. It is rehydrated once
// from a Store and passed explicitly to everything that needs credentials.
// A remembered session is written back to the store on Flush; otherwise it
// lives only as long as the process.
type Session struct {
	mu       sync.RWMutex
	state    State
	remember bool
	store    Store
}

func Open(ctx context.Context, store Store) (*Session, error) {
	st, err := store.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load session")
	}
	return &Session{
		state:    st.clone(),
		remember: !st.Empty(),
		store:    store,
	}, nil
}

// New returns an empty in-memory session.
func New() *Session {
	return &Session{
		state: State{Cookies: map[string]string{}},
		store: NewMemoryStore(),
	}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// User returns the logged in user; ok is false when nobody is.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User, s.state.User.Email != ""
}

func (s *Session) Cookie(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Cookies[name]
}

func (s *Session) Cookies() []*http.Cookie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cookies := make([]*http.Cookie, 0, len(s.state.Cookies))
	for name, value := range s.state.Cookies {
		cookies = append(cookies, &http.Cookie{Name: name, Value: value, Path: "/"})
	}
	return cookies
}

// SetCookies mirrors the named cookies into the session.
func (s *Session) SetCookies(cookies []*http.Cookie, names ...string) {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range cookies {
		if len(keep) > 0 && !keep[c.Name] {
			continue
		}
		s.state.Cookies[c.Name] = c.Value
	}
}

func (s *Session) Login(token string, user User, remember bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = token
	s.state.User = user
	s.remember = remember
}

// Clear forgets the token, the user and all cookies.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{Cookies: map[string]string{}}
	s.remember = false
}

func (s *Session) Remember() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remember
}

// Flush writes a remembered session to the store and wipes the store otherwise.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.RLock()
	st, remember := s.state.clone(), s.remember
	s.mu.RUnlock()

	if remember && !st.Empty() {
		return s.store.Save(ctx, st)
	}
	return s.store.Clear(ctx)
}

func (s *Session) Close() error {
	return s.store.Close()
}

type memoryStore struct {
	mu    sync.Mutex
	state State
}

func NewMemoryStore() Store {
	return &memoryStore{}
}

func (m *memoryStore) Load(context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone(), nil
}

func (m *memoryStore) Save(_ context.Context, st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = st.clone()
	return nil
}

func (m *memoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{}
	return nil
}

func (m *memoryStore) Close() error { return nil }
