package adminclient

import (
	"context"
	"sync"

	"prep_admin_backend/internal/model"
)

// SessionState is what subscribers see: the signed-in profile, or nil.
type SessionState struct {
	Profile *model.Profile
}

func (s SessionState) SignedIn() bool {
	return s.Profile != nil
}

// Session holds the current user and tells subscribers whenever it changes.
// It is passed to the parts that need it instead of living in a global.
type Session struct {
	client *Client

	mu     sync.Mutex
	state  SessionState
	nextID int
	subs   map[int]func(SessionState)
}

func NewSession(c *Client) *Session {
	return &Session{client: c, subs: make(map[int]func(SessionState))}
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe calls fn with the current state right away and after every
// change. The returned func unsubscribes.
func (s *Session) Subscribe(fn func(SessionState)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	state := s.state
	s.mu.Unlock()

	fn(state)
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) set(state SessionState) {
	s.mu.Lock()
	s.state = state
	subs := make([]func(SessionState), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

func (s *Session) SignIn(ctx context.Context, email, password string) (*model.Profile, error) {
	profile, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.set(SessionState{Profile: profile})
	return profile, nil
}

// Refresh reloads the profile behind the current token; a rejected token
// signs the session out.
func (s *Session) Refresh(ctx context.Context) error {
	profile, err := s.client.Profile(ctx)
	if err != nil {
		s.client.SetToken("")
		s.set(SessionState{})
		return err
	}
	s.set(SessionState{Profile: profile})
	return nil
}

func (s *Session) SignOut(ctx context.Context) error {
	err := s.client.Logout(ctx)
	s.set(SessionState{})
	return err
}
