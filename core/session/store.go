package session

import (
	"sync"

	"github.com/trezcool/masomo-admin/core/effects"
)

// State is the client-side auth state.
type State struct {
	Session
	Profile Profile
	Loading bool
}

// Store reduces session actions into State. Reduce is meant to be subscribed to an effects.Pipeline.
type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return new(Store)
}

func (s *Store) Reduce(act effects.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch act.Type {
	case TypeLoginRequest, TypeRegisterRequest:
		s.state.Loading = true
	case TypeLoginSuccess:
		resp, _ := act.Payload.(TokenResponse)
		s.state = State{
			Session: Session{Token: resp.Token, Authenticated: true},
			Profile: resp.User,
		}
	case TypeLoginFailure, TypeLogout:
		s.state = State{}
	case TypeRegisterUpdatedSuccess:
		acc, _ := act.Payload.(Account)
		s.state.Profile.Name = acc.Name
		s.state.Profile.Email = acc.Email
		s.state.Loading = false
	case TypeRegisterCreatedSuccess, TypeRegisterFailure:
		s.state.Loading = false
	case TypePersistRehydrate:
		p, _ := act.Payload.(Persisted)
		if token := p.Token(); token != "" {
			s.state.Token = token
			s.state.Authenticated = true
		}
		s.state.Loading = false
	}
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Persisted returns the part of the state that survives restarts.
func (s *Store) Persisted() Persisted {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Token == "" {
		return Persisted{}
	}
	return Persisted{Auth: &PersistedAuth{Token: s.state.Token}}
}
