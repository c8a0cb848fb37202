// Package memstore is the default in-memory credential store. Its lifetime is
// the portal session that owns it, which gives the session-scoped,
// non-persistent storage model: nothing survives a process restart and no
// page script can ever read it.
package memstore

import (
	"sync"

	"github.com/orioz-inc/member-portal/credentials"
	"github.com/orioz-inc/member-portal/members"
)

var _ credentials.Store = (*Store)(nil)

type Store struct {
	mu      sync.RWMutex
	bundle  credentials.Bundle
	profile *members.Profile
	saved   bool
}

func New() *Store {
	return &Store{}
}

func (s *Store) Save(bundle credentials.Bundle, profile *members.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bundle = bundle
	s.profile = profile.Clone()
	s.saved = true
	return nil
}

func (s *Store) Load() (credentials.Bundle, *members.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.saved {
		return credentials.Bundle{}, nil, credentials.NotFoundErr
	}
	return s.bundle, s.profile.Clone(), nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bundle = credentials.Bundle{}
	s.profile = nil
	s.saved = false
	return nil
}
