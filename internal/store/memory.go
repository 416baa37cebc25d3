package store

import (
	"context"
	"sync"

	"hackorsnooze/internal/domain"
)

// MemoryStore keeps credentials for the life of the process.
type MemoryStore struct {
	mu    sync.Mutex
	creds domain.Credentials
	saves int
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) SaveCredentials(_ context.Context, c domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = c
	s.saves++
	return nil
}

func (s *MemoryStore) LoadCredentials(_ context.Context) (domain.Credentials, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds.Empty() {
		return domain.Credentials{}, false, nil
	}
	return s.creds, true, nil
}

func (s *MemoryStore) ClearCredentials(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = domain.Credentials{}
	return nil
}

// Saves reports how many times credentials were written.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

var _ domain.CredentialStore = (*MemoryStore)(nil)
