package statestore

import (
	"context"
	"sync"

	"github.com/florianilch/seedrine/internal/state"
)

// MemStore keeps the state record in memory only. Nothing survives the
// process; suitable for tests and sessions where persistence is unwanted.
type MemStore struct {
	mu sync.Mutex
	s  *state.State
}

// Compile-time check to ensure MemStore implements Store
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Load returns a copy of the held record, or an empty record if Save was
// never called.
func (m *MemStore) Load(ctx context.Context) (*state.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.s == nil {
		return &state.State{}, nil
	}
	return m.s.Clone(), nil
}

// Save replaces the held record with a copy of s.
func (m *MemStore) Save(ctx context.Context, s *state.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.s = s.Clone()
	return nil
}
