package statestore

import (
	"context"

	"github.com/florianilch/seedrine/internal/state"
)

// Store reads and writes the credential state record to persistent storage.
//
// Load returns an empty record when nothing has been stored yet; missing
// backing data is not an error. Save overwrites the stored record wholesale.
// Both operations must be idempotent and safe to call with partially
// populated records.
type Store interface {
	Load(ctx context.Context) (*state.State, error)
	Save(ctx context.Context, s *state.State) error
}
