package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/florianilch/seedrine/internal/state"
)

// KeyringStore persists the state record as a JSON document in OS-native
// secure credential storage (macOS Keychain, Windows Credential Manager,
// Linux Secret Service).
type KeyringStore struct {
	service string
	user    string
}

// Compile-time check to ensure KeyringStore implements Store
var _ Store = (*KeyringStore)(nil)

// NewKeyringStore creates a KeyringStore using the given service and user
// identifiers.
func NewKeyringStore(service, user string) (*KeyringStore, error) {
	if service == "" {
		return nil, fmt.Errorf("service cannot be empty")
	}
	if user == "" {
		return nil, fmt.Errorf("user cannot be empty")
	}

	return &KeyringStore{
		service: service,
		user:    user,
	}, nil
}

// Load reads and decodes the record from the system keyring. A missing entry
// yields an empty record, not an error.
func (k *KeyringStore) Load(ctx context.Context) (*state.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := keyring.Get(k.service, k.user)
	if errors.Is(err, keyring.ErrNotFound) {
		return &state.State{}, nil
	}
	if err != nil {
		return nil, err
	}

	s := &state.State{}
	if doc == "" {
		return s, nil
	}
	if err := json.Unmarshal([]byte(doc), s); err != nil {
		return nil, fmt.Errorf("decoding keyring state for service %s, user %s: %w", k.service, k.user, err)
	}
	return s, nil
}

// Save overwrites the keyring entry with the encoded record.
func (k *KeyringStore) Save(ctx context.Context, s *state.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s == nil {
		s = &state.State{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	return keyring.Set(k.service, k.user, string(data))
}
