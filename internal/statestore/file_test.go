package statestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florianilch/seedrine/internal/state"
	"github.com/florianilch/seedrine/internal/statestore"
)

func fullState() *state.State {
	expiry := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	return &state.State{
		Access:     &state.Access{Token: "at", ExpiresAt: expiry},
		Refresh:    &state.Refresh{Token: "rt"},
		Device:     &state.Device{DeviceCode: "dc", UserCode: "uc", ExpiresAt: &expiry},
		Credential: &state.Credential{Username: "u", Password: "p"},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	store, err := statestore.NewFileStore(path)
	require.NoError(t, err)

	want := fullState()
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	store, err := statestore.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &state.State{}, got)
}

func TestFileStoreSaveOverwritesWholesale(t *testing.T) {
	ctx := context.Background()
	store, err := statestore.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, fullState()))

	// A partially populated record replaces the full one entirely.
	partial := &state.State{Refresh: &state.Refresh{Token: "rt2"}}
	require.NoError(t, store.Save(ctx, partial))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, partial, got)
}

func TestFileStoreCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "state.json")

	store, err := statestore.NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), fullState()))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStoreRejectsInsecurePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	store, err := statestore.NewFileStore(path)
	require.NoError(t, err)

	_, err = store.Load(context.Background())
	assert.ErrorContains(t, err, "insecure permissions")
}

func TestFileStoreRejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	store, err := statestore.NewFileStore(path)
	require.NoError(t, err)

	_, err = store.Load(context.Background())
	assert.ErrorContains(t, err, "decoding state file")
}

func TestFileStoreEmptyPath(t *testing.T) {
	_, err := statestore.NewFileStore("")
	assert.Error(t, err)
}

func TestMemStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := statestore.NewMemStore()

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, &state.State{}, got)

	want := fullState()
	require.NoError(t, store.Save(ctx, want))

	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// The store must hold its own copy, not alias the caller's record.
	want.Access.Token = "mutated"
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "at", got.Access.Token)
}

func TestStoreContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store, err := statestore.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Save(ctx, fullState()), context.Canceled)
}
