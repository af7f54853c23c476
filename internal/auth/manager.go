package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/florianilch/seedrine/internal/authapi"
	"github.com/florianilch/seedrine/internal/state"
	"github.com/florianilch/seedrine/internal/statestore"
)

// deviceTokenTTL is assumed for device-issued access tokens when the service
// omits expires_in.
const deviceTokenTTL = time.Hour

// TokenPair is the result of a successful login.
type TokenPair struct {
	Access  state.Access
	Refresh state.Refresh
}

// LoginOptions are the inputs to Login. Username and Password are fallbacks;
// a cached credential takes precedence. SaveCredential opts in to persisting
// the plaintext login for later unattended renewal.
type LoginOptions struct {
	Username       string
	Password       string
	SaveCredential bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithClock sets the clock used for expiry decisions. Defaults to the real
// clock; tests inject a fake.
func WithClock(clock clockwork.Clock) ManagerOption {
	return func(m *Manager) {
		m.clock = clock
	}
}

// WithLogger sets the logger for cascade diagnostics. Defaults to
// slog.Default.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// Manager owns the credential state record and is its sole mutator. The
// record is loaded from the store once, on first use, and cached for the
// lifetime of the manager; every mutation is written back immediately.
// External mutation of the backing store is not observed once loaded.
//
// All operations serialize on an internal mutex, so at most one mutation is
// in flight at a time even with concurrent callers.
type Manager struct {
	store  statestore.Store
	api    *authapi.Client
	clock  clockwork.Clock
	logger *slog.Logger

	mu     sync.Mutex
	state  *state.State
	loaded bool

	// flight collapses concurrent AccessToken renewal cascades into one.
	flight singleflight.Group
}

// NewManager creates a Manager. No I/O is performed until the first call.
func NewManager(store statestore.Store, api *authapi.Client, opts ...ManagerOption) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("missing state store")
	}
	if api == nil {
		return nil, fmt.Errorf("missing auth API client")
	}

	m := &Manager{
		store: store,
		api:   api,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.clock == nil {
		m.clock = clockwork.NewRealClock()
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m, nil
}

// loadLocked performs the one-time lazy load of the state record.
// Callers must hold m.mu.
func (m *Manager) loadLocked(ctx context.Context) error {
	if m.loaded {
		return nil
	}

	s, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading credential state: %w", err)
	}
	if s == nil {
		s = &state.State{}
	}
	m.state = s
	m.loaded = true
	return nil
}

// saveLocked writes the state record through to the store.
// Callers must hold m.mu.
func (m *Manager) saveLocked(ctx context.Context) error {
	if err := m.store.Save(ctx, m.state); err != nil {
		return fmt.Errorf("persisting credential state: %w", err)
	}
	return nil
}

// Login performs a password-grant exchange. The cached credential is
// consulted first, the options second; ErrMissingCredential when neither
// yields both halves. Refused with ErrTokenStillValid while a cached access
// token is unexpired, so an explicit login cannot invalidate a live session.
// On success the access and refresh tokens are stored and persisted, plus
// the plaintext credential when SaveCredential is set.
func (m *Manager) Login(ctx context.Context, opts LoginOptions) (*TokenPair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.loadLocked(ctx); err != nil {
		return nil, err
	}

	if m.state.Access.Valid(m.clock.Now()) {
		return nil, ErrTokenStillValid
	}

	username, password := opts.Username, opts.Password
	if m.state.Credential.Complete() {
		username = m.state.Credential.Username
		password = m.state.Credential.Password
	}
	if username == "" || password == "" {
		return nil, ErrMissingCredential
	}

	resp, err := m.api.PasswordGrant(ctx, username, password)
	if err != nil {
		return nil, err
	}

	m.state.Access = &state.Access{
		Token:     resp.AccessToken,
		ExpiresAt: m.clock.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}
	if resp.RefreshToken != "" {
		m.state.Refresh = &state.Refresh{Token: resp.RefreshToken}
	}
	if opts.SaveCredential {
		m.state.Credential = &state.Credential{Username: username, Password: password}
	}

	if err := m.saveLocked(ctx); err != nil {
		return nil, err
	}

	pair := &TokenPair{Access: *m.state.Access}
	if m.state.Refresh != nil {
		pair.Refresh = *m.state.Refresh
	}
	return pair, nil
}

// Refresh exchanges the stored refresh token for a new access token. The
// refresh token itself is never altered. ErrNoRefreshToken when none is
// stored.
func (m *Manager) Refresh(ctx context.Context) (*state.Access, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.loadLocked(ctx); err != nil {
		return nil, err
	}

	if m.state.Refresh == nil || m.state.Refresh.Token == "" {
		return nil, ErrNoRefreshToken
	}

	resp, err := m.api.RefreshGrant(ctx, m.state.Refresh.Token)
	if err != nil {
		return nil, err
	}

	m.state.Access = &state.Access{
		Token:     resp.AccessToken,
		ExpiresAt: m.clock.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}

	if err := m.saveLocked(ctx); err != nil {
		return nil, err
	}

	access := *m.state.Access
	return &access, nil
}

// RequestDeviceCode obtains a fresh device/user code pair and stores it as
// pending. Refused with ErrDeviceCodePending while an unexpired pending code
// exists and with ErrDeviceAlreadyRegistered once a pairing has been
// approved; a lapsed pending code is replaced.
func (m *Manager) RequestDeviceCode(ctx context.Context) (*state.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.loadLocked(ctx); err != nil {
		return nil, err
	}

	if m.state.Device.Approved() {
		return nil, ErrDeviceAlreadyRegistered
	}
	if m.state.Device.Pending(m.clock.Now()) {
		return nil, ErrDeviceCodePending
	}

	resp, err := m.api.DeviceCode(ctx)
	if err != nil {
		return nil, err
	}

	expiresAt := m.clock.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	m.state.Device = &state.Device{
		DeviceCode: resp.DeviceCode,
		UserCode:   resp.UserCode,
		ExpiresAt:  &expiresAt,
	}

	if err := m.saveLocked(ctx); err != nil {
		return nil, err
	}

	device := *m.state.Device
	return &device, nil
}

// ExchangeDeviceCode exchanges the stored device code for an access token.
// While the user has not approved the pairing the exchange fails with
// ErrAuthorizationPending and the state is left untouched. The first
// successful exchange marks the pairing approved by clearing its expiry;
// approval never reverts.
func (m *Manager) ExchangeDeviceCode(ctx context.Context) (*state.Access, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.loadLocked(ctx); err != nil {
		return nil, err
	}

	if m.state.Device == nil || m.state.Device.DeviceCode == "" {
		return nil, ErrNoDeviceCode
	}

	resp, err := m.api.DeviceToken(ctx, m.state.Device.DeviceCode)
	if err != nil {
		var remoteErr *authapi.RemoteError
		if errors.As(err, &remoteErr) && remoteErr.AuthorizationPending() {
			return nil, ErrAuthorizationPending
		}
		return nil, err
	}

	ttl := deviceTokenTTL
	if resp.ExpiresIn > 0 {
		ttl = time.Duration(resp.ExpiresIn) * time.Second
	}

	m.state.Device.ExpiresAt = nil
	m.state.Access = &state.Access{
		Token:     resp.AccessToken,
		ExpiresAt: m.clock.Now().Add(ttl),
	}

	if err := m.saveLocked(ctx); err != nil {
		return nil, err
	}

	access := *m.state.Access
	return &access, nil
}

// AccessToken returns a currently-valid access token, renewing through
// whichever mechanism is available. A cached unexpired token is returned
// without any network call; otherwise the renewal strategies run in order
// from cheapest to most expensive, each failure logged and swallowed so the
// next still gets a chance. ErrUnauthenticated when no strategy succeeds.
//
// This is the only method resource clients need; everything else exists for
// explicit auth-flow initiation.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	if err := m.loadLocked(ctx); err != nil {
		m.mu.Unlock()
		return "", err
	}
	if m.state.Access.Valid(m.clock.Now()) {
		token := m.state.Access.Token
		m.mu.Unlock()
		return token, nil
	}
	m.mu.Unlock()

	// Concurrent callers share one cascade run; the context of the first
	// caller drives the shared network calls.
	token, err, _ := m.flight.Do("renew", func() (any, error) {
		return m.renew(ctx)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

// renew runs the renewal cascade.
func (m *Manager) renew(ctx context.Context) (string, error) {
	// A caller queued behind a completed renewal sees the fresh token here.
	m.mu.Lock()
	if m.state.Access.Valid(m.clock.Now()) {
		token := m.state.Access.Token
		m.mu.Unlock()
		return token, nil
	}
	m.mu.Unlock()

	for _, strategy := range m.strategies() {
		m.mu.Lock()
		eligible := strategy.eligible(m.state, m.clock.Now())
		m.mu.Unlock()
		if !eligible {
			continue
		}

		access, err := strategy.attempt(ctx)
		if err != nil {
			m.logger.WarnContext(ctx, "token renewal strategy failed",
				"strategy", strategy.name, "error", err)
			continue
		}

		m.logger.DebugContext(ctx, "token renewed", "strategy", strategy.name)
		return access.Token, nil
	}

	return "", ErrUnauthenticated
}
