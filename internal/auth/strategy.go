package auth

import (
	"context"
	"time"

	"github.com/florianilch/seedrine/internal/state"
)

// renewalStrategy is one mechanism for obtaining a fresh access token. The
// cascade walks the strategies in order, skipping ineligible ones and
// swallowing attempt failures.
type renewalStrategy struct {
	name     string
	eligible func(s *state.State, now time.Time) bool
	attempt  func(ctx context.Context) (*state.Access, error)
}

// strategies returns the renewal cascade, ordered cheapest/freshest first.
//
// A pending unapproved pairing is deliberately still attempted: the exchange
// round trip is the only way to observe that the user has approved it in the
// meantime.
func (m *Manager) strategies() []renewalStrategy {
	return []renewalStrategy{
		{
			name: "device_exchange",
			eligible: func(s *state.State, now time.Time) bool {
				return s.Device.Usable(now)
			},
			attempt: m.ExchangeDeviceCode,
		},
		{
			name: "oauth_refresh",
			eligible: func(s *state.State, now time.Time) bool {
				return s.Refresh != nil && s.Refresh.Token != ""
			},
			attempt: m.Refresh,
		},
		{
			name: "oauth_login",
			eligible: func(s *state.State, now time.Time) bool {
				return s.Credential.Complete()
			},
			attempt: func(ctx context.Context) (*state.Access, error) {
				pair, err := m.Login(ctx, LoginOptions{})
				if err != nil {
					return nil, err
				}
				return &pair.Access, nil
			},
		},
	}
}
