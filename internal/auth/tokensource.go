package auth

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// tokenSource adapts the manager to oauth2.TokenSource so resource clients
// can attach tokens with oauth2.Transport.
type tokenSource struct {
	ctx context.Context
	m   *Manager
}

// Compile-time check to ensure tokenSource implements oauth2.TokenSource
var _ oauth2.TokenSource = (*tokenSource)(nil)

// TokenSource returns an oauth2.TokenSource backed by the manager's renewal
// cascade. oauth2.TokenSource.Token has no context parameter, so the given
// context is captured for the lifetime of the source.
func (m *Manager) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, m: m}
}

// HTTPClient returns an HTTP client that attaches a currently-valid bearer
// token to every request, renewing transparently. This is the collaborator
// contract for resource API clients.
func (m *Manager) HTTPClient(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, m.TokenSource(ctx))
}

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	token, err := ts.m.AccessToken(ts.ctx)
	if err != nil {
		return nil, err
	}

	tok := &oauth2.Token{AccessToken: token, TokenType: "Bearer"}
	ts.m.mu.Lock()
	if ts.m.state.Access != nil {
		tok.Expiry = ts.m.state.Access.ExpiresAt
	}
	ts.m.mu.Unlock()
	return tok, nil
}
