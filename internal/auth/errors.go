package auth

import "errors"

// Errors reported by the credential lifecycle manager. Each renewal method
// raises its specific error to a direct caller; when the methods run inside
// the AccessToken cascade their failures are logged and swallowed so a later
// strategy still gets a chance.
var (
	// ErrMissingCredential indicates neither the cached credential nor the
	// call arguments yielded both a username and a password.
	ErrMissingCredential = errors.New("no username/password available")

	// ErrTokenStillValid indicates an explicit login was refused because the
	// cached access token has not expired yet.
	ErrTokenStillValid = errors.New("access token still valid")

	// ErrNoRefreshToken indicates no refresh token is stored.
	ErrNoRefreshToken = errors.New("no refresh token stored")

	// ErrDeviceCodePending indicates an unexpired device code already awaits
	// approval; it must be approved or allowed to lapse before requesting a
	// new one.
	ErrDeviceCodePending = errors.New("a device code is already pending approval")

	// ErrDeviceAlreadyRegistered indicates the device pairing has already
	// been approved.
	ErrDeviceAlreadyRegistered = errors.New("device already registered")

	// ErrNoDeviceCode indicates no device code is stored.
	ErrNoDeviceCode = errors.New("no device code stored")

	// ErrAuthorizationPending indicates the user has not yet approved the
	// device pairing.
	ErrAuthorizationPending = errors.New("device authorization pending")

	// ErrUnauthenticated is terminal: no renewal strategy produced an access
	// token.
	ErrUnauthenticated = errors.New("no credential could produce an access token")
)
