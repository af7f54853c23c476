package state

import "time"

// Access is the short-lived bearer credential used to authorize resource API
// calls. A renewal always replaces it wholesale.
type Access struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether the token can still be presented at the given instant.
func (a *Access) Valid(now time.Time) bool {
	return a != nil && a.Token != "" && now.Before(a.ExpiresAt)
}

// Refresh is the long-lived OAuth refresh credential. Its presence implies a
// prior successful OAuth login.
type Refresh struct {
	Token string `json:"token"`
}

// Device holds device-authorization pairing state. ExpiresAt is set while the
// pairing awaits user approval and cleared once the device code has been
// exchanged successfully; an approved code stays valid until revoked
// server-side. The transition pending → approved happens exactly once and
// never reverts.
type Device struct {
	DeviceCode string     `json:"device_code"`
	UserCode   string     `json:"user_code"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// Approved reports whether the pairing has been approved by the user.
func (d *Device) Approved() bool {
	return d != nil && d.DeviceCode != "" && d.ExpiresAt == nil
}

// Pending reports whether the pairing is still awaiting approval and has not
// lapsed at the given instant.
func (d *Device) Pending(now time.Time) bool {
	return d != nil && d.DeviceCode != "" && d.ExpiresAt != nil && now.Before(*d.ExpiresAt)
}

// Usable reports whether the pairing is worth presenting for a token
// exchange: either already approved, or pending and not yet lapsed.
func (d *Device) Usable(now time.Time) bool {
	return d.Approved() || d.Pending(now)
}

// Credential is an optional cached plaintext login, stored only when the
// caller explicitly opts in.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Complete reports whether both halves of the credential are present.
func (c *Credential) Complete() bool {
	return c != nil && c.Username != "" && c.Password != ""
}

// State is the persisted aggregate of all credential material. Every field is
// optional; absence is meaningful, not an error.
type State struct {
	Access     *Access     `json:"access,omitempty"`
	Refresh    *Refresh    `json:"refresh,omitempty"`
	Device     *Device     `json:"device,omitempty"`
	Credential *Credential `json:"credential,omitempty"`
}

// Clone returns a deep copy so callers can hand state out without exposing
// the manager's owned record to mutation.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := &State{}
	if s.Access != nil {
		access := *s.Access
		c.Access = &access
	}
	if s.Refresh != nil {
		refresh := *s.Refresh
		c.Refresh = &refresh
	}
	if s.Device != nil {
		device := *s.Device
		if s.Device.ExpiresAt != nil {
			expiresAt := *s.Device.ExpiresAt
			device.ExpiresAt = &expiresAt
		}
		c.Device = &device
	}
	if s.Credential != nil {
		credential := *s.Credential
		c.Credential = &credential
	}
	return c
}
