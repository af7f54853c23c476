// Package state defines the persisted aggregate of credential material for
// the remote storage service: the short-lived access token, the long-lived
// refresh token, the device-authorization pairing, and an optional cached
// login. All fields are optional and absence is meaningful.
package state
