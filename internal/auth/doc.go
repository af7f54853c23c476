// Package auth implements the credential lifecycle for the remote storage
// service.
//
// The Manager owns one persisted credential record and renews the access
// token on demand through a cascade of strategies, cheapest first: the
// cached token itself, the device-authorization exchange, the OAuth refresh
// grant, and finally a password login from a cached credential. Failures of
// individual strategies are logged and swallowed so a later strategy still
// gets a chance; only the terminal ErrUnauthenticated surfaces to resource
// clients.
package auth
