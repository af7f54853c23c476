// Package statestore provides persistent storage backends for the credential
// state record.
//
// Three backends with different deployment tradeoffs:
//   - File: single JSON document on the local filesystem with atomic writes
//     and secure permissions
//   - Keyring: OS-native credential storage (macOS Keychain, Windows
//     Credential Manager, etc.) holding the same JSON document
//   - Mem: in-memory storage for tests and throwaway sessions
package statestore
