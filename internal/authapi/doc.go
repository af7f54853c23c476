// Package authapi is the outbound wire client for the Seedr authentication
// service.
//
// Seedr exposes two surfaces with different client identifiers:
//   - a token endpoint accepting form-encoded password and refresh_token
//     grants under the web client id
//   - a device-authorization pair of GET endpoints (code issuance and
//     code-to-token exchange) under the XBMC client id
//
// Responses are JSON: either a token payload (access_token, expires_in,
// refresh_token, token_type) or an error payload (error, error_description).
// A non-2xx status or an error field both map to *RemoteError.
package authapi
