package authapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// TokenClientID is the fixed public client identifier for the
	// password/refresh_token grants on the token endpoint.
	TokenClientID = "seedr_chrome_extension"

	// DeviceClientID is the fixed public client identifier for the
	// device-authorization endpoints.
	DeviceClientID = "seedr_xbmc"
)

// Default endpoint locations for the Seedr authentication service.
const (
	DefaultTokenURL      = "https://www.seedr.cc/oauth_test/token.php"
	DefaultDeviceCodeURL = "https://www.seedr.cc/api/device/code"
	DefaultDeviceAuthURL = "https://www.seedr.cc/api/device/authorize"
)

// errAuthorizationPending is the upstream error code reported while a device
// pairing has not yet been approved by the user.
const errAuthorizationPending = "authorization_pending"

// TokenResponse is the success payload of the token endpoint and the device
// exchange endpoint.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
}

// DeviceCodeResponse is the payload of the device code issuance endpoint.
type DeviceCodeResponse struct {
	DeviceCode string `json:"device_code"`
	UserCode   string `json:"user_code"`
	ExpiresIn  int    `json:"expires_in"`
	Interval   int    `json:"interval,omitempty"`
}

// RemoteError is a failure reported by the authentication service, either as
// a non-2xx status or an error payload on a 200 response.
type RemoteError struct {
	StatusCode  int
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *RemoteError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("auth service error %q: %s", e.Code, e.Description)
	}
	if e.Code != "" {
		return fmt.Sprintf("auth service error %q (status %d)", e.Code, e.StatusCode)
	}
	return fmt.Sprintf("auth service returned status %d", e.StatusCode)
}

// AuthorizationPending reports whether the error means the device pairing has
// not yet been approved by the user.
func (e *RemoteError) AuthorizationPending() bool {
	return e.Code == errAuthorizationPending
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (e.g., for proxies or custom
// timeouts). If not provided, a client with a 30 second timeout is used.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL rewrites all three endpoint locations to live under the given
// base URL, keeping their default paths. Intended for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		base := strings.TrimRight(baseURL, "/")
		c.tokenURL = base + "/oauth_test/token.php"
		c.deviceCodeURL = base + "/api/device/code"
		c.deviceAuthURL = base + "/api/device/authorize"
	}
}

// WithLogger sets the logger for request diagnostics. Defaults to
// slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client talks to the authentication service. It carries no credential state
// of its own; every call is a single attempt with no retries.
type Client struct {
	httpClient    *http.Client
	logger        *slog.Logger
	tokenURL      string
	deviceCodeURL string
	deviceAuthURL string
}

// New creates a Client for the default Seedr endpoints.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		tokenURL:      DefaultTokenURL,
		deviceCodeURL: DefaultDeviceCodeURL,
		deviceAuthURL: DefaultDeviceAuthURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// PasswordGrant exchanges a username and password for a token pair.
func (c *Client) PasswordGrant(ctx context.Context, username, password string) (*TokenResponse, error) {
	form := url.Values{
		"grant_type": {"password"},
		"client_id":  {TokenClientID},
		"type":       {"login"},
		"username":   {username},
		"password":   {password},
	}
	return c.postToken(ctx, form)
}

// RefreshGrant exchanges a refresh token for a new access token.
func (c *Client) RefreshGrant(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {TokenClientID},
		"refresh_token": {refreshToken},
	}
	return c.postToken(ctx, form)
}

// DeviceCode requests a fresh device/user code pair.
func (c *Client) DeviceCode(ctx context.Context) (*DeviceCodeResponse, error) {
	query := url.Values{"client_id": {DeviceClientID}}

	resp := &DeviceCodeResponse{}
	if err := c.get(ctx, c.deviceCodeURL, query, resp); err != nil {
		return nil, err
	}
	if resp.DeviceCode == "" || resp.UserCode == "" {
		return nil, fmt.Errorf("device code response missing codes")
	}
	return resp, nil
}

// DeviceToken exchanges a device code for an access token. While the pairing
// has not been approved the service reports authorization_pending, surfaced
// as a *RemoteError for which AuthorizationPending returns true.
func (c *Client) DeviceToken(ctx context.Context, deviceCode string) (*TokenResponse, error) {
	query := url.Values{
		"client_id":   {DeviceClientID},
		"device_code": {deviceCode},
	}

	resp := &TokenResponse{}
	if err := c.get(ctx, c.deviceAuthURL, query, resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("device token response missing access_token")
	}
	return resp, nil
}

func (c *Client) postToken(ctx context.Context, form url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp := &TokenResponse{}
	if err := c.do(req, resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}
	return resp, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	return c.do(req, out)
}

// do executes the request and decodes the response into out. Correlation ids
// tie the debug log lines of a request/response pair together.
func (c *Client) do(req *http.Request, out any) error {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("Accept", "application/json")

	c.logger.DebugContext(req.Context(), "auth service request",
		"method", req.Method, "url", req.URL.Path, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling auth service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading auth service response: %w", err)
	}

	c.logger.DebugContext(req.Context(), "auth service response",
		"status", resp.StatusCode, "request_id", requestID)

	// The service reports failures both as non-2xx statuses and as an error
	// field on a 200 body, so check the payload either way.
	remoteErr := &RemoteError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, remoteErr); err == nil && remoteErr.Code != "" {
		return remoteErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return remoteErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding auth service response: %w", err)
	}
	return nil
}
