package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/uncovr/uncovr/internal/client/tokenstore"
)

// Remote endpoints, relative to the API base URL.
const (
	endpointLogin    = "/auth/login"
	endpointRegister = "/auth/register"
	endpointLogout   = "/auth/logout"
	endpointPassword = "/auth/password"
	endpointMe       = "/me"
	endpointReleases = "/releases"
	endpointFeatured = "/releases/featured"
)

// HTTPClient issues JSON requests against the remote API, automatically
// attaching a bearer token whenever the token store yields a valid one,
// and clearing the store when the server answers 401.
//
// It holds no mutable state of its own; the token store is the only shared
// resource it touches. No request timeout is set here: callers control
// deadlines through ctx, and the transport's defaults apply otherwise.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	tokens  *tokenstore.Store
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, tokens *tokenstore.Store) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		hc:      &http.Client{},
		tokens:  tokens,
	}
}

// errEnvelope is the optional error body the API attaches to non-success
// statuses.
type errEnvelope struct {
	Message string `json:"message"`
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token, ok := c.tokens.Get(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return &RequestError{Message: "network error occurred", cause: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Message: "network error occurred", cause: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.statusError(ctx, resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &RequestError{Status: resp.StatusCode, Message: "invalid server response", cause: err}
		}
	}
	return nil
}

// statusError builds the RequestError for a non-success status. The server
// has rejected an unauthorized token, so for 401 the local copy is dead too
// and is cleared before anything else. A body that fails to parse never
// masks the original status: the generic message is used instead.
func (c *HTTPClient) statusError(ctx context.Context, status int, body []byte) error {
	if status == http.StatusUnauthorized {
		c.tokens.Clear(ctx)
	}

	var env errEnvelope
	msg := ""
	if err := json.Unmarshal(body, &env); err == nil {
		msg = env.Message
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))
	}

	var cause error
	if status == http.StatusUnauthorized {
		cause = ErrUnauthorized
	}
	return &RequestError{Status: status, Message: msg, cause: cause}
}

func (c *HTTPClient) get(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *HTTPClient) post(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, body, out)
}

func (c *HTTPClient) put(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPut, endpoint, body, out)
}

// authEnvelope covers both the success shape (token + user) and the odd
// 200-with-message shape some deployments produce.
type authEnvelope struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Message string `json:"message"`
}

func (c *HTTPClient) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var env authEnvelope
	if err := c.post(ctx, endpointLogin, req, &env); err != nil {
		return nil, err
	}
	if env.Token == "" {
		return nil, authFailure(env.Message, "Login failed")
	}
	return &AuthResponse{Token: env.Token, User: env.User}, nil
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var env authEnvelope
	if err := c.post(ctx, endpointRegister, req, &env); err != nil {
		return nil, err
	}
	if env.Token == "" {
		return nil, authFailure(env.Message, "Registration failed")
	}
	return &AuthResponse{Token: env.Token, User: env.User}, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.post(ctx, endpointLogout, struct{}{}, nil)
}

// userEnvelope is the current-user shape plus the optional message field.
type userEnvelope struct {
	User
	Message string `json:"message"`
}

func (c *HTTPClient) Me(ctx context.Context) (*User, error) {
	var env userEnvelope
	if err := c.get(ctx, endpointMe, &env); err != nil {
		return nil, err
	}
	if env.ID == 0 {
		return nil, authFailure(env.Message, "Failed to fetch user data")
	}
	return &env.User, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	var env userEnvelope
	if err := c.put(ctx, endpointMe, req, &env); err != nil {
		return nil, err
	}
	if env.ID == 0 {
		return nil, authFailure(env.Message, "Failed to update profile")
	}
	return &env.User, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	return c.put(ctx, endpointPassword, req, nil)
}

type releasesResponse struct {
	Data []Release `json:"data"`
}

func (c *HTTPClient) Releases(ctx context.Context) ([]Release, error) {
	var resp releasesResponse
	if err := c.get(ctx, endpointReleases, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *HTTPClient) FeaturedReleases(ctx context.Context) ([]Release, error) {
	var resp releasesResponse
	if err := c.get(ctx, endpointFeatured, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// authFailure reports a 200-level response that is still not usable,
// preferring the server's own wording.
func authFailure(serverMsg, fallback string) error {
	if serverMsg == "" {
		serverMsg = fallback
	}
	return &RequestError{Status: http.StatusOK, Message: serverMsg}
}
