package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/spec-kit/tutorhub-client/internal/domain"
	"github.com/spec-kit/tutorhub-client/internal/session"
	"github.com/spec-kit/tutorhub-client/pkg/util"
)

// refreshTokenHeader carries the refresh token alongside the bare-token
// login body, so both credentials arrive in one exchange.
const refreshTokenHeader = "X-Refresh-Token"

// LoginResult bundles everything a successful login yields.
type LoginResult struct {
	Credentials domain.Credentials
	Role        domain.Role
}

// Login exchanges credentials for a token pair. The response body is a bare
// token string, not JSON, and is trimmed before the role claim is decoded
// from it.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, util.NewValidationError("email and password required")
	}

	raw, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, util.NewNetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, c.decodeError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, util.NewNetworkError(err)
	}
	token := strings.TrimSpace(string(body))
	if token == "" {
		return nil, util.NewDecodeError(io.ErrUnexpectedEOF)
	}

	role, err := session.DecodeRole(token)
	if err != nil {
		return nil, util.NewDecodeError(err)
	}

	return &LoginResult{
		Credentials: domain.Credentials{
			AccessToken:  token,
			RefreshToken: resp.Header.Get(refreshTokenHeader),
		},
		Role: role,
	}, nil
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register creates an account. Callers log in separately afterwards.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return util.NewValidationError("name, email and password required")
	}
	return c.post(ctx, "/auth/register", req, nil)
}
