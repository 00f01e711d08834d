package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/spec-kit/tutorhub-client/internal/session"
	"github.com/spec-kit/tutorhub-client/pkg/util"
)

type ctxKey int

// replayedKey marks a request that has already been re-dispatched after a
// refresh, so a second 401 can never trigger another refresh.
const replayedKey ctxKey = iota

// AuthTransport authenticates outbound requests and transparently recovers
// from an expired access token, at most once per request.
//
// Request phase: the access token is read from the store on every dispatch,
// never cached in memory, so a token refreshed by a concurrent request is
// picked up immediately. Response phase: on the first 401 the refresh token
// is exchanged for a new access token, the new token is persisted (every
// later request reads it from the store) and the original request is replayed
// once; any other outcome is returned to the caller unchanged.
//
// Concurrent 401s share a single in-flight refresh, so one expiry episode
// issues exactly one refresh call no matter how many requests tripped over it.
type AuthTransport struct {
	base           http.RoundTripper
	store          session.Store
	refreshURL     string
	logger         *zap.Logger
	onForcedLogout func()
	refresh        singleflight.Group
}

// Options configures an AuthTransport.
type Options struct {
	// Base is the underlying transport; http.DefaultTransport when nil.
	Base http.RoundTripper
	// Store supplies and receives credentials.
	Store session.Store
	// RefreshURL is the absolute URL of the token refresh endpoint.
	RefreshURL string
	Logger     *zap.Logger
	// OnForcedLogout runs after the store has been cleared on an
	// unrecoverable auth failure; wire it to session.Manager.Invalidate.
	OnForcedLogout func()
}

// New builds the transport.
func New(opts Options) *AuthTransport {
	base := opts.Base
	if base == nil {
		base = http.DefaultTransport
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthTransport{
		base:           base,
		store:          opts.Store,
		refreshURL:     opts.RefreshURL,
		logger:         logger,
		onForcedLogout: opts.OnForcedLogout,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if token, ok := t.accessToken(); ok {
		out.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || alreadyReplayed(req) {
		return resp, nil
	}

	var refreshToken string
	if !session.ReadJSON(t.store, session.KeyRefreshToken, &refreshToken) || refreshToken == "" {
		t.forceLogout("401 with no refresh token")
		return resp, nil
	}

	token, err := t.sharedRefresh(req.Context(), refreshToken)
	if err != nil {
		drain(resp)
		return nil, err
	}

	replay, ok := t.replayable(req)
	if !ok {
		t.logger.Warn("cannot replay request after refresh, body not rewindable",
			zap.String("url", req.URL.Path))
		return resp, nil
	}
	drain(resp)

	replay.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(replay)
}

// sharedRefresh funnels every concurrent 401 into one refresh call and hands
// each waiter the same outcome.
func (t *AuthTransport) sharedRefresh(ctx context.Context, refreshToken string) (string, error) {
	val, err, shared := t.refresh.Do("refresh", func() (any, error) {
		token, err := t.doRefresh(ctx, refreshToken)
		if err != nil {
			t.forceLogout("refresh failed")
			return "", err
		}
		return token, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		t.logger.Debug("refresh outcome shared with concurrent request")
	}
	return val.(string), nil
}

// doRefresh exchanges the refresh token for a new access token and persists
// it. The call is unauthenticated and bypasses this transport.
func (t *AuthTransport) doRefresh(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.refreshURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return "", util.NewNetworkError(err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return "", util.NewAPIError("UNAUTHORIZED",
			fmt.Sprintf("token refresh rejected with status %d", resp.StatusCode),
			http.StatusUnauthorized)
	}

	var body struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", util.NewDecodeError(err)
	}
	token := strings.TrimSpace(body.AccessToken)
	if token == "" {
		return "", util.NewDecodeError(fmt.Errorf("refresh response carried no access token"))
	}

	if err := session.WriteJSON(t.store, session.KeyAccessToken, token); err != nil {
		return "", err
	}
	t.logger.Info("access token refreshed")
	return token, nil
}

// replayable clones req for the post-refresh re-dispatch. Requests with a
// consumed body need GetBody to rewind; http.NewRequest sets it for the
// buffer types the API client uses.
func (t *AuthTransport) replayable(req *http.Request) (*http.Request, bool) {
	replay := req.Clone(context.WithValue(req.Context(), replayedKey, true))
	if req.Body == nil || req.Body == http.NoBody {
		return replay, true
	}
	if req.GetBody == nil {
		return nil, false
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, false
	}
	replay.Body = body
	return replay, true
}

func (t *AuthTransport) accessToken() (string, bool) {
	var token string
	if !session.ReadJSON(t.store, session.KeyAccessToken, &token) || token == "" {
		return "", false
	}
	return token, true
}

// forceLogout clears every persisted credential and hands control to the
// login entry point. The caller's in-progress error still propagates.
func (t *AuthTransport) forceLogout(reason string) {
	t.logger.Warn("forcing logout", zap.String("reason", reason))
	if err := t.store.Clear(); err != nil {
		t.logger.Error("failed to clear session store", zap.Error(err))
	}
	if t.onForcedLogout != nil {
		t.onForcedLogout()
	}
}

func alreadyReplayed(req *http.Request) bool {
	replayed, _ := req.Context().Value(replayedKey).(bool)
	return replayed
}

func drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
