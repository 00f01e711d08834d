package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spec-kit/tutorhub-client/internal/session"
	"github.com/spec-kit/tutorhub-client/pkg/util"
)

// authServer fakes the remote API for interceptor sequencing tests. It
// accepts exactly one bearer token and counts refresh calls.
type authServer struct {
	mu           sync.Mutex
	validToken   string
	refreshCalls int32
	refreshFails bool
	alwaysReject bool
	refreshDelay time.Duration
	newToken     string
	srv          *httptest.Server
}

func newAuthServer(validToken, newToken string) *authServer {
	a := &authServer{validToken: validToken, newToken: newToken}
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh-token", a.handleRefresh)
	mux.HandleFunc("/data", a.handleData)
	a.srv = httptest.NewServer(mux)
	return a
}

func (a *authServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&a.refreshCalls, 1)
	if a.refreshDelay > 0 {
		time.Sleep(a.refreshDelay)
	}
	if a.refreshFails {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RefreshToken == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	a.mu.Lock()
	a.validToken = a.newToken
	a.mu.Unlock()
	_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": a.newToken})
}

func (a *authServer) handleData(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	valid := a.validToken
	a.mu.Unlock()
	if a.alwaysReject || r.Header.Get("Authorization") != "Bearer "+valid {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if r.Body != nil {
		_, _ = io.Copy(io.Discard, r.Body)
	}
	_, _ = w.Write([]byte("ok"))
}

func (a *authServer) refreshCount() int {
	return int(atomic.LoadInt32(&a.refreshCalls))
}

func newTestTransport(srv *authServer, store session.Store, onLogout func()) *AuthTransport {
	return New(Options{
		Store:          store,
		RefreshURL:     srv.srv.URL + "/auth/refresh-token",
		OnForcedLogout: onLogout,
	})
}

func seedCreds(t *testing.T, store session.Store, access, refresh string) {
	t.Helper()
	if err := session.WriteJSON(store, session.KeyAccessToken, access); err != nil {
		t.Fatalf("seed access token: %v", err)
	}
	if err := session.WriteJSON(store, session.KeyRefreshToken, refresh); err != nil {
		t.Fatalf("seed refresh token: %v", err)
	}
}

func TestExpiredTokenIsRefreshedOnce(t *testing.T) {
	srv := newAuthServer("fresh", "fresh")
	defer srv.srv.Close()

	store := session.NewMemoryStore()
	seedCreds(t, store, "stale", "refresh-1")

	client := &http.Client{Transport: newTestTransport(srv, store, nil)}
	resp, err := client.Get(srv.srv.URL + "/data")
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()

	// the caller never observes the intermediate 401
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := srv.refreshCount(); got != 1 {
		t.Fatalf("refresh calls = %d, want 1", got)
	}
	var stored string
	if !session.ReadJSON(store, session.KeyAccessToken, &stored) || stored != "fresh" {
		t.Fatalf("new access token not persisted, have %q", stored)
	}
}

func TestReplayedBodyIsRewound(t *testing.T) {
	srv := newAuthServer("fresh", "fresh")
	defer srv.srv.Close()

	store := session.NewMemoryStore()
	seedCreds(t, store, "stale", "refresh-1")

	client := &http.Client{Transport: newTestTransport(srv, store, nil)}
	resp, err := client.Post(srv.srv.URL+"/data", "application/json", strings.NewReader(`{"x":1}`))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestFailedRefreshClearsStoreAndForcesLogout(t *testing.T) {
	srv := newAuthServer("fresh", "fresh")
	srv.refreshFails = true
	defer srv.srv.Close()

	store := session.NewMemoryStore()
	seedCreds(t, store, "stale", "refresh-1")

	logouts := 0
	client := &http.Client{Transport: newTestTransport(srv, store, func() { logouts++ })}
	_, err := client.Get(srv.srv.URL + "/data")
	if err == nil {
		t.Fatalf("expected the refresh error to propagate")
	}
	if !util.IsUnauthorized(err) {
		t.Fatalf("expected an unauthorized error, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("store must be cleared, %d entries left", store.Len())
	}
	if logouts != 1 {
		t.Fatalf("forced logout fired %d times, want 1", logouts)
	}
}

func TestMissing401RefreshTokenPropagatesOriginalError(t *testing.T) {
	srv := newAuthServer("fresh", "fresh")
	defer srv.srv.Close()

	store := session.NewMemoryStore()
	seedCreds(t, store, "stale", "")
	_ = store.Remove(session.KeyRefreshToken)

	logouts := 0
	client := &http.Client{Transport: newTestTransport(srv, store, func() { logouts++ })}
	resp, err := client.Get(srv.srv.URL + "/data")
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("original 401 must propagate, got %d", resp.StatusCode)
	}
	if got := srv.refreshCount(); got != 0 {
		t.Fatalf("no refresh may be attempted, got %d", got)
	}
	if store.Len() != 0 || logouts != 1 {
		t.Fatalf("store must be cleared and logout forced once, entries=%d logouts=%d", store.Len(), logouts)
	}
}

func TestSecond401AfterRefreshIsNotRetriedAgain(t *testing.T) {
	// refresh succeeds but the resource keeps rejecting: the replayed 401
	// must reach the caller with no second refresh attempt
	srv := newAuthServer("fresh", "fresh")
	srv.alwaysReject = true
	defer srv.srv.Close()

	store := session.NewMemoryStore()
	seedCreds(t, store, "stale", "refresh-1")

	client := &http.Client{Transport: newTestTransport(srv, store, nil)}
	resp, err := client.Get(srv.srv.URL + "/data")
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("replayed 401 must propagate, got %d", resp.StatusCode)
	}
	if got := srv.refreshCount(); got != 1 {
		t.Fatalf("refresh calls = %d, want exactly 1", got)
	}
}

func TestConcurrent401sShareOneRefresh(t *testing.T) {
	srv := newAuthServer("fresh", "fresh")
	srv.refreshDelay = 100 * time.Millisecond
	defer srv.srv.Close()

	store := session.NewMemoryStore()
	seedCreds(t, store, "stale", "refresh-1")

	client := &http.Client{Transport: newTestTransport(srv, store, nil)}

	const workers = 5
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := client.Get(srv.srv.URL + "/data")
			if err != nil {
				errs <- err
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				errs <- util.FromStatus(resp.StatusCode)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent request failed: %v", err)
	}

	if got := srv.refreshCount(); got != 1 {
		t.Fatalf("one expiry episode must issue one refresh, got %d", got)
	}
}

func TestNoTokenDispatchesUnauthenticated(t *testing.T) {
	var sawAuth atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			sawAuth.Store(true)
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	rt := New(Options{Store: store, RefreshURL: srv.URL + "/auth/refresh-token"})
	resp, err := (&http.Client{Transport: rt}).Get(srv.URL + "/public")
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	resp.Body.Close()
	if sawAuth.Load() {
		t.Fatalf("request without a stored token must not carry a bearer header")
	}
}
