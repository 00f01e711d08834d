package session

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/tutorhub-client/internal/domain"
)

// ErrInvalidCredentials rejects logins missing a token or role; a session
// without both must never exist.
var ErrInvalidCredentials = errors.New("login requires a token and a role")

// Navigator abstracts the two destinations auth flows can force. The CLI
// prints instructions; a richer front end would change routes.
type Navigator interface {
	ToLogin()
	ToRoot()
}

// NopNavigator ignores navigation. Useful in tests.
type NopNavigator struct{}

func (NopNavigator) ToLogin() {}
func (NopNavigator) ToRoot()  {}

// Manager holds the in-memory Session for the lifetime of one process and
// mediates every mutation to it. The injected Store stays the durable source
// of truth; the manager is a cache of it hydrated once at startup.
type Manager struct {
	store  Store
	nav    Navigator
	logger *zap.Logger

	mu      sync.Mutex
	current *domain.Session
	loading bool
	subs    []func(*domain.Session)
}

// NewManager builds a manager in the loading state; callers must treat
// authorization as undecided until Hydrate has run.
func NewManager(store Store, nav Navigator, logger *zap.Logger) *Manager {
	return &Manager{store: store, nav: nav, logger: logger, loading: true}
}

// Hydrate reads persisted credentials once and publishes the resulting
// session, or no session when the token or role is missing or unusable.
// Always flips the loading flag off, regardless of outcome.
func (m *Manager) Hydrate() {
	var token, rawRole string
	ReadJSON(m.store, KeyAccessToken, &token)
	ReadJSON(m.store, KeyRole, &rawRole)

	var sess *domain.Session
	if token != "" {
		role, ok := domain.ParseRole(rawRole)
		if ok {
			sess = &domain.Session{Token: token, Role: role}
			var profile domain.Profile
			if ReadJSON(m.store, KeyProfile, &profile) {
				sess.Profile = &profile
			}
		} else {
			m.logger.Warn("stored token has no usable role, treating session as invalid")
		}
	}

	m.mu.Lock()
	m.current = sess
	m.loading = false
	m.mu.Unlock()
	m.publish(sess)

	m.logger.Debug("session hydrated", zap.Bool("authenticated", sess.Valid()))
}

// Login persists the credential pair plus role and profile, then publishes
// the new session synchronously. Navigation is the caller's responsibility.
func (m *Manager) Login(creds domain.Credentials, role domain.Role, profile *domain.Profile) error {
	if creds.AccessToken == "" || role == "" {
		return ErrInvalidCredentials
	}
	if err := WriteJSON(m.store, KeyAccessToken, creds.AccessToken); err != nil {
		return err
	}
	if err := WriteJSON(m.store, KeyRefreshToken, creds.RefreshToken); err != nil {
		return err
	}
	if err := WriteJSON(m.store, KeyRole, string(role)); err != nil {
		return err
	}
	if profile != nil {
		if err := WriteJSON(m.store, KeyProfile, profile); err != nil {
			return err
		}
	}

	sess := &domain.Session{Token: creds.AccessToken, Role: role, Profile: profile}
	m.mu.Lock()
	m.current = sess
	m.loading = false
	m.mu.Unlock()
	m.publish(sess)

	m.logger.Info("logged in", zap.String("role", string(role)))
	return nil
}

// UpdateProfile persists a profile fetched after login and republishes the
// session carrying it.
func (m *Manager) UpdateProfile(profile *domain.Profile) error {
	if profile == nil {
		return nil
	}
	if err := WriteJSON(m.store, KeyProfile, profile); err != nil {
		return err
	}
	m.mu.Lock()
	if m.current != nil {
		m.current.Profile = profile
	}
	sess := m.current
	m.mu.Unlock()
	m.publish(sess)
	return nil
}

// Logout removes every session key, publishes no session and navigates to
// the application root. Safe to call at any time, including with requests in
// flight: a later 401 finds no refresh token and no-ops against the already
// empty store.
func (m *Manager) Logout() {
	for _, key := range CredentialKeys {
		_ = m.store.Remove(key)
	}

	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	m.publish(nil)

	m.logger.Info("logged out")
	m.nav.ToRoot()
}

// Invalidate drops the in-memory session after the transport has already
// cleared the store (unrecoverable auth failure) and navigates to login.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	m.publish(nil)

	m.logger.Warn("session invalidated, credentials cleared")
	m.nav.ToLogin()
}

// Current returns the session snapshot and the loading flag.
func (m *Manager) Current() (*domain.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.loading
}

// Subscribe registers fn for session change notifications. Delivery is
// synchronous with the mutation that caused it.
func (m *Manager) Subscribe(fn func(*domain.Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

func (m *Manager) publish(sess *domain.Session) {
	m.mu.Lock()
	subs := make([]func(*domain.Session), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()
	for _, fn := range subs {
		fn(sess)
	}
}
