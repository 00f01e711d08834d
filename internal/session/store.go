package session

import "encoding/json"

// Storage keys. Credential naming is unified: the token the transport
// attaches to requests and the token the manager hydrates from are the same
// accessToken entry.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyRole         = "role"
	KeyProfile      = "profile"
	KeyTheme        = "theme"
)

// CredentialKeys lists every key removed on logout or forced auth failure.
var CredentialKeys = []string{KeyAccessToken, KeyRefreshToken, KeyRole, KeyProfile}

// Store is a text key-value store for session state. Implementations never
// surface read failures to callers; an unreadable value is simply absent.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
	Clear() error
}

// WriteJSON serializes v and stores it under key. All values are stored as
// text so every backend round-trips numbers, strings and nested objects
// losslessly.
func WriteJSON(s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(key, string(raw))
}

// ReadJSON loads key into out. A value that fails to decode is evicted and
// reported absent, so a corrupt entry can never wedge the caller; a second
// read of the same key is a plain miss.
func ReadJSON(s Store, key string, out any) bool {
	raw, ok := s.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		_ = s.Remove(key)
		return false
	}
	return true
}
