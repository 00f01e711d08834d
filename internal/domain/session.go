package domain

// Credentials bundles the token pair issued at login. The access token is
// short-lived and opaque to the client; the refresh token is long-lived and
// only ever sent to the refresh endpoint.
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Session is the current authenticated user for the lifetime of one process.
// A session without a role is invalid and must never authorize anything.
type Session struct {
	Token   string
	Role    Role
	Profile *Profile
}

// Valid reports whether the session may authorize protected operations.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.Role != ""
}
