package session

import "github.com/spec-kit/tutorhub-client/internal/domain"

// Decision is the outcome of a route authorization check.
type Decision string

const (
	// DecisionUndecided means storage has not been read yet; render nothing.
	DecisionUndecided Decision = "UNDECIDED"
	DecisionAllow     Decision = "ALLOW"
	// DecisionRedirectLogin sends the caller to the login entry point.
	DecisionRedirectLogin Decision = "REDIRECT_LOGIN"
	// DecisionRedirectForbidden sends the caller to the not-authorized page.
	DecisionRedirectForbidden Decision = "REDIRECT_FORBIDDEN"
)

// Decide authorizes rendering a protected view. Pure, no side effects.
// While loading is true the decision is undecided regardless of session
// content, so nothing unauthorized flashes before storage has been read.
// A session missing its role is invalid and never authorized.
func Decide(sess *domain.Session, loading bool, required ...domain.Role) Decision {
	if loading {
		return DecisionUndecided
	}
	if !sess.Valid() {
		return DecisionRedirectLogin
	}
	if len(required) == 0 {
		return DecisionAllow
	}
	for _, role := range required {
		if sess.Role == role {
			return DecisionAllow
		}
	}
	return DecisionRedirectForbidden
}
