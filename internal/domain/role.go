package domain

import "strings"

// Role enumerates the account types the marketplace knows about.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole normalizes a raw role string (token claims carry lowercase).
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleStudent:
		return RoleStudent, true
	case RoleTeacher:
		return RoleTeacher, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Claim returns the lowercase form used in token claims and register payloads.
func (r Role) Claim() string {
	return strings.ToLower(string(r))
}
