package session

import (
	"errors"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/tutorhub-client/internal/domain"
)

// DecodeRole extracts the role claim from an access token without verifying
// its signature. The result steers client-side routing only and is never an
// authorization proof; the server re-checks every request.
func DecodeRole(token string) (domain.Role, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return "", err
	}

	raw, _ := claims["role"].(string)
	role, ok := domain.ParseRole(raw)
	if !ok {
		return "", errors.New("token carries no usable role claim")
	}
	return role, nil
}
