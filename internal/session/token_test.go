package session

import (
	"testing"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/tutorhub-client/internal/domain"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("irrelevant"))
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}
	return token
}

func TestDecodeRole(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "u1", "role": "teacher"})

	role, err := DecodeRole(token)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if role != domain.RoleTeacher {
		t.Fatalf("role = %s, want TEACHER", role)
	}
}

func TestDecodeRoleIgnoresSignature(t *testing.T) {
	// decoding is routing-only: any signing key is accepted
	token := signedToken(t, jwt.MapClaims{"role": "admin"})
	role, err := DecodeRole(token)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if role != domain.RoleAdmin {
		t.Fatalf("role = %s, want ADMIN", role)
	}
}

func TestDecodeRoleRejectsMissingOrUnknownClaim(t *testing.T) {
	if _, err := DecodeRole(signedToken(t, jwt.MapClaims{"sub": "u1"})); err == nil {
		t.Fatalf("token without role claim must be rejected")
	}
	if _, err := DecodeRole(signedToken(t, jwt.MapClaims{"role": "janitor"})); err == nil {
		t.Fatalf("unknown role must be rejected")
	}
	if _, err := DecodeRole("not-a-token"); err == nil {
		t.Fatalf("malformed token must be rejected")
	}
}
