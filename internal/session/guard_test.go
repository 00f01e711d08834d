package session

import (
	"testing"

	"github.com/spec-kit/tutorhub-client/internal/domain"
)

func TestDecide(t *testing.T) {
	teacher := &domain.Session{Token: "tok", Role: domain.RoleTeacher}
	student := &domain.Session{Token: "tok", Role: domain.RoleStudent}
	roleless := &domain.Session{Token: "tok"}

	cases := []struct {
		name     string
		sess     *domain.Session
		loading  bool
		required []domain.Role
		want     Decision
	}{
		{"loading wins over everything", teacher, true, nil, DecisionUndecided},
		{"loading with no session", nil, true, []domain.Role{domain.RoleAdmin}, DecisionUndecided},
		{"no session redirects to login", nil, false, nil, DecisionRedirectLogin},
		{"no session with requirement", nil, false, []domain.Role{domain.RoleTeacher}, DecisionRedirectLogin},
		{"session without role is invalid", roleless, false, nil, DecisionRedirectLogin},
		{"wrong role forbidden", student, false, []domain.Role{domain.RoleTeacher}, DecisionRedirectForbidden},
		{"matching role allowed", teacher, false, []domain.Role{domain.RoleTeacher}, DecisionAllow},
		{"role-set membership", student, false, []domain.Role{domain.RoleTeacher, domain.RoleStudent}, DecisionAllow},
		{"no requirement allows any session", student, false, nil, DecisionAllow},
		{"teacher cannot reach admin route", teacher, false, []domain.Role{domain.RoleAdmin}, DecisionRedirectForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Decide(tc.sess, tc.loading, tc.required...)
			if got != tc.want {
				t.Fatalf("Decide = %s, want %s", got, tc.want)
			}
		})
	}
}
