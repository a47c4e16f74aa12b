package session

import (
	"testing"

	"github.com/sciencehub/shx/internal/models"
)

func sessionWithRole(role models.Role) models.Session {
	return models.Session{
		User:  &models.User{ID: "u1", Role: role},
		Token: "tok",
	}
}

func TestGate(t *testing.T) {
	loggedOut := models.Session{}

	t.Run("RequireNone Admits Everyone", func(t *testing.T) {
		for _, sess := range []models.Session{
			loggedOut,
			sessionWithRole(models.RoleUser),
			sessionWithRole(models.RoleAdmin),
			sessionWithRole(models.RoleSuperAdmin),
		} {
			if !CanAccess(sess, RequireNone) {
				t.Errorf("expected access for session %+v", sess.User)
			}
		}
	})

	t.Run("RequireAuthenticated", func(t *testing.T) {
		if CanAccess(loggedOut, RequireAuthenticated) {
			t.Error("expected logged-out session to be denied")
		}
		for _, role := range []models.Role{models.RoleUser, models.RoleAdmin, models.RoleSuperAdmin} {
			if !CanAccess(sessionWithRole(role), RequireAuthenticated) {
				t.Errorf("expected %s to be admitted", role)
			}
		}
	})

	t.Run("RequireElevated", func(t *testing.T) {
		if CanAccess(loggedOut, RequireElevated) {
			t.Error("expected logged-out session to be denied")
		}
		if CanAccess(sessionWithRole(models.RoleUser), RequireElevated) {
			t.Error("expected USER to be denied")
		}
		if !CanAccess(sessionWithRole(models.RoleAdmin), RequireElevated) {
			t.Error("expected ADMIN to be admitted")
		}
		if !CanAccess(sessionWithRole(models.RoleSuperAdmin), RequireElevated) {
			t.Error("expected SUPERADMIN to be admitted")
		}
	})

	t.Run("Unknown Requirement Denies", func(t *testing.T) {
		if CanAccess(sessionWithRole(models.RoleSuperAdmin), Requirement(99)) {
			t.Error("expected unknown requirement to deny even SUPERADMIN")
		}
	})

	t.Run("String", func(t *testing.T) {
		cases := map[Requirement]string{
			RequireNone:          "none",
			RequireAuthenticated: "authenticated",
			RequireElevated:      "elevated",
			Requirement(99):      "unknown",
		}
		for req, want := range cases {
			if got := req.String(); got != want {
				t.Errorf("expected %q, got %q", want, got)
			}
		}
	})
}
