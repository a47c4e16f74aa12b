package session

import "github.com/sciencehub/shx/internal/models"

// Requirement declares what a command or view demands of the session.
type Requirement int

const (
	RequireNone Requirement = iota
	RequireAuthenticated
	RequireElevated
)

func (r Requirement) String() string {
	switch r {
	case RequireNone:
		return "none"
	case RequireAuthenticated:
		return "authenticated"
	case RequireElevated:
		return "elevated"
	default:
		return "unknown"
	}
}

// IsAuthenticated reports whether the session holds an identity.
func IsAuthenticated(s models.Session) bool {
	return s.Authenticated()
}

// HasElevatedRole reports whether the session's user holds ADMIN or SUPERADMIN.
func HasElevatedRole(s models.Session) bool {
	return s.User != nil && s.User.Role.Elevated()
}

// CanAccess maps a requirement against the session. Every gated surface goes
// through this one function.
func CanAccess(s models.Session, req Requirement) bool {
	switch req {
	case RequireNone:
		return true
	case RequireAuthenticated:
		return IsAuthenticated(s)
	case RequireElevated:
		return HasElevatedRole(s)
	default:
		return false
	}
}
