package auth

import (
	"github.com/PropertyLens/PropertyLens/internal/db/models"
)

// Level is the access level a route requires.
type Level int

const (
	// LevelPublic lets everyone through.
	LevelPublic Level = iota
	// LevelAuthenticated requires any signed in, active user.
	LevelAuthenticated
	// LevelEditor requires an active admin or editor.
	LevelEditor
	// LevelAdmin requires an active admin.
	LevelAdmin
)

// String implements fmt.Stringer.
func (l Level) String() string {
	switch l {
	case LevelPublic:
		return "public"
	case LevelAuthenticated:
		return "authenticated"
	case LevelEditor:
		return "editor"
	case LevelAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Authorize decides whether user may access a route of the given level.
//
// It returns nil when allowed, ErrUnauthenticated when there is no active user and
// ErrForbidden when the user's role is too low. A nil user is anonymous.
func Authorize(user *models.User, level Level) error {
	if level == LevelPublic {
		return nil
	}

	if user == nil || !user.IsActive {
		return ErrUnauthenticated
	}

	if !roleAllows(user.Role, level) {
		return ErrForbidden
	}

	return nil
}

// roleAllows reports whether role reaches level. Unknown roles reach nothing but public.
func roleAllows(role models.Role, level Level) bool {
	switch role {
	case models.RoleAdmin:
		return level <= LevelAdmin
	case models.RoleEditor:
		return level <= LevelEditor
	case models.RoleViewer:
		return level <= LevelAuthenticated
	default:
		return level == LevelPublic
	}
}
