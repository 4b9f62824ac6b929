package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PropertyLens/PropertyLens/internal/db/models"
)

func TestAuthorize(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin, IsActive: true}
	editor := &models.User{ID: 2, Role: models.RoleEditor, IsActive: true}
	viewer := &models.User{ID: 3, Role: models.RoleViewer, IsActive: true}
	disabled := &models.User{ID: 4, Role: models.RoleAdmin, IsActive: false}
	unknown := &models.User{ID: 5, Role: "owner", IsActive: true}

	testCases := []struct {
		name  string
		user  *models.User
		level Level
		want  error
	}{
		{name: "anonymous public", user: nil, level: LevelPublic},
		{name: "anonymous authenticated", user: nil, level: LevelAuthenticated, want: ErrUnauthenticated},
		{name: "anonymous editor", user: nil, level: LevelEditor, want: ErrUnauthenticated},
		{name: "anonymous admin", user: nil, level: LevelAdmin, want: ErrUnauthenticated},

		{name: "viewer authenticated", user: viewer, level: LevelAuthenticated},
		{name: "viewer editor", user: viewer, level: LevelEditor, want: ErrForbidden},
		{name: "viewer admin", user: viewer, level: LevelAdmin, want: ErrForbidden},

		{name: "editor editor", user: editor, level: LevelEditor},
		{name: "editor admin", user: editor, level: LevelAdmin, want: ErrForbidden},

		{name: "admin admin", user: admin, level: LevelAdmin},
		{name: "admin editor", user: admin, level: LevelEditor},

		{name: "disabled admin", user: disabled, level: LevelAuthenticated, want: ErrUnauthenticated},
		{name: "disabled admin public", user: disabled, level: LevelPublic},

		{name: "unknown role public", user: unknown, level: LevelPublic},
		{name: "unknown role authenticated", user: unknown, level: LevelAuthenticated, want: ErrForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.user, tc.level)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "public", LevelPublic.String())
	assert.Equal(t, "admin", LevelAdmin.String())
	assert.Equal(t, "unknown", Level(42).String())
}
