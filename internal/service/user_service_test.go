package service

import (
	"testing"

	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/repository"
	"quiz_platform_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(f *fixtures) *UserService {
	return NewUserService(f.Users, repository.NewPermissionRepository(f.DB))
}

func TestRegisterTelegramUser(t *testing.T) {
	f := newFixtures(t)
	svc := newUserService(f)

	user, err := svc.RegisterTelegramUser("100500", "alice", "Alice", "Smith")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)

	// Same telegram identity resolves to the same account.
	again, err := svc.RegisterTelegramUser("100500", "alice-renamed", "Alice", "Smith")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "alice", again.Username)
}

func TestRegisterTelegramUserUsernameTaken(t *testing.T) {
	f := newFixtures(t)
	svc := newUserService(f)
	f.seedUser(t, "alice")

	_, err := svc.RegisterTelegramUser("200600", "alice", "Other", "Alice")
	assert.ErrorIs(t, err, util.ErrUsernameTaken)
}

func TestChangeUserRole(t *testing.T) {
	f := newFixtures(t)
	svc := newUserService(f)
	user := f.seedUser(t, "alice")

	changed, err := svc.ChangeUserRole(user.ID, model.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, changed.IsAdmin())

	_, err = svc.ChangeUserRole(9999, model.RoleAdmin)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestUserPermissions(t *testing.T) {
	f := newFixtures(t)
	svc := newUserService(f)
	user := f.seedUser(t, "alice")

	perms := NewPermissionService(svc.Permissions)
	permission, err := perms.CreatePermission("tests:author", "create and edit tests")
	require.NoError(t, err)
	assert.NotEmpty(t, permission.ID)

	withPerm, err := svc.AddPermissionToUser(user.ID, permission.ID)
	require.NoError(t, err)
	assert.True(t, withPerm.HasPermission(permission.ID))

	withoutPerm, err := svc.RemovePermissionFromUser(user.ID, permission.ID)
	require.NoError(t, err)
	assert.False(t, withoutPerm.HasPermission(permission.ID))

	_, err = svc.AddPermissionToUser(user.ID, "missing")
	assert.ErrorIs(t, err, util.ErrPermissionNotFound)
}
