package service

import (
	"testing"
	"time"

	"quiz_platform_backend/internal/config"
	"quiz_platform_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(f *fixtures) *AuthService {
	return NewAuthService(f.Users, config.JWTConfig{
		Secret:        "test-secret-test-secret-test-1234",
		ExpireTime:    time.Hour,
		RefreshExpire: 24 * time.Hour,
	})
}

func TestLogin(t *testing.T) {
	f := newFixtures(t)
	svc := newAuthService(f)
	admin := f.seedAdmin(t, "admin")
	require.NoError(t, svc.SetPassword(admin.ID, "s3cret"))

	pair, user, err := svc.Login("admin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, user.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := util.ParseJWT(pair.AccessToken, svc.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.UserID)
	assert.Equal(t, admin.Role, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixtures(t)
	svc := newAuthService(f)
	admin := f.seedAdmin(t, "admin")
	require.NoError(t, svc.SetPassword(admin.ID, "s3cret"))

	_, _, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, _, err = svc.Login("nobody", "s3cret")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestLoginRejectsUsersWithoutPassword(t *testing.T) {
	f := newFixtures(t)
	svc := newAuthService(f)
	f.seedAdmin(t, "admin")

	_, _, err := svc.Login("admin", "")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestLoginRequiresAdminRole(t *testing.T) {
	f := newFixtures(t)
	svc := newAuthService(f)
	user := f.seedUser(t, "alice")
	require.NoError(t, svc.SetPassword(user.ID, "s3cret"))

	_, _, err := svc.Login("alice", "s3cret")
	assert.ErrorIs(t, err, util.ErrAdminRequired)
}

func TestRefresh(t *testing.T) {
	f := newFixtures(t)
	svc := newAuthService(f)
	admin := f.seedAdmin(t, "admin")
	require.NoError(t, svc.SetPassword(admin.ID, "s3cret"))

	pair, _, err := svc.Login("admin", "s3cret")
	require.NoError(t, err)

	renewed, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renewed.AccessToken)

	_, err = svc.Refresh("not-a-token")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}
