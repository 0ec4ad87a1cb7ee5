package identity

import (
	"context"
	"testing"

	"github.com/strokecare/platform/pkg/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	repo := NewRepository(db)
	require.NoError(t, repo.AutoMigrate())
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewService(repo)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	user, err := svc.Register(ctx, models.RegisterRequest{Email: "p@x.com", Name: "Pat", Role: models.RolePatient, Password: "password1"})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.RolePatient, user.Role)

	_, err = svc.Register(ctx, models.RegisterRequest{Email: "p@x.com", Role: models.RoleDoctor, Password: "password1"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	got, err := svc.Authenticate(ctx, "p@x.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, "p@x.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// emails are case-sensitive
	_, err = svc.Authenticate(ctx, "P@x.com", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, models.RegisterRequest{Email: "a@x.com", Role: "admin", Password: "password1"})
	assert.True(t, models.IsValidation(err))

	_, err = svc.Register(ctx, models.RegisterRequest{Email: "a@x.com", Role: models.RoleDoctor, Password: "short"})
	assert.True(t, models.IsValidation(err))
}

func TestFindOrCreateExternal(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.FindOrCreateExternal(ctx, "oidc@x.com", "O", "sub-1", models.RoleCaregiver)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCaregiver, created.Role)

	again, err := svc.FindOrCreateExternal(ctx, "oidc@x.com", "O", "sub-1", models.RolePatient)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, models.RoleCaregiver, again.Role)

	// external users cannot log in with a password
	_, err = svc.Authenticate(ctx, "oidc@x.com", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.CurrentUser(ctx, "missing@x.com")
	assert.True(t, models.IsNotFound(err))
}

func TestSeedOnlyOnce(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	users := []models.RegisterRequest{
		{Email: "p@x.com", Role: models.RolePatient, Password: "password1"},
		{Email: "d@x.com", Role: models.RoleDoctor, Password: "password1"},
	}

	n, err := svc.Seed(ctx, users)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.Seed(ctx, users)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
