package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-booking/internal/domain"
	"event-booking/internal/store/memory"
	"event-booking/pkg/logger"
)

func newAuthService() AuthService {
	return NewAuthService(memory.New(), AuthConfig{
		Secret:   "test-secret",
		TokenTTL: time.Hour,
	}, logger.NewTest())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{
		Email:    "Organizer@Example.com",
		FullName: "Olive Organizer",
		Password: "s3cretpass",
		Role:     domain.UserRoleOrganizer,
	})
	require.NoError(t, err)
	assert.Equal(t, "organizer@example.com", reg.User.Email)
	assert.Equal(t, domain.UserRoleOrganizer, reg.User.Role)
	assert.NotEqual(t, "s3cretpass", reg.User.PasswordHash)
	assert.NotEmpty(t, reg.AccessToken)

	login, err := svc.Login(ctx, "organizer@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	userID, err := svc.ParseToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, userID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", FullName: "A", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@example.com", FullName: "B", Password: "password2"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", FullName: "A", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", FullName: "A", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.ParseToken(reg.AccessToken + "x")
	assert.ErrorIs(t, err, ErrUnauthorized)

	other := NewAuthService(memory.New(), AuthConfig{Secret: "other-secret", TokenTTL: time.Hour}, logger.NewTest())
	_, err = other.ParseToken(reg.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
