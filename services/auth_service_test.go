package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salonpro-api/models"
	"salonpro-api/utils"
)

func TestAuthServiceLogin(t *testing.T) {
	_, store := newTestDB(t)
	ctx := context.Background()
	auth := NewAuthService(store, utils.NewTokenManager("test-secret", time.Hour), testLogger())

	require.NoError(t, auth.EnsureAdmin(ctx, "owner", "s3cret-pass", "Salon Owner"))
	// a second call leaves the existing user alone
	require.NoError(t, auth.EnsureAdmin(ctx, "owner", "other-pass", "Someone Else"))

	session, err := auth.Login(ctx, "owner", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "owner", session.User.Username)
	assert.Equal(t, "Salon Owner", session.User.Name)
	assert.Equal(t, models.RoleAdmin, session.User.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)

	user, err := auth.ValidateSession(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User, *user)

	stored, err := store.GetUserByUsername(ctx, "owner")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
}

func TestAuthServiceRejects(t *testing.T) {
	_, store := newTestDB(t)
	ctx := context.Background()
	auth := NewAuthService(store, utils.NewTokenManager("test-secret", time.Hour), testLogger())
	require.NoError(t, auth.EnsureAdmin(ctx, "owner", "s3cret-pass", ""))

	_, err := auth.Login(ctx, "owner", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = auth.Login(ctx, "nobody", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = auth.ValidateSession("")
	assert.ErrorIs(t, err, ErrUnauthorized)

	foreign := utils.NewTokenManager("another-secret", time.Hour)
	token, _, err := foreign.Generate(utils.SessionUser{ID: "x", Username: "owner", Role: models.RoleAdmin})
	require.NoError(t, err)
	_, err = auth.ValidateSession(token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestEnsureAdminWithoutCredentials(t *testing.T) {
	_, store := newTestDB(t)
	auth := NewAuthService(store, utils.NewTokenManager("s", time.Hour), testLogger())
	require.NoError(t, auth.EnsureAdmin(context.Background(), "", "", ""))

	_, err := store.GetUserByUsername(context.Background(), "admin")
	assert.ErrorIs(t, err, ErrNotFound)
}
