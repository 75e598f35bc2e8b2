package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipez/backend/internal/service"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupDB(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	token, err := svc.Register(ctx, "cook@example.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", claims.Email)

	loginToken, err := svc.Login(ctx, "cook@example.com", "password123")
	require.NoError(t, err)

	loginClaims, err := svc.ValidateToken(loginToken)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, loginClaims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupDB(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, "cook@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "cook@example.com", "different456")
	assert.ErrorIs(t, err, service.ErrEmailTaken)

	// The unique constraint, not a pre-check, rejects the duplicate; it must
	// still surface as the taxonomy error, not a storage failure.
	var serr *service.StorageError
	assert.False(t, errors.As(err, &serr))
}

func TestLoginInvalidCredentials(t *testing.T) {
	db := setupDB(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, "cook@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "cook@example.com", "wrongpass")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	db := setupDB(t)
	svc := service.NewAuthService(db, "test-secret")

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	db := setupDB(t)
	issuer := service.NewAuthService(db, "secret-a")
	verifier := service.NewAuthService(db, "secret-b")
	ctx := context.Background()

	token, err := issuer.Register(ctx, "cook@example.com", "password123")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}
