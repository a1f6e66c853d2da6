package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/club-access-service/internal/auth"
	"github.com/spec-kit/club-access-service/internal/config"
	"github.com/spec-kit/club-access-service/internal/domain"
)

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("s3cret", 4)
	require.NoError(t, err)

	operators := &MockOperatorRepository{}
	operators.On("GetByEmail", mock.Anything, "admin@club.test").
		Return(&domain.Operator{ID: "op-1", Role: domain.OperatorRoleAdmin, PasswordHash: hash, Active: true}, nil)
	operators.On("GetByEmail", mock.Anything, "ghost@club.test").Return(nil, pgx.ErrNoRows)
	operators.On("GetByEmail", mock.Anything, "old@club.test").
		Return(&domain.Operator{ID: "op-2", PasswordHash: hash, Active: false}, nil)

	svc := NewAuthService(config.AuthConfig{JWTSecret: "secret", AccessTokenTTLMinutes: 10}, operators)
	ctx := context.Background()

	op, token, _, err := svc.Login(ctx, "admin@club.test", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "op-1", op.ID)
	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.OperatorRoleAdmin, claims.Role)

	_, _, _, err = svc.Login(ctx, "admin@club.test", "wrong")
	assert.Equal(t, "UNAUTHORIZED", codeOf(err))
	_, _, _, err = svc.Login(ctx, "ghost@club.test", "s3cret")
	assert.Equal(t, "UNAUTHORIZED", codeOf(err))
	_, _, _, err = svc.Login(ctx, "old@club.test", "s3cret")
	assert.Equal(t, "FORBIDDEN", codeOf(err))
	_, _, _, err = svc.Login(ctx, "", "")
	assert.Equal(t, "VALIDATION_FAILED", codeOf(err))
}
