package usecase

import (
	"context"
	"testing"
	"time"

	"review-catalog/internal/dto/request"
	"review-catalog/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signup(t *testing.T, env *testEnv, username, email string) string {
	t.Helper()
	resp, err := env.svc.Auth.Signup(context.Background(), &request.SignupRequest{Username: username, Email: email})
	require.NoError(t, err)
	assert.Equal(t, username, resp.Username)
	assert.Equal(t, email, resp.Email)
	return env.mail.lastCode(t, email)
}

func TestAuthService_SignupThenTokenActivatesUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	code := signup(t, env, "alice_r", "alice@example.com")

	user, err := env.repo.User.FindByUsername(ctx, "alice_r")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.False(t, user.IsActive)

	tokens, err := env.svc.Auth.Token(ctx, &request.TokenRequest{Username: "alice_r", ConfirmationCode: code})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	claims, err := env.tokens.ValidateToken(tokens.AccessToken, jwt.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)

	user, err = env.repo.User.FindByUsername(ctx, "alice_r")
	require.NoError(t, err)
	assert.True(t, user.IsActive)
}

func TestAuthService_TokenWrongCodeKeepsUserInactive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	code := signup(t, env, "alice_r", "alice@example.com")
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	_, err := env.svc.Auth.Token(ctx, &request.TokenRequest{Username: "alice_r", ConfirmationCode: wrong})
	assert.ErrorIs(t, err, ErrWrongCode)

	user, err := env.repo.User.FindByUsername(ctx, "alice_r")
	require.NoError(t, err)
	assert.False(t, user.IsActive)
}

func TestAuthService_TokenCodeIsSingleUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	code := signup(t, env, "alice_r", "alice@example.com")
	req := &request.TokenRequest{Username: "alice_r", ConfirmationCode: code}

	_, err := env.svc.Auth.Token(ctx, req)
	require.NoError(t, err)

	_, err = env.svc.Auth.Token(ctx, req)
	assert.ErrorIs(t, err, ErrWrongCode)
}

func TestAuthService_TokenExpiredCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	code := signup(t, env, "alice_r", "alice@example.com")

	env.svc.Auth.(*authService).now = func() time.Time { return time.Now().Add(31 * time.Minute) }

	_, err := env.svc.Auth.Token(ctx, &request.TokenRequest{Username: "alice_r", ConfirmationCode: code})
	assert.ErrorIs(t, err, ErrWrongCode)
}

func TestAuthService_TokenUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Auth.Token(context.Background(), &request.TokenRequest{Username: "nobody_here", ConfirmationCode: "123456"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthService_SignupAgainReissuesCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := signup(t, env, "alice_r", "alice@example.com")
	second := signup(t, env, "alice_r", "alice@example.com")

	total, err := env.repo.User.CountAll(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	if first != second {
		_, err = env.svc.Auth.Token(ctx, &request.TokenRequest{Username: "alice_r", ConfirmationCode: first})
		assert.ErrorIs(t, err, ErrWrongCode)
	}

	_, err = env.svc.Auth.Token(ctx, &request.TokenRequest{Username: "alice_r", ConfirmationCode: second})
	assert.NoError(t, err)
}

func TestAuthService_SignupPartialClash(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	signup(t, env, "alice_r", "alice@example.com")

	tests := []struct {
		name string
		req  request.SignupRequest
	}{
		{"username taken", request.SignupRequest{Username: "alice_r", Email: "other@example.com"}},
		{"email taken", request.SignupRequest{Username: "bob_smith", Email: "alice@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Auth.Signup(ctx, &tt.req)
			assert.ErrorIs(t, err, ErrConflict)
		})
	}
}

func TestAuthService_SignupValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		req   request.SignupRequest
		field string
	}{
		{"reserved username", request.SignupRequest{Username: "me", Email: "me@example.com"}, "username"},
		{"short username", request.SignupRequest{Username: "bob", Email: "bob@example.com"}, "username"},
		{"five characters", request.SignupRequest{Username: "abcde", Email: "abcde@example.com"}, "username"},
		{"bad characters", request.SignupRequest{Username: "bob smith", Email: "bob@example.com"}, "username"},
		{"bad email", request.SignupRequest{Username: "bob_smith", Email: "not-an-email"}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Auth.Signup(context.Background(), &tt.req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestAuthService_SignupAcceptsMinimumUsername(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.svc.Auth.Signup(context.Background(), &request.SignupRequest{Username: "abcdef", Email: "abcdef@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "abcdef", resp.Username)
}

func TestAuthService_Refresh(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	code := signup(t, env, "alice_r", "alice@example.com")
	pair, err := env.svc.Auth.Token(ctx, &request.TokenRequest{Username: "alice_r", ConfirmationCode: code})
	require.NoError(t, err)

	refreshed, err := env.svc.Auth.Refresh(ctx, &request.RefreshTokenRequest{RefreshToken: pair.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = env.svc.Auth.Refresh(ctx, &request.RefreshTokenRequest{RefreshToken: pair.AccessToken})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
