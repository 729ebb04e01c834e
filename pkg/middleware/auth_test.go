package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/memstore"
	"review-catalog/internal/policy"
	"review-catalog/pkg/jwt"
	"review-catalog/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuthenticate(t *testing.T) {
	repo := memstore.NewRepository(memstore.New())
	tokens := jwt.NewService("secret", time.Hour, 24*time.Hour)

	active := &entity.User{Base: entity.Base{ID: uuid.New()}, Username: "active_user", Email: "a@example.com", Role: entity.RoleModerator, IsActive: true}
	active.Normalize()
	inactive := &entity.User{Base: entity.Base{ID: uuid.New()}, Username: "pending_user", Email: "p@example.com", Role: entity.RoleUser}
	require.NoError(t, repo.User.Create(context.Background(), active))
	require.NoError(t, repo.User.Create(context.Background(), inactive))

	activePair, err := tokens.GeneratePair(active.ID.String(), active.Username)
	require.NoError(t, err)
	inactivePair, err := tokens.GeneratePair(inactive.ID.String(), inactive.Username)
	require.NoError(t, err)
	ghostPair, err := tokens.GeneratePair(uuid.NewString(), "ghost")
	require.NoError(t, err)

	var seen policy.Caller
	handler := Authenticate(tokens, repo.User, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = utils.GetCallerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{"no header is anonymous", "", http.StatusOK, ""},
		{"valid access token", "Bearer " + activePair.AccessToken, http.StatusOK, "active_user"},
		{"refresh token rejected", "Bearer " + activePair.RefreshToken, http.StatusUnauthorized, ""},
		{"inactive user", "Bearer " + inactivePair.AccessToken, http.StatusUnauthorized, ""},
		{"unknown user", "Bearer " + ghostPair.AccessToken, http.StatusUnauthorized, ""},
		{"wrong scheme", "Token " + activePair.AccessToken, http.StatusUnauthorized, ""},
		{"garbage", "Bearer nonsense", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = policy.Caller{}
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUser, seen.Username)
			if tt.wantUser != "" {
				assert.True(t, seen.IsModerator())
			}
		})
	}
}

func TestRecover(t *testing.T) {
	handler := Recover(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":false`)
}
