package wire

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/memstore"
	"review-catalog/internal/data/repository"
	"review-catalog/pkg/jwt"
	"review-catalog/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type inbox struct {
	mu   sync.Mutex
	last map[string]string
}

func (m *inbox) Send(_ context.Context, to, _, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last[to] = body
	return nil
}

type testServer struct {
	t      *testing.T
	router http.Handler
	repo   *repository.Repository
	tokens *jwt.Service
	mail   *inbox
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	utils.HashCost = bcrypt.MinCost

	repo := memstore.NewRepository(memstore.New())
	config := &utils.Config{Confirmation: utils.ConfirmationConfig{ExpiryMinutes: 30, Length: 6}}
	tokens := jwt.NewService("wire-test-secret", time.Hour, 24*time.Hour)
	mail := &inbox{last: map[string]string{}}

	app := Wiring(repo, config, tokens, mail, zap.NewNop())
	return &testServer{t: t, router: app.Router, repo: repo, tokens: tokens, mail: mail}
}

// login stores an active user and returns a bearer token for it.
func (s *testServer) login(username string, role entity.UserRole) string {
	s.t.Helper()
	user := &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
		IsActive: true,
	}
	user.Normalize()
	require.NoError(s.t, s.repo.User.Create(context.Background(), user))

	pair, err := s.tokens.GeneratePair(user.ID.String(), user.Username)
	require.NoError(s.t, err)
	return pair.AccessToken
}

type envelope struct {
	Status     bool              `json:"status"`
	Message    string            `json:"message"`
	Data       json.RawMessage   `json:"data"`
	Errors     map[string]string `json:"errors"`
	Pagination *struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		PerPage    int   `json:"per_page"`
		TotalPages int   `json:"total_pages"`
	} `json:"pagination"`
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCategories_PermissionsAndStatusCodes(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin_user", entity.RoleAdmin)
	user := s.login("plain_user", entity.RoleUser)
	body := map[string]string{"name": "Film", "slug": "film"}

	rec, _ := s.do(http.MethodPost, "/api/v1/categories", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/categories", user, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := s.do(http.MethodPost, "/api/v1/categories", admin, body)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Status)

	rec, _ = s.do(http.MethodPost, "/api/v1/categories", admin, body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/categories/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, int64(1), env.Pagination.Total)

	rec, _ = s.do(http.MethodPut, "/api/v1/categories/film", admin, body)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec, _ = s.do(http.MethodDelete, "/api/v1/categories/film", admin, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = s.do(http.MethodDelete, "/api/v1/categories/film", admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthenticate_RejectsBadToken(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(http.MethodGet, "/api/v1/categories", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUsersMe(t *testing.T) {
	s := newTestServer(t)
	token := s.login("plain_user", entity.RoleUser)

	rec, _ := s.do(http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := s.do(http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"username":"plain_user"`)

	rec, env = s.do(http.MethodPatch, "/api/v1/users/me", token, map[string]string{"role": "admin", "bio": "hi"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"role":"user"`)

	rec, _ = s.do(http.MethodGet, "/api/v1/users", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

var codePattern = regexp.MustCompile(`confirmation code is (\d+)`)

func TestSignupTokenFlow(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{"username": "me", "email": "me@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{"username": "new_reader", "email": "reader@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)

	match := codePattern.FindStringSubmatch(s.mail.last["reader@example.com"])
	require.Len(t, match, 2)

	rec, env := s.do(http.MethodPost, "/api/v1/auth/token", "", map[string]string{"username": "new_reader", "confirmation_code": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Wrong confirm code", env.Message)

	rec, env = s.do(http.MethodPost, "/api/v1/auth/token", "", map[string]string{"username": "new_reader", "confirmation_code": match[1]})
	require.Equal(t, http.StatusOK, rec.Code)

	var pair struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &pair))

	rec, _ = s.do(http.MethodGet, "/api/v1/users/me", pair.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/auth/token/refresh", "", map[string]string{"refresh_token": pair.RefreshToken})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/auth/token", "", map[string]string{"username": "ghost_user", "confirmation_code": "123456"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTitleReviewFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin_user", entity.RoleAdmin)
	reader := s.login("reader_one", entity.RoleUser)

	rec, _ := s.do(http.MethodPost, "/api/v1/categories", admin, map[string]string{"name": "Film", "slug": "film"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = s.do(http.MethodPost, "/api/v1/genres", admin, map[string]string{"name": "Drama", "slug": "drama"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := s.do(http.MethodPost, "/api/v1/titles", admin, map[string]any{
		"name": "Solaris", "year": 1972, "category": "film", "genre": []string{"drama", "western"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, "genre")

	rec, env = s.do(http.MethodPost, "/api/v1/titles", admin, map[string]any{
		"name": "Solaris", "year": 1972, "category": "film", "genre": []string{"drama"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var title struct {
		ID     string   `json:"id"`
		Rating *float64 `json:"rating"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &title))
	assert.Nil(t, title.Rating)

	reviews := "/api/v1/titles/" + title.ID + "/reviews"
	rec, _ = s.do(http.MethodPost, reviews, "", map[string]any{"text": "great", "score": 9})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = s.do(http.MethodPost, reviews, reader, map[string]any{"text": "great", "score": 9})
	require.Equal(t, http.StatusCreated, rec.Code)

	var review struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &review))

	rec, _ = s.do(http.MethodPost, reviews, reader, map[string]any{"text": "again", "score": 1})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// object permission wins over a malformed body
	stranger := s.login("stranger_one", entity.RoleUser)
	rec = s.doRaw(http.MethodPatch, reviews+"/"+review.ID, stranger, "{bad")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.doRaw(http.MethodPatch, reviews+"/"+review.ID, reader, "{bad")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/titles/"+title.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &title))
	require.NotNil(t, title.Rating)
	assert.InDelta(t, 9.0, *title.Rating, 0.0001)

	comments := reviews + "/" + review.ID + "/comments"
	rec, _ = s.do(http.MethodPost, comments, admin, map[string]string{"text": "agreed"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, env = s.do(http.MethodGet, comments, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, int64(1), env.Pagination.Total)

	rec, env = s.do(http.MethodGet, "/api/v1/titles?genre=drama&year=1972", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), env.Pagination.Total)

	rec, _ = s.do(http.MethodGet, "/api/v1/titles?year=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodDelete, "/api/v1/titles/"+title.ID, admin, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = s.do(http.MethodGet, reviews, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/v1/titles/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func (s *testServer) doRaw(method, path, token, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestMalformedBody_PermissionCheckedFirst(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin_user", entity.RoleAdmin)
	user := s.login("plain_user", entity.RoleUser)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"anonymous category", http.MethodPost, "/api/v1/categories", "", http.StatusUnauthorized},
		{"user category", http.MethodPost, "/api/v1/categories", user, http.StatusForbidden},
		{"admin category", http.MethodPost, "/api/v1/categories", admin, http.StatusBadRequest},
		{"anonymous genre", http.MethodPost, "/api/v1/genres", "", http.StatusUnauthorized},
		{"user title", http.MethodPost, "/api/v1/titles", user, http.StatusForbidden},
		{"admin title", http.MethodPost, "/api/v1/titles", admin, http.StatusBadRequest},
		{"user creates user", http.MethodPost, "/api/v1/users", user, http.StatusForbidden},
		{"user patches user", http.MethodPatch, "/api/v1/users/admin_user", user, http.StatusForbidden},
		{"anonymous me", http.MethodPatch, "/api/v1/users/me", "", http.StatusUnauthorized},
		{"user me", http.MethodPatch, "/api/v1/users/me", user, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.doRaw(tt.method, tt.path, tt.token, "{bad")
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestMalformedBody_ReportsInvalidBody(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin_user", entity.RoleAdmin)

	rec := s.doRaw(http.MethodPost, "/api/v1/categories", admin, "{bad")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Status)
	assert.Equal(t, "Invalid request body", env.Message)
}
