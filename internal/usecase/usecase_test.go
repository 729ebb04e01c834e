package usecase

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/memstore"
	"review-catalog/internal/data/repository"
	"review-catalog/internal/dto/request"
	"review-catalog/internal/policy"
	"review-catalog/pkg/jwt"
	"review-catalog/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// captureMailer keeps every message so tests can read the codes back.
type captureMailer struct {
	mu   sync.Mutex
	sent map[string][]string
}

func (m *captureMailer) Send(_ context.Context, to, _, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sent == nil {
		m.sent = make(map[string][]string)
	}
	m.sent[to] = append(m.sent[to], body)
	return nil
}

var codePattern = regexp.MustCompile(`confirmation code is (\d+)`)

func (m *captureMailer) lastCode(t *testing.T, to string) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	bodies := m.sent[to]
	require.NotEmpty(t, bodies, "no mail sent to %s", to)
	match := codePattern.FindStringSubmatch(bodies[len(bodies)-1])
	require.Len(t, match, 2)
	return match[1]
}

type testEnv struct {
	repo   *repository.Repository
	svc    *Service
	mail   *captureMailer
	tokens *jwt.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	utils.HashCost = bcrypt.MinCost

	repo := memstore.NewRepository(memstore.New())
	config := &utils.Config{
		Confirmation: utils.ConfirmationConfig{ExpiryMinutes: 30, Length: 6},
	}
	tokens := jwt.NewService("test-secret", time.Hour, 24*time.Hour)
	mail := &captureMailer{}

	return &testEnv{
		repo:   repo,
		svc:    NewService(repo, config, tokens, mail, zap.NewNop()),
		mail:   mail,
		tokens: tokens,
	}
}

// addUser stores an active user with the given role and returns its caller.
func (e *testEnv) addUser(t *testing.T, username string, role entity.UserRole) policy.Caller {
	t.Helper()
	now := time.Now()
	user := &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
		IsActive: true,
	}
	user.Normalize()
	require.NoError(t, e.repo.User.Create(context.Background(), user))
	return policy.CallerFromUser(user)
}

// addCatalog creates a category and a few genres through the services.
func (e *testEnv) addCatalog(t *testing.T, admin policy.Caller) {
	t.Helper()
	ctx := context.Background()
	_, err := e.svc.Category.Create(ctx, admin, categoryReq("Film", "film"))
	require.NoError(t, err)
	_, err = e.svc.Category.Create(ctx, admin, categoryReq("Book", "book"))
	require.NoError(t, err)
	for _, slug := range []string{"drama", "comedy", "sci-fi"} {
		_, err = e.svc.Genre.Create(ctx, admin, genreReq(slug, slug))
		require.NoError(t, err)
	}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func slicePtr(v []string) *[]string { return &v }

func categoryReq(name, slug string) *request.CategoryRequest {
	return &request.CategoryRequest{Name: name, Slug: slug}
}

func genreReq(name, slug string) *request.GenreRequest {
	return &request.GenreRequest{Name: name, Slug: slug}
}
