package usecase

import (
	"context"
	"sync"
	"testing"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/dto/request"
	"review-catalog/internal/dto/response"
	"review-catalog/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTitle(t *testing.T, env *testEnv) (policy.Caller, *response.TitleResponse) {
	t.Helper()
	admin := env.addUser(t, "admin_user", entity.RoleAdmin)
	env.addCatalog(t, admin)

	title, err := env.svc.Title.Create(context.Background(), admin, &request.TitleRequest{
		Name: "Solaris", Year: intPtr(1972), Category: "film",
	})
	require.NoError(t, err)
	return admin, title
}

func reviewReq(text string, score int) *request.CreateReviewRequest {
	return &request.CreateReviewRequest{Text: text, Score: intPtr(score)}
}

func TestReviewService_RatingIsMeanScore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, title := newTitle(t, env)

	for i, score := range []int{3, 8, 10} {
		author := env.addUser(t, "author_"+string(rune('a'+i))+"x", entity.RoleUser)
		_, err := env.svc.Review.Create(ctx, author, title.ID, reviewReq("ok", score))
		require.NoError(t, err)
	}

	got, err := env.svc.Title.Get(ctx, title.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 7.0, *got.Rating, 0.0001)
}

func TestReviewService_ZeroScoreAccepted(t *testing.T) {
	env := newTestEnv(t)
	_, title := newTitle(t, env)
	author := env.addUser(t, "harsh_critic", entity.RoleUser)

	review, err := env.svc.Review.Create(context.Background(), author, title.ID, reviewReq("awful", 0))
	require.NoError(t, err)
	assert.Equal(t, 0, review.Score)
	assert.Equal(t, "harsh_critic", review.Author)
}

func TestReviewService_ScoreOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	_, title := newTitle(t, env)
	author := env.addUser(t, "generous1", entity.RoleUser)

	_, err := env.svc.Review.Create(context.Background(), author, title.ID, reviewReq("great", 11))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "score")
}

func TestReviewService_SecondReviewConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, title := newTitle(t, env)
	author := env.addUser(t, "reviewer1", entity.RoleUser)

	_, err := env.svc.Review.Create(ctx, author, title.ID, reviewReq("first", 7))
	require.NoError(t, err)

	_, err = env.svc.Review.Create(ctx, author, title.ID, reviewReq("second", 2))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestReviewService_ConcurrentDuplicateCreatesOne(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, title := newTitle(t, env)
	author := env.addUser(t, "reviewer1", entity.RoleUser)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.Review.Create(ctx, author, title.ID, reviewReq("race", 5))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
			} else if assert.ErrorIs(t, err, ErrConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicts)

	list, err := env.svc.Review.List(ctx, title.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Pagination.Total)
}

func TestReviewService_ObjectPermissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin, title := newTitle(t, env)
	author := env.addUser(t, "reviewer1", entity.RoleUser)
	stranger := env.addUser(t, "stranger1", entity.RoleUser)
	moderator := env.addUser(t, "moderator1", entity.RoleModerator)

	review, err := env.svc.Review.Create(ctx, author, title.ID, reviewReq("mine", 6))
	require.NoError(t, err)

	_, err = env.svc.Review.Update(ctx, stranger, title.ID, review.ID, &request.UpdateReviewRequest{Text: strPtr("hijack")})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = env.svc.Review.Update(ctx, policy.Anonymous(), title.ID, review.ID, &request.UpdateReviewRequest{Text: strPtr("hijack")})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	updated, err := env.svc.Review.Update(ctx, moderator, title.ID, review.ID, &request.UpdateReviewRequest{Score: intPtr(9)})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Score)
	assert.Equal(t, "mine", updated.Text)

	assert.ErrorIs(t, env.svc.Review.Delete(ctx, stranger, title.ID, review.ID), ErrPermissionDenied)
	require.NoError(t, env.svc.Review.Delete(ctx, admin, title.ID, review.ID))

	_, err = env.svc.Review.Get(ctx, title.ID, review.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewService_WrongTitleIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin, title := newTitle(t, env)
	author := env.addUser(t, "reviewer1", entity.RoleUser)

	other, err := env.svc.Title.Create(ctx, admin, &request.TitleRequest{Name: "Stalker", Year: intPtr(1979), Category: "film"})
	require.NoError(t, err)

	review, err := env.svc.Review.Create(ctx, author, title.ID, reviewReq("mine", 6))
	require.NoError(t, err)

	_, err = env.svc.Review.Get(ctx, other.ID, review.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentService_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, title := newTitle(t, env)
	author := env.addUser(t, "reviewer1", entity.RoleUser)
	commenter := env.addUser(t, "commenter1", entity.RoleUser)

	review, err := env.svc.Review.Create(ctx, author, title.ID, reviewReq("mine", 6))
	require.NoError(t, err)

	comment, err := env.svc.Comment.Create(ctx, commenter, title.ID, review.ID, &request.CreateCommentRequest{Text: "agreed"})
	require.NoError(t, err)
	assert.Equal(t, "commenter1", comment.Author)

	other, err := env.svc.Title.Create(ctx, env.addUser(t, "admin_two", entity.RoleAdmin), &request.TitleRequest{Name: "Stalker", Year: intPtr(1979), Category: "film"})
	require.NoError(t, err)
	_, err = env.svc.Comment.Get(ctx, other.ID, review.ID, comment.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.svc.Comment.List(ctx, other.ID, review.ID, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.Comment.Update(ctx, author, title.ID, review.ID, comment.ID, &request.UpdateCommentRequest{Text: strPtr("edited")})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	updated, err := env.svc.Comment.Update(ctx, commenter, title.ID, review.ID, comment.ID, &request.UpdateCommentRequest{Text: strPtr("edited")})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)

	list, err := env.svc.Comment.List(ctx, title.ID, review.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Pagination.Total)

	require.NoError(t, env.svc.Comment.Delete(ctx, commenter, title.ID, review.ID, comment.ID))
	_, err = env.svc.Comment.Get(ctx, title.ID, review.ID, comment.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTitleService_DeleteCascadesReviews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin, title := newTitle(t, env)
	author := env.addUser(t, "reviewer1", entity.RoleUser)

	review, err := env.svc.Review.Create(ctx, author, title.ID, reviewReq("mine", 6))
	require.NoError(t, err)
	_, err = env.svc.Comment.Create(ctx, author, title.ID, review.ID, &request.CreateCommentRequest{Text: "self reply"})
	require.NoError(t, err)

	require.NoError(t, env.svc.Title.Delete(ctx, admin, title.ID))

	_, err = env.svc.Review.List(ctx, title.ID, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	id, err := parseID("review", review.ID)
	require.NoError(t, err)
	stored, err := env.repo.Review.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, stored)
}
