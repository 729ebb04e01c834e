package memstore

import (
	"context"
	"testing"
	"time"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	repo     *repository.Repository
	user     *entity.User
	category *entity.Category
	genre    *entity.Genre
	title    *entity.Title
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repo := NewRepository(New())
	now := time.Now()

	user := &entity.User{Base: entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username: "reviewer", Email: "reviewer@example.com", Role: entity.RoleUser, IsActive: true}
	require.NoError(t, repo.User.Create(ctx, user))

	category := &entity.Category{BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now}, Name: "Film", Slug: "film"}
	require.NoError(t, repo.Category.Create(ctx, category))

	genre := &entity.Genre{BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now}, Name: "Drama", Slug: "drama"}
	require.NoError(t, repo.Genre.Create(ctx, genre))

	title := &entity.Title{Base: entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name: "Solaris", Year: 1972, CategoryID: &category.ID}
	require.NoError(t, repo.Title.Create(ctx, title, []uuid.UUID{genre.ID}))

	return &fixture{repo: repo, user: user, category: category, genre: genre, title: title}
}

func (f *fixture) addReview(t *testing.T, score int) *entity.Review {
	t.Helper()
	author := &entity.User{Base: entity.Base{ID: uuid.New()},
		Username: "author-" + uuid.NewString()[:8], Email: uuid.NewString() + "@example.com"}
	require.NoError(t, f.repo.User.Create(context.Background(), author))

	review := &entity.Review{ID: uuid.New(), TitleID: f.title.ID, AuthorID: author.ID,
		Text: "fine", Score: score, PubDate: time.Now()}
	require.NoError(t, f.repo.Review.Create(context.Background(), review))
	return review
}

func TestUserRepo_UniqueUsernameAndEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dupName := &entity.User{Base: entity.Base{ID: uuid.New()}, Username: "reviewer", Email: "other@example.com"}
	assert.ErrorIs(t, f.repo.User.Create(ctx, dupName), repository.ErrDuplicate)

	dupEmail := &entity.User{Base: entity.Base{ID: uuid.New()}, Username: "another", Email: "reviewer@example.com"}
	assert.ErrorIs(t, f.repo.User.Create(ctx, dupEmail), repository.ErrDuplicate)
}

func TestReviewRepo_OnePerAuthorAndTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := &entity.Review{ID: uuid.New(), TitleID: f.title.ID, AuthorID: f.user.ID, Text: "a", Score: 5, PubDate: time.Now()}
	require.NoError(t, f.repo.Review.Create(ctx, first))

	second := &entity.Review{ID: uuid.New(), TitleID: f.title.ID, AuthorID: f.user.ID, Text: "b", Score: 6, PubDate: time.Now()}
	assert.ErrorIs(t, f.repo.Review.Create(ctx, second), repository.ErrDuplicate)

	got, err := f.repo.Review.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "reviewer", got.AuthorUsername)
}

func TestTitleRepo_RatingIsMeanOfScores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.repo.Title.FindByID(ctx, f.title.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Rating)

	f.addReview(t, 4)
	f.addReview(t, 7)

	got, err = f.repo.Title.FindByID(ctx, f.title.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 5.5, *got.Rating, 1e-9)
	require.NotNil(t, got.Category)
	assert.Equal(t, "film", got.Category.Slug)
	require.Len(t, got.Genres, 1)
	assert.Equal(t, "drama", got.Genres[0].Slug)
}

func TestTitleRepo_DeleteCascadesReviewsAndComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	review := f.addReview(t, 8)
	comment := &entity.Comment{ID: uuid.New(), ReviewID: review.ID, AuthorID: f.user.ID, Text: "agree", PubDate: time.Now()}
	require.NoError(t, f.repo.Comment.Create(ctx, comment))

	require.NoError(t, f.repo.Title.Delete(ctx, f.title.ID))

	gotReview, err := f.repo.Review.FindByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Nil(t, gotReview)

	gotComment, err := f.repo.Comment.FindByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Nil(t, gotComment)
}

func TestCategoryRepo_DeleteLeavesTitleWithoutCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.Category.Delete(ctx, f.category.ID))

	got, err := f.repo.Title.FindByID(ctx, f.title.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.Category)
}

func TestGenreRepo_DeleteUnlinksTitles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.Genre.Delete(ctx, f.genre.ID))

	got, err := f.repo.Title.FindByID(ctx, f.title.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Genres)
}

func TestUserRepo_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	review := &entity.Review{ID: uuid.New(), TitleID: f.title.ID, AuthorID: f.user.ID, Text: "a", Score: 5, PubDate: time.Now()}
	require.NoError(t, f.repo.Review.Create(ctx, review))

	require.NoError(t, f.repo.User.Delete(ctx, f.user.ID))

	count, err := f.repo.Review.CountByTitleID(ctx, f.title.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.ErrorIs(t, f.repo.User.Delete(ctx, f.user.ID), repository.ErrNotFound)
}

func TestTitleRepo_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := &entity.Title{Base: entity.Base{ID: uuid.New()}, Name: "Stalker", Year: 1979}
	require.NoError(t, f.repo.Title.Create(ctx, other, nil))

	year := 1979
	tests := []struct {
		name   string
		filter repository.TitleFilter
		want   []string
	}{
		{"no filter", repository.TitleFilter{}, []string{"Solaris", "Stalker"}},
		{"name contains", repository.TitleFilter{Name: "sol"}, []string{"Solaris"}},
		{"year", repository.TitleFilter{Year: &year}, []string{"Stalker"}},
		{"genre", repository.TitleFilter{Genre: "drama"}, []string{"Solaris"}},
		{"category", repository.TitleFilter{Category: "film"}, []string{"Solaris"}},
		{"unknown genre", repository.TitleFilter{Genre: "nope"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			titles, err := f.repo.Title.FindAll(ctx, tt.filter, 10, 0)
			require.NoError(t, err)

			names := []string{}
			for _, title := range titles {
				names = append(names, title.Name)
			}
			assert.Equal(t, tt.want, names)

			total, err := f.repo.Title.CountAll(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), total)
		})
	}
}

func TestConfirmationRepo_MarkAsUsedOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	code := &entity.ConfirmationCode{BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID: f.user.ID, Email: f.user.Email, CodeHash: "x", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, f.repo.Confirmation.Create(ctx, code))

	got, err := f.repo.Confirmation.FindLatestUnused(ctx, f.user.ID, f.user.Email)
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, f.repo.Confirmation.MarkAsUsed(ctx, code.ID))
	assert.ErrorIs(t, f.repo.Confirmation.MarkAsUsed(ctx, code.ID), repository.ErrNotFound)

	got, err = f.repo.Confirmation.FindLatestUnused(ctx, f.user.ID, f.user.Email)
	require.NoError(t, err)
	assert.Nil(t, got)
}
