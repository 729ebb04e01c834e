// Package memstore keeps every repository in process memory. It enforces the
// same unique constraints and delete rules as the PostgreSQL schema and backs
// tests and DB_DRIVER=memory runs.
package memstore

import (
	"strings"
	"sync"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	users       map[uuid.UUID]*entity.User
	codes       map[uuid.UUID]*entity.ConfirmationCode
	categories  map[uuid.UUID]*entity.Category
	genres      map[uuid.UUID]*entity.Genre
	titles      map[uuid.UUID]*entity.Title
	titleGenres map[uuid.UUID][]uuid.UUID
	reviews     map[uuid.UUID]*entity.Review
	comments    map[uuid.UUID]*entity.Comment
}

func New() *Store {
	return &Store{
		users:       make(map[uuid.UUID]*entity.User),
		codes:       make(map[uuid.UUID]*entity.ConfirmationCode),
		categories:  make(map[uuid.UUID]*entity.Category),
		genres:      make(map[uuid.UUID]*entity.Genre),
		titles:      make(map[uuid.UUID]*entity.Title),
		titleGenres: make(map[uuid.UUID][]uuid.UUID),
		reviews:     make(map[uuid.UUID]*entity.Review),
		comments:    make(map[uuid.UUID]*entity.Comment),
	}
}

// NewRepository exposes a store through the repository interfaces.
func NewRepository(s *Store) *repository.Repository {
	return &repository.Repository{
		User:         &userRepo{s},
		Confirmation: &confirmationRepo{s},
		Category:     &categoryRepo{s},
		Genre:        &genreRepo{s},
		Title:        &titleRepo{s},
		Review:       &reviewRepo{s},
		Comment:      &commentRepo{s},
	}
}

func containsFold(s, substr string) bool {
	return substr == "" || strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// deleteReviewLocked removes a review and its comments. Callers hold mu.
func (s *Store) deleteReviewLocked(id uuid.UUID) {
	delete(s.reviews, id)
	for cid, c := range s.comments {
		if c.ReviewID == id {
			delete(s.comments, cid)
		}
	}
}
