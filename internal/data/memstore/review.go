package memstore

import (
	"context"
	"fmt"
	"sort"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"

	"github.com/google/uuid"
)

type reviewRepo struct{ s *Store }

func (s *Store) usernameLocked(id uuid.UUID) string {
	if u, ok := s.users[id]; ok {
		return u.Username
	}
	return ""
}

func (r *reviewRepo) Create(_ context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.titles[review.TitleID]; !ok {
		return fmt.Errorf("create review: title %s does not exist", review.TitleID.String())
	}
	if _, ok := r.s.users[review.AuthorID]; !ok {
		return fmt.Errorf("create review: user %s does not exist", review.AuthorID.String())
	}
	for _, rv := range r.s.reviews {
		if rv.AuthorID == review.AuthorID && rv.TitleID == review.TitleID {
			return fmt.Errorf("create review for title %s by user %s: %w",
				review.TitleID.String(), review.AuthorID.String(), repository.ErrDuplicate)
		}
	}

	cp := *review
	cp.AuthorUsername = ""
	r.s.reviews[review.ID] = &cp
	return nil
}

func (r *reviewRepo) copyLocked(rv *entity.Review) *entity.Review {
	cp := *rv
	cp.AuthorUsername = r.s.usernameLocked(rv.AuthorID)
	return &cp
}

func (r *reviewRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, nil
	}
	return r.copyLocked(rv), nil
}

func (r *reviewRepo) byTitleLocked(titleID uuid.UUID) []*entity.Review {
	out := []*entity.Review{}
	for _, rv := range r.s.reviews {
		if rv.TitleID == titleID {
			out = append(out, r.copyLocked(rv))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PubDate.Equal(out[j].PubDate) {
			return out[i].PubDate.After(out[j].PubDate)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (r *reviewRepo) FindByTitleID(_ context.Context, titleID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return paginate(r.byTitleLocked(titleID), limit, offset), nil
}

func (r *reviewRepo) FindByAuthorAndTitle(_ context.Context, authorID, titleID uuid.UUID) (*entity.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rv := range r.s.reviews {
		if rv.AuthorID == authorID && rv.TitleID == titleID {
			return r.copyLocked(rv), nil
		}
	}
	return nil, nil
}

func (r *reviewRepo) CountByTitleID(_ context.Context, titleID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.byTitleLocked(titleID))), nil
}

func (r *reviewRepo) Update(_ context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rv, ok := r.s.reviews[review.ID]
	if !ok {
		return fmt.Errorf("update review %s: %w", review.ID.String(), repository.ErrNotFound)
	}
	rv.Text = review.Text
	rv.Score = review.Score
	return nil
}

func (r *reviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reviews[id]; !ok {
		return fmt.Errorf("delete review %s: %w", id.String(), repository.ErrNotFound)
	}
	r.s.deleteReviewLocked(id)
	return nil
}

type commentRepo struct{ s *Store }

func (r *commentRepo) Create(_ context.Context, comment *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reviews[comment.ReviewID]; !ok {
		return fmt.Errorf("create comment: review %s does not exist", comment.ReviewID.String())
	}
	if _, ok := r.s.users[comment.AuthorID]; !ok {
		return fmt.Errorf("create comment: user %s does not exist", comment.AuthorID.String())
	}

	cp := *comment
	cp.AuthorUsername = ""
	r.s.comments[comment.ID] = &cp
	return nil
}

func (r *commentRepo) copyLocked(c *entity.Comment) *entity.Comment {
	cp := *c
	cp.AuthorUsername = r.s.usernameLocked(c.AuthorID)
	return &cp
}

func (r *commentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, nil
	}
	return r.copyLocked(c), nil
}

func (r *commentRepo) byReviewLocked(reviewID uuid.UUID) []*entity.Comment {
	out := []*entity.Comment{}
	for _, c := range r.s.comments {
		if c.ReviewID == reviewID {
			out = append(out, r.copyLocked(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PubDate.Equal(out[j].PubDate) {
			return out[i].PubDate.After(out[j].PubDate)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (r *commentRepo) FindByReviewID(_ context.Context, reviewID uuid.UUID, limit, offset int) ([]*entity.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return paginate(r.byReviewLocked(reviewID), limit, offset), nil
}

func (r *commentRepo) CountByReviewID(_ context.Context, reviewID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.byReviewLocked(reviewID))), nil
}

func (r *commentRepo) Update(_ context.Context, comment *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.comments[comment.ID]
	if !ok {
		return fmt.Errorf("update comment %s: %w", comment.ID.String(), repository.ErrNotFound)
	}
	c.Text = comment.Text
	return nil
}

func (r *commentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[id]; !ok {
		return fmt.Errorf("delete comment %s: %w", id.String(), repository.ErrNotFound)
	}
	delete(r.s.comments, id)
	return nil
}
