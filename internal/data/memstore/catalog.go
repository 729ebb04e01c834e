package memstore

import (
	"context"
	"fmt"
	"sort"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"

	"github.com/google/uuid"
)

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.categories {
		if c.Slug == category.Slug {
			return fmt.Errorf("create category %s: %w", category.Slug, repository.ErrDuplicate)
		}
	}

	cp := *category
	r.s.categories[category.ID] = &cp
	return nil
}

func (r *categoryRepo) FindBySlug(_ context.Context, slug string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *categoryRepo) filtered(search string) []*entity.Category {
	out := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		if containsFold(c.Name, search) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Slug < out[j].Slug
	})
	return out
}

func (r *categoryRepo) FindAll(_ context.Context, search string, limit, offset int) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return paginate(r.filtered(search), limit, offset), nil
}

func (r *categoryRepo) CountAll(_ context.Context, search string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.filtered(search))), nil
}

// Delete clears the category of every title that referenced it.
func (r *categoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return fmt.Errorf("delete category %s: %w", id.String(), repository.ErrNotFound)
	}
	delete(r.s.categories, id)

	for _, t := range r.s.titles {
		if t.CategoryID != nil && *t.CategoryID == id {
			t.CategoryID = nil
		}
	}
	return nil
}

type genreRepo struct{ s *Store }

func (r *genreRepo) Create(_ context.Context, genre *entity.Genre) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, g := range r.s.genres {
		if g.Slug == genre.Slug {
			return fmt.Errorf("create genre %s: %w", genre.Slug, repository.ErrDuplicate)
		}
	}

	cp := *genre
	r.s.genres[genre.ID] = &cp
	return nil
}

func (r *genreRepo) FindBySlug(_ context.Context, slug string) (*entity.Genre, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, g := range r.s.genres {
		if g.Slug == slug {
			cp := *g
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *genreRepo) FindBySlugs(_ context.Context, slugs []string) ([]*entity.Genre, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		wanted[slug] = struct{}{}
	}

	var out []*entity.Genre
	for _, g := range r.s.genres {
		if _, ok := wanted[g.Slug]; ok {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *genreRepo) FindByTitleID(_ context.Context, titleID uuid.UUID) ([]*entity.Genre, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.genresOfLocked(titleID), nil
}

func (r *genreRepo) filtered(search string) []*entity.Genre {
	out := make([]*entity.Genre, 0, len(r.s.genres))
	for _, g := range r.s.genres {
		if containsFold(g.Name, search) {
			cp := *g
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Slug < out[j].Slug
	})
	return out
}

func (r *genreRepo) FindAll(_ context.Context, search string, limit, offset int) ([]*entity.Genre, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return paginate(r.filtered(search), limit, offset), nil
}

func (r *genreRepo) CountAll(_ context.Context, search string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.filtered(search))), nil
}

// Delete also unlinks the genre from every title.
func (r *genreRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.genres[id]; !ok {
		return fmt.Errorf("delete genre %s: %w", id.String(), repository.ErrNotFound)
	}
	delete(r.s.genres, id)

	for titleID, ids := range r.s.titleGenres {
		kept := ids[:0]
		for _, gid := range ids {
			if gid != id {
				kept = append(kept, gid)
			}
		}
		r.s.titleGenres[titleID] = kept
	}
	return nil
}
