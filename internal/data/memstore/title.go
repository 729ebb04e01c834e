package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"

	"github.com/google/uuid"
)

type titleRepo struct{ s *Store }

// genresOfLocked returns copies of a title's genres sorted by name.
func (s *Store) genresOfLocked(titleID uuid.UUID) []*entity.Genre {
	genres := []*entity.Genre{}
	for _, gid := range s.titleGenres[titleID] {
		if g, ok := s.genres[gid]; ok {
			cp := *g
			genres = append(genres, &cp)
		}
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].Name < genres[j].Name })
	return genres
}

// hydrateLocked copies a stored title and fills its derived fields.
func (s *Store) hydrateLocked(t *entity.Title) *entity.Title {
	cp := *t
	cp.Category = nil
	if t.CategoryID != nil {
		id := *t.CategoryID
		cp.CategoryID = &id
		if c, ok := s.categories[id]; ok {
			cat := *c
			cp.Category = &cat
		}
	}
	cp.Genres = s.genresOfLocked(t.ID)

	var sum, n int
	for _, rv := range s.reviews {
		if rv.TitleID == t.ID {
			sum += rv.Score
			n++
		}
	}
	cp.Rating = nil
	if n > 0 {
		avg := float64(sum) / float64(n)
		cp.Rating = &avg
	}
	return &cp
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

func (r *titleRepo) Create(_ context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if title.CategoryID != nil {
		if _, ok := r.s.categories[*title.CategoryID]; !ok {
			return fmt.Errorf("create title %s: category %s does not exist", title.Name, title.CategoryID.String())
		}
	}
	for _, gid := range genreIDs {
		if _, ok := r.s.genres[gid]; !ok {
			return fmt.Errorf("create title %s: genre %s does not exist", title.Name, gid.String())
		}
	}

	cp := *title
	cp.Category, cp.Genres, cp.Rating = nil, nil, nil
	if title.CategoryID != nil {
		id := *title.CategoryID
		cp.CategoryID = &id
	}
	r.s.titles[title.ID] = &cp
	r.s.titleGenres[title.ID] = dedupe(genreIDs)
	return nil
}

func (r *titleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Title, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.titles[id]
	if !ok {
		return nil, nil
	}
	return r.s.hydrateLocked(t), nil
}

func (r *titleRepo) matches(t *entity.Title, f repository.TitleFilter) bool {
	if !strings.Contains(t.Name, f.Name) {
		return false
	}
	if f.Year != nil && t.Year != *f.Year {
		return false
	}
	if f.Category != "" && (t.Category == nil || t.Category.Slug != f.Category) {
		return false
	}
	if f.Genre != "" {
		for _, g := range t.Genres {
			if g.Slug == f.Genre {
				return true
			}
		}
		return false
	}
	return true
}

func (r *titleRepo) filtered(f repository.TitleFilter) []*entity.Title {
	out := make([]*entity.Title, 0, len(r.s.titles))
	for _, t := range r.s.titles {
		h := r.s.hydrateLocked(t)
		if r.matches(h, f) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (r *titleRepo) FindAll(_ context.Context, filter repository.TitleFilter, limit, offset int) ([]*entity.Title, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return paginate(r.filtered(filter), limit, offset), nil
}

func (r *titleRepo) CountAll(_ context.Context, filter repository.TitleFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.filtered(filter))), nil
}

func (r *titleRepo) Update(_ context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.titles[title.ID]; !ok {
		return fmt.Errorf("update title %s: %w", title.ID.String(), repository.ErrNotFound)
	}
	if title.CategoryID != nil {
		if _, ok := r.s.categories[*title.CategoryID]; !ok {
			return fmt.Errorf("update title %s: category %s does not exist", title.ID.String(), title.CategoryID.String())
		}
	}
	for _, gid := range genreIDs {
		if _, ok := r.s.genres[gid]; !ok {
			return fmt.Errorf("update title %s: genre %s does not exist", title.ID.String(), gid.String())
		}
	}

	cp := *title
	cp.Category, cp.Genres, cp.Rating = nil, nil, nil
	if title.CategoryID != nil {
		id := *title.CategoryID
		cp.CategoryID = &id
	}
	r.s.titles[title.ID] = &cp
	if genreIDs != nil {
		r.s.titleGenres[title.ID] = dedupe(genreIDs)
	}
	return nil
}

// Delete cascades to the title's reviews and their comments.
func (r *titleRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.titles[id]; !ok {
		return fmt.Errorf("delete title %s: %w", id.String(), repository.ErrNotFound)
	}
	delete(r.s.titles, id)
	delete(r.s.titleGenres, id)

	for rid, rv := range r.s.reviews {
		if rv.TitleID == id {
			r.s.deleteReviewLocked(rid)
		}
	}
	return nil
}
