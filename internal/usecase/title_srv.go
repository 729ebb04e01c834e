package usecase

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"
	"review-catalog/internal/dto/request"
	"review-catalog/internal/dto/response"
	"review-catalog/internal/policy"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TitleService interface {
	List(ctx context.Context, req *request.TitleListRequest) (*response.PaginatedResponse[response.TitleResponse], error)
	Get(ctx context.Context, titleID string) (*response.TitleResponse, error)
	Create(ctx context.Context, caller policy.Caller, req *request.TitleRequest) (*response.TitleResponse, error)
	Update(ctx context.Context, caller policy.Caller, titleID string, req *request.TitleUpdateRequest) (*response.TitleResponse, error)
	Delete(ctx context.Context, caller policy.Caller, titleID string) error
}

type titleService struct {
	repo   *repository.Repository
	policy policy.Policy
	log    *zap.Logger
}

func NewTitleService(repo *repository.Repository, log *zap.Logger) TitleService {
	return &titleService{
		repo:   repo,
		policy: policy.SafeOrElevated{},
		log:    log.With(zap.String("service", "title")),
	}
}

func (s *titleService) List(ctx context.Context, req *request.TitleListRequest) (*response.PaginatedResponse[response.TitleResponse], error) {
	page := normalizePage(&req.PaginatedRequest)
	filter := repository.TitleFilter{
		Name:     req.Name,
		Year:     req.Year,
		Genre:    req.Genre,
		Category: req.Category,
	}

	titles, err := s.repo.Title.FindAll(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}

	total, err := s.repo.Title.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count titles: %w", err)
	}

	items := make([]response.TitleResponse, len(titles))
	for i, t := range titles {
		items[i] = response.TitleToResponse(t)
	}

	return response.NewPaginatedResponse(items, page.Page, page.PerPage, total), nil
}

func (s *titleService) Get(ctx context.Context, titleID string) (*response.TitleResponse, error) {
	title, err := s.findTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}

	resp := response.TitleToResponse(title)
	return &resp, nil
}

func (s *titleService) Create(ctx context.Context, caller policy.Caller, req *request.TitleRequest) (*response.TitleResponse, error) {
	if err := checkClass(s.policy, caller, http.MethodPost); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		s.log.Warn("Create title validation failed", zap.Error(err))
		return nil, err
	}

	category, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	genreIDs, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	title := &entity.Title{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Year:        *req.Year,
		Description: req.Description,
		CategoryID:  &category.ID,
	}

	if err := s.repo.Title.Create(ctx, title, genreIDs); err != nil {
		return nil, fmt.Errorf("create title: %w", err)
	}

	s.log.Info("Title created",
		zap.String("title_id", title.ID.String()),
		zap.String("name", title.Name),
		zap.Int("genres", len(genreIDs)),
	)

	return s.reload(ctx, title.ID)
}

func (s *titleService) Update(ctx context.Context, caller policy.Caller, titleID string, req *request.TitleUpdateRequest) (*response.TitleResponse, error) {
	if err := checkClass(s.policy, caller, http.MethodPatch); err != nil {
		return nil, err
	}

	title, err := s.findTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		s.log.Warn("Update title validation failed", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = *req.Description
	}
	if req.Category != nil {
		category, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	var genreIDs []uuid.UUID
	if req.Genre != nil {
		genreIDs, err = s.resolveGenres(ctx, *req.Genre)
		if err != nil {
			return nil, err
		}
		if genreIDs == nil {
			genreIDs = []uuid.UUID{}
		}
	}

	title.UpdatedAt = time.Now()
	if err := s.repo.Title.Update(ctx, title, genreIDs); err != nil {
		if isMissing(err) {
			return nil, fmt.Errorf("title %s: %w", titleID, ErrNotFound)
		}
		return nil, fmt.Errorf("update title: %w", err)
	}

	s.log.Info("Title updated", zap.String("title_id", titleID))

	return s.reload(ctx, title.ID)
}

func (s *titleService) Delete(ctx context.Context, caller policy.Caller, titleID string) error {
	if err := checkClass(s.policy, caller, http.MethodDelete); err != nil {
		return err
	}

	id, err := parseID("title", titleID)
	if err != nil {
		return err
	}

	if err := s.repo.Title.Delete(ctx, id); err != nil {
		if isMissing(err) {
			return fmt.Errorf("title %s: %w", titleID, ErrNotFound)
		}
		return fmt.Errorf("delete title: %w", err)
	}

	s.log.Info("Title deleted",
		zap.String("title_id", titleID),
		zap.String("by", caller.Username),
	)
	return nil
}

// ==================== HELPER METHODS ====================

func (s *titleService) findTitle(ctx context.Context, titleID string) (*entity.Title, error) {
	id, err := parseID("title", titleID)
	if err != nil {
		return nil, err
	}

	title, err := s.repo.Title.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find title: %w", err)
	}
	if title == nil {
		return nil, fmt.Errorf("title %s: %w", titleID, ErrNotFound)
	}
	return title, nil
}

func (s *titleService) reload(ctx context.Context, id uuid.UUID) (*response.TitleResponse, error) {
	title, err := s.repo.Title.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload title: %w", err)
	}
	if title == nil {
		return nil, fmt.Errorf("title %s: %w", id.String(), ErrNotFound)
	}

	resp := response.TitleToResponse(title)
	return &resp, nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*entity.Category, error) {
	category, err := s.repo.Category.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if category == nil {
		return nil, newValidationError("category", fmt.Sprintf("Object with slug=%s does not exist", slug))
	}
	return category, nil
}

// resolveGenres maps slugs to ids; any unknown slug fails the whole request.
func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]uuid.UUID, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	unique := make([]string, 0, len(slugs))
	seen := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		if _, ok := seen[slug]; !ok {
			seen[slug] = struct{}{}
			unique = append(unique, slug)
		}
	}

	genres, err := s.repo.Genre.FindBySlugs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("find genres: %w", err)
	}

	found := make(map[string]uuid.UUID, len(genres))
	for _, g := range genres {
		found[g.Slug] = g.ID
	}

	var missing []string
	ids := make([]uuid.UUID, 0, len(unique))
	for _, slug := range unique {
		id, ok := found[slug]
		if !ok {
			missing = append(missing, slug)
			continue
		}
		ids = append(ids, id)
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, newValidationError("genre",
			fmt.Sprintf("Object with slug=%s does not exist", strings.Join(missing, ", ")))
	}

	return ids, nil
}
