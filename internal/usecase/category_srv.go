package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"
	"review-catalog/internal/dto/request"
	"review-catalog/internal/dto/response"
	"review-catalog/internal/policy"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CategoryService interface {
	List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CategoryResponse], error)
	Create(ctx context.Context, caller policy.Caller, req *request.CategoryRequest) (*response.CategoryResponse, error)
	Delete(ctx context.Context, caller policy.Caller, slug string) error
}

type categoryService struct {
	repo   repository.CategoryRepository
	policy policy.Policy
	log    *zap.Logger
}

func NewCategoryService(repo repository.CategoryRepository, log *zap.Logger) CategoryService {
	return &categoryService{
		repo:   repo,
		policy: policy.SafeOrElevated{},
		log:    log.With(zap.String("service", "category")),
	}
}

func (s *categoryService) List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CategoryResponse], error) {
	page := normalizePage(req)

	categories, err := s.repo.FindAll(ctx, page.Search, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	total, err := s.repo.CountAll(ctx, page.Search)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}

	items := make([]response.CategoryResponse, len(categories))
	for i, c := range categories {
		items[i] = response.CategoryToResponse(c)
	}

	return response.NewPaginatedResponse(items, page.Page, page.PerPage, total), nil
}

func (s *categoryService) Create(ctx context.Context, caller policy.Caller, req *request.CategoryRequest) (*response.CategoryResponse, error) {
	if err := checkClass(s.policy, caller, http.MethodPost); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		s.log.Warn("Create category validation failed", zap.Error(err))
		return nil, err
	}

	existing, err := s.repo.FindBySlug(ctx, req.Slug)
	if err != nil {
		return nil, fmt.Errorf("check category slug: %w", err)
	}
	if existing != nil {
		return nil, conflictError("slug")
	}

	category := &entity.Category{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Name: req.Name,
		Slug: req.Slug,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		if isDuplicate(err) {
			return nil, conflictError("slug")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.log.Info("Category created",
		zap.String("slug", category.Slug),
		zap.String("by", caller.Username),
	)

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *categoryService) Delete(ctx context.Context, caller policy.Caller, slug string) error {
	if err := checkClass(s.policy, caller, http.MethodDelete); err != nil {
		return err
	}

	category, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("find category: %w", err)
	}
	if category == nil {
		return fmt.Errorf("category %s: %w", slug, ErrNotFound)
	}

	if err := s.repo.Delete(ctx, category.ID); err != nil {
		if isMissing(err) {
			return fmt.Errorf("category %s: %w", slug, ErrNotFound)
		}
		return fmt.Errorf("delete category: %w", err)
	}

	s.log.Info("Category deleted",
		zap.String("slug", slug),
		zap.String("by", caller.Username),
	)
	return nil
}
