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

type GenreService interface {
	List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.GenreResponse], error)
	Create(ctx context.Context, caller policy.Caller, req *request.GenreRequest) (*response.GenreResponse, error)
	Delete(ctx context.Context, caller policy.Caller, slug string) error
}

type genreService struct {
	repo   repository.GenreRepository
	policy policy.Policy
	log    *zap.Logger
}

func NewGenreService(repo repository.GenreRepository, log *zap.Logger) GenreService {
	return &genreService{
		repo:   repo,
		policy: policy.SafeOrElevated{},
		log:    log.With(zap.String("service", "genre")),
	}
}

func (s *genreService) List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.GenreResponse], error) {
	page := normalizePage(req)

	genres, err := s.repo.FindAll(ctx, page.Search, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}

	total, err := s.repo.CountAll(ctx, page.Search)
	if err != nil {
		return nil, fmt.Errorf("count genres: %w", err)
	}

	items := make([]response.GenreResponse, len(genres))
	for i, g := range genres {
		items[i] = response.GenreToResponse(g)
	}

	return response.NewPaginatedResponse(items, page.Page, page.PerPage, total), nil
}

func (s *genreService) Create(ctx context.Context, caller policy.Caller, req *request.GenreRequest) (*response.GenreResponse, error) {
	if err := checkClass(s.policy, caller, http.MethodPost); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		s.log.Warn("Create genre validation failed", zap.Error(err))
		return nil, err
	}

	existing, err := s.repo.FindBySlug(ctx, req.Slug)
	if err != nil {
		return nil, fmt.Errorf("check genre slug: %w", err)
	}
	if existing != nil {
		return nil, conflictError("slug")
	}

	genre := &entity.Genre{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Name: req.Name,
		Slug: req.Slug,
	}

	if err := s.repo.Create(ctx, genre); err != nil {
		if isDuplicate(err) {
			return nil, conflictError("slug")
		}
		return nil, fmt.Errorf("create genre: %w", err)
	}

	s.log.Info("Genre created",
		zap.String("slug", genre.Slug),
		zap.String("by", caller.Username),
	)

	resp := response.GenreToResponse(genre)
	return &resp, nil
}

func (s *genreService) Delete(ctx context.Context, caller policy.Caller, slug string) error {
	if err := checkClass(s.policy, caller, http.MethodDelete); err != nil {
		return err
	}

	genre, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("find genre: %w", err)
	}
	if genre == nil {
		return fmt.Errorf("genre %s: %w", slug, ErrNotFound)
	}

	if err := s.repo.Delete(ctx, genre.ID); err != nil {
		if isMissing(err) {
			return fmt.Errorf("genre %s: %w", slug, ErrNotFound)
		}
		return fmt.Errorf("delete genre: %w", err)
	}

	s.log.Info("Genre deleted",
		zap.String("slug", slug),
		zap.String("by", caller.Username),
	)
	return nil
}
