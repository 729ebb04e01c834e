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

type ReviewService interface {
	List(ctx context.Context, titleID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	Get(ctx context.Context, titleID, reviewID string) (*response.ReviewResponse, error)
	Create(ctx context.Context, caller policy.Caller, titleID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	Update(ctx context.Context, caller policy.Caller, titleID, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	Delete(ctx context.Context, caller policy.Caller, titleID, reviewID string) error
}

type reviewService struct {
	repo   *repository.Repository
	policy policy.Policy
	log    *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:   repo,
		policy: policy.AuthorOrElevatedOrReadOnly{},
		log:    log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) List(ctx context.Context, titleID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	title, err := findTitleByID(ctx, s.repo, titleID)
	if err != nil {
		return nil, err
	}

	page := normalizePage(req)

	reviews, err := s.repo.Review.FindByTitleID(ctx, title.ID, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to get title reviews",
			zap.Error(err),
			zap.String("title_id", titleID),
		)
		return nil, fmt.Errorf("get title reviews: %w", err)
	}

	total, err := s.repo.Review.CountByTitleID(ctx, title.ID)
	if err != nil {
		return nil, fmt.Errorf("count title reviews: %w", err)
	}

	items := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		items[i] = response.ReviewToResponse(review)
	}

	return response.NewPaginatedResponse(items, page.Page, page.PerPage, total), nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID string) (*response.ReviewResponse, error) {
	review, err := findReviewOfTitle(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) Create(ctx context.Context, caller policy.Caller, titleID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if err := checkClass(s.policy, caller, http.MethodPost); err != nil {
		return nil, err
	}

	title, err := findTitleByID(ctx, s.repo, titleID)
	if err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		s.log.Warn("Create review validation failed", zap.Error(err))
		return nil, err
	}

	// The unique constraint is authoritative; this only gives the common
	// case a clean answer without hitting it.
	existing, err := s.repo.Review.FindByAuthorAndTitle(ctx, caller.UserID, title.ID)
	if err != nil {
		s.log.Error("Failed to check existing review", zap.Error(err))
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: you have already reviewed this title", ErrConflict)
	}

	review := &entity.Review{
		ID:             uuid.New(),
		TitleID:        title.ID,
		AuthorID:       caller.UserID,
		Text:           req.Text,
		Score:          *req.Score,
		PubDate:        time.Now(),
		AuthorUsername: caller.Username,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("%w: you have already reviewed this title", ErrConflict)
		}
		s.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("author_id", caller.UserID.String()),
			zap.String("title_id", titleID),
		)
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("author", caller.Username),
		zap.String("title_id", titleID),
		zap.Int("score", review.Score),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) Update(ctx context.Context, caller policy.Caller, titleID, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if err := checkClass(s.policy, caller, http.MethodPatch); err != nil {
		return nil, err
	}

	review, err := findReviewOfTitle(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := checkObject(s.policy, caller, http.MethodPatch, review); err != nil {
		s.log.Warn("Review update denied",
			zap.String("review_id", reviewID),
			zap.String("caller", caller.Username),
		)
		return nil, err
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}

	if err := s.repo.Review.Update(ctx, review); err != nil {
		if isMissing(err) {
			return nil, fmt.Errorf("review %s: %w", reviewID, ErrNotFound)
		}
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.log.Info("Review updated",
		zap.String("review_id", reviewID),
		zap.String("by", caller.Username),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) Delete(ctx context.Context, caller policy.Caller, titleID, reviewID string) error {
	if err := checkClass(s.policy, caller, http.MethodDelete); err != nil {
		return err
	}

	review, err := findReviewOfTitle(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := checkObject(s.policy, caller, http.MethodDelete, review); err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, review.ID); err != nil {
		if isMissing(err) {
			return fmt.Errorf("review %s: %w", reviewID, ErrNotFound)
		}
		return fmt.Errorf("delete review: %w", err)
	}

	s.log.Info("Review deleted",
		zap.String("review_id", reviewID),
		zap.String("title_id", titleID),
		zap.String("by", caller.Username),
	)
	return nil
}

// ==================== HELPER METHODS ====================

func findTitleByID(ctx context.Context, repo *repository.Repository, titleID string) (*entity.Title, error) {
	id, err := parseID("title", titleID)
	if err != nil {
		return nil, err
	}

	title, err := repo.Title.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find title: %w", err)
	}
	if title == nil {
		return nil, fmt.Errorf("title %s: %w", titleID, ErrNotFound)
	}
	return title, nil
}

// findReviewOfTitle resolves the review and insists it hangs off the title.
func findReviewOfTitle(ctx context.Context, repo *repository.Repository, titleID, reviewID string) (*entity.Review, error) {
	title, err := findTitleByID(ctx, repo, titleID)
	if err != nil {
		return nil, err
	}

	id, err := parseID("review", reviewID)
	if err != nil {
		return nil, err
	}

	review, err := repo.Review.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}
	if review == nil || review.TitleID != title.ID {
		return nil, fmt.Errorf("review %s: %w", reviewID, ErrNotFound)
	}
	return review, nil
}
