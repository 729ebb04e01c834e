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

type CommentService interface {
	List(ctx context.Context, titleID, reviewID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error)
	Get(ctx context.Context, titleID, reviewID, commentID string) (*response.CommentResponse, error)
	Create(ctx context.Context, caller policy.Caller, titleID, reviewID string, req *request.CreateCommentRequest) (*response.CommentResponse, error)
	Update(ctx context.Context, caller policy.Caller, titleID, reviewID, commentID string, req *request.UpdateCommentRequest) (*response.CommentResponse, error)
	Delete(ctx context.Context, caller policy.Caller, titleID, reviewID, commentID string) error
}

type commentService struct {
	repo   *repository.Repository
	policy policy.Policy
	log    *zap.Logger
}

func NewCommentService(repo *repository.Repository, log *zap.Logger) CommentService {
	return &commentService{
		repo:   repo,
		policy: policy.AuthorOrElevatedOrReadOnly{},
		log:    log.With(zap.String("service", "comment")),
	}
}

func (s *commentService) List(ctx context.Context, titleID, reviewID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error) {
	review, err := findReviewOfTitle(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	page := normalizePage(req)

	comments, err := s.repo.Comment.FindByReviewID(ctx, review.ID, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("get review comments: %w", err)
	}

	total, err := s.repo.Comment.CountByReviewID(ctx, review.ID)
	if err != nil {
		return nil, fmt.Errorf("count review comments: %w", err)
	}

	items := make([]response.CommentResponse, len(comments))
	for i, comment := range comments {
		items[i] = response.CommentToResponse(comment)
	}

	return response.NewPaginatedResponse(items, page.Page, page.PerPage, total), nil
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID string) (*response.CommentResponse, error) {
	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) Create(ctx context.Context, caller policy.Caller, titleID, reviewID string, req *request.CreateCommentRequest) (*response.CommentResponse, error) {
	if err := checkClass(s.policy, caller, http.MethodPost); err != nil {
		return nil, err
	}

	review, err := findReviewOfTitle(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		ID:             uuid.New(),
		ReviewID:       review.ID,
		AuthorID:       caller.UserID,
		Text:           req.Text,
		PubDate:        time.Now(),
		AuthorUsername: caller.Username,
	}

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		s.log.Error("Failed to create comment",
			zap.Error(err),
			zap.String("review_id", reviewID),
		)
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.log.Info("Comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("review_id", reviewID),
		zap.String("author", caller.Username),
	)

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) Update(ctx context.Context, caller policy.Caller, titleID, reviewID, commentID string, req *request.UpdateCommentRequest) (*response.CommentResponse, error) {
	if err := checkClass(s.policy, caller, http.MethodPatch); err != nil {
		return nil, err
	}

	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := checkObject(s.policy, caller, http.MethodPatch, comment); err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	if req.Text != nil {
		comment.Text = *req.Text
	}

	if err := s.repo.Comment.Update(ctx, comment); err != nil {
		if isMissing(err) {
			return nil, fmt.Errorf("comment %s: %w", commentID, ErrNotFound)
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) Delete(ctx context.Context, caller policy.Caller, titleID, reviewID, commentID string) error {
	if err := checkClass(s.policy, caller, http.MethodDelete); err != nil {
		return err
	}

	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := checkObject(s.policy, caller, http.MethodDelete, comment); err != nil {
		return err
	}

	if err := s.repo.Comment.Delete(ctx, comment.ID); err != nil {
		if isMissing(err) {
			return fmt.Errorf("comment %s: %w", commentID, ErrNotFound)
		}
		return fmt.Errorf("delete comment: %w", err)
	}

	s.log.Info("Comment deleted",
		zap.String("comment_id", commentID),
		zap.String("by", caller.Username),
	)
	return nil
}

func (s *commentService) findComment(ctx context.Context, titleID, reviewID, commentID string) (*entity.Comment, error) {
	review, err := findReviewOfTitle(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	id, err := parseID("comment", commentID)
	if err != nil {
		return nil, err
	}

	comment, err := s.repo.Comment.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	if comment == nil || comment.ReviewID != review.ID {
		return nil, fmt.Errorf("comment %s: %w", commentID, ErrNotFound)
	}
	return comment, nil
}
