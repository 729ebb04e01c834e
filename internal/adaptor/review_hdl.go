package adaptor

import (
	"net/http"

	"review-catalog/internal/dto/request"
	"review-catalog/internal/usecase"
	"review-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// List handles GET /api/v1/titles/{titleID}/reviews
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	req := pageFromQuery(r)

	reviews, err := h.service.List(r.Context(), chi.URLParam(r, "titleID"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "list reviews")
		return
	}

	utils.ResponsePaginated(w, "success", reviews.Data, reviews.Pagination)
}

// Get handles GET /api/v1/titles/{titleID}/reviews/{reviewID}
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	review, err := h.service.Get(r.Context(), chi.URLParam(r, "titleID"), chi.URLParam(r, "reviewID"))
	if err != nil {
		handleServiceError(h.log, w, err, "get review")
		return
	}

	utils.ResponseSuccess(w, "Review retrieved successfully", review)
}

// Create handles POST /api/v1/titles/{titleID}/reviews
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[request.CreateReviewRequest](r)

	caller := utils.GetCallerFromContext(r.Context())
	review, err := h.service.Create(r.Context(), caller, chi.URLParam(r, "titleID"), req)
	if err != nil {
		handleServiceError(h.log, w, err, "create review")
		return
	}

	utils.ResponseCreated(w, "Review created successfully", review)
}

// Update handles PATCH /api/v1/titles/{titleID}/reviews/{reviewID}
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[request.UpdateReviewRequest](r)

	caller := utils.GetCallerFromContext(r.Context())
	review, err := h.service.Update(r.Context(), caller, chi.URLParam(r, "titleID"), chi.URLParam(r, "reviewID"), req)
	if err != nil {
		handleServiceError(h.log, w, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "Review updated successfully", review)
}

// Delete handles DELETE /api/v1/titles/{titleID}/reviews/{reviewID}
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := utils.GetCallerFromContext(r.Context())
	if err := h.service.Delete(r.Context(), caller, chi.URLParam(r, "titleID"), chi.URLParam(r, "reviewID")); err != nil {
		handleServiceError(h.log, w, err, "delete review")
		return
	}

	utils.ResponseNoContent(w)
}

type CommentHandler struct {
	service usecase.CommentService
	log     *zap.Logger
}

func NewCommentHandler(service usecase.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		log:     log.With(zap.String("handler", "comment")),
	}
}

// List handles GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	req := pageFromQuery(r)

	comments, err := h.service.List(r.Context(), chi.URLParam(r, "titleID"), chi.URLParam(r, "reviewID"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "list comments")
		return
	}

	utils.ResponsePaginated(w, "success", comments.Data, comments.Pagination)
}

// Get handles GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}
func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	comment, err := h.service.Get(r.Context(),
		chi.URLParam(r, "titleID"), chi.URLParam(r, "reviewID"), chi.URLParam(r, "commentID"))
	if err != nil {
		handleServiceError(h.log, w, err, "get comment")
		return
	}

	utils.ResponseSuccess(w, "Comment retrieved successfully", comment)
}

// Create handles POST /api/v1/titles/{titleID}/reviews/{reviewID}/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[request.CreateCommentRequest](r)

	caller := utils.GetCallerFromContext(r.Context())
	comment, err := h.service.Create(r.Context(), caller, chi.URLParam(r, "titleID"), chi.URLParam(r, "reviewID"), req)
	if err != nil {
		handleServiceError(h.log, w, err, "create comment")
		return
	}

	utils.ResponseCreated(w, "Comment created successfully", comment)
}

// Update handles PATCH /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[request.UpdateCommentRequest](r)

	caller := utils.GetCallerFromContext(r.Context())
	comment, err := h.service.Update(r.Context(), caller,
		chi.URLParam(r, "titleID"), chi.URLParam(r, "reviewID"), chi.URLParam(r, "commentID"), req)
	if err != nil {
		handleServiceError(h.log, w, err, "update comment")
		return
	}

	utils.ResponseSuccess(w, "Comment updated successfully", comment)
}

// Delete handles DELETE /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := utils.GetCallerFromContext(r.Context())
	err := h.service.Delete(r.Context(), caller,
		chi.URLParam(r, "titleID"), chi.URLParam(r, "reviewID"), chi.URLParam(r, "commentID"))
	if err != nil {
		handleServiceError(h.log, w, err, "delete comment")
		return
	}

	utils.ResponseNoContent(w)
}
