package adaptor

import (
	"net/http"

	"review-catalog/internal/dto/request"
	"review-catalog/internal/usecase"
	"review-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	service usecase.CategoryService
	log     *zap.Logger
}

func NewCategoryHandler(service usecase.CategoryService, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		log:     log.With(zap.String("handler", "category")),
	}
}

// List handles GET /api/v1/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	req := pageFromQuery(r)

	categories, err := h.service.List(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "list categories")
		return
	}

	utils.ResponsePaginated(w, "success", categories.Data, categories.Pagination)
}

// Create handles POST /api/v1/categories (admin only)
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[request.CategoryRequest](r)

	category, err := h.service.Create(r.Context(), utils.GetCallerFromContext(r.Context()), req)
	if err != nil {
		handleServiceError(h.log, w, err, "create category")
		return
	}

	utils.ResponseCreated(w, "Category created successfully", category)
}

// Delete handles DELETE /api/v1/categories/{slug} (admin only)
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if err := h.service.Delete(r.Context(), utils.GetCallerFromContext(r.Context()), slug); err != nil {
		handleServiceError(h.log, w, err, "delete category")
		return
	}

	utils.ResponseNoContent(w)
}

type GenreHandler struct {
	service usecase.GenreService
	log     *zap.Logger
}

func NewGenreHandler(service usecase.GenreService, log *zap.Logger) *GenreHandler {
	return &GenreHandler{
		service: service,
		log:     log.With(zap.String("handler", "genre")),
	}
}

// List handles GET /api/v1/genres
func (h *GenreHandler) List(w http.ResponseWriter, r *http.Request) {
	req := pageFromQuery(r)

	genres, err := h.service.List(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "list genres")
		return
	}

	utils.ResponsePaginated(w, "success", genres.Data, genres.Pagination)
}

// Create handles POST /api/v1/genres (admin only)
func (h *GenreHandler) Create(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[request.GenreRequest](r)

	genre, err := h.service.Create(r.Context(), utils.GetCallerFromContext(r.Context()), req)
	if err != nil {
		handleServiceError(h.log, w, err, "create genre")
		return
	}

	utils.ResponseCreated(w, "Genre created successfully", genre)
}

// Delete handles DELETE /api/v1/genres/{slug} (admin only)
func (h *GenreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if err := h.service.Delete(r.Context(), utils.GetCallerFromContext(r.Context()), slug); err != nil {
		handleServiceError(h.log, w, err, "delete genre")
		return
	}

	utils.ResponseNoContent(w)
}
