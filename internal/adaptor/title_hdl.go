package adaptor

import (
	"net/http"
	"strconv"

	"review-catalog/internal/dto/request"
	"review-catalog/internal/usecase"
	"review-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TitleHandler struct {
	service usecase.TitleService
	log     *zap.Logger
}

func NewTitleHandler(service usecase.TitleService, log *zap.Logger) *TitleHandler {
	return &TitleHandler{
		service: service,
		log:     log.With(zap.String("handler", "title")),
	}
}

// List handles GET /api/v1/titles?name=&year=&genre=&category=
func (h *TitleHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.TitleListRequest{
		PaginatedRequest: pageFromQuery(r),
		Name:             query.Get("name"),
		Genre:            query.Get("genre"),
		Category:         query.Get("category"),
	}

	if raw := query.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Validation failed", map[string]string{"year": "Enter a whole number"})
			return
		}
		req.Year = &year
	}

	titles, err := h.service.List(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "list titles")
		return
	}

	utils.ResponsePaginated(w, "success", titles.Data, titles.Pagination)
}

// Get handles GET /api/v1/titles/{titleID}
func (h *TitleHandler) Get(w http.ResponseWriter, r *http.Request) {
	title, err := h.service.Get(r.Context(), chi.URLParam(r, "titleID"))
	if err != nil {
		handleServiceError(h.log, w, err, "get title")
		return
	}

	utils.ResponseSuccess(w, "Title retrieved successfully", title)
}

// Create handles POST /api/v1/titles (admin only)
func (h *TitleHandler) Create(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[request.TitleRequest](r)

	title, err := h.service.Create(r.Context(), utils.GetCallerFromContext(r.Context()), req)
	if err != nil {
		handleServiceError(h.log, w, err, "create title")
		return
	}

	utils.ResponseCreated(w, "Title created successfully", title)
}

// Update handles PATCH /api/v1/titles/{titleID} (admin only)
func (h *TitleHandler) Update(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[request.TitleUpdateRequest](r)

	title, err := h.service.Update(r.Context(), utils.GetCallerFromContext(r.Context()), chi.URLParam(r, "titleID"), req)
	if err != nil {
		handleServiceError(h.log, w, err, "update title")
		return
	}

	utils.ResponseSuccess(w, "Title updated successfully", title)
}

// Delete handles DELETE /api/v1/titles/{titleID} (admin only)
func (h *TitleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), utils.GetCallerFromContext(r.Context()), chi.URLParam(r, "titleID")); err != nil {
		handleServiceError(h.log, w, err, "delete title")
		return
	}

	utils.ResponseNoContent(w)
}
