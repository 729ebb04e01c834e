package wire

import (
	"review-catalog/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireCatalog exposes categories and genres. Both are create, list and
// delete only; there is no detail or update route.
func wireCatalog(r chi.Router, categoryHandler *adaptor.CategoryHandler, genreHandler *adaptor.GenreHandler) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", categoryHandler.List)
		r.Post("/", categoryHandler.Create)
		r.Delete("/{slug}", categoryHandler.Delete)
	})

	r.Route("/genres", func(r chi.Router) {
		r.Get("/", genreHandler.List)
		r.Post("/", genreHandler.Create)
		r.Delete("/{slug}", genreHandler.Delete)
	})
}
