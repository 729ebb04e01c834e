package wire

import (
	"review-catalog/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireTitle(r chi.Router, handler *adaptor.Handler) {
	r.Route("/titles", func(r chi.Router) {
		r.Get("/", handler.Title.List) // ?name=&year=&genre=&category=
		r.Post("/", handler.Title.Create)

		r.Route("/{titleID}", func(r chi.Router) {
			r.Get("/", handler.Title.Get)
			r.Patch("/", handler.Title.Update)
			r.Delete("/", handler.Title.Delete)

			wireReview(r, handler.Review, handler.Comment)
		})
	})
}
