package wire

import (
	"review-catalog/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireReview mounts reviews under their title and comments under their review
func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler, commentHandler *adaptor.CommentHandler) {
	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", reviewHandler.List)
		r.Post("/", reviewHandler.Create)

		r.Route("/{reviewID}", func(r chi.Router) {
			r.Get("/", reviewHandler.Get)
			r.Patch("/", reviewHandler.Update)
			r.Delete("/", reviewHandler.Delete)

			r.Route("/comments", func(r chi.Router) {
				r.Get("/", commentHandler.List)
				r.Post("/", commentHandler.Create)
				r.Get("/{commentID}", commentHandler.Get)
				r.Patch("/{commentID}", commentHandler.Update)
				r.Delete("/{commentID}", commentHandler.Delete)
			})
		})
	})
}
