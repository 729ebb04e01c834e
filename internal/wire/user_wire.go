package wire

import (
	"review-catalog/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireUser configures user administration and the caller's own profile
func wireUser(r chi.Router, userHandler *adaptor.UserHandler) {
	r.Route("/users", func(r chi.Router) {
		// ==================== ADMIN ROUTES ====================
		r.Get("/", userHandler.GetAllUsers) // GET /api/v1/users?page=1&per_page=10&search=
		r.Post("/", userHandler.CreateUser)

		// ==================== SELF ROUTES ====================
		// static segment wins over {username}
		r.Get("/me", userHandler.GetProfile)
		r.Patch("/me", userHandler.UpdateProfile)

		r.Route("/{username}", func(r chi.Router) {
			r.Get("/", userHandler.GetUser)
			r.Patch("/", userHandler.UpdateUser)
			r.Delete("/", userHandler.DeleteUser)
		})
	})
}
