package wire

import (
	"review-catalog/internal/adaptor"
	"review-catalog/pkg/middleware"
	"review-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, config *utils.Config, log *zap.Logger) {
	r.Route("/auth", func(r chi.Router) {
		// confirmation codes are short, throttle guessing
		r.Use(middleware.RateLimit(config.App.AuthRatePerMinute, config.App.AuthRateBurst, log))

		r.Post("/signup", authHandler.Signup)         // POST /api/v1/auth/signup
		r.Post("/token", authHandler.Token)           // POST /api/v1/auth/token
		r.Post("/token/refresh", authHandler.Refresh) // POST /api/v1/auth/token/refresh
	})
}
