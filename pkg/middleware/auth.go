package middleware

import (
	"net/http"
	"strings"

	"review-catalog/internal/data/repository"
	"review-catalog/internal/policy"
	"review-catalog/pkg/jwt"
	"review-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Authenticate resolves the bearer token into a caller. Requests without an
// Authorization header continue as anonymous; a header that does not resolve
// to an active user is rejected.
func Authenticate(tokens *jwt.Service, userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r.WithContext(utils.SetCallerContext(r.Context(), policy.Anonymous())))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			claims, err := tokens.ValidateToken(parts[1], jwt.TypeAccess)
			if err != nil {
				logger.Warn("Invalid access token", zap.Error(err))
				utils.ResponseUnauthorized(w, "Given token not valid for any token type")
				return
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				utils.ResponseUnauthorized(w, "Given token not valid for any token type")
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				logger.Error("Failed to load token user",
					zap.String("user_id", claims.UserID),
					zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if user == nil || !user.IsActive {
				logger.Warn("Token for missing or inactive user", zap.String("user_id", claims.UserID))
				utils.ResponseUnauthorized(w, "User not found or inactive")
				return
			}

			ctx := utils.SetCallerContext(r.Context(), policy.CallerFromUser(user))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
