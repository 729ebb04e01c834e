package usecase

import (
	"context"
	"fmt"
	"time"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"
	"review-catalog/internal/dto/request"
	"review-catalog/internal/dto/response"
	"review-catalog/pkg/jwt"
	"review-catalog/pkg/mailer"
	"review-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCodeExpiry = 60 * time.Minute

type AuthService interface {
	Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error)
	Token(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error)
	Refresh(ctx context.Context, req *request.RefreshTokenRequest) (*response.TokenResponse, error)
}

type authService struct {
	repo   *repository.Repository // users and confirmation codes
	config *utils.Config
	tokens *jwt.Service
	mailer mailer.Mailer
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	tokens *jwt.Service,
	mail mailer.Mailer,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		tokens: tokens,
		mailer: mail,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
	}
}

// Signup registers an inactive account and mails it a confirmation code.
// Signing up again with the same username and e-mail only re-issues the code.
func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error) {
	// 1. Validate input
	if err := validate(req); err != nil {
		s.log.Warn("Signup validation failed", zap.Error(err))
		return nil, err
	}

	// 2. Look up both identifiers
	byName, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	byEmail, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}

	// 3. Reuse the account, reject a partial clash, or create a new one
	var user *entity.User
	switch {
	case byName != nil && byEmail != nil && byName.ID == byEmail.ID:
		user = byName
	case byName != nil && byEmail != nil:
		return nil, conflictError("username", "email")
	case byName != nil:
		return nil, conflictError("username")
	case byEmail != nil:
		return nil, conflictError("email")
	default:
		user, err = s.createPendingUser(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	// 4. Issue and deliver a fresh code
	if err := s.issueCode(ctx, user); err != nil {
		return nil, err
	}

	return &response.SignupResponse{
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

// Token exchanges a confirmation code for a token pair and activates the user.
func (s *authService) Token(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", req.Username, ErrNotFound)
	}

	// The code must be the newest one issued for the user's current e-mail.
	code, err := s.repo.Confirmation.FindLatestUnused(ctx, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("find confirmation code: %w", err)
	}
	if code == nil || code.Expired(s.now()) || !utils.CheckCodeHash(req.ConfirmationCode, code.CodeHash) {
		s.log.Warn("Wrong confirmation code", zap.String("username", user.Username))
		return nil, ErrWrongCode
	}

	if err := s.repo.Confirmation.MarkAsUsed(ctx, code.ID); err != nil {
		if isMissing(err) {
			// lost the race against another exchange of the same code
			return nil, ErrWrongCode
		}
		return nil, fmt.Errorf("consume confirmation code: %w", err)
	}

	if !user.IsActive {
		user.IsActive = true
		user.UpdatedAt = s.now()
		user.Normalize()
		if err := s.repo.User.Update(ctx, user); err != nil {
			s.log.Error("Failed to activate user", zap.Error(err), zap.String("user_id", user.ID.String()))
			return nil, fmt.Errorf("activate user: %w", err)
		}
		s.log.Info("User activated", zap.String("username", user.Username))
	}

	return s.issueTokens(user)
}

// Refresh trades a refresh token for a new pair.
func (s *authService) Refresh(ctx context.Context, req *request.RefreshTokenRequest) (*response.TokenResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	claims, err := s.tokens.ValidateToken(req.RefreshToken, jwt.TypeRefresh)
	if err != nil {
		s.log.Warn("Invalid refresh token", zap.Error(err))
		return nil, fmt.Errorf("refresh token: %w", ErrUnauthenticated)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("refresh token subject: %w", ErrUnauthenticated)
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, fmt.Errorf("refresh token user: %w", ErrUnauthenticated)
	}

	return s.issueTokens(user)
}

// ==================== HELPER METHODS ====================

func (s *authService) createPendingUser(ctx context.Context, req *request.SignupRequest) (*entity.User, error) {
	now := s.now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username: req.Username,
		Email:    req.Email,
		Role:     entity.RoleUser,
		IsActive: false,
	}
	user.Normalize()

	if err := s.repo.User.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, conflictError("username", "email")
		}
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)
	return user, nil
}

func (s *authService) issueCode(ctx context.Context, user *entity.User) error {
	code, err := utils.GenerateConfirmationCode(s.config.Confirmation.Length)
	if err != nil {
		return fmt.Errorf("generate confirmation code: %w", err)
	}

	hash, err := utils.HashCode(code)
	if err != nil {
		return fmt.Errorf("hash confirmation code: %w", err)
	}

	expiry := time.Duration(s.config.Confirmation.ExpiryMinutes) * time.Minute
	if expiry <= 0 {
		expiry = defaultCodeExpiry
	}

	if err := s.repo.Confirmation.InvalidateForUser(ctx, user.ID); err != nil {
		return fmt.Errorf("invalidate old codes: %w", err)
	}

	now := s.now()
	record := &entity.ConfirmationCode{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Email:     user.Email,
		CodeHash:  hash,
		ExpiresAt: now.Add(expiry),
	}

	if err := s.repo.Confirmation.Create(ctx, record); err != nil {
		return fmt.Errorf("save confirmation code: %w", err)
	}

	body := fmt.Sprintf("Hello %s,\n\nyour confirmation code is %s\nIt expires at %s.\n",
		user.Username, code, record.ExpiresAt.Format(time.RFC1123))
	if err := s.mailer.Send(ctx, user.Email, "Confirmation code", body); err != nil {
		s.log.Error("Failed to send confirmation code",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("send confirmation code: %w", err)
	}

	s.log.Info("Confirmation code issued",
		zap.String("user_id", user.ID.String()),
		zap.Time("expires_at", record.ExpiresAt),
	)
	return nil
}

func (s *authService) issueTokens(user *entity.User) (*response.TokenResponse, error) {
	pair, err := s.tokens.GeneratePair(user.ID.String(), user.Username)
	if err != nil {
		s.log.Error("Failed to sign tokens", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	return &response.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

