package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"
	"review-catalog/internal/dto/request"
	"review-catalog/internal/dto/response"
	"review-catalog/internal/policy"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	// Admin endpoints
	GetAllUsers(ctx context.Context, caller policy.Caller, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	CreateUser(ctx context.Context, caller policy.Caller, req *request.CreateUserRequest) (*response.UserResponse, error)
	GetUser(ctx context.Context, caller policy.Caller, username string) (*response.UserResponse, error)
	UpdateUser(ctx context.Context, caller policy.Caller, username string, req *request.UpdateUserRequest) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, caller policy.Caller, username string) error

	// Self profile
	GetProfile(ctx context.Context, caller policy.Caller) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, caller policy.Caller, req *request.UpdateUserRequest) (*response.UserResponse, error)

	// EnsureAdmin creates or promotes the bootstrap admin account.
	EnsureAdmin(ctx context.Context, username, email string) error
}

type userService struct {
	userRepo repository.UserRepository
	admin    policy.Policy
	self     policy.Policy
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		admin:    policy.ElevatedOnly{},
		self:     policy.Authenticated{},
		log:      log.With(zap.String("service", "user")),
	}
}

// profileMapping decides which fields a profile update may touch.
type profileMapping int

const (
	selfMapping  profileMapping = iota // every profile field except role
	adminMapping                       // every field including role
)

// profileMappingFor picks the mapping for a caller editing their own profile.
func profileMappingFor(caller policy.Caller) profileMapping {
	if caller.IsAdmin() {
		return adminMapping
	}
	return selfMapping
}

func (us *userService) GetAllUsers(ctx context.Context, caller policy.Caller, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	if err := checkClass(us.admin, caller, http.MethodGet); err != nil {
		return nil, err
	}

	page := normalizePage(req)

	users, err := us.userRepo.FindAll(ctx, page.Search, page.Limit(), page.Offset())
	if err != nil {
		us.log.Error("Failed to get all users",
			zap.Error(err),
			zap.Int("page", page.Page),
			zap.Int("per_page", page.PerPage),
		)
		return nil, fmt.Errorf("get all users: %w", err)
	}

	total, err := us.userRepo.CountAll(ctx, page.Search)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	items := make([]response.UserResponse, len(users))
	for i, user := range users {
		items[i] = response.UserToResponse(user)
	}

	return response.NewPaginatedResponse(items, page.Page, page.PerPage, total), nil
}

func (us *userService) CreateUser(ctx context.Context, caller policy.Caller, req *request.CreateUserRequest) (*response.UserResponse, error) {
	if err := checkClass(us.admin, caller, http.MethodPost); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		us.log.Warn("Create user validation failed", zap.Error(err))
		return nil, err
	}

	if err := us.checkUnique(ctx, uuid.Nil, req.Username, req.Email); err != nil {
		return nil, err
	}

	role := entity.UserRole(req.Role)
	if role == "" {
		role = entity.RoleUser
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
		IsActive:  true,
	}
	user.Normalize()

	if err := us.userRepo.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, conflictError("username", "email")
		}
		us.log.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("create user: %w", err)
	}

	us.log.Info("User created by admin",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
		zap.String("by", caller.Username),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) GetUser(ctx context.Context, caller policy.Caller, username string) (*response.UserResponse, error) {
	if err := checkClass(us.admin, caller, http.MethodGet); err != nil {
		return nil, err
	}

	user, err := us.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateUser(ctx context.Context, caller policy.Caller, username string, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	if err := checkClass(us.admin, caller, http.MethodPatch); err != nil {
		return nil, err
	}

	user, err := us.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return us.applyUpdate(ctx, user, req, adminMapping)
}

func (us *userService) DeleteUser(ctx context.Context, caller policy.Caller, username string) error {
	if err := checkClass(us.admin, caller, http.MethodDelete); err != nil {
		return err
	}

	user, err := us.findByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := us.userRepo.Delete(ctx, user.ID); err != nil {
		if isMissing(err) {
			return fmt.Errorf("user %s: %w", username, ErrNotFound)
		}
		us.log.Error("Failed to delete user", zap.Error(err), zap.String("username", username))
		return fmt.Errorf("delete user: %w", err)
	}

	us.log.Info("User deleted",
		zap.String("username", username),
		zap.String("by", caller.Username),
	)
	return nil
}

func (us *userService) GetProfile(ctx context.Context, caller policy.Caller) (*response.UserResponse, error) {
	if err := checkClass(us.self, caller, http.MethodGet); err != nil {
		return nil, err
	}

	user, err := us.findByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateProfile(ctx context.Context, caller policy.Caller, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	if err := checkClass(us.self, caller, http.MethodPatch); err != nil {
		return nil, err
	}

	user, err := us.findByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	return us.applyUpdate(ctx, user, req, profileMappingFor(caller))
}

func (us *userService) EnsureAdmin(ctx context.Context, username, email string) error {
	if username == "" || email == "" {
		return nil
	}

	user, err := us.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("find bootstrap admin: %w", err)
	}

	now := time.Now()
	if user == nil {
		user = &entity.User{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			Username: username,
			Email:    email,
			Role:     entity.RoleAdmin,
			IsActive: true,
		}
		user.Normalize()

		if err := us.userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("create bootstrap admin: %w", err)
		}
		us.log.Info("Bootstrap admin created", zap.String("username", username))
		return nil
	}

	if user.Role == entity.RoleAdmin && user.IsActive && user.IsSuperuser {
		return nil
	}

	user.Role = entity.RoleAdmin
	user.IsActive = true
	user.UpdatedAt = now
	user.Normalize()

	if err := us.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("promote bootstrap admin: %w", err)
	}
	us.log.Info("Bootstrap admin promoted", zap.String("username", username))
	return nil
}

// ==================== HELPER METHODS ====================

func (us *userService) applyUpdate(ctx context.Context, user *entity.User, req *request.UpdateUserRequest, mapping profileMapping) (*response.UserResponse, error) {
	if req == nil {
		return nil, ErrMalformedBody
	}
	if mapping != adminMapping {
		// role is read-only here; drop it before validation so a bogus
		// value is ignored rather than rejected
		req.Role = nil
	}

	if err := validate(req); err != nil {
		us.log.Warn("Update user validation failed", zap.Error(err))
		return nil, err
	}

	username, email := user.Username, user.Email
	if req.Username != nil {
		username = *req.Username
	}
	if req.Email != nil {
		email = *req.Email
	}
	if err := us.checkUnique(ctx, user.ID, username, email); err != nil {
		return nil, err
	}

	user.Username = username
	user.Email = email
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Role != nil {
		user.Role = entity.UserRole(*req.Role)
	}

	user.UpdatedAt = time.Now()
	user.Normalize()

	if err := us.userRepo.Update(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, conflictError("username", "email")
		}
		if isMissing(err) {
			return nil, fmt.Errorf("user %s: %w", user.ID.String(), ErrNotFound)
		}
		us.log.Error("Failed to update user", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("update user: %w", err)
	}

	us.log.Info("User updated",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

// checkUnique reports a conflict when another account holds the username or e-mail.
func (us *userService) checkUnique(ctx context.Context, self uuid.UUID, username, email string) error {
	var clashes []string

	byName, err := us.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if byName != nil && byName.ID != self {
		clashes = append(clashes, "username")
	}

	byEmail, err := us.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if byEmail != nil && byEmail.ID != self {
		clashes = append(clashes, "email")
	}

	if len(clashes) > 0 {
		return conflictError(clashes...)
	}
	return nil
}

func (us *userService) findByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := us.userRepo.FindByUsername(ctx, username)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
	}
	return user, nil
}

func (us *userService) findByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := us.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", id.String(), ErrNotFound)
	}
	return user, nil
}
