package service

import (
	"context"
	"fmt"
	"net/mail"

	"bff/internal/model"
	"bff/internal/repository"

	"github.com/google/uuid"
)

// DTOs for Request validation
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	GoogleID string `json:"google_id" binding:"required"`
	IsAdmin  bool   `json:"is_admin"`
	IsActive *bool  `json:"is_active"`
}

// UpdateUserRequest is a partial update; nil fields are left unchanged.
type UpdateUserRequest struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Name     *string `json:"name"`
	IsAdmin  *bool   `json:"is_admin"`
	IsActive *bool   `json:"is_active"`
}

// UserResponse is the public view of a user; internal ids are never exposed.
type UserResponse struct {
	UUID     uuid.UUID `json:"uuid"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	GoogleID string    `json:"google_id"`
	IsAdmin  bool      `json:"is_admin"`
	IsActive bool      `json:"is_active"`
}

type UserWithPermissionsResponse struct {
	UserResponse
	Permissions []string `json:"permissions"`
}

// UserService defines the interface for business logic related to User
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*UserResponse, error)
	GetUserWithPermissions(ctx context.Context, id uuid.UUID) (*UserWithPermissionsResponse, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*UserResponse, error)
	GetUserByEmail(ctx context.Context, email string) (*UserResponse, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ListUsers(ctx context.Context, skip, limit int) ([]UserResponse, error)
	ListAdmins(ctx context.Context) ([]UserResponse, error)
}

type userService struct {
	repo      repository.UserRepository
	linkRepo  repository.UserPermissionRepository
	txManager repository.TransactionManager
}

// NewUserService returns a new instance of UserService
func NewUserService(repo repository.UserRepository, linkRepo repository.UserPermissionRepository, txManager repository.TransactionManager) UserService {
	return &userService{repo: repo, linkRepo: linkRepo, txManager: txManager}
}

// Helper: parse model to standard json API response
func mapToResponse(user *model.User) *UserResponse {
	return &UserResponse{
		UUID:     user.UUID,
		Email:    user.Email,
		Name:     user.Name,
		GoogleID: user.GoogleID,
		IsAdmin:  user.IsAdmin,
		IsActive: user.IsActive,
	}
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return &ValidationError{Field: "email", Reason: "invalid email format"}
	}
	return nil
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user := &model.User{
		Email:    req.Email,
		Name:     req.Name,
		GoogleID: req.GoogleID,
		IsAdmin:  req.IsAdmin,
		IsActive: isActive,
	}

	// Uniqueness of email and google_id is enforced by the database.
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, storageError(err, ErrUserNotFound, ErrUserConflict)
	}

	return mapToResponse(user), nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return nil, storageError(err, ErrUserNotFound, ErrUserConflict)
	}
	return mapToResponse(user), nil
}

func (s *userService) GetUserWithPermissions(ctx context.Context, id uuid.UUID) (*UserWithPermissionsResponse, error) {
	user, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return nil, storageError(err, ErrUserNotFound, ErrUserConflict)
	}
	names, err := permissionNames(ctx, s.linkRepo, user)
	if err != nil {
		return nil, err
	}
	return &UserWithPermissionsResponse{UserResponse: *mapToResponse(user), Permissions: names}, nil
}

func (s *userService) GetUserByGoogleID(ctx context.Context, googleID string) (*UserResponse, error) {
	user, err := s.repo.FindByGoogleID(ctx, googleID)
	if err != nil {
		return nil, storageError(err, ErrUserNotFound, ErrUserConflict)
	}
	return mapToResponse(user), nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*UserResponse, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, storageError(err, ErrUserNotFound, ErrUserConflict)
	}
	return mapToResponse(user), nil
}

func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	var user *model.User
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		user, err = s.repo.FindByUUID(txCtx, id)
		if err != nil {
			return storageError(err, ErrUserNotFound, ErrUserConflict)
		}

		if req.Email != nil {
			if err := validateEmail(*req.Email); err != nil {
				return err
			}
			user.Email = *req.Email
		}
		if req.Name != nil {
			user.Name = *req.Name
		}
		if req.IsAdmin != nil {
			user.IsAdmin = *req.IsAdmin
		}
		if req.IsActive != nil {
			user.IsActive = *req.IsActive
		}

		if err := s.repo.Update(txCtx, user); err != nil {
			return storageError(err, ErrUserNotFound, ErrUserConflict)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mapToResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		user, err := s.repo.FindByUUID(txCtx, id)
		if err != nil {
			return storageError(err, ErrUserNotFound, ErrUserConflict)
		}
		if err := s.repo.Delete(txCtx, user); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

func (s *userService) ListUsers(ctx context.Context, skip, limit int) ([]UserResponse, error) {
	users, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return mapAll(users), nil
}

func (s *userService) ListAdmins(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.ListAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return mapAll(users), nil
}

func mapAll(users []model.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *mapToResponse(&users[i]))
	}
	return responses
}
