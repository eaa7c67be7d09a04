package service

import (
	"context"
	"errors"
	"fmt"

	"bff/internal/lock"
	"bff/internal/model"
	"bff/internal/repository"
	ws "bff/internal/websocket"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreatePermissionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdatePermissionRequest changes only the fields that are present.
type UpdatePermissionRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type PermissionResponse struct {
	UUID        uuid.UUID `json:"uuid"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// EventPublisher receives assignment changes after they are committed.
type EventPublisher interface {
	Publish(event ws.Event)
}

// --- Interface ---

// PermissionService owns permissions and the user <-> permission relationship,
// and answers authorization questions.
type PermissionService interface {
	CreatePermission(ctx context.Context, req CreatePermissionRequest) (*PermissionResponse, error)
	GetPermission(ctx context.Context, id uuid.UUID) (*PermissionResponse, error)
	GetPermissionByName(ctx context.Context, name string) (*PermissionResponse, error)
	UpdatePermission(ctx context.Context, id uuid.UUID, req UpdatePermissionRequest) (*PermissionResponse, error)
	DeletePermission(ctx context.Context, id uuid.UUID) error
	ListPermissions(ctx context.Context, skip, limit int) ([]PermissionResponse, error)

	// AssignPermission returns false when the user already holds the permission.
	AssignPermission(ctx context.Context, userID, permissionID uuid.UUID) (bool, error)
	// RevokePermission returns false when the user did not hold the permission.
	RevokePermission(ctx context.Context, userID, permissionID uuid.UUID) (bool, error)
	HasPermission(ctx context.Context, userID uuid.UUID, permissionName string) (bool, error)
	ListUsersForPermission(ctx context.Context, permissionID uuid.UUID) ([]string, error)
	ListPermissionsForUser(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type permissionService struct {
	userRepo  repository.UserRepository
	permRepo  repository.PermissionRepository
	linkRepo  repository.UserPermissionRepository
	txManager repository.TransactionManager
	locker    lock.Locker
	events    EventPublisher
}

func NewPermissionService(
	userRepo repository.UserRepository,
	permRepo repository.PermissionRepository,
	linkRepo repository.UserPermissionRepository,
	txManager repository.TransactionManager,
	locker lock.Locker,
	events EventPublisher,
) PermissionService {
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	return &permissionService{
		userRepo:  userRepo,
		permRepo:  permRepo,
		linkRepo:  linkRepo,
		txManager: txManager,
		locker:    locker,
		events:    events,
	}
}

// --- CRUD ---

func (s *permissionService) CreatePermission(ctx context.Context, req CreatePermissionRequest) (*PermissionResponse, error) {
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	perm := &model.Permission{Name: req.Name, Description: req.Description}
	if err := s.permRepo.Create(ctx, perm); err != nil {
		return nil, storageError(err, ErrPermissionNotFound, ErrPermissionConflict)
	}
	return toPermissionResponse(perm), nil
}

func (s *permissionService) GetPermission(ctx context.Context, id uuid.UUID) (*PermissionResponse, error) {
	perm, err := s.resolvePermission(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPermissionResponse(perm), nil
}

func (s *permissionService) GetPermissionByName(ctx context.Context, name string) (*PermissionResponse, error) {
	perm, err := s.permRepo.FindByName(ctx, name)
	if err != nil {
		return nil, storageError(err, ErrPermissionNotFound, ErrPermissionConflict)
	}
	return toPermissionResponse(perm), nil
}

func (s *permissionService) UpdatePermission(ctx context.Context, id uuid.UUID, req UpdatePermissionRequest) (*PermissionResponse, error) {
	var perm *model.Permission
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		perm, err = s.resolvePermission(txCtx, id)
		if err != nil {
			return err
		}
		if req.Name != nil {
			if *req.Name == "" {
				return &ValidationError{Field: "name", Reason: "must not be empty"}
			}
			perm.Name = *req.Name
		}
		if req.Description != nil {
			perm.Description = *req.Description
		}
		if err := s.permRepo.Update(txCtx, perm); err != nil {
			return storageError(err, ErrPermissionNotFound, ErrPermissionConflict)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPermissionResponse(perm), nil
}

func (s *permissionService) DeletePermission(ctx context.Context, id uuid.UUID) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		perm, err := s.resolvePermission(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.permRepo.Delete(txCtx, perm); err != nil {
			return fmt.Errorf("delete permission: %w", err)
		}
		return nil
	})
}

func (s *permissionService) ListPermissions(ctx context.Context, skip, limit int) ([]PermissionResponse, error) {
	perms, err := s.permRepo.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	res := make([]PermissionResponse, 0, len(perms))
	for i := range perms {
		res = append(res, *toPermissionResponse(&perms[i]))
	}
	return res, nil
}

// --- Assignments ---

func (s *permissionService) AssignPermission(ctx context.Context, userID, permissionID uuid.UUID) (bool, error) {
	return s.changeAssignment(ctx, userID, permissionID, true)
}

func (s *permissionService) RevokePermission(ctx context.Context, userID, permissionID uuid.UUID) (bool, error) {
	return s.changeAssignment(ctx, userID, permissionID, false)
}

// changeAssignment moves the (user, permission) row to present or absent.
// The pair lock serializes callers; the unique index still decides the outcome
// if another replica writes without the same lock.
func (s *permissionService) changeAssignment(ctx context.Context, userID, permissionID uuid.UUID, grant bool) (bool, error) {
	unlock, err := s.locker.Lock(ctx, pairKey(userID, permissionID))
	if err != nil {
		return false, fmt.Errorf("lock assignment: %w", err)
	}
	defer unlock()

	var (
		changed bool
		perm    *model.Permission
	)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		user, err := s.resolveUser(txCtx, userID)
		if err != nil {
			return err
		}
		perm, err = s.resolvePermission(txCtx, permissionID)
		if err != nil {
			return err
		}

		exists, err := s.linkRepo.Exists(txCtx, user.ID, perm.ID)
		if err != nil {
			return fmt.Errorf("check assignment: %w", err)
		}

		if grant {
			if exists {
				return nil
			}
			changed, err = s.linkRepo.Create(txCtx, user.ID, perm.ID)
			if err != nil {
				return fmt.Errorf("create assignment: %w", err)
			}
			return nil
		}

		if !exists {
			return nil
		}
		changed, err = s.linkRepo.Delete(txCtx, user.ID, perm.ID)
		if err != nil {
			return fmt.Errorf("delete assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if changed && s.events != nil {
		eventType := ws.EventPermissionRevoked
		if grant {
			eventType = ws.EventPermissionGranted
		}
		s.events.Publish(ws.Event{
			Type:           eventType,
			UserUUID:       userID.String(),
			PermissionUUID: permissionID.String(),
			PermissionName: perm.Name,
		})
	}
	return changed, nil
}

// HasPermission answers true for admins before any assignment is read, even for
// names that no permission row carries.
func (s *permissionService) HasPermission(ctx context.Context, userID uuid.UUID, permissionName string) (bool, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if user.IsAdmin {
		return true, nil
	}

	perms, err := s.linkRepo.PermissionsForUser(ctx, user.ID)
	if err != nil {
		return false, fmt.Errorf("load user permissions: %w", err)
	}
	for _, p := range perms {
		if p.Name == permissionName {
			return true, nil
		}
	}
	return false, nil
}

func (s *permissionService) ListUsersForPermission(ctx context.Context, permissionID uuid.UUID) ([]string, error) {
	perm, err := s.resolvePermission(ctx, permissionID)
	if err != nil {
		return nil, err
	}
	users, err := s.linkRepo.UsersForPermission(ctx, perm.ID)
	if err != nil {
		return nil, fmt.Errorf("load permission users: %w", err)
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.UUID.String())
	}
	return ids, nil
}

func (s *permissionService) ListPermissionsForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return permissionNames(ctx, s.linkRepo, user)
}

// --- Helpers ---

func (s *permissionService) resolveUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByUUID(ctx, id)
	if err != nil {
		return nil, storageError(err, ErrUserNotFound, ErrUserConflict)
	}
	return user, nil
}

func (s *permissionService) resolvePermission(ctx context.Context, id uuid.UUID) (*model.Permission, error) {
	perm, err := s.permRepo.FindByUUID(ctx, id)
	if err != nil {
		return nil, storageError(err, ErrPermissionNotFound, ErrPermissionConflict)
	}
	return perm, nil
}

func permissionNames(ctx context.Context, links repository.UserPermissionRepository, user *model.User) ([]string, error) {
	perms, err := links.PermissionsForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load user permissions: %w", err)
	}
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, p.Name)
	}
	return names, nil
}

func pairKey(userID, permissionID uuid.UUID) string {
	return "assignment:" + userID.String() + ":" + permissionID.String()
}

// storageError maps repository failures onto the service error taxonomy.
func storageError(err error, notFound *NotFoundError, conflict *ConflictError) error {
	switch {
	case repository.IsNotFound(err):
		return notFound
	case errors.Is(err, repository.ErrDuplicate):
		return conflict
	default:
		return err
	}
}

func toPermissionResponse(p *model.Permission) *PermissionResponse {
	return &PermissionResponse{
		UUID:        p.UUID,
		Name:        p.Name,
		Description: p.Description,
	}
}
