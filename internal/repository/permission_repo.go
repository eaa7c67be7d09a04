package repository

import (
	"context"

	"bff/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PermissionRepository interface {
	Create(ctx context.Context, perm *model.Permission) error
	FindByUUID(ctx context.Context, id uuid.UUID) (*model.Permission, error)
	FindByName(ctx context.Context, name string) (*model.Permission, error)
	List(ctx context.Context, skip, limit int) ([]model.Permission, error)
	Update(ctx context.Context, perm *model.Permission) error
	Delete(ctx context.Context, perm *model.Permission) error
}

type permissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) Create(ctx context.Context, perm *model.Permission) error {
	return translate(GetDB(ctx, r.db).Create(perm).Error)
}

func (r *permissionRepository) FindByUUID(ctx context.Context, id uuid.UUID) (*model.Permission, error) {
	var perm model.Permission
	if err := GetDB(ctx, r.db).First(&perm, "uuid = ?", id).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

func (r *permissionRepository) FindByName(ctx context.Context, name string) (*model.Permission, error) {
	var perm model.Permission
	if err := GetDB(ctx, r.db).Where("name = ?", name).First(&perm).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

func (r *permissionRepository) List(ctx context.Context, skip, limit int) ([]model.Permission, error) {
	var perms []model.Permission
	if err := GetDB(ctx, r.db).Order("id asc").Offset(skip).Limit(limit).Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *permissionRepository) Update(ctx context.Context, perm *model.Permission) error {
	return translate(GetDB(ctx, r.db).Save(perm).Error)
}

func (r *permissionRepository) Delete(ctx context.Context, perm *model.Permission) error {
	return GetDB(ctx, r.db).Delete(&model.Permission{}, perm.ID).Error
}
