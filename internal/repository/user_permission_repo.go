package repository

import (
	"context"

	"bff/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserPermissionRepository manages the user <-> permission join rows.
type UserPermissionRepository interface {
	Exists(ctx context.Context, userID, permissionID uint) (bool, error)
	// Create inserts the pair and reports false when the pair already existed.
	Create(ctx context.Context, userID, permissionID uint) (bool, error)
	// Delete removes the pair and reports false when there was nothing to remove.
	Delete(ctx context.Context, userID, permissionID uint) (bool, error)
	PermissionsForUser(ctx context.Context, userID uint) ([]model.Permission, error)
	UsersForPermission(ctx context.Context, permissionID uint) ([]model.User, error)
}

type userPermissionRepository struct {
	db *gorm.DB
}

func NewUserPermissionRepository(db *gorm.DB) UserPermissionRepository {
	return &userPermissionRepository{db: db}
}

func (r *userPermissionRepository) Exists(ctx context.Context, userID, permissionID uint) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.UserPermission{}).
		Where("user_id = ? AND permission_id = ?", userID, permissionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create relies on the (user_id, permission_id) unique index: a concurrent insert
// of the same pair is absorbed by ON CONFLICT DO NOTHING instead of failing.
func (r *userPermissionRepository) Create(ctx context.Context, userID, permissionID uint) (bool, error) {
	link := model.UserPermission{UserID: userID, PermissionID: permissionID}
	res := GetDB(ctx, r.db).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&link)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *userPermissionRepository) Delete(ctx context.Context, userID, permissionID uint) (bool, error) {
	res := GetDB(ctx, r.db).
		Where("user_id = ? AND permission_id = ?", userID, permissionID).
		Delete(&model.UserPermission{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *userPermissionRepository) PermissionsForUser(ctx context.Context, userID uint) ([]model.Permission, error) {
	var perms []model.Permission
	err := GetDB(ctx, r.db).
		Joins("JOIN user_permissions ON user_permissions.permission_id = permissions.id").
		Where("user_permissions.user_id = ?", userID).
		Find(&perms).Error
	if err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *userPermissionRepository) UsersForPermission(ctx context.Context, permissionID uint) ([]model.User, error) {
	var users []model.User
	err := GetDB(ctx, r.db).
		Joins("JOIN user_permissions ON user_permissions.user_id = users.id").
		Where("user_permissions.permission_id = ?", permissionID).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
