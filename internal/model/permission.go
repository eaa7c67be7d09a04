package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Permission is a named capability that can be granted to users.
type Permission struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	UUID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
}

func (p *Permission) BeforeCreate(tx *gorm.DB) error {
	return assignUUID(&p.UUID)
}

// UserPermission links a user to a permission. At most one row exists per pair;
// deleting either side removes the link.
type UserPermission struct {
	ID           uint       `gorm:"primaryKey" json:"-"`
	UUID         uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	UserID       uint       `gorm:"not null;uniqueIndex:idx_user_permission_pair" json:"-"`
	User         User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	PermissionID uint       `gorm:"not null;uniqueIndex:idx_user_permission_pair;index" json:"-"`
	Permission   Permission `gorm:"foreignKey:PermissionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (up *UserPermission) BeforeCreate(tx *gorm.DB) error {
	return assignUUID(&up.UUID)
}
