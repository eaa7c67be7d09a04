package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account authenticated through Google. IsAdmin grants every permission.
type User struct {
	ID       uint      `gorm:"primaryKey" json:"-"`
	UUID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	Email    string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name     string    `gorm:"type:varchar(255);not null" json:"name"`
	GoogleID string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"google_id"`
	IsAdmin  bool      `gorm:"not null" json:"is_admin"`
	IsActive bool      `gorm:"not null" json:"is_active"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	return assignUUID(&u.UUID)
}

// assignUUID fills a time-ordered UUID when the caller did not provide one.
func assignUUID(id *uuid.UUID) error {
	if *id != uuid.Nil {
		return nil
	}
	v7, err := uuid.NewV7()
	if err != nil {
		return err
	}
	*id = v7
	return nil
}
