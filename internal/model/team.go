package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Team struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	UUID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	Name         string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Headquarters string    `gorm:"type:varchar(255);not null" json:"headquarters"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	return assignUUID(&t.UUID)
}
