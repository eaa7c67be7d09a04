package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Hero optionally belongs to a team. TeamUUID mirrors the team reference for public output.
type Hero struct {
	ID         uint       `gorm:"primaryKey" json:"-"`
	UUID       uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name"`
	SecretName string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"secret_name"`
	Age        *int       `json:"age"`
	TeamID     *uint      `gorm:"index" json:"-"`
	Team       *Team      `gorm:"foreignKey:TeamID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	TeamUUID   *uuid.UUID `gorm:"type:uuid" json:"team_uuid"`
}

func (h *Hero) BeforeCreate(tx *gorm.DB) error {
	return assignUUID(&h.UUID)
}
