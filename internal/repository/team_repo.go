package repository

import (
	"context"

	"bff/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeamRepository interface {
	Create(ctx context.Context, team *model.Team) error
	FindByUUID(ctx context.Context, id uuid.UUID) (*model.Team, error)
	Update(ctx context.Context, team *model.Team) error
	// Delete detaches the team's heroes and then removes the team.
	Delete(ctx context.Context, team *model.Team) error
}

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) Create(ctx context.Context, team *model.Team) error {
	return translate(GetDB(ctx, r.db).Create(team).Error)
}

func (r *teamRepository) FindByUUID(ctx context.Context, id uuid.UUID) (*model.Team, error) {
	var team model.Team
	if err := GetDB(ctx, r.db).First(&team, "uuid = ?", id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) Update(ctx context.Context, team *model.Team) error {
	return translate(GetDB(ctx, r.db).Save(team).Error)
}

func (r *teamRepository) Delete(ctx context.Context, team *model.Team) error {
	db := GetDB(ctx, r.db)
	err := db.Model(&model.Hero{}).
		Where("team_id = ?", team.ID).
		Updates(map[string]interface{}{"team_id": nil, "team_uuid": nil}).Error
	if err != nil {
		return err
	}
	return db.Delete(&model.Team{}, team.ID).Error
}
