package repository

import (
	"context"

	"bff/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HeroRepository interface {
	Create(ctx context.Context, hero *model.Hero) error
	FindByUUID(ctx context.Context, id uuid.UUID) (*model.Hero, error)
	ListByTeam(ctx context.Context, teamID uint) ([]model.Hero, error)
	Update(ctx context.Context, hero *model.Hero) error
	Delete(ctx context.Context, hero *model.Hero) error
}

type heroRepository struct {
	db *gorm.DB
}

func NewHeroRepository(db *gorm.DB) HeroRepository {
	return &heroRepository{db: db}
}

func (r *heroRepository) Create(ctx context.Context, hero *model.Hero) error {
	return translate(GetDB(ctx, r.db).Omit(clause.Associations).Create(hero).Error)
}

func (r *heroRepository) FindByUUID(ctx context.Context, id uuid.UUID) (*model.Hero, error) {
	var hero model.Hero
	if err := GetDB(ctx, r.db).First(&hero, "uuid = ?", id).Error; err != nil {
		return nil, err
	}
	return &hero, nil
}

func (r *heroRepository) ListByTeam(ctx context.Context, teamID uint) ([]model.Hero, error) {
	var heroes []model.Hero
	if err := GetDB(ctx, r.db).Where("team_id = ?", teamID).Order("id asc").Find(&heroes).Error; err != nil {
		return nil, err
	}
	return heroes, nil
}

func (r *heroRepository) Update(ctx context.Context, hero *model.Hero) error {
	return translate(GetDB(ctx, r.db).Omit(clause.Associations).Save(hero).Error)
}

func (r *heroRepository) Delete(ctx context.Context, hero *model.Hero) error {
	return GetDB(ctx, r.db).Delete(&model.Hero{}, hero.ID).Error
}
