package service

import (
	"context"
	"fmt"

	"bff/internal/model"
	"bff/internal/repository"

	"github.com/google/uuid"
)

type CreateHeroRequest struct {
	Name       string     `json:"name" binding:"required"`
	SecretName string     `json:"secret_name" binding:"required"`
	Age        *int       `json:"age"`
	TeamUUID   *uuid.UUID `json:"team_uuid"`
}

type UpdateHeroRequest struct {
	Name       *string    `json:"name"`
	SecretName *string    `json:"secret_name"`
	Age        *int       `json:"age"`
	TeamUUID   *uuid.UUID `json:"team_uuid"`
}

type HeroResponse struct {
	UUID       uuid.UUID  `json:"uuid"`
	Name       string     `json:"name"`
	SecretName string     `json:"secret_name"`
	Age        *int       `json:"age"`
	TeamUUID   *uuid.UUID `json:"team_uuid"`
}

type HeroService interface {
	CreateHero(ctx context.Context, req CreateHeroRequest) (*HeroResponse, error)
	GetHero(ctx context.Context, id uuid.UUID) (*HeroResponse, error)
	UpdateHero(ctx context.Context, id uuid.UUID, req UpdateHeroRequest) (*HeroResponse, error)
	DeleteHero(ctx context.Context, id uuid.UUID) error
}

type heroService struct {
	heroRepo  repository.HeroRepository
	teamRepo  repository.TeamRepository
	txManager repository.TransactionManager
}

func NewHeroService(heroRepo repository.HeroRepository, teamRepo repository.TeamRepository, txManager repository.TransactionManager) HeroService {
	return &heroService{heroRepo: heroRepo, teamRepo: teamRepo, txManager: txManager}
}

func (s *heroService) CreateHero(ctx context.Context, req CreateHeroRequest) (*HeroResponse, error) {
	hero := &model.Hero{Name: req.Name, SecretName: req.SecretName, Age: req.Age}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if req.TeamUUID != nil {
			if err := s.linkTeam(txCtx, hero, *req.TeamUUID); err != nil {
				return err
			}
		}
		if err := s.heroRepo.Create(txCtx, hero); err != nil {
			return storageError(err, ErrHeroNotFound, ErrHeroConflict)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toHeroResponse(hero), nil
}

func (s *heroService) GetHero(ctx context.Context, id uuid.UUID) (*HeroResponse, error) {
	hero, err := s.heroRepo.FindByUUID(ctx, id)
	if err != nil {
		return nil, storageError(err, ErrHeroNotFound, ErrHeroConflict)
	}
	return toHeroResponse(hero), nil
}

func (s *heroService) UpdateHero(ctx context.Context, id uuid.UUID, req UpdateHeroRequest) (*HeroResponse, error) {
	var hero *model.Hero
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		hero, err = s.heroRepo.FindByUUID(txCtx, id)
		if err != nil {
			return storageError(err, ErrHeroNotFound, ErrHeroConflict)
		}
		if req.Name != nil {
			hero.Name = *req.Name
		}
		if req.SecretName != nil {
			hero.SecretName = *req.SecretName
		}
		if req.Age != nil {
			hero.Age = req.Age
		}
		if req.TeamUUID != nil {
			if err := s.linkTeam(txCtx, hero, *req.TeamUUID); err != nil {
				return err
			}
		}
		if err := s.heroRepo.Update(txCtx, hero); err != nil {
			return storageError(err, ErrHeroNotFound, ErrHeroConflict)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toHeroResponse(hero), nil
}

func (s *heroService) DeleteHero(ctx context.Context, id uuid.UUID) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		hero, err := s.heroRepo.FindByUUID(txCtx, id)
		if err != nil {
			return storageError(err, ErrHeroNotFound, ErrHeroConflict)
		}
		if err := s.heroRepo.Delete(txCtx, hero); err != nil {
			return fmt.Errorf("delete hero: %w", err)
		}
		return nil
	})
}

func (s *heroService) linkTeam(ctx context.Context, hero *model.Hero, teamID uuid.UUID) error {
	team, err := s.teamRepo.FindByUUID(ctx, teamID)
	if err != nil {
		return storageError(err, ErrTeamNotFound, ErrTeamConflict)
	}
	hero.TeamID = &team.ID
	hero.TeamUUID = &team.UUID
	return nil
}

func toHeroResponse(h *model.Hero) *HeroResponse {
	return &HeroResponse{
		UUID:       h.UUID,
		Name:       h.Name,
		SecretName: h.SecretName,
		Age:        h.Age,
		TeamUUID:   h.TeamUUID,
	}
}
