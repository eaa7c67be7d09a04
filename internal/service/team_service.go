package service

import (
	"context"
	"fmt"

	"bff/internal/model"
	"bff/internal/repository"

	"github.com/google/uuid"
)

type CreateTeamRequest struct {
	Name         string `json:"name" binding:"required"`
	Headquarters string `json:"headquarters" binding:"required"`
}

type UpdateTeamRequest struct {
	Name         *string `json:"name"`
	Headquarters *string `json:"headquarters"`
}

type TeamResponse struct {
	UUID         uuid.UUID `json:"uuid"`
	Name         string    `json:"name"`
	Headquarters string    `json:"headquarters"`
}

type TeamService interface {
	CreateTeam(ctx context.Context, req CreateTeamRequest) (*TeamResponse, error)
	GetTeam(ctx context.Context, id uuid.UUID) (*TeamResponse, error)
	UpdateTeam(ctx context.Context, id uuid.UUID, req UpdateTeamRequest) (*TeamResponse, error)
	DeleteTeam(ctx context.Context, id uuid.UUID) error
	ListHeroes(ctx context.Context, id uuid.UUID) ([]HeroResponse, error)
}

type teamService struct {
	teamRepo  repository.TeamRepository
	heroRepo  repository.HeroRepository
	txManager repository.TransactionManager
}

func NewTeamService(teamRepo repository.TeamRepository, heroRepo repository.HeroRepository, txManager repository.TransactionManager) TeamService {
	return &teamService{teamRepo: teamRepo, heroRepo: heroRepo, txManager: txManager}
}

func (s *teamService) CreateTeam(ctx context.Context, req CreateTeamRequest) (*TeamResponse, error) {
	team := &model.Team{Name: req.Name, Headquarters: req.Headquarters}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, storageError(err, ErrTeamNotFound, ErrTeamConflict)
	}
	return toTeamResponse(team), nil
}

func (s *teamService) GetTeam(ctx context.Context, id uuid.UUID) (*TeamResponse, error) {
	team, err := s.teamRepo.FindByUUID(ctx, id)
	if err != nil {
		return nil, storageError(err, ErrTeamNotFound, ErrTeamConflict)
	}
	return toTeamResponse(team), nil
}

func (s *teamService) UpdateTeam(ctx context.Context, id uuid.UUID, req UpdateTeamRequest) (*TeamResponse, error) {
	var team *model.Team
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		team, err = s.teamRepo.FindByUUID(txCtx, id)
		if err != nil {
			return storageError(err, ErrTeamNotFound, ErrTeamConflict)
		}
		if req.Name != nil {
			team.Name = *req.Name
		}
		if req.Headquarters != nil {
			team.Headquarters = *req.Headquarters
		}
		if err := s.teamRepo.Update(txCtx, team); err != nil {
			return storageError(err, ErrTeamNotFound, ErrTeamConflict)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toTeamResponse(team), nil
}

func (s *teamService) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		team, err := s.teamRepo.FindByUUID(txCtx, id)
		if err != nil {
			return storageError(err, ErrTeamNotFound, ErrTeamConflict)
		}
		if err := s.teamRepo.Delete(txCtx, team); err != nil {
			return fmt.Errorf("delete team: %w", err)
		}
		return nil
	})
}

func (s *teamService) ListHeroes(ctx context.Context, id uuid.UUID) ([]HeroResponse, error) {
	team, err := s.teamRepo.FindByUUID(ctx, id)
	if err != nil {
		return nil, storageError(err, ErrTeamNotFound, ErrTeamConflict)
	}
	heroes, err := s.heroRepo.ListByTeam(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("list team heroes: %w", err)
	}
	res := make([]HeroResponse, 0, len(heroes))
	for i := range heroes {
		res = append(res, *toHeroResponse(&heroes[i]))
	}
	return res, nil
}

func toTeamResponse(t *model.Team) *TeamResponse {
	return &TeamResponse{UUID: t.UUID, Name: t.Name, Headquarters: t.Headquarters}
}
