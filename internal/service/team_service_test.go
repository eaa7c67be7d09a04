package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestTeamAndHeroLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	team, err := f.teams.CreateTeam(ctx, CreateTeamRequest{Name: "Preventers", Headquarters: "Sharp Tower"})
	require.NoError(t, err)

	_, err = f.teams.CreateTeam(ctx, CreateTeamRequest{Name: "Preventers", Headquarters: "Elsewhere"})
	assert.ErrorIs(t, err, ErrTeamConflict)

	hero, err := f.heroes.CreateHero(ctx, CreateHeroRequest{
		Name:       "Deadpond",
		SecretName: "Dive Wilson",
		TeamUUID:   &team.UUID,
	})
	require.NoError(t, err)
	require.NotNil(t, hero.TeamUUID)
	assert.Equal(t, team.UUID, *hero.TeamUUID)
	assert.Nil(t, hero.Age)

	_, err = f.heroes.CreateHero(ctx, CreateHeroRequest{Name: "Copy", SecretName: "Dive Wilson"})
	assert.ErrorIs(t, err, ErrHeroConflict)

	members, err := f.teams.ListHeroes(ctx, team.UUID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, hero.UUID, members[0].UUID)

	updated, err := f.heroes.UpdateHero(ctx, hero.UUID, UpdateHeroRequest{Age: intPtr(48)})
	require.NoError(t, err)
	require.NotNil(t, updated.Age)
	assert.Equal(t, 48, *updated.Age)
	assert.Equal(t, "Deadpond", updated.Name)

	require.NoError(t, f.teams.DeleteTeam(ctx, team.UUID))

	orphan, err := f.heroes.GetHero(ctx, hero.UUID)
	require.NoError(t, err)
	assert.Nil(t, orphan.TeamUUID)

	_, err = f.teams.GetTeam(ctx, team.UUID)
	assert.ErrorIs(t, err, ErrTeamNotFound)

	require.NoError(t, f.heroes.DeleteHero(ctx, hero.UUID))
	assert.ErrorIs(t, f.heroes.DeleteHero(ctx, hero.UUID), ErrHeroNotFound)
}

func TestHeroRejectsUnknownTeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	missing := uuid.New()

	_, err := f.heroes.CreateHero(ctx, CreateHeroRequest{Name: "Rusty", SecretName: "Tommy", TeamUUID: &missing})
	assert.ErrorIs(t, err, ErrTeamNotFound)

	hero, err := f.heroes.CreateHero(ctx, CreateHeroRequest{Name: "Rusty", SecretName: "Tommy"})
	require.NoError(t, err)

	_, err = f.heroes.UpdateHero(ctx, hero.UUID, UpdateHeroRequest{TeamUUID: &missing})
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestUpdateTeamPartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	team, err := f.teams.CreateTeam(ctx, CreateTeamRequest{Name: "Z-Force", Headquarters: "Sister Margaret's Bar"})
	require.NoError(t, err)

	hq := "Moved"
	updated, err := f.teams.UpdateTeam(ctx, team.UUID, UpdateTeamRequest{Headquarters: &hq})
	require.NoError(t, err)
	assert.Equal(t, "Z-Force", updated.Name)
	assert.Equal(t, "Moved", updated.Headquarters)

	_, err = f.teams.UpdateTeam(ctx, uuid.New(), UpdateTeamRequest{Headquarters: &hq})
	assert.ErrorIs(t, err, ErrTeamNotFound)

	_, err = f.teams.ListHeroes(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrTeamNotFound)
}
