package service

import (
	"context"
	"sync"
	"testing"

	"bff/internal/lock"
	"bff/internal/model"
	"bff/internal/repository"
	"bff/internal/testutil"
	ws "bff/internal/websocket"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordedEvents struct {
	mu     sync.Mutex
	events []ws.Event
}

func (r *recordedEvents) Publish(event ws.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordedEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	db     *gorm.DB
	users  UserService
	perms  PermissionService
	teams  TeamService
	heroes HeroService
	events *recordedEvents
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	tx := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	permRepo := repository.NewPermissionRepository(db)
	linkRepo := repository.NewUserPermissionRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	heroRepo := repository.NewHeroRepository(db)
	events := &recordedEvents{}

	return &fixture{
		db:     db,
		users:  NewUserService(userRepo, linkRepo, tx),
		perms:  NewPermissionService(userRepo, permRepo, linkRepo, tx, lock.NewLocalLocker(), events),
		teams:  NewTeamService(teamRepo, heroRepo, tx),
		heroes: NewHeroService(heroRepo, teamRepo, tx),
		events: events,
	}
}

func (f *fixture) createUser(t *testing.T, email string, admin bool) *UserResponse {
	t.Helper()
	user, err := f.users.CreateUser(context.Background(), CreateUserRequest{
		Email:    email,
		Name:     "User " + email,
		GoogleID: "google-" + email,
		IsAdmin:  admin,
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) createPermission(t *testing.T, name string) *PermissionResponse {
	t.Helper()
	perm, err := f.perms.CreatePermission(context.Background(), CreatePermissionRequest{Name: name, Description: name})
	require.NoError(t, err)
	return perm
}

func (f *fixture) assignmentRows(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&model.UserPermission{}).Count(&count).Error)
	return count
}

func TestAssignIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "ana@example.com", false)
	perm := f.createPermission(t, "read")

	assigned, err := f.perms.AssignPermission(ctx, user.UUID, perm.UUID)
	require.NoError(t, err)
	assert.True(t, assigned)

	assigned, err = f.perms.AssignPermission(ctx, user.UUID, perm.UUID)
	require.NoError(t, err)
	assert.False(t, assigned)

	assert.Equal(t, int64(1), f.assignmentRows(t))
	assert.Equal(t, []string{ws.EventPermissionGranted}, f.events.types())
}

func TestRevokeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "ana@example.com", false)
	perm := f.createPermission(t, "read")

	revoked, err := f.perms.RevokePermission(ctx, user.UUID, perm.UUID)
	require.NoError(t, err)
	assert.False(t, revoked)

	_, err = f.perms.AssignPermission(ctx, user.UUID, perm.UUID)
	require.NoError(t, err)

	revoked, err = f.perms.RevokePermission(ctx, user.UUID, perm.UUID)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = f.perms.RevokePermission(ctx, user.UUID, perm.UUID)
	require.NoError(t, err)
	assert.False(t, revoked)

	assert.Zero(t, f.assignmentRows(t))
	assert.Equal(t, []string{ws.EventPermissionGranted, ws.EventPermissionRevoked}, f.events.types())
}

func TestAssignUnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "ana@example.com", false)
	perm := f.createPermission(t, "read")

	_, err := f.perms.AssignPermission(ctx, uuid.New(), perm.UUID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.perms.AssignPermission(ctx, user.UUID, uuid.New())
	assert.ErrorIs(t, err, ErrPermissionNotFound)

	_, err = f.perms.RevokePermission(ctx, uuid.New(), perm.UUID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.perms.RevokePermission(ctx, user.UUID, uuid.New())
	assert.ErrorIs(t, err, ErrPermissionNotFound)

	assert.Zero(t, f.assignmentRows(t))
	assert.Empty(t, f.events.types())
}

func TestConcurrentAssignCreatesOneRow(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "ana@example.com", false)
	perm := f.createPermission(t, "read")

	const callers = 10
	results := make(chan bool, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assigned, err := f.perms.AssignPermission(context.Background(), user.UUID, perm.UUID)
			assert.NoError(t, err)
			results <- assigned
		}()
	}
	wg.Wait()
	close(results)

	granted := 0
	for r := range results {
		if r {
			granted++
		}
	}
	assert.Equal(t, 1, granted)
	assert.Equal(t, int64(1), f.assignmentRows(t))
}

func TestHasPermissionScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "ana@example.com", false)
	read := f.createPermission(t, "read")

	has, err := f.perms.HasPermission(ctx, user.UUID, "read")
	require.NoError(t, err)
	assert.False(t, has)

	_, err = f.perms.AssignPermission(ctx, user.UUID, read.UUID)
	require.NoError(t, err)

	has, err = f.perms.HasPermission(ctx, user.UUID, "read")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = f.perms.HasPermission(ctx, user.UUID, "READ")
	require.NoError(t, err)
	assert.False(t, has, "names match case-sensitively")

	_, err = f.perms.RevokePermission(ctx, user.UUID, read.UUID)
	require.NoError(t, err)

	has, err = f.perms.HasPermission(ctx, user.UUID, "read")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestAdminBypass(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.createUser(t, "root@example.com", true)

	has, err := f.perms.HasPermission(ctx, admin.UUID, "anything-not-defined-anywhere")
	require.NoError(t, err)
	assert.True(t, has)

	demote := false
	_, err = f.users.UpdateUser(ctx, admin.UUID, UpdateUserRequest{IsAdmin: &demote})
	require.NoError(t, err)

	has, err = f.perms.HasPermission(ctx, admin.UUID, "anything-not-defined-anywhere")
	require.NoError(t, err)
	assert.False(t, has)

	perm := f.createPermission(t, "anything-not-defined-anywhere")
	_, err = f.perms.AssignPermission(ctx, admin.UUID, perm.UUID)
	require.NoError(t, err)

	has, err = f.perms.HasPermission(ctx, admin.UUID, "anything-not-defined-anywhere")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestHasPermissionUnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.perms.HasPermission(context.Background(), uuid.New(), "read")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUsersForPermission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.createUser(t, "ana@example.com", false)
	bo := f.createUser(t, "bo@example.com", false)
	f.createUser(t, "cy@example.com", false)
	perm := f.createPermission(t, "read")

	for _, u := range []*UserResponse{ana, bo} {
		_, err := f.perms.AssignPermission(ctx, u.UUID, perm.UUID)
		require.NoError(t, err)
	}

	ids, err := f.perms.ListUsersForPermission(ctx, perm.UUID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{ana.UUID.String(), bo.UUID.String()}, ids)

	_, err = f.perms.ListUsersForPermission(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrPermissionNotFound)
}

func TestListPermissionsForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "ana@example.com", false)

	names, err := f.perms.ListPermissionsForUser(ctx, user.UUID)
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)

	for _, name := range []string{"read", "write"} {
		perm := f.createPermission(t, name)
		_, err := f.perms.AssignPermission(ctx, user.UUID, perm.UUID)
		require.NoError(t, err)
	}

	names, err = f.perms.ListPermissionsForUser(ctx, user.UUID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"read", "write"}, names)

	_, err = f.perms.ListPermissionsForUser(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPermissionCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	perm := f.createPermission(t, "read")

	_, err := f.perms.CreatePermission(ctx, CreatePermissionRequest{Name: "read"})
	assert.ErrorIs(t, err, ErrPermissionConflict)

	byName, err := f.perms.GetPermissionByName(ctx, "read")
	require.NoError(t, err)
	assert.Equal(t, perm.UUID, byName.UUID)

	_, err = f.perms.GetPermissionByName(ctx, "missing")
	assert.ErrorIs(t, err, ErrPermissionNotFound)

	desc := "Read everything"
	updated, err := f.perms.UpdatePermission(ctx, perm.UUID, UpdatePermissionRequest{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "read", updated.Name)
	assert.Equal(t, desc, updated.Description)

	f.createPermission(t, "write")
	clash := "write"
	_, err = f.perms.UpdatePermission(ctx, perm.UUID, UpdatePermissionRequest{Name: &clash})
	assert.ErrorIs(t, err, ErrPermissionConflict)

	list, err := f.perms.ListPermissions(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	page, err := f.perms.ListPermissions(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "write", page[0].Name)

	require.NoError(t, f.perms.DeletePermission(ctx, perm.UUID))
	_, err = f.perms.GetPermission(ctx, perm.UUID)
	assert.ErrorIs(t, err, ErrPermissionNotFound)

	assert.ErrorIs(t, f.perms.DeletePermission(ctx, perm.UUID), ErrPermissionNotFound)
}

func TestDeletedPermissionDropsFromUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "ana@example.com", false)
	perm := f.createPermission(t, "read")

	_, err := f.perms.AssignPermission(ctx, user.UUID, perm.UUID)
	require.NoError(t, err)
	require.NoError(t, f.perms.DeletePermission(ctx, perm.UUID))

	has, err := f.perms.HasPermission(ctx, user.UUID, "read")
	require.NoError(t, err)
	assert.False(t, has)
}

type unlockedLocker struct{}

func (unlockedLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

// racingLinks reports the pair as absent and then writes it, as a replica that
// skips the pair lock would between our check and our insert.
type racingLinks struct {
	repository.UserPermissionRepository
}

func (r racingLinks) Exists(ctx context.Context, userID, permissionID uint) (bool, error) {
	if _, err := r.UserPermissionRepository.Create(ctx, userID, permissionID); err != nil {
		return false, err
	}
	return false, nil
}

func TestAssignAbsorbsConcurrentInsert(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	tx := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	permRepo := repository.NewPermissionRepository(db)
	links := racingLinks{repository.NewUserPermissionRepository(db)}
	events := &recordedEvents{}

	users := NewUserService(userRepo, links, tx)
	perms := NewPermissionService(userRepo, permRepo, links, tx, unlockedLocker{}, events)

	user, err := users.CreateUser(ctx, CreateUserRequest{Email: "ana@example.com", Name: "Ana", GoogleID: "g-ana"})
	require.NoError(t, err)
	perm, err := perms.CreatePermission(ctx, CreatePermissionRequest{Name: "read"})
	require.NoError(t, err)

	assigned, err := perms.AssignPermission(ctx, user.UUID, perm.UUID)
	require.NoError(t, err)
	assert.False(t, assigned)
	assert.Empty(t, events.types())

	var count int64
	require.NoError(t, db.Model(&model.UserPermission{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
