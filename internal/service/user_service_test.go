package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserDefaults(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "ana@example.com", false)

	assert.NotEqual(t, uuid.Nil, user.UUID)
	assert.Equal(t, byte(7), user.UUID[6]>>4, "uuid is time-ordered v7")
	assert.True(t, user.IsActive)
	assert.False(t, user.IsAdmin)
}

func TestCreateUserConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "ana@example.com", false)

	_, err := f.users.CreateUser(ctx, CreateUserRequest{Email: "ana@example.com", Name: "Ana 2", GoogleID: "other"})
	assert.ErrorIs(t, err, ErrUserConflict)

	_, err = f.users.CreateUser(ctx, CreateUserRequest{Email: "new@example.com", Name: "Ana 3", GoogleID: "google-ana@example.com"})
	assert.ErrorIs(t, err, ErrUserConflict)
}

func TestCreateUserRejectsBadEmail(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.CreateUser(context.Background(), CreateUserRequest{Email: "not-an-email", Name: "x", GoogleID: "g"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUserLookups(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "ana@example.com", false)

	byEmail, err := f.users.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.UUID, byEmail.UUID)

	byGoogle, err := f.users.GetUserByGoogleID(ctx, "google-ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.UUID, byGoogle.UUID)

	_, err = f.users.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.users.GetUserByGoogleID(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.users.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUserIsPartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "ana@example.com", false)

	name := "Ana Maria"
	updated, err := f.users.UpdateUser(ctx, user.UUID, UpdateUserRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.Name)
	assert.Equal(t, "ana@example.com", updated.Email)
	assert.True(t, updated.IsActive)

	inactive := false
	updated, err = f.users.UpdateUser(ctx, user.UUID, UpdateUserRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Ana Maria", updated.Name)

	f.createUser(t, "bo@example.com", false)
	taken := "bo@example.com"
	_, err = f.users.UpdateUser(ctx, user.UUID, UpdateUserRequest{Email: &taken})
	assert.ErrorIs(t, err, ErrUserConflict)

	reloaded, err := f.users.GetUser(ctx, user.UUID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", reloaded.Email)

	_, err = f.users.UpdateUser(ctx, uuid.New(), UpdateUserRequest{Name: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserWithPermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "ana@example.com", false)
	perm := f.createPermission(t, "read")
	_, err := f.perms.AssignPermission(ctx, user.UUID, perm.UUID)
	require.NoError(t, err)

	got, err := f.users.GetUserWithPermissions(ctx, user.UUID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, []string{"read"}, got.Permissions)
}

func TestDeleteUserCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "ana@example.com", false)
	perm := f.createPermission(t, "read")
	_, err := f.perms.AssignPermission(ctx, user.UUID, perm.UUID)
	require.NoError(t, err)

	require.NoError(t, f.users.DeleteUser(ctx, user.UUID))
	assert.Zero(t, f.assignmentRows(t))

	ids, err := f.perms.ListUsersForPermission(ctx, perm.UUID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	assert.ErrorIs(t, f.users.DeleteUser(ctx, user.UUID), ErrUserNotFound)
}

func TestListUsersAndAdmins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "ana@example.com", false)
	root := f.createUser(t, "root@example.com", true)

	all, err := f.users.ListUsers(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	limited, err := f.users.ListUsers(ctx, 0, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	admins, err := f.users.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, root.UUID, admins[0].UUID)
}
