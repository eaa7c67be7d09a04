package service

import "fmt"

// NotFoundError reports that an entity reference did not resolve.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// ConflictError reports a uniqueness violation on create or update.
type ConflictError struct {
	Entity string
}

func (e *ConflictError) Error() string {
	return e.Entity + " already exists"
}

var (
	ErrUserNotFound       = &NotFoundError{Entity: "User"}
	ErrPermissionNotFound = &NotFoundError{Entity: "Permission"}
	ErrTeamNotFound       = &NotFoundError{Entity: "Team"}
	ErrHeroNotFound       = &NotFoundError{Entity: "Hero"}

	ErrUserConflict       = &ConflictError{Entity: "User"}
	ErrPermissionConflict = &ConflictError{Entity: "Permission"}
	ErrTeamConflict       = &ConflictError{Entity: "Team"}
	ErrHeroConflict       = &ConflictError{Entity: "Hero"}
)

// ValidationError reports a request the service refuses before touching storage.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
