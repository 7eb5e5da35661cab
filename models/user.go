package models

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors an account managed by the external identity provider. Rows
// are kept in sync by the identity webhook and are soft deleted.
type User struct {
	Id           uuid.UUID
	IdpId        string
	Email        string
	FirstName    *string
	LastName     *string
	ImageUrl     *string
	IsActive     bool
	LastSignInAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// SystemUserId is the system actor stamped as created_by on generated rows
// (personas, evaluations), distinct from any human account. The matching
// user row is inserted by the seed migration.
var SystemUserId = uuid.MustParse("550e8400-e29b-41d4-a716-446655440003")

type UpsertUserInput struct {
	IdpId        string
	Email        string
	FirstName    *string
	LastName     *string
	ImageUrl     *string
	LastSignInAt *time.Time
}

type Team struct {
	Id        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
