package models

import (
	"time"

	"github.com/google/uuid"
)

// ApiKey authenticates machine callers (the CLI) on behalf of a team. Only
// the sha256 hash of the key is stored; the prefix is kept for display.
type ApiKey struct {
	Id         uuid.UUID
	TeamId     uuid.UUID
	Name       string
	KeyHash    string
	KeyPrefix  string
	CreatedBy  uuid.UUID
	ExpiresAt  *time.Time
	LastUsedAt *time.Time
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
