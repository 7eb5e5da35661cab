package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaginationDefaultLimit = 10
	PaginationMaxLimit     = 100
)

// Cursor identifies a position in a (created_at DESC, id DESC) ordered
// listing. The zero value means "from the beginning".
type Cursor struct {
	Id        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func (c Cursor) IsZero() bool {
	return c.Id == uuid.Nil
}

type Pagination struct {
	Limit  int
	Cursor Cursor
}

func (p Pagination) WithDefaults() Pagination {
	if p.Limit <= 0 {
		p.Limit = PaginationDefaultLimit
	}
	if p.Limit > PaginationMaxLimit {
		p.Limit = PaginationMaxLimit
	}
	return p
}

// Page wraps one page of results. HasMore is determined by fetching one row
// beyond the requested limit.
type Page[T any] struct {
	Items   []T
	HasMore bool
}
