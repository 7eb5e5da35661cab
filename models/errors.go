package models

import (
	"github.com/cockroachdb/errors"
)

// Base errors, related to default API status codes
var (
	// BadParameterError is rendered with the http status code 400
	BadParameterError = errors.New("bad parameter")

	// UnAuthorizedError is rendered with the http status code 401
	UnAuthorizedError = errors.New("unauthorized")

	// ForbiddenError is rendered with the http status code 403
	ForbiddenError = errors.New("forbidden")

	// NotFoundError is rendered with the http status code 404
	NotFoundError = errors.New("not found")

	// ConflictError is rendered with the http status code 409
	ConflictError = errors.New("duplicate value")
)

// Bootstrap workflow error taxonomy. The task queue retries both kinds until
// its attempt budget is exhausted, after which the run is marked failed.
var (
	// ErrGeneration covers a failed generation call or a response that does
	// not satisfy the expected schema. Nothing has been persisted when it is
	// returned.
	ErrGeneration = errors.New("generation failed")

	// ErrPersistence covers a failed write of already-generated content.
	ErrPersistence = errors.New("persistence failed")
)

var (
	ErrAgentArchived           = errors.Wrap(BadParameterError, "agent is archived")
	ErrInvalidStatusTransition = errors.Wrap(BadParameterError, "invalid agent status transition")
)
