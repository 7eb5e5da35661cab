package utils

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ContextKey int

const (
	ContextKeyLogger ContextKey = iota
	ContextKeyCredentials
)

func StoreLoggerInContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ContextKeyLogger, logger)
}

func StoreLoggerInContextMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctxWithLogger := StoreLoggerInContext(c.Request.Context(), logger)
		c.Request = c.Request.WithContext(ctxWithLogger)
	}
}

func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger, found := ctx.Value(ContextKeyLogger).(*slog.Logger)
	if !found {
		return slog.Default()
	}
	return logger
}

// Credentials carries the authenticated caller identity through the request
// context. TeamId is only set for api key callers, whose access is scoped to
// the key's team.
type Credentials struct {
	UserId uuid.UUID
	Email  string
	TeamId uuid.UUID
}

func StoreCredentialsInContext(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, ContextKeyCredentials, creds)
}

func CredentialsFromContext(ctx context.Context) (Credentials, bool) {
	creds, found := ctx.Value(ContextKeyCredentials).(Credentials)
	return creds, found
}
