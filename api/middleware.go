package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/usecases"
	"github.com/mimichq/mimic-backend/usecases/auth"
	"github.com/mimichq/mimic-backend/utils"
)

func ParseAuthorizationBearerHeader(header http.Header) (string, error) {
	authorization := header.Get("Authorization")
	if authorization == "" {
		return "", nil
	}
	token, found := strings.CutPrefix(authorization, "Bearer ")
	if !found {
		return "", errors.Wrap(models.BadParameterError, "malformed Authorization header")
	}
	return strings.TrimSpace(token), nil
}

type Authentication struct {
	magicLink auth.MagicLinkUsecase
	apiKey    auth.ApiKeyUsecase
}

func NewAuthentication(uc usecases.Usecases) Authentication {
	return Authentication{
		magicLink: uc.NewMagicLinkUsecase(),
		apiKey:    uc.NewApiKeyUsecase(),
	}
}

// Middleware authenticates the request from its session token and stores the
// caller credentials in the request context.
func (a Authentication) Middleware(c *gin.Context) {
	token, err := ParseAuthorizationBearerHeader(c.Request.Header)
	if err == nil && token == "" {
		err = errors.Wrap(models.UnAuthorizedError, "missing session token")
	}
	if presentError(c, err) {
		c.Abort()
		return
	}

	creds, err := a.magicLink.ValidateSession(token)
	if presentError(c, err) {
		c.Abort()
		return
	}

	ctx := utils.StoreCredentialsInContext(c.Request.Context(), creds)
	logger := utils.LoggerFromContext(ctx).With(slog.String("email", creds.Email))
	ctx = utils.StoreLoggerInContext(ctx, logger)

	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

// ApiKeyMiddleware authenticates machine callers (the CLI) from the X-API-Key
// header. The resulting credentials are scoped to the key's team.
func (a Authentication) ApiKeyMiddleware(c *gin.Context) {
	rawKey := c.GetHeader("X-API-Key")
	if rawKey == "" {
		presentError(c, errors.Wrap(models.UnAuthorizedError, "missing api key"))
		c.Abort()
		return
	}

	creds, err := a.apiKey.ValidateApiKey(c.Request.Context(), rawKey)
	if presentError(c, err) {
		c.Abort()
		return
	}

	ctx := utils.StoreCredentialsInContext(c.Request.Context(), creds)
	logger := utils.LoggerFromContext(ctx).With(slog.String("team_id", creds.TeamId.String()))
	ctx = utils.StoreLoggerInContext(ctx, logger)

	c.Request = c.Request.WithContext(ctx)
	c.Next()
}
