package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/repositories"
	"github.com/mimichq/mimic-backend/usecases/executor_factory"
	"github.com/mimichq/mimic-backend/utils"
)

const (
	magicLinkTokenLifetime = 15 * time.Minute
	sessionTokenLifetime   = 24 * time.Hour

	tokenPurposeMagicLink = "magic_link"
	tokenPurposeSession   = "session"
)

type tokenClaims struct {
	Purpose string `json:"purpose"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

type magicLinkRepository interface {
	GetUserByEmail(ctx context.Context, exec repositories.Executor, email string) (models.User, error)
	GetUserById(ctx context.Context, exec repositories.Executor, userId uuid.UUID) (models.User, error)
}

// MagicLinkUsecase issues single-purpose login tokens delivered by email and
// exchanges them for session tokens. Both tokens are HS256 JWTs signed with
// the same key but separated by a purpose claim, so a magic-link token can
// never be replayed as a session.
type MagicLinkUsecase struct {
	executorFactory executor_factory.ExecutorFactory
	repository      magicLinkRepository
	emailSender     repositories.EmailRepository
	signingKey      []byte
	baseUrl         string
	now             func() time.Time
}

func NewMagicLinkUsecase(
	executorFactory executor_factory.ExecutorFactory,
	repository magicLinkRepository,
	emailSender repositories.EmailRepository,
	signingKey []byte,
	baseUrl string,
) MagicLinkUsecase {
	return MagicLinkUsecase{
		executorFactory: executorFactory,
		repository:      repository,
		emailSender:     emailSender,
		signingKey:      signingKey,
		baseUrl:         baseUrl,
		now:             time.Now,
	}
}

// SendMagicLink issues a login token for the email and hands the link to the
// email sender. An unknown email is reported as a success to the caller so
// that the endpoint does not leak which addresses have an account.
func (uc MagicLinkUsecase) SendMagicLink(ctx context.Context, email string) error {
	if email == "" {
		return errors.Wrap(models.BadParameterError, "email is required")
	}

	exec := uc.executorFactory.NewExecutor()
	user, err := uc.repository.GetUserByEmail(ctx, exec, email)
	if err != nil {
		if errors.Is(err, models.NotFoundError) {
			utils.LoggerFromContext(ctx).InfoContext(ctx,
				"magic link requested for unknown email, not sending")
			return nil
		}
		return err
	}

	token, err := uc.newToken(tokenPurposeMagicLink, user, magicLinkTokenLifetime)
	if err != nil {
		return errors.Wrap(err, "could not sign magic link token")
	}

	link := fmt.Sprintf("%s/auth/magic-link/verify?token=%s", uc.baseUrl, token)
	return uc.emailSender.SendMagicLinkEmail(ctx, user.Email, link)
}

// VerifyMagicLink exchanges a valid magic-link token for a session token.
func (uc MagicLinkUsecase) VerifyMagicLink(ctx context.Context, token string) (string, error) {
	claims, err := uc.parseToken(token, tokenPurposeMagicLink)
	if err != nil {
		return "", err
	}

	userId, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", errors.Wrap(models.UnAuthorizedError, "invalid token subject")
	}

	// The account can have been deactivated between issuance and use.
	exec := uc.executorFactory.NewExecutor()
	user, err := uc.repository.GetUserById(ctx, exec, userId)
	if err != nil {
		if errors.Is(err, models.NotFoundError) {
			return "", errors.Wrap(models.UnAuthorizedError, "unknown user")
		}
		return "", err
	}

	return uc.newToken(tokenPurposeSession, user, sessionTokenLifetime)
}

// ValidateSession checks a bearer token and returns the caller credentials.
func (uc MagicLinkUsecase) ValidateSession(token string) (utils.Credentials, error) {
	claims, err := uc.parseToken(token, tokenPurposeSession)
	if err != nil {
		return utils.Credentials{}, err
	}

	userId, err := uuid.Parse(claims.Subject)
	if err != nil {
		return utils.Credentials{}, errors.Wrap(models.UnAuthorizedError, "invalid token subject")
	}

	return utils.Credentials{
		UserId: userId,
		Email:  claims.Email,
	}, nil
}

func (uc MagicLinkUsecase) newToken(purpose string, user models.User, lifetime time.Duration) (string, error) {
	now := uc.now()
	claims := tokenClaims{
		Purpose: purpose,
		Email:   user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Id.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.signingKey)
}

func (uc MagicLinkUsecase) parseToken(token string, purpose string) (tokenClaims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) {
			return uc.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(uc.now),
	)
	if err != nil || !parsed.Valid {
		return tokenClaims{}, errors.Wrap(models.UnAuthorizedError, "invalid token")
	}
	if claims.Purpose != purpose {
		return tokenClaims{}, errors.Wrap(models.UnAuthorizedError, "token used for the wrong purpose")
	}
	return claims, nil
}
