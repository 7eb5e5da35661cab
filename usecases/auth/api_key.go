package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/repositories"
	"github.com/mimichq/mimic-backend/usecases/executor_factory"
	"github.com/mimichq/mimic-backend/utils"
)

type apiKeyRepository interface {
	GetApiKeyByHash(ctx context.Context, exec repositories.Executor, keyHash string) (models.ApiKey, error)
	TouchApiKeyLastUsed(ctx context.Context, exec repositories.Executor, apiKeyId uuid.UUID) error
}

// ApiKeyUsecase authenticates machine callers from the X-API-Key header.
// Keys are provisioned out of band and stored hashed, so validation only
// ever compares sha256 digests.
type ApiKeyUsecase struct {
	executorFactory executor_factory.ExecutorFactory
	repository      apiKeyRepository
	now             func() time.Time
}

func NewApiKeyUsecase(
	executorFactory executor_factory.ExecutorFactory,
	repository apiKeyRepository,
) ApiKeyUsecase {
	return ApiKeyUsecase{
		executorFactory: executorFactory,
		repository:      repository,
		now:             time.Now,
	}
}

// ValidateApiKey resolves a raw key to its active record and returns the
// credentials the key acts with. Rows created through an api key are
// attributed to the system user, not to the human who provisioned the key.
func (uc ApiKeyUsecase) ValidateApiKey(ctx context.Context, rawKey string) (utils.Credentials, error) {
	hash := sha256.Sum256([]byte(rawKey))

	exec := uc.executorFactory.NewExecutor()
	apiKey, err := uc.repository.GetApiKeyByHash(ctx, exec, hex.EncodeToString(hash[:]))
	if err != nil {
		if errors.Is(err, models.NotFoundError) {
			return utils.Credentials{}, errors.Wrap(models.UnAuthorizedError, "unknown api key")
		}
		return utils.Credentials{}, err
	}
	if apiKey.ExpiresAt != nil && apiKey.ExpiresAt.Before(uc.now()) {
		return utils.Credentials{}, errors.Wrap(models.UnAuthorizedError, "api key expired")
	}

	if err := uc.repository.TouchApiKeyLastUsed(ctx, exec, apiKey.Id); err != nil {
		utils.LoggerFromContext(ctx).WarnContext(ctx, "could not update api key last_used_at",
			"api_key_id", apiKey.Id.String())
	}

	return utils.Credentials{
		UserId: models.SystemUserId,
		TeamId: apiKey.TeamId,
	}, nil
}
