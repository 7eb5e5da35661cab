package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/repositories"
	"github.com/mimichq/mimic-backend/usecases/executor_factory"
	"github.com/mimichq/mimic-backend/utils"
)

type identityWebhookRepository interface {
	UpsertUser(ctx context.Context, exec repositories.Executor, userId uuid.UUID, input models.UpsertUserInput) error
	SoftDeleteUserByIdpId(ctx context.Context, exec repositories.Executor, idpId string) error
}

type identityEventPayload struct {
	Type string `json:"type"`
	Data struct {
		Id             string `json:"id"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
		FirstName    *string `json:"first_name"`
		LastName     *string `json:"last_name"`
		ImageUrl     *string `json:"image_url"`
		LastSignInAt *int64  `json:"last_sign_in_at"`
	} `json:"data"`
}

// IdentityWebhookUsecase keeps the local users table in sync with the
// external identity provider. Events can be delivered more than once and out
// of order: created and updated converge on the same upsert.
type IdentityWebhookUsecase struct {
	executorFactory executor_factory.ExecutorFactory
	repository      identityWebhookRepository
	verifier        *WebhookVerifier
}

func NewIdentityWebhookUsecase(
	executorFactory executor_factory.ExecutorFactory,
	repository identityWebhookRepository,
	verifier *WebhookVerifier,
) IdentityWebhookUsecase {
	return IdentityWebhookUsecase{
		executorFactory: executorFactory,
		repository:      repository,
		verifier:        verifier,
	}
}

func (uc IdentityWebhookUsecase) HandleEvent(
	ctx context.Context,
	msgId, timestamp, signature string,
	payload []byte,
) error {
	if err := uc.verifier.Verify(msgId, timestamp, signature, payload); err != nil {
		return err
	}

	var event identityEventPayload
	if err := json.Unmarshal(payload, &event); err != nil {
		return errors.Wrap(models.BadParameterError, "invalid webhook payload")
	}
	if event.Data.Id == "" {
		return errors.Wrap(models.BadParameterError, "webhook event has no user id")
	}

	logger := utils.LoggerFromContext(ctx).With(
		"event_type", event.Type, "idp_id", event.Data.Id)
	exec := uc.executorFactory.NewExecutor()

	switch event.Type {
	case models.IdentityEventUserCreated, models.IdentityEventUserUpdated:
		input, err := adaptUpsertUserInput(event)
		if err != nil {
			return err
		}
		if err := uc.repository.UpsertUser(ctx, exec, uuid.New(), input); err != nil {
			return err
		}
		logger.InfoContext(ctx, "Synced user from identity provider")
		return nil

	case models.IdentityEventUserDeleted:
		if err := uc.repository.SoftDeleteUserByIdpId(ctx, exec, event.Data.Id); err != nil {
			return err
		}
		logger.InfoContext(ctx, "Soft deleted user from identity provider")
		return nil

	default:
		return errors.Wrapf(models.BadParameterError, "unsupported event type %q", event.Type)
	}
}

func adaptUpsertUserInput(event identityEventPayload) (models.UpsertUserInput, error) {
	var email string
	if len(event.Data.EmailAddresses) > 0 {
		email = event.Data.EmailAddresses[0].EmailAddress
	}
	if email == "" {
		return models.UpsertUserInput{}, errors.Wrap(models.BadParameterError,
			"user event has no email address")
	}

	var lastSignInAt *time.Time
	if event.Data.LastSignInAt != nil {
		t := time.UnixMilli(*event.Data.LastSignInAt)
		lastSignInAt = &t
	}

	return models.UpsertUserInput{
		IdpId:        event.Data.Id,
		Email:        email,
		FirstName:    event.Data.FirstName,
		LastName:     event.Data.LastName,
		ImageUrl:     event.Data.ImageUrl,
		LastSignInAt: lastSignInAt,
	}, nil
}
