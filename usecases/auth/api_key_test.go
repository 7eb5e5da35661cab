package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/repositories"
)

type mockApiKeyRepository struct {
	mock.Mock
}

func (r *mockApiKeyRepository) GetApiKeyByHash(ctx context.Context,
	exec repositories.Executor, keyHash string,
) (models.ApiKey, error) {
	args := r.Called(ctx, exec, keyHash)
	return args.Get(0).(models.ApiKey), args.Error(1)
}

func (r *mockApiKeyRepository) TouchApiKeyLastUsed(ctx context.Context,
	exec repositories.Executor, apiKeyId uuid.UUID,
) error {
	args := r.Called(ctx, exec, apiKeyId)
	return args.Error(0)
}

func setupApiKeyTest() (ApiKeyUsecase, *mockApiKeyRepository) {
	repo := &mockApiKeyRepository{}
	return NewApiKeyUsecase(stubExecutorFactory{}, repo), repo
}

func testApiKey(rawKey string) models.ApiKey {
	hash := sha256.Sum256([]byte(rawKey))
	return models.ApiKey{
		Id:        uuid.New(),
		TeamId:    uuid.New(),
		Name:      "ci key",
		KeyHash:   hex.EncodeToString(hash[:]),
		KeyPrefix: rawKey[:10],
		CreatedBy: uuid.New(),
		IsActive:  true,
	}
}

func TestValidateApiKey_ResolvesTeamScopedSystemCredentials(t *testing.T) {
	uc, repo := setupApiKeyTest()
	ctx := context.Background()
	rawKey := "mk_0123456789abcdef"
	apiKey := testApiKey(rawKey)

	repo.On("GetApiKeyByHash", ctx, mock.Anything, apiKey.KeyHash).Return(apiKey, nil)
	repo.On("TouchApiKeyLastUsed", ctx, mock.Anything, apiKey.Id).Return(nil)

	creds, err := uc.ValidateApiKey(ctx, rawKey)

	assert.NoError(t, err)
	assert.Equal(t, models.SystemUserId, creds.UserId)
	assert.Equal(t, apiKey.TeamId, creds.TeamId)
	repo.AssertExpectations(t)
}

func TestValidateApiKey_UnknownKey(t *testing.T) {
	uc, repo := setupApiKeyTest()
	ctx := context.Background()

	repo.On("GetApiKeyByHash", ctx, mock.Anything, mock.Anything).
		Return(models.ApiKey{}, models.NotFoundError)

	_, err := uc.ValidateApiKey(ctx, "mk_not_a_real_key")

	assert.ErrorIs(t, err, models.UnAuthorizedError)
	repo.AssertNotCalled(t, "TouchApiKeyLastUsed", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateApiKey_ExpiredKey(t *testing.T) {
	uc, repo := setupApiKeyTest()
	ctx := context.Background()
	rawKey := "mk_0123456789abcdef"
	apiKey := testApiKey(rawKey)
	expired := time.Now().Add(-time.Hour)
	apiKey.ExpiresAt = &expired

	repo.On("GetApiKeyByHash", ctx, mock.Anything, apiKey.KeyHash).Return(apiKey, nil)

	_, err := uc.ValidateApiKey(ctx, rawKey)

	assert.ErrorIs(t, err, models.UnAuthorizedError)
	repo.AssertNotCalled(t, "TouchApiKeyLastUsed", mock.Anything, mock.Anything, mock.Anything)
}

// A failed last_used_at update must not reject an otherwise valid key.
func TestValidateApiKey_LastUsedUpdateFailureIsNotFatal(t *testing.T) {
	uc, repo := setupApiKeyTest()
	ctx := context.Background()
	rawKey := "mk_0123456789abcdef"
	apiKey := testApiKey(rawKey)

	repo.On("GetApiKeyByHash", ctx, mock.Anything, apiKey.KeyHash).Return(apiKey, nil)
	repo.On("TouchApiKeyLastUsed", ctx, mock.Anything, apiKey.Id).
		Return(models.ErrPersistence)

	creds, err := uc.ValidateApiKey(ctx, rawKey)

	assert.NoError(t, err)
	assert.Equal(t, apiKey.TeamId, creds.TeamId)
}
