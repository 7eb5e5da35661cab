package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/repositories/dbmodels"
)

func (r *MimicDbRepository) GetApiKeyByHash(
	ctx context.Context,
	exec Executor,
	keyHash string,
) (models.ApiKey, error) {
	return SqlToModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectApiKeyColumn...).
			From(dbmodels.TABLE_TEAM_API_KEYS).
			Where(squirrel.Eq{"key_hash": keyHash}).
			Where(squirrel.Eq{"is_active": true}),
		dbmodels.AdaptApiKey,
	)
}

func (r *MimicDbRepository) TouchApiKeyLastUsed(
	ctx context.Context,
	exec Executor,
	apiKeyId uuid.UUID,
) error {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().
			Update(dbmodels.TABLE_TEAM_API_KEYS).
			Set("last_used_at", squirrel.Expr("now()")).
			Where(squirrel.Eq{"id": apiKeyId}),
	)
}
