package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/guregu/null/v5"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/repositories/dbmodels"
)

// UpsertUser syncs a user row from an identity provider event. Rows are
// keyed on idp_id so that created and updated events converge on one row,
// regardless of delivery order or redelivery.
func (r *MimicDbRepository) UpsertUser(
	ctx context.Context,
	exec Executor,
	userId uuid.UUID,
	input models.UpsertUserInput,
) error {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Insert(dbmodels.TABLE_USERS).
			Columns(
				"id",
				"idp_id",
				"email",
				"first_name",
				"last_name",
				"image_url",
				"last_sign_in_at",
			).
			Values(
				userId,
				input.IdpId,
				input.Email,
				null.StringFromPtr(input.FirstName),
				null.StringFromPtr(input.LastName),
				null.StringFromPtr(input.ImageUrl),
				input.LastSignInAt,
			).
			Suffix(`ON CONFLICT (idp_id) DO UPDATE SET
				email = EXCLUDED.email,
				first_name = EXCLUDED.first_name,
				last_name = EXCLUDED.last_name,
				image_url = EXCLUDED.image_url,
				last_sign_in_at = COALESCE(EXCLUDED.last_sign_in_at, users.last_sign_in_at),
				is_active = true,
				deleted_at = NULL,
				updated_at = now()`),
	)
}

func (r *MimicDbRepository) GetUserByIdpId(
	ctx context.Context,
	exec Executor,
	idpId string,
) (models.User, error) {
	return SqlToModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectUserColumn...).
			From(dbmodels.TABLE_USERS).
			Where(squirrel.Eq{"idp_id": idpId}).
			Where(squirrel.Eq{"deleted_at": nil}),
		dbmodels.AdaptUser,
	)
}

func (r *MimicDbRepository) GetUserByEmail(
	ctx context.Context,
	exec Executor,
	email string,
) (models.User, error) {
	return SqlToModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectUserColumn...).
			From(dbmodels.TABLE_USERS).
			Where(squirrel.Eq{"email": email}).
			Where(squirrel.Eq{"deleted_at": nil}),
		dbmodels.AdaptUser,
	)
}

func (r *MimicDbRepository) GetUserById(
	ctx context.Context,
	exec Executor,
	userId uuid.UUID,
) (models.User, error) {
	return SqlToModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectUserColumn...).
			From(dbmodels.TABLE_USERS).
			Where(squirrel.Eq{"id": userId}).
			Where(squirrel.Eq{"deleted_at": nil}),
		dbmodels.AdaptUser,
	)
}

func (r *MimicDbRepository) SoftDeleteUserByIdpId(
	ctx context.Context,
	exec Executor,
	idpId string,
) error {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Update(dbmodels.TABLE_USERS).
			Set("is_active", false).
			Set("deleted_at", squirrel.Expr("now()")).
			Set("updated_at", squirrel.Expr("now()")).
			Where(squirrel.Eq{"idp_id": idpId}).
			Where(squirrel.Eq{"deleted_at": nil}),
	)
}

func (r *MimicDbRepository) GetTeamById(
	ctx context.Context,
	exec Executor,
	teamId uuid.UUID,
) (models.Team, error) {
	return SqlToModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectTeamColumn...).
			From(dbmodels.TABLE_TEAMS).
			Where(squirrel.Eq{"id": teamId}),
		dbmodels.AdaptTeam,
	)
}
