package dbmodels

import (
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/utils"
)

type DBUser struct {
	Id           uuid.UUID   `db:"id"`
	IdpId        string      `db:"idp_id"`
	Email        string      `db:"email"`
	FirstName    null.String `db:"first_name"`
	LastName     null.String `db:"last_name"`
	ImageUrl     null.String `db:"image_url"`
	IsActive     bool        `db:"is_active"`
	LastSignInAt *time.Time  `db:"last_sign_in_at"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
	DeletedAt    *time.Time  `db:"deleted_at"`
}

const TABLE_USERS = "users"

var SelectUserColumn = utils.ColumnList[DBUser]()

func AdaptUser(db DBUser) (models.User, error) {
	return models.User{
		Id:           db.Id,
		IdpId:        db.IdpId,
		Email:        db.Email,
		FirstName:    db.FirstName.Ptr(),
		LastName:     db.LastName.Ptr(),
		ImageUrl:     db.ImageUrl.Ptr(),
		IsActive:     db.IsActive,
		LastSignInAt: db.LastSignInAt,
		CreatedAt:    db.CreatedAt,
		UpdatedAt:    db.UpdatedAt,
		DeletedAt:    db.DeletedAt,
	}, nil
}

type DBTeam struct {
	Id        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

const TABLE_TEAMS = "teams"

var SelectTeamColumn = utils.ColumnList[DBTeam]()

func AdaptTeam(db DBTeam) (models.Team, error) {
	return models.Team{
		Id:        db.Id,
		Name:      db.Name,
		CreatedAt: db.CreatedAt,
		UpdatedAt: db.UpdatedAt,
	}, nil
}
