package dbmodels

import (
	"time"

	"github.com/google/uuid"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/utils"
)

type DBApiKey struct {
	Id         uuid.UUID  `db:"id"`
	TeamId     uuid.UUID  `db:"team_id"`
	Name       string     `db:"name"`
	KeyHash    string     `db:"key_hash"`
	KeyPrefix  string     `db:"key_prefix"`
	CreatedBy  uuid.UUID  `db:"created_by"`
	ExpiresAt  *time.Time `db:"expires_at"`
	LastUsedAt *time.Time `db:"last_used_at"`
	IsActive   bool       `db:"is_active"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

const TABLE_TEAM_API_KEYS = "team_api_keys"

var SelectApiKeyColumn = utils.ColumnList[DBApiKey]()

func AdaptApiKey(db DBApiKey) (models.ApiKey, error) {
	return models.ApiKey{
		Id:         db.Id,
		TeamId:     db.TeamId,
		Name:       db.Name,
		KeyHash:    db.KeyHash,
		KeyPrefix:  db.KeyPrefix,
		CreatedBy:  db.CreatedBy,
		ExpiresAt:  db.ExpiresAt,
		LastUsedAt: db.LastUsedAt,
		IsActive:   db.IsActive,
		CreatedAt:  db.CreatedAt,
		UpdatedAt:  db.UpdatedAt,
	}, nil
}
