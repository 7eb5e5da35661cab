package dbmodels

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/utils"
)

type DBAgent struct {
	Id             uuid.UUID  `db:"id"`
	TeamId         uuid.UUID  `db:"team_id"`
	CreatedBy      uuid.UUID  `db:"created_by"`
	Name           string     `db:"name"`
	Description    string     `db:"description"`
	AgentType      string     `db:"agent_type"`
	Platform       string     `db:"platform"`
	PlatformConfig []byte     `db:"platform_config"`
	Status         string     `db:"status"`
	IsActive       bool       `db:"is_active"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

const TABLE_AGENTS = "agents"

var SelectAgentColumn = utils.ColumnList[DBAgent]()

func AdaptAgent(db DBAgent) (models.Agent, error) {
	rawConfig := make(map[string]any)
	if len(db.PlatformConfig) > 0 {
		if err := json.Unmarshal(db.PlatformConfig, &rawConfig); err != nil {
			return models.Agent{}, errors.Wrap(err, "unable to unmarshal agent platform_config")
		}
	}

	// The stored config was validated at write time, so adaptation failures
	// here would only come from rows written before a platform became known.
	platformConfig, err := models.NewPlatformConfig(db.Platform, rawConfig)
	if err != nil {
		platformConfig = models.PlatformConfig{Kind: models.PlatformUnknown, Raw: rawConfig}
	}

	return models.Agent{
		Id:             db.Id,
		TeamId:         db.TeamId,
		CreatedBy:      db.CreatedBy,
		Name:           db.Name,
		Description:    db.Description,
		AgentType:      models.AgentTypeFromString(db.AgentType),
		Platform:       db.Platform,
		PlatformConfig: platformConfig,
		Status:         models.AgentStatusFromString(db.Status),
		IsActive:       db.IsActive,
		CreatedAt:      db.CreatedAt,
		UpdatedAt:      db.UpdatedAt,
		DeletedAt:      db.DeletedAt,
	}, nil
}
