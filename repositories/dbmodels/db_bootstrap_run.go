package dbmodels

import (
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/utils"
)

type DBBootstrapRun struct {
	Id          uuid.UUID  `db:"id"`
	WorkflowId  string     `db:"workflow_id"`
	AgentId     uuid.UUID  `db:"agent_id"`
	TeamId      uuid.UUID  `db:"team_id"`
	Status      string     `db:"status"`
	CurrentStep string     `db:"current_step"`
	Attempts    int        `db:"attempts"`
	LastError   null.String `db:"last_error"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	CompletedAt *time.Time `db:"completed_at"`
}

const TABLE_BOOTSTRAP_RUNS = "agent_bootstrap_runs"

var SelectBootstrapRunColumn = utils.ColumnList[DBBootstrapRun]()

func AdaptBootstrapRun(db DBBootstrapRun) (models.BootstrapRun, error) {
	return models.BootstrapRun{
		Id:          db.Id,
		WorkflowId:  db.WorkflowId,
		AgentId:     db.AgentId,
		TeamId:      db.TeamId,
		Status:      models.BootstrapRunStatus(db.Status),
		CurrentStep: models.BootstrapStep(db.CurrentStep),
		Attempts:    db.Attempts,
		LastError:   db.LastError.Ptr(),
		CreatedAt:   db.CreatedAt,
		UpdatedAt:   db.UpdatedAt,
		CompletedAt: db.CompletedAt,
	}, nil
}
