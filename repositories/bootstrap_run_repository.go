package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/guregu/null/v5"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/repositories/dbmodels"
)

// CreateBootstrapRun records the start request of a bootstrap workflow. The
// agent_id column carries a unique constraint: a second start request for
// the same agent is a silent no-op, which makes workflow starts idempotent.
func (r *MimicDbRepository) CreateBootstrapRun(
	ctx context.Context,
	exec Executor,
	run models.BootstrapRun,
) error {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Insert(dbmodels.TABLE_BOOTSTRAP_RUNS).
			Columns(
				"id",
				"workflow_id",
				"agent_id",
				"team_id",
				"status",
				"current_step",
			).
			Values(
				run.Id,
				run.WorkflowId,
				run.AgentId,
				run.TeamId,
				run.Status,
				run.CurrentStep,
			).
			Suffix("ON CONFLICT (agent_id) DO NOTHING"),
	)
}

func (r *MimicDbRepository) GetBootstrapRunByAgentId(
	ctx context.Context,
	exec Executor,
	agentId uuid.UUID,
) (models.BootstrapRun, error) {
	return SqlToModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectBootstrapRunColumn...).
			From(dbmodels.TABLE_BOOTSTRAP_RUNS).
			Where(squirrel.Eq{"agent_id": agentId}),
		dbmodels.AdaptBootstrapRun,
	)
}

func (r *MimicDbRepository) UpdateBootstrapRun(
	ctx context.Context,
	exec Executor,
	runId uuid.UUID,
	update models.UpdateBootstrapRun,
) error {
	query := NewQueryBuilder().Update(dbmodels.TABLE_BOOTSTRAP_RUNS).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": runId})

	if update.Status != nil {
		query = query.Set("status", *update.Status)
	}
	if update.CurrentStep != nil {
		query = query.Set("current_step", *update.CurrentStep)
	}
	if update.LastError != nil {
		query = query.Set("last_error", null.StringFromPtr(update.LastError))
	}
	if update.CompletedAt != nil {
		query = query.Set("completed_at", *update.CompletedAt)
	}

	return ExecBuilder(ctx, exec, query)
}

func (r *MimicDbRepository) IncrementBootstrapRunAttempts(
	ctx context.Context,
	exec Executor,
	runId uuid.UUID,
) error {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Update(dbmodels.TABLE_BOOTSTRAP_RUNS).
			Set("attempts", squirrel.Expr("attempts + 1")).
			Set("updated_at", squirrel.Expr("now()")).
			Where(squirrel.Eq{"id": runId}),
	)
}
