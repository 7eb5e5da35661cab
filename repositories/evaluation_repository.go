package repositories

import (
	"context"
	"encoding/json"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/guregu/null/v5"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/repositories/dbmodels"
)

// ReplaceEvaluations deletes any evaluations already stored for the agent
// and inserts the new batch. Callers run it inside a transaction so that a
// retried bootstrap attempt replaces the previous batch atomically instead
// of appending duplicates.
func (r *MimicDbRepository) ReplaceEvaluations(
	ctx context.Context,
	tx Transaction,
	agentId uuid.UUID,
	evaluations []models.Evaluation,
) error {
	err := ExecBuilder(
		ctx,
		tx,
		NewQueryBuilder().Delete(dbmodels.TABLE_AGENT_EVALUATIONS).
			Where(squirrel.Eq{"agent_id": agentId}),
	)
	if err != nil {
		return err
	}

	if len(evaluations) == 0 {
		return nil
	}

	query := NewQueryBuilder().Insert(dbmodels.TABLE_AGENT_EVALUATIONS).
		Columns(
			"id",
			"agent_id",
			"team_id",
			"created_by",
			"name",
			"metric",
			"description",
			"method",
			"pass_criteria",
			"severity",
			"notes",
			"llm_prompt",
			"regex_example",
			"is_active",
		)

	for _, evaluation := range evaluations {
		passCriteria, err := json.Marshal(evaluation.PassCriteria)
		if err != nil {
			return errors.Wrap(err, "unable to marshal evaluation pass_criteria")
		}
		query = query.Values(
			evaluation.Id,
			evaluation.AgentId,
			evaluation.TeamId,
			evaluation.CreatedBy,
			evaluation.Name,
			evaluation.Metric,
			evaluation.Description,
			evaluation.Method,
			passCriteria,
			evaluation.Severity,
			null.StringFromPtr(evaluation.Notes),
			null.StringFromPtr(evaluation.LlmPrompt),
			null.StringFromPtr(evaluation.RegexExample),
			evaluation.IsActive,
		)
	}

	return ExecBuilder(ctx, tx, query)
}

func (r *MimicDbRepository) ListEvaluationsByAgentId(
	ctx context.Context,
	exec Executor,
	agentId uuid.UUID,
) ([]models.Evaluation, error) {
	return SqlToListOfModels(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectEvaluationColumn...).
			From(dbmodels.TABLE_AGENT_EVALUATIONS).
			Where(squirrel.Eq{"agent_id": agentId}).
			OrderBy("created_at ASC", "name ASC"),
		dbmodels.AdaptEvaluation,
	)
}
