package dbmodels

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/guregu/null/v5"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/utils"
)

type DBEvaluation struct {
	Id           uuid.UUID   `db:"id"`
	AgentId      uuid.UUID   `db:"agent_id"`
	TeamId       uuid.UUID   `db:"team_id"`
	CreatedBy    uuid.UUID   `db:"created_by"`
	Name         string      `db:"name"`
	Metric       string      `db:"metric"`
	Description  string      `db:"description"`
	Method       string      `db:"method"`
	PassCriteria []byte      `db:"pass_criteria"`
	Severity     string      `db:"severity"`
	Notes        null.String `db:"notes"`
	LlmPrompt    null.String `db:"llm_prompt"`
	RegexExample null.String `db:"regex_example"`
	IsActive     bool        `db:"is_active"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

const TABLE_AGENT_EVALUATIONS = "agent_evaluations"

var SelectEvaluationColumn = utils.ColumnList[DBEvaluation]()

func AdaptEvaluation(db DBEvaluation) (models.Evaluation, error) {
	var passCriteria models.PassCriteria
	if len(db.PassCriteria) > 0 {
		if err := json.Unmarshal(db.PassCriteria, &passCriteria); err != nil {
			return models.Evaluation{}, errors.Wrap(err, "unable to unmarshal evaluation pass_criteria")
		}
	}

	return models.Evaluation{
		Id:           db.Id,
		AgentId:      db.AgentId,
		TeamId:       db.TeamId,
		CreatedBy:    db.CreatedBy,
		Name:         db.Name,
		Metric:       models.EvaluationMetric(db.Metric),
		Description:  db.Description,
		Method:       models.EvaluationMethod(db.Method),
		PassCriteria: passCriteria,
		Severity:     models.EvaluationSeverity(db.Severity),
		Notes:        db.Notes.Ptr(),
		LlmPrompt:    db.LlmPrompt.Ptr(),
		RegexExample: db.RegexExample.Ptr(),
		IsActive:     db.IsActive,
		CreatedAt:    db.CreatedAt,
		UpdatedAt:    db.UpdatedAt,
	}, nil
}
