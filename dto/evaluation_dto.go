package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/mimichq/mimic-backend/models"
)

type PassCriteria struct {
	Pass    *string `json:"pass"`
	Warning *string `json:"warning"`
	Fail    *string `json:"fail"`
}

type Evaluation struct {
	Id           uuid.UUID    `json:"id"`
	AgentId      uuid.UUID    `json:"agent_id"`
	Name         string       `json:"name"`
	Metric       string       `json:"metric"`
	Description  string       `json:"description"`
	Method       string       `json:"method"`
	PassCriteria PassCriteria `json:"pass_criteria"`
	Severity     string       `json:"severity"`
	Notes        *string      `json:"notes,omitempty"`
	LlmPrompt    *string      `json:"llm_prompt,omitempty"`
	RegexExample *string      `json:"regex_example,omitempty"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func AdaptEvaluationDto(evaluation models.Evaluation) Evaluation {
	return Evaluation{
		Id:          evaluation.Id,
		AgentId:     evaluation.AgentId,
		Name:        evaluation.Name,
		Metric:      string(evaluation.Metric),
		Description: evaluation.Description,
		Method:      string(evaluation.Method),
		PassCriteria: PassCriteria{
			Pass:    evaluation.PassCriteria.Pass,
			Warning: evaluation.PassCriteria.Warning,
			Fail:    evaluation.PassCriteria.Fail,
		},
		Severity:     string(evaluation.Severity),
		Notes:        evaluation.Notes,
		LlmPrompt:    evaluation.LlmPrompt,
		RegexExample: evaluation.RegexExample,
		IsActive:     evaluation.IsActive,
		CreatedAt:    evaluation.CreatedAt,
		UpdatedAt:    evaluation.UpdatedAt,
	}
}
