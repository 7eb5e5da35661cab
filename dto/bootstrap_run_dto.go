package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/mimichq/mimic-backend/models"
)

type BootstrapRun struct {
	Id          uuid.UUID  `json:"id"`
	WorkflowId  string     `json:"workflow_id"`
	AgentId     uuid.UUID  `json:"agent_id"`
	Status      string     `json:"status"`
	CurrentStep string     `json:"current_step"`
	Attempts    int        `json:"attempts"`
	LastError   *string    `json:"last_error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func AdaptBootstrapRunDto(run models.BootstrapRun) BootstrapRun {
	return BootstrapRun{
		Id:          run.Id,
		WorkflowId:  run.WorkflowId,
		AgentId:     run.AgentId,
		Status:      string(run.Status),
		CurrentStep: string(run.CurrentStep),
		Attempts:    run.Attempts,
		LastError:   run.LastError,
		CreatedAt:   run.CreatedAt,
		UpdatedAt:   run.UpdatedAt,
		CompletedAt: run.CompletedAt,
	}
}
