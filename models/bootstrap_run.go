package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type BootstrapRunStatus string

const (
	BootstrapRunStatusPending   BootstrapRunStatus = "pending"
	BootstrapRunStatusRunning   BootstrapRunStatus = "running"
	BootstrapRunStatusCompleted BootstrapRunStatus = "completed"
	BootstrapRunStatusFailed    BootstrapRunStatus = "failed"
)

type BootstrapStep string

const (
	BootstrapStepPersona     BootstrapStep = "persona"
	BootstrapStepEvaluations BootstrapStep = "evaluations"
	BootstrapStepDone        BootstrapStep = "done"
)

// BootstrapRun tracks one execution of the agent-bootstrap workflow. The
// step cursor is advanced durably after each completed activity, so a worker
// crash between the persona and evaluation steps resumes at the evaluation
// step instead of re-running persona generation.
type BootstrapRun struct {
	Id          uuid.UUID
	WorkflowId  string
	AgentId     uuid.UUID
	TeamId      uuid.UUID
	Status      BootstrapRunStatus
	CurrentStep BootstrapStep
	Attempts    int
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// BootstrapWorkflowId derives the workflow id from the agent id, making a
// start request for the same agent naturally idempotent.
func BootstrapWorkflowId(agentId uuid.UUID) string {
	return fmt.Sprintf("agent-bootstrap-%s", agentId)
}

// GenerationInput is the agent context handed to the LLM for both bootstrap
// activities.
type GenerationInput struct {
	AgentName        string
	AgentDescription string
	Platform         string
}

type UpdateBootstrapRun struct {
	Status      *BootstrapRunStatus
	CurrentStep *BootstrapStep
	LastError   *string
	CompletedAt *time.Time
}
