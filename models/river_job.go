package models

import (
	"github.com/google/uuid"
)

const AgentBootstrapQueue = "agent-bootstrap"

// AgentBootstrapArgs is the input payload of the agent-bootstrap workflow.
// The args are the unique key of the job: enqueueing twice for the same
// agent yields a single run.
type AgentBootstrapArgs struct {
	AgentId          uuid.UUID `json:"agent_id"`
	TeamId           uuid.UUID `json:"team_id"`
	AgentName        string    `json:"agent_name"`
	AgentDescription string    `json:"agent_description"`
	Platform         string    `json:"platform"`
}

func (AgentBootstrapArgs) Kind() string { return "agent_bootstrap" }
