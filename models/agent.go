package models

import (
	"time"

	"github.com/google/uuid"
)

type AgentType string

const (
	AgentTypeChat  AgentType = "chat"
	AgentTypeVoice AgentType = "voice"
)

func AgentTypeFromString(s string) AgentType {
	switch AgentType(s) {
	case AgentTypeChat, AgentTypeVoice:
		return AgentType(s)
	}
	return ""
}

type AgentStatus string

const (
	AgentStatusDraft    AgentStatus = "draft"
	AgentStatusActive   AgentStatus = "active"
	AgentStatusPaused   AgentStatus = "paused"
	AgentStatusArchived AgentStatus = "archived"
)

func AgentStatusFromString(s string) AgentStatus {
	switch AgentStatus(s) {
	case AgentStatusDraft, AgentStatusActive, AgentStatusPaused, AgentStatusArchived:
		return AgentStatus(s)
	}
	return ""
}

// Agent is a simulated conversational or voice assistant under test. Agents
// are soft deleted: DeletedAt is set and the row is kept.
type Agent struct {
	Id             uuid.UUID
	TeamId         uuid.UUID
	CreatedBy      uuid.UUID
	Name           string
	Description    string
	AgentType      AgentType
	Platform       string
	PlatformConfig PlatformConfig
	Status         AgentStatus
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

type CreateAgentInput struct {
	TeamId         uuid.UUID
	CreatedBy      uuid.UUID
	Name           string
	Description    string
	AgentType      AgentType
	Platform       string
	PlatformConfig PlatformConfig
	Status         AgentStatus
	IsActive       bool
}

type UpdateAgentInput struct {
	Name           *string
	Description    *string
	AgentType      *AgentType
	Platform       *string
	PlatformConfig *PlatformConfig
	Status         *AgentStatus
	IsActive       *bool
}

type AgentFilters struct {
	TeamId    *uuid.UUID
	Status    *AgentStatus
	AgentType *AgentType
	Platform  *string
}

// CanTransitionTo encodes the lifecycle of an agent. Archival is terminal.
func (a Agent) CanTransitionTo(target AgentStatus) bool {
	if a.Status == AgentStatusArchived {
		return false
	}
	switch target {
	case AgentStatusActive, AgentStatusPaused, AgentStatusArchived:
		return a.Status != target
	}
	return false
}
