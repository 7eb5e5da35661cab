package dto

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/utils"
)

type Agent struct {
	Id             uuid.UUID      `json:"id"`
	TeamId         uuid.UUID      `json:"team_id"`
	CreatedBy      uuid.UUID      `json:"created_by"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	AgentType      string         `json:"agent_type"`
	Platform       string         `json:"platform"`
	PlatformConfig map[string]any `json:"platform_config"`
	Status         string         `json:"status"`
	IsActive       bool           `json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func AdaptAgentDto(agent models.Agent) Agent {
	return Agent{
		Id:             agent.Id,
		TeamId:         agent.TeamId,
		CreatedBy:      agent.CreatedBy,
		Name:           agent.Name,
		Description:    agent.Description,
		AgentType:      string(agent.AgentType),
		Platform:       agent.Platform,
		PlatformConfig: agent.PlatformConfig.Raw,
		Status:         string(agent.Status),
		IsActive:       agent.IsActive,
		CreatedAt:      agent.CreatedAt,
		UpdatedAt:      agent.UpdatedAt,
	}
}

type AgentPage struct {
	Items      []Agent `json:"items"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor,omitempty"`
}

func AdaptAgentPageDto(page models.Page[models.Agent]) AgentPage {
	out := AgentPage{
		Items:   utils.Map(page.Items, AdaptAgentDto),
		HasMore: page.HasMore,
	}
	if page.HasMore && len(page.Items) > 0 {
		last := page.Items[len(page.Items)-1]
		token := EncodeCursor(models.Cursor{Id: last.Id, CreatedAt: last.CreatedAt})
		out.NextCursor = &token
	}
	return out
}

type CreateAgentBody struct {
	// TeamId is optional for api key callers, whose team comes from the key.
	TeamId         uuid.UUID      `json:"team_id"`
	Name           string         `json:"name" binding:"required"`
	Description    string         `json:"description"`
	AgentType      string         `json:"agent_type" binding:"required"`
	Platform       string         `json:"platform" binding:"required"`
	PlatformConfig map[string]any `json:"platform_config"`
}

func AdaptCreateAgentInput(body CreateAgentBody, teamId, createdBy uuid.UUID) (models.CreateAgentInput, error) {
	if teamId == uuid.Nil {
		return models.CreateAgentInput{}, errors.Wrap(models.BadParameterError, "team_id is required")
	}
	agentType := models.AgentTypeFromString(body.AgentType)
	if agentType == "" {
		return models.CreateAgentInput{}, errors.Wrapf(models.BadParameterError,
			"unknown agent type %q", body.AgentType)
	}
	platformConfig, err := models.NewPlatformConfig(body.Platform, body.PlatformConfig)
	if err != nil {
		return models.CreateAgentInput{}, err
	}
	return models.CreateAgentInput{
		TeamId:         teamId,
		CreatedBy:      createdBy,
		Name:           body.Name,
		Description:    body.Description,
		AgentType:      agentType,
		Platform:       body.Platform,
		PlatformConfig: platformConfig,
	}, nil
}

type UpdateAgentBody struct {
	Name           *string        `json:"name"`
	Description    *string        `json:"description"`
	AgentType      *string        `json:"agent_type"`
	Platform       *string        `json:"platform"`
	PlatformConfig map[string]any `json:"platform_config"`
}

func AdaptUpdateAgentInput(body UpdateAgentBody) (models.UpdateAgentInput, error) {
	input := models.UpdateAgentInput{
		Name:        body.Name,
		Description: body.Description,
	}
	if body.AgentType != nil {
		agentType := models.AgentTypeFromString(*body.AgentType)
		if agentType == "" {
			return models.UpdateAgentInput{}, errors.Wrapf(models.BadParameterError,
				"unknown agent type %q", *body.AgentType)
		}
		input.AgentType = &agentType
	}
	if body.Platform != nil {
		input.Platform = body.Platform
	}
	if body.PlatformConfig != nil {
		// Without the platform the config cannot be checked against the
		// right variant.
		if body.Platform == nil {
			return models.UpdateAgentInput{}, errors.Wrap(models.BadParameterError,
				"platform is required when platform_config is provided")
		}
		platformConfig, err := models.NewPlatformConfig(*body.Platform, body.PlatformConfig)
		if err != nil {
			return models.UpdateAgentInput{}, err
		}
		input.PlatformConfig = &platformConfig
	}
	return input, nil
}
