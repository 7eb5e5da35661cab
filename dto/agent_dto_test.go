package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/utils"
)

func TestAdaptCreateAgentInput_UnknownAgentTypeIsRejected(t *testing.T) {
	_, err := AdaptCreateAgentInput(CreateAgentBody{
		Name:      "Support bot",
		AgentType: "quantum_oracle",
		Platform:  "telegram",
	}, uuid.New(), uuid.New())

	assert.ErrorIs(t, err, models.BadParameterError)
}

func TestAdaptCreateAgentInput_TeamIdIsRequired(t *testing.T) {
	_, err := AdaptCreateAgentInput(CreateAgentBody{
		Name:      "Support bot",
		AgentType: "chat",
		Platform:  "telegram",
	}, uuid.Nil, uuid.New())

	assert.ErrorIs(t, err, models.BadParameterError)
}

func TestAdaptCreateAgentInput_ValidBody(t *testing.T) {
	teamId := uuid.New()
	createdBy := uuid.New()

	input, err := AdaptCreateAgentInput(CreateAgentBody{
		Name:           "Support bot",
		AgentType:      "chat",
		Platform:       "telegram",
		PlatformConfig: map[string]any{"bot_token": "123:abc"},
	}, teamId, createdBy)

	require.NoError(t, err)
	assert.Equal(t, teamId, input.TeamId)
	assert.Equal(t, createdBy, input.CreatedBy)
	assert.Equal(t, models.AgentTypeChat, input.AgentType)
	assert.Equal(t, models.PlatformTelegram, input.PlatformConfig.Kind)
}

func TestAdaptUpdateAgentInput_UnknownAgentTypeIsRejected(t *testing.T) {
	_, err := AdaptUpdateAgentInput(UpdateAgentBody{
		AgentType: utils.Ptr("quantum_oracle"),
	})

	assert.ErrorIs(t, err, models.BadParameterError)
}

func TestAdaptUpdateAgentInput_PlatformConfigRequiresPlatform(t *testing.T) {
	_, err := AdaptUpdateAgentInput(UpdateAgentBody{
		PlatformConfig: map[string]any{"webhook_url": "https://example.com/hook"},
	})

	assert.ErrorIs(t, err, models.BadParameterError)
}

func TestAdaptUpdateAgentInput_PlatformConfigValidatedAgainstPlatform(t *testing.T) {
	_, err := AdaptUpdateAgentInput(UpdateAgentBody{
		Platform:       utils.Ptr("whatsapp"),
		PlatformConfig: map[string]any{"phone_number": "+33600000000"},
	})

	assert.ErrorIs(t, err, models.BadParameterError)
}

func TestAdaptUpdateAgentInput_ValidBody(t *testing.T) {
	input, err := AdaptUpdateAgentInput(UpdateAgentBody{
		Name:      utils.Ptr("Renamed agent"),
		AgentType: utils.Ptr("chat"),
		Platform:  utils.Ptr("whatsapp"),
		PlatformConfig: map[string]any{
			"webhook_url":  "https://example.com/hook",
			"phone_number": "+33600000000",
		},
	})

	require.NoError(t, err)
	require.NotNil(t, input.AgentType)
	assert.Equal(t, models.AgentTypeChat, *input.AgentType)
	require.NotNil(t, input.PlatformConfig)
	assert.Equal(t, models.PlatformWhatsApp, input.PlatformConfig.Kind)
}
