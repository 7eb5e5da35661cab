package repositories

import (
	"context"
	"encoding/json"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/repositories/dbmodels"
)

// UpsertPersona writes the generated persona for an agent. The write is
// keyed on agent_id so that a retried bootstrap attempt overwrites the
// previous row instead of inserting a duplicate.
func (r *MimicDbRepository) UpsertPersona(
	ctx context.Context,
	exec Executor,
	persona models.Persona,
) error {
	jsonFields := make(map[string][]byte, 6)
	for name, value := range map[string]any{
		"goals":           persona.Goals,
		"frustrations":    persona.Frustrations,
		"typing_style":    persona.TypingStyle,
		"sample_phrases":  persona.SamplePhrases,
		"stop_conditions": persona.StopConditions,
		"simulation_tags": persona.SimulationTags,
	} {
		encoded, err := json.Marshal(value)
		if err != nil {
			return errors.Wrap(err, "unable to marshal persona json field "+name)
		}
		jsonFields[name] = encoded
	}

	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Insert(dbmodels.TABLE_AGENT_PERSONAS).
			Columns(
				"id",
				"agent_id",
				"team_id",
				"created_by",
				"name",
				"age",
				"gender",
				"location",
				"occupation",
				"tech_literacy",
				"preferred_channel",
				"background",
				"goals",
				"frustrations",
				"tone",
				"typing_style",
				"example_opening_message",
				"sample_phrases",
				"stop_conditions",
				"simulation_tags",
				"llm_summary",
				"is_active",
			).
			Values(
				persona.Id,
				persona.AgentId,
				persona.TeamId,
				persona.CreatedBy,
				persona.Name,
				persona.Age,
				persona.Gender,
				persona.Location,
				persona.Occupation,
				persona.TechLiteracy,
				persona.PreferredChannel,
				persona.Background,
				jsonFields["goals"],
				jsonFields["frustrations"],
				persona.Tone,
				jsonFields["typing_style"],
				persona.ExampleOpeningMessage,
				jsonFields["sample_phrases"],
				jsonFields["stop_conditions"],
				jsonFields["simulation_tags"],
				persona.LlmSummary,
				persona.IsActive,
			).
			Suffix(`ON CONFLICT (agent_id) DO UPDATE SET
				name = EXCLUDED.name,
				age = EXCLUDED.age,
				gender = EXCLUDED.gender,
				location = EXCLUDED.location,
				occupation = EXCLUDED.occupation,
				tech_literacy = EXCLUDED.tech_literacy,
				preferred_channel = EXCLUDED.preferred_channel,
				background = EXCLUDED.background,
				goals = EXCLUDED.goals,
				frustrations = EXCLUDED.frustrations,
				tone = EXCLUDED.tone,
				typing_style = EXCLUDED.typing_style,
				example_opening_message = EXCLUDED.example_opening_message,
				sample_phrases = EXCLUDED.sample_phrases,
				stop_conditions = EXCLUDED.stop_conditions,
				simulation_tags = EXCLUDED.simulation_tags,
				llm_summary = EXCLUDED.llm_summary,
				updated_at = now()`),
	)
}

func (r *MimicDbRepository) GetPersonaByAgentId(
	ctx context.Context,
	exec Executor,
	agentId uuid.UUID,
) (models.Persona, error) {
	return SqlToModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectPersonaColumn...).
			From(dbmodels.TABLE_AGENT_PERSONAS).
			Where(squirrel.Eq{"agent_id": agentId}),
		dbmodels.AdaptPersona,
	)
}
