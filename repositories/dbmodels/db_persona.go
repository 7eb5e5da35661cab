package dbmodels

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/utils"
)

type DBPersona struct {
	Id                    uuid.UUID `db:"id"`
	AgentId               uuid.UUID `db:"agent_id"`
	TeamId                uuid.UUID `db:"team_id"`
	CreatedBy             uuid.UUID `db:"created_by"`
	Name                  string    `db:"name"`
	Age                   int       `db:"age"`
	Gender                string    `db:"gender"`
	Location              string    `db:"location"`
	Occupation            string    `db:"occupation"`
	TechLiteracy          string    `db:"tech_literacy"`
	PreferredChannel      string    `db:"preferred_channel"`
	Background            string    `db:"background"`
	Goals                 []byte    `db:"goals"`
	Frustrations          []byte    `db:"frustrations"`
	Tone                  string    `db:"tone"`
	TypingStyle           []byte    `db:"typing_style"`
	ExampleOpeningMessage string    `db:"example_opening_message"`
	SamplePhrases         []byte    `db:"sample_phrases"`
	StopConditions        []byte    `db:"stop_conditions"`
	SimulationTags        []byte    `db:"simulation_tags"`
	LlmSummary            string    `db:"llm_summary"`
	IsActive              bool      `db:"is_active"`
	CreatedAt             time.Time `db:"created_at"`
	UpdatedAt             time.Time `db:"updated_at"`
}

const TABLE_AGENT_PERSONAS = "agent_personas"

var SelectPersonaColumn = utils.ColumnList[DBPersona]()

func AdaptPersona(db DBPersona) (models.Persona, error) {
	persona := models.Persona{
		Id:                    db.Id,
		AgentId:               db.AgentId,
		TeamId:                db.TeamId,
		CreatedBy:             db.CreatedBy,
		Name:                  db.Name,
		Age:                   db.Age,
		Gender:                db.Gender,
		Location:              db.Location,
		Occupation:            db.Occupation,
		TechLiteracy:          models.TechLiteracy(db.TechLiteracy),
		PreferredChannel:      db.PreferredChannel,
		Background:            db.Background,
		Tone:                  db.Tone,
		ExampleOpeningMessage: db.ExampleOpeningMessage,
		LlmSummary:            db.LlmSummary,
		IsActive:              db.IsActive,
		CreatedAt:             db.CreatedAt,
		UpdatedAt:             db.UpdatedAt,
	}

	for _, field := range []struct {
		raw  []byte
		dest any
	}{
		{db.Goals, &persona.Goals},
		{db.Frustrations, &persona.Frustrations},
		{db.TypingStyle, &persona.TypingStyle},
		{db.SamplePhrases, &persona.SamplePhrases},
		{db.StopConditions, &persona.StopConditions},
		{db.SimulationTags, &persona.SimulationTags},
	} {
		if len(field.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(field.raw, field.dest); err != nil {
			return models.Persona{}, errors.Wrap(err, "unable to unmarshal persona json field")
		}
	}

	return persona, nil
}
