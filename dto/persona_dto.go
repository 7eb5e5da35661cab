package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/mimichq/mimic-backend/models"
)

type TypingStyle struct {
	Capitalisation string `json:"capitalisation"`
	Punctuation    string `json:"punctuation"`
	Speed          string `json:"speed"`
	Emojis         string `json:"emojis"`
}

type StopConditions struct {
	MaxTurns           int      `json:"max_turns"`
	TimeoutMinutes     int      `json:"timeout_minutes"`
	ResolutionKeywords []string `json:"resolution_keywords"`
}

type Persona struct {
	Id                    uuid.UUID      `json:"id"`
	AgentId               uuid.UUID      `json:"agent_id"`
	Name                  string         `json:"name"`
	Age                   int            `json:"age"`
	Gender                string         `json:"gender"`
	Location              string         `json:"location"`
	Occupation            string         `json:"occupation"`
	TechLiteracy          string         `json:"tech_literacy"`
	PreferredChannel      string         `json:"preferred_channel"`
	Background            string         `json:"background"`
	Goals                 []string       `json:"goals"`
	Frustrations          []string       `json:"frustrations"`
	Tone                  string         `json:"tone"`
	TypingStyle           TypingStyle    `json:"typing_style"`
	ExampleOpeningMessage string         `json:"example_opening_message"`
	SamplePhrases         []string       `json:"sample_phrases"`
	StopConditions        StopConditions `json:"stop_conditions"`
	SimulationTags        []string       `json:"simulation_tags"`
	LlmSummary            string         `json:"llm_summary"`
	IsActive              bool           `json:"is_active"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}

func AdaptPersonaDto(persona models.Persona) Persona {
	return Persona{
		Id:               persona.Id,
		AgentId:          persona.AgentId,
		Name:             persona.Name,
		Age:              persona.Age,
		Gender:           persona.Gender,
		Location:         persona.Location,
		Occupation:       persona.Occupation,
		TechLiteracy:     string(persona.TechLiteracy),
		PreferredChannel: persona.PreferredChannel,
		Background:       persona.Background,
		Goals:            persona.Goals,
		Frustrations:     persona.Frustrations,
		Tone:             persona.Tone,
		TypingStyle: TypingStyle{
			Capitalisation: persona.TypingStyle.Capitalisation,
			Punctuation:    persona.TypingStyle.Punctuation,
			Speed:          persona.TypingStyle.Speed,
			Emojis:         persona.TypingStyle.Emojis,
		},
		ExampleOpeningMessage: persona.ExampleOpeningMessage,
		SamplePhrases:         persona.SamplePhrases,
		StopConditions: StopConditions{
			MaxTurns:           persona.StopConditions.MaxTurns,
			TimeoutMinutes:     persona.StopConditions.TimeoutMinutes,
			ResolutionKeywords: persona.StopConditions.ResolutionKeywords,
		},
		SimulationTags: persona.SimulationTags,
		LlmSummary:     persona.LlmSummary,
		IsActive:       persona.IsActive,
		CreatedAt:      persona.CreatedAt,
		UpdatedAt:      persona.UpdatedAt,
	}
}
