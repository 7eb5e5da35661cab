package models

import (
	"time"

	"github.com/google/uuid"
)

type TechLiteracy string

const (
	TechLiteracyLow    TechLiteracy = "low"
	TechLiteracyMedium TechLiteracy = "medium"
	TechLiteracyHigh   TechLiteracy = "high"
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

// Persona is the synthetic end user generated for an agent during bootstrap.
// Exactly one persona is kept per agent: persistence is an upsert keyed on
// the agent id, so an activity retry overwrites rather than duplicates.
type Persona struct {
	Id                    uuid.UUID
	AgentId               uuid.UUID
	TeamId                uuid.UUID
	CreatedBy             uuid.UUID
	Name                  string
	Age                   int
	Gender                string
	Location              string
	Occupation            string
	TechLiteracy          TechLiteracy
	PreferredChannel      string
	Background            string
	Goals                 []string
	Frustrations          []string
	Tone                  string
	TypingStyle           TypingStyle
	ExampleOpeningMessage string
	SamplePhrases         []string
	StopConditions        StopConditions
	SimulationTags        []string
	LlmSummary            string
	IsActive              bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
