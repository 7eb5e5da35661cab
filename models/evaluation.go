package models

import (
	"time"

	"github.com/google/uuid"
)

type EvaluationMetric string

const (
	EvaluationMetricLatencyMs          EvaluationMetric = "latency_ms"
	EvaluationMetricBoolean            EvaluationMetric = "boolean"
	EvaluationMetricSentimentScore     EvaluationMetric = "sentiment_score"
	EvaluationMetricAccuracyPercentage EvaluationMetric = "accuracy_percentage"
	EvaluationMetricCount              EvaluationMetric = "count"
)

type EvaluationMethod string

const (
	EvaluationMethodTimestampDiff     EvaluationMethod = "timestamp_diff"
	EvaluationMethodLlmMatch          EvaluationMethod = "LLM_match"
	EvaluationMethodSentimentAnalysis EvaluationMethod = "sentiment_analysis"
	EvaluationMethodRegexMatch        EvaluationMethod = "regex_match"
	EvaluationMethodCustomScript      EvaluationMethod = "custom_script"
)

type EvaluationSeverity string

const (
	EvaluationSeverityLow      EvaluationSeverity = "low"
	EvaluationSeverityMedium   EvaluationSeverity = "medium"
	EvaluationSeverityHigh     EvaluationSeverity = "high"
	EvaluationSeverityCritical EvaluationSeverity = "critical"
)

type PassCriteria struct {
	Pass    *string `json:"pass"`
	Warning *string `json:"warning"`
	Fail    *string `json:"fail"`
}

// Evaluation is a pass/warning/fail metric definition used to judge an
// agent's behavior during a simulation run. Between 3 and 5 are generated
// per agent bootstrap.
type Evaluation struct {
	Id           uuid.UUID
	AgentId      uuid.UUID
	TeamId       uuid.UUID
	CreatedBy    uuid.UUID
	Name         string
	Metric       EvaluationMetric
	Description  string
	Method       EvaluationMethod
	PassCriteria PassCriteria
	Severity     EvaluationSeverity
	Notes        *string
	LlmPrompt    *string
	RegexExample *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
