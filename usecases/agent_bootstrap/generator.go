package agent_bootstrap

import (
	"context"
	"fmt"
	"sync"

	"github.com/checkmarble/llmberjack"
	"github.com/checkmarble/llmberjack/llms/openai"
	"github.com/cockroachdb/errors"

	"github.com/mimichq/mimic-backend/infra"
	"github.com/mimichq/mimic-backend/models"
)

const (
	minEvaluations = 3
	maxEvaluations = 5
)

const personaInstruction = `You are an expert at creating realistic customer personas for AI agents.

Create a detailed persona for a customer who would interact with an AI agent. The persona should be realistic and representative of actual customers who would use this type of service.

The persona should include:
- Realistic demographic information (name, age, gender, location, occupation)
- Appropriate tech literacy level for the platform
- Realistic background and situation
- Clear goals and frustrations
- Natural communication style and tone
- Realistic typing patterns and emoji usage
- Sample phrases they might use
- Appropriate stop conditions for the conversation
- A summary of the persona for the agent to use in the conversation based on the generated persona`

const evaluationsInstruction = `You are an expert at creating evaluation metrics for AI agents.

Create 3-5 comprehensive evaluation metrics for an AI agent that will be used to assess its performance in customer interactions. The evaluations should be specific to the agent's purpose and platform.

Each evaluation should include:
- A clear, descriptive name
- Appropriate metric type (latency_ms, boolean, sentiment_score, accuracy_percentage, count)
- Detailed description of what it measures
- Evaluation method (timestamp_diff, LLM_match, sentiment_analysis, regex_match, custom_script)
- Pass/fail criteria with specific thresholds
- Severity level (low, medium, high, critical)
- Helpful notes about the evaluation
- LLM prompt for evaluation (if applicable)
- Regex example (if applicable)

Focus on metrics that are relevant to the agent's specific use case and platform.`

type generatedTypingStyle struct {
	Capitalisation string `json:"capitalisation" jsonschema_description:"How the persona capitalises text, e.g. lowercase, proper"`
	Punctuation    string `json:"punctuation" jsonschema_description:"How the persona punctuates, e.g. minimal, heavy"`
	Speed          string `json:"speed" jsonschema_description:"Typing speed, e.g. slow, fast"`
	Emojis         string `json:"emojis" jsonschema_description:"Emoji usage, e.g. none, frequent"`
}

type generatedStopConditions struct {
	MaxTurns           int      `json:"max_turns" jsonschema_description:"Maximum number of conversation turns before the simulation stops"`
	TimeoutMinutes     int      `json:"timeout_minutes" jsonschema_description:"Minutes of inactivity before the simulation stops"`
	ResolutionKeywords []string `json:"resolution_keywords" jsonschema_description:"Phrases that signal the conversation is resolved"`
}

type generatedPersona struct {
	Name                  string                  `json:"name" jsonschema_description:"Full name of the persona" jsonschema_required:"true"`
	Age                   int                     `json:"age" jsonschema_description:"Age between 0 and 120" jsonschema_required:"true"`
	Gender                string                  `json:"gender"`
	Location              string                  `json:"location"`
	Occupation            string                  `json:"occupation"`
	TechLiteracy          string                  `json:"tech_literacy" jsonschema_description:"One of low, medium, high" jsonschema_required:"true"`
	PreferredChannel      string                  `json:"preferred_channel"`
	Background            string                  `json:"background" jsonschema_description:"The persona's situation and why they contact the agent"`
	Goals                 []string                `json:"goals"`
	Frustrations          []string                `json:"frustrations"`
	Tone                  string                  `json:"tone"`
	TypingStyle           generatedTypingStyle    `json:"typing_style"`
	ExampleOpeningMessage string                  `json:"example_opening_message"`
	SamplePhrases         []string                `json:"sample_phrases"`
	StopConditions        generatedStopConditions `json:"stop_conditions"`
	SimulationTags        []string                `json:"simulation_tags"`
	LlmSummary            string                  `json:"llm_summary" jsonschema_description:"Summary of the persona to prime the simulated conversation" jsonschema_required:"true"`
}

type generatedPassCriteria struct {
	Pass    *string `json:"pass" jsonschema_description:"Threshold for a passing result"`
	Warning *string `json:"warning" jsonschema_description:"Threshold for a warning result"`
	Fail    *string `json:"fail" jsonschema_description:"Threshold for a failing result"`
}

type generatedEvaluation struct {
	Name         string                `json:"name" jsonschema_required:"true"`
	Metric       string                `json:"metric" jsonschema_description:"One of latency_ms, boolean, sentiment_score, accuracy_percentage, count" jsonschema_required:"true"`
	Description  string                `json:"description" jsonschema_required:"true"`
	Method       string                `json:"method" jsonschema_description:"One of timestamp_diff, LLM_match, sentiment_analysis, regex_match, custom_script" jsonschema_required:"true"`
	PassCriteria generatedPassCriteria `json:"pass_criteria"`
	Severity     string                `json:"severity" jsonschema_description:"One of low, medium, high, critical" jsonschema_required:"true"`
	Notes        *string               `json:"notes"`
	LlmPrompt    *string               `json:"llm_prompt"`
	RegexExample *string               `json:"regex_example"`
}

// The array is wrapped in an object because structured output requires a
// top-level object schema.
type generatedEvaluationsResponse struct {
	Evaluations []generatedEvaluation `json:"evaluations" jsonschema_required:"true"`
}

type Generator interface {
	GeneratePersona(ctx context.Context, input models.GenerationInput) (models.Persona, error)
	GenerateEvaluations(ctx context.Context, input models.GenerationInput) ([]models.Evaluation, error)
}

type LlmGenerator struct {
	config infra.LLMConfiguration

	mu      sync.Mutex
	adapter *llmberjack.Llmberjack
}

func NewLlmGenerator(config infra.LLMConfiguration) *LlmGenerator {
	return &LlmGenerator{config: config}
}

func (g *LlmGenerator) getAdapter() (*llmberjack.Llmberjack, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.adapter != nil {
		return g.adapter, nil
	}

	opts := []openai.Opt{}
	if g.config.BaseURL != "" {
		opts = append(opts, openai.WithBaseUrl(g.config.BaseURL))
	}
	if g.config.ApiKey != "" {
		opts = append(opts, openai.WithApiKey(g.config.ApiKey))
	}
	provider, err := openai.New(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create OpenAI provider")
	}

	adapter, err := llmberjack.New(llmberjack.WithProvider("main", provider))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create LLM adapter")
	}

	g.adapter = adapter
	return g.adapter, nil
}

func (g *LlmGenerator) GeneratePersona(
	ctx context.Context,
	input models.GenerationInput,
) (models.Persona, error) {
	adapter, err := g.getAdapter()
	if err != nil {
		return models.Persona{}, errors.Wrap(models.ErrGeneration, err.Error())
	}

	prompt := fmt.Sprintf(
		`Generate a persona for an AI agent named %q that handles %s via %s.`,
		input.AgentName, input.AgentDescription, input.Platform)

	response, err := llmberjack.NewRequest[generatedPersona]().
		WithModel(g.config.Model).
		WithInstruction(personaInstruction).
		WithText(llmberjack.RoleUser, prompt).
		Do(ctx, adapter)
	if err != nil {
		return models.Persona{}, errors.Wrap(models.ErrGeneration,
			errors.Wrap(err, "could not generate persona").Error())
	}
	generated, err := response.Get(0)
	if err != nil {
		return models.Persona{}, errors.Wrap(models.ErrGeneration,
			errors.Wrap(err, "could not parse generated persona").Error())
	}

	persona, err := adaptGeneratedPersona(generated)
	if err != nil {
		return models.Persona{}, errors.Wrap(models.ErrGeneration, err.Error())
	}
	return persona, nil
}

func (g *LlmGenerator) GenerateEvaluations(
	ctx context.Context,
	input models.GenerationInput,
) ([]models.Evaluation, error) {
	adapter, err := g.getAdapter()
	if err != nil {
		return nil, errors.Wrap(models.ErrGeneration, err.Error())
	}

	prompt := fmt.Sprintf(
		`Generate evaluation metrics for an AI agent named %q that handles %s via %s. Return 3-5 evaluations that would be most relevant for this specific agent.`,
		input.AgentName, input.AgentDescription, input.Platform)

	response, err := llmberjack.NewRequest[generatedEvaluationsResponse]().
		WithModel(g.config.Model).
		WithInstruction(evaluationsInstruction).
		WithText(llmberjack.RoleUser, prompt).
		Do(ctx, adapter)
	if err != nil {
		return nil, errors.Wrap(models.ErrGeneration,
			errors.Wrap(err, "could not generate evaluations").Error())
	}
	generated, err := response.Get(0)
	if err != nil {
		return nil, errors.Wrap(models.ErrGeneration,
			errors.Wrap(err, "could not parse generated evaluations").Error())
	}

	evaluations, err := adaptGeneratedEvaluations(generated.Evaluations)
	if err != nil {
		return nil, errors.Wrap(models.ErrGeneration, err.Error())
	}
	return evaluations, nil
}

func adaptGeneratedPersona(generated generatedPersona) (models.Persona, error) {
	if generated.Name == "" {
		return models.Persona{}, errors.New("generated persona has no name")
	}
	if generated.Age < 0 || generated.Age > 120 {
		return models.Persona{}, errors.Newf("generated persona age %d is out of range", generated.Age)
	}
	techLiteracy := models.TechLiteracy(generated.TechLiteracy)
	switch techLiteracy {
	case models.TechLiteracyLow, models.TechLiteracyMedium, models.TechLiteracyHigh:
	default:
		return models.Persona{}, errors.Newf("generated persona has unknown tech literacy %q", generated.TechLiteracy)
	}

	return models.Persona{
		Name:             generated.Name,
		Age:              generated.Age,
		Gender:           generated.Gender,
		Location:         generated.Location,
		Occupation:       generated.Occupation,
		TechLiteracy:     techLiteracy,
		PreferredChannel: generated.PreferredChannel,
		Background:       generated.Background,
		Goals:            generated.Goals,
		Frustrations:     generated.Frustrations,
		Tone:             generated.Tone,
		TypingStyle: models.TypingStyle{
			Capitalisation: generated.TypingStyle.Capitalisation,
			Punctuation:    generated.TypingStyle.Punctuation,
			Speed:          generated.TypingStyle.Speed,
			Emojis:         generated.TypingStyle.Emojis,
		},
		ExampleOpeningMessage: generated.ExampleOpeningMessage,
		SamplePhrases:         generated.SamplePhrases,
		StopConditions: models.StopConditions{
			MaxTurns:           generated.StopConditions.MaxTurns,
			TimeoutMinutes:     generated.StopConditions.TimeoutMinutes,
			ResolutionKeywords: generated.StopConditions.ResolutionKeywords,
		},
		SimulationTags: generated.SimulationTags,
		LlmSummary:     generated.LlmSummary,
		IsActive:       true,
	}, nil
}

func adaptGeneratedEvaluations(generated []generatedEvaluation) ([]models.Evaluation, error) {
	if len(generated) < minEvaluations || len(generated) > maxEvaluations {
		return nil, errors.Newf("expected between %d and %d evaluations, got %d",
			minEvaluations, maxEvaluations, len(generated))
	}

	evaluations := make([]models.Evaluation, len(generated))
	for i, e := range generated {
		if e.Name == "" {
			return nil, errors.Newf("generated evaluation %d has no name", i)
		}
		metric := models.EvaluationMetric(e.Metric)
		switch metric {
		case models.EvaluationMetricLatencyMs, models.EvaluationMetricBoolean,
			models.EvaluationMetricSentimentScore, models.EvaluationMetricAccuracyPercentage,
			models.EvaluationMetricCount:
		default:
			return nil, errors.Newf("generated evaluation %q has unknown metric %q", e.Name, e.Metric)
		}
		method := models.EvaluationMethod(e.Method)
		switch method {
		case models.EvaluationMethodTimestampDiff, models.EvaluationMethodLlmMatch,
			models.EvaluationMethodSentimentAnalysis, models.EvaluationMethodRegexMatch,
			models.EvaluationMethodCustomScript:
		default:
			return nil, errors.Newf("generated evaluation %q has unknown method %q", e.Name, e.Method)
		}
		severity := models.EvaluationSeverity(e.Severity)
		switch severity {
		case models.EvaluationSeverityLow, models.EvaluationSeverityMedium,
			models.EvaluationSeverityHigh, models.EvaluationSeverityCritical:
		default:
			return nil, errors.Newf("generated evaluation %q has unknown severity %q", e.Name, e.Severity)
		}

		evaluations[i] = models.Evaluation{
			Name:        e.Name,
			Metric:      metric,
			Description: e.Description,
			Method:      method,
			PassCriteria: models.PassCriteria{
				Pass:    e.PassCriteria.Pass,
				Warning: e.PassCriteria.Warning,
				Fail:    e.PassCriteria.Fail,
			},
			Severity:     severity,
			Notes:        e.Notes,
			LlmPrompt:    e.LlmPrompt,
			RegexExample: e.RegexExample,
			IsActive:     true,
		}
	}
	return evaluations, nil
}
