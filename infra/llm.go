package infra

type LLMProviderType string

const (
	LLMProviderTypeOpenAI LLMProviderType = "openai"
)

// LLMConfiguration carries the settings of the provider used for persona and
// evaluation generation.
type LLMConfiguration struct {
	ProviderType LLMProviderType
	BaseURL      string
	ApiKey       string
	Model        string
}
