package usecases

import (
	"time"

	"github.com/mimichq/mimic-backend/infra"
	"github.com/mimichq/mimic-backend/repositories"
	"github.com/mimichq/mimic-backend/usecases/agent_bootstrap"
	"github.com/mimichq/mimic-backend/usecases/auth"
	"github.com/mimichq/mimic-backend/usecases/executor_factory"
)

type Usecases struct {
	Repositories repositories.Repositories

	appBaseUrl       string
	jwtSigningKey    []byte
	webhookSecret    string
	llmConfig        infra.LLMConfiguration
	bootstrapTimeout time.Duration
}

type Option func(*options)

type options struct {
	appBaseUrl       string
	jwtSigningKey    []byte
	webhookSecret    string
	llmConfig        infra.LLMConfiguration
	bootstrapTimeout time.Duration
}

func WithAppBaseUrl(url string) Option {
	return func(o *options) {
		o.appBaseUrl = url
	}
}

func WithJwtSigningKey(key []byte) Option {
	return func(o *options) {
		o.jwtSigningKey = key
	}
}

func WithWebhookSecret(secret string) Option {
	return func(o *options) {
		o.webhookSecret = secret
	}
}

func WithLLMConfig(config infra.LLMConfiguration) Option {
	return func(o *options) {
		o.llmConfig = config
	}
}

func WithBootstrapTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.bootstrapTimeout = timeout
	}
}

func NewUsecases(repositories repositories.Repositories, opts ...Option) Usecases {
	o := options{
		bootstrapTimeout: time.Minute,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return Usecases{
		Repositories:     repositories,
		appBaseUrl:       o.appBaseUrl,
		jwtSigningKey:    o.jwtSigningKey,
		webhookSecret:    o.webhookSecret,
		llmConfig:        o.llmConfig,
		bootstrapTimeout: o.bootstrapTimeout,
	}
}

func (usecases *Usecases) NewExecutorFactory() executor_factory.ExecutorFactory {
	return executor_factory.NewDbExecutorFactory(usecases.Repositories.ExecutorGetter)
}

func (usecases *Usecases) NewTransactionFactory() executor_factory.TransactionFactory {
	return executor_factory.NewDbExecutorFactory(usecases.Repositories.ExecutorGetter)
}

func (usecases *Usecases) NewLivenessUsecase() LivenessUsecase {
	return LivenessUsecase{
		executorFactory:    usecases.NewExecutorFactory(),
		livenessRepository: usecases.Repositories.MimicDbRepository,
	}
}

func (usecases *Usecases) NewAgentUsecase() AgentUsecase {
	return NewAgentUsecase(
		usecases.NewExecutorFactory(),
		usecases.NewTransactionFactory(),
		usecases.Repositories.MimicDbRepository,
		usecases.Repositories.TaskQueueRepository,
	)
}

func (usecases *Usecases) NewMagicLinkUsecase() auth.MagicLinkUsecase {
	return auth.NewMagicLinkUsecase(
		usecases.NewExecutorFactory(),
		usecases.Repositories.MimicDbRepository,
		usecases.Repositories.EmailRepository,
		usecases.jwtSigningKey,
		usecases.appBaseUrl,
	)
}

func (usecases *Usecases) NewApiKeyUsecase() auth.ApiKeyUsecase {
	return auth.NewApiKeyUsecase(
		usecases.NewExecutorFactory(),
		usecases.Repositories.MimicDbRepository,
	)
}

func (usecases *Usecases) NewIdentityWebhookUsecase() (auth.IdentityWebhookUsecase, error) {
	verifier, err := auth.NewWebhookVerifier(usecases.webhookSecret)
	if err != nil {
		return auth.IdentityWebhookUsecase{}, err
	}
	return auth.NewIdentityWebhookUsecase(
		usecases.NewExecutorFactory(),
		usecases.Repositories.MimicDbRepository,
		verifier,
	), nil
}

func (usecases *Usecases) NewAgentBootstrapWorker() *agent_bootstrap.Worker {
	return agent_bootstrap.NewWorker(
		usecases.NewExecutorFactory(),
		usecases.NewTransactionFactory(),
		usecases.Repositories.MimicDbRepository,
		agent_bootstrap.NewLlmGenerator(usecases.llmConfig),
		usecases.bootstrapTimeout,
	)
}
