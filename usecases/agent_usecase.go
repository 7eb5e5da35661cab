package usecases

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/repositories"
	"github.com/mimichq/mimic-backend/usecases/executor_factory"
	"github.com/mimichq/mimic-backend/utils"
)

type agentUsecaseRepository interface {
	CreateAgent(ctx context.Context, exec repositories.Executor, agentId uuid.UUID, input models.CreateAgentInput) error
	GetAgentById(ctx context.Context, exec repositories.Executor, agentId uuid.UUID) (models.Agent, error)
	ListAgents(ctx context.Context, exec repositories.Executor, filters models.AgentFilters,
		pagination models.Pagination) (models.Page[models.Agent], error)
	UpdateAgent(ctx context.Context, exec repositories.Executor, agentId uuid.UUID, input models.UpdateAgentInput) error
	UpdateAgentStatus(ctx context.Context, exec repositories.Executor, agentId uuid.UUID,
		status models.AgentStatus, isActive bool) error
	SoftDeleteAgent(ctx context.Context, exec repositories.Executor, agentId uuid.UUID, now time.Time) error
	CreateBootstrapRun(ctx context.Context, exec repositories.Executor, run models.BootstrapRun) error
	GetBootstrapRunByAgentId(ctx context.Context, exec repositories.Executor, agentId uuid.UUID) (models.BootstrapRun, error)
	GetPersonaByAgentId(ctx context.Context, exec repositories.Executor, agentId uuid.UUID) (models.Persona, error)
	ListEvaluationsByAgentId(ctx context.Context, exec repositories.Executor, agentId uuid.UUID) ([]models.Evaluation, error)
}

type AgentUsecase struct {
	executorFactory     executor_factory.ExecutorFactory
	transactionFactory  executor_factory.TransactionFactory
	repository          agentUsecaseRepository
	taskQueueRepository repositories.TaskQueueRepository
}

func NewAgentUsecase(
	executorFactory executor_factory.ExecutorFactory,
	transactionFactory executor_factory.TransactionFactory,
	repository agentUsecaseRepository,
	taskQueueRepository repositories.TaskQueueRepository,
) AgentUsecase {
	return AgentUsecase{
		executorFactory:     executorFactory,
		transactionFactory:  transactionFactory,
		repository:          repository,
		taskQueueRepository: taskQueueRepository,
	}
}

// CreateAgent inserts the agent, then starts the bootstrap workflow. The
// bootstrap start is deliberately decoupled: a failure to enqueue is logged
// and reported, never surfaced to the caller, so agent creation always
// succeeds once the row is committed.
func (uc AgentUsecase) CreateAgent(ctx context.Context, input models.CreateAgentInput) (models.Agent, error) {
	if input.Name == "" {
		return models.Agent{}, errors.Wrap(models.BadParameterError, "agent name is required")
	}
	if models.AgentTypeFromString(string(input.AgentType)) == "" {
		return models.Agent{}, errors.Wrapf(models.BadParameterError,
			"unknown agent type %q", input.AgentType)
	}
	input.Status = models.AgentStatusDraft
	input.IsActive = false

	agentId := uuid.New()
	agent, err := executor_factory.TransactionReturnValue(ctx, uc.transactionFactory,
		func(tx repositories.Transaction) (models.Agent, error) {
			if err := uc.repository.CreateAgent(ctx, tx, agentId, input); err != nil {
				return models.Agent{}, err
			}
			return uc.repository.GetAgentById(ctx, tx, agentId)
		})
	if err != nil {
		return models.Agent{}, err
	}

	uc.startBootstrap(ctx, agent)
	return agent, nil
}

// startBootstrap records the run and enqueues the job in one transaction.
// Best effort: any error is swallowed after logging, the agent already
// exists and the bootstrap can be retried out of band.
func (uc AgentUsecase) startBootstrap(ctx context.Context, agent models.Agent) {
	err := uc.transactionFactory.Transaction(ctx, func(tx repositories.Transaction) error {
		run := models.BootstrapRun{
			Id:          uuid.New(),
			WorkflowId:  models.BootstrapWorkflowId(agent.Id),
			AgentId:     agent.Id,
			TeamId:      agent.TeamId,
			Status:      models.BootstrapRunStatusPending,
			CurrentStep: models.BootstrapStepPersona,
		}
		if err := uc.repository.CreateBootstrapRun(ctx, tx, run); err != nil {
			return err
		}
		return uc.taskQueueRepository.EnqueueAgentBootstrapTask(ctx, tx, models.AgentBootstrapArgs{
			AgentId:          agent.Id,
			TeamId:           agent.TeamId,
			AgentName:        agent.Name,
			AgentDescription: agent.Description,
			Platform:         agent.Platform,
		})
	})
	if err != nil {
		utils.LogAndReportSentryError(ctx,
			errors.Wrapf(err, "could not start bootstrap for agent %s", agent.Id))
	}
}

func (uc AgentUsecase) GetAgent(ctx context.Context, agentId uuid.UUID) (models.Agent, error) {
	return uc.repository.GetAgentById(ctx, uc.executorFactory.NewExecutor(), agentId)
}

func (uc AgentUsecase) ListAgents(
	ctx context.Context,
	filters models.AgentFilters,
	pagination models.Pagination,
) (models.Page[models.Agent], error) {
	return uc.repository.ListAgents(ctx, uc.executorFactory.NewExecutor(),
		filters, pagination.WithDefaults())
}

func (uc AgentUsecase) UpdateAgent(
	ctx context.Context,
	agentId uuid.UUID,
	input models.UpdateAgentInput,
) (models.Agent, error) {
	return executor_factory.TransactionReturnValue(ctx, uc.transactionFactory,
		func(tx repositories.Transaction) (models.Agent, error) {
			agent, err := uc.repository.GetAgentById(ctx, tx, agentId)
			if err != nil {
				return models.Agent{}, err
			}
			if agent.Status == models.AgentStatusArchived {
				return models.Agent{}, models.ErrAgentArchived
			}
			if err := uc.repository.UpdateAgent(ctx, tx, agentId, input); err != nil {
				return models.Agent{}, err
			}
			return uc.repository.GetAgentById(ctx, tx, agentId)
		})
}

// TransitionAgentStatus applies a lifecycle action (activate, pause,
// archive). Archival is terminal and deactivates the agent.
func (uc AgentUsecase) TransitionAgentStatus(
	ctx context.Context,
	agentId uuid.UUID,
	target models.AgentStatus,
) (models.Agent, error) {
	return executor_factory.TransactionReturnValue(ctx, uc.transactionFactory,
		func(tx repositories.Transaction) (models.Agent, error) {
			agent, err := uc.repository.GetAgentById(ctx, tx, agentId)
			if err != nil {
				return models.Agent{}, err
			}
			if !agent.CanTransitionTo(target) {
				return models.Agent{}, errors.Wrapf(models.ErrInvalidStatusTransition,
					"from %q to %q", agent.Status, target)
			}
			isActive := target == models.AgentStatusActive
			if err := uc.repository.UpdateAgentStatus(ctx, tx, agentId, target, isActive); err != nil {
				return models.Agent{}, err
			}
			return uc.repository.GetAgentById(ctx, tx, agentId)
		})
}

func (uc AgentUsecase) DeleteAgent(ctx context.Context, agentId uuid.UUID) error {
	return uc.transactionFactory.Transaction(ctx, func(tx repositories.Transaction) error {
		if _, err := uc.repository.GetAgentById(ctx, tx, agentId); err != nil {
			return err
		}
		return uc.repository.SoftDeleteAgent(ctx, tx, agentId, time.Now())
	})
}

func (uc AgentUsecase) GetBootstrapRun(ctx context.Context, agentId uuid.UUID) (models.BootstrapRun, error) {
	exec := uc.executorFactory.NewExecutor()
	if _, err := uc.repository.GetAgentById(ctx, exec, agentId); err != nil {
		return models.BootstrapRun{}, err
	}
	return uc.repository.GetBootstrapRunByAgentId(ctx, exec, agentId)
}

func (uc AgentUsecase) GetPersona(ctx context.Context, agentId uuid.UUID) (models.Persona, error) {
	exec := uc.executorFactory.NewExecutor()
	if _, err := uc.repository.GetAgentById(ctx, exec, agentId); err != nil {
		return models.Persona{}, err
	}
	return uc.repository.GetPersonaByAgentId(ctx, exec, agentId)
}

func (uc AgentUsecase) ListEvaluations(ctx context.Context, agentId uuid.UUID) ([]models.Evaluation, error) {
	exec := uc.executorFactory.NewExecutor()
	if _, err := uc.repository.GetAgentById(ctx, exec, agentId); err != nil {
		return nil, err
	}
	return uc.repository.ListEvaluationsByAgentId(ctx, exec, agentId)
}
