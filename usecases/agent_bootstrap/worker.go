package agent_bootstrap

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/riverqueue/river"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/repositories"
	"github.com/mimichq/mimic-backend/usecases/executor_factory"
	"github.com/mimichq/mimic-backend/utils"
)

type bootstrapWorkerRepository interface {
	GetAgentById(ctx context.Context, exec repositories.Executor, agentId uuid.UUID) (models.Agent, error)
	GetBootstrapRunByAgentId(ctx context.Context, exec repositories.Executor, agentId uuid.UUID) (models.BootstrapRun, error)
	UpdateBootstrapRun(ctx context.Context, exec repositories.Executor, runId uuid.UUID, update models.UpdateBootstrapRun) error
	IncrementBootstrapRunAttempts(ctx context.Context, exec repositories.Executor, runId uuid.UUID) error
	UpsertPersona(ctx context.Context, exec repositories.Executor, persona models.Persona) error
	ReplaceEvaluations(ctx context.Context, tx repositories.Transaction, agentId uuid.UUID, evaluations []models.Evaluation) error
}

// Worker executes the agent-bootstrap workflow: generate a persona, then
// generate evaluations. After each completed step the run's cursor is
// advanced in its own transaction, so a crash between the two steps resumes
// at the evaluation step without re-running persona generation.
type Worker struct {
	river.WorkerDefaults[models.AgentBootstrapArgs]

	executorFactory    executor_factory.ExecutorFactory
	transactionFactory executor_factory.TransactionFactory
	repository         bootstrapWorkerRepository
	generator          Generator
	timeout            time.Duration
}

func NewWorker(
	executorFactory executor_factory.ExecutorFactory,
	transactionFactory executor_factory.TransactionFactory,
	repository bootstrapWorkerRepository,
	generator Generator,
	timeout time.Duration,
) *Worker {
	return &Worker{
		executorFactory:    executorFactory,
		transactionFactory: transactionFactory,
		repository:         repository,
		generator:          generator,
		timeout:            timeout,
	}
}

func (w *Worker) Timeout(job *river.Job[models.AgentBootstrapArgs]) time.Duration {
	return w.timeout
}

func (w *Worker) Work(ctx context.Context, job *river.Job[models.AgentBootstrapArgs]) error {
	logger := utils.LoggerFromContext(ctx).With(
		"agent_id", job.Args.AgentId,
		"team_id", job.Args.TeamId,
	)
	ctx = utils.StoreLoggerInContext(ctx, logger)
	exec := w.executorFactory.NewExecutor()

	agent, err := w.repository.GetAgentById(ctx, exec, job.Args.AgentId)
	if err != nil {
		if errors.Is(err, models.NotFoundError) {
			// The agent was deleted after the job was enqueued, nothing to do.
			logger.DebugContext(ctx, "Agent no longer exists, skipping bootstrap")
			return nil
		}
		return errors.Wrap(err, "error while getting agent")
	}

	run, err := w.repository.GetBootstrapRunByAgentId(ctx, exec, job.Args.AgentId)
	if err != nil {
		return errors.Wrap(err, "error while getting bootstrap run")
	}
	if run.Status == models.BootstrapRunStatusCompleted {
		logger.DebugContext(ctx, "Bootstrap run already completed, skipping")
		return nil
	}

	if err := w.repository.IncrementBootstrapRunAttempts(ctx, exec, run.Id); err != nil {
		return errors.Wrap(err, "error while incrementing bootstrap run attempts")
	}
	running := models.BootstrapRunStatusRunning
	if err := w.repository.UpdateBootstrapRun(ctx, exec, run.Id, models.UpdateBootstrapRun{
		Status: &running,
	}); err != nil {
		return errors.Wrap(err, "error while marking bootstrap run as running")
	}

	input := models.GenerationInput{
		AgentName:        agent.Name,
		AgentDescription: agent.Description,
		Platform:         agent.Platform,
	}

	if err := w.work(ctx, agent, run, input); err != nil {
		w.recordFailure(ctx, exec, job, run.Id, err)
		return err
	}
	return nil
}

func (w *Worker) work(
	ctx context.Context,
	agent models.Agent,
	run models.BootstrapRun,
	input models.GenerationInput,
) error {
	logger := utils.LoggerFromContext(ctx)

	if run.CurrentStep == models.BootstrapStepPersona {
		if err := w.runPersonaStep(ctx, agent, run, input); err != nil {
			return err
		}
		logger.InfoContext(ctx, "Persona generated for agent")
	} else {
		logger.DebugContext(ctx, "Persona step already completed, resuming at evaluations")
	}

	if err := w.runEvaluationsStep(ctx, agent, run, input); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Evaluations generated for agent, bootstrap completed")
	return nil
}

func (w *Worker) runPersonaStep(
	ctx context.Context,
	agent models.Agent,
	run models.BootstrapRun,
	input models.GenerationInput,
) error {
	generated, err := w.generator.GeneratePersona(ctx, input)
	if err != nil {
		return err
	}

	generated.Id = uuid.New()
	generated.AgentId = agent.Id
	generated.TeamId = agent.TeamId
	generated.CreatedBy = models.SystemUserId

	// The persona write and the cursor advance commit together: either the
	// step is durably done, or it will be redone entirely on retry.
	err = w.transactionFactory.Transaction(ctx, func(tx repositories.Transaction) error {
		if err := w.repository.UpsertPersona(ctx, tx, generated); err != nil {
			return err
		}
		nextStep := models.BootstrapStepEvaluations
		return w.repository.UpdateBootstrapRun(ctx, tx, run.Id, models.UpdateBootstrapRun{
			CurrentStep: &nextStep,
		})
	})
	if err != nil {
		return errors.Wrap(models.ErrPersistence,
			errors.Wrap(err, "could not persist generated persona").Error())
	}
	return nil
}

func (w *Worker) runEvaluationsStep(
	ctx context.Context,
	agent models.Agent,
	run models.BootstrapRun,
	input models.GenerationInput,
) error {
	generated, err := w.generator.GenerateEvaluations(ctx, input)
	if err != nil {
		return err
	}

	for i := range generated {
		generated[i].Id = uuid.New()
		generated[i].AgentId = agent.Id
		generated[i].TeamId = agent.TeamId
		generated[i].CreatedBy = models.SystemUserId
	}

	err = w.transactionFactory.Transaction(ctx, func(tx repositories.Transaction) error {
		if err := w.repository.ReplaceEvaluations(ctx, tx, agent.Id, generated); err != nil {
			return err
		}
		completed := models.BootstrapRunStatusCompleted
		doneStep := models.BootstrapStepDone
		now := time.Now()
		return w.repository.UpdateBootstrapRun(ctx, tx, run.Id, models.UpdateBootstrapRun{
			Status:      &completed,
			CurrentStep: &doneStep,
			CompletedAt: &now,
		})
	})
	if err != nil {
		return errors.Wrap(models.ErrPersistence,
			errors.Wrap(err, "could not persist generated evaluations").Error())
	}
	return nil
}

// recordFailure stores the error on the run. The run is only marked failed on
// the last attempt, since earlier failures will be retried by the queue.
func (w *Worker) recordFailure(
	ctx context.Context,
	exec repositories.Executor,
	job *river.Job[models.AgentBootstrapArgs],
	runId uuid.UUID,
	workErr error,
) {
	logger := utils.LoggerFromContext(ctx)
	logger.WarnContext(ctx, "Agent bootstrap attempt failed",
		"attempt", job.Attempt, "max_attempts", job.MaxAttempts, "error", workErr.Error())

	update := models.UpdateBootstrapRun{
		LastError: utils.Ptr(workErr.Error()),
	}
	if job.Attempt >= job.MaxAttempts {
		failed := models.BootstrapRunStatusFailed
		update.Status = &failed
	}
	if err := w.repository.UpdateBootstrapRun(ctx, exec, runId, update); err != nil {
		logger.ErrorContext(ctx, "Could not record bootstrap run failure", "error", err.Error())
	}
}
