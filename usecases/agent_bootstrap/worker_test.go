package agent_bootstrap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/repositories"
)

// Local mocks, the worker only sees small interfaces so they stay short.

type mockWorkerRepository struct {
	mock.Mock
}

func (r *mockWorkerRepository) GetAgentById(ctx context.Context,
	exec repositories.Executor, agentId uuid.UUID,
) (models.Agent, error) {
	args := r.Called(ctx, exec, agentId)
	return args.Get(0).(models.Agent), args.Error(1)
}

func (r *mockWorkerRepository) GetBootstrapRunByAgentId(ctx context.Context,
	exec repositories.Executor, agentId uuid.UUID,
) (models.BootstrapRun, error) {
	args := r.Called(ctx, exec, agentId)
	return args.Get(0).(models.BootstrapRun), args.Error(1)
}

func (r *mockWorkerRepository) UpdateBootstrapRun(ctx context.Context,
	exec repositories.Executor, runId uuid.UUID, update models.UpdateBootstrapRun,
) error {
	args := r.Called(ctx, exec, runId, update)
	return args.Error(0)
}

func (r *mockWorkerRepository) IncrementBootstrapRunAttempts(ctx context.Context,
	exec repositories.Executor, runId uuid.UUID,
) error {
	args := r.Called(ctx, exec, runId)
	return args.Error(0)
}

func (r *mockWorkerRepository) UpsertPersona(ctx context.Context,
	exec repositories.Executor, persona models.Persona,
) error {
	args := r.Called(ctx, exec, persona)
	return args.Error(0)
}

func (r *mockWorkerRepository) ReplaceEvaluations(ctx context.Context,
	tx repositories.Transaction, agentId uuid.UUID, evaluations []models.Evaluation,
) error {
	args := r.Called(ctx, tx, agentId, evaluations)
	return args.Error(0)
}

type mockGenerator struct {
	mock.Mock
}

func (g *mockGenerator) GeneratePersona(ctx context.Context,
	input models.GenerationInput,
) (models.Persona, error) {
	args := g.Called(ctx, input)
	return args.Get(0).(models.Persona), args.Error(1)
}

func (g *mockGenerator) GenerateEvaluations(ctx context.Context,
	input models.GenerationInput,
) ([]models.Evaluation, error) {
	args := g.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Evaluation), args.Error(1)
}

type mockExecutorFactory struct {
	mock.Mock
}

func (e *mockExecutorFactory) NewExecutor() repositories.Executor {
	args := e.Called()
	return args.Get(0).(repositories.Executor)
}

type mockExecutor struct {
	mock.Mock
}

func (e *mockExecutor) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := e.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (e *mockExecutor) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	argList := e.Called(ctx, sql, args)
	if argList.Get(0) == nil {
		return nil, argList.Error(1)
	}
	return argList.Get(0).(pgx.Rows), argList.Error(1)
}

func (e *mockExecutor) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	argList := e.Called(ctx, sql, args)
	return argList.Get(0).(pgx.Row)
}

type mockTransaction struct {
	mockExecutor
}

func (t *mockTransaction) RawTx() pgx.Tx {
	return nil
}

// mockTransactionFactory runs the callback with a stub transaction, so the
// repository mocks inside the callback are exercised without a database.
type mockTransactionFactory struct {
	tx *mockTransaction
}

func (f *mockTransactionFactory) Transaction(ctx context.Context,
	fn func(tx repositories.Transaction) error,
) error {
	return fn(f.tx)
}

func setupWorkerTest() (*Worker, *mockWorkerRepository, *mockGenerator, *mockExecutor, *mockTransaction) {
	repo := &mockWorkerRepository{}
	generator := &mockGenerator{}
	exec := &mockExecutor{}
	tx := &mockTransaction{}
	executorFactory := &mockExecutorFactory{}
	executorFactory.On("NewExecutor").Return(exec)

	worker := NewWorker(
		executorFactory,
		&mockTransactionFactory{tx: tx},
		repo,
		generator,
		time.Minute,
	)
	return worker, repo, generator, exec, tx
}

func newBootstrapJob(args models.AgentBootstrapArgs, attempt, maxAttempts int) *river.Job[models.AgentBootstrapArgs] {
	return &river.Job[models.AgentBootstrapArgs]{
		JobRow: &rivertype.JobRow{
			Attempt:     attempt,
			MaxAttempts: maxAttempts,
		},
		Args: args,
	}
}

func createTestBootstrapData() (models.AgentBootstrapArgs, models.Agent, models.BootstrapRun) {
	agentId := uuid.New()
	teamId := uuid.New()
	createdBy := uuid.New()

	args := models.AgentBootstrapArgs{
		AgentId:          agentId,
		TeamId:           teamId,
		AgentName:        "Order tracker",
		AgentDescription: "order tracking questions",
		Platform:         "whatsapp",
	}
	agent := models.Agent{
		Id:          agentId,
		TeamId:      teamId,
		CreatedBy:   createdBy,
		Name:        "Order tracker",
		Description: "order tracking questions",
		AgentType:   models.AgentTypeChat,
		Platform:    "whatsapp",
		Status:      models.AgentStatusDraft,
	}
	run := models.BootstrapRun{
		Id:          uuid.New(),
		WorkflowId:  models.BootstrapWorkflowId(agentId),
		AgentId:     agentId,
		TeamId:      teamId,
		Status:      models.BootstrapRunStatusPending,
		CurrentStep: models.BootstrapStepPersona,
	}
	return args, agent, run
}

func testPersona() models.Persona {
	return models.Persona{
		Name:         "Amelia Chen",
		Age:          34,
		TechLiteracy: models.TechLiteracyMedium,
		LlmSummary:   "Busy professional tracking an online order",
		IsActive:     true,
	}
}

func testEvaluations() []models.Evaluation {
	return []models.Evaluation{
		{Name: "First response latency", Metric: models.EvaluationMetricLatencyMs, Method: models.EvaluationMethodTimestampDiff, Severity: models.EvaluationSeverityHigh},
		{Name: "Resolution accuracy", Metric: models.EvaluationMetricAccuracyPercentage, Method: models.EvaluationMethodLlmMatch, Severity: models.EvaluationSeverityCritical},
		{Name: "Customer sentiment", Metric: models.EvaluationMetricSentimentScore, Method: models.EvaluationMethodSentimentAnalysis, Severity: models.EvaluationSeverityMedium},
	}
}

func TestWork_SuccessPersistsPersonaAndEvaluations(t *testing.T) {
	worker, repo, generator, exec, tx := setupWorkerTest()
	ctx := context.Background()
	args, agent, run := createTestBootstrapData()

	repo.On("GetAgentById", ctx, exec, agent.Id).Return(agent, nil)
	repo.On("GetBootstrapRunByAgentId", ctx, exec, agent.Id).Return(run, nil)
	repo.On("IncrementBootstrapRunAttempts", ctx, exec, run.Id).Return(nil)
	repo.On("UpdateBootstrapRun", ctx, exec, run.Id, mock.MatchedBy(func(u models.UpdateBootstrapRun) bool {
		return u.Status != nil && *u.Status == models.BootstrapRunStatusRunning
	})).Return(nil)

	generator.On("GeneratePersona", mock.Anything, models.GenerationInput{
		AgentName:        agent.Name,
		AgentDescription: agent.Description,
		Platform:         agent.Platform,
	}).Return(testPersona(), nil)
	repo.On("UpsertPersona", mock.Anything, tx, mock.MatchedBy(func(p models.Persona) bool {
		return p.AgentId == agent.Id && p.TeamId == agent.TeamId &&
			p.CreatedBy == models.SystemUserId && p.CreatedBy != agent.CreatedBy
	})).Return(nil)
	repo.On("UpdateBootstrapRun", mock.Anything, tx, run.Id, mock.MatchedBy(func(u models.UpdateBootstrapRun) bool {
		return u.CurrentStep != nil && *u.CurrentStep == models.BootstrapStepEvaluations
	})).Return(nil)

	generator.On("GenerateEvaluations", mock.Anything, mock.Anything).Return(testEvaluations(), nil)
	repo.On("ReplaceEvaluations", mock.Anything, tx, agent.Id, mock.MatchedBy(func(evals []models.Evaluation) bool {
		if len(evals) != 3 {
			return false
		}
		for _, eval := range evals {
			if eval.AgentId != agent.Id || eval.CreatedBy != models.SystemUserId {
				return false
			}
		}
		return true
	})).Return(nil)
	repo.On("UpdateBootstrapRun", mock.Anything, tx, run.Id, mock.MatchedBy(func(u models.UpdateBootstrapRun) bool {
		return u.Status != nil && *u.Status == models.BootstrapRunStatusCompleted &&
			u.CurrentStep != nil && *u.CurrentStep == models.BootstrapStepDone &&
			u.CompletedAt != nil
	})).Return(nil)

	err := worker.Work(ctx, newBootstrapJob(args, 1, 5))

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	generator.AssertExpectations(t)
}

// A job resumed after the persona step was durably completed must not call
// persona generation again.
func TestWork_ResumesAtEvaluationsStep(t *testing.T) {
	worker, repo, generator, exec, tx := setupWorkerTest()
	ctx := context.Background()
	args, agent, run := createTestBootstrapData()
	run.CurrentStep = models.BootstrapStepEvaluations

	repo.On("GetAgentById", ctx, exec, agent.Id).Return(agent, nil)
	repo.On("GetBootstrapRunByAgentId", ctx, exec, agent.Id).Return(run, nil)
	repo.On("IncrementBootstrapRunAttempts", ctx, exec, run.Id).Return(nil)
	repo.On("UpdateBootstrapRun", ctx, exec, run.Id, mock.MatchedBy(func(u models.UpdateBootstrapRun) bool {
		return u.Status != nil && *u.Status == models.BootstrapRunStatusRunning
	})).Return(nil)

	generator.On("GenerateEvaluations", mock.Anything, mock.Anything).Return(testEvaluations(), nil)
	repo.On("ReplaceEvaluations", mock.Anything, tx, agent.Id, mock.Anything).Return(nil)
	repo.On("UpdateBootstrapRun", mock.Anything, tx, run.Id, mock.MatchedBy(func(u models.UpdateBootstrapRun) bool {
		return u.Status != nil && *u.Status == models.BootstrapRunStatusCompleted
	})).Return(nil)

	err := worker.Work(ctx, newBootstrapJob(args, 2, 5))

	assert.NoError(t, err)
	generator.AssertNotCalled(t, "GeneratePersona", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "UpsertPersona", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
	generator.AssertExpectations(t)
}

func TestWork_AlreadyCompletedRunIsSkipped(t *testing.T) {
	worker, repo, generator, exec, _ := setupWorkerTest()
	ctx := context.Background()
	args, agent, run := createTestBootstrapData()
	run.Status = models.BootstrapRunStatusCompleted
	run.CurrentStep = models.BootstrapStepDone

	repo.On("GetAgentById", ctx, exec, agent.Id).Return(agent, nil)
	repo.On("GetBootstrapRunByAgentId", ctx, exec, agent.Id).Return(run, nil)

	err := worker.Work(ctx, newBootstrapJob(args, 2, 5))

	assert.NoError(t, err)
	generator.AssertNotCalled(t, "GeneratePersona", mock.Anything, mock.Anything)
	generator.AssertNotCalled(t, "GenerateEvaluations", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestWork_DeletedAgentIsSkipped(t *testing.T) {
	worker, repo, generator, exec, _ := setupWorkerTest()
	ctx := context.Background()
	args, agent, _ := createTestBootstrapData()

	repo.On("GetAgentById", ctx, exec, agent.Id).
		Return(models.Agent{}, models.NotFoundError)

	err := worker.Work(ctx, newBootstrapJob(args, 1, 5))

	assert.NoError(t, err)
	generator.AssertNotCalled(t, "GeneratePersona", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestWork_GenerationFailureIsRetriable(t *testing.T) {
	worker, repo, generator, exec, _ := setupWorkerTest()
	ctx := context.Background()
	args, agent, run := createTestBootstrapData()

	repo.On("GetAgentById", ctx, exec, agent.Id).Return(agent, nil)
	repo.On("GetBootstrapRunByAgentId", ctx, exec, agent.Id).Return(run, nil)
	repo.On("IncrementBootstrapRunAttempts", ctx, exec, run.Id).Return(nil)
	repo.On("UpdateBootstrapRun", ctx, exec, run.Id, mock.MatchedBy(func(u models.UpdateBootstrapRun) bool {
		return u.Status != nil && *u.Status == models.BootstrapRunStatusRunning
	})).Return(nil)

	generator.On("GeneratePersona", mock.Anything, mock.Anything).
		Return(models.Persona{}, models.ErrGeneration)
	// Not the last attempt: the error is recorded but the run is not failed.
	repo.On("UpdateBootstrapRun", ctx, exec, run.Id, mock.MatchedBy(func(u models.UpdateBootstrapRun) bool {
		return u.LastError != nil && u.Status == nil
	})).Return(nil)

	err := worker.Work(ctx, newBootstrapJob(args, 1, 5))

	assert.ErrorIs(t, err, models.ErrGeneration)
	repo.AssertExpectations(t)
}

func TestWork_LastAttemptFailureMarksRunFailed(t *testing.T) {
	worker, repo, generator, exec, _ := setupWorkerTest()
	ctx := context.Background()
	args, agent, run := createTestBootstrapData()

	repo.On("GetAgentById", ctx, exec, agent.Id).Return(agent, nil)
	repo.On("GetBootstrapRunByAgentId", ctx, exec, agent.Id).Return(run, nil)
	repo.On("IncrementBootstrapRunAttempts", ctx, exec, run.Id).Return(nil)
	repo.On("UpdateBootstrapRun", ctx, exec, run.Id, mock.MatchedBy(func(u models.UpdateBootstrapRun) bool {
		return u.Status != nil && *u.Status == models.BootstrapRunStatusRunning
	})).Return(nil)

	generator.On("GeneratePersona", mock.Anything, mock.Anything).
		Return(models.Persona{}, models.ErrGeneration)
	repo.On("UpdateBootstrapRun", ctx, exec, run.Id, mock.MatchedBy(func(u models.UpdateBootstrapRun) bool {
		return u.LastError != nil && u.Status != nil && *u.Status == models.BootstrapRunStatusFailed
	})).Return(nil)

	err := worker.Work(ctx, newBootstrapJob(args, 5, 5))

	assert.ErrorIs(t, err, models.ErrGeneration)
	repo.AssertExpectations(t)
}

func TestWork_PersistenceFailureIsWrapped(t *testing.T) {
	worker, repo, generator, exec, tx := setupWorkerTest()
	ctx := context.Background()
	args, agent, run := createTestBootstrapData()

	repo.On("GetAgentById", ctx, exec, agent.Id).Return(agent, nil)
	repo.On("GetBootstrapRunByAgentId", ctx, exec, agent.Id).Return(run, nil)
	repo.On("IncrementBootstrapRunAttempts", ctx, exec, run.Id).Return(nil)
	repo.On("UpdateBootstrapRun", ctx, exec, run.Id, mock.MatchedBy(func(u models.UpdateBootstrapRun) bool {
		return u.Status != nil && *u.Status == models.BootstrapRunStatusRunning
	})).Return(nil)

	generator.On("GeneratePersona", mock.Anything, mock.Anything).Return(testPersona(), nil)
	repo.On("UpsertPersona", mock.Anything, tx, mock.Anything).
		Return(errors.New("connection reset"))
	repo.On("UpdateBootstrapRun", ctx, exec, run.Id, mock.MatchedBy(func(u models.UpdateBootstrapRun) bool {
		return u.LastError != nil
	})).Return(nil)

	err := worker.Work(ctx, newBootstrapJob(args, 1, 5))

	assert.ErrorIs(t, err, models.ErrPersistence)
	repo.AssertExpectations(t)
}
