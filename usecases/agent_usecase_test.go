package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/repositories"
	"github.com/mimichq/mimic-backend/utils"
)

type mockAgentRepository struct {
	mock.Mock
}

func (r *mockAgentRepository) CreateAgent(ctx context.Context, exec repositories.Executor,
	agentId uuid.UUID, input models.CreateAgentInput,
) error {
	args := r.Called(ctx, exec, agentId, input)
	return args.Error(0)
}

func (r *mockAgentRepository) GetAgentById(ctx context.Context,
	exec repositories.Executor, agentId uuid.UUID,
) (models.Agent, error) {
	args := r.Called(ctx, exec, agentId)
	return args.Get(0).(models.Agent), args.Error(1)
}

func (r *mockAgentRepository) ListAgents(ctx context.Context, exec repositories.Executor,
	filters models.AgentFilters, pagination models.Pagination,
) (models.Page[models.Agent], error) {
	args := r.Called(ctx, exec, filters, pagination)
	return args.Get(0).(models.Page[models.Agent]), args.Error(1)
}

func (r *mockAgentRepository) UpdateAgent(ctx context.Context, exec repositories.Executor,
	agentId uuid.UUID, input models.UpdateAgentInput,
) error {
	args := r.Called(ctx, exec, agentId, input)
	return args.Error(0)
}

func (r *mockAgentRepository) UpdateAgentStatus(ctx context.Context, exec repositories.Executor,
	agentId uuid.UUID, status models.AgentStatus, isActive bool,
) error {
	args := r.Called(ctx, exec, agentId, status, isActive)
	return args.Error(0)
}

func (r *mockAgentRepository) SoftDeleteAgent(ctx context.Context,
	exec repositories.Executor, agentId uuid.UUID, now time.Time,
) error {
	args := r.Called(ctx, exec, agentId, now)
	return args.Error(0)
}

func (r *mockAgentRepository) CreateBootstrapRun(ctx context.Context,
	exec repositories.Executor, run models.BootstrapRun,
) error {
	args := r.Called(ctx, exec, run)
	return args.Error(0)
}

func (r *mockAgentRepository) GetBootstrapRunByAgentId(ctx context.Context,
	exec repositories.Executor, agentId uuid.UUID,
) (models.BootstrapRun, error) {
	args := r.Called(ctx, exec, agentId)
	return args.Get(0).(models.BootstrapRun), args.Error(1)
}

func (r *mockAgentRepository) GetPersonaByAgentId(ctx context.Context,
	exec repositories.Executor, agentId uuid.UUID,
) (models.Persona, error) {
	args := r.Called(ctx, exec, agentId)
	return args.Get(0).(models.Persona), args.Error(1)
}

func (r *mockAgentRepository) ListEvaluationsByAgentId(ctx context.Context,
	exec repositories.Executor, agentId uuid.UUID,
) ([]models.Evaluation, error) {
	args := r.Called(ctx, exec, agentId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Evaluation), args.Error(1)
}

type mockTaskQueueRepository struct {
	mock.Mock
}

func (r *mockTaskQueueRepository) EnqueueAgentBootstrapTask(ctx context.Context,
	tx repositories.Transaction, args models.AgentBootstrapArgs,
) error {
	mockArgs := r.Called(ctx, tx, args)
	return mockArgs.Error(0)
}

type stubExecutor struct{}

func (stubExecutor) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (stubExecutor) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (stubExecutor) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

type stubTransaction struct {
	stubExecutor
}

func (stubTransaction) RawTx() pgx.Tx { return nil }

type stubExecutorFactory struct {
	tx stubTransaction
}

func (f stubExecutorFactory) NewExecutor() repositories.Executor {
	return stubExecutor{}
}

func (f stubExecutorFactory) Transaction(ctx context.Context,
	fn func(tx repositories.Transaction) error,
) error {
	return fn(f.tx)
}

func setupAgentUsecaseTest() (AgentUsecase, *mockAgentRepository, *mockTaskQueueRepository) {
	repo := &mockAgentRepository{}
	taskQueue := &mockTaskQueueRepository{}
	factory := stubExecutorFactory{}
	uc := NewAgentUsecase(factory, factory, repo, taskQueue)
	return uc, repo, taskQueue
}

func createAgentInput() models.CreateAgentInput {
	return models.CreateAgentInput{
		TeamId:      uuid.New(),
		CreatedBy:   uuid.New(),
		Name:        "Order tracker",
		Description: "order tracking questions",
		AgentType:   models.AgentTypeChat,
		Platform:    "whatsapp",
	}
}

func storedAgent(input models.CreateAgentInput) models.Agent {
	return models.Agent{
		Id:          uuid.New(),
		TeamId:      input.TeamId,
		CreatedBy:   input.CreatedBy,
		Name:        input.Name,
		Description: input.Description,
		AgentType:   input.AgentType,
		Platform:    input.Platform,
		Status:      models.AgentStatusDraft,
	}
}

func TestCreateAgent_EnqueuesBootstrap(t *testing.T) {
	uc, repo, taskQueue := setupAgentUsecaseTest()
	ctx := context.Background()
	input := createAgentInput()
	agent := storedAgent(input)

	repo.On("CreateAgent", ctx, mock.Anything, mock.Anything, mock.MatchedBy(func(in models.CreateAgentInput) bool {
		return in.Status == models.AgentStatusDraft && !in.IsActive
	})).Return(nil)
	repo.On("GetAgentById", ctx, mock.Anything, mock.Anything).Return(agent, nil)
	repo.On("CreateBootstrapRun", ctx, mock.Anything, mock.MatchedBy(func(run models.BootstrapRun) bool {
		return run.AgentId == agent.Id &&
			run.WorkflowId == models.BootstrapWorkflowId(agent.Id) &&
			run.Status == models.BootstrapRunStatusPending &&
			run.CurrentStep == models.BootstrapStepPersona
	})).Return(nil)
	taskQueue.On("EnqueueAgentBootstrapTask", ctx, mock.Anything, models.AgentBootstrapArgs{
		AgentId:          agent.Id,
		TeamId:           agent.TeamId,
		AgentName:        agent.Name,
		AgentDescription: agent.Description,
		Platform:         agent.Platform,
	}).Return(nil)

	created, err := uc.CreateAgent(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, agent.Id, created.Id)
	repo.AssertExpectations(t)
	taskQueue.AssertExpectations(t)
}

// A failed bootstrap enqueue must never fail the creation request.
func TestCreateAgent_EnqueueFailureDoesNotFailCreation(t *testing.T) {
	uc, repo, taskQueue := setupAgentUsecaseTest()
	ctx := context.Background()
	input := createAgentInput()
	agent := storedAgent(input)

	repo.On("CreateAgent", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.On("GetAgentById", ctx, mock.Anything, mock.Anything).Return(agent, nil)
	repo.On("CreateBootstrapRun", ctx, mock.Anything, mock.Anything).Return(nil)
	taskQueue.On("EnqueueAgentBootstrapTask", ctx, mock.Anything, mock.Anything).
		Return(errors.New("queue unavailable"))

	created, err := uc.CreateAgent(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, agent.Id, created.Id)
}

func TestCreateAgent_MissingName(t *testing.T) {
	uc, _, _ := setupAgentUsecaseTest()
	input := createAgentInput()
	input.Name = ""

	_, err := uc.CreateAgent(context.Background(), input)

	assert.ErrorIs(t, err, models.BadParameterError)
}

func TestCreateAgent_UnknownAgentType(t *testing.T) {
	uc, _, _ := setupAgentUsecaseTest()
	input := createAgentInput()
	input.AgentType = "hologram"

	_, err := uc.CreateAgent(context.Background(), input)

	assert.ErrorIs(t, err, models.BadParameterError)
}

func TestTransitionAgentStatus_DraftToActive(t *testing.T) {
	uc, repo, _ := setupAgentUsecaseTest()
	ctx := context.Background()
	agent := storedAgent(createAgentInput())

	activated := agent
	activated.Status = models.AgentStatusActive
	activated.IsActive = true

	repo.On("GetAgentById", ctx, mock.Anything, agent.Id).Return(agent, nil).Once()
	repo.On("UpdateAgentStatus", ctx, mock.Anything, agent.Id, models.AgentStatusActive, true).Return(nil)
	repo.On("GetAgentById", ctx, mock.Anything, agent.Id).Return(activated, nil).Once()

	result, err := uc.TransitionAgentStatus(ctx, agent.Id, models.AgentStatusActive)

	assert.NoError(t, err)
	assert.Equal(t, models.AgentStatusActive, result.Status)
	assert.True(t, result.IsActive)
	repo.AssertExpectations(t)
}

// Archived agents are terminal: no lifecycle action applies to them.
func TestTransitionAgentStatus_ArchivedIsTerminal(t *testing.T) {
	uc, repo, _ := setupAgentUsecaseTest()
	ctx := context.Background()
	agent := storedAgent(createAgentInput())
	agent.Status = models.AgentStatusArchived

	repo.On("GetAgentById", ctx, mock.Anything, agent.Id).Return(agent, nil)

	_, err := uc.TransitionAgentStatus(ctx, agent.Id, models.AgentStatusActive)

	assert.ErrorIs(t, err, models.ErrInvalidStatusTransition)
	repo.AssertNotCalled(t, "UpdateAgentStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateAgent_ArchivedIsRejected(t *testing.T) {
	uc, repo, _ := setupAgentUsecaseTest()
	ctx := context.Background()
	agent := storedAgent(createAgentInput())
	agent.Status = models.AgentStatusArchived

	repo.On("GetAgentById", ctx, mock.Anything, agent.Id).Return(agent, nil)

	_, err := uc.UpdateAgent(ctx, agent.Id, models.UpdateAgentInput{
		Name: utils.Ptr("new name"),
	})

	assert.ErrorIs(t, err, models.ErrAgentArchived)
}

func TestListAgents_AppliesPaginationDefaults(t *testing.T) {
	uc, repo, _ := setupAgentUsecaseTest()
	ctx := context.Background()

	repo.On("ListAgents", ctx, mock.Anything, models.AgentFilters{},
		mock.MatchedBy(func(p models.Pagination) bool {
			return p.Limit == 10
		})).Return(models.Page[models.Agent]{}, nil)

	_, err := uc.ListAgents(ctx, models.AgentFilters{}, models.Pagination{})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
