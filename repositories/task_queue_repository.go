package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/utils"
)

const (
	// at 1sec*attempt^4, that's about 18min for the 5th attempt
	nbRetriesAgentBootstrap = 5
	priorityAgentBootstrap  = 2 // nb: higher number is lower priority (between 1 and 4)
)

type TaskQueueRepository interface {
	EnqueueAgentBootstrapTask(
		ctx context.Context,
		tx Transaction,
		args models.AgentBootstrapArgs,
	) error
}

type riverRepository struct {
	client *river.Client[pgx.Tx]
}

func NewTaskQueueRepository(client *river.Client[pgx.Tx]) TaskQueueRepository {
	return riverRepository{client: client}
}

// EnqueueAgentBootstrapTask inserts the bootstrap job in the same transaction
// as the agent row, so either both are committed or neither is. UniqueOpts
// makes a second insert with the same args a no-op while the first job is
// still pending or running.
func (r riverRepository) EnqueueAgentBootstrapTask(
	ctx context.Context,
	tx Transaction,
	args models.AgentBootstrapArgs,
) error {
	res, err := r.client.InsertTx(ctx, tx.RawTx(), args, &river.InsertOpts{
		MaxAttempts: nbRetriesAgentBootstrap,
		Priority:    priorityAgentBootstrap,
		Queue:       models.AgentBootstrapQueue,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		return err
	}
	logger := utils.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "Enqueued agent bootstrap task",
		"agent_id", args.AgentId, "job_id", res.Job.ID)
	return nil
}
