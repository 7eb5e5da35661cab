package repositories

import (
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
)

// MimicDbRepository groups every query against the mimic database. Methods
// take an Executor so that they run either on the pool or inside a caller
// owned transaction.
type MimicDbRepository struct{}

type Repositories struct {
	ExecutorGetter      ExecutorGetter
	MimicDbRepository   *MimicDbRepository
	TaskQueueRepository TaskQueueRepository
	EmailRepository     EmailRepository
}

type Option func(*options)

type options struct {
	riverClient *river.Client[pgx.Tx]
	emailSender EmailRepository
}

func WithRiverClient(client *river.Client[pgx.Tx]) Option {
	return func(o *options) {
		o.riverClient = client
	}
}

func WithEmailRepository(sender EmailRepository) Option {
	return func(o *options) {
		o.emailSender = sender
	}
}

func NewRepositories(pool *pgxpool.Pool, opts ...Option) Repositories {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	var taskQueue TaskQueueRepository
	if o.riverClient != nil {
		taskQueue = NewTaskQueueRepository(o.riverClient)
	}
	if o.emailSender == nil {
		o.emailSender = LogEmailRepository{}
	}

	return Repositories{
		ExecutorGetter:      NewExecutorGetter(pool),
		MimicDbRepository:   &MimicDbRepository{},
		TaskQueueRepository: taskQueue,
		EmailRepository:     o.emailSender,
	}
}
