package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"

	"github.com/mimichq/mimic-backend/infra"
	"github.com/mimichq/mimic-backend/jobs"
	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/repositories"
	"github.com/mimichq/mimic-backend/usecases"
	"github.com/mimichq/mimic-backend/utils"
)

func RunTaskQueue() error {
	pgConfig := utils.PGConfig{
		ConnectionString: utils.GetEnv("PG_CONNECTION_STRING", ""),
		Database:         "mimic",
		Hostname:         utils.GetEnv("PG_HOSTNAME", ""),
		Password:         utils.GetEnv("PG_PASSWORD", ""),
		Port:             utils.GetEnv("PG_PORT", "5432"),
		User:             utils.GetEnv("PG_USER", ""),
	}
	llmConfig := infra.LLMConfiguration{
		ProviderType: infra.LLMProviderType(utils.GetEnv("LLM_PROVIDER", string(infra.LLMProviderTypeOpenAI))),
		BaseURL:      utils.GetEnv("LLM_BASE_URL", ""),
		ApiKey:       utils.GetEnv("LLM_API_KEY", ""),
		Model:        utils.GetEnv("LLM_MODEL", "gpt-4o-mini"),
	}
	workerConfig := struct {
		appVersion       string
		bootstrapTimeout time.Duration
		bootstrapWorkers int
		env              string
		loggingFormat    string
		sentryDsn        string
	}{
		appVersion:       utils.GetEnv("APP_VERSION", "dev"),
		bootstrapTimeout: time.Duration(utils.GetEnv("AGENT_BOOTSTRAP_TIMEOUT_SECOND", 60)) * time.Second,
		bootstrapWorkers: utils.GetEnv("AGENT_BOOTSTRAP_MAX_WORKERS", 10),
		env:              utils.GetEnv("ENV", "development"),
		loggingFormat:    utils.GetEnv("LOGGING_FORMAT", "text"),
		sentryDsn:        utils.GetEnv("SENTRY_DSN", ""),
	}

	logger := utils.NewLogger(workerConfig.loggingFormat)
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	infra.SetupSentry(workerConfig.sentryDsn, workerConfig.env, workerConfig.appVersion)
	defer sentry.Flush(3 * time.Second)

	pool, err := infra.NewPostgresConnectionPool(pgConfig.GetConnectionString())
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		return err
	}

	workers := river.NewWorkers()
	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		FetchPollInterval: 100 * time.Millisecond,
		Queues: map[string]river.QueueConfig{
			models.AgentBootstrapQueue: {MaxWorkers: workerConfig.bootstrapWorkers},
		},

		// Must be larger than the time it takes to process a job.
		RescueStuckJobsAfter: workerConfig.bootstrapTimeout + time.Minute,
		WorkerMiddleware: []rivertype.WorkerMiddleware{
			jobs.NewSentryMiddleware(),
			jobs.NewLoggerMiddleware(logger),
			jobs.NewRecoveredMiddleware(),
		},
		Workers: workers,
	})
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		return err
	}

	repos := repositories.NewRepositories(pool,
		repositories.WithRiverClient(riverClient),
	)

	uc := usecases.NewUsecases(repos,
		usecases.WithLLMConfig(llmConfig),
		usecases.WithBootstrapTimeout(workerConfig.bootstrapTimeout),
	)
	river.AddWorker(workers, uc.NewAgentBootstrapWorker())

	if err := riverClient.Start(ctx); err != nil {
		utils.LogAndReportSentryError(ctx, err)
		return err
	}

	sigintOrTerm := make(chan os.Signal, 1)
	signal.Notify(sigintOrTerm, syscall.SIGINT, syscall.SIGTERM)

	go cleanStop(ctx, sigintOrTerm, riverClient)

	<-riverClient.Stopped()
	logger.InfoContext(ctx, "River client stopped")

	return nil
}

// This stop goroutine waits for SIGINT/SIGTERM and when received, tries to
// stop gracefully by allowing a chance for jobs to finish. If that isn't
// working, a second SIGINT/SIGTERM tells it to issue a hard stop that cancels
// the context of all active jobs. In case that doesn't work either, a third
// SIGINT/SIGTERM ignores River's stop procedure completely and exits
// uncleanly.
func cleanStop(ctx context.Context, sigintOrTerm chan os.Signal, riverClient *river.Client[pgx.Tx]) {
	logger := utils.LoggerFromContext(ctx)
	<-sigintOrTerm
	logger.InfoContext(ctx, "Received SIGINT/SIGTERM; initiating soft stop (try to wait for jobs to finish)")

	softStopCtx, softStopCtxCancel := context.WithTimeout(ctx, 5*time.Second)
	defer softStopCtxCancel()

	go func() {
		select {
		case <-sigintOrTerm:
			logger.InfoContext(ctx, "Received SIGINT/SIGTERM again; initiating hard stop (cancel everything)")
			softStopCtxCancel()
		case <-softStopCtx.Done():
			logger.InfoContext(ctx, "Soft stop timeout; initiating hard stop (cancel everything)")
		}
	}()

	err := riverClient.Stop(softStopCtx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		logger.ErrorContext(ctx, "Soft stop failed", "error", err)
		panic(err)
	}
	if err == nil {
		logger.InfoContext(ctx, "Soft stop succeeded")
		return
	}

	hardStopCtx, hardStopCtxCancel := context.WithTimeout(ctx, 10*time.Second)
	defer hardStopCtxCancel()

	// As long as all jobs respect context cancellation, StopAndCancel will
	// always work. However, in the case of a bug where a job blocks despite
	// being cancelled, it may be necessary to either ignore River's stop
	// result or have a supervisor kill the process.
	err = riverClient.StopAndCancel(hardStopCtx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		logger.InfoContext(ctx, "Hard stop timeout; ignoring stop procedure and exiting unsafely")
	} else if err != nil {
		panic(err)
	}
}
