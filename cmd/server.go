package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"

	"github.com/mimichq/mimic-backend/api"
	"github.com/mimichq/mimic-backend/infra"
	"github.com/mimichq/mimic-backend/repositories"
	"github.com/mimichq/mimic-backend/usecases"
	"github.com/mimichq/mimic-backend/utils"
)

func RunServer() error {
	// This is where we read the environment variables and set up the
	// configuration for the application.
	apiConfig := api.Configuration{
		Env:            utils.GetEnv("ENV", "development"),
		AppName:        "mimic-backend",
		Port:           utils.GetRequiredEnv[string]("PORT"),
		MimicAppUrl:    utils.GetEnv("MIMIC_APP_URL", ""),
		DefaultTimeout: time.Duration(utils.GetEnv("DEFAULT_TIMEOUT_SECOND", 5)) * time.Second,
	}
	pgConfig := utils.PGConfig{
		ConnectionString: utils.GetEnv("PG_CONNECTION_STRING", ""),
		Database:         "mimic",
		Hostname:         utils.GetEnv("PG_HOSTNAME", ""),
		Password:         utils.GetEnv("PG_PASSWORD", ""),
		Port:             utils.GetEnv("PG_PORT", "5432"),
		User:             utils.GetEnv("PG_USER", ""),
	}
	serverConfig := struct {
		appVersion    string
		jwtSigningKey string
		loggingFormat string
		sentryDsn     string
		webhookSecret string
	}{
		appVersion:    utils.GetEnv("APP_VERSION", "dev"),
		jwtSigningKey: utils.GetRequiredEnv[string]("AUTHENTICATION_JWT_SIGNING_KEY"),
		loggingFormat: utils.GetEnv("LOGGING_FORMAT", "text"),
		sentryDsn:     utils.GetEnv("SENTRY_DSN", ""),
		webhookSecret: utils.GetEnv("IDENTITY_WEBHOOK_SECRET", ""),
	}

	logger := utils.NewLogger(serverConfig.loggingFormat)
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	infra.SetupSentry(serverConfig.sentryDsn, apiConfig.Env, serverConfig.appVersion)
	defer sentry.Flush(3 * time.Second)

	pool, err := infra.NewPostgresConnectionPool(pgConfig.GetConnectionString())
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		return err
	}

	// The server only inserts jobs, it does not work them, so the river
	// client is created without queues.
	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{})
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		return err
	}

	repos := repositories.NewRepositories(pool,
		repositories.WithRiverClient(riverClient),
	)

	uc := usecases.NewUsecases(repos,
		usecases.WithAppBaseUrl(apiConfig.MimicAppUrl),
		usecases.WithJwtSigningKey([]byte(serverConfig.jwtSigningKey)),
		usecases.WithWebhookSecret(serverConfig.webhookSecret),
	)

	auth := api.NewAuthentication(uc)
	router := api.InitRouterMiddlewares(ctx, apiConfig)
	server := api.NewServer(router, apiConfig, uc, auth)

	notify, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.InfoContext(ctx, "starting server", slog.String("port", apiConfig.Port))
		err := server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			utils.LogAndReportSentryError(ctx, errors.Wrap(err, "Error while serving the app"))
		}
		logger.InfoContext(ctx, "server returned")
	}()

	<-notify.Done()
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.LogAndReportSentryError(ctx,
			errors.Wrap(err, "Error while shutting down the server"))
		return err
	}

	return nil
}
