// cmd/saturn-client/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ergutierz/SaturnClient/internal/common/config"
	"github.com/ergutierz/SaturnClient/internal/common/database"
	httpclient "github.com/ergutierz/SaturnClient/internal/common/http"
	"github.com/ergutierz/SaturnClient/internal/common/logger"
	"github.com/ergutierz/SaturnClient/internal/common/metrics"
	"github.com/ergutierz/SaturnClient/internal/common/observability"
	"github.com/ergutierz/SaturnClient/internal/display"
	"github.com/ergutierz/SaturnClient/internal/orchestrator"
	enqueueteam "github.com/ergutierz/SaturnClient/internal/workers/teams/enqueue-team"
	fetchprocesseddata "github.com/ergutierz/SaturnClient/internal/workers/teams/fetch-processed-data"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("%s cancelled: %w", operationName, ctx.Err())
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes one client run and returns the process exit code.
func run(args []string, stdout io.Writer) int {
	flags := flag.NewFlagSet("saturn-client", flag.ContinueOnError)
	configPath := flags.String("config", "", "path to a config file (default: configs/config.yaml lookup)")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		return 1
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting saturn client",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("baseUrl", cfg.API.BaseURL),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}
	defer obs.Shutdown()

	client := httpclient.NewClient(config.GetDuration(cfg.API.Timeout))

	enqueueCfg := enqueueteam.LoadConfig()
	enqueueCfg.BaseURL = cfg.API.BaseURL
	enqueueCfg.FirstTeam = cfg.Teams.First
	enqueueCfg.LastTeam = cfg.Teams.Last
	enqueueCfg.ValidateSchema = cfg.Run.ValidateSchema

	submitter, err := enqueueteam.NewHandler(enqueueCfg, client, log)
	if err != nil {
		zapLog.Error("failed to create enqueue-team handler", zap.Error(err))
		return 1
	}

	fetchCfg := fetchprocesseddata.LoadConfig()
	fetchCfg.BaseURL = cfg.API.BaseURL
	fetchCfg.MaxRetries = cfg.Poll.MaxRetries
	fetchCfg.Delay = config.GetDuration(cfg.Poll.Delay)
	fetchCfg.ValidateSchema = cfg.Run.ValidateSchema

	poller, err := fetchprocesseddata.NewHandler(fetchCfg, client, log)
	if err != nil {
		zapLog.Error("failed to create fetch-processed-data handler", zap.Error(err))
		return 1
	}

	displays, cleanup, err := buildDisplays(ctx, cfg, stdout, log, zapLog)
	if err != nil {
		zapLog.Error("display setup failed", zap.Error(err))
		return 1
	}
	defer cleanup()

	orch := orchestrator.New(&orchestrator.Config{
		FirstTeam:   cfg.Teams.First,
		LastTeam:    cfg.Teams.Last,
		Concurrency: cfg.Run.Concurrency,
		Timeout:     config.GetDuration(cfg.Run.Timeout),
	}, submitter, poller, displays, log, orchestrator.WithObservability(obs))

	task := orch.Start(ctx)
	result, runErr := task.Wait()

	if cfg.Metrics.PushgatewayURL != "" {
		if err := metrics.Push(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
			zapLog.Warn("metrics push failed", zap.Error(err))
		}
	}

	if runErr != nil {
		return 1
	}

	zapLog.Info("Saturn client finished",
		zap.String("runId", result.RunID),
		zap.Int("records", len(result.Stats)),
		zap.Duration("duration", result.Duration),
	)
	return 0
}

// buildDisplays connects every enabled display. The returned cleanup closes
// the connections opened here.
func buildDisplays(ctx context.Context, cfg *config.Config, stdout io.Writer, log logger.Logger, zapLog *zap.Logger) (*display.Multi, func(), error) {
	var (
		named   []display.Named
		closers []func() error
	)
	cleanup := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	if cfg.Display.Console.Enabled {
		var opts []display.ConsoleOption
		if !cfg.Display.Console.Spinner {
			opts = append(opts, display.WithoutSpinner())
		}
		named = append(named, display.Named{Name: "console", Display: display.NewConsole(stdout, opts...)})
	}

	if cfg.Display.Redis.Enabled {
		var rc *database.RedisClient
		err := retryWithBackoff(ctx, func() error {
			var err error
			rc, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			if err := rc.Ping(ctx); err != nil {
				rc.Close()
				return err
			}
			return nil
		}, 5, time.Second, zapLog, "Redis connection")
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, rc.Close)
		zapLog.Info("Redis connected successfully")

		named = append(named, display.Named{Name: "redis", Display: display.NewRedis(rc.Client, display.RedisConfig{
			KeyPrefix: cfg.Display.Redis.KeyPrefix,
			Channel:   cfg.Display.Redis.Channel,
			TTL:       config.GetDuration(cfg.Display.Redis.TTL),
		}, log)})
	}

	if cfg.Display.Postgres.Enabled {
		var pg *database.PostgresClient
		err := retryWithBackoff(ctx, func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			if err := pg.Ping(ctx); err != nil {
				pg.Close()
				return err
			}
			return nil
		}, 5, time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, pg.Close)
		zapLog.Info("PostgreSQL connected successfully")

		pgDisplay, err := display.NewPostgres(pg.DB, cfg.Display.Postgres.Table, log)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		named = append(named, display.Named{Name: "postgres", Display: pgDisplay})
	}

	if len(named) == 0 {
		zapLog.Warn("no display enabled, results will only be logged")
	}

	return display.NewMulti(named...), cleanup, nil
}
