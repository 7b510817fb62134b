// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"career-guidance-workers/internal/assessment"
	"career-guidance-workers/internal/catalog"
	"career-guidance-workers/internal/common/aws"
	"career-guidance-workers/internal/common/camunda"
	"career-guidance-workers/internal/common/config"
	"career-guidance-workers/internal/common/database"
	"career-guidance-workers/internal/common/logger"
	"career-guidance-workers/internal/common/observability"
	"career-guidance-workers/internal/common/resilience"
	"career-guidance-workers/internal/guidance"
	"career-guidance-workers/pkg/registry"

	// Transcript Workers (2)
	cg "career-guidance-workers/internal/workers/transcript/calculate-gpa"
	vt "career-guidance-workers/internal/workers/transcript/validate-transcript"

	// Personality & Recommendation Workers (2)
	sp "career-guidance-workers/internal/workers/personality/score-personality"
	gr "career-guidance-workers/internal/workers/recommendation/generate-recommendations"

	// Catalog Workers (1)
	sm "career-guidance-workers/internal/workers/catalog/search-majors"

	// Assessment Workers (3)
	mas "career-guidance-workers/internal/workers/assessment/manage-assessment-session"
	nar "career-guidance-workers/internal/workers/assessment/notify-assessment-result"
	ra "career-guidance-workers/internal/workers/assessment/record-assessment"
)

const registryPath = "configs/activity-registry.json"

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
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
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

type registration struct {
	taskType string
	handler  worker.JobHandler
}

func main() {
	zapLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	if configured, err := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output); err != nil {
		zapLog.Warn("logging config rejected, keeping console logger", zap.Error(err))
	} else {
		zapLog = configured
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.Observability.ServiceName,
		observability.WithJaegerEndpoint(cfg.Observability.JaegerEndpoint))
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Backing services, connected in parallel ---
	var (
		pg          *database.PostgresClient
		rdb         *database.RedisClient
		es          *database.ElasticsearchClient
		zeebeClient *camunda.Client
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return retryWithBackoff(gctx, func() error {
			var err error
			if pg, err = database.NewPostgres(cfg.Database.Postgres); err != nil {
				return err
			}
			return pg.Ping(gctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	})
	g.Go(func() error {
		return retryWithBackoff(gctx, func() error {
			var err error
			if rdb, err = database.NewRedis(cfg.Database.Redis); err != nil {
				return err
			}
			return rdb.Ping(gctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
	})
	g.Go(func() error {
		return retryWithBackoff(gctx, func() error {
			var err error
			if es, err = database.NewElasticsearch(cfg.Database.Elasticsearch); err != nil {
				return err
			}
			return es.Ping(gctx)
		}, 10, 3*time.Second, zapLog, "Elasticsearch connection")
	})
	g.Go(func() error {
		return retryWithBackoff(gctx, func() error {
			var err error
			zeebeClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
				ConnectionTimeout:      10 * time.Second,
				RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	})
	if err := g.Wait(); err != nil {
		zapLog.Fatal("backing services unavailable", zap.Error(err))
	}
	defer pg.Close()
	defer rdb.Close()
	zapLog.Info("PostgreSQL, Redis, Elasticsearch and Zeebe connected")

	// --- Catalog & engine ---
	store := catalog.NewStore(pg.DB, rdb.Client, cfg.Catalog.CacheTTL, log)
	cat, err := catalog.Load(ctx, cfg.Catalog.Source, cfg.Catalog.Path, store)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.String("source", cfg.Catalog.Source), zap.Error(err))
	}
	zapLog.Info("catalog loaded",
		zap.String("source", cfg.Catalog.Source),
		zap.String("version", cat.Version),
		zap.Int("majors", len(cat.Majors)),
	)
	engine := guidance.NewEngine(cat)

	// --- Outbound resilience ---
	searchBreaker := resilience.NewBreaker(resilience.BreakerConfig{
		Name:             "elasticsearch",
		FailureThreshold: cfg.Search.BreakerThreshold,
	}, log)
	awsBreaker := resilience.NewBreaker(resilience.BreakerConfig{Name: "aws"}, log)

	// Interface values stay nil for disabled channels.
	var (
		emailSender nar.EmailSender
		smsSender   nar.SMSSender
	)
	if cfg.Notifications.Email.Enabled {
		ses, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("failed to create SES client", zap.Error(err))
		}
		emailSender = ses
	}
	if cfg.Notifications.SMS.Enabled {
		sns, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.SMS.SenderID)
		if err != nil {
			zapLog.Fatal("failed to create SNS client", zap.Error(err))
		}
		smsSender = sns
	}

	// --- Handlers ---
	grCfg := gr.LoadConfig()
	grCfg.CacheTTL = cfg.Assessment.ResultCacheTTL

	smCfg := sm.LoadConfig()
	smCfg.IndexName = cfg.Search.MajorsIndex

	raCfg := ra.LoadConfig()
	raCfg.CatalogVersion = cat.Version

	narCfg := nar.LoadConfig()
	narCfg.EmailEnabled = cfg.Notifications.Email.Enabled
	narCfg.SMSEnabled = cfg.Notifications.SMS.Enabled
	narCfg.FromEmail = cfg.Notifications.Email.FromEmail
	narCfg.RatePerSecond = cfg.Notifications.RatePerSecond
	narCfg.TopMatches = cfg.Notifications.TopMatches

	sessions := assessment.NewRedisStore(rdb.Client, cfg.Assessment.SessionTTL)

	registrations := []registration{
		{vt.TaskType, vt.NewHandler(vt.LoadConfig(), engine, log).Handle},
		{cg.TaskType, cg.NewHandler(cg.LoadConfig(), engine, log).Handle},
		{sp.TaskType, sp.NewHandler(sp.LoadConfig(), engine, log).Handle},
		{gr.TaskType, gr.NewHandler(grCfg, engine, rdb.Client, log).Handle},
		{sm.TaskType, sm.NewHandler(smCfg, es.Client, searchBreaker, log).Handle},
		{mas.TaskType, mas.NewHandler(mas.LoadConfig(), engine, sessions, log).Handle},
		{ra.TaskType, ra.NewHandler(raCfg, pg.DB, log).Handle},
		{nar.TaskType, nar.NewHandler(narCfg, emailSender, smsSender, awsBreaker, log).Handle},
	}

	checkRegistry(registrations, zapLog)

	var workers []*camunda.CamundaWorker
	for _, r := range registrations {
		if !config.IsWorkerEnabled(cfg, r.taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", r.taskType))
			continue
		}
		workers = append(workers, camunda.NewWorker(
			zeebeClient.GetClient(), r.taskType, config.GetWorkerConfig(cfg, r.taskType), r.handler, obs, log))
	}
	zapLog.Info("workers registered", zap.Int("started", len(workers)), zap.Int("known", len(registrations)))

	// --- Health & Metrics Server ---
	startAssessment := func(ctx context.Context, sessionID string) (int64, error) {
		return zeebeClient.StartAssessment(ctx, cfg.Assessment.ProcessID, sessionID)
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           newServeMux(readinessChecks(pg, rdb, es, zeebeClient), startAssessment),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// checkRegistry warns about workers the activity registry does not describe.
// A missing registry file is not fatal.
func checkRegistry(registrations []registration, log *zap.Logger) {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		log.Warn("activity registry not loaded", zap.String("path", registryPath), zap.Error(err))
		return
	}
	if err := reg.Validate(); err != nil {
		log.Warn("activity registry is invalid", zap.Error(err))
	}
	for _, r := range registrations {
		if _, ok := reg.FindByTaskType(r.taskType); !ok {
			log.Warn("worker missing from activity registry", zap.String("taskType", r.taskType))
		}
	}
}
