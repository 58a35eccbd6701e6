// Package server boots the application: config, connections, background
// workers, the HTTP surface and the gRPC ops endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/printipid/printipid/app/controllers"
	"github.com/printipid/printipid/app/graph"
	"github.com/printipid/printipid/app/jobs"
	"github.com/printipid/printipid/app/listeners"
	"github.com/printipid/printipid/app/repositories"
	"github.com/printipid/printipid/app/routes"
	"github.com/printipid/printipid/app/services"
	"github.com/printipid/printipid/config"
	"github.com/printipid/printipid/pkg/cache"
	"github.com/printipid/printipid/pkg/docstore"
	"github.com/printipid/printipid/pkg/grpcserver"
	"github.com/printipid/printipid/pkg/logger"
	"github.com/printipid/printipid/pkg/metrics"
	"github.com/printipid/printipid/pkg/middleware"
	"github.com/printipid/printipid/pkg/queue"
	"github.com/printipid/printipid/pkg/reqid"
	"github.com/printipid/printipid/pkg/response"
	"github.com/printipid/printipid/pkg/router"
	"github.com/printipid/printipid/pkg/schedule"
	"github.com/printipid/printipid/pkg/storage"
	"github.com/printipid/printipid/pkg/workerpool"
	"github.com/printipid/printipid/pkg/ws"
)

const (
	queueWorkers   = 5
	encodePoolSize = 8
)

// Start boots everything and blocks until SIGINT/SIGTERM, then shuts down
// gracefully.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ─── Connections ─────────────────────────────────────────────────────
	if err := docstore.Connect(); err != nil {
		return err
	}
	defer docstore.Close(context.Background()) //nolint:errcheck

	// Logs go to stdout and, once Mongo is up, to the logs collection too.
	logger.UseHandler(logger.NewMongoHandler(
		slog.NewJSONHandler(os.Stdout, nil), docstore.DB, "logs",
	))

	if err := cache.Connect(); err != nil {
		logger.Warn("server: redis unavailable, caching disabled", "error", err)
	}
	storage.Connect()

	// ─── Background workers ──────────────────────────────────────────────
	if config.QueueDriver() == "redis" && cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.UseCollection(docstore.Collection("failed_jobs"))
	jobs.Register()
	queue.StartWorkers(ctx, queueWorkers)
	listeners.Register()

	RegisterSchedule()
	schedule.Start(ctx)

	// ─── Wiring ──────────────────────────────────────────────────────────
	pool := workerpool.New(encodePoolSize)
	defer pool.Shutdown()

	orderRepo := repositories.NewOrderRepository()
	userRepo := repositories.NewUserRepository()
	serviceRepo := repositories.NewServiceRepository()
	methodRepo := repositories.NewPaymentMethodRepository()

	orderSvc := services.NewOrderService(orderRepo, services.NewAttachmentService(pool), storage.Use(config.StorageDefault()))
	authSvc := services.NewAuthService(userRepo)
	statsSvc := services.NewStatsService(orderRepo)
	catalogSvc := services.NewCatalogService(serviceRepo, methodRepo, storage.Use(config.StorageDefault()))

	feed := ws.NewHub()
	go feed.Run()

	schema, err := graph.NewSchema(orderRepo)
	if err != nil {
		return fmt.Errorf("server: build graphql schema: %w", err)
	}

	// ─── HTTP ────────────────────────────────────────────────────────────
	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(120, time.Minute),
	)

	routes.RegisterAPI(r, routes.Controllers{
		Auth:    controllers.NewAuthController(authSvc),
		Orders:  controllers.NewOrderController(orderSvc),
		Admin:   controllers.NewAdminController(orderSvc, authSvc, feed),
		Catalog: controllers.NewCatalogController(catalogSvc),
		Stats:   controllers.NewStatsController(statsSvc),
		GraphQL: graph.Handler(schema),
	})

	r.HandleFunc("/metrics", metrics.Handler())
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})

	// ─── gRPC ops endpoint ───────────────────────────────────────────────
	grpcSrv, _, err := grpcserver.Start(config.GRPCPort())
	if err != nil {
		logger.Warn("server: grpc disabled", "error", err)
	} else {
		defer grpcserver.Stop(grpcSrv)
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// RegisterSchedule declares the recurring tasks. The scheduler runs inside
// the server process; `printipid schedule:run` can host them standalone.
func RegisterSchedule() {
	// Daily sales summary to Slack just before closing.
	schedule.Cron("55 23 * * *").
		Name("daily-sales-summary").
		WithoutOverlapping().
		Run(func() {
			job := &jobs.DailySalesSummaryJob{Date: time.Now().Format("2006-01-02")}
			if err := queue.Dispatch(job); err != nil {
				logger.Error("schedule: dispatch daily summary", "error", err)
			}
		})

	// Surface jobs that exhausted their retries.
	schedule.Hourly().
		Name("failed-jobs-report").
		Run(func() {
			if failed := queue.FailedJobs(); len(failed) > 0 {
				logger.Warn("schedule: jobs in failed state", "count", len(failed))
			}
		})
}
