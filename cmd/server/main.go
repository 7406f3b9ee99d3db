package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/ems-grpc-clean-arch/internal/adapters/grpc/handler"
	"github.com/ogurasousui/ems-grpc-clean-arch/internal/core/employee"
	"github.com/ogurasousui/ems-grpc-clean-arch/internal/platform/config"
	"github.com/ogurasousui/ems-grpc-clean-arch/internal/platform/logging"
	"github.com/ogurasousui/ems-grpc-clean-arch/internal/platform/metrics"
	"github.com/ogurasousui/ems-grpc-clean-arch/internal/platform/ratelimiter"
	"github.com/ogurasousui/ems-grpc-clean-arch/internal/platform/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		return err
	}

	store, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.close()

	svc := employee.NewService(store.employees, store.ids, nil, store.tx, employee.WithLogger(logger))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	grpcServer := server.New(cfg.Server.ListenAddr, handler.NewEmployeeGrpcHandler(svc), server.Options{
		Logger:  logger,
		Metrics: metrics.New(reg),
		Limiter: ratelimiter.New(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst, 0),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return grpcServer.Run(gctx)
	})

	if cfg.Server.OpsAddr != "" {
		ops := server.NewOpsServer(cfg.Server.OpsAddr, server.NewOpsHandler(reg, store.ready))
		g.Go(func() error {
			logger.Info("ops http listening", "addr", cfg.Server.OpsAddr)
			return server.RunOps(gctx, ops)
		})
	}

	logger.Info("ems server started", "storage", cfg.Storage.Driver)
	return g.Wait()
}
