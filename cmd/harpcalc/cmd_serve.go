package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/HerbHall/harpcalc/internal/catalog"
	"github.com/HerbHall/harpcalc/internal/metrics"
	"github.com/HerbHall/harpcalc/internal/pricing"
	"github.com/HerbHall/harpcalc/internal/server"
	"github.com/HerbHall/harpcalc/internal/version"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP API",
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	logger := e.logger
	defer func() { _ = logger.Sync() }()

	logger.Info("HARP calculator starting", zap.String("version", version.Short()))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	engine := catalog.NewEngine(e.catalog)
	quoter := newQuoter(e.settings.Pricing)

	ss := e.settings.Server
	srv := server.New(ss.Addr(), logger, server.Options{
		ReadTimeout:  ss.ReadTimeout,
		WriteTimeout: ss.WriteTimeout,
		RateLimit:    ss.RateLimit.RPS,
		Burst:        ss.RateLimit.Burst,
		Gatherer:     reg,
	},
		catalog.NewHandler(engine, m, logger),
		pricing.NewHandler(quoter, e.catalog, m, logger),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logger.Info("HARP calculator ready", zap.String("addr", ss.Addr()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case <-c.Context.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	logger.Info("HARP calculator stopped")
	return nil
}
