// Command planner-server hosts the real-time canvas collaboration
// server described by the protocol in internal/commands and internal/join.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"planner-server/internal/app"
	"planner-server/internal/archive"
	"planner-server/internal/config"
	"planner-server/internal/logging"
	"planner-server/internal/metrics"
	"planner-server/internal/transport"
)

// verbosity implements flag.Value as a boolean-style flag that counts how
// many times -v was repeated, capped at 3 per spec.md §6.
type verbosity int

func (v *verbosity) String() string { return fmt.Sprintf("%d", int(*v)) }

func (v *verbosity) Set(string) error {
	if *v < 3 {
		*v++
	}
	return nil
}

func (v *verbosity) IsBoolFlag() bool { return true }

func main() {
	cfg := config.Load()

	var verbose verbosity
	flag.Var(&verbose, "v", "raise log level; may be repeated up to three times")
	flag.Parse()

	addr := cfg.ServerAddr
	if flag.NArg() > 0 {
		addr = flag.Arg(0)
	}

	level := logging.LevelFromVerbosity(int(verbose))
	logger, err := logging.New(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// The default registerer is what promhttp.Handler() serves on /metrics.
	recorder := metrics.New(prometheus.DefaultRegisterer)

	var archiver archive.Archiver = archive.Noop{}
	if cfg.DatabaseURL != "" {
		pg, err := archive.NewPostgresArchiver(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to connect archive database", zap.Error(err))
		}
		defer pg.Close()
		archiver = pg
	}

	a := app.New(archiver, recorder)

	server := transport.NewServer(a, logger, recorder, cfg.MaxOutboundQueue)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go transport.RunHeartbeat(ctx, a, cfg.HeartbeatInterval)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}

	go func() {
		logger.Info("hosting server", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server exited unexpectedly", zap.Error(err))
		}
	}()

	// MetricsAddr, when set, additionally exposes /metrics on its own
	// listener; the WebSocket front door serves /metrics as well.
	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{Addr: cfg.MetricsAddr, Handler: promhttp.Handler()}
		go func() {
			logger.Info("hosting metrics", zap.String("addr", cfg.MetricsAddr))
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("metrics server exited unexpectedly", zap.Error(err))
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
	if metricsServer != nil {
		_ = metricsServer.Shutdown(shutdownCtx)
	}
}
