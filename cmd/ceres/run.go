package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"sahayata-hq/ceres/pkg/audit"
	"sahayata-hq/ceres/pkg/dialogue/store"
	"sahayata-hq/ceres/pkg/registry"
	"sahayata-hq/ceres/pkg/scheme/compiler"
	"sahayata-hq/ceres/pkg/telemetry/metrics"
)

var runFlags struct {
	metricsAddr string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the engine with hot reload",
	Long: `Load the scheme registry, watch the definition directory for
changes, and keep the compiled programs current until interrupted.

While running, the process:
  - reloads and recompiles definitions on file changes (debounced)
  - keeps the previous version of a scheme whose new definition breaks
  - prunes old audit records on the configured cron schedule
  - serves Prometheus metrics on the metrics address

Example:
  ceres run --config config.yaml --metrics-addr :9090`,
	RunE: runEngine,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runFlags.metricsAddr, "metrics-addr", ":9090", "metrics listen address")
}

func runEngine(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}

	promRegistry := prometheus.NewRegistry()
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, promRegistry)

	comp := compiler.New(compiler.Options{
		DefaultThreshold: cfg.Schemes.DefaultThreshold,
		DefaultMinorAge:  cfg.Schemes.DefaultMinorAge,
	}, logger)
	loader := registry.NewLoader(comp, logger)
	reg := registry.NewSchemeRegistry()

	result, err := loader.ReloadInto(cfg.Schemes.Dir, reg)
	if err != nil {
		return fmt.Errorf("initial scheme load failed: %w", err)
	}
	for range result.Programs {
		collector.RecordCompilation("success")
	}
	for range result.Failures {
		collector.RecordCompilation("error")
	}
	collector.SetSchemesLoaded(reg.Count())
	logger.Info("engine started",
		"schemes", reg.Count(),
		"registry_version", reg.Version(),
		"watch", cfg.Schemes.Watch,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Schemes.Watch {
		watcherCfg := registry.DefaultWatcherConfig(cfg.Schemes.Dir)
		watcherCfg.DebounceInterval = cfg.Schemes.WatchDebounce
		watcher, err := registry.NewWatcher(watcherCfg, logger)
		if err != nil {
			return err
		}
		go func() {
			err := watcher.Watch(ctx, func() error {
				result, err := loader.ReloadInto(cfg.Schemes.Dir, reg)
				if err != nil {
					collector.RecordCompilation("error")
					return err
				}
				for range result.Programs {
					collector.RecordCompilation("success")
				}
				for range result.Failures {
					collector.RecordCompilation("error")
				}
				collector.SetSchemesLoaded(reg.Count())
				logger.Info("registry reloaded", "registry_version", reg.Version())
				return nil
			})
			if err != nil {
				logger.Error("scheme watcher exited", "error", err)
			}
		}()
	}

	if cfg.Audit.Enabled {
		auditStore, err := audit.NewStore(&audit.StoreConfig{Path: cfg.Audit.Path}, logger)
		if err != nil {
			return fmt.Errorf("failed to open audit store: %w", err)
		}
		defer auditStore.Close()

		pruner := audit.NewPruner(auditStore, audit.RetentionConfig{
			RetentionDays: cfg.Audit.RetentionDays,
			PruneSchedule: cfg.Audit.PruneSchedule,
		}, logger)
		scheduler := audit.NewScheduler(pruner)
		if err := scheduler.Start(ctx); err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	if cfg.Conversation.StorePath != "" && cfg.Conversation.RetentionDays > 0 {
		convStore, err := store.New(cfg.Conversation.StorePath)
		if err != nil {
			return fmt.Errorf("failed to open conversation store: %w", err)
		}
		defer convStore.Close()

		cutoff := time.Now().UTC().AddDate(0, 0, -cfg.Conversation.RetentionDays)
		if deleted, err := convStore.Cleanup(ctx, cutoff); err != nil {
			logger.Error("conversation cleanup failed", "error", err)
		} else if deleted > 0 {
			logger.Info("stale conversations removed", "deleted_count", deleted)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: runFlags.metricsAddr, Handler: mux}
	go func() {
		logger.Info("metrics endpoint listening", "addr", runFlags.metricsAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
