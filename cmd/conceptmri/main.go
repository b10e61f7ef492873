// Package main implements the entry point for the ConceptMRI analysis
// server. ConceptMRI inspects mixture-of-experts routing captures: it
// serves route graphs, expert drill-downs, and categorical statistics
// over HTTP, with an optional NATS request surface.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/config"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/gateway"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/health"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/metric"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/natsclient"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/palette"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/service"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/store"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "conceptmri"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil
	}

	cfg, err := loadConfig(cliCfg)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cliCfg.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	logger := setupLogger(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	slog.Info("Starting ConceptMRI (expert route analytics)",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath,
		"data_lake", cfg.DataLake.Path)

	signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	return runServer(signalCtx, cfg, logger)
}

// runServer wires the session lake, analyzer, gateway, and the optional
// NATS and metrics surfaces, then blocks until shutdown.
func runServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	registry := metric.NewMetricsRegistry()
	metrics := registry.CoreMetrics()
	monitor := health.NewMonitor()

	if err := os.MkdirAll(cfg.DataLake.Path, 0o755); err != nil {
		return fmt.Errorf("create session lake directory: %w", err)
	}
	lake, err := store.NewStore(cfg.DataLake.Path, store.WithSessionCache(cfg.DataLake.CacheSize))
	if err != nil {
		return fmt.Errorf("open session lake: %w", err)
	}
	monitor.UpdateHealthy("store", "lake open at "+cfg.DataLake.Path)

	composer := palette.NewComposer().WithWeights(cfg.Palette.PrimaryWeight, cfg.Palette.SecondaryWeight)
	analyzer, err := service.NewAnalyzer(lake,
		service.WithComposer(composer),
		service.WithLogger(logger),
		service.WithMetrics(metrics),
	)
	if err != nil {
		return fmt.Errorf("create analyzer: %w", err)
	}

	gw, err := gateway.NewGateway(gateway.Config{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		WindowWorkers:   cfg.Analysis.Workers,
	}, analyzer,
		gateway.WithLogger(logger),
		gateway.WithMetrics(metrics),
		gateway.WithMonitor(monitor),
		gateway.WithComposer(composer),
	)
	if err != nil {
		return fmt.Errorf("create gateway: %w", err)
	}

	if cfg.NATS.Enabled {
		if err := startNATS(ctx, cfg, logger, metrics, analyzer); err != nil {
			return err
		}
		monitor.UpdateHealthy("nats", "connected to "+cfg.NATS.URL)
	}

	if cfg.Metrics.Enabled {
		metricsServer := metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, registry)
		go func() {
			if err := metricsServer.Start(); err != nil {
				slog.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			if err := metricsServer.Stop(); err != nil {
				slog.Warn("stop metrics server", "error", err)
			}
		}()
		slog.Info("Metrics exposition started", "address", metricsServer.Address())
	}

	slog.Info("ConceptMRI started", "addr", cfg.Server.Addr)
	if err := gw.Start(ctx); err != nil {
		return fmt.Errorf("gateway: %w", err)
	}

	slog.Info("ConceptMRI shutdown complete")
	return nil
}

// startNATS connects the client and binds the analyzer's request and
// event subjects. The connection is closed when the context ends.
func startNATS(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	metrics *metric.Metrics,
	analyzer *service.Analyzer,
) error {
	client, err := natsclient.NewClient(cfg.NATS.URL,
		natsclient.WithClientName(appName),
		natsclient.WithMaxReconnects(cfg.NATS.MaxReconnects),
		natsclient.WithReconnectWait(cfg.NATS.ReconnectWait),
		natsclient.WithLogger(logger),
		natsclient.WithMetrics(metrics),
	)
	if err != nil {
		return fmt.Errorf("create NATS client: %w", err)
	}

	slog.Info("Connecting to NATS", "url", cfg.NATS.URL)
	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}

	if err := analyzer.BindNATS(ctx, client); err != nil {
		_ = client.Close(ctx)
		return fmt.Errorf("bind NATS subjects: %w", err)
	}

	go func() {
		<-ctx.Done()
		if err := client.Close(context.Background()); err != nil {
			slog.Warn("close NATS client", "error", err)
		}
	}()
	return nil
}

// loadConfig layers the config file (when given) over the defaults.
func loadConfig(cliCfg *CLIConfig) (*config.Config, error) {
	loader := config.NewLoader()
	if cliCfg.ConfigPath != "" {
		return loader.LoadFile(cliCfg.ConfigPath)
	}
	return loader.Load()
}
