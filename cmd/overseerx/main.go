// cmd/overseerx/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"overseerx/internal/adapters/output"
	"overseerx/internal/core/domain"
	"overseerx/internal/core/ports"
	"overseerx/internal/core/usecases"
	"overseerx/internal/geo"
	"overseerx/internal/platform/config"
	"overseerx/internal/platform/logx"
	"overseerx/internal/platform/registry"
	"overseerx/internal/platform/ui"
	"overseerx/internal/resolver"
	"overseerx/internal/threat"

	// Import sources for auto-registration via init()
	_ "overseerx/internal/sources/certspotter"
	_ "overseerx/internal/sources/crtsh"
	_ "overseerx/internal/sources/hackertarget"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// 1. Load centralized config (defaults -> YAML -> ENV -> flags)
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuration load failed: %v\n", err)
		os.Exit(2)
	}

	if cfg.PrintVersion {
		config.PrintVersion(version, commit, date)
		os.Exit(0)
	}

	if cfg.Target == "" {
		fmt.Fprintln(os.Stderr, "Error: target domain is required")
		fmt.Fprintln(os.Stderr, "Usage: overseerx -t <domain>")
		fmt.Fprintln(os.Stderr, "Try: overseerx -h for help")
		os.Exit(2)
	}

	// 2. Shared logger
	logger := logx.New()

	logger.Info("OverseerX starting",
		"version", version,
		"commit", commit,
		"target", cfg.Target,
		"workers", cfg.Resolver.Workers,
	)

	// 3. Context and signals for clean shutdown
	ctx, cancel := rootContextWithSignals(logger)
	defer cancel()

	// 4. Build target with scope rules
	target := domain.NewTarget(cfg.Target)
	for _, alias := range cfg.Aliases {
		target.AddAlias(alias)
	}
	for _, excluded := range cfg.Exclude {
		target.AddExclusion(excluded)
	}

	if err := target.Validate(); err != nil {
		logger.Err(err, "phase", "validation")
		os.Exit(2)
	}

	// 5. Presenter: interactive unless quiet
	var presenter ui.Presenter = ui.NewNoopPresenter()
	if !cfg.Quiet {
		presenter = ui.NewPTermPresenter()
	}
	defer presenter.Close()

	// 6. Build CT sources from registry
	sources, err := registry.Global().Build(cfg.Sources, logger)
	if err != nil {
		logger.Err(err, "phase", "source-build")
		os.Exit(2)
	}
	defer func() {
		for _, src := range sources {
			if err := src.Close(); err != nil {
				logger.Warn("failed to close source",
					"source", src.Name(),
					"error", err.Error(),
				)
			}
		}
	}()

	sourceNames := make([]string, 0, len(sources))
	for _, src := range sources {
		sourceNames = append(sourceNames, src.Name())
	}

	presenter.Start(ui.RunInfo{
		Target:  target.Root,
		Sources: sourceNames,
		Workers: cfg.Resolver.Workers,
		Version: version,
	})

	// 7. Assemble pipeline collaborators
	classifier, err := threat.New(threat.Config{
		ExtraRangesFile: cfg.Threat.ExtraRangesFile,
	})
	if err != nil {
		logger.Err(err, "phase", "classifier-build")
		os.Exit(2)
	}

	dnsResolver := resolver.New(resolver.Config{
		Concurrency: cfg.Resolver.Workers,
		Timeout:     cfg.DNSTimeout(),
		OnProgress:  presenter.ResolveProgress,
		Logger:      logger,
	})

	var geoLookup ports.GeoLookup
	if cfg.Geo.Enabled {
		geoLookup = geo.New(geo.Config{
			Timeout: cfg.GeoTimeout(),
			Logger:  logger,
		})
	}

	sourceRetries := make(map[string]int, len(cfg.Sources))
	for name, sourceCfg := range cfg.Sources {
		sourceRetries[name] = sourceCfg.Retries
	}

	aggregator := usecases.NewAggregator(usecases.AggregatorOptions{
		Sources:               sources,
		Logger:                logger,
		MaxRetries:            cfg.Resilience.MaxRetries,
		SourceRetries:         sourceRetries,
		BackoffBase:           cfg.Resilience.BackoffBase,
		BackoffMultiplier:     cfg.Resilience.BackoffMultiplier,
		CircuitBreakerEnabled: cfg.Resilience.CircuitBreakerEnabled,
	})

	pipeline := usecases.NewPipeline(usecases.PipelineOptions{
		Aggregator: aggregator,
		Resolver:   dnsResolver,
		Classifier: classifier,
		Geo:        geoLookup,
		Logger:     logger,
		Version:    version,
		OnStage:    stageNotifier(presenter),
	})

	// 8. Run
	start := time.Now()
	result, runErr := pipeline.Run(ctx, target)
	elapsed := time.Since(start)

	if runErr != nil {
		presenter.Error(fmt.Sprintf("recon aborted: %v", runErr))
		logger.Err(runErr, "phase", "run", "elapsed_ms", elapsed.Milliseconds())
		os.Exit(1)
	}

	// 9. Write outputs
	if err := writeOutputs(cfg, result, presenter); err != nil {
		logger.Err(err, "phase", "output")
		os.Exit(1)
	}

	// 10. Summary
	presenter.Finish(runStats(result))
	logger.Info("OverseerX finished",
		"elapsed_ms", elapsed.Milliseconds(),
		"found", result.Stats.Found,
		"alive", result.Stats.Alive,
		"warnings", len(result.Warnings),
		"errors", len(result.Errors),
	)
}

// stageNotifier adapta los hooks de etapa del pipeline al presenter.
func stageNotifier(presenter ui.Presenter) usecases.StageFunc {
	descriptions := map[usecases.Stage]string{
		usecases.StageAggregate: "querying certificate transparency sources",
		usecases.StageResolve:   "resolving subdomains",
		usecases.StageGeo:       "geolocating alive addresses",
		usecases.StageClassify:  "classifying infrastructure",
	}

	var last usecases.Stage
	return func(stage usecases.Stage) {
		if last != "" {
			presenter.StageFinished(string(last), "done")
		}
		last = stage
		presenter.StageStarted(string(stage), descriptions[stage])
	}
}

// runStats reduce el ReconResult a las estadísticas del presenter.
func runStats(result *domain.ReconResult) ui.RunStats {
	tierCounts := make(map[string]int)
	for tier, count := range result.TiersByCount() {
		tierCounts[tier.String()] = count
	}

	return ui.RunStats{
		Found:      result.Stats.Found,
		Alive:      result.Stats.Alive,
		Dead:       result.Stats.Dead,
		UniqueIPs:  result.Stats.UniqueIPs,
		Countries:  result.Stats.Countries,
		Duration:   result.Metadata.Duration,
		TierCounts: tierCounts,
		Warnings:   len(result.Warnings),
		Errors:     len(result.Errors),
	}
}

// writeOutputs decide y ejecuta las salidas según la configuración.
// Aislado de main para facilitar añadir formatos nuevos.
func writeOutputs(cfg config.Config, result *domain.ReconResult, presenter ui.Presenter) error {
	// El JSON consolidado se genera SIEMPRE
	jsonPath, err := output.WriteJSON(cfg.OutputDir, result)
	if err != nil {
		return fmt.Errorf("json output: %w", err)
	}
	presenter.Info("JSON written to " + jsonPath)

	if cfg.Outputs.CSVEnabled {
		csvPath, err := output.WriteCSV(cfg.OutputDir, result)
		if err != nil {
			return fmt.Errorf("csv output: %w", err)
		}
		presenter.Info("CSV written to " + csvPath)
	}

	if cfg.Outputs.MapEnabled {
		mapPath, err := output.WriteHTMLMap(cfg.OutputDir, result, cfg.Outputs.MapTheme)
		if err != nil {
			return fmt.Errorf("map output: %w", err)
		}
		if mapPath != "" {
			presenter.Info("Attack surface map written to " + mapPath)
		} else {
			presenter.Warning("no mappable hosts, skipping HTML map")
		}
	}

	if !cfg.Outputs.TableDisabled && !cfg.Quiet {
		if err := output.OutputTable(result); err != nil {
			return fmt.Errorf("table output: %w", err)
		}
	}

	return nil
}

// rootContextWithSignals crea el contexto raíz cancelable por SIGINT/SIGTERM.
func rootContextWithSignals(logger logx.Logger) (context.Context, context.CancelFunc) {
	base, baseCancel := context.WithCancel(context.Background())

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-ch:
			logger.Warn("signal received, shutting down", "signal", sig.String())
			baseCancel()
		case <-base.Done():
		}
	}()

	return base, func() {
		signal.Stop(ch)
		baseCancel()
	}
}
