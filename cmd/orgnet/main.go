package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dd0wney/cluso-orgnet/pkg/config"
	"github.com/dd0wney/cluso-orgnet/pkg/export"
	"github.com/dd0wney/cluso-orgnet/pkg/interaction"
	"github.com/dd0wney/cluso-orgnet/pkg/logging"
	"github.com/dd0wney/cluso-orgnet/pkg/pipeline"
	"github.com/dd0wney/cluso-orgnet/pkg/report"
	"github.com/dd0wney/cluso-orgnet/pkg/store"
	"github.com/dd0wney/cluso-orgnet/pkg/telemetry"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file (defaults apply when empty)")
		inputPath  = flag.String("input", "", "Cleaned interaction table (CSV); overrides the config file")
		topN       = flag.Int("top", 0, "Rows in the macro report table; overrides the config file")
	)
	flag.Parse()

	logger := logging.NewDefaultLogger()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("configuration rejected", logging.Error(err))
		os.Exit(1)
	}
	if *inputPath != "" {
		cfg.Input.Path = *inputPath
	}
	if *topN > 0 {
		cfg.Report.TopN = *topN
	}
	if cfg.Input.Path == "" {
		logger.Error("no interaction table given; use -input or set input.path")
		os.Exit(1)
	}

	tel := telemetry.NewRegistry()

	p, err := pipeline.New(cfg, logger, tel)
	if err != nil {
		logger.Error("configuration rejected", logging.Error(err))
		os.Exit(1)
	}

	records, err := interaction.LoadCSV(cfg.Input.Path)
	if err != nil {
		logger.Error("failed to load interaction table", logging.Error(err), logging.Path(cfg.Input.Path))
		os.Exit(1)
	}

	outcome, err := p.Run(records)
	if err != nil {
		logger.Error("pipeline run failed", logging.Error(err))
		os.Exit(1)
	}

	fmt.Println(report.RenderSummary(
		outcome.Graph.NodeCount(),
		outcome.Graph.EdgeCount(),
		len(outcome.Detection.Communities),
		outcome.Detection.Modularity,
	))
	fmt.Println(report.RenderMacroTable(outcome.Units, cfg.Report.TopN))
	fmt.Println(report.RenderSimulations(outcome.Simulations))

	ctx := context.Background()

	if cfg.Store.Enabled {
		if err := persist(ctx, cfg, outcome); err != nil {
			logger.Error("failed to persist results", logging.Error(err))
			os.Exit(1)
		}
		logger.Info("results persisted", logging.RunID(outcome.RunID))
	}

	if cfg.Export.Enabled {
		if err := exportSnapshot(ctx, cfg, outcome, logger); err != nil {
			logger.Error("failed to export snapshot", logging.Error(err))
			os.Exit(1)
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func persist(ctx context.Context, cfg *config.Config, outcome *pipeline.Outcome) error {
	pg, err := store.NewPGStore(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := pg.SaveUnitMetrics(ctx, outcome.RunID, outcome.Units); err != nil {
		return err
	}
	return pg.SaveSimulationResults(ctx, outcome.RunID, outcome.Simulations)
}

func exportSnapshot(ctx context.Context, cfg *config.Config, outcome *pipeline.Outcome, logger logging.Logger) error {
	snap := &export.Snapshot{
		RunID:       outcome.RunID,
		GeneratedAt: time.Now().UTC(),
		Modularity:  outcome.Detection.Modularity,
		Units:       outcome.Units,
		Individuals: outcome.Individuals,
		Simulations: outcome.Simulations,
	}

	path, err := export.WriteFile(cfg.Export.Dir, snap)
	if err != nil {
		return err
	}
	logger.Info("snapshot written", logging.Path(path))

	if cfg.Export.S3.Enabled {
		uploader, err := export.NewS3Uploader(ctx, cfg.Export.S3)
		if err != nil {
			return err
		}
		key, err := uploader.Upload(ctx, snap)
		if err != nil {
			return err
		}
		logger.Info("snapshot uploaded", logging.String("bucket", cfg.Export.S3.Bucket), logging.String("key", key))
	}

	return nil
}
