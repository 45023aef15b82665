package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/vanshika/lottrace/internal/config"
	"github.com/vanshika/lottrace/internal/generator"
	"github.com/vanshika/lottrace/internal/graph"
	"github.com/vanshika/lottrace/internal/logging"
	"github.com/vanshika/lottrace/internal/repository"
	"github.com/vanshika/lottrace/internal/service"
)

var (
	errMissingDataset = errors.New("dataset not found")
)

type datasetFiles struct {
	nodes     string
	lots      string
	movements string
}

func main() {
	var (
		datasetDir    = flag.String("dataset-dir", "./seed-data", "Directory containing nodes.json, lots.json and movements.json")
		nodesPath     = flag.String("nodes", "", "Path to nodes.json (overrides dataset-dir)")
		lotsPath      = flag.String("lots", "", "Path to lots.json (overrides dataset-dir)")
		movementsPath = flag.String("movements", "", "Path to movements.json (overrides dataset-dir)")
		workers       = flag.Int("workers", 4, "Number of concurrent workers for ingestion")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "ingest")

	files, err := resolveDatasetPaths(*datasetDir, datasetFiles{
		nodes:     *nodesPath,
		lots:      *lotsPath,
		movements: *movementsPath,
	})
	if err != nil {
		logger.Error("dataset resolution failed", "error", err)
		os.Exit(1)
	}

	var (
		nodes     []service.NodeInput
		lots      []service.LotInput
		movements []service.MovementInput
	)
	if err := loadJSON(files.nodes, &nodes); err != nil {
		logger.Error("failed to load nodes", "error", err, "path", files.nodes)
		os.Exit(1)
	}
	if err := loadJSON(files.lots, &lots); err != nil {
		logger.Error("failed to load lots", "error", err, "path", files.lots)
		os.Exit(1)
	}
	if len(lots) == 0 {
		logger.Error("lots dataset empty", "path", files.lots)
		os.Exit(1)
	}
	if err := loadJSON(files.movements, &movements); err != nil {
		logger.Error("failed to load movements", "error", err, "path", files.movements)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	graphClient, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	repo := repository.New(graphClient)
	svc := service.NewTraceService(repo, service.Options{Logger: logger})
	ingestor := service.NewBulkIngestor(svc, *workers)

	start := time.Now()
	logger.Info("ingesting nodes", "count", len(nodes), "workers", *workers)
	if err := ingestor.IngestNodes(ctx, nodes); err != nil {
		logger.Error("node ingestion failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingesting lots", "count", len(lots))
	if err := ingestor.IngestLots(ctx, lots); err != nil {
		logger.Error("lot ingestion failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingesting movements", "count", len(movements))
	if err := ingestor.IngestMovements(ctx, movements); err != nil {
		logger.Error("movement ingestion failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestion complete",
		"duration", time.Since(start).String(),
		"nodes", len(nodes),
		"lots", len(lots),
		"movements", len(movements),
	)
}

func resolveDatasetPaths(baseDir string, explicit datasetFiles) (datasetFiles, error) {
	resolve := func(explicitPath, fallbackFile string) (string, error) {
		if explicitPath != "" {
			if _, err := os.Stat(explicitPath); err != nil {
				return "", fmt.Errorf("stat %s: %w", explicitPath, err)
			}
			return explicitPath, nil
		}
		path := filepath.Join(baseDir, fallbackFile)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %s", errMissingDataset, path)
		}
		return path, nil
	}

	var (
		files datasetFiles
		err   error
	)
	if files.nodes, err = resolve(explicit.nodes, generator.NodesFile); err != nil {
		return datasetFiles{}, err
	}
	if files.lots, err = resolve(explicit.lots, generator.LotsFile); err != nil {
		return datasetFiles{}, err
	}
	if files.movements, err = resolve(explicit.movements, generator.MovementsFile); err != nil {
		return datasetFiles{}, err
	}
	return files, nil
}

func loadJSON(path string, target any) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, fmt.Errorf("GRAPH_URI is required for ingestion")
	}
	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	client, err := graph.NewNeo4jClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.VerifyConnectivity(ctx); err != nil {
		_ = client.Close(ctx)
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}
