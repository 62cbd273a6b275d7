package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanshika/dronepath/internal/app"
	"github.com/vanshika/dronepath/internal/config"
	"github.com/vanshika/dronepath/internal/domain"
	"github.com/vanshika/dronepath/internal/logging"
	"github.com/vanshika/dronepath/internal/pathfind"
	"github.com/vanshika/dronepath/internal/repository"
	"github.com/vanshika/dronepath/internal/source"
)

type graphWriter interface {
	ReplaceGraph(ctx context.Context, g domain.Graph) error
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		graphPath  string
		target     string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:          "dronepath-ingest",
		Short:        "Load a waypoint map file into Neo4j or MongoDB",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if target == "" {
				target = cfg.Source.Kind
			}
			logger := logging.New(cfg.Logging).With("component", "ingest")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return ingest(ctx, logger, cfg, graphPath, target)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "optional config file")
	cmd.Flags().StringVarP(&graphPath, "graph", "g", "configs/graph.yaml", "graph file to ingest (json, yaml or toml)")
	cmd.Flags().StringVarP(&target, "target", "t", "", "destination store: neo4j or mongo (defaults to source.kind)")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall ingest timeout")
	return cmd
}

func ingest(ctx context.Context, logger *slog.Logger, cfg config.Config, graphPath, target string) error {
	g, err := source.LoadFile(ctx, graphPath)
	if err != nil {
		logger.Error("failed to read graph file", "error", err, "path", graphPath)
		return err
	}
	if _, _, err := pathfind.BuildMatrix(g); err != nil {
		logger.Error("graph file rejected", "error", err, "path", graphPath)
		return err
	}

	writer, closeWriter, err := buildWriter(ctx, cfg, target)
	if err != nil {
		logger.Error("failed to connect to store", "error", err, "target", target)
		return err
	}
	defer func() {
		if err := closeWriter(context.Background()); err != nil {
			logger.Warn("closing store failed", "error", err)
		}
	}()

	started := time.Now()
	if err := writer.ReplaceGraph(ctx, g); err != nil {
		logger.Error("ingest failed", "error", err, "target", target)
		return err
	}

	logger.Info("ingest completed",
		"target", target,
		"waypoints", len(g.Nodes),
		"routes", g.EdgeCount(),
		"duration", time.Since(started).String(),
	)
	return nil
}

func buildWriter(ctx context.Context, cfg config.Config, target string) (graphWriter, app.Closer, error) {
	switch target {
	case config.SourceNeo4j:
		client, err := app.BuildGraphClient(ctx, cfg.Graph)
		if err != nil {
			return nil, nil, err
		}
		return repository.New(client), client.Close, nil
	case config.SourceMongo:
		store, err := app.BuildMongoStore(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q cannot be ingested into", app.ErrUnknownSource, target)
	}
}
