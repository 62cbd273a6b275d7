package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanshika/dronepath/internal/generator"
	"github.com/vanshika/dronepath/internal/source"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := generator.DefaultConfig()
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:          "dronepath-datagen",
		Short:        "Generate a random waypoint map",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.EdgeChance = clampProbability(cfg.EdgeChance)

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			g, err := generator.New(cfg).Generate(ctx)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			if output == "" || output == "-" {
				return generator.WriteGraphTo(cmd.OutOrStdout(), g, source.Format(format))
			}
			if err := generator.WriteGraph(g, output); err != nil {
				return fmt.Errorf("write graph: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Generated %d waypoints and %d routes into %s\n", len(g.Nodes), g.EdgeCount(), output)
			return nil
		},
	}

	cmd.Flags().IntVarP(&cfg.NumWaypoints, "waypoints", "n", cfg.NumWaypoints, "number of waypoints to generate")
	cmd.Flags().Float64Var(&cfg.EdgeChance, "edge-chance", cfg.EdgeChance, "probability of a route between any ordered pair")
	cmd.Flags().IntVar(&cfg.MinWeight, "min-distance", cfg.MinWeight, "minimum route distance")
	cmd.Flags().IntVar(&cfg.MaxWeight, "max-distance", cfg.MaxWeight, "maximum route distance")
	cmd.Flags().BoolVar(&cfg.Chain, "chain", cfg.Chain, "link each waypoint to the next so the first reaches all")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for deterministic generation")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file; format follows the extension (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", string(source.FormatYAML), "stdout format: json, yaml or toml")
	return cmd
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
