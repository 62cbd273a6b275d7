package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vanshika/dronepath/internal/app"
	"github.com/vanshika/dronepath/internal/domain"
	"github.com/vanshika/dronepath/internal/pathfind"
	"github.com/vanshika/dronepath/internal/source"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		graphPath string
		strategy  string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:          "dronepath-route START END",
		Short:        "Compute a route offline against a graph file",
		Example:      "  dronepath-route A F --graph configs/graph.yaml --strategy weighted",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := pathfind.ParseStrategy(strategy)
			if err != nil {
				return err
			}

			g, err := loadGraph(cmd.Context(), graphPath)
			if err != nil {
				return err
			}

			route, err := pathfind.FindShortestPath(g, args[0], args[1], pathfind.WithStrategy(s))
			if err != nil {
				return err
			}
			return printRoute(cmd, route, asJSON)
		},
	}

	cmd.Flags().StringVarP(&graphPath, "graph", "g", "", "graph file (json, yaml or toml); defaults to the built-in map")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "bfs", "traversal strategy: bfs or weighted")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the route as JSON")
	return cmd
}

func loadGraph(ctx context.Context, path string) (domain.Graph, error) {
	if path == "" {
		return app.DefaultGraph()
	}
	return source.LoadFile(ctx, path)
}

func printRoute(cmd *cobra.Command, route domain.Route, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(route); err != nil {
			return err
		}
	} else if route.Reachable() {
		fmt.Fprintf(out, "%s (distance %d)\n", route.Path, route.Distance)
	} else {
		fmt.Fprintln(out, "unreachable")
	}

	if !route.Reachable() {
		return fmt.Errorf("no route from %s", cmd.Flags().Arg(0))
	}
	return nil
}
