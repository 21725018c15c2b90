// Command chronograph is the CLI front end over the facade package:
// one subcommand group per entity kind (node, edge, component), plus a
// graph group for read-only traversal queries. Grounded on the
// teacher's cmd/bd/main.go root command and persistent-flag plumbing.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chronograph-db/chronograph/internal/config"
	"github.com/chronograph-db/chronograph/internal/facade"
	"github.com/chronograph-db/chronograph/internal/obslog"
	"github.com/chronograph-db/chronograph/internal/storage/factory"
	"github.com/chronograph-db/chronograph/internal/watch"
)

var (
	cfgPath    string
	jsonOutput bool

	cfg       config.Config
	app       *facade.Facade
	obslogOff obslog.Shutdown
	rootCtx   context.Context
)

var rootCmd = &cobra.Command{
	Use:   "chronograph",
	Short: "chronograph - a bitemporal, versioned property graph",
	Long:  `chronograph tracks nodes, edges, and components as append-only version chains with cascading referential integrity.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		rootCtx, _ = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

		loaded := config.Default()
		if cfgPath != "" {
			c, err := config.LoadTOML(cfgPath)
			if err != nil {
				return err
			}
			loaded = c
		}
		cfg = loaded

		shutdown, err := obslog.Init(rootCtx, obslog.Config{
			Exporter:          obslog.Exporter(cfg.Telemetry.Exporter),
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
		})
		if err != nil {
			return fmt.Errorf("telemetry init: %w", err)
		}
		obslogOff = shutdown

		// A test harness driving multiple Execute calls against one
		// process pre-seeds app itself, to keep state across
		// invocations within a single script; a real process only
		// calls Execute once, so this guard never triggers in
		// production use.
		if app == nil {
			factoryImpl, err := factory.New(rootCtx, cfg.Backend.Name, cfg.Backend.Settings)
			if err != nil {
				return err
			}
			app = facade.New(factoryImpl, nil)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if obslogOff != nil {
			return obslogOff(context.Background())
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to chronograph.toml (defaults to built-in settings)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit machine-readable JSON instead of formatted text")

	rootCmd.AddCommand(newNodeCmd())
	rootCmd.AddCommand(newEdgeCmd())
	rootCmd.AddCommand(newComponentCmd())
	rootCmd.AddCommand(newGraphCmd())
	rootCmd.AddCommand(newWatchCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newWatchCmd exposes internal/watch as a standalone long-running
// subcommand: `chronograph watch-config` prints every reload it picks
// up, useful for confirming a deployment's config hot-reload is wired
// correctly before trusting it in the running daemon.
func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch-config",
		Short: "watch the config file and print every reload",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgPath == "" {
				return fmt.Errorf("watch-config requires --config")
			}
			w, err := watch.Start(cfgPath, func(c config.Config) {
				fmt.Printf("reloaded: backend=%s max_depth=%d telemetry=%s\n",
					c.Backend.Name, c.Graph.DefaultMaxDepth, c.Telemetry.Exporter)
			})
			if err != nil {
				return err
			}
			defer func() { _ = w.Close() }()
			<-rootCtx.Done()
			return nil
		},
	}
}
