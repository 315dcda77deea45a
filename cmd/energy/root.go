// ABOUTME: Root Cobra command for the energy CLI.
// ABOUTME: Loads config, builds the logger and opens storage via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harperreed/energy/internal/config"
	"github.com/harperreed/energy/internal/logger"
	"github.com/harperreed/energy/internal/storage"
)

// noStorage marks commands that must not open the configured backend.
const noStorage = "no-storage"

var (
	cfg  *config.Config
	repo storage.Repository
	log  *logger.Logger

	dbPath  string
	verbose bool

	// now is swapped in tests.
	now = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "energy",
	Short: "Energy readiness and daily planning from your health data",
	Long: `Energy turns sleep, heart rate, stress and training data into a daily
energy budget, and spends that budget on your goals.

HOW IT WORKS:

  1. Import or add metrics (sleep, resting heart rate, stress, training load)
  2. Energy assesses readiness: Ready, Fatigued, Stressed or No Data
  3. The assessment becomes a budget (base 50, never below 5)
  4. Goals are scheduled greedily: restoring goals first, then the
     most expensive high-priority goals that still fit

QUICK START:

  $ energy goal add "Ship release" --priority 1 --cost -30
  $ energy goal add "Walk" --cost 10
  $ energy import hlth_center_aggregated_fitness_data.csv
  $ energy plan                     # Plan today from yesterday's data
  $ energy log "Deep work" -m 90 -s consumption --physical 5 --mental 4 --emotional 6

REPORTS:

  $ energy status                   # Today's readiness with metric bars
  $ energy report                   # Weekly report
  $ energy journal --days 3         # Day-by-day journal
  $ energy trend --days 14          # Physiology next to key-state hours

INTEGRATIONS:

  energy mcp      Model Context Protocol server over stdio
  energy serve    JSON HTTP API

DATA STORAGE:

  SQLite at ~/.local/share/energy/energy.db by default. Set the backend to
  charm with 'energy config set backend charm' to sync through Charm Cloud.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		level := cfg.GetLogLevel()
		if verbose {
			level = "debug"
		}
		log, err = logger.New(cfg.GetLogMode(), level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if skipsStorage(cmd) {
			return nil
		}
		return openRepo()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if log != nil {
			log.Sync()
		}
		return closeRepo()
	},
}

func skipsStorage(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[noStorage] == "true" || c.Name() == "help" {
			return true
		}
	}
	return false
}

func openRepo() error {
	var err error
	if dbPath != "" {
		repo, err = storage.Open(config.ExpandPath(dbPath), log)
	} else {
		repo, err = cfg.OpenStorage(log)
	}
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	log.Debug("storage opened", "backend", cfg.GetBackend())
	return nil
}

func closeRepo() error {
	if repo == nil {
		return nil
	}
	err := repo.Close()
	repo = nil
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides the configured backend)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
