// ABOUTME: CLI command for copying data between storage backends.
// ABOUTME: Moves goals, metric samples and events from sqlite to charm or back.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/energy/internal/config"
	"github.com/harperreed/energy/internal/storage"
)

var (
	migrateFrom  string
	migrateTo    string
	migrateForce bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data between storage backends",
	Long: `Copy all goals, metric samples and events from one backend to another.

The destination must be empty unless --force is given. The source is left
untouched. Switch the active backend afterwards with 'energy config set backend'.

EXAMPLES:

  energy migrate --from sqlite --to charm
  energy migrate --from charm --to sqlite --force`,
	Annotations: map[string]string{noStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateFrom == migrateTo {
			return fmt.Errorf("source and destination are both %q", migrateFrom)
		}

		path := cfg.DBPath()
		if dbPath != "" {
			path = config.ExpandPath(dbPath)
		}

		src, err := config.OpenBackend(migrateFrom, path, log)
		if err != nil {
			return fmt.Errorf("open source %s: %w", migrateFrom, err)
		}
		defer src.Close()

		dst, err := config.OpenBackend(migrateTo, path, log)
		if err != nil {
			return fmt.Errorf("open destination %s: %w", migrateTo, err)
		}
		defer dst.Close()

		if !migrateForce {
			empty, err := isEmpty(dst)
			if err != nil {
				return err
			}
			if !empty {
				return fmt.Errorf("destination %s already has data, use --force to merge into it", migrateTo)
			}
		}

		summary, err := storage.MigrateData(src, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		log.Info("migration complete", "from", migrateFrom, "to", migrateTo,
			"goals", summary.Goals, "metrics", summary.Metrics, "events", summary.Events)
		color.Green("✓ Migrated %s → %s", migrateFrom, migrateTo)
		fmt.Printf("  Goals:   %d\n", summary.Goals)
		fmt.Printf("  Metrics: %d\n", summary.Metrics)
		fmt.Printf("  Events:  %d\n", summary.Events)
		return nil
	},
}

func isEmpty(r storage.Repository) (bool, error) {
	goals, err := r.ListGoals(true)
	if err != nil {
		return false, err
	}
	metrics, err := r.ListMetrics(storage.MetricFilter{Limit: 1})
	if err != nil {
		return false, err
	}
	events, err := r.ListEvents(storage.EventFilter{Limit: 1})
	if err != nil {
		return false, err
	}
	return len(goals)+len(metrics)+len(events) == 0, nil
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", config.BackendSQLite, "source backend (sqlite or charm)")
	migrateCmd.Flags().StringVar(&migrateTo, "to", config.BackendCharm, "destination backend (sqlite or charm)")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "copy even when the destination has data")
	rootCmd.AddCommand(migrateCmd)
}
