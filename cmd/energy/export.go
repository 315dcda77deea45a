// ABOUTME: CLI commands for backing up and restoring energy data.
// ABOUTME: Exports JSON or YAML and restores from a JSON backup.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/energy/internal/storage"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export energy data",
	Long: `Export goals, metric samples and events.

FORMATS:

  json   Full JSON export (suitable for backup/restore)
  yaml   YAML export (human-readable)

EXAMPLES:

  energy export json                  # Print JSON to stdout
  energy export json -o backup.json   # Save to file
  energy export yaml`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		switch args[0] {
		case "json":
			data, err = storage.ExportJSON(repo)
		case "yaml":
			data, err = storage.ExportYAML(repo)
		default:
			return fmt.Errorf("unknown format: %s (use json or yaml)", args[0])
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput == "" {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(exportOutput, data, 0600); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		color.Green("✓ Exported to %s", exportOutput)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Restore energy data from a JSON backup",
	Long: `Restore goals, metric samples and events from a file written by
'energy export json'.

Goals whose name is already taken and metric samples that collide with a
stored sample of the same kind and time are skipped and counted. Restore into
an empty store; records with an existing ID fail the restore.

EXAMPLE:

  energy restore backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		summary, err := storage.ImportJSON(repo, data)
		if err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}

		color.Green("✓ Restored from %s", args[0])
		fmt.Printf("  Goals:   %d (%d skipped)\n", summary.Goals, summary.SkippedGoals)
		fmt.Printf("  Metrics: %d (%d skipped)\n", summary.Metrics, summary.SkippedMetrics)
		fmt.Printf("  Events:  %d\n", summary.Events)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(restoreCmd)
}
