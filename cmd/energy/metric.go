// ABOUTME: CLI commands for metric samples and tracker imports.
// ABOUTME: Supports add, list and delete by ID prefix, plus CSV import.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/energy/internal/importer"
	"github.com/harperreed/energy/internal/models"
	"github.com/harperreed/energy/internal/storage"
)

var (
	metricAt    string
	metricKind  string
	metricLimit int
)

func validKinds() string {
	kinds := make([]string, len(models.AllMetricKinds))
	for i, k := range models.AllMetricKinds {
		kinds[i] = string(k)
	}
	return strings.Join(kinds, ", ")
}

var metricCmd = &cobra.Command{
	Use:     "metric",
	Aliases: []string{"metrics", "m"},
	Short:   "Manage metric samples",
	Long: `Add, list and delete physiological metric samples.

Samples feed the readiness assessment. Values of 0 are stored but ignored
by every calculation.

EXAMPLES:

  energy metric add sleep_total_min 450 --at "2025-03-10 07:00"
  energy metric add rhr_avg 58
  energy metric list --kind rhr_avg -n 10
  energy metric delete 3f2a1b4c`,
}

var metricAddCmd = &cobra.Command{
	Use:     "add <kind> <value>",
	Aliases: []string{"a"},
	Short:   "Add a metric sample",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := models.ParseMetricKind(args[0])
		if err != nil {
			return fmt.Errorf("%w\nValid kinds: %s", err, validKinds())
		}
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid value: %s", args[1])
		}

		m := models.NewMetricSample(kind, value)
		if metricAt != "" {
			t, err := models.ParseTimestamp(metricAt)
			if err != nil {
				return err
			}
			m.WithRecordedAt(t)
		}

		if err := repo.CreateMetric(m); err != nil {
			return fmt.Errorf("failed to create metric: %w", err)
		}

		color.Green("✓ Added %s", kind)
		fmt.Printf("  %s %.2f %s\n", faint.Sprint(m.ID.String()[:8]), m.Value, m.Unit())
		return nil
	},
}

var metricListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List metric samples",
	Long: `List recent metric samples, newest first.

Each line shows: ID  TIMESTAMP  KIND  VALUE  UNIT  SOURCE`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := storage.MetricFilter{Limit: metricLimit}
		if metricKind != "" {
			kind, err := models.ParseMetricKind(metricKind)
			if err != nil {
				return err
			}
			filter.Kind = &kind
		}

		metrics, err := repo.ListMetrics(filter)
		if err != nil {
			return fmt.Errorf("failed to list metrics: %w", err)
		}
		if len(metrics) == 0 {
			fmt.Println("No metrics found.")
			return nil
		}

		for _, m := range metrics {
			fmt.Printf("%s %s %s %.2f %s %s\n",
				faint.Sprint(m.ID.String()[:8]),
				faint.Sprint(m.RecordedAt.Format("2006-01-02 15:04")),
				padRight(string(m.Kind), 26),
				m.Value,
				m.Unit(),
				faint.Sprint(m.Source))
		}
		return nil
	},
}

var metricDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a metric sample",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := repo.GetMetric(args[0])
		if err != nil {
			return err
		}
		if err := repo.DeleteMetric(m.ID.String()); err != nil {
			return fmt.Errorf("failed to delete metric: %w", err)
		}

		color.Yellow("✗ Deleted %s", m.Kind)
		fmt.Printf("  %s %.2f %s\n", faint.Sprint(m.ID.String()[:8]), m.Value, m.Unit())
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import tracker CSV exports",
	Long: `Import metric samples from fitness tracker CSV exports.

SUPPORTED FILES (detected by name):

  *aggregated_fitness_data*.csv   daily sleep, heart rate, stress, steps, calories
  *sport_record*.csv              workouts: duration, calories, heart rate,
                                  training load, time in heart rate zones

Rows that cannot be parsed are skipped. Samples already stored for the same
time and kind are counted as duplicates, so re-importing is safe.

EXAMPLE:

  energy import ~/Downloads/20250310_hlth_center_aggregated_fitness_data.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		im := importer.New(repo, log)
		for _, path := range args {
			res, err := im.ImportFile(path)
			if err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}
			color.Green("✓ Imported %s", path)
			fmt.Printf("  format %s: %d rows, %d inserted, %d duplicates, %d skipped\n",
				res.Format, res.Rows, res.Inserted, res.Duplicates, res.Skipped)
		}
		return nil
	},
}

func init() {
	metricAddCmd.Flags().StringVar(&metricAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	metricListCmd.Flags().StringVarP(&metricKind, "kind", "k", "", "filter by metric kind")
	metricListCmd.Flags().IntVarP(&metricLimit, "limit", "n", 20, "max number of results")

	metricCmd.AddCommand(metricAddCmd)
	metricCmd.AddCommand(metricListCmd)
	metricCmd.AddCommand(metricDeleteCmd)
	rootCmd.AddCommand(metricCmd)
	rootCmd.AddCommand(importCmd)
}
