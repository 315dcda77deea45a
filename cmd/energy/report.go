// ABOUTME: CLI commands for the weekly report, the journal and the trend table.
// ABOUTME: Rendering only; the numbers come from internal/report.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/energy/internal/energy"
	"github.com/harperreed/energy/internal/models"
	"github.com/harperreed/energy/internal/report"
)

var (
	journalDays int
	trendDays   int
	balanceDays int
)

func printShares(shares []report.StateShare, byCount bool) {
	for _, s := range shares {
		if s.Count == 0 {
			continue
		}
		amount := fmt.Sprintf("%d min", s.Minutes)
		if byCount {
			amount = fmt.Sprintf("%d events", s.Count)
		}
		fmt.Printf("  %s %5.1f%%  %s\n", padRight(s.KeyState.String(), 18), s.Percent, faint.Sprint(amount))
	}
}

func printInsight(title, unit string, stats []report.ActivityStat) {
	if len(stats) == 0 {
		return
	}
	fmt.Printf("  %s\n", title)
	for i, s := range stats {
		fmt.Printf("    %d. %s %s\n", i+1, padRight(truncate(s.Activity, 28), 28), faint.Sprintf("%.0f %s", s.Value, unit))
	}
}

var reportCmd = &cobra.Command{
	Use:     "report",
	Aliases: []string{"weekly"},
	Short:   "Weekly energy report",
	Long: `Show the report for the seven days ending today:

  - time spent per goal priority
  - key-state distribution by number of events
  - top activities for friction, abundance and consumption
  - weekly health stats with indicator bars`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := report.New(repo).Weekly(now())
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}

		bold.Printf("Weekly report %s to %s\n", w.From, w.To)
		if w.EventCount == 0 {
			faint.Println("No events logged this week.")
		} else {
			fmt.Println()
			bold.Println("Time per priority:")
			for _, p := range w.Priorities {
				fmt.Printf("  %s %6.1f h\n", padRight(p.Label, 20), p.Hours)
			}

			fmt.Println()
			bold.Println("Key states:")
			printShares(w.States, true)

			fmt.Println()
			bold.Println("Insights:")
			printInsight("Biggest friction (total minutes)", "min", w.Insights.Friction)
			printInsight("Top sources of abundance (times)", "x", w.Insights.Abundance)
			printInsight("Most draining work (average minutes)", "min", w.Insights.Consumption)
		}

		fmt.Println()
		bold.Println("Health:")
		for _, s := range w.Health {
			label := s.Guide.Label
			if s.Guide.Agg == energy.AggSum {
				label += " (total)"
			}
			printBar(label, s.Value, models.MetricUnits[s.Guide.Kind], s.Indicator)
		}
		return nil
	},
}

var journalCmd = &cobra.Command{
	Use:     "journal",
	Aliases: []string{"j"},
	Short:   "Day-by-day energy journal",
	Long: `Show key metrics, logged events and budget accounting per day, newest first.

The remaining energy is the day's initial budget plus the costs of goals
linked to logged events.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		days, err := report.New(repo).Journal(now(), journalDays)
		if err != nil {
			return fmt.Errorf("failed to build journal: %w", err)
		}

		for i, d := range days {
			if i > 0 {
				fmt.Println()
			}
			bold.Println(d.Date)

			var parts []string
			for _, m := range d.Metrics {
				parts = append(parts, bandColor(m.Band).Sprintf("%s %s", m.Kind, formatValue(m.Value, "")))
			}
			fmt.Printf("  %s\n", strings.Join(parts, "  "))

			if len(d.Entries) == 0 {
				faint.Println("  no events")
			}
			for _, e := range d.Entries {
				goal := ""
				if e.GoalName != "" {
					goal = faint.Sprintf(" [%s %s %+d]", e.Priority, e.GoalName, e.Cost)
				}
				fmt.Printf("  %s %s %s %s%s\n",
					faint.Sprint(e.Event.StartedAt.Format("15:04")),
					padRight(truncate(e.Event.Activity, 24), 24),
					padRight(fmt.Sprintf("%d min", e.Event.DurationMinutes), 8),
					e.Event.KeyState,
					goal)
			}

			remaining := color.GreenString("%d", d.Remaining)
			if d.Remaining < 0 {
				remaining = color.RedString("%d", d.Remaining)
			}
			fmt.Printf("  budget %d, goals %+d, remaining %s, %d min logged\n",
				d.InitialBudget, d.GoalCost, remaining, d.TotalMinutes)
		}
		return nil
	},
}

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Daily physiology next to hours per key state",
	Long: `Show one row per day, oldest first: sleep score, sleep hours, resting
heart rate, stress, and hours of friction, growth, abundance and consumption.

Rows are flagged for a sleep score under 70, resting heart rate more than 4
above 65, or more than 2 hours of friction.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := report.New(repo).Trend(now(), trendDays)
		if err != nil {
			return fmt.Errorf("failed to build trend: %w", err)
		}

		bold.Printf("%-10s %6s %6s %5s %6s %6s %6s %6s %6s\n",
			"date", "score", "sleep", "rhr", "stress", "frict", "growth", "abund", "cons")
		for _, r := range rows {
			line := fmt.Sprintf("%-10s %6s %6s %5s %6s %6.1f %6.1f %6.1f %6.1f",
				r.Date, cell(r.SleepScore), cell(r.SleepHours), cell(r.RHR), cell(r.Stress),
				r.FrictionHours, r.GrowthHours, r.AbundanceHours, r.ConsumptionHours)
			if r.Flag != report.FlagNone {
				color.Red("%s  %s", line, r.Flag)
				continue
			}
			fmt.Println(line)
		}
		return nil
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Time split across key states",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := report.New(repo).Balance(now(), balanceDays)
		if err != nil {
			return fmt.Errorf("failed to build balance: %w", err)
		}
		bold.Printf("Key-state balance %s to %s\n", b.From, b.To)
		printShares(b.States, false)
		return nil
	},
}

func cell(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func init() {
	journalCmd.Flags().IntVar(&journalDays, "days", report.DefaultJournalDays, "number of days")
	trendCmd.Flags().IntVar(&trendDays, "days", report.DefaultTrendDays, "number of days")
	balanceCmd.Flags().IntVar(&balanceDays, "days", 7, "number of days")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(balanceCmd)
}
