// ABOUTME: CLI commands for readiness status and the daily plan.
// ABOUTME: status shows one day's assessment and metric bars; plan schedules goals.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/energy/internal/energy"
	"github.com/harperreed/energy/internal/models"
	"github.com/harperreed/energy/internal/report"
)

var (
	statusDate string
	planDate   string
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st"},
	Short:   "Show readiness, budget and metric bars for a day",
	Long: `Show the readiness assessment and energy budget for a day, followed by a
colored bar for every tracked metric.

Bars are green when the value is on target, yellow when it is borderline,
red when it is off, and empty when there is no data.

EXAMPLES:

  energy status
  energy status --date yesterday
  energy status --date 2025-03-09`,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDay(statusDate)
		if err != nil {
			return err
		}

		a, err := energy.New(repo).Assessor.Assess(day)
		if err != nil {
			return fmt.Errorf("failed to assess: %w", err)
		}
		printAssessment(a)
		fmt.Println()
		printBudget(energy.BudgetBreakdown(a))

		stats, err := report.New(repo).Health(day, models.AddDays(day, 1))
		if err != nil {
			return err
		}
		fmt.Println()
		bold.Println("Metrics:")
		for _, s := range stats {
			printBar(s.Guide.Label, s.Value, models.MetricUnits[s.Guide.Kind], s.Indicator)
		}
		return nil
	},
}

var planCmd = &cobra.Command{
	Use:     "plan",
	Aliases: []string{"p"},
	Short:   "Plan today's goals from yesterday's data",
	Long: `Build the daily plan.

The reference day (default: yesterday) is assessed and turned into an energy
budget. Restoring goals are scheduled first, then consuming high-priority
goals from cheapest to most expensive while they still fit. Sleep and exercise
recommendations are for the day after the reference day.

EXAMPLES:

  energy plan
  energy plan --date 2025-03-09`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := parseDay(planDate)
		if err != nil {
			return err
		}

		plan, err := energy.New(repo).Planner.Daily(ref)
		if err != nil {
			return fmt.Errorf("failed to build plan: %w", err)
		}

		bold.Printf("Plan for %s (based on %s)\n\n", plan.Today, plan.Reference)
		printAssessment(plan.Assessment)
		fmt.Println()
		printBudget(plan.Breakdown)
		fmt.Println()

		if plan.NoGoals {
			color.Yellow("No active goals. Add one with 'energy goal add'.")
		} else {
			printPlan(plan.Plan)
		}

		fmt.Println()
		printRecommendation("Sleep", plan.Sleep)
		printRecommendation("Exercise", plan.Exercise)
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVarP(&statusDate, "date", "d", "today", "day to assess (YYYY-MM-DD, today, yesterday)")
	planCmd.Flags().StringVarP(&planDate, "date", "d", "yesterday", "reference day whose data drives the plan")
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(planCmd)
}
