// ABOUTME: CLI commands for managing goals.
// ABOUTME: Supports add, list, update and archive; goals are referenced by ID prefix or name.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/energy/internal/models"
	"github.com/harperreed/energy/internal/storage"
)

var (
	goalPriority string
	goalCost     int
	goalListAll  bool
	goalNewName  string
)

var goalCmd = &cobra.Command{
	Use:     "goal",
	Aliases: []string{"goals", "g"},
	Short:   "Manage goals",
	Long: `Manage the goals the daily plan spends energy on.

Each goal has a priority (1 high, 2 medium, 3 low) and a signed energy cost:
negative costs consume budget, positive costs restore it. Goal names are
unique, and goals are archived rather than deleted.

EXAMPLES:

  energy goal add "Ship release" --priority 1 --cost -30
  energy goal add "Walk" --cost 10
  energy goal list --all
  energy goal update "Ship release" --cost -20
  energy goal archive 3f2a1b4c`,
}

var goalAddCmd = &cobra.Command{
	Use:     "add <name>",
	Aliases: []string{"a"},
	Short:   "Add a goal",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return fmt.Errorf("goal name must not be empty")
		}
		p, err := models.ParsePriority(goalPriority)
		if err != nil {
			return err
		}

		g := models.NewGoal(name, p, goalCost)
		if err := repo.CreateGoal(g); err != nil {
			return fmt.Errorf("failed to create goal: %w", err)
		}

		color.Green("✓ Added goal %s", g.Name)
		fmt.Printf("  %s %s cost %+d\n", faint.Sprint(g.ShortID()), g.Priority, g.EnergyCost)
		return nil
	},
}

var goalListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List goals",
	Long: `List goals ordered by priority, then name.

Each line shows: ID  PRIORITY  NAME  COST  (archived)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		goals, err := repo.ListGoals(goalListAll)
		if err != nil {
			return fmt.Errorf("failed to list goals: %w", err)
		}
		if len(goals) == 0 {
			fmt.Println("No goals found.")
			return nil
		}

		for _, g := range goals {
			cost := color.RedString("%+d", g.EnergyCost)
			if g.Restoring() {
				cost = color.GreenString("%+d", g.EnergyCost)
			}
			archived := ""
			if !g.Active {
				archived = faint.Sprint(" (archived)")
			}
			fmt.Printf("%s %s %s %s%s\n",
				faint.Sprint(g.ShortID()),
				g.Priority,
				padRight(truncate(g.Name, 32), 32),
				cost,
				archived)
		}
		return nil
	},
}

var goalUpdateCmd = &cobra.Command{
	Use:   "update <id|name>",
	Short: "Change a goal's name, priority or cost",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := storage.FindGoal(repo, args[0])
		if err != nil {
			return err
		}

		var u models.GoalUpdate
		if cmd.Flags().Changed("name") {
			name := strings.TrimSpace(goalNewName)
			if name == "" {
				return fmt.Errorf("goal name must not be empty")
			}
			u.Name = &name
		}
		if cmd.Flags().Changed("priority") {
			p, err := models.ParsePriority(goalPriority)
			if err != nil {
				return err
			}
			u.Priority = &p
		}
		if cmd.Flags().Changed("cost") {
			cost := goalCost
			u.EnergyCost = &cost
		}
		if u.Empty() {
			return fmt.Errorf("nothing to update: pass --name, --priority or --cost")
		}

		updated, err := repo.UpdateGoal(g.ID.String(), u)
		if err != nil {
			return fmt.Errorf("failed to update goal: %w", err)
		}
		color.Green("✓ Updated goal %s", updated.Name)
		fmt.Printf("  %s %s cost %+d\n", faint.Sprint(updated.ShortID()), updated.Priority, updated.EnergyCost)
		return nil
	},
}

var goalArchiveCmd = &cobra.Command{
	Use:     "archive <id|name>",
	Aliases: []string{"rm"},
	Short:   "Archive a goal",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := storage.FindGoal(repo, args[0])
		if err != nil {
			return err
		}
		if err := repo.ArchiveGoal(g.ID.String()); err != nil {
			return fmt.Errorf("failed to archive goal: %w", err)
		}
		color.Yellow("✗ Archived %s", g.Name)
		return nil
	},
}

func init() {
	goalAddCmd.Flags().StringVarP(&goalPriority, "priority", "p", "2", "priority 1 (high), 2 (medium) or 3 (low)")
	goalAddCmd.Flags().IntVarP(&goalCost, "cost", "c", 0, "signed energy cost (negative consumes)")

	goalListCmd.Flags().BoolVarP(&goalListAll, "all", "a", false, "include archived goals")

	goalUpdateCmd.Flags().StringVar(&goalNewName, "name", "", "new name")
	goalUpdateCmd.Flags().StringVarP(&goalPriority, "priority", "p", "2", "new priority")
	goalUpdateCmd.Flags().IntVarP(&goalCost, "cost", "c", 0, "new signed energy cost")

	goalCmd.AddCommand(goalAddCmd)
	goalCmd.AddCommand(goalListCmd)
	goalCmd.AddCommand(goalUpdateCmd)
	goalCmd.AddCommand(goalArchiveCmd)
	rootCmd.AddCommand(goalCmd)
}
