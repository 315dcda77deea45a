// ABOUTME: CLI command for logging an activity event.
// ABOUTME: Stores the event, then prints guidance chosen by its key state.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/energy/internal/energy"
	"github.com/harperreed/energy/internal/models"
	"github.com/harperreed/energy/internal/storage"
)

// eventFlags are shared by log and stop.
type eventFlags struct {
	state     string
	physical  int
	mental    int
	emotional int
	goal      string
	notes     string
}

var (
	logFlags   eventFlags
	logMinutes int
	logAt      string
)

func (f *eventFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.state, "state", "s", "", "key state: consumption, friction, growth, abundance, routine")
	cmd.Flags().IntVar(&f.physical, "physical", 0, "physical energy 1-10")
	cmd.Flags().IntVar(&f.mental, "mental", 0, "mental energy 1-10")
	cmd.Flags().IntVar(&f.emotional, "emotional", 0, "emotional energy 1-10")
	cmd.Flags().StringVarP(&f.goal, "goal", "g", "", "linked goal ID prefix or name")
	cmd.Flags().StringVar(&f.notes, "notes", "", "optional notes")
}

// build turns the flags into a validated event.
func (f *eventFlags) build(activity string, minutes int) (*models.Event, error) {
	activity = strings.TrimSpace(activity)
	state, err := models.ParseKeyState(f.state)
	if err != nil {
		return nil, fmt.Errorf("%w\nValid states: consumption, friction, growth, abundance, routine", err)
	}

	ev := models.NewEvent(activity, minutes, state).
		WithScores(f.physical, f.mental, f.emotional).
		WithNotes(f.notes)
	if f.goal != "" {
		g, err := storage.FindGoal(repo, f.goal)
		if err != nil {
			return nil, err
		}
		ev.WithGoal(g.ID)
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return ev, nil
}

// saveEvent stores ev and prints the guidance for it.
func saveEvent(ev *models.Event) error {
	if err := repo.CreateEvent(ev); err != nil {
		return fmt.Errorf("failed to log event: %w", err)
	}

	color.Green("✓ Logged %s", ev.Activity)
	fmt.Printf("  %s %d min %s\n",
		faint.Sprint(ev.ID.String()[:8]),
		ev.DurationMinutes,
		ev.KeyState)

	guidance, err := energy.New(repo).Guide.ForEvent(ev)
	if err != nil {
		return fmt.Errorf("failed to build guidance: %w", err)
	}
	printGuidance(guidance)
	return nil
}

var logCmd = &cobra.Command{
	Use:   "log <activity>",
	Short: "Log an activity with energy scores",
	Long: `Log an activity with its duration, key state and three 1-10 energy scores.

KEY STATES:

  consumption   drained after intense, productive work
  friction      idling, stuck or procrastinating
  growth        learning or building a skill
  abundance     energized after exercise or rest
  routine       everyday chores, energy flat

After logging, energy prints guidance for what to do next.

EXAMPLES:

  energy log "Deep work" -m 90 -s consumption --physical 5 --mental 4 --emotional 6
  energy log "Doomscrolling" -m 40 -s friction --physical 4 --mental 3 --emotional 4
  energy log "Read Go book" -m 30 -s growth -g "Learn Go" --physical 6 --mental 7 --emotional 7`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ev, err := logFlags.build(args[0], logMinutes)
		if err != nil {
			return err
		}
		if logAt != "" {
			t, err := models.ParseTimestamp(logAt)
			if err != nil {
				return err
			}
			ev.WithStartedAt(t)
		}
		return saveEvent(ev)
	},
}

func init() {
	logFlags.register(logCmd)
	logCmd.Flags().IntVarP(&logMinutes, "minutes", "m", 0, "duration in minutes")
	logCmd.Flags().StringVar(&logAt, "at", "", "start time (YYYY-MM-DD HH:MM), defaults to now")
	rootCmd.AddCommand(logCmd)
}
