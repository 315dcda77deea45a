// ABOUTME: CLI commands for timing an activity with start and stop.
// ABOUTME: The running task lives in a small JSON file in the data directory.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const activeTaskFile = "active_task.json"

type activeTask struct {
	Activity  string    `json:"activity"`
	StartedAt time.Time `json:"started_at"`
}

var errNoActiveTask = errors.New("no task is currently running, use 'energy log' or 'energy start'")

var stopFlags eventFlags

func activeTaskPath() string {
	return filepath.Join(cfg.GetDataDir(), activeTaskFile)
}

func readActiveTask(path string) (*activeTask, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errNoActiveTask
		}
		return nil, fmt.Errorf("read active task: %w", err)
	}
	var t activeTask
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse active task %s: %w", path, err)
	}
	return &t, nil
}

func writeActiveTask(path string, t activeTask) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

var startCmd = &cobra.Command{
	Use:         "start <activity>",
	Short:       "Start timing an activity",
	Long:        `Start a timer for an activity. Run 'energy stop' when you are done to log it.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{noStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		activity := strings.TrimSpace(args[0])
		if activity == "" {
			return fmt.Errorf("activity must not be empty")
		}

		path := activeTaskPath()
		if running, err := readActiveTask(path); err == nil {
			return fmt.Errorf("%q is already running, run 'energy stop' first", running.Activity)
		} else if !errors.Is(err, errNoActiveTask) {
			return err
		}

		if err := writeActiveTask(path, activeTask{Activity: activity, StartedAt: now()}); err != nil {
			return err
		}
		color.Green("Timer started for: %s", activity)
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running activity and log it",
	Long: `Stop the running timer and log the activity with the elapsed minutes.

The key state and energy scores are given as flags, just like 'energy log'.

EXAMPLE:

  energy start "Write report"
  energy stop -s consumption --physical 5 --mental 4 --emotional 6`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := activeTaskPath()
		task, err := readActiveTask(path)
		if err != nil {
			return err
		}

		minutes := int(now().Sub(task.StartedAt).Minutes())
		if minutes < 0 {
			minutes = 0
		}

		ev, err := stopFlags.build(task.Activity, minutes)
		if err != nil {
			return err
		}
		ev.WithStartedAt(task.StartedAt)

		color.Green("Timer stopped for: %s", task.Activity)
		fmt.Printf("Duration: %d minutes.\n", minutes)

		if err := saveEvent(ev); err != nil {
			return err
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove active task: %w", err)
		}
		return nil
	},
}

func init() {
	stopFlags.register(stopCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
}
