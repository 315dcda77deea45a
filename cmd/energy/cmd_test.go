// ABOUTME: Tests for CLI helpers and end-to-end command execution.
// ABOUTME: Runs rootCmd against a temp SQLite database with a pinned clock.
package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/harperreed/energy/internal/config"
	"github.com/harperreed/energy/internal/models"
	"github.com/harperreed/energy/internal/storage"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)

// resetFlags puts every flag back to its default so Execute calls don't leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// setupTestCLI points config and data at temp dirs and returns the database path.
func setupTestCLI(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))

	prevNow := now
	now = func() time.Time { return fixedNow }
	t.Cleanup(func() {
		now = prevNow
		_ = closeRepo()
		resetFlags(rootCmd)
	})

	return filepath.Join(tmpDir, "energy.db")
}

func run(t *testing.T, dbFile string, args ...string) error {
	t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append(args, "--db", dbFile))
	return rootCmd.Execute()
}

func mustRun(t *testing.T, dbFile string, args ...string) {
	t.Helper()
	if err := run(t, dbFile, args...); err != nil {
		t.Fatalf("%v failed: %v", args, err)
	}
}

// openDB opens the CLI database for assertions after commands have closed it.
func openDB(t *testing.T, dbFile string) *storage.DB {
	t.Helper()
	db, err := storage.Open(dbFile, nil)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"needs truncation", "hello world this is long", 10, "hello w..."},
		{"empty string", "", 10, ""},
		{"very short maxLen", "hello", 3, "..."},
		{"tiny maxLen", "hello", 2, ".."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"hi", 5, "hi   "},
		{"hello", 5, "hello"},
		{"hello world", 5, "hello world"},
		{"", 3, "   "},
	}

	for _, tt := range tests {
		if got := padRight(tt.input, tt.length); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
		}
	}
}

func TestCell(t *testing.T) {
	v := 7.25
	if got := cell(&v); got != "7.2" && got != "7.3" {
		t.Errorf("cell(7.25) = %q", got)
	}
	if got := cell(nil); got != "-" {
		t.Errorf("cell(nil) = %q, want -", got)
	}
}

func TestSkipsStorage(t *testing.T) {
	tests := []struct {
		cmd  *cobra.Command
		want bool
	}{
		{startCmd, true},
		{configSetCmd, true},
		{syncStatusCmd, true},
		{migrateCmd, true},
		{stopCmd, false},
		{goalAddCmd, false},
		{planCmd, false},
	}

	for _, tt := range tests {
		if got := skipsStorage(tt.cmd); got != tt.want {
			t.Errorf("skipsStorage(%s) = %v, want %v", tt.cmd.CommandPath(), got, tt.want)
		}
	}
}

func TestPlanHelpDescribesAllocationOrder(t *testing.T) {
	if !strings.Contains(planCmd.Long, "from cheapest to most expensive") {
		t.Errorf("plan help does not describe the allocation order:\n%s", planCmd.Long)
	}
	if strings.Contains(planCmd.Long, "most to least expensive") {
		t.Error("plan help still claims the most expensive goal goes first")
	}
}

func TestCommandFlagDefaults(t *testing.T) {
	tests := []struct {
		cmd  *cobra.Command
		flag string
		want string
	}{
		{statusCmd, "date", "today"},
		{planCmd, "date", "yesterday"},
		{metricListCmd, "limit", "20"},
		{goalAddCmd, "priority", "2"},
		{goalAddCmd, "cost", "0"},
		{journalCmd, "days", "3"},
		{trendCmd, "days", "7"},
		{balanceCmd, "days", "7"},
		{migrateCmd, "from", "sqlite"},
		{migrateCmd, "to", "charm"},
		{serveCmd, "addr", ""},
	}

	for _, tt := range tests {
		f := tt.cmd.Flags().Lookup(tt.flag)
		if f == nil {
			t.Errorf("%s: missing --%s", tt.cmd.CommandPath(), tt.flag)
			continue
		}
		if f.DefValue != tt.want {
			t.Errorf("%s --%s default = %q, want %q", tt.cmd.CommandPath(), tt.flag, f.DefValue, tt.want)
		}
	}
}

func TestEventFlagsRegistered(t *testing.T) {
	for _, cmd := range []*cobra.Command{logCmd, stopCmd} {
		for _, name := range []string{"state", "physical", "mental", "emotional", "goal", "notes"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("%s: missing --%s", cmd.Name(), name)
			}
		}
	}
}

func TestRootCommandsRegistered(t *testing.T) {
	want := []string{"goal", "log", "start", "stop", "metric", "import", "status", "plan",
		"report", "journal", "trend", "balance", "export", "restore", "migrate", "sync",
		"mcp", "serve", "config", "install-skill"}

	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range want {
		if !names[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestGoalCommands(t *testing.T) {
	dbFile := setupTestCLI(t)

	mustRun(t, dbFile, "goal", "add", "Ship release", "-p", "1", "-c", "-30")
	mustRun(t, dbFile, "goal", "add", "Walk", "-c", "10")
	mustRun(t, dbFile, "goal", "update", "ship release", "-c", "-20")
	mustRun(t, dbFile, "goal", "archive", "Walk")
	mustRun(t, dbFile, "goal", "list", "--all")

	db := openDB(t, dbFile)
	goals, err := db.ListGoals(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(goals) != 2 {
		t.Fatalf("got %d goals, want 2", len(goals))
	}

	ship, err := storage.FindGoal(db, "Ship release")
	if err != nil {
		t.Fatal(err)
	}
	if ship.Priority != models.PriorityHigh || ship.EnergyCost != -20 {
		t.Errorf("ship = %s cost %d, want P1 cost -20", ship.Priority, ship.EnergyCost)
	}

	active, err := db.ActiveGoals()
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].Name != "Ship release" {
		t.Errorf("active goals = %v", active)
	}
}

func TestGoalCommandErrors(t *testing.T) {
	dbFile := setupTestCLI(t)
	mustRun(t, dbFile, "goal", "add", "Walk")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"bad priority", []string{"goal", "add", "Read", "-p", "5"}, nil},
		{"duplicate name", []string{"goal", "add", "Walk"}, storage.ErrDuplicateName},
		{"empty name", []string{"goal", "add", "  "}, nil},
		{"update nothing", []string{"goal", "update", "Walk"}, nil},
		{"update unknown", []string{"goal", "update", "Swim", "-c", "5"}, storage.ErrNotFound},
		{"archive unknown", []string{"goal", "archive", "Swim"}, storage.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(t, dbFile, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogCommand(t *testing.T) {
	dbFile := setupTestCLI(t)
	mustRun(t, dbFile, "goal", "add", "Learn Go", "-c", "-10")

	mustRun(t, dbFile, "log", "Read Go book", "-m", "30", "-s", "growth", "-g", "learn go",
		"--physical", "6", "--mental", "7", "--emotional", "7", "--at", "2025-03-10 09:00")
	mustRun(t, dbFile, "log", "Doomscrolling", "-m", "40", "-s", "friction",
		"--physical", "4", "--mental", "3", "--emotional", "4", "--notes", "phone")

	db := openDB(t, dbFile)
	events, err := db.ListEvents(storage.EventFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	byActivity := make(map[string]*models.Event)
	for _, e := range events {
		byActivity[e.Activity] = e
	}

	read := byActivity["Read Go book"]
	if read == nil || read.GoalID == nil {
		t.Fatalf("growth event missing or unlinked: %+v", read)
	}
	if read.KeyState != models.KeyStateGrowth || read.DurationMinutes != 30 {
		t.Errorf("read = %s %d min", read.KeyState, read.DurationMinutes)
	}
	if got := read.StartedAt.Format("2006-01-02 15:04"); got != "2025-03-10 09:00" {
		t.Errorf("started_at = %s", got)
	}

	scroll := byActivity["Doomscrolling"]
	if scroll == nil || scroll.KeyState != models.KeyStateInternalFriction || scroll.Notes != "phone" {
		t.Errorf("friction event = %+v", scroll)
	}
}

func TestLogCommandErrors(t *testing.T) {
	dbFile := setupTestCLI(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown state", []string{"log", "Nap", "-m", "20", "-s", "sleepy", "--physical", "5", "--mental", "5", "--emotional", "5"}},
		{"missing scores", []string{"log", "Nap", "-m", "20", "-s", "abundance"}},
		{"score too high", []string{"log", "Nap", "-m", "20", "-s", "abundance", "--physical", "11", "--mental", "5", "--emotional", "5"}},
		{"negative minutes", []string{"log", "Nap", "-m", "-5", "-s", "abundance", "--physical", "5", "--mental", "5", "--emotional", "5"}},
		{"unknown goal", []string{"log", "Nap", "-m", "20", "-s", "abundance", "-g", "Swim", "--physical", "5", "--mental", "5", "--emotional", "5"}},
		{"bad timestamp", []string{"log", "Nap", "-m", "20", "-s", "abundance", "--physical", "5", "--mental", "5", "--emotional", "5", "--at", "noon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(t, dbFile, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}

	events, err := openDB(t, dbFile).ListEvents(storage.EventFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Errorf("failed commands stored %d events", len(events))
	}
}

func TestTimerStartStop(t *testing.T) {
	dbFile := setupTestCLI(t)

	if err := run(t, dbFile, "stop", "-s", "growth"); !errors.Is(err, errNoActiveTask) {
		t.Fatalf("stop without start: got %v, want errNoActiveTask", err)
	}

	mustRun(t, dbFile, "start", "Write report")
	if err := run(t, dbFile, "start", "Something else"); err == nil {
		t.Error("expected error starting a second task")
	}

	now = func() time.Time { return fixedNow.Add(45*time.Minute + 30*time.Second) }
	mustRun(t, dbFile, "stop", "-s", "consumption", "--physical", "5", "--mental", "4", "--emotional", "6")

	path := filepath.Join(storage.DataDir(), activeTaskFile)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("active task file still present: %v", err)
	}

	events, err := openDB(t, dbFile).ListEvents(storage.EventFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if e.Activity != "Write report" || e.DurationMinutes != 45 || e.KeyState != models.KeyStateConsumption {
		t.Errorf("event = %s %d min %s", e.Activity, e.DurationMinutes, e.KeyState)
	}
	if !e.StartedAt.Equal(fixedNow) {
		t.Errorf("started_at = %v, want %v", e.StartedAt, fixedNow)
	}
}

func TestTimerKeepsTaskWhenStopFails(t *testing.T) {
	dbFile := setupTestCLI(t)
	mustRun(t, dbFile, "start", "Write report")

	if err := run(t, dbFile, "stop", "-s", "consumption"); err == nil {
		t.Fatal("expected error for missing scores")
	}

	task, err := readActiveTask(filepath.Join(storage.DataDir(), activeTaskFile))
	if err != nil {
		t.Fatalf("task lost after failed stop: %v", err)
	}
	if task.Activity != "Write report" {
		t.Errorf("activity = %q", task.Activity)
	}
}

func TestMetricCommands(t *testing.T) {
	dbFile := setupTestCLI(t)

	mustRun(t, dbFile, "metric", "add", "sleep_total_min", "450", "--at", "2025-03-09 07:00")
	mustRun(t, dbFile, "metric", "add", "rhr_avg", "58")
	mustRun(t, dbFile, "metric", "list", "-k", "rhr_avg")

	db := openDB(t, dbFile)
	metrics, err := db.ListMetrics(storage.MetricFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(metrics) != 2 {
		t.Fatalf("got %d metrics, want 2", len(metrics))
	}

	var sleepID string
	for _, m := range metrics {
		if m.Kind == models.MetricSleepTotalMin {
			sleepID = m.ID.String()
			if m.Value != 450 {
				t.Errorf("sleep value = %v, want 450", m.Value)
			}
		}
	}
	if sleepID == "" {
		t.Fatal("sleep sample not stored")
	}
	db.Close()

	mustRun(t, dbFile, "metric", "delete", sleepID[:8])

	metrics, err = openDB(t, dbFile).ListMetrics(storage.MetricFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(metrics) != 1 || metrics[0].Kind != models.MetricRHRAvg {
		t.Errorf("after delete: %v", metrics)
	}
}

func TestMetricCommandErrors(t *testing.T) {
	dbFile := setupTestCLI(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown kind", []string{"metric", "add", "weight", "80"}},
		{"bad value", []string{"metric", "add", "rhr_avg", "fast"}},
		{"bad timestamp", []string{"metric", "add", "rhr_avg", "58", "--at", "yesterday-ish"}},
		{"list unknown kind", []string{"metric", "list", "-k", "weight"}},
		{"delete unknown", []string{"metric", "delete", "ffffffff"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(t, dbFile, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestImportCommand(t *testing.T) {
	dbFile := setupTestCLI(t)

	csv := "Uid,Sid,Tag,Key,Time,Value,UpdateTime\n" +
		`1,s,daily_report,heart_rate,1741564800,"{""avg_rhr"":58,""avg_hr"":72}",0` + "\n"
	path := filepath.Join(t.TempDir(), "hlth_center_aggregated_fitness_data.csv")
	if err := os.WriteFile(path, []byte(csv), 0600); err != nil {
		t.Fatal(err)
	}

	mustRun(t, dbFile, "import", path)
	mustRun(t, dbFile, "import", path)

	metrics, err := openDB(t, dbFile).ListMetrics(storage.MetricFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(metrics) == 0 {
		t.Fatal("import stored no samples")
	}
	seen := make(map[models.MetricKind]int)
	for _, m := range metrics {
		seen[m.Kind]++
	}
	for kind, n := range seen {
		if n != 1 {
			t.Errorf("%s stored %d times after re-import", kind, n)
		}
	}

	if err := run(t, dbFile, "import", filepath.Join(t.TempDir(), "notes.csv")); err == nil {
		t.Error("expected error for unsupported file")
	}
}

func TestStatusPlanAndReports(t *testing.T) {
	dbFile := setupTestCLI(t)

	mustRun(t, dbFile, "goal", "add", "Ship release", "-p", "1", "-c", "-30")
	mustRun(t, dbFile, "metric", "add", "sleep_total_min", "480", "--at", "2025-03-09 07:00")
	mustRun(t, dbFile, "metric", "add", "rhr_avg", "58", "--at", "2025-03-09 07:00")
	mustRun(t, dbFile, "log", "Deep work", "-m", "90", "-s", "consumption",
		"--physical", "5", "--mental", "4", "--emotional", "6", "--at", "2025-03-10 09:00")

	for _, args := range [][]string{
		{"status"},
		{"status", "-d", "yesterday"},
		{"plan"},
		{"plan", "-d", "2025-03-01"},
		{"report"},
		{"journal", "--days", "2"},
		{"trend", "--days", "5"},
		{"balance"},
	} {
		if err := run(t, dbFile, args...); err != nil {
			t.Errorf("%v failed: %v", args, err)
		}
	}

	if err := run(t, dbFile, "plan", "-d", "last tuesday"); err == nil {
		t.Error("expected error for unparseable date")
	}
}

func TestExportAndRestore(t *testing.T) {
	dbFile := setupTestCLI(t)
	mustRun(t, dbFile, "goal", "add", "Walk", "-c", "10")
	mustRun(t, dbFile, "metric", "add", "rhr_avg", "58", "--at", "2025-03-09 07:00")
	mustRun(t, dbFile, "log", "Walk", "-m", "30", "-s", "abundance", "-g", "Walk",
		"--physical", "7", "--mental", "7", "--emotional", "8")

	backup := filepath.Join(t.TempDir(), "backup.json")
	mustRun(t, dbFile, "export", "json", "-o", backup)
	mustRun(t, dbFile, "export", "yaml", "-o", filepath.Join(t.TempDir(), "backup.yaml"))
	if err := run(t, dbFile, "export", "csv"); err == nil {
		t.Error("expected error for unknown format")
	}

	restored := filepath.Join(t.TempDir(), "restored.db")
	mustRun(t, restored, "restore", backup)

	db := openDB(t, restored)
	goals, _ := db.ListGoals(true)
	metrics, _ := db.ListMetrics(storage.MetricFilter{})
	events, _ := db.ListEvents(storage.EventFilter{})
	if len(goals) != 1 || len(metrics) != 1 || len(events) != 1 {
		t.Errorf("restored %d goals, %d metrics, %d events", len(goals), len(metrics), len(events))
	}
	if len(events) == 1 && (events[0].GoalID == nil || *events[0].GoalID != goals[0].ID) {
		t.Error("restored event lost its goal link")
	}
}

func TestConfigSet(t *testing.T) {
	dbFile := setupTestCLI(t)

	mustRun(t, dbFile, "config", "set", "server_addr", "127.0.0.1:9000")
	mustRun(t, dbFile, "config", "show")
	if err := run(t, dbFile, "config", "set", "backend", "postgres"); err == nil {
		t.Error("expected error for invalid backend")
	}
	if err := run(t, dbFile, "config", "set", "colour", "blue"); err == nil {
		t.Error("expected error for unknown key")
	}

	loaded, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.GetServerAddr() != "127.0.0.1:9000" {
		t.Errorf("server_addr = %q", loaded.GetServerAddr())
	}
	if loaded.GetBackend() != config.BackendSQLite {
		t.Errorf("backend changed to %q after a rejected set", loaded.GetBackend())
	}
}

func TestMigrateRejectsSameBackend(t *testing.T) {
	dbFile := setupTestCLI(t)
	if err := run(t, dbFile, "migrate", "--from", "sqlite", "--to", "sqlite"); err == nil {
		t.Error("expected error when source equals destination")
	}
}

func TestIsEmpty(t *testing.T) {
	dbFile := setupTestCLI(t)
	db := openDB(t, dbFile)

	empty, err := isEmpty(db)
	if err != nil || !empty {
		t.Fatalf("fresh database: empty=%v err=%v", empty, err)
	}

	if err := db.CreateGoal(models.NewGoal("Walk", models.PriorityMedium, 10)); err != nil {
		t.Fatal(err)
	}
	empty, err = isEmpty(db)
	if err != nil || empty {
		t.Errorf("after goal: empty=%v err=%v", empty, err)
	}
}
