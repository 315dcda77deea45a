// ABOUTME: CLI commands that manage the Charm Cloud backend.
// ABOUTME: Links devices, reports record counts and repairs, resets or wipes the KV store.
package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/energy/internal/charm"
	"github.com/harperreed/energy/internal/storage"
)

var repairForce bool

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Manage Charm Cloud sync",
	Long: `Manage the charm backend, which keeps goals, samples and events in an
encrypted key-value store synced through Charm Cloud.

Enable it with 'energy config set backend charm', or copy existing data with
'energy migrate --from sqlite --to charm'. Every write is pushed right away.

SUBCOMMANDS:

  link      connect this machine to a Charm account (runs 'charm link')
  unlink    disconnect this machine, keeping local data
  status    account ID and record counts
  repair    checkpoint, integrity check and vacuum the local KV database
  reset     drop local KV data and pull it again from the cloud
  wipe      delete cloud backups and local KV data`,
	Annotations: map[string]string{noStorage: "true"},
}

// charmCLI runs the charm binary attached to the terminal.
func charmCLI(arg string) error {
	c := exec.Command("charm", arg)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	return c.Run()
}

func confirm(prompt, want string) bool {
	fmt.Print(prompt)
	var answer string
	_, _ = fmt.Scanln(&answer)
	return answer == want || (want == "y" && answer == "Y")
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Connect this machine to Charm",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := charmCLI("link"); err != nil {
			return fmt.Errorf("charm link: %w (install the CLI with: go install github.com/charmbracelet/charm@latest)", err)
		}

		client, err := charm.InitClient()
		if err != nil {
			color.Yellow("Linked, but the energy store could not be opened: %v", err)
			return nil
		}
		defer client.Close()

		if err := client.Sync(); err != nil {
			color.Yellow("Linked, but the first sync failed: %v", err)
			return nil
		}
		color.Green("✓ Linked and synced")
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect this machine from Charm",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := charmCLI("unlink"); err != nil {
			return fmt.Errorf("charm unlink: %w", err)
		}
		color.Green("✓ Unlinked. Local data was kept.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the Charm account and record counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Active backend: %s\n", cfg.GetBackend())

		client, err := charm.InitClient()
		if err != nil {
			color.Yellow("Charm store unavailable: %v", err)
			return nil
		}
		defer client.Close()

		id, err := client.ID()
		if err != nil {
			color.Yellow("This machine is not linked. Run 'energy sync link'.")
			return nil
		}
		fmt.Printf("Charm account:  %s\n", id)
		if client.IsReadOnly() {
			color.Yellow("Read-only: another energy process holds the lock")
		}

		data, err := storage.CollectAll(client)
		if err != nil {
			return fmt.Errorf("count records: %w", err)
		}
		fmt.Printf("Records:        %d goals, %d samples, %d events\n",
			len(data.Goals), len(data.Metrics), len(data.Events))
		return nil
	},
}

var syncRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair the local KV database",
	Long: `Checkpoint the write-ahead log, drop a stale shared-memory file, run an
integrity check and vacuum. Use it after lock errors or a crash.

With --force the repair continues past a failed integrity check.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := kv.Repair(charm.DBName, repairForce)

		steps := []struct {
			label string
			done  bool
		}{
			{"write-ahead log checkpointed", result.WalCheckpointed},
			{"shared-memory file removed", result.ShmRemoved},
			{"integrity check passed", result.IntegrityOK},
			{"vacuumed", result.Vacuumed},
		}
		for _, s := range steps {
			if s.done {
				fmt.Printf("  %s %s\n", color.GreenString("✓"), s.label)
			} else {
				fmt.Printf("  %s %s\n", faint.Sprint("-"), faint.Sprint(s.label))
			}
		}

		if err != nil {
			if !repairForce {
				color.Yellow("Retry with --force to keep going past integrity failures.")
			}
			return fmt.Errorf("repair %s: %w", charm.DBName, err)
		}
		color.Green("✓ Repaired")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace local KV data with the cloud copy",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm("Drop local energy data and pull it from Charm Cloud? [y/N]: ", "y") {
			fmt.Println("Aborted.")
			return nil
		}
		if err := kv.Reset(charm.DBName); err != nil {
			return fmt.Errorf("reset %s: %w", charm.DBName, err)
		}
		color.Green("✓ Local store rebuilt from the cloud")
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete cloud backups and local KV data",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm("This permanently deletes every energy record in Charm Cloud and on this machine.\nType 'wipe' to continue: ", "wipe") {
			fmt.Println("Aborted.")
			return nil
		}
		result, err := kv.Wipe(charm.DBName)
		if err != nil {
			return fmt.Errorf("wipe %s: %w", charm.DBName, err)
		}
		color.Green("✓ Wiped %d cloud backups and %d local files", result.CloudBackupsDeleted, result.LocalFilesDeleted)
		return nil
	},
}

func init() {
	syncRepairCmd.Flags().BoolVar(&repairForce, "force", false, "continue past a failed integrity check")
	syncCmd.AddCommand(syncLinkCmd, syncUnlinkCmd, syncStatusCmd, syncRepairCmd, syncResetCmd, syncWipeCmd)
	rootCmd.AddCommand(syncCmd)
}
