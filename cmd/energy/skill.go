// ABOUTME: install-skill command: drops the embedded SKILL.md into ~/.claude/skills/energy.
// ABOUTME: The skill tells Claude Code when to call the energy MCP tools.
package main

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

const skillFile = "skill/SKILL.md"

var skillSkipConfirm bool

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install the Claude Code skill",
	Long: `Write the energy skill to ~/.claude/skills/energy/SKILL.md.

With the skill installed, Claude Code checks readiness before suggesting work,
asks for a plan when you have a block of free time and logs what you did.`,
	Annotations: map[string]string{noStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("locate home directory: %w", err)
		}
		return installSkill(filepath.Join(home, ".claude", "skills", "energy"), os.Stdin, skillSkipConfirm)
	},
}

// askYesNo reads one line from in. Only "y" and "yes" count as consent.
func askYesNo(in io.Reader, prompt string) (bool, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func installSkill(dir string, in io.Reader, skipConfirm bool) error {
	target := filepath.Join(dir, "SKILL.md")

	bold.Println("energy skill for Claude Code")
	fmt.Printf("  target: %s\n", target)
	if _, err := os.Stat(target); err == nil {
		fmt.Println(faint.Sprint("  an existing SKILL.md will be replaced"))
	}
	fmt.Println()

	if !skipConfirm {
		ok, err := askYesNo(in, "Install? [y/N] ")
		if err != nil {
			return fmt.Errorf("read answer: %w", err)
		}
		if !ok {
			fmt.Println("Nothing installed.")
			return nil
		}
	}

	body, err := skillFS.ReadFile(skillFile)
	if err != nil {
		return fmt.Errorf("read embedded skill: %w", err)
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	if err := os.WriteFile(target, body, 0600); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	color.Green("✓ Skill installed")
	fmt.Println(`Ask Claude Code "what should I work on today?" to try it.`)
	return nil
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "install without asking")
	rootCmd.AddCommand(installSkillCmd)
}
