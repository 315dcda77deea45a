// ABOUTME: Terminal rendering helpers shared by CLI commands.
// ABOUTME: Colors states, bands, budgets and guidance with fatih/color.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/harperreed/energy/internal/energy"
	"github.com/harperreed/energy/internal/models"
)

var (
	faint = color.New(color.Faint)
	bold  = color.New(color.Bold)
)

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// parseDay resolves a --date flag value against the CLI clock.
func parseDay(s string) (time.Time, error) {
	return models.ParseDay(s, now())
}

func bandColor(b energy.Band) *color.Color {
	switch b {
	case energy.BandGreen:
		return color.New(color.FgGreen)
	case energy.BandYellow:
		return color.New(color.FgYellow)
	case energy.BandRed:
		return color.New(color.FgRed)
	default:
		return faint
	}
}

func stateColor(s energy.State) *color.Color {
	switch s {
	case energy.StateReady:
		return color.New(color.FgGreen, color.Bold)
	case energy.StateFatigued:
		return color.New(color.FgYellow, color.Bold)
	case energy.StateStressed:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.Faint, color.Bold)
	}
}

func formatValue(v *float64, unit string) string {
	if v == nil {
		return "-"
	}
	if unit == "" {
		return fmt.Sprintf("%.1f", *v)
	}
	return fmt.Sprintf("%.1f %s", *v, unit)
}

func printBar(label string, v *float64, unit string, ind energy.Indicator) {
	fmt.Printf("  %s %s %s\n",
		padRight(label, 20),
		bandColor(ind.Band).Sprint(ind.Bar()),
		formatValue(v, unit))
}

func printAssessment(a energy.Assessment) {
	fmt.Printf("%s %s\n", bold.Sprintf("State (%s):", a.Date), stateColor(a.State).Sprint(a.State))
	for _, m := range a.Messages {
		if strings.HasPrefix(m, "Warning: ") {
			color.Yellow("  %s", m)
		} else {
			fmt.Printf("  %s\n", m)
		}
	}
}

func printBudget(b energy.Breakdown) {
	adj := func(name string, v int) {
		if v != 0 {
			fmt.Printf("    %s %+d\n", padRight(name, 14), v)
		}
	}
	fmt.Printf("%s %s\n", bold.Sprint("Energy budget:"), color.CyanString("%d", b.Total))
	fmt.Printf("    %s %d\n", padRight("base", 14), b.Base)
	adj("sleep", b.Sleep)
	adj("heart rate", b.RHR)
	adj("stress", b.Stress)
	adj("training load", b.TrainLoad)
	if b.NoData {
		faint.Println("    no objective data, using the base budget")
	}
}

func printPlan(p energy.Plan) {
	if p.Empty() {
		fmt.Println("No goals fit today's budget.")
		return
	}
	for _, e := range p.Entries {
		cost := color.RedString("%+d", e.Cost)
		if e.Cost > 0 {
			cost = color.GreenString("%+d", e.Cost)
		}
		fmt.Printf("  %d. %s %s %s  %s\n",
			e.Order,
			faint.Sprint(e.Goal.Priority),
			padRight(e.Goal.Name, 28),
			cost,
			faint.Sprintf("remaining %d", e.Remaining))
	}
	fmt.Printf("Remaining energy: %s\n", color.CyanString("%d", p.Remaining))
}

func printRecommendation(title string, r energy.Recommendation) {
	fmt.Printf("%s %s\n", bold.Sprint(title+":"), r.Message)
}

func printGuidance(g energy.Guidance) {
	fmt.Println()
	bold.Println(g.Headline)
	if g.Assessment != nil {
		printAssessment(*g.Assessment)
	}
	for _, l := range g.Lines {
		fmt.Printf("  %s\n", l)
	}
}
