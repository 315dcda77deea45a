// ABOUTME: Greedy allocator that spends an energy budget on goals.
// ABOUTME: High-priority consuming goals and all restoring goals compete for the budget.
package energy

import (
	"sort"

	"github.com/harperreed/energy/internal/models"
)

// PlanEntry is one admitted goal with the budget left after it.
type PlanEntry struct {
	Order     int         `json:"order"`
	Goal      models.Goal `json:"goal"`
	Cost      int         `json:"cost"`
	Remaining int         `json:"remaining"`
}

// Plan is the ordered selection for one budget.
type Plan struct {
	Budget    int         `json:"budget"`
	Entries   []PlanEntry `json:"entries"`
	Remaining int         `json:"remaining"`
}

// Empty reports whether no goal was admitted.
func (p Plan) Empty() bool {
	return len(p.Entries) == 0
}

// eligible reports whether a goal enters the allocation universe.
func eligible(g *models.Goal) bool {
	if !g.Active {
		return false
	}
	return (g.Priority == models.PriorityHigh && g.Consuming()) || g.Restoring()
}

// Allocate picks goals greedily by cost descending, so restoring goals come
// first and bank budget for the P1 goals that follow. A consuming goal that
// would push the balance below zero is skipped. Equal costs keep input order.
func Allocate(goals []*models.Goal, budget int) Plan {
	var universe []*models.Goal
	for _, g := range goals {
		if g != nil && eligible(g) {
			universe = append(universe, g)
		}
	}
	sort.SliceStable(universe, func(i, j int) bool {
		return universe[i].EnergyCost > universe[j].EnergyCost
	})

	plan := Plan{Budget: budget, Entries: []PlanEntry{}, Remaining: budget}
	for _, g := range universe {
		if g.EnergyCost < 0 && plan.Remaining+g.EnergyCost < 0 {
			continue
		}
		plan.Remaining += g.EnergyCost
		plan.Entries = append(plan.Entries, PlanEntry{
			Order:     len(plan.Entries) + 1,
			Goal:      *g,
			Cost:      g.EnergyCost,
			Remaining: plan.Remaining,
		})
	}
	return plan
}
