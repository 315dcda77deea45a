// ABOUTME: Turns an assessment into a bounded daily energy budget.
// ABOUTME: Additive adjustments per signal category over a fixed base, floored.
package energy

// Budget constants. There is no ceiling.
const (
	BaseBudget = 50
	MinBudget  = 5
)

// Breakdown shows how each signal category moved the budget.
type Breakdown struct {
	Base      int  `json:"base"`
	Sleep     int  `json:"sleep"`
	RHR       int  `json:"rhr"`
	Stress    int  `json:"stress"`
	TrainLoad int  `json:"train_load"`
	Total     int  `json:"total"`
	NoData    bool `json:"no_data"`
}

// BudgetBreakdown computes the per-category adjustments and the floored total.
func BudgetBreakdown(a Assessment) Breakdown {
	if a.State == StateNoData {
		return Breakdown{Base: BaseBudget, Total: BaseBudget, NoData: true}
	}

	b := Breakdown{Base: BaseBudget}

	switch sh := a.SleepHours; {
	case sh >= 8:
		b.Sleep = 20
	case sh >= 7:
		b.Sleep = 10
	case sh >= 6:
	case sh > 0:
		b.Sleep = -20
	}

	if a.LatestRHR > 0 && a.RHRBaseline > 0 {
		switch diff := a.LatestRHR - a.RHRBaseline; {
		case diff > 5:
			b.RHR = -15
		case diff > 2:
			b.RHR = -10
		case diff < -2:
			b.RHR = 10
		}
	}

	switch {
	case a.LatestStress > 50:
		b.Stress = -15
	case a.LatestStress > 30:
		b.Stress = -5
	}

	switch {
	case a.AvgTrainLoad > 120:
		b.TrainLoad = -20
	case a.AvgTrainLoad > 90:
		b.TrainLoad = -10
	}

	b.Total = max(MinBudget, b.Base+b.Sleep+b.RHR+b.Stress+b.TrainLoad)
	return b
}

// Budget returns the day's energy points, never below MinBudget.
func Budget(a Assessment) int {
	return BudgetBreakdown(a).Total
}
