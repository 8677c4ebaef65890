package core

import "sort"

// Severity classifies how much of the monthly budget has been consumed.
// It drives the progress-bar color in the dashboard.
type Severity string

const (
	SeverityNormal   Severity = "normal"   // percent used <= 70
	SeverityWarning  Severity = "warning"  // 70 < percent used <= 90
	SeverityCritical Severity = "critical" // percent used > 90
)

// Thresholds for Severity, in hundredths of a percent. These are the only
// nontrivial business rule in the system and must not drift.
const (
	warningThresholdHundredths  = 7000 // 70.00%
	criticalThresholdHundredths = 9000 // 90.00%
)

type (
	// CategoryTotals maps every category in the fixed set to its summed
	// amount. ComputeCategoryTotals guarantees full coverage of the set.
	CategoryTotals map[Category]Money

	// Budget is the derived monthly snapshot. Remaining may be negative:
	// over-budget is a valid, displayable state, not an error.
	Budget struct {
		Total     Money
		Spent     Money
		Remaining Money
	}

	// CategoryShare is one category's slice of total spending.
	CategoryShare struct {
		Category Category
		Amount   Money
		// Percent of total spend, in hundredths of a percent.
		ShareHundredths int64
	}
)

// ComputeCategoryTotals folds a collection of expense records, optionally
// merged with a remotely supplied per-category baseline, into per-category
// totals. The output always covers every category in the fixed set.
//
// Malformed records are tolerated, never rejected: an unrecognized category
// folds into Other and a negative amount contributes zero. This is a display
// aggregation, not a validation gate.
func ComputeCategoryTotals(records []ExpenseRecord, baseline map[Category]Money) CategoryTotals {
	totals := make(CategoryTotals, len(categoryOrder))
	for _, c := range categoryOrder {
		totals[c] = baseline[c] // zero value when absent
	}
	for _, r := range records {
		cat := r.Category
		if !cat.IsValid() {
			cat = Other
		}
		cents := r.Amount.Cents
		if cents < 0 {
			cents = 0
		}
		totals[cat] = Money{Cents: totals[cat].Cents + cents}
	}
	return totals
}

// ComputeBudget derives the budget snapshot from category totals and the
// configured monthly ceiling.
func ComputeBudget(totals CategoryTotals, monthlyBudget Money) Budget {
	var spent int64
	for _, m := range totals {
		spent += m.Cents
	}
	return Budget{
		Total:     monthlyBudget,
		Spent:     Money{Cents: spent},
		Remaining: Money{Cents: monthlyBudget.Cents - spent},
	}
}

// PercentUsedHundredths returns spent/total as hundredths of a percent with
// half-up rounding, computed in integer arithmetic so boundary cases are
// exact. A zero total yields zero rather than a division by zero.
func (b Budget) PercentUsedHundredths() int64 {
	if b.Total.Cents <= 0 {
		return 0
	}
	spent := b.Spent.Cents
	if spent < 0 {
		spent = 0
	}
	return (spent*10000 + b.Total.Cents/2) / b.Total.Cents
}

// PercentUsed returns the percentage of budget consumed, rounded to two
// decimal places.
func (b Budget) PercentUsed() float64 {
	return float64(b.PercentUsedHundredths()) / 100.0
}

// Severity classifies the budget snapshot into the three display tiers.
func (b Budget) Severity() Severity {
	pct := b.PercentUsedHundredths()
	switch {
	case pct > criticalThresholdHundredths:
		return SeverityCritical
	case pct > warningThresholdHundredths:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}

// ComputeCategoryShares returns each category's percentage of total spending
// in fixed display order. When spent is zero every share is zero.
func ComputeCategoryShares(totals CategoryTotals, spent Money) []CategoryShare {
	shares := make([]CategoryShare, 0, len(categoryOrder))
	for _, c := range categoryOrder {
		amount := totals[c]
		var share int64
		if spent.Cents > 0 && amount.Cents > 0 {
			share = (amount.Cents*10000 + spent.Cents/2) / spent.Cents
		}
		shares = append(shares, CategoryShare{Category: c, Amount: amount, ShareHundredths: share})
	}
	return shares
}

// SortByDateDesc orders records newest-first for display. The sort is stable
// so same-day records keep their insertion order. The input slice is not
// modified.
func SortByDateDesc(records []ExpenseRecord) []ExpenseRecord {
	out := make([]ExpenseRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Date.Before(out[i].Date)
	})
	return out
}
