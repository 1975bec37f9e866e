// Package recurrence classifies merchant transaction histories as
// recurring payment streams. Detection is a pure pass over one merchant's
// pooled transactions: every stage is a precondition gate that degrades to
// "not recurring" for short, inconsistent, or irregular histories, so the
// detector never errors.
package recurrence

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerlens-dev/ledgerlens/internal/model"
)

// Mode selects which sign of transaction a detection pass considers.
type Mode int

const (
	// Expenses detects recurring charges (amount < 0).
	Expenses Mode = iota
	// Income detects repeating deposits (amount > 0).
	Income
)

func (m Mode) String() string {
	if m == Income {
		return "income"
	}
	return "expenses"
}

const (
	minTransactions = 3
	minMonths       = 3
	minMeanGapDays  = 20.0
	maxMeanGapDays  = 40.0
	recencyYears    = 2
	monthsPerYear   = 12
)

var (
	outlierFloor = decimal.New(5, -1) // amounts below half the median are dropped
	amountTol    = decimal.New(2, -1) // survivors must sit within ±20% of the median
)

// Options configures a detection pass. Mode and the recency gate are
// independent switches.
type Options struct {
	Mode Mode

	// RequireRecent rejects merchants whose latest matching transaction
	// is more than two years old.
	RequireRecent bool

	// Now anchors the recency gate; zero means time.Now().
	Now time.Time
}

// Pattern describes one detected recurring payment stream.
type Pattern struct {
	Merchant         string
	MonthCount       int             // distinct calendar months contributing
	AverageAmount    decimal.Decimal // mean of the filtered absolute amounts
	AnnualizedAmount decimal.Decimal // AverageAmount * 12
}

// Detect classifies one merchant's pooled transaction history. It returns
// the detected pattern and true, or a zero Pattern and false when the
// history does not look like a recurring stream.
func Detect(name string, txns []model.Transaction, opts Options) (Pattern, bool) {
	if len(txns) < minTransactions {
		return Pattern{}, false
	}

	matched := filterSign(txns, opts.Mode)
	if len(matched) < minTransactions {
		return Pattern{}, false
	}

	// Drop small outliers: anything under half the median amount (a
	// partial refund, a one-off add-on) would poison the tolerance check.
	med := median(absAmounts(matched))
	floor := med.Mul(outlierFloor)
	kept := matched[:0:0]
	for _, tx := range matched {
		if !tx.Amount.Abs().LessThan(floor) {
			kept = append(kept, tx)
		}
	}
	if len(kept) < minTransactions {
		return Pattern{}, false
	}

	months := distinctMonths(kept)
	if len(months) < minMonths {
		return Pattern{}, false
	}

	// Every surviving amount must sit within ±20% of the recomputed
	// median; one inconsistent charge rejects the merchant outright.
	med = median(absAmounts(kept))
	tol := med.Mul(amountTol)
	for _, tx := range kept {
		if tx.Amount.Abs().Sub(med).Abs().GreaterThan(tol) {
			return Pattern{}, false
		}
	}

	dates := sortedDates(kept)
	if len(dates) >= 2 && !monthlyCadence(dates) {
		return Pattern{}, false
	}

	if opts.RequireRecent {
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		if dates[len(dates)-1].Before(now.AddDate(-recencyYears, 0, 0)) {
			return Pattern{}, false
		}
	}

	sum := decimal.Zero
	for _, tx := range kept {
		sum = sum.Add(tx.Amount.Abs())
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(kept))))

	return Pattern{
		Merchant:         name,
		MonthCount:       len(months),
		AverageAmount:    avg,
		AnnualizedAmount: avg.Mul(decimal.NewFromInt(monthsPerYear)),
	}, true
}

// DetectAll runs Detect over every merchant and returns the patterns
// sorted by descending annualized amount, ties by merchant name.
func DetectAll(byMerchant map[string][]model.Transaction, opts Options) []Pattern {
	names := make([]string, 0, len(byMerchant))
	for name := range byMerchant {
		names = append(names, name)
	}
	sort.Strings(names)

	var patterns []Pattern
	for _, name := range names {
		if p, ok := Detect(name, byMerchant[name], opts); ok {
			patterns = append(patterns, p)
		}
	}
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].AnnualizedAmount.GreaterThan(patterns[j].AnnualizedAmount)
	})
	return patterns
}

func filterSign(txns []model.Transaction, mode Mode) []model.Transaction {
	var matched []model.Transaction
	for _, tx := range txns {
		if mode == Expenses && tx.Amount.IsNegative() ||
			mode == Income && tx.Amount.IsPositive() {
			matched = append(matched, tx)
		}
	}
	return matched
}

func absAmounts(txns []model.Transaction) []decimal.Decimal {
	amounts := make([]decimal.Decimal, len(txns))
	for i, tx := range txns {
		amounts[i] = tx.Amount.Abs()
	}
	return amounts
}

// median returns the element at index floor(n/2) of the ascending sort:
// no interpolation, even-length input takes the upper middle element.
func median(amounts []decimal.Decimal) decimal.Decimal {
	sorted := make([]decimal.Decimal, len(amounts))
	copy(sorted, amounts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	return sorted[len(sorted)/2]
}

func distinctMonths(txns []model.Transaction) map[string]struct{} {
	months := make(map[string]struct{})
	for _, tx := range txns {
		months[tx.Date.Format("2006-01")] = struct{}{}
	}
	return months
}

func sortedDates(txns []model.Transaction) []time.Time {
	dates := make([]time.Time, len(txns))
	for i, tx := range txns {
		dates[i] = tx.Date
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// monthlyCadence reports whether the mean gap between consecutive dates
// falls in the inclusive [20, 40] day band.
func monthlyCadence(dates []time.Time) bool {
	totalDays := 0.0
	for i := 1; i < len(dates); i++ {
		// Dates are local midnights; rounding absorbs DST-shortened days.
		hours := dates[i].Sub(dates[i-1]).Hours()
		totalDays += float64(int(hours/24 + 0.5))
	}
	mean := totalDays / float64(len(dates)-1)
	return mean >= minMeanGapDays && mean <= maxMeanGapDays
}
