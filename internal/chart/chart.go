// Package chart renders terminal charts over a frozen snapshot. Chart
// views honor the configured category-exclusion set; text reports do not.
package chart

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/shopspring/decimal"

	"github.com/ledgerlens-dev/ledgerlens/internal/aggregate"
)

const (
	barWidth        = 50
	timelineHeight  = 12
	movingAvgWindow = 4
)

// Chart renders terminal charts for one snapshot and date span.
type Chart struct {
	w        io.Writer
	snapshot *aggregate.Snapshot
	excludes map[string]bool
	span     int // requested span in months, for titles
	start    time.Time
	end      time.Time
}

// New creates a Chart. The excludes set holds category names withheld
// from every chart view.
func New(w io.Writer, s *aggregate.Snapshot, excludes map[string]bool, span int, start, end time.Time) *Chart {
	return &Chart{w: w, snapshot: s, excludes: excludes, span: span, start: start, end: end}
}

// Excluded reports whether a category is withheld from chart views.
func (c *Chart) Excluded(name string) bool {
	return c.excludes[name]
}

// CategoryTotals renders a horizontal bar chart of category totals,
// expense-positive, in descending order of absolute total.
func (c *Chart) CategoryTotals() {
	fmt.Fprintln(c.w, c.title("Category Totals"))

	entries := c.included()
	maxAbs := decimal.Zero
	for _, ce := range entries {
		if abs := ce.Agg.Total.Abs(); abs.GreaterThan(maxAbs) {
			maxAbs = abs
		}
	}

	for _, ce := range entries {
		// Spending is negative in the source data; flip it so bars grow
		// with spend, as the original charts did.
		value := ce.Agg.Total.Neg().Round(0)
		fmt.Fprintf(c.w, "%-24s %10s %s\n", ce.Name, value.StringFixed(0), bar(ce.Agg.Total.Abs(), maxAbs))
	}
}

// CategoryShares renders each included category's share of total
// absolute spend, largest first.
func (c *Chart) CategoryShares() {
	fmt.Fprintln(c.w, c.title("Category Shares"))

	entries := c.included()
	sum := decimal.Zero
	for _, ce := range entries {
		sum = sum.Add(ce.Agg.Total.Abs())
	}
	if sum.IsZero() {
		return
	}

	hundred := decimal.NewFromInt(100)
	for _, ce := range entries {
		pct := ce.Agg.Total.Abs().Mul(hundred).Div(sum)
		fmt.Fprintf(c.w, "%5s%% %10s %s\n", pct.StringFixed(1), ce.Agg.Total.Neg().Round(0).StringFixed(0), ce.Name)
	}
}

// MonthlyTimeline plots monthly totals as a line graph. With a category
// name it plots that category alone; otherwise it sums all included
// categories. A moving average overlays a second series.
func (c *Chart) MonthlyTimeline(category string, movingAverage bool) error {
	months, values, err := c.monthlySeries(category)
	if err != nil {
		return err
	}

	caption := "Monthly Totals"
	if category != "" {
		caption = fmt.Sprintf("Monthly Totals for %q", category)
	}

	opts := []asciigraph.Option{
		asciigraph.Height(timelineHeight),
		asciigraph.Caption(c.title(caption)),
	}

	var plot string
	if movingAverage {
		window := movingAvgWindow
		if len(values) < window {
			window = len(values)
		}
		plot = asciigraph.PlotMany(
			[][]float64{values, rollingMean(values, window)},
			append(opts,
				asciigraph.SeriesColors(asciigraph.Default, asciigraph.Red),
				asciigraph.SeriesLegends("monthly total", fmt.Sprintf("%d-month moving average", window)),
			)...,
		)
	} else {
		plot = asciigraph.Plot(values, opts...)
	}

	fmt.Fprintln(c.w, plot)
	fmt.Fprintf(c.w, "%s .. %s\n", months[0], months[len(months)-1])
	return nil
}

// included returns chart-eligible categories in descending absolute
// total order.
func (c *Chart) included() []aggregate.CategoryEntry {
	var entries []aggregate.CategoryEntry
	for _, ce := range c.snapshot.SortedCategories() {
		if c.Excluded(ce.Name) {
			continue
		}
		entries = append(entries, ce)
	}
	return entries
}

// monthlySeries builds a contiguous expense-positive month series,
// filling gaps with zero.
func (c *Chart) monthlySeries(category string) (months []string, values []float64, err error) {
	totals := make(map[string]decimal.Decimal)
	if category != "" {
		agg, ok := c.snapshot.Categories[category]
		if !ok {
			return nil, nil, fmt.Errorf("unknown category %q", category)
		}
		totals = agg.MonthlyTotals
	} else {
		for _, ce := range c.included() {
			for month, total := range ce.Agg.MonthlyTotals {
				totals[month] = totals[month].Add(total)
			}
		}
	}
	if len(totals) == 0 {
		return nil, nil, fmt.Errorf("no transactions to chart")
	}

	first, last := "", ""
	for month := range totals {
		if first == "" || month < first {
			first = month
		}
		if month > last {
			last = month
		}
	}

	for month := first; ; month = nextMonth(month) {
		months = append(months, month)
		value, _ := totals[month].Neg().Float64()
		values = append(values, value)
		if month == last {
			break
		}
	}
	return months, values, nil
}

// rollingMean mirrors the original chart's trailing moving average: each
// point averages up to window trailing values, fewer at the start.
func rollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		sum := 0.0
		for _, v := range values[lo : i+1] {
			sum += v
		}
		out[i] = sum / float64(i+1-lo)
	}
	return out
}

func bar(value, max decimal.Decimal) string {
	if max.IsZero() {
		return ""
	}
	n := int(value.Mul(decimal.NewFromInt(barWidth)).Div(max).Round(0).IntPart())
	return strings.Repeat("█", n)
}

func (c *Chart) title(name string) string {
	if c.start.IsZero() || c.end.IsZero() {
		return name
	}
	return fmt.Sprintf("%s over %d Months from %s to %s",
		name, c.span, c.start.Format("2006-01-02"), c.end.Format("2006-01-02"))
}

func nextMonth(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return t.AddDate(0, 1, 0).Format("2006-01")
}
