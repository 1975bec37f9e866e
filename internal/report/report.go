package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/ledgerlens-dev/ledgerlens/internal/aggregate"
	"github.com/ledgerlens-dev/ledgerlens/internal/model"
	"github.com/ledgerlens-dev/ledgerlens/internal/recurrence"
)

const headerWidth = 80

// Options controls which parts of a report are printed.
type Options struct {
	Category     string // limit output to one category
	TotalsOnly   bool
	Detail       bool
	AveragesOnly bool
	NoColor      bool
}

// Printer renders text reports over a frozen snapshot.
type Printer struct {
	w    io.Writer
	opts Options

	category    *color.Color
	transaction *color.Color
	subtotal    *color.Color
	total       *color.Color
	average     *color.Color
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, opts Options) *Printer {
	p := &Printer{
		w:    w,
		opts: opts,

		category:    color.New(color.Attribute(38), color.Attribute(5), color.Attribute(61)),
		transaction: color.New(color.FgGreen),
		subtotal:    color.New(color.FgCyan),
		total:       color.New(color.FgYellow),
		average:     color.New(color.FgGreen),
	}
	if opts.NoColor {
		for _, c := range []*color.Color{p.category, p.transaction, p.subtotal, p.total, p.average} {
			c.DisableColor()
		}
	}
	return p
}

// CategoryReport prints each category in descending order of absolute
// total, and within each category its merchants in the same order.
func (p *Printer) CategoryReport(s *aggregate.Snapshot) {
	for _, ce := range s.SortedCategories() {
		if p.opts.Category != "" && p.opts.Category != ce.Name {
			continue
		}

		if !p.opts.TotalsOnly {
			p.println(p.category, ruleHeader(ce.Name))
			p.printMerchants(ce.Agg)
		}

		p.println(p.total, fmt.Sprintf("%10s %10d Total %s",
			money(ce.Agg.Total), ce.Agg.Count, ce.Name))
	}
}

func (p *Printer) printMerchants(c *aggregate.CategoryAggregate) {
	for _, me := range c.SortedMerchants() {
		if p.opts.Detail {
			for _, tx := range transactionsByDate(me.Agg.Transactions) {
				p.println(p.transaction, fmt.Sprintf("%10s %s %s",
					money(tx.Amount), tx.Date.Format("2006-01-02"), tx.RawDescription))
			}
		}
		p.println(p.subtotal, fmt.Sprintf("%10s %10d %s",
			money(me.Agg.Total), me.Agg.Count, me.Name))
	}
}

// MonthlyReport prints per-category monthly totals and two averages: one
// over the requested span and one over the months that have data.
func (p *Printer) MonthlyReport(s *aggregate.Snapshot, spanMonths int) {
	if spanMonths < 1 {
		spanMonths = 1
	}

	for _, ce := range s.SortedCategories() {
		if p.opts.Category != "" && p.opts.Category != ce.Name {
			continue
		}

		if !p.opts.AveragesOnly {
			p.println(p.category, ruleHeader(ce.Name))
		}

		months := ce.Agg.Months()
		for _, month := range months {
			if !p.opts.AveragesOnly {
				p.println(p.subtotal, fmt.Sprintf("%s %10s", month, money(ce.Agg.MonthlyTotals[month])))
			}
		}

		if !p.opts.AveragesOnly {
			p.println(p.total, fmt.Sprintf("%18s   Total %s over %d months",
				money(ce.Agg.Total), ce.Name, spanMonths))
		}

		span := ce.Agg.Total.Div(decimal.NewFromInt(int64(spanMonths)))
		p.println(p.average, fmt.Sprintf("%18s Average %s over %d months span",
			money(span), ce.Name, spanMonths))

		if len(months) > 0 && !p.opts.AveragesOnly {
			active := ce.Agg.Total.Div(decimal.NewFromInt(int64(len(months))))
			p.println(p.average, fmt.Sprintf("%18s Average %s over %d months with data",
				money(active), ce.Name, len(months)))
		}

		if p.opts.Detail && !p.opts.AveragesOnly {
			for _, me := range ce.Agg.MerchantsByTotal() {
				fmt.Fprintf(p.w, "%18s %5d %s\n", money(me.Agg.Total), me.Agg.Count, me.Name)
			}
		}
	}
}

// RecurringReport prints detected patterns sorted by descending
// annualized amount.
func (p *Printer) RecurringReport(patterns []recurrence.Pattern, mode recurrence.Mode) {
	title := "Recurring Expenses"
	if mode == recurrence.Income {
		title = "Recurring Income"
	}
	p.println(p.category, ruleHeader(title))

	if len(patterns) == 0 {
		p.println(p.total, fmt.Sprintf("No recurring %s detected", mode))
		return
	}

	p.println(p.transaction, fmt.Sprintf("%10s %12s %7s  %s", "monthly", "annualized", "months", "merchant"))
	for _, pat := range patterns {
		p.println(p.subtotal, fmt.Sprintf("%10s %12s %7d  %s",
			money(pat.AverageAmount), money(pat.AnnualizedAmount), pat.MonthCount, pat.Merchant))
	}
}

func (p *Printer) println(c *color.Color, text string) {
	fmt.Fprintln(p.w, c.Sprint(text))
}

// ruleHeader right-aligns " name" in a dash-filled 80-column banner.
func ruleHeader(name string) string {
	label := " " + name
	if pad := headerWidth - len(label); pad > 0 {
		return strings.Repeat("-", pad) + label
	}
	return label
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func transactionsByDate(txns []model.Transaction) []model.Transaction {
	sorted := make([]model.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	return sorted
}
