package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerlens-dev/ledgerlens/internal/loader"
	"github.com/ledgerlens-dev/ledgerlens/internal/merchant"
	"github.com/ledgerlens-dev/ledgerlens/internal/model"
)

// MerchantAggregate accumulates one merchant's transactions within a
// category. Transactions keep ingestion order.
type MerchantAggregate struct {
	Total        decimal.Decimal
	Count        int
	Transactions []model.Transaction
}

// CategoryAggregate accumulates totals for one category across its
// merchants and calendar months.
type CategoryAggregate struct {
	Total         decimal.Decimal
	Count         int
	Merchants     map[string]*MerchantAggregate
	MonthlyTotals map[string]decimal.Decimal // "YYYY-MM" -> summed amount

	merchantOrder []string // first-seen order, for stable sort ties
}

// Snapshot is the aggregation result of one ingestion pass. It is mutated
// only through Add during ingestion; reporting, charting, and recurrence
// detection consume it read-only.
type Snapshot struct {
	Categories map[string]*CategoryAggregate

	categoryOrder []string
}

// NewSnapshot creates an empty Snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{Categories: make(map[string]*CategoryAggregate)}
}

// Build runs the ingestion pass: filtered, deduplicated rows are
// normalized, categorized, and accumulated into a fresh Snapshot.
func Build(rows []loader.Row, norm *merchant.Normalizer) *Snapshot {
	s := NewSnapshot()
	for _, row := range rows {
		name := norm.Normalize(row.Description)
		s.Add(model.Transaction{
			Date:           row.Date,
			Amount:         row.Amount,
			RawDescription: row.Description,
			Merchant:       name,
			Category:       norm.Category(name, row.Category, row.Type),
			SourceFile:     row.File,
		})
	}
	return s
}

// Add accumulates one transaction into its category, merchant, and monthly
// buckets, creating each on first use.
func (s *Snapshot) Add(tx model.Transaction) {
	c := s.category(tx.Category)
	c.Total = c.Total.Add(tx.Amount)
	c.Count++

	m := c.merchant(tx.Merchant)
	m.Total = m.Total.Add(tx.Amount)
	m.Count++
	m.Transactions = append(m.Transactions, tx)

	key := MonthKey(tx.Date)
	c.MonthlyTotals[key] = c.MonthlyTotals[key].Add(tx.Amount)
}

func (s *Snapshot) category(name string) *CategoryAggregate {
	c, ok := s.Categories[name]
	if !ok {
		c = &CategoryAggregate{
			Merchants:     make(map[string]*MerchantAggregate),
			MonthlyTotals: make(map[string]decimal.Decimal),
		}
		s.Categories[name] = c
		s.categoryOrder = append(s.categoryOrder, name)
	}
	return c
}

func (c *CategoryAggregate) merchant(name string) *MerchantAggregate {
	m, ok := c.Merchants[name]
	if !ok {
		m = &MerchantAggregate{}
		c.Merchants[name] = m
		c.merchantOrder = append(c.merchantOrder, name)
	}
	return m
}

// CategoryEntry pairs a category name with its aggregate for sorted views.
type CategoryEntry struct {
	Name string
	Agg  *CategoryAggregate
}

// MerchantEntry pairs a merchant name with its aggregate for sorted views.
type MerchantEntry struct {
	Name string
	Agg  *MerchantAggregate
}

// SortedCategories returns categories by descending absolute total. Ties
// keep first-seen ingestion order.
func (s *Snapshot) SortedCategories() []CategoryEntry {
	entries := make([]CategoryEntry, 0, len(s.categoryOrder))
	for _, name := range s.categoryOrder {
		entries = append(entries, CategoryEntry{Name: name, Agg: s.Categories[name]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Agg.Total.Abs().GreaterThan(entries[j].Agg.Total.Abs())
	})
	return entries
}

// SortedMerchants returns the category's merchants by descending absolute
// total, ties in first-seen order.
func (c *CategoryAggregate) SortedMerchants() []MerchantEntry {
	entries := make([]MerchantEntry, 0, len(c.merchantOrder))
	for _, name := range c.merchantOrder {
		entries = append(entries, MerchantEntry{Name: name, Agg: c.Merchants[name]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Agg.Total.Abs().GreaterThan(entries[j].Agg.Total.Abs())
	})
	return entries
}

// MerchantsByTotal returns the category's merchants by ascending signed
// total, so the largest expenses come first.
func (c *CategoryAggregate) MerchantsByTotal() []MerchantEntry {
	entries := make([]MerchantEntry, 0, len(c.merchantOrder))
	for _, name := range c.merchantOrder {
		entries = append(entries, MerchantEntry{Name: name, Agg: c.Merchants[name]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Agg.Total.LessThan(entries[j].Agg.Total)
	})
	return entries
}

// Months returns the category's month keys in chronological order.
func (c *CategoryAggregate) Months() []string {
	months := make([]string, 0, len(c.MonthlyTotals))
	for m := range c.MonthlyTotals {
		months = append(months, m)
	}
	sort.Strings(months) // lexicographic == chronological for "YYYY-MM"
	return months
}

// ByMerchant pools transactions per canonical merchant across every
// category it appears under, for recurrence detection.
func (s *Snapshot) ByMerchant() map[string][]model.Transaction {
	pooled := make(map[string][]model.Transaction)
	for _, name := range s.categoryOrder {
		c := s.Categories[name]
		for _, mname := range c.merchantOrder {
			pooled[mname] = append(pooled[mname], c.Merchants[mname].Transactions...)
		}
	}
	return pooled
}

// DateRange returns the earliest and latest transaction dates in the
// snapshot, or zero times when it is empty.
func (s *Snapshot) DateRange() (first, last time.Time) {
	for _, c := range s.Categories {
		for _, m := range c.Merchants {
			for _, tx := range m.Transactions {
				if first.IsZero() || tx.Date.Before(first) {
					first = tx.Date
				}
				if last.IsZero() || tx.Date.After(last) {
					last = tx.Date
				}
			}
		}
	}
	return first, last
}

// MonthKey returns the local-time calendar month bucket for a date.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// MonthsBetween counts calendar months stepping from start until end is
// reached, so a span within one month counts as 1.
func MonthsBetween(start, end time.Time) int {
	n := 0
	for t := start; t.Before(end); t = t.AddDate(0, 1, 0) {
		n++
	}
	return n
}
