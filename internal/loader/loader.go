package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateFormat = "01/02/2006"

// Credit-card exports carry "Transaction Date"; checking exports carry
// "Posting Date" or "Post Date". The first column present wins.
var dateColumns = []string{"Transaction Date", "Posting Date", "Post Date"}

// Window is a half-open date range [Start, End) compared at day
// granularity. A zero bound is unbounded.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether day falls inside the window.
func (w Window) Contains(day time.Time) bool {
	if !w.Start.IsZero() && day.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && !day.Before(w.End) {
		return false
	}
	return true
}

// Row is one parsed export row that survived the window filter and
// deduplication. Category and Type are the export's own values and may be
// empty; final categorization happens downstream.
type Row struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Category    string
	Type        string
	File        string
}

// sighting records where a row signature was first seen and how many
// occurrences a single read of that file contributed.
type sighting struct {
	file  string
	count int
}

// Loader reads bank CSV exports, applies a date window, and drops rows
// that reappear across overlapping export files. Dedup state spans all
// files read by one Loader, so files must be loaded through the same
// instance for cross-file duplicates to be detected.
type Loader struct {
	window Window
	seen   map[string]sighting
}

// New creates a Loader for the given date window.
func New(window Window) *Loader {
	return &Loader{window: window, seen: make(map[string]sighting)}
}

// LoadAll reads every file in order and returns the surviving rows in
// file order, then row order within each file.
func (l *Loader) LoadAll(paths []string) ([]Row, error) {
	var rows []Row
	for _, path := range paths {
		fileRows, err := l.Load(path)
		if err != nil {
			return nil, err
		}
		rows = append(rows, fileRows...)
	}
	return rows, nil
}

// Load reads one CSV export file.
func (l *Loader) Load(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return l.Read(path, f)
}

// Read parses a CSV export from r. The name identifies the source file for
// deduplication and error messages. A malformed date or amount aborts the
// read; there is no partial-row recovery.
func (l *Loader) Read(name string, r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	cols, err := mapColumns(name, records[0])
	if err != nil {
		return nil, err
	}

	var rows []Row
	local := make(map[string]int) // occurrences of each signature in this read
	for i, rec := range records[1:] {
		row, err := parseRow(name, cols, rec)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", name, i+2, err)
		}
		if !l.window.Contains(row.Date) {
			continue
		}

		// The same signature repeated within one file is genuinely
		// separate transactions (two identical coffees on one day).
		// The same signature from a different file is an overlapping
		// export, and a repeat occurrence from an earlier read of this
		// same file is a reload; both are dropped silently.
		sig := strings.Join(rec, "\x1f")
		n := local[sig] + 1
		local[sig] = n
		if s, ok := l.seen[sig]; ok {
			if s.file != name || n <= s.count {
				continue
			}
		}
		l.seen[sig] = sighting{file: name, count: n}

		rows = append(rows, row)
	}
	return rows, nil
}

// columns holds resolved header indexes. Optional columns are -1.
type columns struct {
	date     int
	desc     int
	amount   int
	category int
	typ      int
}

func mapColumns(name string, header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		if _, ok := index[h]; !ok {
			index[h] = i
		}
	}

	find := func(col string) int {
		if i, ok := index[col]; ok {
			return i
		}
		return -1
	}

	cols := columns{
		date:     -1,
		desc:     find("Description"),
		amount:   find("Amount"),
		category: find("Category"),
		typ:      find("Type"),
	}
	for _, col := range dateColumns {
		if i := find(col); i >= 0 {
			cols.date = i
			break
		}
	}

	if cols.date < 0 {
		return columns{}, fmt.Errorf("%s: no date column (expected one of %s)", name, strings.Join(dateColumns, ", "))
	}
	if cols.desc < 0 {
		return columns{}, fmt.Errorf("%s: missing %q column", name, "Description")
	}
	if cols.amount < 0 {
		return columns{}, fmt.Errorf("%s: missing %q column", name, "Amount")
	}
	return cols, nil
}

func parseRow(name string, cols columns, rec []string) (Row, error) {
	date, err := time.ParseInLocation(dateFormat, rec[cols.date], time.Local)
	if err != nil {
		return Row{}, fmt.Errorf("parsing date %q: %w", rec[cols.date], err)
	}

	amount, err := decimal.NewFromString(rec[cols.amount])
	if err != nil {
		return Row{}, fmt.Errorf("parsing amount %q: %w", rec[cols.amount], err)
	}

	row := Row{
		Date:        date,
		Description: rec[cols.desc],
		Amount:      amount,
		File:        name,
	}
	if cols.category >= 0 {
		row.Category = rec[cols.category]
	}
	if cols.typ >= 0 {
		row.Type = rec[cols.typ]
	}
	return row, nil
}
