package loader

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local)
}

const cardCSV = "Transaction Date,Post Date,Description,Category,Type,Amount\n" +
	"01/15/2024,01/16/2024,TRADER JOES #1,Groceries,Sale,-45.00\n" +
	"02/15/2024,02/16/2024,TRADER JOES #2,Groceries,Sale,-45.00\n" +
	"03/15/2024,03/16/2024,NETFLIX.COM,Entertainment,Sale,-15.49\n"

const checkingCSV = "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n" +
	"DEBIT,01/03/2024,COMCAST CABLE,-89.99,ACH_DEBIT,1200.50,\n" +
	"CREDIT,01/05/2024,PAYROLL ACME CORP,2500.00,ACH_CREDIT,3700.50,\n"

func TestReadCard(t *testing.T) {
	l := New(Window{})
	rows, err := l.Read("card.csv", strings.NewReader(cardCSV))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// "Transaction Date" wins over "Post Date".
	assert.True(t, rows[0].Date.Equal(day(2024, 1, 15)))
	assert.Equal(t, "TRADER JOES #1", rows[0].Description)
	assert.Equal(t, "-45", rows[0].Amount.String())
	assert.Equal(t, "Groceries", rows[0].Category)
	assert.Equal(t, "Sale", rows[0].Type)
	assert.Equal(t, "card.csv", rows[0].File)
}

func TestReadChecking(t *testing.T) {
	l := New(Window{})
	rows, err := l.Read("checking.csv", strings.NewReader(checkingCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.True(t, rows[0].Date.Equal(day(2024, 1, 3)))
	assert.Equal(t, "ACH_DEBIT", rows[0].Type)
	assert.Empty(t, rows[0].Category)
	assert.Equal(t, "2500", rows[1].Amount.String())
}

func TestWindowFilter(t *testing.T) {
	l := New(Window{Start: day(2024, 2, 1), End: day(2024, 3, 15)})
	rows, err := l.Read("card.csv", strings.NewReader(cardCSV))
	require.NoError(t, err)

	// 01/15 is before the window; 03/15 equals the exclusive end bound.
	require.Len(t, rows, 1)
	assert.Equal(t, "TRADER JOES #2", rows[0].Description)
}

func TestWindowOpenBounds(t *testing.T) {
	l := New(Window{Start: day(2024, 3, 1)})
	rows, err := l.Read("card.csv", strings.NewReader(cardCSV))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "NETFLIX.COM", rows[0].Description)

	l = New(Window{End: day(2024, 2, 1)})
	rows, err = l.Read("card.csv", strings.NewReader(cardCSV))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "TRADER JOES #1", rows[0].Description)
}

func TestBadDateAborts(t *testing.T) {
	csv := "Transaction Date,Description,Amount\n" +
		"01/15/2024,OK ROW,-1.00\n" +
		"2024-02-15,BAD ROW,-2.00\n"
	_, err := New(Window{}).Read("bad.csv", strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.csv row 3")
	assert.Contains(t, err.Error(), "parsing date")
}

func TestBadAmountAborts(t *testing.T) {
	csv := "Transaction Date,Description,Amount\n" +
		"01/15/2024,BAD ROW,forty-five\n"
	_, err := New(Window{}).Read("bad.csv", strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing amount")
}

func TestMissingColumns(t *testing.T) {
	_, err := New(Window{}).Read("x.csv", strings.NewReader("Description,Amount\nA,-1.00\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no date column")

	_, err = New(Window{}).Read("x.csv", strings.NewReader("Transaction Date,Amount\n01/01/2024,-1.00\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing "Description"`)

	_, err = New(Window{}).Read("x.csv", strings.NewReader("Transaction Date,Description\n01/01/2024,A\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing "Amount"`)
}

func TestEmptyAndHeaderOnly(t *testing.T) {
	rows, err := New(Window{}).Read("x.csv", strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = New(Window{}).Read("x.csv", strings.NewReader("Transaction Date,Description,Amount\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCrossFileDuplicatesDropped(t *testing.T) {
	// Two trailing-90-day exports pulled a month apart share 60 days of rows.
	overlap := "Transaction Date,Description,Amount\n" +
		"01/15/2024,SHARED ROW,-10.00\n"
	first := overlap + "01/20/2024,ONLY IN FIRST,-20.00\n"
	second := overlap + "02/20/2024,ONLY IN SECOND,-30.00\n"

	l := New(Window{})
	rows1, err := l.Read("jan.csv", strings.NewReader(first))
	require.NoError(t, err)
	rows2, err := l.Read("feb.csv", strings.NewReader(second))
	require.NoError(t, err)

	require.Len(t, rows1, 2)
	require.Len(t, rows2, 1)
	assert.Equal(t, "ONLY IN SECOND", rows2[0].Description)
}

func TestSameFileRepeatsKept(t *testing.T) {
	// Two identical rows in one file are two real transactions.
	csv := "Transaction Date,Description,Amount\n" +
		"01/15/2024,COFFEE SHOP,-4.50\n" +
		"01/15/2024,COFFEE SHOP,-4.50\n"
	rows, err := New(Window{}).Read("day.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestReloadingSameFileIsIdempotent(t *testing.T) {
	csv := "Transaction Date,Description,Amount\n" +
		"01/15/2024,COFFEE SHOP,-4.50\n" +
		"01/15/2024,COFFEE SHOP,-4.50\n" +
		"01/16/2024,GROCERY,-60.00\n"

	l := New(Window{})
	rows1, err := l.Read("day.csv", strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows1, 3)

	rows2, err := l.Read("day.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, rows2)
}

func TestOrderPreserved(t *testing.T) {
	l := New(Window{})
	rows, err := l.LoadAll([]string{"../../testdata/card.csv", "../../testdata/checking.csv"})
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	// File order, then row order within each file: all card rows come
	// before all checking rows.
	assert.Equal(t, "../../testdata/card.csv", rows[0].File)
	assert.Equal(t, "../../testdata/checking.csv", rows[len(rows)-1].File)
	switched := false
	for _, row := range rows {
		if row.File == "../../testdata/checking.csv" {
			switched = true
		} else {
			assert.False(t, switched, "card row after checking rows began")
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := New(Window{}).Load("does-not-exist.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening")
}
