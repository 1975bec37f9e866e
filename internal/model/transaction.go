package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one dated, signed monetary movement from a bank export.
// Amount keeps the export's sign convention: negative = expense,
// positive = credit/income.
type Transaction struct {
	Date           time.Time // local midnight of the transaction day
	Amount         decimal.Decimal
	RawDescription string
	Merchant       string // canonical name after alias normalization
	Category       string
	SourceFile     string // which export the row came from, for dedup bookkeeping
}
