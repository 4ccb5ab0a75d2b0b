package domain

import "github.com/shopspring/decimal"

type QuoteLine struct {
	ProductID int
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal

	// Set only when the quote was re-priced against the catalog.
	LivePrice decimal.Decimal
	Drifted   bool
}

type Quote struct {
	Lines    []QuoteLine
	Total    decimal.Decimal
	Repriced bool
}

// DriftedLines returns the lines whose live price differs from the cart.
func (q Quote) DriftedLines() []QuoteLine {
	var out []QuoteLine
	for _, ln := range q.Lines {
		if ln.Drifted {
			out = append(out, ln)
		}
	}
	return out
}
