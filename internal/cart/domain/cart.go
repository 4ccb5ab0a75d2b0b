package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one line of the cart. Title and UnitPrice are copied from the
// product when it is first added and are not refreshed afterwards.
type CartItem struct {
	ProductID int
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type ReceiptLine struct {
	ProductID int
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Receipt is what checkout hands back. It is not stored anywhere.
type Receipt struct {
	ID       string
	Lines    []ReceiptLine
	Total    decimal.Decimal
	PlacedAt time.Time
}
