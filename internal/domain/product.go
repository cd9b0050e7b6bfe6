package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Money is an amount in cents.
type Money int64

// Money bounds, the int64 cent range.
const (
	MaxMoney Money = math.MaxInt64
	MinMoney Money = math.MinInt64
)

// Dollars converts a whole-dollar amount to Money.
func Dollars(d int64) Money {
	return Money(d * 100)
}

// MoneyFromDecimal converts an exact decimal dollar amount to cents.
// Amounts with sub-cent precision or outside the int64 cent range are
// rejected.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	cents := d.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has sub-cent precision", d.String())
	}
	if cents.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || cents.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return 0, fmt.Errorf("amount %s is out of range", d.String())
	}
	return Money(cents.IntPart()), nil
}

// Decimal returns the amount in dollars.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// String formats the amount for display: "$299", or "$12.50" when cents
// are present.
func (m Money) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	if m%100 == 0 {
		return fmt.Sprintf("%s$%d", sign, int64(m)/100)
	}
	return sign + "$" + m.Decimal().StringFixed(2)
}

// Product is an immutable catalog entry.
type Product struct {
	ID       int    `json:"id" validate:"gt=0"`
	Name     string `json:"name" validate:"required"`
	Price    Money  `json:"price" validate:"gte=0"`
	Category string `json:"category" validate:"required"`
	Image    string `json:"img" validate:"required,url"`
}
