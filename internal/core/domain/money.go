package domain

import (
	"fmt"
	"strconv"

	"github.com/govalues/decimal"
)

// MoneyScale is the number of fraction digits of the settlement currency.
const MoneyScale = 2

// ToMinorUnits converts an amount to the gateway representation (halalas, cents).
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	minor, err := amount.Round(MoneyScale).Mul(decimal.Hundred)
	if err != nil {
		return 0, fmt.Errorf("math error: %w", err)
	}
	v, err := strconv.ParseInt(minor.Trunc(0).String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %s out of range: %w", amount, err)
	}
	return v, nil
}

func FromMinorUnits(minor int64) (decimal.Decimal, error) {
	return decimal.New(minor, MoneyScale)
}
