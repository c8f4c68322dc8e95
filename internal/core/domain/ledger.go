package domain

import (
	"fmt"

	"github.com/govalues/decimal"
)

// Card is the payment instrument forwarded to the gateway.
type Card struct {
	Name   string
	Number string
	CVC    string
	Month  string
	Year   string
}

// Account is the internal balance ledger of a user together with their bank card.
type Account struct {
	UserID  uint64
	Balance decimal.Decimal
	Card    Card
}

func (a *Account) CanAfford(amount decimal.Decimal) bool {
	return a.Balance.Cmp(amount) >= 0
}

// Debit subtracts amount from the balance. The balance never goes negative.
func (a *Account) Debit(amount decimal.Decimal) error {
	if !a.CanAfford(amount) {
		return ErrInsufficientBalance
	}
	b, err := a.Balance.Sub(amount)
	if err != nil {
		return fmt.Errorf("math error: %w", err)
	}
	a.Balance = b
	return nil
}
