package domain_test

import (
	"testing"

	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccount_Debit(t *testing.T) {
	tests := []struct {
		name       string
		balance    string
		amount     string
		expError   error
		expBalance string
	}{
		{"enough", "50.00", "45.00", nil, "5.00"},
		{"exact", "30", "30", nil, "0"},
		{"not enough", "20", "30", domain.ErrInsufficientBalance, "20"},
		{"cents short", "44.99", "45.00", domain.ErrInsufficientBalance, "44.99"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			a := &domain.Account{Balance: decimal.MustParse(test.balance)}
			err := a.Debit(decimal.MustParse(test.amount))
			assert.Equal(t, test.expError, err)
			assert.Equal(t, 0, a.Balance.Cmp(decimal.MustParse(test.expBalance)))
			assert.False(t, a.Balance.IsNeg())
		})
	}
}
