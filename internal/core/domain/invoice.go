package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type InvoiceLine struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Invoice is the document attached to payment confirmation e-mails.
type Invoice struct {
	Number        string
	Title         string
	IssuedAt      time.Time
	CustomerName  string
	CustomerEmail string
	Seller        string
	PaymentID     string
	Status        string
	Lines         []InvoiceLine
	Total         decimal.Decimal
	Currency      string
	Notes         []string
}

// InvoiceLines snapshots order lines for an invoice.
func InvoiceLines(lines []OrderLine) ([]InvoiceLine, error) {
	res := make([]InvoiceLine, 0, len(lines))
	for _, l := range lines {
		total, err := l.Total()
		if err != nil {
			return nil, err
		}
		res = append(res, InvoiceLine{
			Description: l.ItemName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   total,
		})
	}
	return res, nil
}
