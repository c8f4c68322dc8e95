package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "PLACED"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusCompleted OrderStatus = "COMPLETED"
)

var validNext = map[OrderStatus]OrderStatus{
	OrderStatusPlaced: OrderStatusPaid,
	OrderStatusPaid:   OrderStatusReady,
	OrderStatusReady:  OrderStatusCompleted,
}

// CanTransition reports whether an order may move from one status to the next.
// Only single forward steps are allowed.
func CanTransition(from, to OrderStatus) bool {
	next, ok := validNext[from]
	return ok && next == to
}

type Order struct {
	ID         uint64
	ClientID   uint64
	TruckID    uint64
	Status     OrderStatus
	Lines      []OrderLine
	TotalPrice decimal.Decimal
	PaymentID  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type OrderLine struct {
	ItemID    uint64
	ItemName  string
	Quantity  int
	UnitPrice decimal.Decimal
}

func (l OrderLine) Total() (decimal.Decimal, error) {
	return l.UnitPrice.Mul(decimal.MustNew(int64(l.Quantity), 0))
}

// LineRequest is one entry of a client order request.
type LineRequest struct {
	ItemID   uint64
	Quantity int
}

// Advance moves the order to status `to`. The order is left untouched on error.
func (o *Order) Advance(to OrderStatus) error {
	if !CanTransition(o.Status, to) {
		return ErrInvalidTransition
	}
	o.Status = to
	return nil
}

// Settled reports whether the order has already been paid.
func (o *Order) Settled() bool {
	return o.Status != OrderStatusPlaced
}
