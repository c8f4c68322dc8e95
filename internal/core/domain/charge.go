package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/govalues/decimal"
)

type ChargeKind string

const (
	ChargeKindOrder        ChargeKind = "order"
	ChargeKindSubscription ChargeKind = "subscription"
)

type ChargeStatus string

const (
	ChargeStatusPending ChargeStatus = "PENDING"
	ChargeStatusSettled ChargeStatus = "SETTLED"
)

// GatewayStatusPaid is the only gateway status that settles a charge.
const GatewayStatusPaid = "paid"

// Charge correlates a gateway transaction with the subject it pays for.
// It is recorded when the gateway accepts the charge and settled by the callback.
type Charge struct {
	ID        string
	Kind      ChargeKind
	SubjectID uint64
	Amount    decimal.Decimal
	Currency  string
	Status    ChargeStatus
	CreatedAt time.Time
	SettledAt *time.Time
}

func (c *Charge) Subject() string {
	return fmt.Sprintf("%s/%d", c.Kind, c.SubjectID)
}

func (c *Charge) BelongsTo(kind ChargeKind, subjectID uint64) bool {
	return c.Kind == kind && c.SubjectID == subjectID
}

func (c *Charge) IsSettled() bool {
	return c.Status == ChargeStatusSettled
}

func (c *Charge) Settle(now time.Time) error {
	if c.IsSettled() {
		return ErrAlreadySettled
	}
	c.Status = ChargeStatusSettled
	c.SettledAt = &now
	return nil
}

// ChargeInitiation is returned to the caller after the gateway accepted a charge.
// Gateway holds the raw gateway response, which carries the 3-D Secure redirect.
type ChargeInitiation struct {
	Kind      ChargeKind
	SubjectID uint64
	PaymentID string
	Status    string
	Amount    decimal.Decimal
	Currency  string
	Gateway   json.RawMessage
}

// Callback is the unauthenticated notification delivered by the gateway.
type Callback struct {
	TransactionID string
	Status        string
	Message       string
}

type CallbackResult struct {
	Kind           ChargeKind
	SubjectID      uint64
	PaymentID      string
	Status         string
	Amount         decimal.Decimal
	AlreadySettled bool
}
