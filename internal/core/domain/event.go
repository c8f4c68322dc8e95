package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

type EventType string

const (
	EventOrderPaid             EventType = "OrderPaid"
	EventOrderStatusChanged    EventType = "OrderStatusChanged"
	EventSubscriptionActivated EventType = "SubscriptionActivated"
)

const eventVersion = 1

// Event is the envelope published after a state change has been committed.
// Payloads carry everything a notifier needs, so consumers never read the database.
type Event struct {
	ID            string          `json:"event_id"`
	Type          EventType       `json:"event_type"`
	Version       int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

func NewEvent(t EventType, producer string, subjectID uint64, payload any, now time.Time) (*Event, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling %s payload: %w", t, err)
	}
	return &Event{
		ID:            uuid.NewString(),
		Type:          t,
		Version:       eventVersion,
		OccurredAt:    now.UTC(),
		Producer:      producer,
		CorrelationID: strconv.FormatUint(subjectID, 10),
		Payload:       b,
	}, nil
}

func (e *Event) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("error decoding %s payload: %w", e.Type, err)
	}
	return nil
}

type OrderPaidPayload struct {
	OrderID     uint64          `json:"order_id"`
	PaymentID   string          `json:"payment_id"`
	Message     string          `json:"message"`
	TruckName   string          `json:"truck_name"`
	OwnerPhone  string          `json:"owner_phone,omitempty"`
	ClientName  string          `json:"client_name"`
	ClientEmail string          `json:"client_email,omitempty"`
	Lines       []InvoiceLine   `json:"lines"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
	PaidAt      time.Time       `json:"paid_at"`
}

type OrderStatusChangedPayload struct {
	OrderID     uint64      `json:"order_id"`
	Status      OrderStatus `json:"status"`
	TruckName   string      `json:"truck_name"`
	ClientPhone string      `json:"client_phone,omitempty"`
}

type SubscriptionActivatedPayload struct {
	OwnerID    uint64          `json:"owner_id"`
	PaymentID  string          `json:"payment_id"`
	OwnerName  string          `json:"owner_name"`
	OwnerEmail string          `json:"owner_email,omitempty"`
	Fee        decimal.Decimal `json:"fee"`
	Currency   string          `json:"currency"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
}
