package port

import (
	"context"
	"encoding/json"

	"github.com/MikeRez0/trucksy/internal/core/domain"
)

type ChargeRequest struct {
	AmountMinor int64
	Currency    string
	Card        domain.Card
	CallbackURL string
	Description string
}

type ChargeResponse struct {
	ID     string
	Status string
	Body   json.RawMessage
}

// PaymentStatus is the gateway's own record of a transaction.
type PaymentStatus struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	AmountMinor int64  `json:"amount"`
	Currency    string `json:"currency"`
}

//go:generate mockgen -source=gateway.go -destination=mock/gateway.go -package=mock
type PaymentGateway interface {
	Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error)
	Status(ctx context.Context, transactionID string) (*PaymentStatus, error)
}
