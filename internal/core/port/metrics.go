package port

import (
	"context"

	"github.com/MikeRez0/trucksy/internal/core/domain"
)

type Metrics interface {
	OrderPlaced(ctx context.Context, amountMinor int64)
	PaymentSettled(ctx context.Context, kind domain.ChargeKind, amountMinor int64)
	CallbackRejected(ctx context.Context, kind domain.ChargeKind, reason error)
	NotificationFailed(ctx context.Context, channel string)
}
