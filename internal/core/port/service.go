package port

import (
	"context"

	"github.com/MikeRez0/trucksy/internal/core/domain"
)

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock
type Service interface {
	CreateOrder(ctx context.Context,
		clientID uint64, truckID uint64, lines []domain.LineRequest) (*domain.ChargeInitiation, error)
	HandleOrderCallback(ctx context.Context, orderID uint64, cb *domain.Callback) (*domain.CallbackResult, error)
	AdvanceOrderStatus(ctx context.Context,
		ownerID uint64, truckID uint64, orderID uint64, target domain.OrderStatus) (*domain.Order, error)
	ListClientOrders(ctx context.Context, clientID uint64) ([]*domain.Order, error)
	ListTruckOrders(ctx context.Context, ownerID uint64, truckID uint64) ([]*domain.Order, error)
	GetTruckOrder(ctx context.Context, ownerID uint64, truckID uint64, orderID uint64) (*domain.Order, error)
	PaymentStatus(ctx context.Context, paymentID string) (*PaymentStatus, error)

	Subscribe(ctx context.Context, ownerID uint64) (*domain.ChargeInitiation, error)
	HandleSubscriptionCallback(ctx context.Context, ownerID uint64, cb *domain.Callback) (*domain.CallbackResult, error)
	SubscriptionStatus(ctx context.Context, ownerID uint64) (*domain.SubscriptionSnapshot, error)
	CancelSubscription(ctx context.Context, ownerID uint64) (*domain.SubscriptionSnapshot, error)
}
