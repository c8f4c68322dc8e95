package port

import (
	"context"

	"github.com/MikeRez0/trucksy/internal/core/domain"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
type Repository interface {
	CatalogRepository
	UserRepository
	OrderRepository
	OwnerRepository
	ChargeRepository
}

type CatalogRepository interface {
	ReadTruck(ctx context.Context, truckID uint64) (*domain.Truck, error)
	ReadItem(ctx context.Context, itemID uint64) (*domain.Item, error)
}

type UserRepository interface {
	ReadUser(ctx context.Context, userID uint64) (*domain.User, error)
	ReadAccount(ctx context.Context, userID uint64) (*domain.Account, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ReadOrder(ctx context.Context, orderID uint64) (*domain.Order, error)
	ListOrdersByClient(ctx context.Context, clientID uint64) ([]*domain.Order, error)
	ListOrdersByTruck(ctx context.Context, truckID uint64) ([]*domain.Order, error)
	// UpdateOrderStatus locks the order and persists its status if updateFn succeeds.
	UpdateOrderStatus(ctx context.Context, orderID uint64, updateFn UpdateOrderFn) (*domain.Order, error)
	// SettleOrder locks the order, the client account and the charge, then persists all
	// three in one transaction if settleFn succeeds.
	SettleOrder(ctx context.Context, orderID uint64, chargeID string, settleFn SettleOrderFn) (*domain.Order, error)
}

type OwnerRepository interface {
	ReadOwner(ctx context.Context, ownerID uint64) (*domain.Owner, error)
	UpdateSubscription(ctx context.Context, ownerID uint64, updateFn UpdateSubscriptionFn) (*domain.Owner, error)
	SettleSubscription(ctx context.Context,
		ownerID uint64, chargeID string, settleFn SettleSubscriptionFn) (*domain.Owner, error)
}

type ChargeRepository interface {
	CreateCharge(ctx context.Context, charge *domain.Charge) error
	ReadCharge(ctx context.Context, chargeID string) (*domain.Charge, error)
}

type UpdateOrderFn func(*domain.Order) error
type SettleOrderFn func(*domain.Order, *domain.Account, *domain.Charge) error
type UpdateSubscriptionFn func(*domain.Owner) error
type SettleSubscriptionFn func(*domain.Owner, *domain.Account, *domain.Charge) error
