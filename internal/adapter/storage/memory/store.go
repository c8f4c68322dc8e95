// Package memory is an in-process implementation of port.Repository.
// A single mutex covers every read-check-write, so settlement closures run serialized.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/MikeRez0/trucksy/internal/core/port"
)

type Store struct {
	mu sync.Mutex

	users    map[uint64]domain.User
	accounts map[uint64]domain.Account
	trucks   map[uint64]domain.Truck
	items    map[uint64]domain.Item
	owners   map[uint64]domain.Subscription
	orders   map[uint64]domain.Order
	charges  map[string]domain.Charge

	lastOrderID uint64
}

var _ port.Repository = (*Store)(nil)

func New() *Store {
	return &Store{
		users:    make(map[uint64]domain.User),
		accounts: make(map[uint64]domain.Account),
		trucks:   make(map[uint64]domain.Truck),
		items:    make(map[uint64]domain.Item),
		owners:   make(map[uint64]domain.Subscription),
		orders:   make(map[uint64]domain.Order),
		charges:  make(map[string]domain.Charge),
	}
}

// Seeding helpers. Catalog and account management live outside this service.

func (s *Store) PutUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *Store) PutAccount(a domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.UserID] = a
}

func (s *Store) PutTruck(t domain.Truck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trucks[t.ID] = t
}

func (s *Store) PutItem(i domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[i.ID] = i
}

func (s *Store) PutOwner(o domain.Owner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[o.ID] = o.User
	s.owners[o.ID] = copySubscription(o.Subscription)
}

func (s *Store) ReadTruck(_ context.Context, truckID uint64) (*domain.Truck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trucks[truckID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	return &t, nil
}

func (s *Store) ReadItem(_ context.Context, itemID uint64) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.items[itemID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	return &i, nil
}

func (s *Store) ReadUser(_ context.Context, userID uint64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	return &u, nil
}

func (s *Store) ReadAccount(_ context.Context, userID uint64) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[userID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	return &a, nil
}

func (s *Store) CreateOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastOrderID++
	o := copyOrder(*order)
	o.ID = s.lastOrderID
	s.orders[o.ID] = o
	res := copyOrder(o)
	return &res, nil
}

func (s *Store) ReadOrder(_ context.Context, orderID uint64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	res := copyOrder(o)
	return &res, nil
}

func (s *Store) ListOrdersByClient(_ context.Context, clientID uint64) ([]*domain.Order, error) {
	return s.listOrders(func(o *domain.Order) bool { return o.ClientID == clientID }), nil
}

func (s *Store) ListOrdersByTruck(_ context.Context, truckID uint64) ([]*domain.Order, error) {
	return s.listOrders(func(o *domain.Order) bool { return o.TruckID == truckID }), nil
}

func (s *Store) listOrders(match func(*domain.Order) bool) []*domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*domain.Order, 0)
	for _, o := range s.orders {
		if match(&o) {
			c := copyOrder(o)
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (s *Store) UpdateOrderStatus(_ context.Context,
	orderID uint64, updateFn port.UpdateOrderFn) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	o := copyOrder(stored)
	if err := updateFn(&o); err != nil {
		return nil, err
	}
	stored.Status = o.Status
	stored.UpdatedAt = o.UpdatedAt
	s.orders[orderID] = stored
	res := copyOrder(stored)
	return &res, nil
}

func (s *Store) SettleOrder(_ context.Context,
	orderID uint64, chargeID string, settleFn port.SettleOrderFn) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	acc, ok := s.accounts[stored.ClientID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	charge, ok := s.charges[chargeID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}

	o := copyOrder(stored)
	if err := settleFn(&o, &acc, &charge); err != nil {
		return nil, err
	}
	stored.Status = o.Status
	stored.PaymentID = o.PaymentID
	stored.UpdatedAt = o.UpdatedAt
	s.orders[orderID] = stored
	s.accounts[acc.UserID] = acc
	s.charges[charge.ID] = charge
	res := copyOrder(stored)
	return &res, nil
}

func (s *Store) ReadOwner(_ context.Context, ownerID uint64) (*domain.Owner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner(ownerID)
}

func (s *Store) owner(ownerID uint64) (*domain.Owner, error) {
	sub, ok := s.owners[ownerID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	return &domain.Owner{
		ID:           ownerID,
		User:         s.users[ownerID],
		Subscription: copySubscription(sub),
	}, nil
}

func (s *Store) UpdateSubscription(_ context.Context,
	ownerID uint64, updateFn port.UpdateSubscriptionFn) (*domain.Owner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.owner(ownerID)
	if err != nil {
		return nil, err
	}
	if err := updateFn(o); err != nil {
		return nil, err
	}
	s.owners[ownerID] = copySubscription(o.Subscription)
	return o, nil
}

func (s *Store) SettleSubscription(_ context.Context,
	ownerID uint64, chargeID string, settleFn port.SettleSubscriptionFn) (*domain.Owner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.owner(ownerID)
	if err != nil {
		return nil, err
	}
	acc, ok := s.accounts[ownerID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	charge, ok := s.charges[chargeID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}

	if err := settleFn(o, &acc, &charge); err != nil {
		return nil, err
	}
	s.owners[ownerID] = copySubscription(o.Subscription)
	s.accounts[ownerID] = acc
	s.charges[charge.ID] = charge
	return o, nil
}

func (s *Store) CreateCharge(_ context.Context, charge *domain.Charge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.charges[charge.ID]; ok {
		return domain.ErrConflictingData
	}
	s.charges[charge.ID] = *charge
	return nil
}

func (s *Store) ReadCharge(_ context.Context, chargeID string) (*domain.Charge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.charges[chargeID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	return &c, nil
}

func copyOrder(o domain.Order) domain.Order {
	lines := make([]domain.OrderLine, len(o.Lines))
	copy(lines, o.Lines)
	o.Lines = lines
	return o
}

func copySubscription(s domain.Subscription) domain.Subscription {
	if s.StartDate != nil {
		t := *s.StartDate
		s.StartDate = &t
	}
	if s.EndDate != nil {
		t := *s.EndDate
		s.EndDate = &t
	}
	return s
}
