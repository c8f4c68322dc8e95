package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/MikeRez0/trucksy/internal/core/port"
	"github.com/govalues/decimal"
	"github.com/phedde/luhn-algorithm"
	"go.uber.org/zap"
)

const orderCallbackPath = "/api/v1/order/callback"

func (s *Service) CreateOrder(ctx context.Context,
	clientID uint64, truckID uint64, lines []domain.LineRequest,
) (*domain.ChargeInitiation, error) {
	truck, err := s.readTruck(ctx, truckID)
	if err != nil {
		return nil, err
	}
	if truck.IsClosed() {
		return nil, domain.ErrTruckClosed
	}

	_, err = s.repo.ReadUser(ctx, clientID)
	if err != nil {
		return nil, s.mapNotFound(err, domain.ErrClientNotFound, "Read client")
	}
	account, err := s.readAccount(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if err := validateCard(account.Card); err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	orderLines, total, err := s.aggregateLines(ctx, truckID, lines)
	if err != nil {
		return nil, err
	}

	if !account.CanAfford(total) {
		return nil, domain.ErrInsufficientBalance
	}

	now := s.now()
	order, err := s.repo.CreateOrder(ctx, &domain.Order{
		ClientID:   clientID,
		TruckID:    truckID,
		Status:     domain.OrderStatusPlaced,
		Lines:      orderLines,
		TotalPrice: total,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		s.logger.Error("Create order", zap.Error(err))
		return nil, domain.ErrInternal
	}

	// The PLACED order stays if the gateway rejects the charge; no debit happened.
	init, err := s.initiateCharge(ctx, domain.ChargeKindOrder, order.ID, total, account.Card,
		orderCallbackPath, fmt.Sprintf("Trucksy order #%d from %s", order.ID, truck.DisplayName()))
	if err != nil {
		return nil, err
	}

	if minor, err := domain.ToMinorUnits(total); err == nil {
		s.metrics.OrderPlaced(ctx, minor)
	}
	return init, nil
}

// aggregateLines validates every requested line and merges duplicates by item.
// The first seen unit price is kept; the total counts every request entry.
func (s *Service) aggregateLines(ctx context.Context,
	truckID uint64, lines []domain.LineRequest,
) ([]domain.OrderLine, decimal.Decimal, error) {
	merged := make([]domain.OrderLine, 0, len(lines))
	index := make(map[uint64]int, len(lines))
	total := decimal.Zero

	for _, req := range lines {
		if req.Quantity <= 0 {
			return nil, decimal.Zero, domain.ErrInvalidQuantity
		}
		item, err := s.repo.ReadItem(ctx, req.ItemID)
		if err != nil {
			return nil, decimal.Zero, s.mapNotFound(err, domain.ErrItemNotFound, "Read item")
		}
		if !item.IsAvailable {
			return nil, decimal.Zero, domain.ErrItemUnavailable
		}
		if item.TruckID != truckID {
			return nil, decimal.Zero, domain.ErrItemNotInTruck
		}

		if i, ok := index[item.ID]; ok {
			merged[i].Quantity += req.Quantity
		} else {
			index[item.ID] = len(merged)
			merged = append(merged, domain.OrderLine{
				ItemID:    item.ID,
				ItemName:  item.Name,
				Quantity:  req.Quantity,
				UnitPrice: item.Price,
			})
		}

		lineTotal, err := item.Price.Mul(decimal.MustNew(int64(req.Quantity), 0))
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("math error: %w", err)
		}
		total, err = total.Add(lineTotal)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("math error: %w", err)
		}
	}

	return merged, total, nil
}

func (s *Service) AdvanceOrderStatus(ctx context.Context,
	ownerID uint64, truckID uint64, orderID uint64, target domain.OrderStatus,
) (*domain.Order, error) {
	if target != domain.OrderStatusReady && target != domain.OrderStatusCompleted {
		return nil, domain.ErrInvalidTransition
	}
	truck, err := s.ownedTruck(ctx, ownerID, truckID)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.UpdateOrderStatus(ctx, orderID, func(o *domain.Order) error {
		if o.TruckID != truckID {
			return domain.ErrOrderNotFound
		}
		if err := o.Advance(target); err != nil {
			return err
		}
		o.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) || errors.Is(err, domain.ErrInvalidTransition) {
			return nil, err
		}
		return nil, s.mapNotFound(err, domain.ErrOrderNotFound, "Update order status")
	}

	payload := domain.OrderStatusChangedPayload{
		OrderID:   order.ID,
		Status:    order.Status,
		TruckName: truck.DisplayName(),
	}
	if client, err := s.repo.ReadUser(ctx, order.ClientID); err == nil {
		payload.ClientPhone = client.Phone
	} else {
		s.logger.Warn("Read client for notification", zap.Uint64("order", order.ID), zap.Error(err))
	}
	s.publish(ctx, domain.EventOrderStatusChanged, order.ID, payload)

	return order, nil
}

func (s *Service) ListClientOrders(ctx context.Context, clientID uint64) ([]*domain.Order, error) {
	list, err := s.repo.ListOrdersByClient(ctx, clientID)
	if err != nil {
		s.logger.Error("Get orders for client", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return list, nil
}

func (s *Service) ListTruckOrders(ctx context.Context, ownerID uint64, truckID uint64) ([]*domain.Order, error) {
	if _, err := s.ownedTruck(ctx, ownerID, truckID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListOrdersByTruck(ctx, truckID)
	if err != nil {
		s.logger.Error("Get orders for truck", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return list, nil
}

func (s *Service) GetTruckOrder(ctx context.Context,
	ownerID uint64, truckID uint64, orderID uint64,
) (*domain.Order, error) {
	if _, err := s.ownedTruck(ctx, ownerID, truckID); err != nil {
		return nil, err
	}
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, s.mapNotFound(err, domain.ErrOrderNotFound, "Read order")
	}
	if order.TruckID != truckID {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// PaymentStatus proxies the gateway record of a transaction.
func (s *Service) PaymentStatus(ctx context.Context, paymentID string) (*port.PaymentStatus, error) {
	if paymentID == "" {
		return nil, domain.ErrBadRequest
	}
	st, err := s.gateway.Status(ctx, paymentID)
	if err != nil {
		s.logger.Warn("Gateway status failed", zap.String("payment", paymentID), zap.Error(err))
		if domain.IsExternal(err) {
			return nil, err
		}
		return nil, domain.ErrGatewayUnavailable
	}
	return st, nil
}

func (s *Service) readTruck(ctx context.Context, truckID uint64) (*domain.Truck, error) {
	truck, err := s.repo.ReadTruck(ctx, truckID)
	if err != nil {
		return nil, s.mapNotFound(err, domain.ErrTruckNotFound, "Read truck")
	}
	return truck, nil
}

func (s *Service) ownedTruck(ctx context.Context, ownerID uint64, truckID uint64) (*domain.Truck, error) {
	truck, err := s.readTruck(ctx, truckID)
	if err != nil {
		return nil, err
	}
	if truck.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return truck, nil
}

// mapNotFound turns a storage miss into notFound and hides any other storage error.
func (s *Service) mapNotFound(err error, notFound error, op string) error {
	if errors.Is(err, domain.ErrDataNotFound) {
		return notFound
	}
	s.logger.Error(op, zap.Error(err))
	return domain.ErrInternal
}

func validateCard(card domain.Card) error {
	digits := strings.ReplaceAll(card.Number, " ", "")
	num, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || num <= 0 {
		return domain.ErrInvalidPaymentInstrument
	}
	if !luhn.IsValid(num) {
		return domain.ErrInvalidPaymentInstrument
	}
	return nil
}
