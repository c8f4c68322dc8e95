package service

import (
	"context"
	"errors"
	"strings"

	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/MikeRez0/trucksy/internal/core/port"
	"go.uber.org/zap"
)

// HandleOrderCallback settles an order after the gateway confirms the payment.
// Replays of a settled order are answered with the current state and change nothing.
func (s *Service) HandleOrderCallback(ctx context.Context,
	orderID uint64, cb *domain.Callback,
) (*domain.CallbackResult, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, s.mapNotFound(err, domain.ErrOrderNotFound, "Read order")
	}
	if order.Settled() {
		return orderResult(order, cb, true), nil
	}

	charge, err := s.pendingCharge(ctx, cb, domain.ChargeKindOrder, orderID)
	if err != nil {
		return nil, s.reject(ctx, domain.ChargeKindOrder, orderID, err)
	}
	if _, err := s.verifyPayment(ctx, cb, charge); err != nil {
		return nil, s.reject(ctx, domain.ChargeKindOrder, orderID, err)
	}

	now := s.now()
	settled, err := s.repo.SettleOrder(ctx, orderID, charge.ID,
		func(o *domain.Order, a *domain.Account, c *domain.Charge) error {
			if o.Settled() || c.IsSettled() {
				return domain.ErrAlreadySettled
			}
			if o.TotalPrice.Cmp(c.Amount) != 0 {
				return domain.ErrAmountMismatch
			}
			if err := a.Debit(o.TotalPrice); err != nil {
				return err
			}
			if err := o.Advance(domain.OrderStatusPaid); err != nil {
				return err
			}
			o.PaymentID = c.ID
			o.UpdatedAt = now
			return c.Settle(now)
		})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadySettled) {
			current, err := s.repo.ReadOrder(ctx, orderID)
			if err != nil {
				return nil, s.mapNotFound(err, domain.ErrOrderNotFound, "Read order")
			}
			return orderResult(current, cb, true), nil
		}
		if errors.Is(err, domain.ErrInsufficientBalance) || errors.Is(err, domain.ErrAmountMismatch) {
			return nil, s.reject(ctx, domain.ChargeKindOrder, orderID, err)
		}
		return nil, s.mapNotFound(err, domain.ErrOrderNotFound, "Settle order")
	}

	if minor, err := domain.ToMinorUnits(settled.TotalPrice); err == nil {
		s.metrics.PaymentSettled(ctx, domain.ChargeKindOrder, minor)
	}
	s.publishOrderPaid(ctx, settled, cb)

	return orderResult(settled, cb, false), nil
}

// HandleSubscriptionCallback activates a subscription after the gateway confirms the fee payment.
func (s *Service) HandleSubscriptionCallback(ctx context.Context,
	ownerID uint64, cb *domain.Callback,
) (*domain.CallbackResult, error) {
	owner, err := s.repo.ReadOwner(ctx, ownerID)
	if err != nil {
		return nil, s.mapNotFound(err, domain.ErrOwnerNotFound, "Read owner")
	}
	if owner.Subscription.Active(s.now()) {
		return subscriptionResult(owner, cb, s.billing.SubscriptionFee, true, s.now()), nil
	}

	charge, err := s.pendingCharge(ctx, cb, domain.ChargeKindSubscription, ownerID)
	if err != nil {
		return nil, s.reject(ctx, domain.ChargeKindSubscription, ownerID, err)
	}
	if _, err := s.verifyPayment(ctx, cb, charge); err != nil {
		return nil, s.reject(ctx, domain.ChargeKindSubscription, ownerID, err)
	}

	now := s.now()
	settled, err := s.repo.SettleSubscription(ctx, ownerID, charge.ID,
		func(o *domain.Owner, a *domain.Account, c *domain.Charge) error {
			if o.Subscription.Active(now) || c.IsSettled() {
				return domain.ErrAlreadySettled
			}
			if err := a.Debit(c.Amount); err != nil {
				return err
			}
			o.Subscription.Activate(now)
			return c.Settle(now)
		})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadySettled) {
			current, err := s.repo.ReadOwner(ctx, ownerID)
			if err != nil {
				return nil, s.mapNotFound(err, domain.ErrOwnerNotFound, "Read owner")
			}
			return subscriptionResult(current, cb, charge.Amount, true, s.now()), nil
		}
		if errors.Is(err, domain.ErrInsufficientBalance) {
			return nil, s.reject(ctx, domain.ChargeKindSubscription, ownerID, err)
		}
		return nil, s.mapNotFound(err, domain.ErrOwnerNotFound, "Settle subscription")
	}

	if minor, err := domain.ToMinorUnits(charge.Amount); err == nil {
		s.metrics.PaymentSettled(ctx, domain.ChargeKindSubscription, minor)
	}
	s.publish(ctx, domain.EventSubscriptionActivated, ownerID, domain.SubscriptionActivatedPayload{
		OwnerID:    ownerID,
		PaymentID:  charge.ID,
		OwnerName:  settled.User.Username,
		OwnerEmail: settled.User.Email,
		Fee:        charge.Amount,
		Currency:   charge.Currency,
		StartDate:  *settled.Subscription.StartDate,
		EndDate:    *settled.Subscription.EndDate,
	})

	return subscriptionResult(settled, cb, charge.Amount, false, now), nil
}

// pendingCharge finds the charge recorded for the callback transaction and checks it pays for this subject.
func (s *Service) pendingCharge(ctx context.Context,
	cb *domain.Callback, kind domain.ChargeKind, subjectID uint64,
) (*domain.Charge, error) {
	if cb.TransactionID == "" {
		return nil, domain.ErrChargeNotFound
	}
	charge, err := s.repo.ReadCharge(ctx, cb.TransactionID)
	if err != nil {
		return nil, s.mapNotFound(err, domain.ErrChargeNotFound, "Read charge")
	}
	if !charge.BelongsTo(kind, subjectID) {
		return nil, domain.ErrChargeMismatch
	}
	return charge, nil
}

// verifyPayment cross-checks the callback against the gateway's own record of the transaction.
func (s *Service) verifyPayment(ctx context.Context,
	cb *domain.Callback, charge *domain.Charge,
) (*port.PaymentStatus, error) {
	st, err := s.gateway.Status(ctx, charge.ID)
	if err != nil {
		s.logger.Warn("Gateway status failed", zap.String("charge", charge.ID), zap.Error(err))
		if domain.IsExternal(err) {
			return nil, err
		}
		return nil, domain.ErrGatewayUnavailable
	}

	if !strings.EqualFold(cb.Status, st.Status) {
		return nil, domain.ErrStatusMismatch
	}
	expected, err := domain.ToMinorUnits(charge.Amount)
	if err != nil {
		s.logger.Error("Convert amount", zap.Error(err))
		return nil, domain.ErrInternal
	}
	if st.AmountMinor != expected {
		return nil, domain.ErrAmountMismatch
	}
	if !strings.EqualFold(st.Status, domain.GatewayStatusPaid) {
		return nil, domain.ErrPaymentNotPaid
	}
	return st, nil
}

func (s *Service) reject(ctx context.Context, kind domain.ChargeKind, subjectID uint64, err error) error {
	if domain.IsConsistency(err) || errors.Is(err, domain.ErrInsufficientBalance) {
		s.logger.Warn("Callback rejected",
			zap.String("kind", string(kind)), zap.Uint64("subject", subjectID), zap.Error(err))
		s.metrics.CallbackRejected(ctx, kind, err)
	}
	return err
}

func (s *Service) publishOrderPaid(ctx context.Context, order *domain.Order, cb *domain.Callback) {
	lines, err := domain.InvoiceLines(order.Lines)
	if err != nil {
		s.logger.Error("Build invoice lines", zap.Uint64("order", order.ID), zap.Error(err))
		return
	}
	payload := domain.OrderPaidPayload{
		OrderID:   order.ID,
		PaymentID: order.PaymentID,
		Message:   cb.Message,
		Lines:     lines,
		Total:     order.TotalPrice,
		Currency:  s.billing.Currency,
		PaidAt:    order.UpdatedAt,
	}
	if truck, err := s.repo.ReadTruck(ctx, order.TruckID); err == nil {
		payload.TruckName = truck.DisplayName()
		if owner, err := s.repo.ReadUser(ctx, truck.OwnerID); err == nil {
			payload.OwnerPhone = owner.Phone
		}
	}
	if client, err := s.repo.ReadUser(ctx, order.ClientID); err == nil {
		payload.ClientName = client.Username
		payload.ClientEmail = client.Email
	}
	if payload.ClientName == "" {
		payload.ClientName = "Customer"
	}
	s.publish(ctx, domain.EventOrderPaid, order.ID, payload)
}

func orderResult(o *domain.Order, cb *domain.Callback, already bool) *domain.CallbackResult {
	status := "Order paid successfully: status: " + cb.Message
	if already {
		status = "Order already settled: status: " + string(o.Status)
	}
	return &domain.CallbackResult{
		Kind:           domain.ChargeKindOrder,
		SubjectID:      o.ID,
		PaymentID:      o.PaymentID,
		Status:         status,
		Amount:         o.TotalPrice,
		AlreadySettled: already,
	}
}
