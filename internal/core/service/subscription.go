package service

import (
	"context"
	"time"

	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

const ownerCallbackPath = "/api/v1/owner/callback"

// Subscribe starts the monthly fee charge. Every check runs before the gateway is contacted.
func (s *Service) Subscribe(ctx context.Context, ownerID uint64) (*domain.ChargeInitiation, error) {
	owner, err := s.repo.ReadOwner(ctx, ownerID)
	if err != nil {
		return nil, s.mapNotFound(err, domain.ErrOwnerNotFound, "Read owner")
	}
	account, err := s.readAccount(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := validateCard(account.Card); err != nil {
		return nil, err
	}
	if owner.Subscription.Active(s.now()) {
		return nil, domain.ErrSubscriptionActive
	}
	fee := s.billing.SubscriptionFee
	if !account.CanAfford(fee) {
		return nil, domain.ErrInsufficientBalance
	}

	return s.initiateCharge(ctx, domain.ChargeKindSubscription, ownerID, fee, account.Card,
		ownerCallbackPath, "Trucksy monthly subscription")
}

// SubscriptionStatus reports the subscription state. A lapsed subscription is downgraded and persisted.
func (s *Service) SubscriptionStatus(ctx context.Context, ownerID uint64) (*domain.SubscriptionSnapshot, error) {
	owner, err := s.repo.ReadOwner(ctx, ownerID)
	if err != nil {
		return nil, s.mapNotFound(err, domain.ErrOwnerNotFound, "Read owner")
	}

	now := s.now()
	snap := owner.Subscription.Snapshot(ownerID, now)
	if owner.Subscription.IsSubscribed && !owner.Subscription.Active(now) {
		_, err := s.repo.UpdateSubscription(ctx, ownerID, func(o *domain.Owner) error {
			o.Subscription.Refresh(now)
			return nil
		})
		if err != nil {
			s.logger.Error("Persist subscription expiry", zap.Uint64("owner", ownerID), zap.Error(err))
		}
	}
	return snap, nil
}

// CancelSubscription ends the subscription immediately. The fee is not refunded.
func (s *Service) CancelSubscription(ctx context.Context, ownerID uint64) (*domain.SubscriptionSnapshot, error) {
	owner, err := s.repo.UpdateSubscription(ctx, ownerID, func(o *domain.Owner) error {
		o.Subscription.Cancel()
		return nil
	})
	if err != nil {
		return nil, s.mapNotFound(err, domain.ErrOwnerNotFound, "Cancel subscription")
	}
	return owner.Subscription.Snapshot(ownerID, s.now()), nil
}

func subscriptionResult(o *domain.Owner, cb *domain.Callback,
	fee decimal.Decimal, already bool, now time.Time) *domain.CallbackResult {
	status := "Subscribed successfully: Monthly, status: " + cb.Message
	switch {
	case already && o.Subscription.Active(now):
		status = "Subscription already active"
	case already:
		// the charge was spent on a period that is cancelled or over
		status = "Payment already settled"
	}
	return &domain.CallbackResult{
		Kind:           domain.ChargeKindSubscription,
		SubjectID:      o.ID,
		PaymentID:      cb.TransactionID,
		Status:         status,
		Amount:         fee,
		AlreadySettled: already,
	}
}
