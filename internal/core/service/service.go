package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/MikeRez0/trucksy/internal/core/port"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

const producerName = "trucksy-api"

// Billing holds deployment constants of the payment flow.
type Billing struct {
	Currency        string
	SubscriptionFee decimal.Decimal
	// CallbackBaseURL is the public address the gateway calls back, e.g. https://api.example.com
	CallbackBaseURL string
}

type Service struct {
	repo      port.Repository
	gateway   port.PaymentGateway
	publisher port.EventPublisher
	metrics   port.Metrics
	billing   Billing
	now       func() time.Time
	logger    *zap.Logger
}

type Option func(*Service)

func WithMetrics(m port.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo port.Repository, gateway port.PaymentGateway, publisher port.EventPublisher,
	billing Billing, logger *zap.Logger, opts ...Option) (*Service, error) {
	if billing.SubscriptionFee.Sign() <= 0 {
		return nil, fmt.Errorf("subscription fee must be positive, got %s", billing.SubscriptionFee)
	}
	if _, err := url.Parse(billing.CallbackBaseURL); err != nil {
		return nil, fmt.Errorf("bad callback base url: %w", err)
	}

	s := &Service{
		repo:      repo,
		gateway:   gateway,
		publisher: publisher,
		metrics:   nopMetrics{},
		billing:   billing,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) callbackURL(path string, id uint64) (string, error) {
	return url.JoinPath(s.billing.CallbackBaseURL, path, strconv.FormatUint(id, 10))
}

// initiateCharge calls the gateway and records the pending charge for subject.
func (s *Service) initiateCharge(ctx context.Context, kind domain.ChargeKind, subjectID uint64,
	amount decimal.Decimal, card domain.Card, callbackPath string, description string,
) (*domain.ChargeInitiation, error) {
	minor, err := domain.ToMinorUnits(amount)
	if err != nil {
		s.logger.Error("Convert amount", zap.Error(err))
		return nil, domain.ErrInternal
	}
	callback, err := s.callbackURL(callbackPath, subjectID)
	if err != nil {
		s.logger.Error("Build callback url", zap.Error(err))
		return nil, domain.ErrInternal
	}

	resp, err := s.gateway.Charge(ctx, &port.ChargeRequest{
		AmountMinor: minor,
		Currency:    s.billing.Currency,
		Card:        card,
		CallbackURL: callback,
		Description: description,
	})
	if err != nil {
		s.logger.Warn("Gateway charge failed",
			zap.String("kind", string(kind)), zap.Uint64("subject", subjectID), zap.Error(err))
		if domain.IsExternal(err) {
			return nil, err
		}
		return nil, domain.ErrGatewayUnavailable
	}

	charge := &domain.Charge{
		ID:        resp.ID,
		Kind:      kind,
		SubjectID: subjectID,
		Amount:    amount,
		Currency:  s.billing.Currency,
		Status:    domain.ChargeStatusPending,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateCharge(ctx, charge); err != nil {
		s.logger.Error("Record pending charge",
			zap.String("charge", charge.ID), zap.String("subject", charge.Subject()), zap.Error(err))
		return nil, domain.ErrInternal
	}

	return &domain.ChargeInitiation{
		Kind:      kind,
		SubjectID: subjectID,
		PaymentID: resp.ID,
		Status:    resp.Status,
		Amount:    amount,
		Currency:  s.billing.Currency,
		Gateway:   resp.Body,
	}, nil
}

// publish sends a post-commit event. The state change is already durable, so failures are only logged.
func (s *Service) publish(ctx context.Context, t domain.EventType, subjectID uint64, payload any) {
	ev, err := domain.NewEvent(t, producerName, subjectID, payload, s.now())
	if err != nil {
		s.logger.Error("Build event", zap.String("type", string(t)), zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Error("Publish event",
			zap.String("type", string(t)), zap.String("event", ev.ID), zap.Error(err))
	}
}

// readAccount returns the account only if it carries a payment instrument.
func (s *Service) readAccount(ctx context.Context, userID uint64) (*domain.Account, error) {
	acc, err := s.repo.ReadAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, domain.ErrNoPaymentInstrument
		}
		s.logger.Error("Read account", zap.Uint64("user", userID), zap.Error(err))
		return nil, domain.ErrInternal
	}
	if acc.Card.Number == "" {
		return nil, domain.ErrNoPaymentInstrument
	}
	return acc, nil
}

type nopMetrics struct{}

func (nopMetrics) OrderPlaced(context.Context, int64)                         {}
func (nopMetrics) PaymentSettled(context.Context, domain.ChargeKind, int64)   {}
func (nopMetrics) CallbackRejected(context.Context, domain.ChargeKind, error) {}
func (nopMetrics) NotificationFailed(context.Context, string)                 {}
