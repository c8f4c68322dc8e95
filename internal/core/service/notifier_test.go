package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/MikeRez0/trucksy/internal/core/port"
	"github.com/MikeRez0/trucksy/internal/core/port/mock"
	"github.com/MikeRez0/trucksy/internal/core/service"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type notifierMocks struct {
	texts    *mock.MockTextSender
	mailer   *mock.MockMailer
	invoices *mock.MockInvoiceRenderer
	dedup    *mock.MockDeduplicator
}

type prepareNotifierMocks func(m *notifierMocks)

func mustEvent(t *testing.T, typ domain.EventType, id uint64, payload any) *domain.Event {
	t.Helper()
	ev, err := domain.NewEvent(typ, "test", id, payload, time.Now())
	require.NoError(t, err)
	return ev
}

func TestNotifier_Handle(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	paid := domain.OrderPaidPayload{
		OrderID:     7,
		PaymentID:   "pay_7",
		Message:     "APPROVED",
		TruckName:   "Tacos",
		OwnerPhone:  "966500000001",
		ClientName:  "client",
		ClientEmail: "client@trucksy.test",
		Lines: []domain.InvoiceLine{
			{Description: "Burger", Quantity: 3, UnitPrice: money("10"), LineTotal: money("30")},
		},
		Total:    money("30"),
		Currency: "SAR",
	}
	start := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	activated := domain.SubscriptionActivatedPayload{
		OwnerID:    4,
		PaymentID:  "sub_1",
		OwnerName:  "rich",
		OwnerEmail: "rich@trucksy.test",
		Fee:        money("30"),
		Currency:   "SAR",
		StartDate:  start,
		EndDate:    start.AddDate(0, 1, 0),
	}

	type notifierTest struct {
		name     string
		event    *domain.Event
		mock     prepareNotifierMocks
		expError bool
	}

	tests := []notifierTest{
		{
			name:  "order paid notifies owner and mails invoice",
			event: mustEvent(t, domain.EventOrderPaid, 7, paid),
			mock: func(m *notifierMocks) {
				m.dedup.EXPECT().Claim(gomock.Any(), "notifier", gomock.Any()).Return(true, nil)
				m.texts.EXPECT().SendText(gomock.Any(), "966500000001", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, text string) error {
						assert.Contains(t, text, "Order #7 from Tacos")
						assert.Contains(t, text, "30.00 SAR")
						return nil
					})
				m.invoices.EXPECT().RenderInvoice(gomock.Any()).
					DoAndReturn(func(inv *domain.Invoice) ([]byte, error) {
						assert.Equal(t, "ORD-7", inv.Number)
						assert.Equal(t, "pay_7", inv.PaymentID)
						return []byte("%PDF"), nil
					})
				m.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, mail *port.Mail) error {
						assert.Equal(t, "client@trucksy.test", mail.To)
						assert.Equal(t, "Your Trucksy order invoice #7", mail.Subject)
						if assert.Len(t, mail.Attachments, 1) {
							assert.Equal(t, "Trucksy-Invoice-7.pdf", mail.Attachments[0].Filename)
						}
						return nil
					})
			},
		},
		{
			name:  "delivery failures are swallowed",
			event: mustEvent(t, domain.EventOrderPaid, 7, paid),
			mock: func(m *notifierMocks) {
				m.dedup.EXPECT().Claim(gomock.Any(), "notifier", gomock.Any()).Return(true, nil)
				m.texts.EXPECT().SendText(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("whatsapp down"))
				m.invoices.EXPECT().RenderInvoice(gomock.Any()).Return(nil, errors.New("font missing"))
				m.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, mail *port.Mail) error {
						assert.Empty(t, mail.Attachments)
						return errors.New("smtp down")
					})
			},
		},
		{
			// nothing is sent, the consumer redelivers the event later
			name:  "dedup store down",
			event: mustEvent(t, domain.EventOrderPaid, 7, paid),
			mock: func(m *notifierMocks) {
				m.dedup.EXPECT().Claim(gomock.Any(), "notifier", gomock.Any()).Return(false, errors.New("redis down"))
			},
			expError: true,
		},
		{
			name:  "duplicate event skipped",
			event: mustEvent(t, domain.EventOrderPaid, 7, paid),
			mock: func(m *notifierMocks) {
				m.dedup.EXPECT().Claim(gomock.Any(), "notifier", gomock.Any()).Return(false, nil)
			},
		},
		{
			name: "ready texts the client",
			event: mustEvent(t, domain.EventOrderStatusChanged, 7, domain.OrderStatusChangedPayload{
				OrderID: 7, Status: domain.OrderStatusReady, TruckName: "Tacos", ClientPhone: "966500000002",
			}),
			mock: func(m *notifierMocks) {
				m.dedup.EXPECT().Claim(gomock.Any(), "notifier", gomock.Any()).Return(true, nil)
				m.texts.EXPECT().SendText(gomock.Any(), "966500000002",
					"Your order #7 from Tacos is READY for pickup.").Return(nil)
			},
		},
		{
			name: "no phone no text",
			event: mustEvent(t, domain.EventOrderStatusChanged, 7, domain.OrderStatusChangedPayload{
				OrderID: 7, Status: domain.OrderStatusCompleted, TruckName: "Tacos",
			}),
			mock: func(m *notifierMocks) {
				m.dedup.EXPECT().Claim(gomock.Any(), "notifier", gomock.Any()).Return(true, nil)
			},
		},
		{
			name:  "subscription invoice",
			event: mustEvent(t, domain.EventSubscriptionActivated, 4, activated),
			mock: func(m *notifierMocks) {
				m.dedup.EXPECT().Claim(gomock.Any(), "notifier", gomock.Any()).Return(true, nil)
				m.invoices.EXPECT().RenderInvoice(gomock.Any()).
					DoAndReturn(func(inv *domain.Invoice) ([]byte, error) {
						assert.Equal(t, "SUB-4-2026", inv.Number)
						return []byte("%PDF"), nil
					})
				m.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, mail *port.Mail) error {
						assert.Equal(t, "rich@trucksy.test", mail.To)
						assert.Contains(t, mail.HTML, "SUB-4-2026")
						assert.Contains(t, mail.HTML, "2026-06-01")
						return nil
					})
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := &notifierMocks{
				texts:    mock.NewMockTextSender(mockCtrl),
				mailer:   mock.NewMockMailer(mockCtrl),
				invoices: mock.NewMockInvoiceRenderer(mockCtrl),
				dedup:    mock.NewMockDeduplicator(mockCtrl),
			}
			test.mock(m)

			n, err := service.NewNotifier(m.texts, m.mailer, m.invoices, m.dedup, nil, logger)
			require.NoError(t, err)

			err = n.Handle(context.Background(), test.event)
			if test.expError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
