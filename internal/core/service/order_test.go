package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/MikeRez0/trucksy/internal/core/port"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_CreateOrder_Rejected(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	type createOrderTest struct {
		name     string
		clientID uint64
		truckID  uint64
		lines    []domain.LineRequest
		expError error
	}

	one := []domain.LineRequest{{ItemID: burgerID, Quantity: 1}}

	tests := []createOrderTest{
		{"truck missing", clientID, 999, one, domain.ErrTruckNotFound},
		{"truck closed", clientID, closedID, one, domain.ErrTruckClosed},
		{"client missing", 999, truckID, one, domain.ErrClientNotFound},
		{"no bank card", noCardID, truckID, one, domain.ErrNoPaymentInstrument},
		{"card fails luhn", badCardID, truckID, one, domain.ErrInvalidPaymentInstrument},
		{"empty order", clientID, truckID, nil, domain.ErrEmptyOrder},
		{"zero quantity", clientID, truckID,
			[]domain.LineRequest{{ItemID: burgerID, Quantity: 0}}, domain.ErrInvalidQuantity},
		{"negative quantity", clientID, truckID,
			[]domain.LineRequest{{ItemID: burgerID, Quantity: 1}, {ItemID: friesID, Quantity: -1}}, domain.ErrInvalidQuantity},
		{"unknown item", clientID, truckID,
			[]domain.LineRequest{{ItemID: 777, Quantity: 1}}, domain.ErrItemNotFound},
		{"sold out item", clientID, truckID,
			[]domain.LineRequest{{ItemID: soldOutID, Quantity: 1}}, domain.ErrItemUnavailable},
		{"item of another truck", clientID, truckID,
			[]domain.LineRequest{{ItemID: burgerID, Quantity: 1}, {ItemID: foreignID, Quantity: 1}}, domain.ErrItemNotInTruck},
		{"not enough balance", clientID, truckID,
			[]domain.LineRequest{{ItemID: friesID, Quantity: 4}}, domain.ErrInsufficientBalance},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// no gateway expectations: any gateway call fails the test
			f := newFixture(t, mockCtrl)

			result, err := f.svc.CreateOrder(context.Background(), test.clientID, test.truckID, test.lines)
			assert.Nil(t, result)
			assert.Equal(t, test.expError, err)

			orders, err := f.store.ListOrdersByTruck(context.Background(), test.truckID)
			require.NoError(t, err)
			assert.Empty(t, orders)
		})
	}
}

func TestService_CreateOrder_Aggregates(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	type aggregateTest struct {
		name     string
		lines    []domain.LineRequest
		expTotal string
		expMinor int64
		expLines []domain.OrderLine
	}

	tests := []aggregateTest{
		{
			name:     "single line",
			lines:    []domain.LineRequest{{ItemID: friesID, Quantity: 2}},
			expTotal: "30",
			expMinor: 3000,
			expLines: []domain.OrderLine{{ItemID: friesID, ItemName: "Fries", Quantity: 2, UnitPrice: money("15")}},
		},
		{
			name: "duplicates merged",
			lines: []domain.LineRequest{
				{ItemID: burgerID, Quantity: 2},
				{ItemID: friesID, Quantity: 1},
				{ItemID: burgerID, Quantity: 1},
			},
			expTotal: "45",
			expMinor: 4500,
			expLines: []domain.OrderLine{
				{ItemID: burgerID, ItemName: "Burger", Quantity: 3, UnitPrice: money("10")},
				{ItemID: friesID, ItemName: "Fries", Quantity: 1, UnitPrice: money("15")},
			},
		},
		{
			name: "identical entries both count",
			lines: []domain.LineRequest{
				{ItemID: burgerID, Quantity: 1},
				{ItemID: burgerID, Quantity: 1},
			},
			expTotal: "20",
			expMinor: 2000,
			expLines: []domain.OrderLine{{ItemID: burgerID, ItemName: "Burger", Quantity: 2, UnitPrice: money("10")}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := newFixture(t, mockCtrl)
			f.gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, req *port.ChargeRequest) (*port.ChargeResponse, error) {
					assert.Equal(t, test.expMinor, req.AmountMinor)
					assert.Equal(t, "SAR", req.Currency)
					assert.Equal(t, validCard, req.Card.Number)
					assert.Equal(t, baseURL+"/api/v1/order/callback/1", req.CallbackURL)
					return &port.ChargeResponse{ID: "pay_1", Status: "initiated"}, nil
				})

			result, err := f.svc.CreateOrder(context.Background(), clientID, truckID, test.lines)
			require.NoError(t, err)
			assert.Equal(t, "pay_1", result.PaymentID)
			assert.Equal(t, 0, result.Amount.Cmp(money(test.expTotal)))

			order, err := f.store.ReadOrder(context.Background(), result.SubjectID)
			require.NoError(t, err)
			assert.Equal(t, domain.OrderStatusPlaced, order.Status)
			assert.Equal(t, 0, order.TotalPrice.Cmp(money(test.expTotal)))
			if diff := cmp.Diff(test.expLines, order.Lines, decimalComparer); diff != "" {
				t.Errorf("lines mismatch (-want +got):\n%s", diff)
			}

			charge, err := f.store.ReadCharge(context.Background(), "pay_1")
			require.NoError(t, err)
			assert.True(t, charge.BelongsTo(domain.ChargeKindOrder, order.ID))
			assert.Equal(t, domain.ChargeStatusPending, charge.Status)

			// balance is only touched by a confirmed callback
			acc, err := f.store.ReadAccount(context.Background(), clientID)
			require.NoError(t, err)
			assert.Equal(t, 0, acc.Balance.Cmp(money("50")))
		})
	}
}

func TestService_CreateOrder_GatewayDown(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	f := newFixture(t, mockCtrl)
	f.gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	result, err := f.svc.CreateOrder(context.Background(), clientID, truckID,
		[]domain.LineRequest{{ItemID: burgerID, Quantity: 1}})
	assert.Nil(t, result)
	assert.Equal(t, domain.ErrGatewayUnavailable, err)

	orders, err := f.store.ListOrdersByClient(context.Background(), clientID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, domain.OrderStatusPlaced, orders[0].Status)

	acc, err := f.store.ReadAccount(context.Background(), clientID)
	require.NoError(t, err)
	assert.Equal(t, 0, acc.Balance.Cmp(money("50")))
}

func TestService_AdvanceOrderStatus(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	f := newFixture(t, mockCtrl)
	ctx := context.Background()

	placed, err := f.store.CreateOrder(ctx, &domain.Order{
		ClientID: clientID, TruckID: truckID, Status: domain.OrderStatusPlaced, TotalPrice: money("10"),
	})
	require.NoError(t, err)
	paid, err := f.store.CreateOrder(ctx, &domain.Order{
		ClientID: clientID, TruckID: truckID, Status: domain.OrderStatusPaid, TotalPrice: money("10"),
	})
	require.NoError(t, err)
	foreign, err := f.store.CreateOrder(ctx, &domain.Order{
		ClientID: clientID, TruckID: otherTruckID, Status: domain.OrderStatusPaid, TotalPrice: money("20"),
	})
	require.NoError(t, err)

	type advanceTest struct {
		name     string
		ownerID  uint64
		truckID  uint64
		orderID  uint64
		target   domain.OrderStatus
		expError error
	}
	tests := []advanceTest{
		{"placed cannot complete", ownerID, truckID, placed.ID, domain.OrderStatusCompleted, domain.ErrInvalidTransition},
		{"placed cannot be ready", ownerID, truckID, placed.ID, domain.OrderStatusReady, domain.ErrInvalidTransition},
		{"paid target rejected", ownerID, truckID, placed.ID, domain.OrderStatusPaid, domain.ErrInvalidTransition},
		{"not the owner", richOwnerID, truckID, paid.ID, domain.OrderStatusReady, domain.ErrForbidden},
		{"unknown truck", ownerID, 999, paid.ID, domain.OrderStatusReady, domain.ErrTruckNotFound},
		{"order of another truck", ownerID, truckID, foreign.ID, domain.OrderStatusReady, domain.ErrOrderNotFound},
		{"unknown order", ownerID, truckID, 999, domain.OrderStatusReady, domain.ErrOrderNotFound},
		{"paid cannot complete", ownerID, truckID, paid.ID, domain.OrderStatusCompleted, domain.ErrInvalidTransition},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := f.svc.AdvanceOrderStatus(ctx, test.ownerID, test.truckID, test.orderID, test.target)
			assert.Equal(t, test.expError, err)
		})
	}

	var events []*domain.Event
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(2).
		DoAndReturn(func(_ context.Context, ev *domain.Event) error {
			events = append(events, ev)
			return nil
		})

	o, err := f.svc.AdvanceOrderStatus(ctx, ownerID, truckID, paid.ID, domain.OrderStatusReady)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusReady, o.Status)

	o, err = f.svc.AdvanceOrderStatus(ctx, ownerID, truckID, paid.ID, domain.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, o.Status)

	require.Len(t, events, 2)
	var p domain.OrderStatusChangedPayload
	require.NoError(t, events[1].Decode(&p))
	assert.Equal(t, domain.EventOrderStatusChanged, events[1].Type)
	assert.Equal(t, domain.OrderStatusChangedPayload{
		OrderID: paid.ID, Status: domain.OrderStatusCompleted, TruckName: "Tacos", ClientPhone: "966500000002",
	}, p)

	stored, err := f.store.ReadOrder(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPlaced, stored.Status)
}

func TestService_ListOrders(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	f := newFixture(t, mockCtrl)
	ctx := context.Background()

	first, err := f.store.CreateOrder(ctx, &domain.Order{ClientID: clientID, TruckID: truckID, Status: domain.OrderStatusPlaced})
	require.NoError(t, err)
	_, err = f.store.CreateOrder(ctx, &domain.Order{ClientID: clientID, TruckID: otherTruckID, Status: domain.OrderStatusPlaced})
	require.NoError(t, err)

	list, err := f.svc.ListClientOrders(ctx, clientID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = f.svc.ListTruckOrders(ctx, ownerID, truckID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)

	_, err = f.svc.ListTruckOrders(ctx, richOwnerID, truckID)
	assert.Equal(t, domain.ErrForbidden, err)

	o, err := f.svc.GetTruckOrder(ctx, ownerID, truckID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, o.ID)

	_, err = f.svc.GetTruckOrder(ctx, richOwnerID, otherTruckID, first.ID)
	assert.Equal(t, domain.ErrOrderNotFound, err)
}

func TestService_PaymentStatus(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	type statusTest struct {
		name      string
		paymentID string
		gwResult  *port.PaymentStatus
		gwError   error
		expError  error
	}

	tests := []statusTest{
		{
			name:      "proxied",
			paymentID: "pay_1",
			gwResult:  &port.PaymentStatus{ID: "pay_1", Status: "paid", AmountMinor: 4500},
		},
		{
			name:     "empty id",
			expError: domain.ErrBadRequest,
		},
		{
			name:      "gateway down",
			paymentID: "pay_1",
			gwError:   domain.ErrGatewayUnavailable,
			expError:  domain.ErrGatewayUnavailable,
		},
		{
			name:      "unclassified gateway error",
			paymentID: "pay_1",
			gwError:   errors.New("eof"),
			expError:  domain.ErrGatewayUnavailable,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := newFixture(t, mockCtrl)
			if test.paymentID != "" {
				f.gateway.EXPECT().Status(gomock.Any(), test.paymentID).Return(test.gwResult, test.gwError)
			}

			res, err := f.svc.PaymentStatus(context.Background(), test.paymentID)
			assert.Equal(t, test.expError, err)
			assert.Equal(t, test.gwResult, res)
		})
	}
}
