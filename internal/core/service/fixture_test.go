package service_test

import (
	"testing"
	"time"

	"github.com/MikeRez0/trucksy/internal/adapter/storage/memory"
	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/MikeRez0/trucksy/internal/core/port/mock"
	"github.com/MikeRez0/trucksy/internal/core/service"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	ownerID      uint64 = 1
	clientID     uint64 = 2
	noCardID     uint64 = 3
	richOwnerID  uint64 = 4
	badCardID    uint64 = 5
	truckID      uint64 = 10
	closedID     uint64 = 11
	otherTruckID uint64 = 20

	burgerID  uint64 = 100
	friesID   uint64 = 101
	soldOutID uint64 = 102
	foreignID uint64 = 200

	validCard = "4111111111111111"
	baseURL   = "https://trucksy.test"
)

type fixture struct {
	store     *memory.Store
	gateway   *mock.MockPaymentGateway
	publisher *mock.MockEventPublisher
	svc       *service.Service
	now       time.Time
}

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Cmp(b) == 0 })

func money(s string) decimal.Decimal {
	return decimal.MustParse(s)
}

func newFixture(t *testing.T, ctrl *gomock.Controller) *fixture {
	t.Helper()

	store := memory.New()
	store.PutOwner(domain.Owner{
		ID:   ownerID,
		User: domain.User{ID: ownerID, Username: "owner", Email: "owner@trucksy.test", Phone: "966500000001"},
	})
	store.PutAccount(domain.Account{UserID: ownerID, Balance: money("20"), Card: domain.Card{Name: "Owner", Number: validCard}})
	store.PutOwner(domain.Owner{
		ID:   richOwnerID,
		User: domain.User{ID: richOwnerID, Username: "rich", Email: "rich@trucksy.test"},
	})
	store.PutAccount(domain.Account{UserID: richOwnerID, Balance: money("100"), Card: domain.Card{Name: "Rich", Number: validCard}})

	store.PutUser(domain.User{ID: clientID, Username: "client", Email: "client@trucksy.test", Phone: "966500000002"})
	store.PutAccount(domain.Account{UserID: clientID, Balance: money("50"), Card: domain.Card{
		Name: "Client", Number: validCard, CVC: "123", Month: "12", Year: "2030",
	}})
	store.PutUser(domain.User{ID: noCardID, Username: "nocard"})
	store.PutUser(domain.User{ID: badCardID, Username: "badcard"})
	store.PutAccount(domain.Account{UserID: badCardID, Balance: money("50"), Card: domain.Card{Number: "4111111111111112"}})

	store.PutTruck(domain.Truck{ID: truckID, OwnerID: ownerID, Name: "Tacos", Status: domain.TruckStatusOpen})
	store.PutTruck(domain.Truck{ID: closedID, OwnerID: ownerID, Name: "Sleepy", Status: domain.TruckStatusClosed})
	store.PutTruck(domain.Truck{ID: otherTruckID, OwnerID: richOwnerID, Name: "Pizza", Status: domain.TruckStatusOpen})

	store.PutItem(domain.Item{ID: burgerID, TruckID: truckID, Name: "Burger", Price: money("10"), IsAvailable: true})
	store.PutItem(domain.Item{ID: friesID, TruckID: truckID, Name: "Fries", Price: money("15"), IsAvailable: true})
	store.PutItem(domain.Item{ID: soldOutID, TruckID: truckID, Name: "Shake", Price: money("7"), IsAvailable: false})
	store.PutItem(domain.Item{ID: foreignID, TruckID: otherTruckID, Name: "Pizza", Price: money("20"), IsAvailable: true})

	f := &fixture{
		store:     store,
		gateway:   mock.NewMockPaymentGateway(ctrl),
		publisher: mock.NewMockEventPublisher(ctrl),
		now:       time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC),
	}

	logger, _ := zap.NewProduction()
	svc, err := service.NewService(store, f.gateway, f.publisher, service.Billing{
		Currency:        "SAR",
		SubscriptionFee: money("30"),
		CallbackBaseURL: baseURL,
	}, logger, service.WithClock(func() time.Time { return f.now }))
	require.NoError(t, err)
	f.svc = svc

	return f
}
