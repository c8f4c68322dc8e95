package domain_test

import (
	"testing"
	"time"

	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestSubscription_Lifecycle(t *testing.T) {
	now := time.Date(2026, time.January, 31, 10, 0, 0, 0, time.UTC)

	s := domain.Subscription{}
	assert.Equal(t, domain.SubscriptionUnsubscribed, s.State(now))
	assert.False(t, s.Refresh(now))

	s.Activate(now)
	assert.True(t, s.Active(now))
	assert.Equal(t, now, *s.StartDate)
	assert.Equal(t, now.AddDate(0, 1, 0), *s.EndDate)

	// still active one second before the end date
	assert.True(t, s.Active(s.EndDate.Add(-time.Second)))
	assert.False(t, s.Active(*s.EndDate))

	later := s.EndDate.Add(time.Hour)
	assert.Equal(t, domain.SubscriptionExpired, s.State(later))
	assert.True(t, s.IsSubscribed)
	assert.True(t, s.Refresh(later))
	assert.False(t, s.IsSubscribed)
	assert.False(t, s.Refresh(later))

	s.Activate(later)
	s.Cancel()
	assert.Equal(t, domain.SubscriptionUnsubscribed, s.State(later))
}

func TestSubscription_Snapshot(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, -1)
	ended := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 10)

	tests := []struct {
		name       string
		sub        domain.Subscription
		expState   domain.SubscriptionState
		expMessage string
	}{
		{"never subscribed", domain.Subscription{}, domain.SubscriptionUnsubscribed, "You are not subscribed yet"},
		{"active", domain.Subscription{IsSubscribed: true, StartDate: &past, EndDate: &future}, domain.SubscriptionActive, "Subscription is valid"},
		{"stale flag", domain.Subscription{IsSubscribed: true, StartDate: &past, EndDate: &ended}, domain.SubscriptionExpired, "Subscription ended, please subscribe again"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			snap := test.sub.Snapshot(7, now)
			assert.Equal(t, uint64(7), snap.OwnerID)
			assert.Equal(t, test.expState, snap.State)
			assert.Equal(t, test.expMessage, snap.Message)
			assert.Equal(t, test.expState == domain.SubscriptionActive, snap.IsSubscribed)
		})
	}
}
