package domain

import "time"

type SubscriptionState string

const (
	SubscriptionUnsubscribed SubscriptionState = "UNSUBSCRIBED"
	SubscriptionActive       SubscriptionState = "ACTIVE"
	SubscriptionExpired      SubscriptionState = "EXPIRED"
)

const (
	msgSubscriptionValid = "Subscription is valid"
	msgNotSubscribed     = "You are not subscribed yet"
	msgSubscriptionEnded = "Subscription ended, please subscribe again"
)

type Owner struct {
	ID           uint64
	User         User
	Subscription Subscription
}

type Subscription struct {
	IsSubscribed bool
	StartDate    *time.Time
	EndDate      *time.Time
}

// Active is computed, never trusted from the stored flag alone.
func (s *Subscription) Active(now time.Time) bool {
	return s.IsSubscribed && s.EndDate != nil && now.Before(*s.EndDate)
}

// Refresh applies lazy expiry. It reports whether the stored record changed.
func (s *Subscription) Refresh(now time.Time) bool {
	if s.IsSubscribed && !s.Active(now) {
		s.IsSubscribed = false
		return true
	}
	return false
}

func (s *Subscription) Activate(now time.Time) {
	start := now
	end := now.AddDate(0, 1, 0)
	s.IsSubscribed = true
	s.StartDate = &start
	s.EndDate = &end
}

func (s *Subscription) Cancel() {
	s.IsSubscribed = false
	s.StartDate = nil
	s.EndDate = nil
}

func (s *Subscription) State(now time.Time) SubscriptionState {
	switch {
	case s.Active(now):
		return SubscriptionActive
	case s.EndDate != nil:
		return SubscriptionExpired
	default:
		return SubscriptionUnsubscribed
	}
}

type SubscriptionSnapshot struct {
	OwnerID      uint64
	State        SubscriptionState
	Message      string
	IsSubscribed bool
	StartDate    *time.Time
	EndDate      *time.Time
}

func (s *Subscription) Snapshot(ownerID uint64, now time.Time) *SubscriptionSnapshot {
	state := s.State(now)
	snap := &SubscriptionSnapshot{
		OwnerID:      ownerID,
		State:        state,
		IsSubscribed: state == SubscriptionActive,
		StartDate:    s.StartDate,
		EndDate:      s.EndDate,
	}
	switch state {
	case SubscriptionActive:
		snap.Message = msgSubscriptionValid
	case SubscriptionExpired:
		snap.Message = msgSubscriptionEnded
	default:
		snap.Message = msgNotSubscribed
	}
	return snap
}
