package port

import (
	"context"

	"github.com/MikeRez0/trucksy/internal/core/domain"
)

//go:generate mockgen -source=event.go -destination=mock/event.go -package=mock
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.Event) error
}

type EventHandler interface {
	Handle(ctx context.Context, event *domain.Event) error
}

// Deduplicator remembers processed ids within a scope. Claim is atomic: of
// several concurrent callers with the same id exactly one gets true. A claimed
// id is never handed out again, so work after a crash past Claim is lost.
type Deduplicator interface {
	Claim(ctx context.Context, scope string, id string) (bool, error)
}
