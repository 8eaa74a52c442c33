package ports

import (
	"context"

	"ims/internal/domain"
)

// EventPublisher broadcasts entity changes to other services.
type EventPublisher interface {
	Publish(ctx context.Context, ev domain.EntityChanged) error
}

// ScoreCache holds computed compliance scores keyed by standard. Entries are
// dropped on every write touching that standard; readers check Fresh before
// trusting one.
type ScoreCache interface {
	Get(ctx context.Context, std domain.Standard) (domain.CachedScore, bool, error)
	Set(ctx context.Context, entry domain.CachedScore) error
	Invalidate(ctx context.Context, stds ...domain.Standard) error
}

// ChangeNotifier is told about every committed write.
type ChangeNotifier interface {
	Changed(ctx context.Context, ev domain.EntityChanged)
}
