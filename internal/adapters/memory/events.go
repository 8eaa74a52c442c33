package memory

import (
	"context"
	"sync"

	"ims/internal/domain"
)

// Recorder keeps every event it is given. It satisfies both
// ports.ChangeNotifier and ports.EventPublisher.
type Recorder struct {
	mu     sync.Mutex
	events []domain.EntityChanged
}

func (r *Recorder) Changed(_ context.Context, ev domain.EntityChanged) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *Recorder) Publish(ctx context.Context, ev domain.EntityChanged) error {
	r.Changed(ctx, ev)
	return nil
}

// Events returns a copy of what has been recorded so far.
func (r *Recorder) Events() []domain.EntityChanged {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.EntityChanged(nil), r.events...)
}
