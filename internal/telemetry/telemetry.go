package telemetry

import (
	"context"
	"sync"

	"github.com/vaheed/coursenova/pkg/types"
)

// Publisher receives course change events.
type Publisher interface {
	Publish(ctx context.Context, e types.Event)
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, types.Event) {}

// Recorder keeps published events in memory; handy in tests.
type Recorder struct {
	mu     sync.Mutex
	events []types.Event
}

func (r *Recorder) Publish(_ context.Context, e types.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of what has been published so far.
func (r *Recorder) Events() []types.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.Event(nil), r.events...)
}
