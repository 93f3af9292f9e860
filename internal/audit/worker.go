package audit

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Worker drains audit events from a channel and persists them. It keeps
// background processing testable without wiring queue implementations.
type Worker struct {
	store Store
	inbox <-chan Event
}

func NewWorker(store Store, inbox <-chan Event) *Worker {
	return &Worker{store: store, inbox: inbox}
}

// Run consumes events until the context is cancelled. Concurrency sets the
// number of draining goroutines; the store must tolerate concurrent
// appends (both implementations in this module do).
func (w *Worker) Run(ctx context.Context, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < concurrency; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case event := <-w.inbox:
					if err := w.store.Append(ctx, event); err != nil {
						return err
					}
				}
			}
		})
	}
	return g.Wait()
}
