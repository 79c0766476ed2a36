package lifecycle

import (
	"context"
	"time"

	"github.com/aretw0/lifecycle"
)

// DocumentChanged is emitted when a watched JSON document settles.
type DocumentChanged struct {
	Path string
	At   time.Time
}

// String implements lifecycle.Event.
func (e DocumentChanged) String() string {
	return "document changed: " + e.Path
}

type documentSource struct {
	paths <-chan string
	out   chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits a DocumentChanged for every
// path received from a watcher worker.
func NewSource(paths <-chan string) lifecycle.Source {
	return &documentSource{
		paths: paths,
		out:   make(chan lifecycle.Event),
	}
}

func (s *documentSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *documentSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case p, ok := <-s.paths:
				if !ok {
					return nil
				}
				select {
				case s.out <- DocumentChanged{Path: p, At: time.Now()}:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
