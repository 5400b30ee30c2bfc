package alloc

import (
	"log/slog"

	"github.com/joshuapare/memkit/pkg/types"
)

// Option configures an Allocator.
type Option func(*Allocator)

// WithLogger sets the structured logger. Operations log at Debug, rejections
// at Info. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(a *Allocator) {
		if l != nil {
			a.log = l
		}
	}
}

// WithAutoCoalesce merges adjacent free blocks after every Deallocate.
func WithAutoCoalesce(on bool) Option {
	return func(a *Allocator) { a.autoCoalesce = on }
}

// WithDefaultPolicy sets the policy used by AllocateDefault.
func WithDefaultPolicy(kind types.PolicyKind) Option {
	return func(a *Allocator) { a.defaultPolicy = kind }
}

// WithObserver registers an observer for successful mutations.
func WithObserver(o Observer) Option {
	return func(a *Allocator) {
		if o != nil {
			a.observers = append(a.observers, o)
		}
	}
}

// Observer receives every successful mutation with the resulting layout.
type Observer interface {
	Observe(ev types.Event, layout types.Layout)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev types.Event, layout types.Layout)

// Observe calls f.
func (f ObserverFunc) Observe(ev types.Event, layout types.Layout) { f(ev, layout) }
