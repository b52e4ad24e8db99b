// Package observer is a small synchronous publish-subscribe primitive.
//
// A Subject keeps an ordered set of subscribers and hands every payload
// passed to Notify to each of them, in attachment order, on the calling
// goroutine. A subscriber that returns an error or panics is reported to
// the subject's error handler and the remaining subscribers still run.
//
// Subscribers are compared by identity, so they must be comparable
// values; pointer types are the usual choice. Func adapters are created
// with NewFunc, which returns a pointer for that reason.
package observer

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/dwikikusuma/storefront/internal/metrics"
)

type Observer[T any] interface {
	Update(payload T) error
}

// Func adapts a plain function to Observer.
type Func[T any] struct {
	fn func(T) error
}

func NewFunc[T any](fn func(T) error) *Func[T] {
	return &Func[T]{fn: fn}
}

func (f *Func[T]) Update(payload T) error {
	return f.fn(payload)
}

// ErrorHandler receives a failure from a single subscriber.
type ErrorHandler[T any] func(o Observer[T], err error)

type Option[T any] func(*Subject[T])

func WithErrorHandler[T any](h ErrorHandler[T]) Option[T] {
	return func(s *Subject[T]) { s.onError = h }
}

func WithLogger[T any](log *slog.Logger) Option[T] {
	return func(s *Subject[T]) { s.log = log }
}

type Subject[T any] struct {
	name string
	log  *slog.Logger

	mu        sync.RWMutex
	observers []Observer[T]
	onError   ErrorHandler[T]
}

func New[T any](name string, opts ...Option[T]) *Subject[T] {
	s := &Subject[T]{
		name: name,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.onError == nil {
		s.onError = func(o Observer[T], err error) {
			s.log.Warn("subscriber failed",
				slog.String("subject", s.name),
				slog.String("subscriber", fmt.Sprintf("%T", o)),
				slog.Any("err", err))
		}
	}
	return s
}

func (s *Subject[T]) Name() string { return s.name }

// Attach appends o unless it is already attached.
func (s *Subject[T]) Attach(o Observer[T]) {
	if o == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.observers, o) {
		return
	}
	s.observers = append(s.observers, o)
}

// Detach removes o. Detaching a subscriber that is not attached is a no-op.
func (s *Subject[T]) Detach(o Observer[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.Index(s.observers, o); i >= 0 {
		s.observers = slices.Delete(s.observers, i, i+1)
	}
}

func (s *Subject[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// Notify delivers payload to every subscriber attached when the call
// starts. Subscribers may attach or detach from inside Update.
func (s *Subject[T]) Notify(payload T) {
	s.mu.RLock()
	observers := slices.Clone(s.observers)
	s.mu.RUnlock()

	for _, o := range observers {
		metrics.Notifications.WithLabelValues(s.name).Inc()
		if err := s.deliver(o, payload); err != nil {
			metrics.NotificationFailures.WithLabelValues(s.name).Inc()
			s.onError(o, err)
		}
	}
}

func (s *Subject[T]) deliver(o Observer[T], payload T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panic: %v", r)
		}
	}()
	return o.Update(payload)
}
