package resource

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"time"

	"github.com/dmitrijs2005/mailcal/internal/client/client"
	"github.com/dmitrijs2005/mailcal/internal/logging"
)

// FallbackMessage is shown for errors that carry no API message.
const FallbackMessage = "an unknown error occurred"

var (
	ErrClosed = errors.New("resource closed")
	// ErrNotLoaded reports a fetch that returned without storing data,
	// because a newer fetch superseded it.
	ErrNotLoaded = errors.New("not loaded")
)

// State is a snapshot of a Resource. Data is nil until the first successful
// fetch and survives later failures.
type State[T any] struct {
	Data    *T
	Loading bool
	Err     string
	Fetched time.Time
}

// Producer performs the backend call behind a Resource.
type Producer[T any] func(ctx context.Context) (T, error)

type Option func(*options)

type options struct {
	log logging.Logger
	now func() time.Time
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithClock overrides the clock used for State.Fetched.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Resource holds the state of one backend collection. It is safe for
// concurrent use.
type Resource[T any] struct {
	name    string
	produce Producer[T]
	log     logging.Logger
	now     func() time.Time

	mu      sync.Mutex
	state   State[T]
	seq     uint64
	closed  bool
	deps    []any
	subs    map[int]func(State[T])
	nextSub int
}

// New returns an idle Resource. Its state reports Loading until the first
// fetch completes.
func New[T any](name string, produce Producer[T], opts ...Option) *Resource[T] {
	o := options{log: logging.Discard(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Resource[T]{
		name:    name,
		produce: produce,
		log:     o.log.With("resource", name),
		now:     o.now,
		state:   State[T]{Loading: true},
		subs:    make(map[int]func(State[T])),
	}
}

func (r *Resource[T]) Name() string { return r.name }

// State returns the current snapshot.
func (r *Resource[T]) State() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Subscribe registers fn for every state transition and returns a function
// that removes it.
func (r *Resource[T]) Subscribe(fn func(State[T])) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// Fetch runs the producer and records the outcome. The returned error is the
// producer's; it is also reflected in State.Err unless a newer fetch has
// superseded this one.
func (r *Resource[T]) Fetch(ctx context.Context) error {
	return r.run(ctx)
}

// Refetch is Fetch on demand, typically after a mutation.
func (r *Resource[T]) Refetch(ctx context.Context) error {
	return r.run(ctx)
}

// SetDeps records a new dependency list and refetches when it differs from
// the previous one. It reports whether a fetch ran.
func (r *Resource[T]) SetDeps(ctx context.Context, deps ...any) (bool, error) {
	r.mu.Lock()
	if reflect.DeepEqual(r.deps, deps) {
		r.mu.Unlock()
		return false, nil
	}
	r.deps = deps
	r.mu.Unlock()

	return true, r.run(ctx)
}

// Close detaches the resource: subscribers are dropped and results of
// in-flight fetches are discarded.
func (r *Resource[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.subs = make(map[int]func(State[T]))
}

// Update applies fn to a copy of the current data and stores the result
// without a backend round trip. It is a no-op before the first fetch.
func (r *Resource[T]) Update(fn func(T) T) {
	r.mu.Lock()
	if r.closed || r.state.Data == nil {
		r.mu.Unlock()
		return
	}
	v := fn(*r.state.Data)
	r.state.Data = &v
	snap, subs := r.state, r.subscribers()
	r.mu.Unlock()

	notify(subs, snap)
}

func (r *Resource[T]) run(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.seq++
	seq := r.seq
	r.state.Loading = true
	r.state.Err = ""
	snap, subs := r.state, r.subscribers()
	r.mu.Unlock()

	notify(subs, snap)

	v, err := r.produce(ctx)

	r.mu.Lock()
	if r.closed || seq != r.seq {
		r.mu.Unlock()
		r.log.Debug(ctx, "discarding stale result", "seq", seq, "error", err)
		return err
	}
	if err != nil {
		r.state.Err = Classify(err)
	} else {
		r.state.Data = &v
		r.state.Err = ""
		r.state.Fetched = r.now()
	}
	r.state.Loading = false
	snap, subs = r.state, r.subscribers()
	r.mu.Unlock()

	if err != nil {
		r.log.Warn(ctx, "fetch failed", "error", err)
	}
	notify(subs, snap)
	return err
}

// subscribers copies the subscriber list. The caller holds r.mu.
func (r *Resource[T]) subscribers() []func(State[T]) {
	out := make([]func(State[T]), 0, len(r.subs))
	for _, fn := range r.subs {
		out = append(out, fn)
	}
	return out
}

func notify[T any](subs []func(State[T]), s State[T]) {
	for _, fn := range subs {
		fn(s)
	}
}

// Classify turns err into the message shown to the user: the API message
// for *client.APIError, the validation report for *client.ValidationError,
// FallbackMessage for anything else.
func Classify(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var vErr *client.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}
	return FallbackMessage
}
