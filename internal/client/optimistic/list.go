// Package optimistic implements the remove-first, roll-back-on-failure list
// used by the job queue, the bookmark list and the application list.
//
// An action removes its item from the list before the network call starts.
// On failure the item is put back at the front; on success the removal is
// final. While an item's action is in flight, further actions on the same
// key are skipped, so one item never produces two concurrent requests.
package optimistic

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/jobswipe/internal/client/client"
)

// Keyed items have a stable identity.
type Keyed interface {
	Key() string
}

// Action performs the durable side of a removal. A non-nil effect marks a
// success that carries extra meaning, e.g. a match returned by a swipe.
type Action[T Keyed] func(ctx context.Context, item T) (effect any, err error)

// Outcome classifies a Result.
type Outcome int

const (
	Done Outcome = iota
	Effect
	RateLimited
	Failed
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Done:
		return "done"
	case Effect:
		return "effect"
	case RateLimited:
		return "rate_limited"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result is delivered once per action.
type Result[T Keyed] struct {
	Outcome Outcome
	Key     string
	Item    T
	Effect  any
	Err     error

	messages Messages
}

// RolledBack reports whether the item was put back into the list.
func (r Result[T]) RolledBack() bool {
	return r.Outcome == RateLimited || r.Outcome == Failed
}

// Message is the user-facing notice for a failed action, "" otherwise.
func (r Result[T]) Message() string {
	switch r.Outcome {
	case RateLimited:
		return r.messages.RateLimited
	case Failed:
		return r.messages.Failed
	default:
		return ""
	}
}

// Messages are the notices shown after a rollback.
type Messages struct {
	RateLimited string
	Failed      string
}

var DefaultMessages = Messages{
	RateLimited: "Daily quota exceeded: limit reached, try again tomorrow.",
	Failed:      "Something went wrong. Please try again.",
}

type Option func(*config)

type config struct {
	name          string
	messages      Messages
	isRateLimited func(error) bool
	onRollback    func(list, reason string)
}

// WithName labels the list in rollback reports.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

func WithMessages(m Messages) Option {
	return func(c *config) { c.messages = m }
}

// WithRateLimitClassifier overrides how rate-limit failures are recognized.
func WithRateLimitClassifier(fn func(error) bool) Option {
	return func(c *config) { c.isRateLimited = fn }
}

// OnRollback registers fn, called with the list name and the outcome after
// every rollback.
func OnRollback(fn func(list, reason string)) Option {
	return func(c *config) { c.onRollback = fn }
}

// List is an ordered collection with optimistic removal. Safe for concurrent
// use.
type List[T Keyed] struct {
	cfg config

	mu    sync.Mutex
	items []T
	// inflight maps a key to the epoch its action started in.
	inflight map[string]uint64
	epoch    uint64
	detached bool
}

func New[T Keyed](items []T, opts ...Option) *List[T] {
	cfg := config{
		name:     "list",
		messages: DefaultMessages,
		isRateLimited: func(err error) bool {
			return errors.Is(err, client.ErrRateLimited)
		},
	}
	for _, o := range opts {
		o(&cfg)
	}
	return &List[T]{
		cfg:      cfg,
		items:    append([]T(nil), items...),
		inflight: make(map[string]uint64),
	}
}

// Items returns a copy of the displayed sequence.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.items...)
}

func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Head returns the first item, if any.
func (l *List[T]) Head() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var zero T
	if len(l.items) == 0 {
		return zero, false
	}
	return l.items[0], true
}

// Replace swaps the whole sequence, as after a reload. Items whose action is
// still in flight are left out so they cannot be acted on twice.
func (l *List[T]) Replace(items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := make([]T, 0, len(items))
	for _, it := range items {
		if _, busy := l.inflight[it.Key()]; !busy {
			next = append(next, it)
		}
	}
	l.items = next
	l.detached = false
}

// Reset empties the list and forgets pending actions. Actions started before
// the reset neither reinsert their item nor block the same key afterwards.
func (l *List[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
	l.inflight = make(map[string]uint64)
	l.epoch++
	l.detached = false
}

// InFlight reports whether an action on key has not completed yet.
func (l *List[T]) InFlight(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.inflight[key]
	return ok
}

// Detach marks the list's owner as gone. Later completions neither reinsert
// items nor fail; new actions are skipped.
func (l *List[T]) Detach() {
	l.mu.Lock()
	l.detached = true
	l.mu.Unlock()
}

// Do removes the item with key, runs action and waits for it.
func (l *List[T]) Do(ctx context.Context, key string, action Action[T]) Result[T] {
	item, epoch, ok := l.begin(key)
	if !ok {
		return l.skipped(key)
	}
	effect, err := action(ctx, item)
	return l.finish(key, epoch, item, effect, err)
}

// Go removes the item with key before returning, then runs action in the
// background. The channel receives exactly one Result.
func (l *List[T]) Go(ctx context.Context, key string, action Action[T]) <-chan Result[T] {
	out := make(chan Result[T], 1)

	item, epoch, ok := l.begin(key)
	if !ok {
		out <- l.skipped(key)
		close(out)
		return out
	}

	go func() {
		defer close(out)
		effect, err := action(ctx, item)
		out <- l.finish(key, epoch, item, effect, err)
	}()
	return out
}

func (l *List[T]) begin(key string) (T, uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var zero T
	if l.detached {
		return zero, 0, false
	}
	if _, busy := l.inflight[key]; busy {
		return zero, 0, false
	}
	for i, it := range l.items {
		if it.Key() == key {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			l.inflight[key] = l.epoch
			return it, l.epoch, true
		}
	}
	return zero, 0, false
}

func (l *List[T]) finish(key string, epoch uint64, item T, effect any, err error) Result[T] {
	res := Result[T]{Key: key, Item: item, Effect: effect, Err: err, messages: l.cfg.messages}

	l.mu.Lock()
	current := epoch == l.epoch
	if current {
		delete(l.inflight, key)
	}
	if err == nil {
		l.mu.Unlock()
		res.Outcome = Done
		if effect != nil {
			res.Outcome = Effect
		}
		return res
	}

	res.Outcome = Failed
	if l.cfg.isRateLimited(err) {
		res.Outcome = RateLimited
	}
	if current && !l.detached && !l.containsLocked(key) {
		l.items = append([]T{item}, l.items...)
	}
	l.mu.Unlock()

	if l.cfg.onRollback != nil {
		l.cfg.onRollback(l.cfg.name, res.Outcome.String())
	}
	return res
}

func (l *List[T]) containsLocked(key string) bool {
	for _, it := range l.items {
		if it.Key() == key {
			return true
		}
	}
	return false
}

func (l *List[T]) skipped(key string) Result[T] {
	return Result[T]{Outcome: Skipped, Key: key, messages: l.cfg.messages}
}
