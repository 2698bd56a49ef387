// Package events carries fire-and-forget notifications from the HTTP layer to
// whatever UI surface wants them, e.g. the quota notice shown after a 429.
package events

import (
	"sync"
	"time"
)

type Topic string

const (
	TopicRateLimited Topic = "rate-limited"
	TopicLoggedOut   Topic = "logged-out"
)

type Event struct {
	Topic     Topic
	Method    string
	Path      string
	Message   string
	Timestamp time.Time
}

// Bus fans events out to buffered subscriber channels. Publish never blocks:
// a subscriber whose buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]*subscription
	nextID int
	closed bool
}

type subscription struct {
	topic Topic
	ch    chan Event
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]*subscription)}
}

// Subscribe returns a channel receiving events of topic and a cancel func that
// closes it.
func (b *Bus) Subscribe(topic Topic, buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = &subscription{topic: topic, ch: ch}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if s, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(s.ch)
			}
		})
	}
}

// Publish delivers e to every subscriber of e.Topic and reports how many
// received it.
func (b *Bus) Publish(e Event) int {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for _, s := range b.subs {
		if s.topic != e.Topic {
			continue
		}
		select {
		case s.ch <- e:
			delivered++
		default:
		}
	}
	return delivered
}

// Close closes every subscriber channel. Later publishes are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, s := range b.subs {
		close(s.ch)
		delete(b.subs, id)
	}
}
