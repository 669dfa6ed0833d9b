package services

import "sync"

// ErrorBus fans persistence failures out to every subscriber.
// Delivery is best-effort: a subscriber whose buffer is full misses the
// event, and events carry no ordering guarantee relative to other writes.
type ErrorBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan *PersistenceError
}

func NewErrorBus() *ErrorBus {
	return &ErrorBus{subs: make(map[int]chan *PersistenceError)}
}

// Subscribe returns a channel of events and a cancel func that closes it.
func (b *ErrorBus) Subscribe(buffer int) (<-chan *PersistenceError, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan *PersistenceError, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (b *ErrorBus) Publish(event *PersistenceError) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
