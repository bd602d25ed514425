package signal

import "sync"

// Broadcaster fans a payload-less signal out to every current subscriber.
// The zero value is not usable; construct with [New].
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[uint64]chan struct{}
	nextID uint64
	closed bool
}

func New() *Broadcaster {
	return &Broadcaster{
		subs: make(map[uint64]chan struct{}),
	}
}

// Subscribe registers a listener. The returned channel delivers at least one
// notification for any burst of publishes (pending notifications coalesce).
// The cancel func removes the subscription and closes the channel; it is
// safe to call more than once.
func (b *Broadcaster) Subscribe() (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan struct{}, 1)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// Publish notifies every subscriber without blocking. A subscriber that
// already has a pending notification is skipped: repeated publishes net a
// single delivery, which is exactly the semantics the logout path needs.
func (b *Broadcaster) Publish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close tears down the broadcaster, closing every subscriber channel.
// Subsequent publishes and subscriptions are no-ops.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Subscribers reports the number of active subscriptions.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
