package store

import "sync"

// Bus is the change notification channel between mutations and views.
// It carries no payload: subscribers re-read the store themselves.
type Bus struct {
	mu   sync.Mutex
	subs []*Subscription
}

// Subscription identifies one registered listener so it can be removed.
type Subscription struct {
	fn func()
}

func NewBus() *Bus { return &Bus{} }

// Subscribe registers a listener. Listeners are invoked synchronously in
// registration order.
func (b *Bus) Subscribe(fn func()) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub := &Subscription{fn: fn}
	b.subs = append(b.subs, sub)
	return sub
}

// Unsubscribe removes a previously registered listener.
func (b *Bus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Notify invokes every listener once. One completed mutation produces
// exactly one Notify; tight mutation loops are not coalesced.
func (b *Bus) Notify() {
	b.mu.Lock()
	subs := make([]*Subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn()
	}
}
