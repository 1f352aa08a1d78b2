// Package events provides the in-process pub/sub bus used by the application
// lifecycle. Listeners run sequentially on the emitter's goroutine; there is
// no worker pool and no fan-out, which keeps bootstrap ordering deterministic.
//
// Subscriptions can be tagged with an owner. The owner index holds only
// subscription ids keyed by the owner's name — never the owner itself — so the
// sole strong reference to a provider's bound method is the listener set, and
// RemoveByOwner drops it for good. That is what keeps repeated init/destroy
// cycles from leaking listeners.
package events

import "sync"

// Listener handles one emitted event. Returning an error aborts the emit and
// propagates to the caller.
type Listener func(payload any) error

type subscription struct {
	id    int
	event string
	fn    Listener
	owner string
	once  bool
}

// Bus is the event bus.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[string][]*subscription
	owners map[string][]int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs:   make(map[string][]*subscription),
		owners: make(map[string][]int),
	}
}

// On subscribes a listener to an event, optionally tagged with an owner for
// bulk removal. It returns an unsubscribe function.
func (b *Bus) On(event string, fn Listener, owner ...string) func() {
	return b.subscribe(event, fn, ownerOf(owner), false)
}

// Once subscribes a listener that is removed after its first invocation.
func (b *Bus) Once(event string, fn Listener, owner ...string) func() {
	return b.subscribe(event, fn, ownerOf(owner), true)
}

func ownerOf(owner []string) string {
	if len(owner) > 0 {
		return owner[0]
	}
	return ""
}

func (b *Bus) subscribe(event string, fn Listener, owner string, once bool) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &subscription{id: b.nextID, event: event, fn: fn, owner: owner, once: once}
	b.subs[event] = append(b.subs[event], sub)
	if owner != "" {
		b.owners[owner] = append(b.owners[owner], sub.id)
	}

	id := sub.id
	return func() { b.removeByID(event, id) }
}

// Emit invokes every regular listener for the event in subscription order,
// awaiting each before the next, then invokes and removes every once
// listener. The first listener error aborts the emit and is returned.
func (b *Bus) Emit(event string, payload any) error {
	b.mu.Lock()
	all := b.subs[event]
	regular := make([]*subscription, 0, len(all))
	onces := make([]*subscription, 0)
	for _, sub := range all {
		if sub.once {
			onces = append(onces, sub)
		} else {
			regular = append(regular, sub)
		}
	}
	b.mu.Unlock()

	for _, sub := range regular {
		if err := sub.fn(payload); err != nil {
			return err
		}
	}
	for _, sub := range onces {
		b.removeByID(event, sub.id)
		if err := sub.fn(payload); err != nil {
			return err
		}
	}
	return nil
}

// RemoveByOwner unsubscribes every listener — regular and once — registered
// with the given owner.
func (b *Bus) RemoveByOwner(owner string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids, ok := b.owners[owner]
	if !ok {
		return
	}
	delete(b.owners, owner)

	owned := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		owned[id] = struct{}{}
	}
	for event, subs := range b.subs {
		kept := subs[:0]
		for _, sub := range subs {
			if _, gone := owned[sub.id]; !gone {
				kept = append(kept, sub)
			}
		}
		if len(kept) == 0 {
			delete(b.subs, event)
		} else {
			b.subs[event] = kept
		}
	}
}

// WaitFor returns a one-shot channel that receives the payload of the next
// emit of the event.
func (b *Bus) WaitFor(event string) <-chan any {
	ch := make(chan any, 1)
	b.Once(event, func(payload any) error {
		ch <- payload
		return nil
	})
	return ch
}

// ListenerCount reports the number of listeners currently subscribed to an
// event.
func (b *Bus) ListenerCount(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[event])
}

// Clear drops every subscription and owner index entry.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = make(map[string][]*subscription)
	b.owners = make(map[string][]int)
}

func (b *Bus) removeByID(event string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[event]
	for i, sub := range subs {
		if sub.id == id {
			b.subs[event] = append(subs[:i], subs[i+1:]...)
			if sub.owner != "" {
				b.dropOwnerID(sub.owner, id)
			}
			break
		}
	}
	if len(b.subs[event]) == 0 {
		delete(b.subs, event)
	}
}

// dropOwnerID removes one id from an owner's index (must hold mu).
func (b *Bus) dropOwnerID(owner string, id int) {
	ids := b.owners[owner]
	for i, existing := range ids {
		if existing == id {
			b.owners[owner] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(b.owners[owner]) == 0 {
		delete(b.owners, owner)
	}
}
