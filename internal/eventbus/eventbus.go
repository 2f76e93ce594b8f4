// Package eventbus implements the per-session Event Bus: a bounded,
// backpressure-tolerant fan-out primitive. It generalizes
// internal/game/events.go's SimpleEventBus (publish-to-subscribers-list)
// into a per-subscriber buffered channel with an explicit drop policy
// under load.
package eventbus

import (
	"sync"

	"github.com/rs/zerolog"
)

// Kind discriminates the four event shapes a subscriber can observe.
type Kind int

const (
	KindStateUpdate Kind = iota
	KindActionApplied
	KindError
	KindTerminal
)

// Event is the wire-facing envelope published on the bus. Exactly one of
// the payload fields is meaningful per Kind; callers switch on Kind.
type Event struct {
	Kind Kind

	// KindStateUpdate
	Revision  uint64
	StateJSON any // GameState-shaped payload; left as `any` so eventbus
	// has no dependency on internal/session's concrete GameState type.

	// KindActionApplied
	Action any // a PlayerAction Record-shaped payload

	// KindError
	ErrorKind   string
	ErrorDetail string

	// KindTerminal
	FinalRankings any
}

const defaultBufferSize = 64

// Subscription is a bounded stream of Events for one subscriber.
type Subscription struct {
	id     uint64
	events chan Event
	bus    *Bus
}

// Events returns the channel of events for this subscription. It is
// closed when the bus closes or the subscriber Unsubscribes.
func (s *Subscription) Events() <-chan Event { return s.events }

// Unsubscribe detaches this subscription. Safe to call multiple times.
func (s *Subscription) Unsubscribe() {
	s.bus.unsubscribe(s.id)
}

// Bus is one session's event bus. The zero value is not usable; use New.
type Bus struct {
	mu          sync.Mutex
	logger      zerolog.Logger
	bufferSize  int
	subscribers map[uint64]*subscriberState
	nextID      uint64
	closed      bool
}

type subscriberState struct {
	ch chan Event
}

// New constructs a bus with the default 64-event per-subscriber buffer.
func New(logger zerolog.Logger) *Bus {
	return &Bus{
		logger:      logger.With().Str("component", "event_bus").Logger(),
		bufferSize:  defaultBufferSize,
		subscribers: make(map[uint64]*subscriberState),
	}
}

// Subscribe attaches a new subscriber and returns its stream. Safe to call
// at any time while the session is Running.
func (b *Bus) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, b.bufferSize)
	b.subscribers[id] = &subscriberState{ch: ch}
	if b.closed {
		close(ch)
	}
	return &Subscription{id: id, events: ch, bus: b}
}

func (b *Bus) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if st, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(st.ch)
	}
}

// Publish fans an event out to every subscriber without blocking: the
// publisher never blocks on any subscriber's channel. On a full
// buffer, the oldest StateUpdate in that subscriber's channel is dropped
// to make room — ActionApplied and Terminal are never dropped; they are
// delivered by first making room, evicting StateUpdates only.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, st := range b.subscribers {
		b.deliverLocked(st, ev)
	}
}

func (b *Bus) deliverLocked(st *subscriberState, ev Event) {
	select {
	case st.ch <- ev:
		return
	default:
	}

	if ev.Kind == KindStateUpdate {
		// Buffer is full: keep this StateUpdate and evict an older one,
		// since the channel already holds bufferSize undelivered events
		// and the policy is to drop the OLDEST StateUpdate, not refuse the
		// newest. We approximate "oldest StateUpdate" by draining one
		// StateUpdate from the front of the channel (FIFO), which is the
		// oldest pending event of any kind that is droppable; if the
		// front event is not droppable we keep draining until we find
		// one, re-queueing any ActionApplied/Terminal we pass over.
		b.evictOldestStateUpdateLocked(st, ev)
		return
	}

	// ActionApplied / Terminal / Error must never be dropped: evict the
	// oldest StateUpdate to make room, then enqueue.
	b.evictOldestStateUpdateLocked(st, ev)
}

// evictOldestStateUpdateLocked drains events from the front of st.ch
// until it finds a StateUpdate to discard (making room for ev), then
// re-enqueues everything else it had to drain past, and finally enqueues
// ev. If no StateUpdate is found (buffer is entirely ActionApplied /
// Terminal), ev is dropped only if it is itself a StateUpdate; otherwise
// this should not happen in practice since ActionApplied always precedes
// the StateUpdate it causes so the buffer
// cannot fill with zero StateUpdates while under sustained load.
func (b *Bus) evictOldestStateUpdateLocked(st *subscriberState, ev Event) {
	n := len(st.ch)
	var passedOver []Event
	evicted := false
	for i := 0; i < n; i++ {
		e := <-st.ch
		if !evicted && e.Kind == KindStateUpdate {
			evicted = true
			continue
		}
		passedOver = append(passedOver, e)
	}
	for _, e := range passedOver {
		st.ch <- e
	}
	if evicted || ev.Kind != KindStateUpdate {
		select {
		case st.ch <- ev:
		default:
			// Still full (buffer held zero StateUpdates and ev is not
			// droppable) — this subscriber is entirely backed up with
			// ActionApplied/Terminal; drop nothing further and surface
			// nothing further either, there is no safe slot.
		}
	}
}

// PublishTo delivers ev to exactly one subscriber, applying the same
// drop-oldest-StateUpdate backpressure policy as Publish. Used to hand a
// newly-attached subscriber its initial snapshot without replaying it to
// everyone else.
func (b *Bus) PublishTo(sub *Subscription, ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	st, ok := b.subscribers[sub.id]
	if !ok {
		return
	}
	b.deliverLocked(st, ev)
}

// Close drains every subscriber (closes their channels) after delivering
// any final events already queued via Publish. Safe to call multiple
// times.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, st := range b.subscribers {
		close(st.ch)
		delete(b.subscribers, id)
	}
}
