package eventbus

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestSubscribeDeliversPublishedEvents(t *testing.T) {
	b := New(testLogger())
	sub := b.Subscribe()

	b.Publish(Event{Kind: KindStateUpdate, Revision: 1})
	b.Publish(Event{Kind: KindActionApplied})

	ev := <-sub.Events()
	assert.Equal(t, KindStateUpdate, ev.Kind)
	ev = <-sub.Events()
	assert.Equal(t, KindActionApplied, ev.Kind)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New(testLogger())
	sub := b.Subscribe()
	sub.Unsubscribe()

	_, ok := <-sub.Events()
	assert.False(t, ok)
}

func TestCloseClosesEveryOpenSubscription(t *testing.T) {
	b := New(testLogger())
	a := b.Subscribe()
	c := b.Subscribe()
	b.Close()

	_, ok := <-a.Events()
	assert.False(t, ok)
	_, ok = <-c.Events()
	assert.False(t, ok)

	// safe to call twice
	b.Close()
}

// TestBackpressureDropsOldestStateUpdateNotActionApplied fills a
// subscriber's buffer with StateUpdates and confirms that once full, a new
// StateUpdate evicts the oldest one rather than being refused, and an
// ActionApplied published afterward is never dropped: it evicts the next
// oldest StateUpdate to make room.
func TestBackpressureDropsOldestStateUpdateNotActionApplied(t *testing.T) {
	b := New(testLogger())
	sub := b.Subscribe()

	for i := 1; i <= defaultBufferSize; i++ {
		b.Publish(Event{Kind: KindStateUpdate, Revision: uint64(i)})
	}
	// Buffer is now exactly full with revisions 1..bufferSize.

	b.Publish(Event{Kind: KindStateUpdate, Revision: uint64(defaultBufferSize + 1)})
	b.Publish(Event{Kind: KindActionApplied, Action: "raise"})

	first := <-sub.Events()
	require.Equal(t, KindStateUpdate, first.Kind)
	assert.Equal(t, uint64(3), first.Revision, "revisions 1 and 2 should have been evicted for revision 65 and the ActionApplied")

	var sawActionApplied bool
	for i := 0; i < defaultBufferSize; i++ {
		ev := <-sub.Events()
		if ev.Kind == KindActionApplied {
			sawActionApplied = true
			break
		}
	}
	assert.True(t, sawActionApplied, "ActionApplied must never be dropped for buffer space")
}

func TestPublishToDeliversOnlyToTargetSubscriber(t *testing.T) {
	b := New(testLogger())
	a := b.Subscribe()
	other := b.Subscribe()

	b.PublishTo(a, Event{Kind: KindStateUpdate, Revision: 7})

	ev := <-a.Events()
	assert.Equal(t, uint64(7), ev.Revision)

	select {
	case <-other.Events():
		t.Fatal("PublishTo must not deliver to other subscribers")
	default:
	}
}

func TestPublishAfterCloseIsNoop(t *testing.T) {
	b := New(testLogger())
	sub := b.Subscribe()
	b.Close()

	assert.NotPanics(t, func() {
		b.Publish(Event{Kind: KindStateUpdate})
	})
	_, ok := <-sub.Events()
	assert.False(t, ok)
}
