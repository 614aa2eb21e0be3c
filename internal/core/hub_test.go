package core_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partyhub/gamecenter/internal/core"
)

func TestHub_FreshSubscriptionSeesNoBacklog(t *testing.T) {
	hub := core.NewHub(8)
	hub.Publish(core.Frame("before"))

	sub := hub.Subscribe()
	select {
	case frame := <-sub.C():
		t.Fatalf("fresh subscription received backlog frame %q", frame)
	default:
	}
}

func TestHub_PublishOrderPreserved(t *testing.T) {
	hub := core.NewHub(16)
	sub := hub.Subscribe()

	for i := 0; i < 10; i++ {
		hub.Publish(core.Frame(fmt.Sprintf("msg-%d", i)))
	}
	for i := 0; i < 10; i++ {
		frame := <-sub.C()
		assert.Equal(t, fmt.Sprintf("msg-%d", i), string(frame))
	}
}

func TestHub_FanOutToAllSubscribers(t *testing.T) {
	hub := core.NewHub(4)
	a := hub.Subscribe()
	b := hub.Subscribe()
	require.Equal(t, 2, hub.SubscriberCount())

	hub.Publish(core.Frame("hello"))

	assert.Equal(t, "hello", string(<-a.C()))
	assert.Equal(t, "hello", string(<-b.C()))
}

func TestHub_NoSubscribersIsNotAnError(t *testing.T) {
	hub := core.NewHub(4)
	// Must simply not panic or block.
	hub.Publish(core.Frame("into the void"))
}

func TestHub_LaggedSubscriberMarkedNotBlocked(t *testing.T) {
	hub := core.NewHub(2)
	slow := hub.Subscribe()

	hub.Publish(core.Frame("a"))
	hub.Publish(core.Frame("b"))
	// Backlog full: this publish must not block, and must mark the
	// subscriber instead of silently vanishing.
	hub.Publish(core.Frame("c"))

	assert.True(t, slow.TakeLagged())
	assert.False(t, slow.TakeLagged(), "lag mark is consumed by TakeLagged")

	// The oldest frame is evicted for the newest, so the queue always
	// ends on the latest published frame.
	assert.Equal(t, "b", string(<-slow.C()))
	assert.Equal(t, "c", string(<-slow.C()))
}

func TestSubscription_DrainDiscardsBacklog(t *testing.T) {
	hub := core.NewHub(4)
	sub := hub.Subscribe()

	hub.Publish(core.Frame("a"))
	hub.Publish(core.Frame("b"))
	sub.Drain()

	select {
	case frame := <-sub.C():
		t.Fatalf("drained subscription still held %q", frame)
	default:
	}

	// Draining a released subscription is harmless.
	hub.Close()
	sub.Drain()
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	hub := core.NewHub(4)
	sub := hub.Subscribe()
	hub.Unsubscribe(sub)

	hub.Publish(core.Frame("x"))
	select {
	case frame := <-sub.C():
		t.Fatalf("unsubscribed receiver got %q", frame)
	default:
	}
}

func TestHub_CloseReleasesSubscribers(t *testing.T) {
	hub := core.NewHub(4)
	sub := hub.Subscribe()

	hub.Publish(core.Frame("last"))
	hub.Close()

	frame, ok := <-sub.C()
	require.True(t, ok)
	assert.Equal(t, "last", string(frame))

	_, ok = <-sub.C()
	assert.False(t, ok, "channel closes after hub shutdown")

	// Idempotent.
	hub.Close()
	assert.Equal(t, 0, hub.SubscriberCount())
}

func TestHub_SubscribeAfterCloseYieldsClosedChannel(t *testing.T) {
	hub := core.NewHub(4)
	hub.Close()

	sub := hub.Subscribe()
	_, ok := <-sub.C()
	assert.False(t, ok)
}
