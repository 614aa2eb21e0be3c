// Package core holds the room/session concurrency engine: the
// concurrent room registry, the per-room broadcast hub and the
// realtime action processor. It owns all shared mutable state; the
// adapters only reach rooms through the registry's access discipline.
package core

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Frame is one serialized server message.
type Frame []byte

// Subscription is one receiver on a room's hub. The channel buffer is
// the subscriber's whole backlog: on overflow the oldest buffered
// frame is dropped for the new one and the subscription is marked
// lagged, so the newest frame is always waiting and the owner always
// gets a read on which to notice the lag and resynchronize with a
// full room snapshot.
type Subscription struct {
	ch     chan Frame
	lagged atomic.Bool
}

// C is the receive side. It is closed when the room's hub shuts down.
func (s *Subscription) C() <-chan Frame { return s.ch }

// TakeLagged reports and clears the lag mark.
func (s *Subscription) TakeLagged() bool {
	return s.lagged.Swap(false)
}

// Drain discards everything currently buffered. After a lag episode
// the buffered frames predate the overflow and must not be delivered
// behind a fresh snapshot.
func (s *Subscription) Drain() {
	for {
		select {
		case _, ok := <-s.ch:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// Hub is a room's publish channel. One exists per room, created with
// it and closed when the room is removed. Delivery is best-effort
// at-most-once: no backlog replay for fresh subscribers, no retry, no
// delivery confirmation.
type Hub struct {
	mu      sync.Mutex
	subs    map[*Subscription]struct{}
	backlog int
	closed  bool
}

func NewHub(backlog int) *Hub {
	if backlog <= 0 {
		backlog = DefaultHubBacklog
	}
	return &Hub{
		subs:    make(map[*Subscription]struct{}),
		backlog: backlog,
	}
}

// DefaultHubBacklog bounds a subscriber's unread broadcasts.
const DefaultHubBacklog = 100

// Subscribe registers a fresh receiver. It observes only messages
// published after this call.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{ch: make(chan Frame, h.backlog)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(sub.ch)
		return sub
	}
	h.subs[sub] = struct{}{}
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, sub)
}

// Publish fans the frame out to every subscriber without blocking.
// Absence of subscribers is not an error. A subscriber whose backlog
// is full loses its oldest buffered frame to the new one and is
// marked lagged, so the newest frame always reaches its queue and the
// subscriber can force a full resync instead of ending a quiet lag
// episode on stale state.
func (h *Hub) Publish(frame Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for sub := range h.subs {
		select {
		case sub.ch <- frame:
			continue
		default:
		}
		// Publish is the only sender and holds the hub lock, so after
		// evicting one frame the send cannot fail.
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- frame:
		default:
		}
		sub.lagged.Store(true)
	}
}

// Close shuts the hub down and releases all subscribers. Called once,
// when the owning room is removed from the registry.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		close(sub.ch)
		delete(h.subs, sub)
	}
	log.Debug().Str("module", "core.hub").Msg("hub closed")
}

// SubscriberCount is used by stats and tests.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
