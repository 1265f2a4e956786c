// Package events provides the process-wide progress event bus. Scrape
// sessions publish against their search id; the SSE delivery layer
// subscribes. Events published with no subscriber are dropped — the
// stream has no replay guarantee, and buffering for absent listeners
// would grow without bound.
package events

import (
	"sync"

	"github.com/user/ad-intel-service/internal/entity"
)

// subscriberBuffer bounds each subscriber channel. A subscriber that
// falls this far behind starts losing events rather than blocking the
// scrape pipeline.
const subscriberBuffer = 64

// Bus fans progress events out to subscribers keyed by search id.
type Bus struct {
	mu   sync.Mutex
	subs map[int64][]chan entity.ProgressEvent
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int64][]chan entity.ProgressEvent)}
}

// Subscribe registers a listener for one search's events. The returned
// cancel func must be called exactly once; it closes the channel.
func (b *Bus) Subscribe(searchID int64) (<-chan entity.ProgressEvent, func()) {
	ch := make(chan entity.ProgressEvent, subscriberBuffer)

	b.mu.Lock()
	b.subs[searchID] = append(b.subs[searchID], ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[searchID]
		for i, c := range list {
			if c == ch {
				b.subs[searchID] = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(b.subs[searchID]) == 0 {
			delete(b.subs, searchID)
		}
		close(ch)
	}
	return ch, cancel
}

// Publish delivers an event to current subscribers of the search.
// Non-blocking: a full subscriber channel drops the event, and no
// subscriber at all means the event is discarded.
func (b *Bus) Publish(searchID int64, ev entity.ProgressEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[searchID] {
		select {
		case ch <- ev:
		default:
		}
	}
}
