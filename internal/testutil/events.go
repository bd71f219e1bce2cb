package testutil

import (
	"sync"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/events"
)

// EventRecorder captures session and transfer events in arrival order.
type EventRecorder struct {
	mu        sync.Mutex
	Sessions  []events.SessionEvent
	Transfers []events.TransferEvent
}

// SessionEvent implements events.SessionListener.
func (r *EventRecorder) SessionEvent(e events.SessionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sessions = append(r.Sessions, e)
}

// TransferEvent implements events.TransferListener.
func (r *EventRecorder) TransferEvent(e events.TransferEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Transfers = append(r.Transfers, e)
}

// SessionTypes returns the recorded session event types.
func (r *EventRecorder) SessionTypes() []events.SessionEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.SessionEventType, 0, len(r.Sessions))
	for _, e := range r.Sessions {
		out = append(out, e.Type)
	}
	return out
}

// TransferTypes returns the recorded transfer event types, skipping progress
// events so assertions do not depend on chunking.
func (r *EventRecorder) TransferTypes() []events.TransferEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.TransferEventType, 0, len(r.Transfers))
	for _, e := range r.Transfers {
		if e.Type == events.TransferProgress {
			continue
		}
		out = append(out, e.Type)
	}
	return out
}

// Count returns how many transfer events of type t were recorded.
func (r *EventRecorder) Count(t events.TransferEventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.Transfers {
		if e.Type == t {
			n++
		}
	}
	return n
}

// Reset drops all recorded events.
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sessions = nil
	r.Transfers = nil
}
