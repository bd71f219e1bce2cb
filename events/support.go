package events

import (
	"sync"
	"time"
)

// Support keeps the session and transfer listener registries of a wagon and
// fans events out to them. The zero value is ready for use.
//
// Thread Safety: registration and dispatch may be called concurrently.
// Dispatch iterates a snapshot of the registry taken when the event fires.
type Support struct {
	mu        sync.Mutex
	sessions  []SessionListener
	transfers []TransferListener

	// now stamps events; tests replace it to get deterministic timestamps
	now func() time.Time
}

// NewSupport creates a Support that stamps events with clock.
// A nil clock uses time.Now.
func NewSupport(clock func() time.Time) *Support {
	return &Support{now: clock}
}

func (s *Support) stamp() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// AddSessionListener registers l. Adding a listener twice has no effect.
func (s *Support) AddSessionListener(l SessionListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sessions {
		if existing == l {
			return
		}
	}
	s.sessions = append(s.sessions, l)
}

// RemoveSessionListener unregisters l. Removing an unknown listener is a no-op.
func (s *Support) RemoveSessionListener(l SessionListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.sessions {
		if existing == l {
			s.sessions = append(s.sessions[:i:i], s.sessions[i+1:]...)
			return
		}
	}
}

// HasSessionListener reports whether l is registered.
func (s *Support) HasSessionListener(l SessionListener) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sessions {
		if existing == l {
			return true
		}
	}
	return false
}

// AddTransferListener registers l. Adding a listener twice has no effect.
func (s *Support) AddTransferListener(l TransferListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.transfers {
		if existing == l {
			return
		}
	}
	s.transfers = append(s.transfers, l)
}

// RemoveTransferListener unregisters l. Removing an unknown listener is a no-op.
func (s *Support) RemoveTransferListener(l TransferListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.transfers {
		if existing == l {
			s.transfers = append(s.transfers[:i:i], s.transfers[i+1:]...)
			return
		}
	}
}

// HasTransferListener reports whether l is registered.
func (s *Support) HasTransferListener(l TransferListener) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.transfers {
		if existing == l {
			return true
		}
	}
	return false
}

// FireSession stamps and delivers a session event of type t.
func (s *Support) FireSession(t SessionEventType, repository string) {
	s.dispatchSession(SessionEvent{Type: t, Repository: repository})
}

// FireSessionError delivers a SessionError event carrying err.
func (s *Support) FireSessionError(repository string, err error) {
	s.dispatchSession(SessionEvent{Type: SessionError, Repository: repository, Err: err})
}

// FireConnectionRefused delivers a SessionConnectionRefused event carrying err.
func (s *Support) FireConnectionRefused(repository string, err error) {
	s.dispatchSession(SessionEvent{Type: SessionConnectionRefused, Repository: repository, Err: err})
}

func (s *Support) dispatchSession(e SessionEvent) {
	e.Timestamp = s.stamp()

	s.mu.Lock()
	listeners := append([]SessionListener(nil), s.sessions...)
	s.mu.Unlock()

	for _, l := range listeners {
		l.SessionEvent(e)
	}
}

// FireTransfer stamps e and delivers it to every transfer listener.
func (s *Support) FireTransfer(e TransferEvent) {
	e.Timestamp = s.stamp()

	s.mu.Lock()
	listeners := append([]TransferListener(nil), s.transfers...)
	s.mu.Unlock()

	for _, l := range listeners {
		l.TransferEvent(e)
	}
}

// ChannelSink forwards events onto caller-supplied channels. A nil channel
// drops that kind of event. Sends block, so channels must be buffered or
// drained by another goroutine; blocking keeps delivery in order.
type ChannelSink struct {
	Sessions  chan<- SessionEvent
	Transfers chan<- TransferEvent
}

// SessionEvent implements SessionListener.
func (c *ChannelSink) SessionEvent(e SessionEvent) {
	if c.Sessions != nil {
		c.Sessions <- e
	}
}

// TransferEvent implements TransferListener.
func (c *ChannelSink) TransferEvent(e TransferEvent) {
	if c.Transfers != nil {
		c.Transfers <- e
	}
}

var (
	_ SessionListener  = (*ChannelSink)(nil)
	_ TransferListener = (*ChannelSink)(nil)
)
