// Package events defines the session and transfer notifications a wagon emits
// and the dispatcher that delivers them to registered listeners.
//
// Delivery is synchronous: every Fire method invokes each listener in
// registration order on the calling goroutine before returning. Panics raised
// by a listener are not recovered and propagate to the caller of the wagon
// operation that triggered them.
package events

import (
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/wagontypes"
)

// SessionEventType identifies a session lifecycle transition.
type SessionEventType int

const (
	SessionOpening SessionEventType = iota
	SessionOpened
	SessionDisconnecting
	SessionDisconnected
	SessionConnectionRefused
	SessionLoggedIn
	SessionLoggedOff
	SessionError
)

var sessionEventNames = map[SessionEventType]string{
	SessionOpening:           "opening",
	SessionOpened:            "opened",
	SessionDisconnecting:     "disconnecting",
	SessionDisconnected:      "disconnected",
	SessionConnectionRefused: "connection-refused",
	SessionLoggedIn:          "logged-in",
	SessionLoggedOff:         "logged-off",
	SessionError:             "error",
}

// String returns the string representation of the SessionEventType.
func (t SessionEventType) String() string {
	if name, ok := sessionEventNames[t]; ok {
		return name
	}
	return "unknown"
}

// SessionEvent describes a change in session state.
type SessionEvent struct {
	Type      SessionEventType
	Timestamp time.Time

	// Repository is the repository ID the session is bound to
	Repository string

	// Err is set for SessionError and SessionConnectionRefused
	Err error
}

// TransferEventType identifies a stage of a transfer.
type TransferEventType int

const (
	TransferInitiated TransferEventType = iota
	TransferStarted
	TransferProgress
	TransferCompleted
	TransferError
)

var transferEventNames = map[TransferEventType]string{
	TransferInitiated: "initiated",
	TransferStarted:   "started",
	TransferProgress:  "progress",
	TransferCompleted: "completed",
	TransferError:     "error",
}

// String returns the string representation of the TransferEventType.
func (t TransferEventType) String() string {
	if name, ok := transferEventNames[t]; ok {
		return name
	}
	return "unknown"
}

// RequestType is the direction of a transfer.
type RequestType int

const (
	RequestGet RequestType = iota
	RequestPut
)

// String returns the string representation of the RequestType.
func (r RequestType) String() string {
	if r == RequestPut {
		return "put"
	}
	return "get"
}

// TransferEvent describes progress of a single get or put.
type TransferEvent struct {
	Type      TransferEventType
	Request   RequestType
	Timestamp time.Time

	Resource  wagontypes.Resource
	LocalFile string

	// Transferred and Total are set on TransferProgress. Total is -1 when unknown.
	Transferred int64
	Total       int64

	// Err is set on TransferError
	Err error
}

// SessionListener receives session events.
// Implementations must be comparable so that they can be removed again.
type SessionListener interface {
	SessionEvent(e SessionEvent)
}

// TransferListener receives transfer events.
// Implementations must be comparable so that they can be removed again.
type TransferListener interface {
	TransferEvent(e TransferEvent)
}
