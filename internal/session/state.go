package session

import "github.com/rayyanz/wa-blast-backend/internal/transport"

// State is a device session's connection state.
type State string

const (
	StateInitializing State = "initializing"
	StateAwaitingScan State = "awaiting_scan"
	StateConnected    State = "connected"
	StateAuthFailed   State = "auth_failed"
	StateDisconnected State = "disconnected"

	// StateUnknown is reported for devices that were never referenced.
	StateUnknown State = "unknown"
)

// EventKind names a transport event driving the state machine.
type EventKind int

const (
	EventQRIssued EventKind = iota
	EventSessionReady
	EventAuthFailure
	EventSessionDropped
)

// Event carries one transport event and its payload.
type Event struct {
	Kind      EventKind
	Challenge string
	Info      transport.SessionInfo
	Reason    string
}

// apply ingests one event into the session record. Transitions are driven
// exclusively by transport events; nothing else mutates state.
func (s *session) apply(ev Event) {
	switch ev.Kind {
	case EventQRIssued:
		s.state = StateAwaitingScan
		s.challenge = ev.Challenge
	case EventSessionReady:
		s.state = StateConnected
		s.challenge = ""
		s.label = ev.Info.PushName
		if s.label == "" {
			s.label = s.deviceID
		}
	case EventAuthFailure:
		s.state = StateAuthFailed
	case EventSessionDropped:
		s.state = StateDisconnected
	}
}
