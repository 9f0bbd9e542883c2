// Package transport defines the messaging transport capability consumed by
// the session manager. The protocol behind it is a black box: the session
// layer only initializes clients, sends content and reacts to events.
package transport

import "context"

// Media is a binary payload with enough metadata to send it as a document
// or image.
type Media struct {
	MimeType string
	Data     []byte
	Filename string
}

// Message is outbound content: plain text, or media with an optional
// caption.
type Message struct {
	Text    string
	Media   *Media
	Caption string
}

// SessionInfo describes an authenticated session.
type SessionInfo struct {
	PushName string
}

// Events are the callbacks a client raises for its device. All fields are
// optional; nil callbacks are skipped by implementations.
type Events struct {
	QRIssued        func(challenge string)
	Ready           func(info SessionInfo)
	AuthFailure     func()
	Disconnected    func(reason string)
	MessageReceived func(from, body string, isGroup bool)
}

// Client is one device's connection.
type Client interface {
	// Initialize starts connecting and returns quickly; progress is
	// reported through Events. An error here means the attempt could not
	// even start.
	Initialize(ctx context.Context) error

	// Send delivers one message to a canonical recipient id, best effort,
	// no retry.
	Send(ctx context.Context, recipient string, msg Message) error
}

// Factory builds a client for a device, wiring its event callbacks.
type Factory func(deviceID string, ev Events) Client
