// Package session owns one transport client per device and tracks each
// device's connection state machine.
package session

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rayyanz/wa-blast-backend/internal/transport"
)

// session is one device's record. All fields are guarded by the manager
// mutex.
type session struct {
	deviceID  string
	state     State
	challenge string
	label     string
	client    transport.Client

	// gen counts client replacements. Events carry the generation of the
	// client that produced them; events from a superseded client are
	// dropped so a late disconnect cannot clobber the fresh client's
	// state.
	gen int
}

// MessageHandler receives inbound messages from any device's session.
type MessageHandler func(deviceID, from, body string, isGroup bool)

// DeviceStatus is one entry of List.
type DeviceStatus struct {
	ID    string `json:"id"`
	State string `json:"status"`
	Name  string `json:"name,omitempty"`
}

// Manager is the session registry. It creates sessions on first reference
// and drives their state from transport events.
type Manager struct {
	factory   transport.Factory
	log       zerolog.Logger
	onMessage MessageHandler

	mu       sync.Mutex
	sessions map[string]*session
}

func NewManager(factory transport.Factory, log zerolog.Logger) *Manager {
	return &Manager{
		factory:  factory,
		log:      log,
		sessions: make(map[string]*session),
	}
}

// OnMessage registers the inbound message handler shared by every session.
// Must be called before the first Ensure.
func (m *Manager) OnMessage(h MessageHandler) { m.onMessage = h }

// Ensure returns the session for deviceID, creating and initializing it on
// first reference. Calling Ensure twice never spawns a second connection. A
// session found in the disconnected state is explicitly reinitialized with
// a fresh transport client; every other state is left alone. Initialization
// failures surface only as state transitions, never as errors here.
func (m *Manager) Ensure(deviceID string) {
	m.mu.Lock()
	s, ok := m.sessions[deviceID]
	if ok && s.state != StateDisconnected {
		m.mu.Unlock()
		return
	}
	if !ok {
		s = &session{deviceID: deviceID}
		m.sessions[deviceID] = s
	}
	s.state = StateInitializing
	s.challenge = ""
	s.gen++
	s.client = m.factory(deviceID, m.events(deviceID, s.gen))
	client := s.client
	m.mu.Unlock()

	gen := s.gen
	m.log.Info().Str("device", deviceID).Msg("initializing session")
	go func() {
		if err := client.Initialize(context.Background()); err != nil {
			m.log.Error().Str("device", deviceID).Err(err).Msg("transport initialization failed")
			m.dispatch(deviceID, gen, Event{Kind: EventSessionDropped, Reason: err.Error()})
		}
	}()
}

// events builds the callback set for one device generation, funneling
// every transport event through the state machine.
func (m *Manager) events(deviceID string, gen int) transport.Events {
	return transport.Events{
		QRIssued: func(challenge string) {
			m.log.Info().Str("device", deviceID).Msg("qr generated")
			m.dispatch(deviceID, gen, Event{Kind: EventQRIssued, Challenge: challenge})
		},
		Ready: func(info transport.SessionInfo) {
			m.log.Info().Str("device", deviceID).Str("pushname", info.PushName).Msg("session ready")
			m.dispatch(deviceID, gen, Event{Kind: EventSessionReady, Info: info})
		},
		AuthFailure: func() {
			m.log.Warn().Str("device", deviceID).Msg("auth failure")
			m.dispatch(deviceID, gen, Event{Kind: EventAuthFailure})
		},
		Disconnected: func(reason string) {
			m.log.Warn().Str("device", deviceID).Str("reason", reason).Msg("session dropped")
			m.dispatch(deviceID, gen, Event{Kind: EventSessionDropped, Reason: reason})
		},
		MessageReceived: func(from, body string, isGroup bool) {
			if m.onMessage != nil && m.currentGen(deviceID) == gen {
				m.onMessage(deviceID, from, body, isGroup)
			}
		},
	}
}

// dispatch applies one event, dropping it when the producing client has
// been replaced since.
func (m *Manager) dispatch(deviceID string, gen int, ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[deviceID]
	if !ok || s.gen != gen {
		return
	}
	s.apply(ev)
}

func (m *Manager) currentGen(deviceID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[deviceID]; ok {
		return s.gen
	}
	return 0
}

// Challenge returns the pending QR challenge, valid only while the device
// is awaiting a scan.
func (m *Manager) Challenge(deviceID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[deviceID]
	if !ok || s.state != StateAwaitingScan || s.challenge == "" {
		return "", false
	}
	return s.challenge, true
}

// State returns the device's state label, or StateUnknown if the device
// was never referenced.
func (m *Manager) State(deviceID string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[deviceID]
	if !ok {
		return StateUnknown
	}
	return s.state
}

// Label returns the connected session's display label (push name, falling
// back to the device id).
func (m *Manager) Label(deviceID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[deviceID]; ok {
		return s.label
	}
	return ""
}

// List returns every known device with its state, sorted by device id.
func (m *Manager) List() []DeviceStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]DeviceStatus, 0, len(m.sessions))
	for id, s := range m.sessions {
		out = append(out, DeviceStatus{ID: id, State: string(s.state), Name: s.label})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Send dispatches one message through the device's session. It fails with
// a non-fatal error when the session is not connected.
func (m *Manager) Send(ctx context.Context, deviceID, recipient string, msg transport.Message) error {
	m.mu.Lock()
	s, ok := m.sessions[deviceID]
	var client transport.Client
	var state State
	if ok {
		client = s.client
		state = s.state
	}
	m.mu.Unlock()

	if !ok || client == nil {
		return fmt.Errorf("no session for device %s", deviceID)
	}
	if state != StateConnected {
		return fmt.Errorf("device %s is not connected (state %s)", deviceID, state)
	}
	return client.Send(ctx, recipient, msg)
}
