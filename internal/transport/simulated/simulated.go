// Package simulated is a transport implementation for local runs and
// tests: it issues a fake QR challenge, "scans" it after a delay and
// accepts every send.
//
// TODO: add a real WhatsApp bridge implementation next to this one.
package simulated

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rayyanz/wa-blast-backend/internal/transport"
)

// Options tune the simulation.
type Options struct {
	// ScanDelay is how long the fake QR stays unscanned before the
	// session reports ready.
	ScanDelay time.Duration

	// FailRate is the probability (0..1) that a send fails.
	FailRate float64

	// SendLatency is added to every send.
	SendLatency time.Duration
}

// NewFactory returns a transport.Factory producing simulated clients.
func NewFactory(opts Options, log zerolog.Logger) transport.Factory {
	if opts.ScanDelay <= 0 {
		opts.ScanDelay = 2 * time.Second
	}
	return func(deviceID string, ev transport.Events) transport.Client {
		return &client{
			deviceID: deviceID,
			ev:       ev,
			opts:     opts,
			log:      log.With().Str("device", deviceID).Logger(),
		}
	}
}

type client struct {
	deviceID string
	ev       transport.Events
	opts     Options
	log      zerolog.Logger

	mu    sync.Mutex
	ready bool
}

func (c *client) Initialize(ctx context.Context) error {
	go func() {
		if c.ev.QRIssued != nil {
			c.ev.QRIssued("SIM:" + c.deviceID + ":" + uuid.NewString())
		}
		select {
		case <-ctx.Done():
			if c.ev.Disconnected != nil {
				c.ev.Disconnected(ctx.Err().Error())
			}
			return
		case <-time.After(c.opts.ScanDelay):
		}

		c.mu.Lock()
		c.ready = true
		c.mu.Unlock()
		if c.ev.Ready != nil {
			c.ev.Ready(transport.SessionInfo{PushName: "Simulated " + c.deviceID})
		}
	}()
	return nil
}

func (c *client) Send(ctx context.Context, recipient string, msg transport.Message) error {
	c.mu.Lock()
	ready := c.ready
	c.mu.Unlock()
	if !ready {
		return fmt.Errorf("simulated session %s not ready", c.deviceID)
	}

	if c.opts.SendLatency > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.opts.SendLatency):
		}
	}
	if c.opts.FailRate > 0 && rand.Float64() < c.opts.FailRate {
		return fmt.Errorf("simulated send to %s failed", recipient)
	}

	ev := c.log.Info().Str("to", recipient)
	if msg.Media != nil {
		ev = ev.Str("media", msg.Media.Filename).Str("caption", msg.Caption)
	} else {
		ev = ev.Str("text", msg.Text)
	}
	ev.Msg("simulated send")
	return nil
}
