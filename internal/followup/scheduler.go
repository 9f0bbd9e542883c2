package followup

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/rayyanz/wa-blast-backend/internal/template"
	"github.com/rayyanz/wa-blast-backend/internal/transport"
)

// Sender dispatches one message through a device's session.
type Sender interface {
	Send(ctx context.Context, deviceID, recipient string, msg transport.Message) error
}

// Scheduler pumps the queue on a fixed interval: due entries are removed
// and dispatched, not-due entries are kept.
type Scheduler struct {
	queue    *Queue
	sender   Sender
	log      zerolog.Logger
	interval time.Duration
	timeout  time.Duration

	cron *cron.Cron
	now  func() time.Time
}

func NewScheduler(queue *Queue, sender Sender, interval time.Duration, log zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Scheduler{
		queue:    queue,
		sender:   sender,
		log:      log,
		interval: interval,
		timeout:  30 * time.Second,
		now:      time.Now,
	}
}

// Start begins ticking in the background.
func (s *Scheduler) Start() error {
	c := cron.New()
	if _, err := c.AddFunc("@every "+s.interval.String(), s.Tick); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	s.log.Info().Dur("interval", s.interval).Msg("follow-up scheduler started")
	return nil
}

// Stop halts ticking. A tick in flight runs to completion.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Tick runs one scan: pop due entries and dispatch each one, re-expanding
// spintax at fire time. Send failures are logged; the entry is gone either
// way.
func (s *Scheduler) Tick() {
	due := s.queue.PopDue(s.now())
	for _, e := range due {
		text := template.ExpandSpintax(e.Message)
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		err := s.sender.Send(ctx, e.Device, e.Phone, transport.Message{Text: text})
		cancel()
		if err != nil {
			s.log.Error().Str("phone", e.Phone).Err(err).Msg("follow-up send failed")
			continue
		}
		s.log.Info().Str("phone", e.Phone).Msg("follow-up sent")
	}
}
