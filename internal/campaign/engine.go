// Package campaign runs broadcast campaigns: render, dispatch, pace, log
// and enqueue follow-ups, recipient by recipient in input order.
package campaign

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/rayyanz/wa-blast-backend/internal/followup"
	"github.com/rayyanz/wa-blast-backend/internal/model"
	"github.com/rayyanz/wa-blast-backend/internal/phone"
	"github.com/rayyanz/wa-blast-backend/internal/template"
	"github.com/rayyanz/wa-blast-backend/internal/transport"
)

// Sender dispatches one message through a device's session.
type Sender interface {
	Send(ctx context.Context, deviceID, recipient string, msg transport.Message) error
}

// DefaultDevice is used when a request names no device.
const DefaultDevice = "default"

// Engine executes campaigns and single sends.
type Engine struct {
	Sender        Sender
	Queue         *followup.Queue
	Journal       *Journal
	Norm          phone.Normalizer
	Fetcher       MediaFetcher
	FallbackNames []string
	Log           zerolog.Logger

	now func() time.Time
}

func NewEngine(sender Sender, queue *followup.Queue, journal *Journal, norm phone.Normalizer, fetcher MediaFetcher, fallbackNames []string, log zerolog.Logger) *Engine {
	if len(fallbackNames) == 0 {
		fallbackNames = []string{"Customer", "Bapak/Ibu/Kak"}
	}
	if fetcher == nil {
		fetcher = NewHTTPFetcher()
	}
	return &Engine{
		Sender:        sender,
		Queue:         queue,
		Journal:       journal,
		Norm:          norm,
		Fetcher:       fetcher,
		FallbackNames: fallbackNames,
		Log:           log,
		now:           time.Now,
	}
}

// Run executes one campaign. Per-recipient failures are logged and
// skipped; the run itself only fails on invalid input or a cancelled
// context. The broadcast log and follow-up queue are persisted once, after
// the loop.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	device := req.Device
	if device == "" {
		device = DefaultDevice
	}
	stops := splitStopKeywords(req.StopKeywords)
	start := e.now()
	res := &Result{Total: len(req.Numbers)}

	var limiter *rate.Limiter
	if delay := req.PacingDelay(); delay > 0 {
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}

	var entries []model.BroadcastLog
	for _, item := range req.Numbers {
		raw := phone.Digits(item.Phone)
		if raw == "" {
			e.Log.Warn().Str("entry", item.Phone).Msg("skipping recipient with no usable number")
			res.Skipped++
			continue
		}
		to := e.Norm.Normalize(raw)

		name := item.Name
		if name == "" {
			name = e.FallbackNames[rand.Intn(len(e.FallbackNames))]
		}
		text := template.ExpandSpintax(template.ApplyName(req.Message, name))

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				e.flushRun(entries)
				return res, err
			}
		}

		if err := e.dispatch(ctx, device, to, text, req); err != nil {
			e.Log.Error().Str("to", to).Err(err).Msg("broadcast send failed")
			res.Failed++
			continue
		}
		e.Log.Info().Str("to", to).Str("name", name).Msg("broadcast sent")
		res.Sent++

		entries = append(entries, model.BroadcastLog{
			Phone:    raw,
			Name:     name,
			Message:  text,
			MediaURL: req.MediaURL,
			SentAt:   e.now(),
		})

		if req.EnableFollowup {
			e.enqueueFollowUps(device, to, req.FollowUps, stops, start)
		}
	}

	e.flushRun(entries)
	return res, nil
}

// flushRun persists everything a run accumulated. Called on every exit
// path, including an aborted run, so entries for recipients already sent
// are never lost.
func (e *Engine) flushRun(entries []model.BroadcastLog) {
	e.Journal.Append(entries...)
	e.Journal.Flush()
	e.Queue.Flush()
}

// dispatch sends the rendered message, fetching media per recipient when a
// reference is supplied. Mode "caption" attaches the text to the media in
// one message; anything else sends text first and media second.
func (e *Engine) dispatch(ctx context.Context, device, to, text string, req Request) error {
	if req.MediaURL == "" {
		return e.Sender.Send(ctx, device, to, transport.Message{Text: text})
	}

	media, err := e.Fetcher.Fetch(ctx, req.MediaURL)
	if err != nil {
		return err
	}
	if req.SendMethod == "" || req.SendMethod == "caption" {
		return e.Sender.Send(ctx, device, to, transport.Message{Media: media, Caption: text})
	}
	if err := e.Sender.Send(ctx, device, to, transport.Message{Text: text}); err != nil {
		return err
	}
	return e.Sender.Send(ctx, device, to, transport.Message{Media: media})
}

// enqueueFollowUps adds one entry per valid rule. Fire times are anchored
// to the campaign start, so pacing does not stretch them. Rules with an
// unparsable delay are skipped.
func (e *Engine) enqueueFollowUps(device, to string, rules []FollowUpRule, stops []string, start time.Time) {
	for _, rule := range rules {
		d, err := followup.ParseDelay(rule.Delay)
		if err != nil {
			e.Log.Warn().Str("delay", rule.Delay).Msg("skipping follow-up rule with invalid delay")
			continue
		}
		e.Queue.Add(model.FollowUp{
			Device:       device,
			Phone:        to,
			Message:      rule.Message,
			FireAt:       start.Add(d).UnixMilli(),
			StopKeywords: stops,
		})
	}
}

// SendSingle performs the synchronous single-send path: spintax only (no
// name placeholder pool), optional follow-ups, queue persisted before
// returning.
func (e *Engine) SendSingle(ctx context.Context, req SingleRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	device := req.Device
	if device == "" {
		device = DefaultDevice
	}
	to := e.Norm.Normalize(req.Phone)
	text := template.ExpandSpintax(req.Message)

	if err := e.Sender.Send(ctx, device, to, transport.Message{Text: text}); err != nil {
		return err
	}
	e.Log.Info().Str("to", to).Msg("message sent")

	if req.EnableFollowup && len(req.FollowUps) > 0 {
		e.enqueueFollowUps(device, to, req.FollowUps, splitStopKeywords(req.StopKeywords), e.now())
		e.Queue.Flush()
	}
	return nil
}
