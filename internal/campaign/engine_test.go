package campaign

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rayyanz/wa-blast-backend/internal/followup"
	"github.com/rayyanz/wa-blast-backend/internal/model"
	"github.com/rayyanz/wa-blast-backend/internal/phone"
	"github.com/rayyanz/wa-blast-backend/internal/store"
	"github.com/rayyanz/wa-blast-backend/internal/transport"
)

type sentMsg struct {
	Device string
	To     string
	Msg    transport.Message
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []sentMsg
	failFor map[string]bool
	onSend  func()
}

func (f *fakeSender) Send(ctx context.Context, deviceID, recipient string, msg transport.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[recipient] {
		return fmt.Errorf("send to %s failed", recipient)
	}
	f.sent = append(f.sent, sentMsg{Device: deviceID, To: recipient, Msg: msg})
	if f.onSend != nil {
		f.onSend()
	}
	return nil
}

func (f *fakeSender) all() []sentMsg {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMsg(nil), f.sent...)
}

type fakeFetcher struct {
	mu      sync.Mutex
	fetches int
	err     error
}

func (f *fakeFetcher) Fetch(ctx context.Context, mediaURL string) (*transport.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return &transport.Media{MimeType: "image/png", Data: []byte{1}, Filename: "promo.png"}, nil
}

func newTestEngine(t *testing.T) (*Engine, *fakeSender, *fakeFetcher, *followup.Queue) {
	t.Helper()
	st, err := store.Open(store.Config{Driver: "file", DataDir: t.TempDir()}, zerolog.Nop())
	require.NoError(t, err)

	norm := phone.New("62", "0")
	q := followup.NewQueue(st, norm, zerolog.Nop())
	j := NewJournal(st, zerolog.Nop())
	sender := &fakeSender{failFor: map[string]bool{}}
	fetcher := &fakeFetcher{}

	e := NewEngine(sender, q, j, norm, fetcher, []string{"Customer"}, zerolog.Nop())
	return e, sender, fetcher, q
}

func TestRunSkipsInvalidRecipients(t *testing.T) {
	e, sender, _, _ := newTestEngine(t)

	res, err := e.Run(context.Background(), Request{
		Numbers: []model.Recipient{
			{Phone: "6281111111111", Name: "Alice"},
			{Phone: "invalid!!"},
		},
		Message: "Hi {N}",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 0, res.Failed)

	got := sender.all()
	require.Len(t, got, 1)
	assert.Equal(t, "6281111111111", got[0].To)
	assert.Equal(t, "Hi Alice", got[0].Msg.Text)

	logs := e.Journal.Snapshot()
	require.Len(t, logs, 1)
	assert.Equal(t, "Hi Alice", logs[0].Message)
	assert.Equal(t, "Alice", logs[0].Name)
}

func TestRunValidatesBeforeSending(t *testing.T) {
	e, sender, _, _ := newTestEngine(t)

	_, err := e.Run(context.Background(), Request{Message: "hi"})
	assert.Error(t, err)

	_, err = e.Run(context.Background(), Request{Numbers: []model.Recipient{{Phone: "62811"}}})
	assert.Error(t, err)

	assert.Empty(t, sender.all())
}

func TestRunContinuesPastSendFailures(t *testing.T) {
	e, sender, _, _ := newTestEngine(t)
	sender.failFor["62811"] = true

	res, err := e.Run(context.Background(), Request{
		Numbers: []model.Recipient{{Phone: "0811"}, {Phone: "0822"}},
		Message: "hi",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.Sent)

	// The failed recipient gets no audit entry.
	logs := e.Journal.Snapshot()
	require.Len(t, logs, 1)
	assert.Equal(t, "822", logs[0].Phone[len(logs[0].Phone)-3:])
}

func TestRunNormalizesTrunkPrefix(t *testing.T) {
	e, sender, _, _ := newTestEngine(t)

	_, err := e.Run(context.Background(), Request{
		Numbers: []model.Recipient{{Phone: "081234567890"}},
		Message: "hi",
	})
	require.NoError(t, err)

	got := sender.all()
	require.Len(t, got, 1)
	assert.Equal(t, "6281234567890", got[0].To)
}

func TestRunFallbackNameWhenMissing(t *testing.T) {
	e, sender, _, _ := newTestEngine(t)

	_, err := e.Run(context.Background(), Request{
		Numbers: []model.Recipient{{Phone: "62811"}},
		Message: "Hi {N}",
	})
	require.NoError(t, err)

	got := sender.all()
	require.Len(t, got, 1)
	assert.Equal(t, "Hi Customer", got[0].Msg.Text)
}

func TestRunMediaCaptionMode(t *testing.T) {
	e, sender, fetcher, _ := newTestEngine(t)

	_, err := e.Run(context.Background(), Request{
		Numbers:  []model.Recipient{{Phone: "62811"}, {Phone: "62822"}},
		Message:  "look",
		MediaURL: "https://example.com/promo.png",
	})
	require.NoError(t, err)

	got := sender.all()
	require.Len(t, got, 2)
	for _, s := range got {
		require.NotNil(t, s.Msg.Media)
		assert.Equal(t, "look", s.Msg.Caption)
	}
	// Fetched once per recipient, never cached.
	assert.Equal(t, 2, fetcher.fetches)
}

func TestRunMediaSeparateMode(t *testing.T) {
	e, sender, _, _ := newTestEngine(t)

	_, err := e.Run(context.Background(), Request{
		Numbers:    []model.Recipient{{Phone: "62811"}},
		Message:    "look",
		MediaURL:   "https://example.com/promo.png",
		SendMethod: "separate",
	})
	require.NoError(t, err)

	got := sender.all()
	require.Len(t, got, 2)
	assert.Equal(t, "look", got[0].Msg.Text)
	assert.Nil(t, got[0].Msg.Media)
	assert.NotNil(t, got[1].Msg.Media)
}

func TestRunMediaFetchFailureSkipsRecipientOnly(t *testing.T) {
	e, sender, fetcher, _ := newTestEngine(t)
	fetcher.err = fmt.Errorf("boom")

	res, err := e.Run(context.Background(), Request{
		Numbers:  []model.Recipient{{Phone: "62811"}, {Phone: "62822"}},
		Message:  "look",
		MediaURL: "https://example.com/promo.png",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Failed)
	assert.Empty(t, sender.all())
}

func TestRunEnqueuesFollowUps(t *testing.T) {
	e, _, _, q := newTestEngine(t)
	at := time.UnixMilli(1_700_000_000_000)
	e.now = func() time.Time { return at }

	_, err := e.Run(context.Background(), Request{
		Numbers:        []model.Recipient{{Phone: "0811", Name: "Alice"}},
		Message:        "hi",
		EnableFollowup: true,
		FollowUps: []FollowUpRule{
			{Delay: "10s", Message: "ping {a|b}"},
			{Delay: "bogus", Message: "never"},
			{Delay: "1h", Message: "pong"},
		},
		StopKeywords: "Stop, BERHENTI",
	})
	require.NoError(t, err)

	entries := q.Snapshot()
	require.Len(t, entries, 2)

	assert.Equal(t, at.UnixMilli()+10_000, entries[0].FireAt)
	assert.Equal(t, "ping {a|b}", entries[0].Message) // raw template, expanded at fire time
	assert.Equal(t, "62811", entries[0].Phone)
	assert.Equal(t, []string{"stop", "berhenti"}, entries[0].StopKeywords)

	assert.Equal(t, at.UnixMilli()+3_600_000, entries[1].FireAt)
}

func TestRunWithoutPacingIsImmediate(t *testing.T) {
	e, sender, _, _ := newTestEngine(t)

	recipients := []model.Recipient{{Phone: "62811"}, {Phone: "62822"}, {Phone: "62833"}}

	start := time.Now()
	_, err := e.Run(context.Background(), Request{Numbers: recipients, Message: "hi"})
	require.NoError(t, err)

	assert.Len(t, sender.all(), 3)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRunPacingEnforcesDelay(t *testing.T) {
	e, sender, _, _ := newTestEngine(t)

	start := time.Now()
	_, err := e.Run(context.Background(), Request{
		Numbers:     []model.Recipient{{Phone: "62811"}, {Phone: "62822"}},
		Message:     "hi",
		DelayEnable: true,
		DelayValue:  1,
		DelayUnit:   "s",
	})
	require.NoError(t, err)

	assert.Len(t, sender.all(), 2)
	// Two recipients paced one second apart: at least one second elapsed.
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
}

func TestRunAbortedMidRunStillFlushes(t *testing.T) {
	st, err := store.Open(store.Config{Driver: "file", DataDir: t.TempDir()}, zerolog.Nop())
	require.NoError(t, err)
	norm := phone.New("62", "0")
	q := followup.NewQueue(st, norm, zerolog.Nop())
	sender := &fakeSender{}
	e := NewEngine(sender, q, NewJournal(st, zerolog.Nop()), norm, &fakeFetcher{}, nil, zerolog.Nop())

	// Cancel after the first send so the limiter aborts the second wait.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sender.onSend = cancel

	res, err := e.Run(ctx, Request{
		Numbers:        []model.Recipient{{Phone: "62811", Name: "Alice"}, {Phone: "62822"}},
		Message:        "hi",
		DelayEnable:    true,
		DelayValue:     1,
		DelayUnit:      "h",
		EnableFollowup: true,
		FollowUps:      []FollowUpRule{{Delay: "10s", Message: "ping"}},
	})
	require.Error(t, err)
	assert.Equal(t, 1, res.Sent)

	// The completed recipient's log entry and follow-up were persisted.
	journal := NewJournal(st, zerolog.Nop())
	require.NoError(t, journal.Load())
	require.Len(t, journal.Snapshot(), 1)
	assert.Equal(t, "Alice", journal.Snapshot()[0].Name)

	q2 := followup.NewQueue(st, norm, zerolog.Nop())
	require.NoError(t, q2.Load())
	assert.Equal(t, 1, q2.Len())
}

func TestRunPacingRespectsContextCancel(t *testing.T) {
	e, sender, _, _ := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := e.Run(ctx, Request{
		Numbers:     []model.Recipient{{Phone: "62811"}, {Phone: "62822"}},
		Message:     "hi",
		DelayEnable: true,
		DelayValue:  1,
		DelayUnit:   "h",
	})
	assert.Error(t, err)
	assert.Equal(t, 0, res.Sent)
	assert.Empty(t, sender.all())
}

func TestSendSingleWithFollowUps(t *testing.T) {
	e, sender, _, q := newTestEngine(t)
	at := time.UnixMilli(1_700_000_000_000)
	e.now = func() time.Time { return at }

	err := e.SendSingle(context.Background(), SingleRequest{
		Phone:          "0811",
		Message:        "halo",
		EnableFollowup: true,
		FollowUps:      []FollowUpRule{{Delay: "10s", Message: "ping"}},
		StopKeywords:   "stop",
	})
	require.NoError(t, err)

	got := sender.all()
	require.Len(t, got, 1)
	assert.Equal(t, "62811", got[0].To)
	assert.Equal(t, "halo", got[0].Msg.Text)

	entries := q.Snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, at.UnixMilli()+10_000, entries[0].FireAt)
}

func TestSendSingleValidation(t *testing.T) {
	e, sender, _, _ := newTestEngine(t)

	assert.Error(t, e.SendSingle(context.Background(), SingleRequest{Message: "hi"}))
	assert.Error(t, e.SendSingle(context.Background(), SingleRequest{Phone: "62811"}))
	assert.Empty(t, sender.all())
}
