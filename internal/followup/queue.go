// Package followup owns the pending follow-up collection: a persistent
// queue mutated by the campaign engine (enqueue), the tick scheduler
// (dequeue on fire) and the inbound stop-keyword handler (dequeue on
// cancel). Every scan-and-mutate pass runs as a single synchronous pass
// under one mutex with persistence after the pass, so an entry is removed
// exactly once and the scheduler/cancel race stays last-tick-wins.
package followup

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rayyanz/wa-blast-backend/internal/model"
	"github.com/rayyanz/wa-blast-backend/internal/phone"
	"github.com/rayyanz/wa-blast-backend/internal/store"
)

const collection = "followups"

type Queue struct {
	store store.Store
	norm  phone.Normalizer
	log   zerolog.Logger

	mu      sync.Mutex
	entries []model.FollowUp
}

func NewQueue(st store.Store, norm phone.Normalizer, log zerolog.Logger) *Queue {
	return &Queue{store: st, norm: norm, log: log}
}

// Load replaces the in-memory queue with the persisted collection.
func (q *Queue) Load() error {
	var entries []model.FollowUp
	if err := q.store.Load(collection, &entries); err != nil {
		return err
	}
	q.mu.Lock()
	q.entries = entries
	q.mu.Unlock()
	return nil
}

// Add appends entries without persisting; callers batch their mutations
// and call Flush once per run.
func (q *Queue) Add(entries ...model.FollowUp) {
	if len(entries) == 0 {
		return
	}
	q.mu.Lock()
	q.entries = append(q.entries, entries...)
	q.mu.Unlock()
}

// Flush persists the current queue. A write failure is logged only; the
// in-memory queue stays authoritative.
func (q *Queue) Flush() {
	q.mu.Lock()
	snapshot := make([]model.FollowUp, len(q.entries))
	copy(snapshot, q.entries)
	q.mu.Unlock()

	if err := q.store.Save(collection, snapshot); err != nil {
		q.log.Error().Err(err).Msg("failed to persist follow-up queue")
	}
}

// PopDue removes and returns every entry whose fire time has passed,
// persisting the remainder once. Removal happens before dispatch: a failed
// follow-up send is never rescheduled.
func (q *Queue) PopDue(now time.Time) []model.FollowUp {
	nowMs := now.UnixMilli()

	q.mu.Lock()
	var due, rest []model.FollowUp
	for _, e := range q.entries {
		if e.FireAt <= nowMs {
			due = append(due, e)
		} else {
			rest = append(rest, e)
		}
	}
	q.entries = rest
	q.mu.Unlock()

	if len(due) > 0 {
		q.Flush()
	}
	return due
}

// PendingFor returns a snapshot of every entry whose recipient normalizes
// to the given canonical phone.
func (q *Queue) PendingFor(canonical string) []model.FollowUp {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []model.FollowUp
	for _, e := range q.entries {
		if q.norm.Normalize(e.Phone) == canonical {
			out = append(out, e)
		}
	}
	return out
}

// CancelFor removes every pending entry for the canonical phone and
// persists the queue. It returns how many entries were cancelled.
func (q *Queue) CancelFor(canonical string) int {
	q.mu.Lock()
	kept := q.entries[:0]
	removed := 0
	for _, e := range q.entries {
		if q.norm.Normalize(e.Phone) == canonical {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	q.entries = kept
	q.mu.Unlock()

	if removed > 0 {
		q.Flush()
	}
	return removed
}

// Len reports how many entries are pending.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Snapshot copies the pending entries in order.
func (q *Queue) Snapshot() []model.FollowUp {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]model.FollowUp, len(q.entries))
	copy(out, q.entries)
	return out
}
