package campaign

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/rayyanz/wa-blast-backend/internal/model"
	"github.com/rayyanz/wa-blast-backend/internal/store"
)

const logCollection = "broadcasts"

// Journal is the append-only broadcast audit trail. Entries are batched in
// memory during a run and persisted once afterwards.
type Journal struct {
	store store.Store
	log   zerolog.Logger

	mu      sync.Mutex
	entries []model.BroadcastLog
}

func NewJournal(st store.Store, log zerolog.Logger) *Journal {
	return &Journal{store: st, log: log}
}

// Load replaces the in-memory trail with the persisted collection.
func (j *Journal) Load() error {
	var entries []model.BroadcastLog
	if err := j.store.Load(logCollection, &entries); err != nil {
		return err
	}
	j.mu.Lock()
	j.entries = entries
	j.mu.Unlock()
	return nil
}

// Append records entries without persisting.
func (j *Journal) Append(entries ...model.BroadcastLog) {
	if len(entries) == 0 {
		return
	}
	j.mu.Lock()
	j.entries = append(j.entries, entries...)
	j.mu.Unlock()
}

// Flush persists the trail. Write failures are logged only.
func (j *Journal) Flush() {
	j.mu.Lock()
	snapshot := make([]model.BroadcastLog, len(j.entries))
	copy(snapshot, j.entries)
	j.mu.Unlock()

	if err := j.store.Save(logCollection, snapshot); err != nil {
		j.log.Error().Err(err).Msg("failed to persist broadcast log")
	}
}

// Snapshot copies the trail in order.
func (j *Journal) Snapshot() []model.BroadcastLog {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]model.BroadcastLog, len(j.entries))
	copy(out, j.entries)
	return out
}
