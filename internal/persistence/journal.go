package persistence

import (
	"log/slog"
	"sync"

	"github.com/talgya/mini-town/internal/events"
)

// journalBatch is how many events are buffered before a write.
const journalBatch = 64

// Journal buffers simulation events and writes them to a run in batches.
type Journal struct {
	db  *DB
	run Run

	mu      sync.Mutex
	pending []events.Event
	written int
}

// NewJournal records run and returns a journal for its events.
func NewJournal(db *DB, run Run) (*Journal, error) {
	if err := db.SaveRun(run); err != nil {
		return nil, err
	}
	return &Journal{db: db, run: run}, nil
}

// Run returns the run this journal writes to.
func (j *Journal) Run() Run {
	return j.run
}

// Observe is an events.Observer. Write failures are logged, not returned.
func (j *Journal) Observe(e events.Event) {
	j.mu.Lock()
	j.pending = append(j.pending, e)
	full := len(j.pending) >= journalBatch
	j.mu.Unlock()

	if full {
		if err := j.Flush(); err != nil {
			slog.Error("journal write failed", "run", j.run.ID, "error", err)
		}
	}
}

// Flush writes all buffered events.
func (j *Journal) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.pending) == 0 {
		return nil
	}
	if err := j.db.SaveEvents(j.run.ID, j.pending); err != nil {
		return err
	}
	j.written += len(j.pending)
	j.pending = j.pending[:0]
	return nil
}

// Written returns how many events have reached the database.
func (j *Journal) Written() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.written
}

// Recent returns up to limit of the run's newest journaled events after
// flushing the buffer.
func (j *Journal) Recent(limit int) ([]events.Event, error) {
	if err := j.Flush(); err != nil {
		return nil, err
	}
	return j.db.RecentEvents(j.run.ID, limit)
}
