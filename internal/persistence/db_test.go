package persistence

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-town/internal/events"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "town.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunRoundTrip(t *testing.T) {
	db := openTemp(t)
	run := NewRun(42, 40, 30, "Downtown")
	require.NoError(t, db.SaveRun(run))

	got, err := db.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run, got)

	_, err = db.GetRun("missing")
	assert.Error(t, err)

	require.NoError(t, db.SaveRun(NewRun(7, 10, 10, "Harbor")))
	runs, err := db.Runs()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestSaveRunDuplicate(t *testing.T) {
	db := openTemp(t)
	run := NewRun(1, 10, 10, "Downtown")
	require.NoError(t, db.SaveRun(run))
	assert.Error(t, db.SaveRun(run))
}

func TestRecentEventsOrder(t *testing.T) {
	db := openTemp(t)
	run := NewRun(1, 10, 10, "Downtown")
	require.NoError(t, db.SaveRun(run))

	var evs []events.Event
	for i := 0; i < 10; i++ {
		evs = append(evs, events.Event{
			Frame:       uint64(i),
			Kind:        events.VehicleCollision,
			Source:      fmt.Sprintf("car-%d", i),
			Amount:      i,
			Description: "hit",
		})
	}
	require.NoError(t, db.SaveEvents(run.ID, evs))
	require.NoError(t, db.SaveEvents(run.ID, nil))

	got, err := db.RecentEvents(run.ID, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, evs[7:], got)

	n, err := db.CountEvents(run.ID, events.VehicleCollision)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	other, err := db.RecentEvents("other", 5)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMeta(t *testing.T) {
	db := openTemp(t)
	require.NoError(t, db.SaveMeta("last_run", "a"))
	require.NoError(t, db.SaveMeta("last_run", "b"))

	v, err := db.GetMeta("last_run")
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	_, err = db.GetMeta("nothing")
	assert.Error(t, err)
}

func TestJournalBatches(t *testing.T) {
	db := openTemp(t)
	j, err := NewJournal(db, NewRun(3, 20, 20, "Downtown"))
	require.NoError(t, err)

	for i := 0; i < journalBatch-1; i++ {
		j.Observe(events.Event{Frame: uint64(i), Kind: events.HeatRaised, Amount: 15})
	}
	assert.Zero(t, j.Written(), "below the batch size nothing is written")

	j.Observe(events.Event{Frame: 99, Kind: events.PlayerCaptured, Location: "Downtown"})
	assert.Equal(t, journalBatch, j.Written())

	j.Observe(events.Event{Frame: 100, Kind: events.BountiesChanged, Location: "Downtown"})
	recent, err := j.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, events.PlayerCaptured, recent[0].Kind)
	assert.Equal(t, events.BountiesChanged, recent[1].Kind)
	assert.Equal(t, journalBatch+1, j.Written())

	require.NoError(t, j.Flush())
}
