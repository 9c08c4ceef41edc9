package savedb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neondrift.city/internal/sim/catalogs"
	"neondrift.city/internal/sim/tuning"
	"neondrift.city/internal/sim/world"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

func openTest(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "saves.sqlite")
	db, err := Open(path, 16, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, path
}

func saveReq(tick uint64, credits int) world.SaveRequest {
	return world.SaveRequest{
		Tick:   tick,
		Ending: world.EndingNetwork,
		Summary: world.Summary{
			Pos:      [2]int{3, 4},
			Job:      modelpkg.JobTaxiDriver,
			Credits:  credits,
			HP:       100,
			Level:    1,
			Hunger:   5,
			Sleep:    5,
			Emotions: [4]float64{1, 2, 3, 4},
		},
	}
}

func TestRecordAndListSaves(t *testing.T) {
	db, _ := openTest(t)
	ctx := context.Background()

	require.NoError(t, db.RecordSave(ctx, "a", "/saves/a", saveReq(10, 100)))
	require.NoError(t, db.RecordSave(ctx, "b", "/saves/b", saveReq(20, 200)))
	require.NoError(t, db.RecordSave(ctx, "a", "/saves/a", saveReq(30, 300)))

	rows, err := db.ListSaves(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, uint64(30), rows[0].Tick)
	assert.Equal(t, "network", rows[0].Ending)
	assert.Equal(t, 300, rows[0].Summary.Credits)
	assert.Equal(t, "b", rows[1].Session)

	latest, err := db.LatestSave(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 200, latest.Summary.Credits)
	assert.Equal(t, modelpkg.JobTaxiDriver, latest.Summary.Job)
	assert.False(t, latest.RecordedAt.IsZero())

	_, err = db.LatestSave(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNoSave)
}

func TestLatestSaveRejectsCorruptSummary(t *testing.T) {
	db, _ := openTest(t)
	ctx := context.Background()
	_, err := db.db.ExecContext(ctx,
		`INSERT INTO saves(session,tick,path,ending,job,level,credits,summary_json,recorded_at) VALUES('x',1,'p','sync','courier',1,0,'{"pos":[1,1]}','now')`)
	require.NoError(t, err)

	_, err = db.LatestSave(ctx, "x")
	assert.ErrorContains(t, err, "invalid save")
}

func TestActionsAreIndexedOnClose(t *testing.T) {
	db, path := openTest(t)
	log := db.Actions("s1")
	for _, e := range []world.ActionLogEntry{
		{Tick: 1, Action: "MOVE", Args: "0,1"},
		{Tick: 1, Action: "MOVE", Args: "0,1", Code: "E_BLOCKED"},
		{Tick: 2, Action: "INTERACT", Code: "E_NO_TARGET"},
		{Tick: 3, Action: "MOVE", Args: "1,0"},
	} {
		require.NoError(t, log.WriteAction(e))
	}
	require.NoError(t, db.Close())

	// Writes after close are ignored.
	require.NoError(t, log.WriteAction(world.ActionLogEntry{Tick: 9}))

	reopened, err := Open(path, 4, nil)
	require.NoError(t, err)
	defer reopened.Close()

	codes, err := reopened.ActionCodes(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, []CodeCount{{"", 2}, {"E_BLOCKED", 1}, {"E_NO_TARGET", 1}}, codes)
}

func TestQueueDropsWhenFull(t *testing.T) {
	s := &DB{ch: make(chan actionReq, 1)}
	log := s.Actions("s")
	_ = log.WriteAction(world.ActionLogEntry{Tick: 1})
	_ = log.WriteAction(world.ActionLogEntry{Tick: 2})

	st := s.Stats()
	if st.DropActionTotal != 1 {
		t.Fatalf("DropActionTotal=%d want=1", st.DropActionTotal)
	}
	if st.QueueDepth != 1 || st.QueueCapacity != 1 {
		t.Fatalf("queue stats mismatch: depth=%d cap=%d", st.QueueDepth, st.QueueCapacity)
	}
}

func TestUpsertCatalogs(t *testing.T) {
	db, _ := openTest(t)
	ctx := context.Background()
	cats, err := catalogs.Default()
	require.NoError(t, err)
	tune := tuning.Defaults()

	require.NoError(t, db.UpsertCatalogs(ctx, cats, tune))
	require.NoError(t, db.UpsertCatalogs(ctx, cats, tune))

	digests, err := db.CatalogDigests(ctx)
	require.NoError(t, err)
	assert.Equal(t, cats.Items.Digest, digests["items"])
	assert.Equal(t, cats.Quests.Digest, digests["quests"])
	assert.Equal(t, tune.Digest(), digests["tuning"])
	assert.Len(t, digests, 5)

	var version string
	require.NoError(t, db.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key='schema_version'`).Scan(&version))
	assert.Equal(t, schemaVersion, version)
	var n int
	err = db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalogs WHERE name='nope'`).Scan(&n)
	require.NoError(t, err)
	assert.Zero(t, n)
}
