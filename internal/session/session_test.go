package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	persistlog "neondrift.city/internal/persistence/log"
	"neondrift.city/internal/persistence/savedb"
	"neondrift.city/internal/persistence/snapshot"
	"neondrift.city/internal/protocol"
	"neondrift.city/internal/sim/tuning"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

func smallTuning() tuning.Tuning {
	t := tuning.Defaults()
	t.MapWidth, t.MapHeight = 40, 30
	t.Gen.NPCs = 10
	t.Gen.EnemyTries = 5
	return t
}

func TestSaveAndResume(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	opts := Options{Tuning: smallTuning(), DataDir: dir, Seed: 11, Job: modelpkg.JobServerAssistant}

	s, err := Open(ctx, opts)
	require.NoError(t, err)
	assert.False(t, s.Resumed)
	assert.Equal(t, filepath.Join(dir, "neon_save.json.zst"), s.SavePath)

	s.World.Player().Stats.Credits = 777
	save := protocol.ActMsg{Type: protocol.TypeAct, ProtocolVersion: protocol.Version, ID: "1", Action: protocol.ActSave}
	require.NoError(t, s.World.Apply(save))
	require.NoError(t, s.Close())

	sv, err := snapshot.ReadSave(s.SavePath)
	require.NoError(t, err)
	assert.Equal(t, s.ID, sv.Header.SessionID)
	assert.Equal(t, uint64(11), sv.Header.Seed)
	assert.NotEmpty(t, sv.Summary.SavedAt)

	db, err := savedb.Open(filepath.Join(dir, "saves.sqlite"), 1, nil)
	require.NoError(t, err)
	row, err := db.LatestSave(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 777, row.Summary.Credits)
	codes, err := db.ActionCodes(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, []savedb.CodeCount{{Code: "", Count: 1}}, codes)
	require.NoError(t, db.Close())

	actions, err := persistlog.ReadActions(filepath.Join(dir, "logs"), s.ID)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, protocol.ActSave, actions[0].Action)

	// A different seed flag is ignored on resume.
	opts.Resume = true
	opts.Seed = 99
	opts.Job = modelpkg.JobCourier
	r, err := Open(ctx, opts)
	require.NoError(t, err)
	defer r.Close()
	assert.True(t, r.Resumed)
	assert.Equal(t, uint64(11), r.Seed)
	assert.Equal(t, 777, r.World.Player().Stats.Credits)
	assert.Equal(t, modelpkg.JobServerAssistant, r.World.Player().Job)
	assert.NotEqual(t, s.ID, r.ID)
}

func TestResumeWithoutSaveStartsFresh(t *testing.T) {
	s, err := Open(context.Background(), Options{Tuning: smallTuning(), DataDir: t.TempDir(), Seed: 2, Resume: true, DisableDB: true})
	require.NoError(t, err)
	defer s.Close()
	assert.False(t, s.Resumed)
	assert.Equal(t, uint64(2), s.Params().Seed)
	assert.Equal(t, 40, s.Params().Width)
	assert.Len(t, s.Digests().TuningDigest, 64)
}

func TestUncompressedSavePath(t *testing.T) {
	tune := smallTuning()
	tune.Save.Compress = false
	s, err := Open(context.Background(), Options{Tuning: tune, DataDir: t.TempDir(), DisableDB: true})
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "neon_save.json", filepath.Base(s.SavePath))
}
