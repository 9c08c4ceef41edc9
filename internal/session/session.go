// Package session wires one playable session: tuning, catalogs, the world,
// its runner and the persistence around it.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	persistlog "neondrift.city/internal/persistence/log"
	"neondrift.city/internal/persistence/savedb"
	"neondrift.city/internal/persistence/snapshot"
	"neondrift.city/internal/protocol"
	"neondrift.city/internal/sim/catalogs"
	"neondrift.city/internal/sim/gen"
	"neondrift.city/internal/sim/tuning"
	"neondrift.city/internal/sim/world"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

type Options struct {
	// ConfigDir overrides the embedded catalogs when it holds catalog files.
	ConfigDir string
	Tuning    tuning.Tuning
	// DataDir overrides tuning.Save.Dir.
	DataDir string
	Seed    uint64
	Job     modelpkg.Job
	// Resume loads the save file when one exists; its seed wins over Seed.
	Resume    bool
	DisableDB bool
	Log       *zap.Logger
}

type Session struct {
	ID       string
	Seed     uint64
	Tuning   tuning.Tuning
	Catalogs *catalogs.Catalogs
	World    *world.World
	Runner   *world.Runner
	SavePath string
	Resumed  bool

	log     *zap.Logger
	db      *savedb.DB
	actions *persistlog.ActionLogger
}

func Open(ctx context.Context, opts Options) (*Session, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	tune := opts.Tuning
	dataDir := tune.Save.Dir
	if opts.DataDir != "" {
		dataDir = opts.DataDir
	}

	cats, err := loadCatalogs(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("load catalogs: %w", err)
	}

	s := &Session{
		ID:       uuid.NewString(),
		Seed:     opts.Seed,
		Tuning:   tune,
		Catalogs: cats,
		SavePath: savePath(dataDir, tune.Save),
		log:      log,
	}

	var saved *snapshot.SaveV1
	if opts.Resume {
		sv, err := snapshot.ReadSave(s.SavePath)
		switch {
		case err == nil:
			saved = &sv
			s.Seed = sv.Header.Seed
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read save: %w", err)
		}
	}

	if !opts.DisableDB {
		s.db, err = savedb.Open(filepath.Join(dataDir, tune.Save.IndexDB), 0, log)
		if err != nil {
			return nil, fmt.Errorf("open save index: %w", err)
		}
		if err := s.db.UpsertCatalogs(ctx, cats, tune); err != nil {
			log.Warn("save index: upsert catalogs", zap.Error(err))
		}
	}
	s.actions = persistlog.NewActionLogger(filepath.Join(dataDir, tune.Save.LogDir), s.ID)

	job := opts.Job
	if saved != nil {
		job = saved.Summary.Job
	}
	w, err := world.Generate(
		world.ConfigFrom(tune, s.Seed, job),
		gen.ConfigFrom(tune),
		cats,
		world.WithLogger(log.With(zap.String("session", s.ID))),
		world.WithActionLogger(s.actionSink()),
		world.WithSaver(s.save),
	)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	if saved != nil {
		if err := w.ApplySummary(saved.Summary); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("resume: %w", err)
		}
		s.Resumed = true
		log.Info("resumed", zap.String("save", s.SavePath), zap.Uint64("seed", s.Seed), zap.Uint64("saved_tick", saved.Header.Tick))
	}
	s.World = w
	s.Runner = world.NewRunner(w, time.Duration(tune.TickMS)*time.Millisecond, tune.ViewQueueLen)
	return s, nil
}

func loadCatalogs(dir string) (*catalogs.Catalogs, error) {
	if dir != "" {
		if _, err := os.Stat(filepath.Join(dir, "items.json")); err == nil {
			return catalogs.Load(dir)
		}
	}
	return catalogs.Default()
}

func savePath(dataDir string, cfg tuning.Save) string {
	name := cfg.File
	if !cfg.Compress {
		name = strings.TrimSuffix(name, ".zst")
	}
	return filepath.Join(dataDir, name)
}

func (s *Session) actionSink() world.ActionLogger {
	if s.db == nil {
		return s.actions
	}
	return persistlog.Multi{s.actions, s.db.Actions(s.ID)}
}

func (s *Session) save(req world.SaveRequest) error {
	now := time.Now().UTC().Format(time.RFC3339)
	req.Summary.SavedAt = now
	sv := snapshot.SaveV1{
		Header: snapshot.Header{
			SessionID: s.ID,
			Seed:      s.Seed,
			Tick:      req.Tick,
			Ending:    req.Ending.String(),
			SavedAt:   now,
		},
		Summary: req.Summary,
	}
	if err := snapshot.WriteSave(s.SavePath, sv); err != nil {
		return err
	}
	if s.db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		// The file is already written; a missing index row is not a failed save.
		if err := s.db.RecordSave(ctx, s.ID, s.SavePath, req); err != nil {
			s.log.Warn("save index: record save", zap.Error(err))
		}
	}
	return nil
}

func (s *Session) Params() protocol.WorldParams {
	return protocol.WorldParams{
		Width:      s.Tuning.MapWidth,
		Height:     s.Tuning.MapHeight,
		TickMS:     s.Tuning.TickMS,
		DaySeconds: s.Tuning.DaySeconds,
		BaseFOV:    s.Tuning.BaseFOV,
		Seed:       s.Seed,
	}
}

func (s *Session) Digests() protocol.CatalogDigests {
	return protocol.CatalogDigests{
		ItemsDigest:   s.Catalogs.Items.Digest,
		QuestsDigest:  s.Catalogs.Quests.Digest,
		EnemiesDigest: s.Catalogs.Enemies.Digest,
		LinesDigest:   s.Catalogs.Lines.Digest,
		TuningDigest:  s.Tuning.Digest(),
	}
}

// Close flushes the action log and the index. Stop the runner first.
func (s *Session) Close() error {
	var errs []error
	if s.actions != nil {
		errs = append(errs, s.actions.Close())
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	return errors.Join(errs...)
}
