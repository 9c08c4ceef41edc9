// Package savedb indexes saves and applied actions in sqlite. Save files and
// the JSONL action logs stay the source of truth; the index makes them
// queryable.
package savedb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"neondrift.city/internal/persistence/snapshot"
	"neondrift.city/internal/sim/catalogs"
	"neondrift.city/internal/sim/tuning"
	"neondrift.city/internal/sim/world"
)

const schemaVersion = "1"

var ErrNoSave = errors.New("no save recorded")

type DB struct {
	db  *sql.DB
	log *zap.Logger

	ch   chan actionReq
	wg   sync.WaitGroup
	once sync.Once

	closed     atomic.Bool
	dropAction atomic.Uint64
}

type actionReq struct {
	session string
	entry   world.ActionLogEntry
}

type Stats struct {
	QueueDepth      int
	QueueCapacity   int
	DropActionTotal uint64
}

// SaveRow is one recorded save.
type SaveRow struct {
	ID         int64
	Session    string
	Tick       uint64
	Path       string
	Ending     string
	Summary    world.Summary
	RecordedAt time.Time
}

func Open(path string, queueLen int, log *zap.Logger) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if queueLen <= 0 {
		queueLen = 4096
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &DB{
		db:  db,
		log: log.Named("savedb"),
		ch:  make(chan actionReq, queueLen),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS saves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session TEXT NOT NULL,
			tick INTEGER NOT NULL,
			path TEXT NOT NULL,
			ending TEXT NOT NULL,
			job TEXT NOT NULL,
			level INTEGER NOT NULL,
			credits INTEGER NOT NULL,
			summary_json TEXT NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_saves_session_tick ON saves(session, tick);`,
		`CREATE TABLE IF NOT EXISTS actions (
			session TEXT NOT NULL,
			tick INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			action TEXT NOT NULL,
			args TEXT NOT NULL,
			code TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			PRIMARY KEY (session, tick, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_actions_code ON actions(code);`,
		`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','` + schemaVersion + `');`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *DB) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *DB) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:      len(s.ch),
		QueueCapacity:   cap(s.ch),
		DropActionTotal: s.dropAction.Load(),
	}
}

// Actions returns an ActionLogger that indexes entries under session.
func (s *DB) Actions(session string) world.ActionLogger {
	return sessionActions{db: s, session: session}
}

type sessionActions struct {
	db      *DB
	session string
}

func (a sessionActions) WriteAction(e world.ActionLogEntry) error {
	s := a.db
	if s == nil || s.closed.Load() {
		return nil
	}
	select {
	case s.ch <- actionReq{session: a.session, entry: e}:
	default:
		// The JSONL action log keeps the entry; only the index misses it.
		s.dropAction.Add(1)
	}
	return nil
}

// RecordSave indexes one written save. Saves are rare, so this writes
// synchronously and reports errors to the caller.
func (s *DB) RecordSave(ctx context.Context, session, path string, req world.SaveRequest) error {
	b, err := json.Marshal(req.Summary)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saves(session,tick,path,ending,job,level,credits,summary_json,recorded_at) VALUES(?,?,?,?,?,?,?,?,?)`,
		session,
		int64(req.Tick),
		path,
		req.Ending.String(),
		req.Summary.Job.String(),
		req.Summary.Level,
		req.Summary.Credits,
		string(b),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// ListSaves returns the newest saves first. A limit <= 0 returns all rows.
func (s *DB) ListSaves(ctx context.Context, limit int) ([]SaveRow, error) {
	q := `SELECT id,session,tick,path,ending,summary_json,recorded_at FROM saves ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SaveRow
	for rows.Next() {
		r, err := scanSave(rows)
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LatestSave returns the newest save of session, or of any session when
// session is empty.
func (s *DB) LatestSave(ctx context.Context, session string) (SaveRow, error) {
	q := `SELECT id,session,tick,path,ending,summary_json,recorded_at FROM saves`
	args := []any{}
	if session != "" {
		q += ` WHERE session=?`
		args = append(args, session)
	}
	q += ` ORDER BY id DESC LIMIT 1`
	r, err := scanSave(s.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return r, ErrNoSave
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSave(sc scanner) (SaveRow, error) {
	var (
		r          SaveRow
		tick       int64
		summary    string
		recordedAt string
	)
	if err := sc.Scan(&r.ID, &r.Session, &tick, &r.Path, &r.Ending, &summary, &recordedAt); err != nil {
		return r, err
	}
	r.Tick = uint64(tick)
	if err := snapshot.ValidateSummary([]byte(summary)); err != nil {
		return r, fmt.Errorf("save %d: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(summary), &r.Summary); err != nil {
		return r, fmt.Errorf("save %d: %w", r.ID, err)
	}
	r.RecordedAt, _ = time.Parse(time.RFC3339Nano, recordedAt)
	return r, nil
}

// CodeCount is how many indexed actions ended with one result code.
type CodeCount struct {
	Code  string
	Count int
}

// ActionCodes tallies indexed actions of a session by result code; "" is
// success.
func (s *DB) ActionCodes(ctx context.Context, session string) ([]CodeCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, COUNT(*) FROM actions WHERE session=? GROUP BY code ORDER BY COUNT(*) DESC, code`, session)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CodeCount
	for rows.Next() {
		var c CodeCount
		if err := rows.Scan(&c.Code, &c.Count); err != nil {
			return out, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpsertCatalogs records the digests and raw JSON of the loaded catalogs
// and the effective tuning.
func (s *DB) UpsertCatalogs(ctx context.Context, cats *catalogs.Catalogs, tune tuning.Tuning) error {
	if s == nil || cats == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	type kv struct {
		name   string
		digest string
		v      any
	}
	rows := []kv{
		{"items", cats.Items.Digest, cats.Items.Defs},
		{"quests", cats.Quests.Digest, cats.Quests.ByID},
		{"enemies", cats.Enemies.Digest, cats.Enemies.ByKind},
		{"lines", cats.Lines.Digest, cats.Lines},
		{"tuning", tune.Digest(), tune},
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.digest == "" {
			continue
		}
		b, err := json.Marshal(r.v)
		if err != nil {
			return fmt.Errorf("catalog %s: %w", r.name, err)
		}
		if _, err := stmt.ExecContext(ctx, r.name, r.digest, string(b), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CatalogDigests returns name -> digest for every recorded catalog.
func (s *DB) CatalogDigests(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name,digest FROM catalogs`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var name, digest string
		if err := rows.Scan(&name, &digest); err != nil {
			return out, err
		}
		out[name] = digest
	}
	return out, rows.Err()
}

func (s *DB) loop() {
	ctx := context.Background()

	insertAction, err := s.db.Prepare(`INSERT OR REPLACE INTO actions(session,tick,seq,action,args,code,x,y) VALUES(?,?,?,?,?,?,?,?)`)
	if err != nil {
		s.log.Error("prepare action insert", zap.Error(err))
		for range s.ch {
			s.dropAction.Add(1)
		}
		return
	}
	defer insertAction.Close()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 500
		commitMaxWait = 2 * time.Second

		lastTick uint64
		seq      int
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			s.log.Warn("begin tx", zap.Error(err))
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		if err := tx.Commit(); err != nil {
			s.log.Warn("commit", zap.Error(err))
		}
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	flush := time.NewTicker(commitMaxWait)
	defer flush.Stop()

	for {
		var (
			r  actionReq
			ok bool
		)
		select {
		case r, ok = <-s.ch:
		case <-flush.C:
			if time.Since(lastCommit) >= commitMaxWait {
				commit()
			}
			continue
		}
		if !ok {
			break
		}
		begin()
		if tx == nil {
			s.dropAction.Add(1)
			continue
		}
		e := r.entry
		// Several actions can land on one tick.
		if e.Tick != lastTick {
			lastTick = e.Tick
			seq = 0
		}
		seq++
		if _, err := tx.Stmt(insertAction).Exec(r.session, int64(e.Tick), seq, e.Action, e.Args, e.Code, e.Pos[0], e.Pos[1]); err != nil {
			s.log.Warn("index action", zap.Error(err))
			_ = tx.Rollback()
			tx = nil
			continue
		}
		opCount++
		if opCount >= commitEvery {
			commit()
		}
	}

	commit()
}
