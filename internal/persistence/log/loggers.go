package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"neondrift.city/internal/sim/world"
)

// JSONLZstdWriter appends JSON lines to hourly zstd-compressed files.
type JSONLZstdWriter struct {
	baseDir string
	prefix  string
	now     func() time.Time

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func NewJSONLZstdWriter(baseDir, prefix string) *JSONLZstdWriter {
	return &JSONLZstdWriter{
		baseDir: baseDir,
		prefix:  prefix,
		now:     time.Now,
	}
}

func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *JSONLZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	hour := w.now().UTC().Format("2006-01-02-15")
	if hour != w.curHour {
		if err := w.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *JSONLZstdWriter) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.pathForHour(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 64*1024)
	w.curHour = hour
	return nil
}

func (w *JSONLZstdWriter) closeLocked() error {
	var err error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	w.curHour = ""
	return err
}

func (w *JSONLZstdWriter) pathForHour(hour string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
}

// ActionLogger writes one compressed JSONL entry per applied action.
type ActionLogger struct {
	SessionID string
	w         *JSONLZstdWriter
}

type actionLine struct {
	Session string `json:"session"`
	world.ActionLogEntry
}

// NewActionLogger writes under <logDir>/<sessionID>/actions-*.jsonl.zst.
func NewActionLogger(logDir, sessionID string) *ActionLogger {
	return &ActionLogger{
		SessionID: sessionID,
		w:         NewJSONLZstdWriter(filepath.Join(logDir, sessionID), "actions"),
	}
}

func (l *ActionLogger) WriteAction(e world.ActionLogEntry) error {
	return l.w.Write(actionLine{Session: l.SessionID, ActionLogEntry: e})
}

func (l *ActionLogger) Close() error { return l.w.Close() }

// Multi fans one entry out to several loggers. Every logger is tried; the
// errors are joined.
type Multi []world.ActionLogger

func (m Multi) WriteAction(e world.ActionLogEntry) error {
	var errs []error
	for _, l := range m {
		if l == nil {
			continue
		}
		if err := l.WriteAction(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ReadActions decodes every action file of a session, oldest first.
func ReadActions(logDir, sessionID string) ([]world.ActionLogEntry, error) {
	files, err := filepath.Glob(filepath.Join(logDir, sessionID, "actions-*.jsonl.zst"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	var out []world.ActionLogEntry
	for _, path := range files {
		entries, err := readFile(path)
		if err != nil {
			return out, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		out = append(out, entries...)
	}
	return out, nil
}

func readFile(path string) ([]world.ActionLogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []world.ActionLogEntry
	jd := json.NewDecoder(dec)
	for {
		var line actionLine
		if err := jd.Decode(&line); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
		out = append(out, line.ActionLogEntry)
	}
}
