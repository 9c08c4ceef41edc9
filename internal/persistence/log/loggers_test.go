package log

import (
	"errors"
	"testing"
	"time"

	"neondrift.city/internal/sim/world"
)

func TestActionLoggerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	l := NewActionLogger(dir, "s1")
	entries := []world.ActionLogEntry{
		{Tick: 1, Elapsed: 0.07, Action: "MOVE", Args: "1,0", Pos: [2]int{61, 40}},
		{Tick: 2, Elapsed: 0.14, Action: "INTERACT", Code: "E_NO_TARGET", Pos: [2]int{61, 40}},
	}
	for _, e := range entries {
		if err := l.WriteAction(e); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := ReadActions(dir, "s1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 || got[0] != entries[0] || got[1] != entries[1] {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestWriterRotatesHourly(t *testing.T) {
	dir := t.TempDir()
	w := NewJSONLZstdWriter(dir, "actions")
	clock := time.Date(2026, 1, 2, 3, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return clock }
	if err := w.Write(actionLine{ActionLogEntry: world.ActionLogEntry{Tick: 1}}); err != nil {
		t.Fatal(err)
	}
	clock = clock.Add(2 * time.Minute)
	if err := w.Write(actionLine{ActionLogEntry: world.ActionLogEntry{Tick: 2}}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := ReadActions(dir, ".")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Tick != 1 || got[1].Tick != 2 {
		t.Fatalf("expected both hours in order, got %+v", got)
	}
}

type failing struct{ err error }

func (f failing) WriteAction(world.ActionLogEntry) error { return f.err }

type counting struct{ n *int }

func (c counting) WriteAction(world.ActionLogEntry) error { *c.n++; return nil }

func TestMultiJoinsErrors(t *testing.T) {
	first, second := errors.New("first"), errors.New("second")
	var n int
	err := Multi{nil, failing{first}, counting{&n}, failing{second}}.WriteAction(world.ActionLogEntry{})
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Fatalf("expected both errors joined, got %v", err)
	}
	if n != 1 {
		t.Fatalf("logger after a failure should still run, ran %d times", n)
	}
}
