package world

import (
	"fmt"
	"testing"
)

func TestEventLogKeepsNewestFirst(t *testing.T) {
	l := NewEventLog(7, 3.5, 1)
	for i := 0; i < 10; i++ {
		l.Push(float64(i), fmt.Sprintf("m%d", i))
	}
	lines := l.Lines()
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines, got %d", len(lines))
	}
	if lines[0] != "m9" || lines[6] != "m3" {
		t.Fatalf("unexpected order: %v", lines)
	}
	msgs := l.Messages()
	for i := 1; i < len(msgs); i++ {
		if msgs[i-1].ID.Compare(msgs[i].ID) <= 0 {
			t.Fatalf("ids should sort by push time: %s <= %s", msgs[i-1].ID, msgs[i].ID)
		}
	}
}

func TestEventLogActiveExpires(t *testing.T) {
	l := NewEventLog(7, 3.5, 1)
	l.Push(10, "hello")
	l.Expire(13.5)
	if m, ok := l.Active(); !ok || m.Text != "hello" {
		t.Fatalf("message should still be active at the ttl boundary")
	}
	l.Expire(13.6)
	if _, ok := l.Active(); ok {
		t.Fatalf("message should have expired")
	}
	if l.Len() != 1 {
		t.Fatalf("expiry must not drop history")
	}
}

func TestEventLogPushOnce(t *testing.T) {
	l := NewEventLog(7, 3.5, 1)
	l.PushOnce(0, "watch out")
	l.PushOnce(1, "watch out")
	if l.Len() != 1 {
		t.Fatalf("duplicate active message pushed")
	}
	l.Expire(10)
	l.PushOnce(10, "watch out")
	if l.Len() != 2 {
		t.Fatalf("expected a fresh push once the first expired")
	}
}

func TestEventLogIDsReplayFromSeed(t *testing.T) {
	a, b := NewEventLog(7, 3.5, 42), NewEventLog(7, 3.5, 42)
	a.Push(1.5, "x")
	b.Push(1.5, "x")
	if a.Messages()[0].ID != b.Messages()[0].ID {
		t.Fatalf("same seed and clock should give the same id")
	}
}

func TestEventLogActiveIndependentOfHistory(t *testing.T) {
	l := NewEventLog(1, 3.5, 1)
	l.Push(0, "first")
	l.Push(1, "second")
	msgs := l.Messages()
	msgs[0].Text = "mutated"
	m, ok := l.Active()
	if !ok || m.Text != "second" || m.At != 1 {
		t.Fatalf("active = %+v ok=%v, want second at 1", m, ok)
	}
	if l.Lines()[0] != "second" {
		t.Fatalf("history lines = %v", l.Lines())
	}
}
