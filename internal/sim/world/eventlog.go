package world

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/oklog/ulid/v2"
)

// Message is one event-log line. IDs are ULIDs stamped with the simulation
// clock, so they sort in push order and replay identically from a seed.
type Message struct {
	ID   ulid.ULID
	Text string
	At   float64
}

// EventLog keeps the newest messages first, up to a fixed capacity, and
// tracks one active message that expires after a TTL on the sim clock.
type EventLog struct {
	cap     int
	ttl     float64
	entries []Message
	active  Message
	showing bool
	entropy *ulid.MonotonicEntropy
}

func NewEventLog(capacity int, ttl float64, seed uint64) *EventLog {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	return &EventLog{
		cap:     max(1, capacity),
		ttl:     ttl,
		entries: make([]Message, 0, capacity),
		entropy: ulid.Monotonic(rand.NewChaCha8(key), 0),
	}
}

func (l *EventLog) Push(now float64, text string) {
	m := Message{Text: text, At: now}
	if id, err := ulid.New(uint64(now*1000), l.entropy); err == nil {
		m.ID = id
	}
	l.entries = append(l.entries, Message{})
	copy(l.entries[1:], l.entries)
	l.entries[0] = m
	if len(l.entries) > l.cap {
		l.entries = l.entries[:l.cap]
	}
	l.active, l.showing = m, true
}

// PushOnce pushes text unless it is already the active message.
func (l *EventLog) PushOnce(now float64, text string) {
	if l.showing && l.active.Text == text {
		return
	}
	l.Push(now, text)
}

// Expire clears the active message once it is older than the TTL.
func (l *EventLog) Expire(now float64) {
	if l.showing && now-l.active.At > l.ttl {
		l.active, l.showing = Message{}, false
	}
}

func (l *EventLog) Active() (Message, bool) {
	return l.active, l.showing
}

// Messages returns the log newest first.
func (l *EventLog) Messages() []Message {
	return append([]Message(nil), l.entries...)
}

func (l *EventLog) Lines() []string {
	out := make([]string, len(l.entries))
	for i, m := range l.entries {
		out[i] = m.Text
	}
	return out
}

func (l *EventLog) Len() int { return len(l.entries) }
