package history

import (
	"sync"
	"time"
)

// Entry is one received message.
type Entry struct {
	Content    string
	Peer       string
	ReceivedAt time.Time
}

// Log records inbound messages. Implementations must be safe for use
// from the listener's request goroutines.
type Log interface {
	Append(entry Entry) error
	All() ([]Entry, error)
	Close() error
}

// MemoryLog keeps entries in memory, in receipt order. This is the
// default backend; entries are lost on process exit.
type MemoryLog struct {
	mu      sync.Mutex
	entries []Entry
}

var _ Log = (*MemoryLog)(nil)

// NewMemoryLog creates an empty in-memory log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Append records an entry.
func (m *MemoryLog) Append(entry Entry) error {
	if entry.ReceivedAt.IsZero() {
		entry.ReceivedAt = time.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

// All returns a copy of every entry in receipt order.
func (m *MemoryLog) All() ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

// Close is a no-op for the in-memory log.
func (m *MemoryLog) Close() error {
	return nil
}
