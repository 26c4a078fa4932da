package pending

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smallnest/swarmthing/safety"
)

// ErrNotQueued is returned by Approve and Reject when no queued
// proposal matches the requested name.
var ErrNotQueued = errors.New("no pending tool with that name")

// Tool is a tool proposal received from a peer, held until a human
// approves or rejects it. Names are not unique: the same peer (or two
// peers) may propose the same name twice and both entries coexist.
type Tool struct {
	ID          string
	Name        string
	Code        string
	SourceAgent string
	ReceivedAt  time.Time
	Description *string
	SafetyLevel safety.Level
}

// Installer installs an approved tool: persist the source and merge
// its compiled form into the running program. The script runtime
// satisfies this.
type Installer interface {
	Install(name, code string) error
}

// Queue is a mutex-guarded FIFO of tool proposals. Critical sections
// are kept short: mutations copy or splice under the lock and any
// installation work happens after the lock is released.
type Queue struct {
	mu        sync.Mutex
	items     []Tool
	installer Installer
}

// NewQueue creates an empty queue. Bind an Installer before calling
// Approve.
func NewQueue() *Queue {
	return &Queue{}
}

// Bind sets the installer used by Approve. Separate from NewQueue
// because the queue exists before the runtime that installs into it.
func (q *Queue) Bind(installer Installer) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.installer = installer
}

// Enqueue appends a proposal to the end of the queue. No
// deduplication: duplicates by name are allowed and preserved. A
// missing ID or receipt time is filled in.
func (q *Queue) Enqueue(t Tool) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.ReceivedAt.IsZero() {
		t.ReceivedAt = time.Now()
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, t)
}

// List returns a snapshot of the queue in receipt order. The snapshot
// is a copy; later queue mutations do not affect it.
func (q *Queue) List() []Tool {
	q.mu.Lock()
	defer q.mu.Unlock()

	snapshot := make([]Tool, len(q.items))
	copy(snapshot, q.items)
	return snapshot
}

// Len returns the number of queued proposals.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Approve removes the first proposal whose name matches and installs
// it exactly like a locally created tool. Later duplicates with the
// same name remain queued. The entry is consumed even if installation
// fails (the code was already judged and taken off the queue); the
// installation error is returned to the caller.
func (q *Queue) Approve(name string) (Tool, error) {
	tool, err := q.Take(name)
	if err != nil {
		return Tool{}, err
	}

	q.mu.Lock()
	installer := q.installer
	q.mu.Unlock()

	if installer == nil {
		return tool, fmt.Errorf("approve %s: no installer bound", name)
	}
	if err := installer.Install(tool.Name, tool.Code); err != nil {
		return tool, fmt.Errorf("approve %s: %w", name, err)
	}
	return tool, nil
}

// Reject removes the first proposal whose name matches. No
// installation side effect; later duplicates remain queued.
func (q *Queue) Reject(name string) (Tool, error) {
	return q.Take(name)
}

// Take removes and returns the first entry matching name. Callers
// that install under their own locking discipline (the runtime's
// approve_tool capability) use Take directly instead of Approve.
func (q *Queue) Take(name string) (Tool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, t := range q.items {
		if t.Name == name {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return t, nil
		}
	}
	return Tool{}, fmt.Errorf("%w: %s", ErrNotQueued, name)
}
