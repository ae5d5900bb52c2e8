// Package audit keeps the append-only record of every orchestration decision
// and action outcome. Only the agent appends; everything else reads.
package audit

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies an audit entry.
type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailure Outcome = "FAILURE"
	OutcomeRefused Outcome = "REFUSED"
	OutcomeSkipped Outcome = "SKIPPED"
)

// Entry is an immutable audit record. Entries are never mutated or removed
// after creation.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
	Action    string    `json:"action"`
	Input     string    `json:"input,omitempty"`
	Outcome   Outcome   `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
}

// Filter selects entries from the log. Zero fields match everything.
type Filter struct {
	RequestID string
	Action    string
	Outcome   Outcome
	Since     time.Time
	Until     time.Time
	Limit     int
}

// Recorder is the in-process audit sink.
type Recorder struct {
	mu      sync.RWMutex
	entries []Entry
	now     func() time.Time
}

// NewRecorder creates an empty audit log.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// SetClock overrides the timestamp source. Tests only.
func (r *Recorder) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Append records one entry, assigning its ID and timestamp, and returns the
// stored copy.
func (r *Recorder) Append(e Entry) Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = r.now().UTC()
	}
	r.entries = append(r.entries, e)
	return e
}

// Len reports the number of recorded entries.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Snapshot returns a copy of the full log in append order.
func (r *Recorder) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Query returns entries matching the filter, newest first.
func (r *Recorder) Query(f Filter) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Entry
	for _, e := range r.entries {
		if f.RequestID != "" && e.RequestID != f.RequestID {
			continue
		}
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		if f.Outcome != "" && e.Outcome != f.Outcome {
			continue
		}
		if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
			continue
		}
		if !f.Until.IsZero() && e.Timestamp.After(f.Until) {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}
