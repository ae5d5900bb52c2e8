package audit

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecorder() *Recorder {
	r := NewRecorder()
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	tick := 0
	r.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	})
	return r
}

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	r := newTestRecorder()

	e := r.Append(Entry{RequestID: "req-1", Action: "search_patient", Outcome: OutcomeSuccess})
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())

	e2 := r.Append(Entry{RequestID: "req-1", Action: "book_appointment", Outcome: OutcomeFailure})
	assert.NotEqual(t, e.ID, e2.ID)
	assert.True(t, e2.Timestamp.After(e.Timestamp))
}

func TestSnapshotIsAppendOrderedCopy(t *testing.T) {
	r := newTestRecorder()
	r.Append(Entry{Action: "a", Outcome: OutcomeSuccess})
	r.Append(Entry{Action: "b", Outcome: OutcomeFailure})

	snap := r.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "a", snap[0].Action)
	assert.Equal(t, "b", snap[1].Action)

	// Mutating the snapshot must not reach the log.
	snap[0].Action = "mutated"
	assert.Equal(t, "a", r.Snapshot()[0].Action)
}

func TestQueryFilters(t *testing.T) {
	r := newTestRecorder()
	r.Append(Entry{RequestID: "req-1", Action: "search_patient", Outcome: OutcomeSuccess})
	r.Append(Entry{RequestID: "req-1", Action: "book_appointment", Outcome: OutcomeFailure})
	r.Append(Entry{RequestID: "req-2", Action: "search_patient", Outcome: OutcomeSuccess})
	r.Append(Entry{RequestID: "req-3", Action: "request", Outcome: OutcomeRefused})

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 4},
		{"by request", Filter{RequestID: "req-1"}, 2},
		{"by action", Filter{Action: "search_patient"}, 2},
		{"by outcome", Filter{Outcome: OutcomeRefused}, 1},
		{"action and outcome", Filter{Action: "search_patient", Outcome: OutcomeFailure}, 0},
		{"limit", Filter{Limit: 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, r.Query(tt.filter), tt.want)
		})
	}

	t.Run("newest first", func(t *testing.T) {
		got := r.Query(Filter{})
		for i := 1; i < len(got); i++ {
			assert.False(t, got[i].Timestamp.After(got[i-1].Timestamp))
		}
	})

	t.Run("time window", func(t *testing.T) {
		all := r.Snapshot()
		mid := all[1].Timestamp
		got := r.Query(Filter{Since: mid})
		assert.Len(t, got, 3)
		got = r.Query(Filter{Until: mid})
		assert.Len(t, got, 2)
	})
}

func TestExportJSON(t *testing.T) {
	r := newTestRecorder()
	r.Append(Entry{RequestID: "req-1", Action: "search_patient", Outcome: OutcomeSuccess})

	var buf bytes.Buffer
	require.NoError(t, r.ExportJSON(&buf, Filter{}))

	var entries []Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "search_patient", entries[0].Action)

	t.Run("empty log yields empty array", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewRecorder().ExportJSON(&buf, Filter{}))
		assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
	})
}

func TestExportCSV(t *testing.T) {
	r := newTestRecorder()
	r.Append(Entry{RequestID: "req-1", Action: "search_patient", Input: "name=Ravi Kumar", Outcome: OutcomeSuccess})
	r.Append(Entry{RequestID: "req-1", Action: "book_appointment", Outcome: OutcomeSkipped, Detail: "dependency failed"})

	var buf bytes.Buffer
	require.NoError(t, r.ExportCSV(&buf, Filter{}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "book_appointment", rows[1][3]) // newest first
	assert.Equal(t, "SKIPPED", rows[1][5])
}
