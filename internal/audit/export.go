package audit

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"time"
)

// ExportJSON writes the filtered entries as a JSON array.
func (r *Recorder) ExportJSON(w io.Writer, f Filter) error {
	entries := r.Query(f)
	if entries == nil {
		entries = []Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

var csvHeader = []string{"id", "timestamp", "request_id", "action", "input", "outcome", "detail"}

// ExportCSV writes the filtered entries as CSV with a header row.
func (r *Recorder) ExportCSV(w io.Writer, f Filter) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range r.Query(f) {
		row := []string{
			e.ID,
			e.Timestamp.Format(time.RFC3339),
			e.RequestID,
			e.Action,
			e.Input,
			string(e.Outcome),
			e.Detail,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
