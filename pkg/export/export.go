// Package export writes board history in machine-readable formats.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kilianp07/fleetboard/core/model"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatLines Format = "ndjson"
)

// WriteJSON writes the entries to w as one JSON array.
func WriteJSON(w io.Writer, entries []model.HistoryEntry) error {
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// WriteLines writes one compact JSON object per line, for log shippers.
func WriteLines(w io.Writer, entries []model.HistoryEntry) error {
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

// Write dispatches on f.
func Write(w io.Writer, f Format, entries []model.HistoryEntry) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, entries)
	case FormatLines:
		return WriteLines(w, entries)
	}
	return fmt.Errorf("unknown export format %q", f)
}
