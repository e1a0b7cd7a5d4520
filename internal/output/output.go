// Package output renders run events for machine consumers.
package output

import (
	"encoding/json"
	"fmt"
	"io"
)

const FormatJSON = "json"

// Event is one record of a run: meta, result, outcome or error.
type Event map[string]any

// Type returns the event's "type" field.
func (e Event) Type() string {
	t, _ := e["type"].(string)
	return t
}

// Write renders events as one indented {"events": [...]} document.
func Write(w io.Writer, format string, events []Event) error {
	if format != FormatJSON {
		return fmt.Errorf("unsupported event format: %s", format)
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"events": events})
}
