package display

import (
	"encoding/json"
	"io"

	"github.com/standardbeagle/lml/internal/scan"
)

// Envelope is the machine-readable document for one scan. It is the payload
// of --json and of MCP tool responses.
type Envelope struct {
	Message   string           `json:"message"`
	Root      string           `json:"root"`
	ElapsedMs int64            `json:"elapsed_ms"`
	Count     int              `json:"count"`
	Results   []scan.Candidate `json:"results"`
	Stats     scan.Stats       `json:"stats"`
}

// NewEnvelope wraps a scan result. An empty result set serializes as [],
// never null.
func NewEnvelope(message, root string, result *scan.Result) Envelope {
	results := result.Candidates
	if results == nil {
		results = []scan.Candidate{}
	}
	return Envelope{
		Message:   message,
		Root:      root,
		ElapsedMs: result.Elapsed.Milliseconds(),
		Count:     len(results),
		Results:   results,
		Stats:     result.Stats,
	}
}

// WriteJSON renders the envelope indented to out.
func WriteJSON(out io.Writer, env Envelope) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}
