package common

import (
	"encoding/json"
	"io"
	"time"
)

// Result is the machine-readable summary printed by --ci runs.
type Result struct {
	OK         bool     `json:"ok"`
	Tool       string   `json:"tool"`
	Command    string   `json:"command"`
	DurationMS int64    `json:"duration_ms"`
	Details    []string `json:"details,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func WriteResult(w io.Writer, inv Invocation, elapsed time.Duration, details []string, err error) error {
	res := Result{
		OK:         err == nil,
		Tool:       inv.Tool,
		Command:    inv.Command,
		DurationMS: elapsed.Milliseconds(),
		Details:    details,
	}
	if err != nil {
		res.Error = err.Error()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
