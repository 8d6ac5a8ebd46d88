package scenario

import (
	"encoding/json"
	"io"

	"github.com/depsolve/pubgrub/core"
)

// Result is the serialized outcome of a resolution: on success, the full
// package → version mapping; on failure, the derivation string and a null
// solution. Nothing partial is ever exposed.
type Result struct {
	Success  bool              `json:"success"`
	Solution map[string]string `json:"solution"`
	Error    *string           `json:"error"`
}

// FromResolution converts a resolver result into its serialized form.
func FromResolution(res core.Result) Result {
	if res.Err != nil {
		msg := res.Err.Error()
		return Result{Success: false, Error: &msg}
	}
	solution := make(map[string]string, len(res.Solution))
	for name, ver := range res.Solution {
		solution[name] = ver.String()
	}
	return Result{Success: true, Solution: solution}
}

// WriteJSON renders the result as indented JSON.
func (r Result) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
