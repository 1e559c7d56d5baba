package harness

import (
	"github.com/roach88/luminal/internal/engine"
)

// TraceEvent is one engine event as recorded during a run.
type TraceEvent struct {
	Seq         int    `json:"seq"`
	Event       string `json:"event"`
	Node        string `json:"node,omitempty"`
	State       string `json:"state"`
	Score       int    `json:"score"`
	Combo       int    `json:"combo"`
	RemainingMS *int64 `json:"remaining_ms,omitempty"`
}

// OutcomeSummary is the JSON form of an engine outcome.
type OutcomeSummary struct {
	Result    string   `json:"result"`
	Reason    string   `json:"reason,omitempty"`
	Score     int      `json:"score"`
	Stars     int      `json:"stars"`
	ElapsedMS int64    `json:"elapsed_ms"`
	Path      []string `json:"path"`
}

func summarize(out engine.Outcome) *OutcomeSummary {
	return &OutcomeSummary{
		Result:    string(out.Result),
		Reason:    out.Reason,
		Score:     out.Score,
		Stars:     out.Stars,
		ElapsedMS: out.Elapsed.Milliseconds(),
		Path:      out.Path,
	}
}

// Result is what a script run produced.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	// Trace holds every engine event in order.
	Trace []TraceEvent `json:"trace"`

	// Errors lists failed expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the engine snapshot after the last step.
	Final engine.Snapshot `json:"-"`

	// Outcome is set when the level finished.
	Outcome *OutcomeSummary `json:"outcome,omitempty"`

	// InvalidMoves counts rejected taps.
	InvalidMoves int `json:"invalid_moves"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// OnEvent implements engine.Listener by appending to the trace.
func (r *Result) OnEvent(ev engine.Event) {
	snap := ev.Snapshot
	te := TraceEvent{
		Seq:   len(r.Trace) + 1,
		Event: string(ev.Kind),
		Node:  ev.NodeID,
		State: snap.State.String(),
		Score: snap.Score,
		Combo: snap.Combo,
	}
	if snap.Timed {
		ms := snap.Remaining.Milliseconds()
		te.RemainingMS = &ms
	}
	r.Trace = append(r.Trace, te)

	if ev.Kind == engine.EventInvalidMove {
		r.InvalidMoves++
	}
}
