package engine

import (
	"fmt"
	"time"
)

// State is the lifecycle phase of a traversal session.
type State int

const (
	StateIdle State = iota
	StateActive
	StatePaused
	StateFinished
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText renders the state by name in JSON and YAML output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the terminal outcome of a finished session.
type Result string

const (
	ResultVictory Result = "victory"
	ResultDefeat  Result = "defeat"
)

// TapResult describes what the engine did with a tap.
type TapResult int

const (
	// TapIgnored means the engine was not accepting input.
	TapIgnored TapResult = iota
	// TapAccepted means the node was appended to the path and scored.
	TapAccepted
	// TapRejected means the move was invalid; the combo was reset.
	TapRejected
)

func (r TapResult) String() string {
	switch r {
	case TapAccepted:
		return "accepted"
	case TapRejected:
		return "rejected"
	default:
		return "ignored"
	}
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	State     State         `json:"state"`
	Score     int           `json:"score"`
	Combo     int           `json:"combo"`
	Path      []string      `json:"path"`
	Timed     bool          `json:"timed"`
	Remaining time.Duration `json:"remaining"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Outcome is emitted once when a session finishes.
type Outcome struct {
	Result      Result `json:"result"`
	Reason      string `json:"reason,omitempty"`
	LevelNumber int    `json:"level_number"`
	Score       int    `json:"score"`
	// Stars is only rated on victory; a defeat always carries 0.
	Stars   int           `json:"stars"`
	Elapsed time.Duration `json:"elapsed"`
	Path    []string      `json:"path"`
}

// Victory reports whether the goal node was reached.
func (o Outcome) Victory() bool {
	return o.Result == ResultVictory
}

// Clock supplies wall time for elapsed-time accounting.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time { return time.Now() }
