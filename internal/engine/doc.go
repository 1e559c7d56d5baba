// Package engine implements the traversal engine: the per-session state
// machine that validates taps against a level graph and keeps score.
//
// STATE MACHINE:
//
//	Idle -> Active <-> Paused -> Finished(Victory|Defeat)
//
// Inputs that arrive outside the state they are valid in are dropped
// without an error, the way a game ignores taps on a paused board. Only
// malformed input (a node id that is not part of the current level, a
// negative tick) is reported as an INVALID_ARGUMENT error.
//
// Single-Writer Model:
// An Engine is not safe for concurrent use. It expects sequential calls from
// one control goroutine (a UI loop, the CLI script runner or a test). It
// never sleeps, schedules or spawns goroutines: time only moves when the
// caller invokes Tick, and elapsed time is read from the injected Clock.
//
// Output:
// State is exposed through plain queries (State, Snapshot, Outcome). A
// Listener can be attached to observe every transition synchronously; the
// engine does not depend on anyone listening.
package engine
