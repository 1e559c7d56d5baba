package engine

// EventKind names a transition the engine reports to its Listener.
type EventKind string

const (
	EventStarted      EventKind = "started"
	EventMoveAccepted EventKind = "move_accepted"
	EventInvalidMove  EventKind = "invalid_move"
	EventSwipe        EventKind = "swipe"
	EventTick         EventKind = "tick"
	EventPaused       EventKind = "paused"
	EventResumed      EventKind = "resumed"
	EventFinished     EventKind = "finished"
	EventAbandoned    EventKind = "abandoned"
)

// Event is delivered synchronously after the engine has applied a change.
type Event struct {
	Kind EventKind
	// NodeID is set for move_accepted and invalid_move.
	NodeID   string
	Snapshot Snapshot
	// Outcome is set for finished.
	Outcome *Outcome
}

// Listener observes engine events. Implementations must not call back into
// the engine.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// OnEvent calls f(ev).
func (f ListenerFunc) OnEvent(ev Event) { f(ev) }

type nopListener struct{}

func (nopListener) OnEvent(Event) {}

// Listeners fans an event out to several listeners in order.
type Listeners []Listener

// OnEvent forwards ev to every listener.
func (ls Listeners) OnEvent(ev Event) {
	for _, l := range ls {
		l.OnEvent(ev)
	}
}
