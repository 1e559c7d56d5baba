package engine

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/roach88/luminal/internal/puzzle"
)

const (
	// DefaultBoardScale converts normalized board distances into points for
	// swipe scoring: a swipe across the full board width is 400 points.
	DefaultBoardScale = 400.0

	// MinSwipeDistance is the distance in points a swipe must exceed to score.
	MinSwipeDistance = 50.0

	// SwipePointsDivisor turns swipe distance into score.
	SwipePointsDivisor = 10.0

	// PowerupTimeBonus is added to the clock of a timed level per powerup.
	PowerupTimeBonus = 10 * time.Second

	// ReasonTimeUp is the defeat reason when the clock runs out.
	ReasonTimeUp = "time up"
)

// Engine is the traversal state machine for one level session at a time.
//
// INVARIANTS:
//   - score >= 0 (obstacles clamp at zero)
//   - combo >= 0
//   - path holds no duplicates and every consecutive pair is an edge
//   - remaining only changes while Active on a timed level
type Engine struct {
	clock      Clock
	listener   Listener
	logger     *slog.Logger
	boardScale float64

	level *puzzle.Level
	graph *puzzle.Graph

	state     State
	score     int
	combo     int
	path      []string
	visited   map[string]bool
	remaining time.Duration

	// elapsed accumulates Active time up to activeSince.
	elapsed     time.Duration
	activeSince time.Time

	outcome *Outcome
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for elapsed time. Default: SystemClock.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithListener attaches an event listener.
func WithListener(l Listener) Option {
	return func(e *Engine) {
		e.listener = l
	}
}

// WithBoardScale sets the points-per-board-unit factor for swipes.
func WithBoardScale(scale float64) Option {
	return func(e *Engine) {
		e.boardScale = scale
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an idle engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:      SystemClock{},
		listener:   nopListener{},
		boardScale: DefaultBoardScale,
		state:      StateIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.listener == nil {
		e.listener = nopListener{}
	}
	if e.boardScale <= 0 {
		e.boardScale = DefaultBoardScale
	}
	return e
}

// Start begins a session on level. It is valid from Idle or Finished;
// a session in progress must be abandoned first.
func (e *Engine) Start(level *puzzle.Level) error {
	if e.state == StateActive || e.state == StatePaused {
		return &Error{Code: ErrCodeIllegalState, Message: "session already in progress", State: e.state}
	}
	if level == nil {
		return &Error{Code: ErrCodeInvalidArgument, Message: "level is nil", State: e.state}
	}
	if err := level.Validate(); err != nil {
		return &Error{
			Code:    ErrCodeInvalidArgument,
			Message: fmt.Sprintf("level %d is not playable: %v", level.Number, err),
			State:   e.state,
		}
	}

	e.level = level
	e.graph = level.Graph()
	e.score = 0
	e.combo = 0
	e.path = nil
	e.visited = make(map[string]bool, len(level.Nodes))
	e.remaining = level.TimeLimit
	e.elapsed = 0
	e.activeSince = e.clock.Now()
	e.outcome = nil
	e.state = StateActive

	e.logger.Info("level started",
		"level", level.Number,
		"difficulty", level.Difficulty,
		"target", level.TargetScore,
		"nodes", len(level.Nodes),
		"time_limit", level.TimeLimit,
	)
	e.emit(Event{Kind: EventStarted})
	return nil
}

// Abandon drops the current session without an outcome and returns to Idle.
func (e *Engine) Abandon() {
	if e.state == StateIdle {
		return
	}
	wasRunning := e.state == StateActive || e.state == StatePaused
	e.stopClock()
	e.state = StateIdle
	if wasRunning {
		e.logger.Info("level abandoned", "level", e.level.Number, "score", e.score)
	}
	e.emit(Event{Kind: EventAbandoned})
}

// Pause freezes an active session. No-op in any other state.
func (e *Engine) Pause() {
	if e.state != StateActive {
		return
	}
	e.stopClock()
	e.state = StatePaused
	e.emit(Event{Kind: EventPaused})
}

// Resume continues a paused session. No-op in any other state.
func (e *Engine) Resume() {
	if e.state != StatePaused {
		return
	}
	e.activeSince = e.clock.Now()
	e.state = StateActive
	e.emit(Event{Kind: EventResumed})
}

// Tick advances the countdown of a timed level by dt. Reaching zero ends
// the session in defeat. Ticks on an untimed level or outside Active are
// dropped.
func (e *Engine) Tick(dt time.Duration) error {
	if dt < 0 {
		return &Error{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("negative tick %s", dt), State: e.state}
	}
	if e.state != StateActive || !e.level.Timed() {
		return nil
	}

	e.remaining -= dt
	if e.remaining <= 0 {
		e.remaining = 0
		e.emit(Event{Kind: EventTick})
		e.finish(ResultDefeat, ReasonTimeUp)
		return nil
	}
	e.emit(Event{Kind: EventTick})
	return nil
}

// TapNode selects a node. The first tap must hit the start node; every
// later tap must follow an outgoing edge of the last node to a node not yet
// visited. Invalid moves reset the combo and leave score and path alone.
//
// Tapping an id that is not part of the level is malformed input and
// returns an INVALID_ARGUMENT error.
func (e *Engine) TapNode(id string) (TapResult, error) {
	if e.state != StateActive {
		return TapIgnored, nil
	}
	node, ok := e.graph.Node(id)
	if !ok {
		return TapIgnored, &Error{
			Code:    ErrCodeInvalidArgument,
			Message: fmt.Sprintf("node is not part of level %d", e.level.Number),
			State:   e.state,
			NodeID:  id,
		}
	}

	if len(e.path) == 0 {
		if node.Type != puzzle.NodeStart {
			e.reject(id, "first node must be the start")
			return TapRejected, nil
		}
		e.visit(node)
		e.emit(Event{Kind: EventMoveAccepted, NodeID: id})
		return TapAccepted, nil
	}

	last, _ := e.graph.Node(e.path[len(e.path)-1])
	switch {
	case e.visited[id]:
		e.reject(id, "already visited")
		return TapRejected, nil
	case !last.ConnectsTo(id):
		e.reject(id, "not connected")
		return TapRejected, nil
	}

	e.visit(node)
	e.apply(node)
	e.emit(Event{Kind: EventMoveAccepted, NodeID: id})

	if node.Type == puzzle.NodeGoal {
		e.finish(ResultVictory, "")
	}
	return TapAccepted, nil
}

// Swipe scores a gesture between two board points. Distances are measured
// in board units scaled by the board scale; only swipes longer than
// MinSwipeDistance count. Reports whether the swipe scored.
func (e *Engine) Swipe(from, to puzzle.Point) bool {
	if e.state != StateActive {
		return false
	}
	distance := from.Distance(to) * e.boardScale
	if distance <= MinSwipeDistance {
		return false
	}
	e.score += int(math.Floor(distance / SwipePointsDivisor))
	e.combo++
	e.emit(Event{Kind: EventSwipe})
	return true
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Level returns the level of the current or last session, nil when none.
func (e *Engine) Level() *puzzle.Level {
	return e.level
}

// Snapshot copies the current session state.
func (e *Engine) Snapshot() Snapshot {
	path := make([]string, len(e.path))
	copy(path, e.path)
	return Snapshot{
		State:     e.state,
		Score:     e.score,
		Combo:     e.combo,
		Path:      path,
		Timed:     e.level != nil && e.level.Timed(),
		Remaining: e.remaining,
		Elapsed:   e.elapsedNow(),
	}
}

// Outcome returns the terminal outcome once the session has finished.
func (e *Engine) Outcome() (Outcome, bool) {
	if e.outcome == nil {
		return Outcome{}, false
	}
	return *e.outcome, true
}

func (e *Engine) visit(n puzzle.Node) {
	e.path = append(e.path, n.ID)
	e.visited[n.ID] = true
}

// apply scores an accepted, non-initial node.
func (e *Engine) apply(n puzzle.Node) {
	switch n.Type {
	case puzzle.NodeCheckpoint:
		e.score += n.Value * (e.combo + 1)
		e.combo++
	case puzzle.NodeObstacle:
		e.score = max(0, e.score-n.Value)
		e.combo = 0
	case puzzle.NodeGoal:
		e.score += n.Value * (e.combo + 1)
	case puzzle.NodePowerup:
		e.score += n.Value * 2
		e.combo += 2
		if e.level.Timed() {
			e.remaining += PowerupTimeBonus
		}
	case puzzle.NodeStart:
		// no scoring effect
	}
}

func (e *Engine) reject(id, why string) {
	e.combo = 0
	e.logger.Debug("invalid move", "level", e.level.Number, "node", id, "reason", why)
	e.emit(Event{Kind: EventInvalidMove, NodeID: id})
}

func (e *Engine) finish(result Result, reason string) {
	e.stopClock()
	e.state = StateFinished

	stars := 0
	if result == ResultVictory {
		stars = Stars(e.score, e.level.TargetScore)
	}
	path := make([]string, len(e.path))
	copy(path, e.path)
	e.outcome = &Outcome{
		Result:      result,
		Reason:      reason,
		LevelNumber: e.level.Number,
		Score:       e.score,
		Stars:       stars,
		Elapsed:     e.elapsed,
		Path:        path,
	}

	e.logger.Info("level finished",
		"level", e.level.Number,
		"result", result,
		"score", e.score,
		"stars", stars,
		"elapsed", e.elapsed,
	)
	out := *e.outcome
	e.emit(Event{Kind: EventFinished, Outcome: &out})
}

// stopClock folds the current active stretch into elapsed.
func (e *Engine) stopClock() {
	if e.state == StateActive {
		e.elapsed += e.clock.Now().Sub(e.activeSince)
	}
}

func (e *Engine) elapsedNow() time.Duration {
	if e.state == StateActive {
		return e.elapsed + e.clock.Now().Sub(e.activeSince)
	}
	return e.elapsed
}

func (e *Engine) emit(ev Event) {
	ev.Snapshot = e.Snapshot()
	e.listener.OnEvent(ev)
}
