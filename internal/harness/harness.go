package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/luminal/internal/engine"
	"github.com/roach88/luminal/internal/testutil"
)

// Harness runs one script on a fresh engine.
type Harness struct {
	engine *engine.Engine
	clock  *testutil.ManualClock
	logger *slog.Logger
}

// Run executes a script and checks its expectations.
//
// Execution flow:
//  1. Build the level (inline or generated)
//  2. Start a fresh engine on a manual clock
//  3. Feed every step to the engine
//  4. Check the expectations against the final state
//
// A returned error means the script could not be executed at all (broken
// level, malformed tap); failed expectations are reported in the Result.
func Run(script *Script) (*Result, error) {
	return RunWithLogger(script, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with engine and step logging sent to logger.
func RunWithLogger(script *Script, logger *slog.Logger) (*Result, error) {
	level, err := script.BuildLevel()
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", script.Name, err)
	}

	result := NewResult()
	clock := testutil.NewManualClock(testutil.Epoch)
	opts := []engine.Option{
		engine.WithClock(clock),
		engine.WithListener(result),
		engine.WithLogger(logger),
	}
	if script.BoardScale > 0 {
		opts = append(opts, engine.WithBoardScale(script.BoardScale))
	}

	h := &Harness{
		engine: engine.New(opts...),
		clock:  clock,
		logger: logger,
	}
	if err := h.engine.Start(level); err != nil {
		return nil, fmt.Errorf("script %s: %w", script.Name, err)
	}

	for i, step := range script.Steps {
		if err := h.execute(step); err != nil {
			return nil, fmt.Errorf("script %s: step %d: %w", script.Name, i, err)
		}
		h.logger.Debug("step executed", "step", i, "kind", step.Kind())
	}

	result.Final = h.engine.Snapshot()
	if out, ok := h.engine.Outcome(); ok {
		result.Outcome = summarize(out)
	}
	for _, msg := range Check(script, result) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) execute(step Step) error {
	switch step.Kind() {
	case StepTap:
		_, err := h.engine.TapNode(step.Tap)
		return err
	case StepTapIndex:
		nodes := h.engine.Level().Nodes
		if *step.TapIndex >= len(nodes) {
			return fmt.Errorf("tap_index %d out of range (%d nodes)", *step.TapIndex, len(nodes))
		}
		_, err := h.engine.TapNode(nodes[*step.TapIndex].ID)
		return err
	case StepSwipe:
		h.engine.Swipe(step.Swipe.From, step.Swipe.To)
		return nil
	case StepTick:
		h.clock.Advance(step.Tick)
		return h.engine.Tick(step.Tick)
	case StepWait:
		h.clock.Advance(step.Wait)
		return nil
	case StepPause:
		h.engine.Pause()
		return nil
	case StepResume:
		h.engine.Resume()
		return nil
	default:
		return fmt.Errorf("step has no single action")
	}
}
