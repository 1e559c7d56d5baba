package harness

import (
	"fmt"
	"slices"
)

// Check compares the script's expectations with a run result and returns
// one message per mismatch.
func Check(script *Script, result *Result) []string {
	var errs []string
	fail := func(field string, want, got any) {
		errs = append(errs, fmt.Sprintf("%s: expected %v, got %v", field, want, got))
	}

	exp := script.Expect
	final := result.Final

	if exp.Result != "" {
		got := "none"
		if result.Outcome != nil {
			got = result.Outcome.Result
		}
		if got != exp.Result {
			fail("result", exp.Result, got)
		}
	}
	if exp.Reason != "" {
		got := ""
		if result.Outcome != nil {
			got = result.Outcome.Reason
		}
		if got != exp.Reason {
			fail("reason", exp.Reason, got)
		}
	}
	if exp.State != "" && final.State.String() != exp.State {
		fail("state", exp.State, final.State)
	}
	if exp.Score != nil && final.Score != *exp.Score {
		fail("score", *exp.Score, final.Score)
	}
	if exp.Combo != nil && final.Combo != *exp.Combo {
		fail("combo", *exp.Combo, final.Combo)
	}
	if exp.Stars != nil {
		got := 0
		if result.Outcome != nil {
			got = result.Outcome.Stars
		}
		if got != *exp.Stars {
			fail("stars", *exp.Stars, got)
		}
	}
	if exp.Path != nil && !slices.Equal(final.Path, exp.Path) {
		fail("path", exp.Path, final.Path)
	}
	if exp.InvalidMoves != nil && result.InvalidMoves != *exp.InvalidMoves {
		fail("invalid_moves", *exp.InvalidMoves, result.InvalidMoves)
	}
	return errs
}
