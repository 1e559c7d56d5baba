// Package harness runs scripted play sessions against the traversal engine.
//
// # Script Format
//
// Scripts are YAML files:
//
//	name: combo_victory
//	description: "Two checkpoints build a combo before the goal"
//	board_scale: 400
//	level:
//	  number: 1
//	  target_score: 100
//	  time_limit: 60s
//	  nodes:
//	    - { id: s, type: start, x: 0.5, y: 0.1, connections: [a] }
//	    - { id: a, type: checkpoint, x: 0.4, y: 0.5, value: 30, connections: [g] }
//	    - { id: g, type: goal, x: 0.5, y: 0.9, value: 100 }
//	steps:
//	  - tap: s
//	  - tap_index: 1
//	  - swipe: { from: { x: 0, y: 0 }, to: { x: 1, y: 0 } }
//	  - tick: 2s
//	  - wait: 1s
//	  - pause: true
//	  - resume: true
//	expect:
//	  result: victory
//	  score: 390
//	  stars: 3
//	  path: [s, a, g]
//
// Instead of an inline level a script may ask for a generated one:
//
//	generate: { complexity: 6, difficulty: hard, seed: 42, target_score: 500, time_limit: 90s }
//
// A tick advances both the manual clock and the level countdown; a wait only
// advances the clock, which shows up in the elapsed time of the outcome.
//
// # Deterministic Runs
//
// Every run uses a manual clock starting at testutil.Epoch and a seeded
// generator, so traces are byte-identical across runs and can be compared
// against golden files with RunWithGolden.
package harness
