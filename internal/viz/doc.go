// Package viz renders recorded pendulum runs.
//
//   - [SaveChart]: angle, velocity and force against time as a PNG
//   - [ASCII]: the same traces as terminal line charts
//   - [RuleTable]: the rule base as a 5x5 grid
//   - [Replay]: an interactive Bubble Tea player for a [experiment.History]
//   - [Canvas]: Braille-based pixel canvas used by the player
//
// # Replay key bindings
//
//	Space - Pause/Resume playback
//	R     - Restart from the first entry
//	[ ]   - Step one entry back/forward
//	+ -   - Change playback speed
//	Q     - Quit
package viz
