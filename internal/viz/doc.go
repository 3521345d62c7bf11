// Package viz provides the terminal view used by the watch command.
//
// The view is a Bubble Tea program fed by a live simulation running in its
// own goroutine:
//
//   - [Model]: scrolling space-time view with a status bar
//   - [Canvas]: Braille-based canvas packing 2x4 cells per character
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	Q     - Stop the run and exit
//	B     - Toggle Braille / symbol view
//	T     - Cycle color themes
package viz
