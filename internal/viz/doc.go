// Package viz provides the interactive terminal view of a drift field.
//
// The view is a Bubble Tea program drawing the field onto a Braille
// surface, one sub-pixel per dot:
//
//   - [Model]: the live field with a stats panel and link history graph
//   - [Menu]: preset picker that launches a [Model]
//   - Light and dark themes that follow the field's display mode
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Regenerate the particles
//	T     - Toggle light/dark mode
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	Q     - Quit
//
// The mouse acts as the pointer. Moving it off the canvas, or moving
// focus away from the terminal, counts as the pointer leaving.
package viz
