// Package field provides the drifting particle field drawn behind the
// portfolio page.
//
// The package is independent of any particular display. A host supplies a
// [Surface] (something with a rendered size and a 2D drawing [Context]) and
// drives the field one frame at a time:
//
//   - [Attach]: measures the surface and populates the particles
//   - [Field.Update]: drift, pointer repulsion and easing back to base
//   - [Field.Draw]: circles plus connective lines for near pairs
//   - [Animator]: a cancellable frame loop that owns all field mutation
//
// # Example
//
//	f, err := field.Attach(surface, field.WithSeed(42))
//	if err != nil {
//		return err
//	}
//	f.PointerMove(120, 80)
//	stats := f.Step(field.RenderConfig{Mode: field.Dark})
//
// # Thread Safety
//
// A Field is NOT safe for concurrent use. Hosts call it from a single event
// loop; [Animator] does this for hosts that deliver events on channels.
package field
