// Package rowan is a retained-mode software compositor for visual novel
// style interfaces.
//
// Rowan composes a tree of heterogeneous [Displayable] nodes into frames.
// Every node is a pure function of its render area and two elapsed-time
// clocks — the shown time, which resets when a widget is (re)shown, and the
// animation time, which does not. Nodes that change appearance over time
// schedule their own re-rendering through [RenderContext.Redraw]; there is
// no fixed tick.
//
// # Rendering
//
// A frame is produced by calling [RenderContext.Render] on the root node:
//
//	ctx := rowan.NewRenderContext()
//	ctx.BeginFrame(now, interactTime)
//	r := ctx.Render(root, 800, 600, shownTime, animTime)
//	surface := r.Flatten()
//
// The returned [Render] is an immutable blit list; [Render.Flatten]
// composites it onto a [Surface]. The frame loop then asks
// [RenderContext.NextRedraw] how long it may sleep before the tree must be
// rendered again.
//
// # Layout
//
// Containers ([Fixed], [MultiBox], [Grid], [Window], [Position]) recompute
// per-child offsets and sizes from scratch on every render call. The same
// bookkeeping routes events: children paint in insertion order and receive
// events in reverse order, topmost first.
//
// # Time-based nodes
//
// [Motion], [Zoom], [Animation], [Blink] and the state-machine animation
// [SMAnimation] derive their visual state algebraically from elapsed time.
// None of them stores wall-clock timestamps.
//
// The driver subpackage provides an [Ebitengine] front end that owns the
// window, the input pump, and the redraw schedule.
//
// [Ebitengine]: https://ebitengine.org
package rowan
