package rowan

// Displayable is a node in the scene graph. Implementations must be pure
// functions of the render area and the two time arguments, apart from
// fields explicitly documented as animation state.
type Displayable interface {
	// Render produces this node's output for one frame. width and height
	// give the area offered by the parent; st is the shown time and at the
	// animation time, both in seconds. Render must be safe to call more
	// than once per frame with the same arguments, and must register a
	// redraw request via rc if its appearance will change before the next
	// externally-driven re-render.
	Render(rc *RenderContext, width, height int, st, at float64) *Render

	// Predict walks every image surface reachable from this node, for
	// pre-caching. It performs no timing and has no side effects.
	Predict(fn func(Surface))

	// Placement returns the resolved position properties a parent uses to
	// place this node.
	Placement() Placement

	// Event dispatches an input event in local coordinates. st is the
	// shown time at which the event occurred. A non-nil result stops
	// further dispatch.
	Event(ev Event, x, y int, st float64) any
}

// Placement holds the resolved position properties of a displayable: a
// position within the parent area and an anchor within the node's own
// extent. Unset units resolve to 0 (top-left).
type Placement struct {
	XPos, YPos       Unit
	XAnchor, YAnchor Unit
}

// offsetIn computes the pixel offset of a child of size (cw, ch) placed
// inside an area of size (w, h).
func (p Placement) offsetIn(w, h, cw, ch int) Point {
	return Point{
		X: p.XPos.Resolve(w) - p.XAnchor.Resolve(cw),
		Y: p.YPos.Resolve(h) - p.YAnchor.Resolve(ch),
	}
}

// positioned reports whether any position property was explicitly set.
func (p Placement) positioned() bool {
	return p.XPos.IsSet() || p.YPos.IsSet() || p.XAnchor.IsSet() || p.YAnchor.IsSet()
}

// Style is the read-only resolved view of a node's layout properties. It is
// produced by an external styling system; the compositor only consults it.
type Style struct {
	// Position within the parent area.
	XPos, YPos       Unit
	XAnchor, YAnchor Unit

	// Fill flags: expand to the offered extent instead of shrinking to
	// content.
	XFill, YFill bool

	// Extent floors and ceilings.
	XMinimum, YMinimum Unit
	XMaximum, YMaximum Unit

	// Window bands. Margin is transparent; padding is covered by the
	// background.
	LeftMargin, RightMargin, TopMargin, BottomMargin     Unit
	LeftPadding, RightPadding, TopPadding, BottomPadding Unit

	// Background is rendered beneath a Window's child at exactly the
	// margin-excluded size.
	Background Displayable

	// BoxSpacing is the gap between consecutive MultiBox children.
	BoxSpacing Unit

	// Focusable marks the node as a focus target for the input layer.
	Focusable bool
}

// placement extracts the position properties from the style.
func (s *Style) placement() Placement {
	return Placement{XPos: s.XPos, YPos: s.YPos, XAnchor: s.XAnchor, YAnchor: s.YAnchor}
}

// Base supplies the default Displayable behavior: no predicted resources,
// placement taken from the style, and no event handling. Node kinds embed
// Base and override what they need.
type Base struct {
	Style Style
}

// Predict does nothing; nodes with image resources override it.
func (b *Base) Predict(fn func(Surface)) {}

// Placement returns the node's position properties from its style.
func (b *Base) Placement() Placement {
	return b.Style.placement()
}

// Event returns nil; the event is unhandled.
func (b *Base) Event(ev Event, x, y int, st float64) any {
	return nil
}

// place renders a child's Render into rv at the position selected by the
// child's own placement within the cell (x, y, w, h). It returns the
// resulting offset, which containers record for event dispatch.
func place(rv *Render, child Displayable, x, y, w, h int, cr *Render) Point {
	cw, ch := cr.Size()
	off := child.Placement().offsetIn(w, h, cw, ch)
	at := Point{X: x + off.X, Y: y + off.Y}
	rv.Blit(cr, at)
	return at
}
