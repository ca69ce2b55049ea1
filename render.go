package rowan

// blitOp is one entry in a Render's composition list. Exactly one of render
// and surface is non-nil.
type blitOp struct {
	render  *Render
	surface Surface
	at      Point
}

// Render is the immutable description of one node's rasterized output for
// one frame: an extent plus an ordered list of blit operations. Blits are
// composited in insertion order, so earlier entries paint behind later
// ones.
//
// A Render that is referenced by an ancestor must not be mutated. A Render
// is live from creation until it is superseded by a newer frame for the
// same node, or until the owning RenderContext is torn down.
type Render struct {
	width, height int
	blits         []blitOp
	depends       []*Render
	focuses       []Displayable

	live    bool
	tracked bool
	flat    Surface
}

// NewRender creates an empty Render of the given extent.
func NewRender(w, h int) *Render {
	return &Render{width: w, height: h}
}

// Size returns the Render's extent.
func (r *Render) Size() (int, int) {
	return r.width, r.height
}

// Blit appends a child Render to the composition list at the given offset.
// The child is also recorded as a lifetime dependency.
func (r *Render) Blit(child *Render, at Point) {
	if child == nil {
		panic("rowan: cannot blit a nil render")
	}
	r.blits = append(r.blits, blitOp{render: child, at: at})
	r.depends = append(r.depends, child)
	r.flat = nil
}

// BlitSurface appends a raw surface to the composition list.
func (r *Render) BlitSurface(s Surface, at Point) {
	if s == nil {
		panic("rowan: cannot blit a nil surface")
	}
	r.blits = append(r.blits, blitOp{surface: s, at: at})
	r.flat = nil
}

// DependsOn records a lifetime dependency on another Render without
// blitting it. Used when a node derives pixels from a child's flattened
// output rather than compositing the child directly.
func (r *Render) DependsOn(child *Render) {
	r.depends = append(r.depends, child)
}

// Live reports whether this Render is still the current output of its node.
func (r *Render) Live() bool {
	return r.live
}

// AddFocus records this node as a focus target within the Render.
func (r *Render) AddFocus(d Displayable) {
	r.focuses = append(r.focuses, d)
}

// Focuses returns the focus targets recorded in this Render.
func (r *Render) Focuses() []Displayable {
	return r.focuses
}

// Flatten composites the blit list onto a fresh alpha surface. The result
// is cached on the Render; repeated calls return the same surface.
func (r *Render) Flatten() Surface {
	if r.flat != nil {
		return r.flat
	}
	surf := NewSurface(r.width, r.height)
	for _, op := range r.blits {
		if op.render != nil {
			src := op.render.Flatten()
			surf.Blit(src, op.at)
			continue
		}
		src := op.surface
		if !src.HasAlpha() {
			src = src.ConvertAlpha()
		}
		surf.Blit(src, op.at)
	}
	r.flat = Surface(surf)
	return r.flat
}

// renderKey identifies a memoized render call within one frame.
type renderKey struct {
	d    Displayable
	w, h int
}

// RenderContext owns the per-frame render protocol: the idempotency cache
// that lets containers re-render children while probing sizes, the redraw
// request channel, and the liveness accounting for Render objects.
//
// The frame loop drives it as:
//
//	ctx.BeginFrame(frameTime, interactTime)
//	r := ctx.Render(root, w, h, st, at)
//	delay, ok := ctx.NextRedraw()
type RenderContext struct {
	// FrameTime is the absolute time of the frame being rendered, in
	// seconds. InteractTime is the absolute time the current interaction
	// began; Fixed uses it to default lazy child start times.
	FrameTime    float64
	InteractTime float64

	cache   map[renderKey]*Render
	latest  map[Displayable]*Render
	redraws map[Displayable]float64
	minWait float64
	hasWait bool
	live    int
}

// NewRenderContext creates an empty render context.
func NewRenderContext() *RenderContext {
	return &RenderContext{
		cache:   make(map[renderKey]*Render),
		latest:  make(map[Displayable]*Render),
		redraws: make(map[Displayable]float64),
	}
}

// BeginFrame starts a new logical frame: the idempotency cache and the
// outstanding redraw requests are cleared, and the frame clocks are set.
func (rc *RenderContext) BeginFrame(frameTime, interactTime float64) {
	rc.FrameTime = frameTime
	rc.InteractTime = interactTime
	clear(rc.cache)
	clear(rc.redraws)
	rc.minWait = 0
	rc.hasWait = false
}

// Render renders a displayable, memoizing the result per (node, area)
// within the current frame. The node's previous Render, if any, is marked
// dead once superseded.
func (rc *RenderContext) Render(d Displayable, width, height int, st, at float64) *Render {
	if d == nil {
		panic("rowan: cannot render a nil displayable")
	}
	key := renderKey{d: d, w: width, h: height}
	if r, ok := rc.cache[key]; ok {
		return r
	}
	r := d.Render(rc, width, height, st, at)
	if r == nil {
		panic("rowan: displayable returned a nil render")
	}
	rc.cache[key] = r
	if !r.tracked {
		r.tracked = true
		r.live = true
		rc.live++
	}
	if prev, ok := rc.latest[d]; ok && prev != r {
		rc.kill(prev)
	}
	rc.latest[d] = r
	return r
}

// Redraw requests that the given node be re-rendered after at least delay
// seconds, even absent external events. Requests coalesce to the minimum
// delay per frame. A delay of 0 means "next frame immediately". Negative
// delays are treated as 0.
func (rc *RenderContext) Redraw(d Displayable, delay float64) {
	if delay < 0 {
		delay = 0
	}
	if cur, ok := rc.redraws[d]; !ok || delay < cur {
		rc.redraws[d] = delay
	}
	if !rc.hasWait || delay < rc.minWait {
		rc.minWait = delay
		rc.hasWait = true
	}
}

// NextRedraw returns the minimum outstanding redraw delay for the current
// frame. ok is false when no node requested a redraw, meaning the tree is
// stable until an external event changes its inputs.
func (rc *RenderContext) NextRedraw() (delay float64, ok bool) {
	return rc.minWait, rc.hasWait
}

// RedrawRequested reports the pending delay for a specific node.
func (rc *RenderContext) RedrawRequested(d Displayable) (delay float64, ok bool) {
	delay, ok = rc.redraws[d]
	return delay, ok
}

// LiveRenders returns the number of Render objects that are still the
// current output of some node. After Teardown this trends to zero; a
// nonzero residual indicates a leak.
func (rc *RenderContext) LiveRenders() int {
	return rc.live
}

// Teardown marks every node's current Render dead. Called when the owning
// screen is destroyed.
func (rc *RenderContext) Teardown() {
	for d, r := range rc.latest {
		rc.kill(r)
		delete(rc.latest, d)
	}
	clear(rc.cache)
	clear(rc.redraws)
	rc.hasWait = false
}

func (rc *RenderContext) kill(r *Render) {
	if r.live {
		r.live = false
		rc.live--
	}
}
