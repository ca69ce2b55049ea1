package rowan

// Null is a displayable that displays nothing. It is useful when a wrapper
// requires contents but there is nothing to show.
type Null struct {
	Base
	Width, Height int
}

// NewNull creates a null displayable of the given extent.
func NewNull(width, height int) *Null {
	return &Null{Width: width, Height: height}
}

// Render produces an empty render of the configured extent.
func (n *Null) Render(rc *RenderContext, width, height int, st, at float64) *Render {
	rv := NewRender(n.Width, n.Height)
	if n.Style.Focusable {
		rv.AddFocus(n)
	}
	return rv
}

// Container is the base for displayables holding an ordered sequence of
// children. Insertion order is back-to-front paint order; event dispatch
// walks the children in reverse, topmost first.
//
// Each render call rebuilds the parallel offsets/sizes bookkeeping from
// scratch. The recorded entries are valid until the next render call and
// are what Event uses to translate coordinates.
type Container struct {
	Base
	children []Displayable
	offsets  []Point
	sizes    []Size
}

// Add appends a child. Nil children are ignored.
func (c *Container) Add(d Displayable) {
	if d == nil {
		return
	}
	c.children = append(c.children, d)
}

// Child returns the most recently added child, or nil.
func (c *Container) Child() Displayable {
	if len(c.children) == 0 {
		return nil
	}
	return c.children[len(c.children)-1]
}

// Children returns the child list. The returned slice must not be mutated.
func (c *Container) Children() []Displayable {
	return c.children
}

// Offsets returns the per-child offsets recorded by the last render call.
func (c *Container) Offsets() []Point {
	return c.offsets
}

// Sizes returns the per-child sizes recorded by the last render call.
func (c *Container) Sizes() []Size {
	return c.sizes
}

// setLayout atomically replaces the offsets/sizes bookkeeping. Event never
// observes a partially updated pair.
func (c *Container) setLayout(offsets []Point, sizes []Size) {
	c.offsets = offsets
	c.sizes = sizes
}

// Render passes through to the last child. Wrappers that hold one child
// and have no layout of their own inherit this.
func (c *Container) Render(rc *RenderContext, width, height int, st, at float64) *Render {
	child := c.Child()
	if child == nil {
		panic("rowan: container has no children to render")
	}
	cr := rc.Render(child, width, height, st, at)
	cw, ch := cr.Size()
	rv := NewRender(cw, ch)
	rv.Blit(cr, Point{})
	c.setLayout([]Point{{}}, []Size{{W: cw, H: ch}})
	return rv
}

// Event dispatches to the children in reverse insertion order, translating
// coordinates by the offsets recorded during the last render. The first
// non-nil result wins.
func (c *Container) Event(ev Event, x, y int, st float64) any {
	for i := len(c.offsets) - 1; i >= 0; i-- {
		if i >= len(c.children) {
			continue
		}
		off := c.offsets[i]
		if rv := c.children[i].Event(ev, x-off.X, y-off.Y, st); rv != nil {
			return rv
		}
	}
	return nil
}

// ChildAtPoint returns the index of the child rendered at the given local
// coordinates, or -1 if the point is outside every child.
func (c *Container) ChildAtPoint(x, y int) int {
	for i := range c.offsets {
		if i >= len(c.sizes) {
			break
		}
		xrel := x - c.offsets[i].X
		yrel := y - c.offsets[i].Y
		if xrel < 0 || yrel < 0 || xrel >= c.sizes[i].W || yrel >= c.sizes[i].H {
			continue
		}
		return i
	}
	return -1
}

// Predict walks all children.
func (c *Container) Predict(fn func(Surface)) {
	for _, child := range c.children {
		child.Predict(fn)
	}
}

// Placement returns the container's own position properties when any are
// set, and otherwise defers to the last-placed child.
func (c *Container) Placement() Placement {
	p := c.Style.placement()
	if p.positioned() {
		return p
	}
	if child := c.Child(); child != nil {
		return child.Placement()
	}
	return p
}

// optTime is a lazily assigned start time.
type optTime struct {
	t  float64
	ok bool
}

// Fixed overlays all of its children on the full parent area, each child
// self-placing via its own position properties. Every child carries two
// independent start times — one on the shown clock and one on the
// animation clock — assigned at insertion and defaulted to the time of
// first draw when unset.
type Fixed struct {
	Container
	starts []optTime
	anims  []optTime
}

// NewFixed creates an empty Fixed container.
func NewFixed(children ...Displayable) *Fixed {
	f := &Fixed{}
	for _, c := range children {
		f.Add(c)
	}
	return f
}

// Add appends a child with unset start times; both clocks default to the
// time of the first draw that sees them.
func (f *Fixed) Add(d Displayable) {
	if d == nil {
		return
	}
	f.Container.Add(d)
	f.starts = append(f.starts, optTime{})
	f.anims = append(f.anims, optTime{})
}

// AddTimed appends a child with explicit shown and animation start times,
// given on the frame clock.
func (f *Fixed) AddTimed(d Displayable, startTime, animTime float64) {
	if d == nil {
		return
	}
	f.Container.Add(d)
	f.starts = append(f.starts, optTime{t: startTime, ok: true})
	f.anims = append(f.anims, optTime{t: animTime, ok: true})
}

// Render draws every child over the full area. Children with unset start
// times have them assigned from the context's interact time the first time
// they are drawn.
func (f *Fixed) Render(rc *RenderContext, width, height int, st, at float64) *Render {
	if f.Style.XMaximum.IsSet() {
		width = minInt(width, f.Style.XMaximum.Resolve(width))
	}
	if f.Style.YMaximum.IsSet() {
		height = minInt(height, f.Style.YMaximum.Resolve(height))
	}

	rv := NewRender(width, height)
	offsets := make([]Point, 0, len(f.children))
	sizes := make([]Size, 0, len(f.children))

	t := rc.FrameTime
	it := rc.InteractTime

	for i, child := range f.children {
		if !f.starts[i].ok {
			f.starts[i] = optTime{t: it, ok: true}
		}
		if !f.anims[i].ok {
			f.anims[i] = optTime{t: it, ok: true}
		}
		cst := t - f.starts[i].t
		cat := t - f.anims[i].t

		cr := rc.Render(child, width, height, cst, cat)
		cw, ch := cr.Size()
		sizes = append(sizes, Size{W: cw, H: ch})
		offsets = append(offsets, place(rv, child, 0, 0, width, height, cr))
	}

	f.setLayout(offsets, sizes)
	return rv
}

// Event dispatches topmost-first. The incoming st is the absolute event
// time on the frame clock; each child receives time relative to its own
// shown start.
func (f *Fixed) Event(ev Event, x, y int, st float64) any {
	for i := len(f.offsets) - 1; i >= 0; i-- {
		if i >= len(f.children) {
			continue
		}
		cst := 0.0
		if i < len(f.starts) && f.starts[i].ok {
			cst = st - f.starts[i].t
		}
		off := f.offsets[i]
		if rv := f.children[i].Event(ev, x-off.X, y-off.Y, cst); rv != nil {
			return rv
		}
	}
	return nil
}

// Position is a one-child pass-through that exists solely to carry
// position properties distinct from its child's own.
type Position struct {
	Container
}

// NewPosition wraps a child with its own position style.
func NewPosition(child Displayable) *Position {
	p := &Position{}
	p.Add(child)
	return p
}

// Placement returns the Position's own properties even when unset; that is
// its entire purpose.
func (p *Position) Placement() Placement {
	return p.Style.placement()
}

// Grid lays out exactly cols*rows children in identical cells. The cell
// size in each axis is the max over all children's natural size, or the
// fill-allocated size when the corresponding fill flag is set.
type Grid struct {
	Container
	cols, rows int

	// Padding is the gap between adjacent cells, in pixels.
	Padding int

	// Transpose reorders the children from row-major to column-major the
	// first time the grid renders. The reorder happens exactly once.
	Transpose bool
}

// NewGrid creates a grid with the given dimensions.
func NewGrid(cols, rows int) *Grid {
	if cols <= 0 || rows <= 0 {
		panic("rowan: grid dimensions must be positive")
	}
	return &Grid{cols: cols, rows: rows}
}

// Render lays the children out. It panics unless exactly cols*rows
// children are present.
func (g *Grid) Render(rc *RenderContext, width, height int, st, at float64) *Render {
	cols, rows, padding := g.cols, g.rows, g.Padding

	if len(g.children) != cols*rows {
		panic("rowan: grid not completely full")
	}

	if g.Transpose {
		g.Transpose = false
		old := make([]Displayable, len(g.children))
		copy(old, g.children)
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				g.children[x+y*cols] = old[y+x*rows]
			}
		}
	}

	renWidth := width
	renHeight := height
	if g.Style.XFill {
		renWidth = (width - (cols-1)*padding) / cols
	}
	if g.Style.YFill {
		renHeight = (height - (rows-1)*padding) / rows
	}

	renders := make([]*Render, len(g.children))
	sizes := make([]Size, len(g.children))
	cellW, cellH := 0, 0
	for i, child := range g.children {
		renders[i] = rc.Render(child, renWidth, renHeight, st, at)
		w, h := renders[i].Size()
		sizes[i] = Size{W: w, H: h}
		cellW = maxInt(cellW, w)
		cellH = maxInt(cellH, h)
	}

	if g.Style.XFill {
		cellW = renWidth
	}
	if g.Style.YFill {
		cellH = renHeight
	}

	totalW := cellW*cols + padding*(cols-1)
	totalH := cellH*rows + padding*(rows-1)
	rv := NewRender(totalW, totalH)

	offsets := make([]Point, 0, len(g.children))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			i := x + y*cols
			xpos := x * (cellW + padding)
			ypos := y * (cellH + padding)
			offsets = append(offsets, place(rv, g.children[i], xpos, ypos, cellW, cellH, renders[i]))
		}
	}

	g.setLayout(offsets, sizes)
	return rv
}

// Orientation selects a MultiBox layout axis.
type Orientation uint8

const (
	Horizontal Orientation = iota // children flow left to right
	Vertical                      // children flow top to bottom
)

// MultiBox lays out its children in sequence along one axis, offering each
// child the space remaining after the previous children and the fixed
// inter-child spacing. The extent along the layout axis is the sum of the
// child extents plus spacing; the cross-axis extent is the max over
// children.
type MultiBox struct {
	Container
	layout Orientation
}

// NewMultiBox creates a box flowing along the given axis with the given
// inter-child spacing in pixels.
func NewMultiBox(layout Orientation, spacing int) *MultiBox {
	b := &MultiBox{layout: layout}
	b.Style.BoxSpacing = Px(spacing)
	return b
}

// NewHBox creates a horizontal MultiBox.
func NewHBox(spacing int) *MultiBox {
	return NewMultiBox(Horizontal, spacing)
}

// NewVBox creates a vertical MultiBox.
func NewVBox(spacing int) *MultiBox {
	return NewMultiBox(Vertical, spacing)
}

// Render runs the shared flow algorithm; Horizontal and Vertical differ
// only in which axis is the layout axis.
func (b *MultiBox) Render(rc *RenderContext, width, height int, st, at float64) *Render {
	horizontal := b.layout == Horizontal

	base := height
	if horizontal {
		base = width
	}
	spacing := b.Style.BoxSpacing.Resolve(base)

	remaining := base
	mainOff := 0
	cross := 0

	renders := make([]*Render, 0, len(b.children))
	mains := make([]int, 0, len(b.children))
	sizes := make([]Size, 0, len(b.children))

	for _, child := range b.children {
		mains = append(mains, mainOff)

		var cr *Render
		if horizontal {
			cr = rc.Render(child, remaining, height, st, at)
		} else {
			cr = rc.Render(child, width, remaining, st, at)
		}
		cw, ch := cr.Size()

		main, other := cw, ch
		if !horizontal {
			main, other = ch, cw
		}
		remaining -= main + spacing
		mainOff += main + spacing
		cross = maxInt(cross, other)

		renders = append(renders, cr)
		sizes = append(sizes, Size{W: cw, H: ch})
	}

	total := 0
	if len(b.children) > 0 {
		total = mainOff - spacing
	}

	var rv *Render
	if horizontal {
		rv = NewRender(total, cross)
	} else {
		rv = NewRender(cross, total)
	}

	offsets := make([]Point, 0, len(b.children))
	for i, child := range b.children {
		if horizontal {
			offsets = append(offsets, place(rv, child, mains[i], 0, sizes[i].W, cross, renders[i]))
		} else {
			offsets = append(offsets, place(rv, child, 0, mains[i], cross, sizes[i].H, renders[i]))
		}
	}

	b.setLayout(offsets, sizes)
	return rv
}

// Window wraps a single child with margin and padding bands and a
// background. Margin is transparent; padding is covered by the background,
// which renders at exactly the margin-excluded size. Unless a fill flag or
// a minimum-size floor forces a larger extent, the window shrinks to its
// content.
type Window struct {
	Container
}

// NewWindow wraps a child in a window.
func NewWindow(child Displayable) *Window {
	w := &Window{}
	w.Add(child)
	return w
}

// Predict walks the background rather than the child tree; the child is
// reached through the container traversal by callers that want it.
func (w *Window) Predict(fn func(Surface)) {
	if w.Style.Background != nil {
		w.Style.Background.Predict(fn)
	}
	w.Container.Predict(fn)
}

// Render lays the window out around its child.
func (w *Window) Render(rc *RenderContext, width, height int, st, at float64) *Render {
	style := &w.Style

	xmin := style.XMinimum.Resolve(width)
	ymin := style.YMinimum.Resolve(height)

	leftMargin := style.LeftMargin.Resolve(width)
	rightMargin := style.RightMargin.Resolve(width)
	topMargin := style.TopMargin.Resolve(height)
	bottomMargin := style.BottomMargin.Resolve(height)

	leftPadding := style.LeftPadding.Resolve(width)
	rightPadding := style.RightPadding.Resolve(width)
	topPadding := style.TopPadding.Resolve(height)
	bottomPadding := style.BottomPadding.Resolve(height)

	xmargin := leftMargin + rightMargin
	ymargin := topMargin + bottomMargin
	xpadding := leftPadding + rightPadding
	ypadding := topPadding + bottomPadding

	child := w.Child()
	if child == nil {
		panic("rowan: window has no child")
	}

	cr := rc.Render(child, width-xmargin-xpadding, height-ymargin-ypadding, st, at)
	cw, ch := cr.Size()

	if !style.XFill {
		width = maxInt(xmargin+xpadding+cw, xmin)
	}
	if !style.YFill {
		height = maxInt(ymargin+ypadding+ch, ymin)
	}

	rv := NewRender(width, height)

	if style.Background != nil {
		bw := width - xmargin
		bh := height - ymargin
		back := rc.Render(style.Background, bw, bh, st, at)
		rv.Blit(back, Point{X: leftMargin, Y: topMargin})
	}

	offset := place(rv, child,
		leftMargin+leftPadding,
		topMargin+topPadding,
		width-xmargin-xpadding,
		height-ymargin-ypadding,
		cr)

	w.setLayout([]Point{offset}, []Size{{W: cw, H: ch}})
	return rv
}

// LiveComposite overlays displayables at fixed offsets within an area of
// the given size. Arguments after the size alternate between a Point offset
// and the Displayable drawn at that offset, bottom to top. Unlike a static
// composited image, the children keep animating while shown.
func LiveComposite(width, height int, args ...any) *Fixed {
	if len(args)%2 != 0 {
		panic("rowan: LiveComposite requires (offset, displayable) pairs")
	}

	rv := NewFixed()
	rv.Style.XMaximum = Px(width)
	rv.Style.YMaximum = Px(height)

	for i := 0; i < len(args); i += 2 {
		pos, ok := args[i].(Point)
		if !ok {
			panic("rowan: LiveComposite offsets must be Points")
		}
		child, ok := args[i+1].(Displayable)
		if !ok {
			panic("rowan: LiveComposite entries must be Displayables")
		}
		p := NewPosition(child)
		p.Style.XPos = Px(pos.X)
		p.Style.YPos = Px(pos.Y)
		p.Style.XAnchor = Left
		p.Style.YAnchor = Top
		rv.Add(p)
	}

	return rv
}
