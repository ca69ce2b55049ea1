package rowan

import "fmt"

// addable is any container the builder can add widgets to.
type addable interface {
	Displayable
	Add(Displayable)
}

// scope is one level of the builder's open widget/layer stack. Exactly one
// of layer and widget is set.
type scope struct {
	layer  string
	widget addable
}

// Builder procedurally constructs a displayable tree. Each call creates a
// widget and adds it to the current scope; container widgets also open a
// new scope, which Close pops. The stack must be balanced — empty again —
// before the tree is handed to the frame loop.
//
// The builder is an explicit object passed through the construction call
// chain; there is no process-wide current widget.
type Builder struct {
	layers map[string]*Fixed
	order  []string

	stack   []scope
	current scope
	once    bool
}

// NewBuilder creates a builder with one Fixed per named layer. The first
// layer starts current. Layers paint in the order given.
func NewBuilder(layers ...string) *Builder {
	if len(layers) == 0 {
		panic("rowan: builder requires at least one layer")
	}
	b := &Builder{layers: make(map[string]*Fixed)}
	for _, name := range layers {
		if _, ok := b.layers[name]; ok {
			panic(fmt.Sprintf("rowan: duplicate layer %q", name))
		}
		b.layers[name] = NewFixed()
		b.order = append(b.order, name)
	}
	b.current = scope{layer: layers[0]}
	return b
}

// Layer switches widget construction to the named layer until a matching
// Close.
func (b *Builder) Layer(name string) {
	if b.current.widget != nil {
		panic("rowan: opening a layer while a widget is open is not allowed")
	}
	if _, ok := b.layers[name]; !ok {
		panic(fmt.Sprintf("rowan: %q is not a known layer", name))
	}
	b.stack = append(b.stack, b.current)
	b.once = false
	b.current = scope{layer: name}
}

// Close closes the currently open widget or layer, returning construction
// to the enclosing scope.
func (b *Builder) Close() {
	if len(b.stack) == 0 {
		panic("rowan: close called on the last open layer or widget")
	}
	if b.once {
		panic("rowan: close called when expecting a widget")
	}
	b.current = b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
}

// Add adds an externally constructed displayable to the current scope.
func (b *Builder) Add(d Displayable) Displayable {
	if b.current.widget != nil {
		b.current.widget.Add(d)
	} else {
		b.layers[b.current.layer].Add(d)
	}

	if b.once {
		b.once = false
		b.Close()
	}
	return d
}

// open adds a container and makes it current. With once, the container
// accepts exactly one widget and then closes automatically.
func (b *Builder) open(d addable, once bool) {
	b.Add(d)
	b.stack = append(b.stack, b.current)
	b.current = scope{widget: d}
	b.once = once
}

// Null adds a widget that displays nothing.
func (b *Builder) Null(width, height int) *Null {
	n := NewNull(width, height)
	b.Add(n)
	return n
}

// Image adds an image widget for a pre-decoded surface.
func (b *Builder) Image(s Surface) *Image {
	im := NewImage(s)
	b.Add(im)
	return im
}

// Fixed opens a Fixed container; widgets added until Close overlay each
// other.
func (b *Builder) Fixed() *Fixed {
	f := NewFixed()
	b.open(f, false)
	return f
}

// HBox opens a horizontal box; widgets added until Close flow left to
// right with the given spacing.
func (b *Builder) HBox(spacing int) *MultiBox {
	box := NewHBox(spacing)
	b.open(box, false)
	return box
}

// VBox opens a vertical box; widgets added until Close flow top to bottom.
func (b *Builder) VBox(spacing int) *MultiBox {
	box := NewVBox(spacing)
	b.open(box, false)
	return box
}

// Grid opens a grid; exactly cols*rows widgets must be added before Close.
func (b *Builder) Grid(cols, rows int) *Grid {
	g := NewGrid(cols, rows)
	b.open(g, false)
	return g
}

// Window opens a window that accepts exactly one widget; it closes
// automatically after the widget is added.
func (b *Builder) Window() *Window {
	w := &Window{}
	b.open(w, true)
	return w
}

// Position opens a position wrapper that accepts exactly one widget.
func (b *Builder) Position(p Placement) *Position {
	pos := &Position{}
	pos.Style.XPos = p.XPos
	pos.Style.YPos = p.YPos
	pos.Style.XAnchor = p.XAnchor
	pos.Style.YAnchor = p.YAnchor
	b.open(pos, true)
	return pos
}

// Finish verifies the stack is balanced and returns the layer roots in
// paint order. It panics if a widget or layer scope is still open.
func (b *Builder) Finish() []*Fixed {
	if len(b.stack) != 0 {
		panic("rowan: finish called with a non-empty widget or layer stack; missing a close?")
	}
	roots := make([]*Fixed, 0, len(b.order))
	for _, name := range b.order {
		roots = append(roots, b.layers[name])
	}
	return roots
}

// LayerRoot returns the Fixed backing a named layer.
func (b *Builder) LayerRoot(name string) *Fixed {
	f, ok := b.layers[name]
	if !ok {
		panic(fmt.Sprintf("rowan: %q is not a known layer", name))
	}
	return f
}
