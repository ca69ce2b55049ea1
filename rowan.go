package rowan

// Point is an integer pixel offset within a parent's coordinate space.
type Point struct {
	X, Y int
}

// Size is an integer pixel extent.
type Size struct {
	W, H int
}

// Rect is an axis-aligned pixel rectangle. The coordinate system has its
// origin at the top-left, with Y increasing downward.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the opaque white color.
var ColorWhite = Color{1, 1, 1, 1}

// Unit is a style length that is either an absolute pixel count or a
// fraction of a base extent resolved at render time. The zero Unit is
// "unset" and resolves to 0.
type Unit struct {
	v    float64
	frac bool
	set  bool
}

// Px returns an absolute pixel length.
func Px(v int) Unit {
	return Unit{v: float64(v), set: true}
}

// Frac returns a length expressed as a fraction of the base extent.
func Frac(f float64) Unit {
	return Unit{v: f, frac: true, set: true}
}

// IsSet reports whether the unit was explicitly assigned.
func (u Unit) IsSet() bool {
	return u.set
}

// Fractional reports whether the unit resolves against a base extent.
func (u Unit) Fractional() bool {
	return u.frac
}

// Resolve converts the unit to pixels against the given base extent.
func (u Unit) Resolve(base int) int {
	if u.frac {
		return int(u.v * float64(base))
	}
	return int(u.v)
}

// Common anchor values. An anchor is a fraction of the child's own extent
// that is aligned onto the resolved position.
var (
	Left   = Frac(0)
	Center = Frac(0.5)
	Right  = Frac(1)
	Top    = Frac(0)
	Bottom = Frac(1)
)

// EventType identifies a kind of input event.
type EventType uint8

const (
	EventMouseDown EventType = iota // a mouse button was pressed
	EventMouseUp                    // a mouse button was released
	EventMouseMove                  // the pointer moved
	EventKeyDown                    // a key was pressed
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button
)

// Event is an input event dispatched through the displayable tree in local
// coordinates. Key holds a driver-defined key code for EventKeyDown.
type Event struct {
	Type   EventType
	Button MouseButton
	Key    int
}

// Transition composes an old and a new visual into a single displayable
// that animates between them over its shown time. Transitions are used
// standalone and as edge decorations in [SMAnimation].
type Transition func(old, new Displayable) Displayable

// clamp limits v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
