package rowan

import (
	"math"

	"github.com/tanema/gween/ease"
)

// MotionFunc maps a normalized progress value t in [0, 1] to the placement
// of a Motion's child for that frame. The returned placement may set only a
// position, or a position plus anchors.
type MotionFunc func(t float64) Placement

// Motion moves a child around by sampling a MotionFunc at a progress value
// derived from elapsed time divided by Period. The function's result
// overrides the child's position style for that frame only.
//
// With Repeat the progress wraps via modulo; with Bounce it folds, running
// 0→1→0 over one period. Delay caps the total duration when not repeating
// (defaulting to one period), clamping progress at 1 and ending redraw
// requests — the terminal state.
type Motion struct {
	Container
	fn     MotionFunc
	Period float64

	Repeat       bool
	Bounce       bool
	Delay        float64
	AnimTimebase bool

	cur    Placement
	placed bool
}

// NewMotion creates a motion wrapping the child. Configure Repeat, Bounce,
// Delay, and AnimTimebase before first render.
func NewMotion(fn MotionFunc, period float64, child Displayable) *Motion {
	if fn == nil {
		panic("rowan: motion requires a function")
	}
	if period <= 0 {
		panic("rowan: motion period must be positive")
	}
	m := &Motion{fn: fn, Period: period}
	m.Add(child)
	return m
}

// Render samples the motion function and renders the child at its natural
// size.
func (m *Motion) Render(rc *RenderContext, width, height int, st, at float64) *Render {
	t := st
	if m.AnimTimebase {
		t = at
	}

	delay := m.Delay
	if delay == 0 && !m.Repeat {
		delay = m.Period
	}

	switch {
	case delay > 0 && t >= delay:
		t = delay
		if m.Repeat {
			t = math.Mod(t, m.Period)
		}
	case m.Repeat:
		t = math.Mod(t, m.Period)
		rc.Redraw(m, 0)
	default:
		if t > m.Period {
			t = m.Period
		} else {
			rc.Redraw(m, 0)
		}
	}

	t /= m.Period

	if m.Bounce {
		t *= 2
		if t > 1 {
			t = 2 - t
		}
	}

	m.cur = m.fn(t)
	m.placed = true

	child := m.Child()
	if child == nil {
		panic("rowan: motion has no child")
	}
	cr := rc.Render(child, width, height, st, at)
	cw, ch := cr.Size()

	rv := NewRender(cw, ch)
	rv.Blit(cr, Point{})
	m.setLayout([]Point{{}}, []Size{{W: cw, H: ch}})
	return rv
}

// Progress returns the normalized progress for an elapsed time, applying
// the same clamp, wrap, and bounce rules as Render.
func (m *Motion) Progress(elapsed float64) float64 {
	t := elapsed

	delay := m.Delay
	if delay == 0 && !m.Repeat {
		delay = m.Period
	}

	switch {
	case delay > 0 && t >= delay:
		t = delay
		if m.Repeat {
			t = math.Mod(t, m.Period)
		}
	case m.Repeat:
		t = math.Mod(t, m.Period)
	default:
		if t > m.Period {
			t = m.Period
		}
	}

	t /= m.Period
	if m.Bounce {
		t *= 2
		if t > 1 {
			t = 2 - t
		}
	}
	return t
}

// Placement returns the last sampled motion placement, falling back to the
// anchors from the motion's own style when the function supplied none.
func (m *Motion) Placement() Placement {
	if !m.placed {
		return m.Container.Placement()
	}
	p := m.cur
	if !p.XAnchor.IsSet() {
		p.XAnchor = m.Style.XAnchor
	}
	if !p.YAnchor.IsSet() {
		p.YAnchor = m.Style.YAnchor
	}
	return p
}

// lerpUnit interpolates between two units of the same kind.
func lerpUnit(a, b Unit, t float64) Unit {
	v := (1-t)*a.v + t*b.v
	return Unit{v: v, frac: a.frac, set: true}
}

// checkEndpoints validates an interpolation endpoint pair: both ends must
// agree on which components are set and on pixel-versus-fraction kinds.
func checkEndpoints(start, end Placement) {
	pairs := [4][2]Unit{
		{start.XPos, end.XPos},
		{start.YPos, end.YPos},
		{start.XAnchor, end.XAnchor},
		{start.YAnchor, end.YAnchor},
	}
	for _, p := range pairs {
		if p[0].set != p[1].set {
			panic("rowan: interpolation endpoints must set the same components")
		}
		if p[0].set && p[0].frac != p[1].frac {
			panic("rowan: interpolation endpoints mix pixel and fraction units")
		}
	}
	if !start.XPos.set || !start.YPos.set {
		panic("rowan: interpolation endpoints require a position")
	}
}

// Interpolate returns a MotionFunc that linearly interpolates between two
// placements.
func Interpolate(start, end Placement) MotionFunc {
	checkEndpoints(start, end)
	return func(t float64) Placement {
		p := Placement{
			XPos: lerpUnit(start.XPos, end.XPos, t),
			YPos: lerpUnit(start.YPos, end.YPos, t),
		}
		if start.XAnchor.set {
			p.XAnchor = lerpUnit(start.XAnchor, end.XAnchor, t)
		}
		if start.YAnchor.set {
			p.YAnchor = lerpUnit(start.YAnchor, end.YAnchor, t)
		}
		return p
	}
}

// InterpolateEased is Interpolate with the progress value shaped by a
// gween easing function before interpolation.
func InterpolateEased(start, end Placement, fn ease.TweenFunc) MotionFunc {
	lerp := Interpolate(start, end)
	return func(t float64) Placement {
		return lerp(float64(fn(float32(t), 0, 1, 1)))
	}
}

// Pan moves the view over a child, usually an image larger than the
// screen, by interpolating which point of the child sits at the area's
// upper-left corner.
func Pan(start, end Point, period float64, child Displayable) *Motion {
	fn := Interpolate(
		Placement{XPos: Px(-start.X), YPos: Px(-start.Y)},
		Placement{XPos: Px(-end.X), YPos: Px(-end.Y)},
	)
	return NewMotion(fn, period, child)
}

// Move interpolates a child's placement between two endpoints over the
// given period.
func Move(start, end Placement, period float64, child Displayable) *Motion {
	return NewMotion(Interpolate(start, end), period, child)
}

// MotionTransition adapts a motion for use as a transition: the motion is
// applied to the new visual for one period.
func MotionTransition(fn MotionFunc, period float64) Transition {
	return func(old, new Displayable) Displayable {
		return NewMotion(fn, period, new)
	}
}

// Zoom crops an interpolated rectangle out of its child's raster and
// scales it, without smoothing, to a fixed output size. The crop rectangle
// moves linearly from Start to End over Duration seconds of shown time.
//
// Once the zoom completes and an AfterChild is set, rendering switches to
// the AfterChild permanently; the switch is one-way and is not reversed by
// later time values.
type Zoom struct {
	Base
	OutW, OutH int
	Start, End Rect
	Duration   float64

	// AfterChild, when set, replaces the zoom output once it completes.
	// Use it to snap to a sharp displayable after the scaled animation.
	AfterChild Displayable

	child Displayable
}

// NewZoom creates a zoom of the child. size is the fixed output extent.
func NewZoom(size Size, start, end Rect, duration float64, child Displayable) *Zoom {
	if child == nil {
		panic("rowan: zoom requires a child")
	}
	return &Zoom{OutW: size.W, OutH: size.H, Start: start, End: end, Duration: duration, child: child}
}

// Render produces the scaled crop for the current time.
func (z *Zoom) Render(rc *RenderContext, width, height int, st, at float64) *Render {
	done := 1.0
	if z.Duration > 0 {
		done = math.Min(st/z.Duration, 1.0)
	}

	if z.AfterChild != nil && done == 1.0 {
		cr := rc.Render(z.AfterChild, width, height, st, at)
		cw, ch := cr.Size()
		rv := NewRender(cw, ch)
		rv.Blit(cr, Point{})
		return rv
	}

	rend := rc.Render(z.child, width, height, st, at)
	surf := rend.Flatten()

	rect := Rect{
		X: int((1-done)*float64(z.Start.X) + done*float64(z.End.X)),
		Y: int((1-done)*float64(z.Start.Y) + done*float64(z.End.Y)),
		W: int((1-done)*float64(z.Start.W) + done*float64(z.End.W)),
		H: int((1-done)*float64(z.Start.H) + done*float64(z.End.H)),
	}

	sw, sh := surf.Size()
	if rect.X < 0 || rect.Y < 0 || rect.W < 0 || rect.H < 0 ||
		rect.X+rect.W > sw || rect.Y+rect.H > sh {
		panic("rowan: zoom rectangle outside the child raster")
	}

	scaled := surf.SubSurface(rect).ScaleTo(z.OutW, z.OutH)

	rv := NewRender(z.OutW, z.OutH)
	rv.BlitSurface(scaled, Point{})
	rv.DependsOn(rend)

	if done < 1.0 {
		rc.Redraw(z, 0)
	}
	return rv
}

// Predict walks the child and the after-child.
func (z *Zoom) Predict(fn func(Surface)) {
	z.child.Predict(fn)
	if z.AfterChild != nil {
		z.AfterChild.Predict(fn)
	}
}
