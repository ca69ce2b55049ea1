// Package driver runs a rowan displayable tree under [Ebitengine]. It owns
// the window, the wall clocks, the input pump, and the redraw schedule: the
// tree is re-rendered only when a node's redraw request comes due or an
// input event arrives, never on a fixed tick.
//
// [Ebitengine]: https://ebitengine.org
package driver

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/hollyoak/rowan"
)

// Loop drives a displayable tree. It implements ebiten.Game.
type Loop struct {
	root *rowan.Fixed
	w, h int
	ctx  *rowan.RenderContext

	// OnFrame, when set, is called once per tick with the elapsed time
	// since the previous tick. Use it to drive imperative animation such
	// as gween tweens.
	OnFrame func(dt float64)

	epoch    time.Time
	lastTick float64

	sched scheduler

	frame   *rowan.ImageSurface
	surfW   int
	surfH   int
	started bool

	interactStart float64

	prevMouse [3]bool
	prevX     int
	prevY     int
}

// scheduler tracks when the tree next needs rendering. Pure arithmetic, so
// it is testable without a window.
type scheduler struct {
	needsRender bool
	dueAt       float64
	hasDue      bool
}

// requestAt records a redraw falling due at the given absolute time,
// keeping the earliest outstanding deadline.
func (s *scheduler) requestAt(at float64) {
	if !s.hasDue || at < s.dueAt {
		s.dueAt = at
		s.hasDue = true
	}
}

// invalidate forces a render on the next tick.
func (s *scheduler) invalidate() {
	s.needsRender = true
}

// due reports whether the tree must be rendered at the given time and
// consumes the deadline if so.
func (s *scheduler) due(now float64) bool {
	if s.needsRender {
		s.needsRender = false
		s.hasDue = false
		return true
	}
	if s.hasDue && now >= s.dueAt {
		s.hasDue = false
		return true
	}
	return false
}

// New creates a loop rendering the root at a fixed logical size.
func New(root *rowan.Fixed, width, height int) *Loop {
	l := &Loop{
		root:  root,
		w:     width,
		h:     height,
		ctx:   rowan.NewRenderContext(),
		epoch: time.Now(),
	}
	l.sched.invalidate()
	return l
}

// Context returns the loop's render context, for predict walks and
// liveness inspection.
func (l *Loop) Context() *rowan.RenderContext {
	return l.ctx
}

// ResetInteraction restarts the shown clock, as happens when a new
// interaction begins. The animation clock is unaffected.
func (l *Loop) ResetInteraction() {
	l.interactStart = l.now()
	l.sched.invalidate()
}

func (l *Loop) now() float64 {
	return time.Since(l.epoch).Seconds()
}

// Update processes input, and re-renders the tree when a redraw is due.
func (l *Loop) Update() error {
	now := l.now()
	if l.OnFrame != nil {
		l.OnFrame(now - l.lastTick)
	}
	l.lastTick = now

	l.pumpInput(now)

	if !l.started || l.sched.due(now) {
		l.started = true
		l.renderFrame(now)
	}
	return nil
}

func (l *Loop) renderFrame(now float64) {
	l.ctx.BeginFrame(now, l.interactStart)
	st := now - l.interactStart
	r := l.ctx.Render(l.root, l.w, l.h, st, now)
	l.frame = r.Flatten().(*rowan.ImageSurface)
	l.surfW, l.surfH = r.Size()

	if delay, ok := l.ctx.NextRedraw(); ok {
		l.sched.requestAt(now + delay)
	}
}

// pumpInput converts ebiten input state changes into rowan events and
// dispatches them through the root. Any dispatched event invalidates the
// current frame.
func (l *Loop) pumpInput(now float64) {
	x, y := ebiten.CursorPosition()

	buttons := [3]ebiten.MouseButton{
		ebiten.MouseButtonLeft,
		ebiten.MouseButtonRight,
		ebiten.MouseButtonMiddle,
	}
	for i, btn := range buttons {
		pressed := ebiten.IsMouseButtonPressed(btn)
		if pressed != l.prevMouse[i] {
			typ := rowan.EventMouseUp
			if pressed {
				typ = rowan.EventMouseDown
			}
			l.dispatch(rowan.Event{Type: typ, Button: rowan.MouseButton(i)}, x, y, now)
			l.prevMouse[i] = pressed
		}
	}

	if x != l.prevX || y != l.prevY {
		l.dispatch(rowan.Event{Type: rowan.EventMouseMove}, x, y, now)
		l.prevX, l.prevY = x, y
	}
}

func (l *Loop) dispatch(ev rowan.Event, x, y int, now float64) {
	l.root.Event(ev, x, y, now)
	l.sched.invalidate()
}

// Draw presents the most recent flattened frame. Surfaces store straight
// alpha; the screen wants premultiplied, so conversion happens here, once
// per presented frame.
func (l *Loop) Draw(screen *ebiten.Image) {
	if l.frame == nil {
		return
	}
	pix := l.frame.PremultipliedPix()
	if l.surfW == l.w && l.surfH == l.h {
		screen.WritePixels(pix)
		return
	}
	img := &image.RGBA{Pix: pix, Stride: l.surfW * 4, Rect: image.Rect(0, 0, l.surfW, l.surfH)}
	screen.DrawImage(ebiten.NewImageFromImage(img), nil)
}

// Layout reports the fixed logical size.
func (l *Loop) Layout(outsideWidth, outsideHeight int) (int, int) {
	return l.w, l.h
}

// Run opens a window and drives the loop until the window closes.
func (l *Loop) Run(title string) error {
	ebiten.SetWindowSize(l.w, l.h)
	ebiten.SetWindowTitle(title)
	return ebiten.RunGame(l)
}
