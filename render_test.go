package rowan

import "testing"

// countingBox is a fixed-size leaf that counts render calls.
type countingBox struct {
	Base
	w, h     int
	rendered int
}

func (b *countingBox) Render(rc *RenderContext, width, height int, st, at float64) *Render {
	b.rendered++
	return NewRender(b.w, b.h)
}

func TestRenderMemoizedWithinFrame(t *testing.T) {
	ctx := NewRenderContext()
	box := &countingBox{w: 10, h: 10}

	ctx.BeginFrame(0, 0)
	r1 := ctx.Render(box, 100, 100, 0, 0)
	r2 := ctx.Render(box, 100, 100, 0, 0)

	if r1 != r2 {
		t.Error("same-frame render with same area should be memoized")
	}
	if box.rendered != 1 {
		t.Errorf("rendered %d times, want 1", box.rendered)
	}

	// A different probe area is a distinct render.
	ctx.Render(box, 50, 50, 0, 0)
	if box.rendered != 2 {
		t.Errorf("rendered %d times after size probe, want 2", box.rendered)
	}
}

func TestRenderSupersedeMarksDead(t *testing.T) {
	ctx := NewRenderContext()
	box := &countingBox{w: 10, h: 10}

	ctx.BeginFrame(0, 0)
	r1 := ctx.Render(box, 100, 100, 0, 0)
	if !r1.Live() {
		t.Fatal("fresh render should be live")
	}

	ctx.BeginFrame(1, 0)
	r2 := ctx.Render(box, 100, 100, 1, 1)

	if r1.Live() {
		t.Error("superseded render should be dead")
	}
	if !r2.Live() {
		t.Error("current render should be live")
	}
	if ctx.LiveRenders() != 1 {
		t.Errorf("LiveRenders = %d, want 1", ctx.LiveRenders())
	}
}

func TestTeardownReleasesAllRenders(t *testing.T) {
	ctx := NewRenderContext()
	a := &countingBox{w: 1, h: 1}
	b := &countingBox{w: 2, h: 2}

	ctx.BeginFrame(0, 0)
	ctx.Render(a, 10, 10, 0, 0)
	ctx.Render(b, 10, 10, 0, 0)
	if ctx.LiveRenders() != 2 {
		t.Fatalf("LiveRenders = %d, want 2", ctx.LiveRenders())
	}

	ctx.Teardown()
	if ctx.LiveRenders() != 0 {
		t.Errorf("LiveRenders after teardown = %d, want 0", ctx.LiveRenders())
	}
}

func TestRedrawCoalescesToMinimum(t *testing.T) {
	ctx := NewRenderContext()
	a := &countingBox{w: 1, h: 1}
	b := &countingBox{w: 1, h: 1}

	ctx.BeginFrame(0, 0)
	ctx.Redraw(a, 2.5)
	ctx.Redraw(b, 0.25)
	ctx.Redraw(a, 1.0)

	delay, ok := ctx.NextRedraw()
	if !ok {
		t.Fatal("expected an outstanding redraw")
	}
	if delay != 0.25 {
		t.Errorf("NextRedraw = %v, want 0.25", delay)
	}

	if d, _ := ctx.RedrawRequested(a); d != 1.0 {
		t.Errorf("per-node delay = %v, want 1.0 (min of 2.5, 1.0)", d)
	}
}

func TestRedrawClearedByBeginFrame(t *testing.T) {
	ctx := NewRenderContext()
	a := &countingBox{w: 1, h: 1}

	ctx.BeginFrame(0, 0)
	ctx.Redraw(a, 0.5)

	ctx.BeginFrame(1, 0)
	if _, ok := ctx.NextRedraw(); ok {
		t.Error("redraw requests should not survive BeginFrame")
	}
}

func TestRedrawNegativeDelayClamped(t *testing.T) {
	ctx := NewRenderContext()
	a := &countingBox{w: 1, h: 1}

	ctx.BeginFrame(0, 0)
	ctx.Redraw(a, -3)

	delay, ok := ctx.NextRedraw()
	if !ok || delay != 0 {
		t.Errorf("NextRedraw = %v, %v; want 0, true", delay, ok)
	}
}

func TestRenderFlattenCompositesInOrder(t *testing.T) {
	bottom := NewSurface(2, 2)
	bottom.Fill(Color{1, 0, 0, 1})
	top := NewSurface(2, 2)
	top.Fill(Color{0, 0, 1, 1})

	rv := NewRender(2, 2)
	rv.BlitSurface(bottom, Point{})
	rv.BlitSurface(top, Point{})

	flat := rv.Flatten().(*ImageSurface)
	if px := flat.RGBA().RGBAAt(0, 0); px.B != 255 || px.R != 0 {
		t.Errorf("pixel = %v, want blue on top", px)
	}

	if rv.Flatten() != flat {
		t.Error("Flatten should cache its result")
	}
}

func TestRenderFlattenNested(t *testing.T) {
	inner := NewRender(2, 2)
	s := NewSurface(2, 2)
	s.Fill(Color{0, 1, 0, 1})
	inner.BlitSurface(s, Point{})

	outer := NewRender(4, 4)
	outer.Blit(inner, Point{X: 2, Y: 2})

	flat := outer.Flatten().(*ImageSurface)
	if px := flat.RGBA().RGBAAt(3, 3); px.G != 255 {
		t.Errorf("nested pixel = %v, want green", px)
	}
	if px := flat.RGBA().RGBAAt(0, 0); px.A != 0 {
		t.Errorf("outside pixel = %v, want transparent", px)
	}
}

func TestRenderNilBlitPanics(t *testing.T) {
	rv := NewRender(1, 1)
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil blit, got none")
		}
	}()
	rv.Blit(nil, Point{})
}
