package rowan

import (
	"math"
	"math/rand"
	"testing"
)

func square(n int) *Image {
	s := NewSurface(n, n)
	s.Fill(ColorWhite)
	return NewImage(s)
}

func TestNewEdgeRejectsNonPositiveDelay(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for zero delay, got none")
		}
	}()
	NewEdge("a", 0, "b")
}

func TestNewSMAnimationUnknownInitialPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for unknown initial state, got none")
		}
	}()
	NewSMAnimation("missing", NewState("a", square(1)))
}

func TestNewSMAnimationUnknownEdgeStatePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for edge to unknown state, got none")
		}
	}()
	NewSMAnimation("a",
		NewState("a", square(1)),
		NewEdge("a", 1.0, "nowhere"),
	)
}

func TestSMAnimationWeightedSelection(t *testing.T) {
	heavy := NewEdge("a", 1.0, "b")
	heavy.Prob = 3
	light := NewEdge("a", 1.0, "a")

	sma := NewSMAnimation("a",
		NewState("a", square(1)),
		NewState("b", square(1)),
		heavy, light,
		NewEdge("b", 1.0, "a"),
	)
	sma.SetRandom(rand.New(rand.NewSource(1)))

	const draws = 2000
	toB := 0
	for i := 0; i < draws; i++ {
		sma.pickEdge("a")
		if sma.edge.new == "b" {
			toB++
		}
	}

	got := float64(toB) / draws
	if math.Abs(got-0.75) > 0.04 {
		t.Errorf("edge with weight 3 of 4 taken %.3f of the time, want ~0.75", got)
	}
}

func TestSMAnimationEdgeStartAccumulatesDelays(t *testing.T) {
	ctx := NewRenderContext()
	sma := NewSMAnimation("a",
		NewState("a", square(2)),
		NewState("b", square(2)),
		NewEdge("a", 1.0, "b"),
		NewEdge("b", 2.0, "a"),
	)
	sma.SetRandom(rand.New(rand.NewSource(1)))

	ctx.BeginFrame(0, 0)
	ctx.Render(sma, 10, 10, 0, 0)
	if got := sma.EdgeStart(); got != 0 {
		t.Fatalf("initial EdgeStart = %v, want 0", got)
	}

	// 7.5 seconds covers the cycle a-1s-b-2s-a twice, then one more a→b
	// edge, putting the walk half a second into the b→a edge that began at
	// exactly t=7.
	ctx.BeginFrame(7.5, 0)
	ctx.Render(sma, 10, 10, 7.5, 7.5)
	if got := sma.EdgeStart(); got != 7 {
		t.Errorf("EdgeStart = %v, want 7 (sum of consumed delays)", got)
	}
	if state, ok := sma.CurrentState(); !ok || state != "a" {
		t.Errorf("CurrentState = %q, %v; want \"a\", true", state, ok)
	}
	if d, ok := ctx.RedrawRequested(sma); !ok || d != 1.5 {
		t.Errorf("redraw delay = %v, %v; want 1.5, true", d, ok)
	}
}

func TestSMAnimationTimeRegressionResets(t *testing.T) {
	ctx := NewRenderContext()
	sma := NewSMAnimation("a",
		NewState("a", square(2)),
		NewState("b", square(2)),
		NewEdge("a", 1.0, "b"),
		NewEdge("b", 1.0, "a"),
	)
	sma.SetRandom(rand.New(rand.NewSource(7)))

	ctx.BeginFrame(5, 0)
	ctx.Render(sma, 10, 10, 5, 5)
	if got := sma.EdgeStart(); got <= 0 {
		t.Fatalf("EdgeStart after warm-up = %v, want > 0", got)
	}

	ctx.BeginFrame(6, 0)
	ctx.Render(sma, 10, 10, 1, 1)
	if got := sma.EdgeStart(); got != 1 {
		t.Errorf("EdgeStart after regression = %v, want 1 (hard reset)", got)
	}
}

func TestSMAnimationStaticState(t *testing.T) {
	ctx := NewRenderContext()
	sma := NewSMAnimation("only", NewState("only", square(3)))

	ctx.BeginFrame(0, 0)
	r := ctx.Render(sma, 10, 10, 0, 0)
	w, h := r.Size()
	if w != 3 || h != 3 {
		t.Errorf("static size = (%d, %d), want (3, 3)", w, h)
	}
	if _, ok := ctx.RedrawRequested(sma); ok {
		t.Error("a state with no outgoing edges must not request redraws")
	}
	if state, ok := sma.CurrentState(); !ok || state != "only" {
		t.Errorf("CurrentState = %q, %v; want \"only\", true", state, ok)
	}
}

func TestSMAnimationTransitionFillsPlaceholders(t *testing.T) {
	ctx := NewRenderContext()
	sma := NewSMAnimation("a",
		NewState("a", nil),
		NewState("b", square(2)),
		NewEdge("a", 1.0, "b"),
		NewEdge("b", 1.0, "a"),
	)
	sma.ShowOld = true
	sma.SetRandom(rand.New(rand.NewSource(1)))

	clone := sma.Transition(square(5))
	if !clone.ShowOld {
		t.Error("clone should inherit ShowOld")
	}

	// ShowOld makes the first edge display the departing placeholder state,
	// now filled with the 5x5 child.
	ctx.BeginFrame(0, 0)
	r := ctx.Render(clone, 10, 10, 0, 0)
	if w, _ := r.Size(); w != 5 {
		t.Errorf("placeholder render width = %d, want the substituted child's 5", w)
	}
}

func TestSMAnimationEdgeTransition(t *testing.T) {
	ctx := NewRenderContext()
	e := NewEdge("a", 1.0, "b")
	e.Trans = func(departing, arriving Displayable) Displayable { return arriving }

	sma := NewSMAnimation("a",
		NewState("a", square(2)),
		NewState("b", square(4)),
		e,
		NewEdge("b", 1.0, "a"),
	)
	sma.SetRandom(rand.New(rand.NewSource(1)))

	ctx.BeginFrame(0, 0)
	r := ctx.Render(sma, 10, 10, 0, 0)
	if w, _ := r.Size(); w != 4 {
		t.Errorf("edge visual width = %d, want the transition's 4", w)
	}
}

// --- Animation ---

func TestAnimationFrameSelection(t *testing.T) {
	a := NewAnimation(square(1), 1.0, square(2), 2.0)

	cases := []struct {
		t    float64
		want int
	}{
		{0, 0},
		{0.5, 0},
		{1.5, 1},
		{2.9, 1},
		{3.5, 0}, // wrapped
	}
	for _, c := range cases {
		if got := a.FrameAt(c.t); got != c.want {
			t.Errorf("FrameAt(%v) = %d, want %d", c.t, got, c.want)
		}
	}
}

func TestAnimationRenderSchedulesFrameBoundary(t *testing.T) {
	ctx := NewRenderContext()
	a := NewAnimation(square(1), 1.0, square(2), 2.0)
	a.AnimTimebase = false

	ctx.BeginFrame(0, 0)
	r := ctx.Render(a, 10, 10, 0.25, 0)
	if w, _ := r.Size(); w != 1 {
		t.Errorf("frame width = %d, want 1", w)
	}
	if d, ok := ctx.RedrawRequested(a); !ok || d != 0.75 {
		t.Errorf("redraw delay = %v, %v; want 0.75, true", d, ok)
	}
}

func TestAnimationTrailingImageHeld(t *testing.T) {
	a := NewAnimation(square(1), 1.0, square(2))
	if got := a.FrameAt(1e6); got != 1 {
		t.Errorf("FrameAt(1e6) = %d, want the held final frame 1", got)
	}
}

func TestAnimationArgumentValidation(t *testing.T) {
	expectPanic := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("%s: expected panic, got none", name)
			}
		}()
		fn()
	}

	expectPanic("empty", func() { NewAnimation() })
	expectPanic("delay first", func() { NewAnimation(1.0, square(1)) })
	expectPanic("image as delay", func() { NewAnimation(square(1), square(2)) })
	expectPanic("zero delay", func() { NewAnimation(square(1), 0.0, square(2)) })
}

// --- Blink ---

func TestBlinkAlphaPhases(t *testing.T) {
	b := NewBlink(square(1))

	cases := []struct {
		t     float64
		alpha float64
		delay float64
	}{
		{0.25, 1.0, 0.25}, // on
		{0.75, 0.5, 0},    // setting
		{1.25, 0.0, 0.25}, // off
		{1.75, 0.5, 0},    // rising
		{2.25, 1.0, 0.25}, // wrapped back to on
	}
	for _, c := range cases {
		alpha, delay := b.AlphaAt(c.t)
		if math.Abs(alpha-c.alpha) > 1e-9 {
			t.Errorf("AlphaAt(%v) alpha = %v, want %v", c.t, alpha, c.alpha)
		}
		if math.Abs(delay-c.delay) > 1e-9 {
			t.Errorf("AlphaAt(%v) delay = %v, want %v", c.t, delay, c.delay)
		}
	}
}

func TestBlinkOffsetShiftsCycle(t *testing.T) {
	b := NewBlink(square(1))
	b.Offset = 1.0

	alpha, _ := b.AlphaAt(0.25)
	if alpha != 0 {
		t.Errorf("offset alpha = %v, want 0 (off phase)", alpha)
	}
}

func TestBlinkRenderAppliesAlpha(t *testing.T) {
	ctx := NewRenderContext()
	b := NewBlink(square(2))

	// Off phase: nothing is blitted at all.
	ctx.BeginFrame(0, 0)
	r := ctx.Render(b, 10, 10, 1.25, 1.25)
	flat := r.Flatten().(*ImageSurface)
	if px := flat.RGBA().RGBAAt(0, 0); px.A != 0 {
		t.Errorf("off-phase pixel = %v, want fully transparent", px)
	}
	if d, ok := ctx.RedrawRequested(b); !ok || math.Abs(d-0.25) > 1e-9 {
		t.Errorf("redraw delay = %v, %v; want 0.25, true", d, ok)
	}

	// On phase: the child shows through untouched.
	ctx.BeginFrame(1, 0)
	r = ctx.Render(b, 10, 10, 0.25, 0.25)
	flat = r.Flatten().(*ImageSurface)
	if px := flat.RGBA().RGBAAt(0, 0); px.A != 255 || px.R != 255 {
		t.Errorf("on-phase pixel = %v, want opaque white", px)
	}
}

func TestBlinkFadeDimsOverBackdrop(t *testing.T) {
	ctx := NewRenderContext()
	f := NewFixed()
	f.Add(NewSolid(Color{0, 0, 0, 1}))
	f.Add(NewBlink(square(2)))

	// t=0.75 is the middle of the set phase: alpha 0.5. Over an opaque
	// black backdrop the faded white must dim to mid-grey.
	ctx.BeginFrame(0.75, 0)
	r := ctx.Render(f, 2, 2, 0.75, 0.75)
	flat := r.Flatten().(*ImageSurface)

	px := flat.RGBA().RGBAAt(0, 0)
	if px.R < 120 || px.R > 135 {
		t.Errorf("faded pixel R = %d, want ~127 (half-alpha over black)", px.R)
	}
	if px.A != 255 {
		t.Errorf("faded pixel A = %d, want 255", px.A)
	}
}

func TestBlinkCustomLevels(t *testing.T) {
	b := NewBlink(square(1))
	b.High = 0.8
	b.Low = 0.2

	if alpha, _ := b.AlphaAt(0.25); math.Abs(alpha-0.8) > 1e-9 {
		t.Errorf("on alpha = %v, want High 0.8", alpha)
	}
	if alpha, _ := b.AlphaAt(1.25); math.Abs(alpha-0.2) > 1e-9 {
		t.Errorf("off alpha = %v, want Low 0.2", alpha)
	}
}

// --- Filmstrip ---

func TestFilmstripSlicesFrames(t *testing.T) {
	sheet := NewSurface(4, 2)
	sheet.SubSurface(Rect{X: 0, Y: 0, W: 2, H: 2}).Fill(Color{1, 0, 0, 1})
	sheet.SubSurface(Rect{X: 2, Y: 0, W: 2, H: 2}).Fill(Color{0, 0, 1, 1})

	a := Filmstrip(sheet, 2, 2, 2, 1, 0.5, 0, true)

	if got := a.FrameAt(0.25); got != 0 {
		t.Errorf("FrameAt(0.25) = %d, want 0", got)
	}
	if got := a.FrameAt(0.75); got != 1 {
		t.Errorf("FrameAt(0.75) = %d, want 1", got)
	}
	if got := a.FrameAt(1.25); got != 0 {
		t.Errorf("FrameAt(1.25) = %d, want 0 (looped)", got)
	}
}

func TestFilmstripNoLoopHoldsLastFrame(t *testing.T) {
	sheet := NewSurface(4, 2)
	a := Filmstrip(sheet, 2, 2, 2, 1, 0.5, 0, false)

	if got := a.FrameAt(1e6); got != 1 {
		t.Errorf("FrameAt(1e6) = %d, want held final frame 1", got)
	}
}

func TestFilmstripFrameLimit(t *testing.T) {
	ctx := NewRenderContext()
	sheet := NewSurface(6, 2)
	sheet.Fill(ColorWhite)
	a := Filmstrip(sheet, 2, 2, 3, 1, 0.5, 2, true)

	// Two frames of 0.5s each: t=1.25 wraps to 0.25, frame 0.
	if got := a.FrameAt(1.25); got != 0 {
		t.Errorf("FrameAt(1.25) = %d, want 0 from a two-frame strip", got)
	}

	ctx.BeginFrame(0, 0)
	r := ctx.Render(a, 10, 10, 0, 0)
	if w, h := r.Size(); w != 2 || h != 2 {
		t.Errorf("frame size = (%d, %d), want (2, 2)", w, h)
	}
}
