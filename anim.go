package rowan

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// finalFrameDelay holds the last Animation frame effectively forever while
// keeping the cycle arithmetic well-defined. One year, give or take.
const finalFrameDelay = 365.25 * 86400.0

// maxCatchUpSteps caps how many overdue state-machine edges a single render
// call may consume. See SMAnimation.
const maxCatchUpSteps = 1024

// State is a named state in an SMAnimation: a recipe producing the
// displayable shown while the machine is in (entering) that state.
//
// A nil image marks a placeholder state; it is filled in when the
// animation is parameterized with a child via [SMAnimation.Transition].
type State struct {
	name       string
	image      Displayable
	transforms []func(Displayable) Displayable
}

// NewState creates a state. The transforms are applied to the image, in
// order, each time the state's visual is composed.
func NewState(name string, image Displayable, transforms ...func(Displayable) Displayable) *State {
	if name == "" {
		panic("rowan: state requires a name")
	}
	return &State{name: name, image: image, transforms: transforms}
}

// Name returns the state's name.
func (s *State) Name() string {
	return s.name
}

// Image composes the state's visual by applying the transforms to the
// image.
func (s *State) Image() Displayable {
	rv := s.image
	for _, fn := range s.transforms {
		rv = fn(rv)
	}
	return rv
}

// motionCopy clones the state, substituting the given child for a
// placeholder image.
func (s *State) motionCopy(child Displayable) *State {
	if s.image != nil {
		child = s.image
	}
	return NewState(s.name, child, s.transforms...)
}

func (s *State) addTo(sma *SMAnimation) {
	sma.states[s.name] = s
}

// Edge is a weighted directed transition between two SMAnimation states.
// The machine stays on an edge for Delay seconds. Prob is an integer
// weight: among a state's outgoing edges, each is selected with
// probability proportional to its weight.
type Edge struct {
	old   string
	new   string
	delay float64

	// Trans composes the old and new state visuals while the edge is
	// active. When nil the machine shows one state's image directly,
	// chosen by the animation's ShowOld flag.
	Trans Transition

	// Prob is the edge's selection weight. Defaults to 1.
	Prob int
}

// NewEdge creates an edge from the old state to the new state, traversed
// over delay seconds. Non-positive delays are rejected: a zero-delay edge
// reachable in a cycle would let the catch-up loop spin forever.
func NewEdge(old string, delay float64, new string) *Edge {
	if delay <= 0 {
		panic("rowan: edge delay must be positive")
	}
	return &Edge{old: old, new: new, delay: delay, Prob: 1}
}

// Delay returns the edge's duration in seconds.
func (e *Edge) Delay() float64 {
	return e.delay
}

func (e *Edge) addTo(sma *SMAnimation) {
	if e.Prob <= 0 {
		panic("rowan: edge weight must be positive")
	}
	sma.edges[e.old] = append(sma.edges[e.old], e)
	prev := 0
	if n := len(sma.cum[e.old]); n > 0 {
		prev = sma.cum[e.old][n-1]
	}
	sma.cum[e.old] = append(sma.cum[e.old], prev+e.Prob)
}

// SMItem is a State or Edge passed to NewSMAnimation.
type SMItem interface {
	addTo(*SMAnimation)
}

// SMAnimation is a state-machine animation: a random walk over a weighted
// directed multigraph of states. Each state shows an image; each edge
// determines how long the image is shown and the transition it is shown
// with.
//
// The walk's only mutable fields are the current state, the current edge,
// the time the edge started on the chosen timebase, and a single-slot
// cache of the edge's composed visual.
type SMAnimation struct {
	Base
	initial string
	states  map[string]*State
	edges   map[string][]*Edge
	cum     map[string][]int

	// ShowOld shows the departing state's image during an edge without a
	// transition, instead of the arriving state's image.
	ShowOld bool

	// AnimTimebase selects the animation clock (the default) over the
	// shown clock.
	AnimTimebase bool

	// Delay is carried onto clones made by Transition, for use when the
	// machine decorates another transition.
	Delay float64

	rng *rand.Rand

	edgeStart    float64
	hasEdgeStart bool
	edge         *Edge
	state        string
	edgeCache    Displayable
}

// NewSMAnimation builds a state machine from states and edges, starting in
// the named initial state.
func NewSMAnimation(initial string, items ...SMItem) *SMAnimation {
	sma := &SMAnimation{
		initial:      initial,
		states:       make(map[string]*State),
		edges:        make(map[string][]*Edge),
		cum:          make(map[string][]int),
		AnimTimebase: true,
	}
	for _, item := range items {
		item.addTo(sma)
	}
	if _, ok := sma.states[initial]; !ok {
		panic(fmt.Sprintf("rowan: initial state %q is not defined", initial))
	}
	for _, edges := range sma.edges {
		for _, e := range edges {
			if _, ok := sma.states[e.old]; !ok {
				panic(fmt.Sprintf("rowan: edge references unknown state %q", e.old))
			}
			if _, ok := sma.states[e.new]; !ok {
				panic(fmt.Sprintf("rowan: edge references unknown state %q", e.new))
			}
		}
	}
	return sma
}

// SetRandom replaces the random source used for edge selection. Useful for
// deterministic tests.
func (sma *SMAnimation) SetRandom(r *rand.Rand) {
	sma.rng = r
}

func (sma *SMAnimation) intn(n int) int {
	if sma.rng != nil {
		return sma.rng.Intn(n)
	}
	return rand.Intn(n)
}

// pickEdge selects an outgoing edge of the given state, with probability
// proportional to edge weight: a single draw against the cumulative weight
// table, resolved by binary search. When the state has no outgoing edges
// the machine becomes static.
func (sma *SMAnimation) pickEdge(state string) {
	edges := sma.edges[state]
	if len(edges) == 0 {
		sma.edge = nil
		return
	}
	cum := sma.cum[state]
	n := sma.intn(cum[len(cum)-1])
	i := sort.Search(len(cum), func(i int) bool { return cum[i] > n })
	sma.edge = edges[i]
	sma.state = sma.edge.new
}

// updateCache composes the visual for the current edge: the transition
// applied to the old and new state images, or one of the two images alone.
func (sma *SMAnimation) updateCache() {
	e := sma.edge
	switch {
	case e.Trans != nil:
		sma.edgeCache = e.Trans(sma.states[e.old].Image(), sma.states[e.new].Image())
	case sma.ShowOld:
		sma.edgeCache = sma.states[e.old].Image()
	default:
		sma.edgeCache = sma.states[e.new].Image()
	}
}

// Placement defers to the current visual.
func (sma *SMAnimation) Placement() Placement {
	if sma.edgeCache != nil {
		return sma.edgeCache.Placement()
	}
	if sma.state != "" {
		return sma.states[sma.state].Image().Placement()
	}
	return sma.Base.Placement()
}

// Render advances the walk to the current time and renders the active
// visual.
//
// A time regression (current time earlier than the edge start) means the
// widget was freshly placed on screen; the machine hard-resets to the
// initial state. Overdue edges are consumed in a loop so a large time jump
// is caught up within a single render call, with each step advancing the
// edge start by exactly the edge's delay to preserve phase. The loop is
// capped at maxCatchUpSteps; past the cap the machine resynchronizes to
// the current time.
func (sma *SMAnimation) Render(rc *RenderContext, width, height int, st, at float64) *Render {
	t := st
	if sma.AnimTimebase {
		t = at
	}

	if !sma.hasEdgeStart || t < sma.edgeStart {
		sma.edgeStart = t
		sma.hasEdgeStart = true
		sma.edgeCache = nil
		sma.state = sma.initial
		sma.pickEdge(sma.initial)
	}

	steps := 0
	for sma.edge != nil && t > sma.edgeStart+sma.edge.delay {
		sma.edgeStart += sma.edge.delay
		sma.edgeCache = nil
		sma.pickEdge(sma.edge.new)
		steps++
		if steps >= maxCatchUpSteps {
			sma.edgeStart = t
			break
		}
	}

	var im *Render
	if sma.edge == nil {
		// Permanently static picture.
		im = rc.Render(sma.states[sma.state].Image(), width, height, t-sma.edgeStart, at)
	} else {
		if sma.edgeCache == nil {
			sma.updateCache()
		}
		im = rc.Render(sma.edgeCache, width, height, t-sma.edgeStart, at)
		rc.Redraw(sma, sma.edge.delay-(t-sma.edgeStart))
	}

	iw, ih := im.Size()
	rv := NewRender(iw, ih)
	rv.Blit(im, Point{})
	return rv
}

// Predict walks every state's image resources.
func (sma *SMAnimation) Predict(fn func(Surface)) {
	for _, s := range sma.states {
		if s.image != nil {
			s.Image().Predict(fn)
		}
	}
}

// CurrentState returns the name of the state the walk is currently in,
// and whether the walk has started.
func (sma *SMAnimation) CurrentState() (string, bool) {
	return sma.state, sma.hasEdgeStart
}

// EdgeStart returns the time the current edge started, on the machine's
// timebase.
func (sma *SMAnimation) EdgeStart() float64 {
	return sma.edgeStart
}

// Transition clones the machine for use as a transition primitive: every
// placeholder state (one whose image was left nil) is filled with the
// given child, so the same graph can decorate arbitrary content.
func (sma *SMAnimation) Transition(child Displayable) *SMAnimation {
	items := make([]SMItem, 0, len(sma.states)+len(sma.edges))
	for _, s := range sma.states {
		items = append(items, s.motionCopy(child))
	}
	for _, edges := range sma.edges {
		for _, e := range edges {
			items = append(items, e)
		}
	}
	clone := NewSMAnimation(sma.initial, items...)
	clone.ShowOld = sma.ShowOld
	clone.AnimTimebase = sma.AnimTimebase
	clone.Delay = sma.Delay
	clone.rng = sma.rng
	return clone
}

// Animation shows a strict alternating sequence of images and delays. The
// active frame is selected by elapsed time modulo the total cycle
// duration, found by linear scan with running subtraction. When the
// argument count is odd the final image is held for finalFrameDelay.
type Animation struct {
	Base
	images []Displayable
	delays []float64
	total  float64

	// AnimTimebase selects the animation clock (the default) over the
	// shown clock.
	AnimTimebase bool
}

// NewAnimation builds an animation from alternating Displayable and
// float64 (seconds) arguments: image, delay, image, delay, ... A trailing
// image without a delay is held effectively forever.
func NewAnimation(args ...any) *Animation {
	a := &Animation{AnimTimebase: true}
	for i, arg := range args {
		if i%2 == 0 {
			img, ok := arg.(Displayable)
			if !ok {
				panic("rowan: animation expects a displayable in odd positions")
			}
			a.images = append(a.images, img)
		} else {
			d, ok := arg.(float64)
			if !ok {
				panic("rowan: animation expects a delay in even positions")
			}
			if d <= 0 {
				panic("rowan: animation delays must be positive")
			}
			a.delays = append(a.delays, d)
		}
	}
	if len(a.images) == 0 {
		panic("rowan: animation requires at least one image")
	}
	if len(a.images) > len(a.delays) {
		a.delays = append(a.delays, finalFrameDelay)
	}
	for _, d := range a.delays {
		a.total += d
	}
	return a
}

// Render shows the frame active at the current time and schedules a redraw
// for the frame boundary.
func (a *Animation) Render(rc *RenderContext, width, height int, st, at float64) *Render {
	t := st
	if a.AnimTimebase {
		t = at
	}
	t = math.Mod(t, a.total)

	for i, delay := range a.delays {
		if t < delay {
			rc.Redraw(a, delay-t)

			im := rc.Render(a.images[i], width, height, st, at)
			iw, ih := im.Size()
			rv := NewRender(iw, ih)
			rv.Blit(im, Point{})
			return rv
		}
		t -= delay
	}

	// Floating point can leave t a hair past the last boundary; show the
	// final frame.
	im := rc.Render(a.images[len(a.images)-1], width, height, st, at)
	iw, ih := im.Size()
	rv := NewRender(iw, ih)
	rv.Blit(im, Point{})
	return rv
}

// FrameAt returns the index of the image shown at the given elapsed time.
func (a *Animation) FrameAt(elapsed float64) int {
	t := math.Mod(elapsed, a.total)
	for i, delay := range a.delays {
		if t < delay {
			return i
		}
		t -= delay
	}
	return len(a.images) - 1
}

// Predict walks every frame image.
func (a *Animation) Predict(fn func(Surface)) {
	for _, im := range a.images {
		im.Predict(fn)
	}
}

// Blink varies its child's alpha through a four-phase cycle:
// on → set (ramp to low) → off → rise (ramp to high). All durations are in
// seconds; High and Low are the alpha endpoints. The alpha is applied to
// the child's raster through a per-channel ramp remap.
type Blink struct {
	Base
	child Displayable

	On, Off, Rise, Set float64
	High, Low          float64

	// Offset shifts the cycle so the blink need not start at the start of
	// the on phase.
	Offset float64

	// AnimTimebase selects the animation clock over the shown clock.
	AnimTimebase bool
}

// NewBlink creates a blink of the child with half-second phases, blinking
// between fully opaque and fully transparent.
func NewBlink(child Displayable) *Blink {
	if child == nil {
		panic("rowan: blink requires a child")
	}
	return &Blink{child: child, On: 0.5, Off: 0.5, Rise: 0.5, Set: 0.5, High: 1.0, Low: 0.0}
}

// AlphaAt returns the alpha value and the delay until the next visual
// change for the given elapsed time.
func (b *Blink) AlphaAt(elapsed float64) (alpha, delay float64) {
	cycle := b.On + b.Set + b.Off + b.Rise
	time := math.Mod(b.Offset+elapsed, cycle)
	alpha = b.High

	if 0 <= time && time < b.On {
		delay = b.On - time
		alpha = b.High
	}
	time -= b.On

	if 0 <= time && time < b.Set {
		delay = 0
		frac := time / b.Set
		alpha = b.Low*frac + b.High*(1.0-frac)
	}
	time -= b.Set

	if 0 <= time && time < b.Off {
		delay = b.Off - time
		alpha = b.Low
	}
	time -= b.Off

	if 0 <= time && time < b.Rise {
		delay = 0
		frac := time / b.Rise
		alpha = b.High*frac + b.Low*(1.0-frac)
	}

	return alpha, delay
}

// Render applies the current alpha to the child's flattened raster.
func (b *Blink) Render(rc *RenderContext, width, height int, st, at float64) *Render {
	t := st
	if b.AnimTimebase {
		t = at
	}
	alpha, delay := b.AlphaAt(t)

	rend := rc.Render(b.child, width, height, st, at)
	w, h := rend.Size()
	rv := NewRender(w, h)

	if alpha > 0 {
		surf := rend.Flatten()
		if !surf.HasAlpha() {
			surf = surf.ConvertAlpha()
		}
		amap := Ramp(0, int(alpha*255.0))
		mapped := surf.MapChannels(IdentityLUT(), IdentityLUT(), IdentityLUT(), amap)
		rv.BlitSurface(mapped, Point{})
	}

	rv.DependsOn(rend)
	rc.Redraw(b, delay)
	return rv
}

// Predict walks the child.
func (b *Blink) Predict(fn func(Surface)) {
	b.child.Predict(fn)
}

// Filmstrip slices a grid of frames out of a single surface and builds an
// Animation from them, left to right then top to bottom, with the given
// delay between frames. frames limits how many cells are taken; pass 0 to
// take every cell. With loop false the final frame is held instead of
// wrapping.
func Filmstrip(sheet Surface, frameW, frameH, cols, rows int, delay float64, frames int, loop bool) *Animation {
	if frames <= 0 {
		frames = cols * rows
	}

	args := make([]any, 0, frames*2)
	taken := 0
outer:
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			args = append(args, Displayable(Crop(sheet, Rect{X: c * frameW, Y: r * frameH, W: frameW, H: frameH})))
			args = append(args, delay)
			taken++
			if taken == frames {
				break outer
			}
		}
	}

	if !loop {
		args = args[:len(args)-1]
	}

	return NewAnimation(args...)
}
