package rowan

// Image is a leaf displayable that shows a pre-decoded surface. Asset
// loading and decoding happen outside the compositor; an Image only holds
// the result.
type Image struct {
	Base
	surface Surface
}

// NewImage creates an image displayable for the given surface.
func NewImage(s Surface) *Image {
	if s == nil {
		panic("rowan: image requires a surface")
	}
	return &Image{surface: s}
}

// Surface returns the wrapped surface.
func (im *Image) Surface() Surface {
	return im.surface
}

// Render emits the surface at its natural size.
func (im *Image) Render(rc *RenderContext, width, height int, st, at float64) *Render {
	w, h := im.surface.Size()
	rv := NewRender(w, h)
	rv.BlitSurface(im.surface, Point{})
	return rv
}

// Predict reports the wrapped surface.
func (im *Image) Predict(fn func(Surface)) {
	fn(im.surface)
}

// Crop returns an image displayable showing a region of a surface. The
// region shares pixels with the source.
func Crop(s Surface, r Rect) *Image {
	return NewImage(s.SubSurface(r))
}

// Solid is a leaf displayable that fills the entire offered area with one
// color. It renders at exactly the requested size, which makes it suitable
// as a Window background.
type Solid struct {
	Base
	Color Color
}

// NewSolid creates a solid color displayable.
func NewSolid(c Color) *Solid {
	return &Solid{Color: c}
}

// Render fills the offered area.
func (s *Solid) Render(rc *RenderContext, width, height int, st, at float64) *Render {
	surf := NewSurface(width, height)
	surf.Fill(s.Color)
	rv := NewRender(width, height)
	rv.BlitSurface(surf, Point{})
	return rv
}
