package rowan

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Surface is the raster primitive consumed by the compositor. It is an
// opaque 2D pixel buffer supporting the operations the display core needs:
// blitting, cropping, nearest-neighbor scaling, and per-channel remapping.
//
// Surfaces referenced by a live [Render] must not be mutated; operations
// that transform pixels return new surfaces.
type Surface interface {
	// Size returns the surface extent in pixels.
	Size() (int, int)

	// Blit draws src onto this surface at the given offset using
	// source-over compositing. It panics if the alpha presence of the two
	// surfaces differs.
	Blit(src Surface, at Point)

	// SubSurface returns a surface sharing pixels with the given region.
	SubSurface(r Rect) Surface

	// ScaleTo returns a new surface of the given size, scaled with
	// nearest-neighbor sampling. No smoothing is performed.
	ScaleTo(w, h int) Surface

	// MapChannels returns a new surface with each channel passed through a
	// 256-entry lookup table.
	MapChannels(r, g, b, a *[256]uint8) Surface

	// HasAlpha reports whether the surface carries an alpha channel.
	HasAlpha() bool

	// ConvertAlpha returns a copy of the surface that carries alpha.
	ConvertAlpha() Surface

	// Fill sets every pixel to the given color.
	Fill(c Color)
}

// ImageSurface is the software Surface implementation, backed by an
// *image.RGBA pixel buffer.
type ImageSurface struct {
	img   *image.RGBA
	alpha bool
}

// NewSurface creates a transparent surface with an alpha channel.
func NewSurface(w, h int) *ImageSurface {
	return &ImageSurface{img: image.NewRGBA(image.Rect(0, 0, w, h)), alpha: true}
}

// NewOpaqueSurface creates a black surface without an alpha channel. Its
// alpha bytes are stored but ignored for compositing compatibility checks.
func NewOpaqueSurface(w, h int) *ImageSurface {
	s := &ImageSurface{img: image.NewRGBA(image.Rect(0, 0, w, h))}
	s.Fill(Color{0, 0, 0, 1})
	return s
}

// SurfaceFromImage copies an image into a new alpha surface.
func SurfaceFromImage(src image.Image) *ImageSurface {
	b := src.Bounds()
	s := NewSurface(b.Dx(), b.Dy())
	draw.Draw(s.img, s.img.Bounds(), src, b.Min, draw.Src)
	return s
}

// Size returns the surface extent in pixels.
func (s *ImageSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// RGBA exposes the backing pixel buffer for presentation and tests.
func (s *ImageSurface) RGBA() *image.RGBA {
	return s.img
}

// PremultipliedPix returns a copy of the pixel data with the color channels
// premultiplied by alpha. Surfaces store straight alpha; GPU presentation
// expects premultiplied.
func (s *ImageSurface) PremultipliedPix() []uint8 {
	b := s.img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]uint8, w*h*4)

	o := 0
	for y := 0; y < h; y++ {
		so := s.img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			a := uint32(s.img.Pix[so+3])
			switch a {
			case 255:
				copy(out[o:o+4], s.img.Pix[so:so+4])
			case 0:
				// leave zeroed
			default:
				out[o+0] = uint8((uint32(s.img.Pix[so+0])*a + 127) / 255)
				out[o+1] = uint8((uint32(s.img.Pix[so+1])*a + 127) / 255)
				out[o+2] = uint8((uint32(s.img.Pix[so+2])*a + 127) / 255)
				out[o+3] = uint8(a)
			}
			so += 4
			o += 4
		}
	}
	return out
}

// Blit draws src over this surface at the given offset.
func (s *ImageSurface) Blit(src Surface, at Point) {
	if src.HasAlpha() != s.alpha {
		panic("rowan: surface alphas do not match")
	}
	is, ok := src.(*ImageSurface)
	if !ok {
		panic("rowan: cannot blit a foreign surface implementation")
	}
	blitOver(s.img, is.img, at.X, at.Y)
}

// blitOver composites src over dst at (dx, dy), clipping to the destination
// bounds. Pixels are stored with straight alpha, so the source-over blend is
// done by hand; the draw package's Over would treat the buffers as
// premultiplied and never dim translucent color.
func blitOver(dst, src *image.RGBA, dx, dy int) {
	sb := src.Bounds()
	db := dst.Bounds()

	w, h := sb.Dx(), sb.Dy()
	sx, sy := 0, 0
	if dx < 0 {
		sx = -dx
		w += dx
		dx = 0
	}
	if dy < 0 {
		sy = -dy
		h += dy
		dy = 0
	}
	w = minInt(w, db.Dx()-dx)
	h = minInt(h, db.Dy()-dy)
	if w <= 0 || h <= 0 {
		return
	}

	for y := 0; y < h; y++ {
		so := src.PixOffset(sb.Min.X+sx, sb.Min.Y+sy+y)
		do := dst.PixOffset(db.Min.X+dx, db.Min.Y+dy+y)
		for x := 0; x < w; x++ {
			sa := uint32(src.Pix[so+3])
			switch sa {
			case 255:
				copy(dst.Pix[do:do+4], src.Pix[so:so+4])
			case 0:
				// fully transparent source pixel
			default:
				da := uint32(dst.Pix[do+3])
				for i := 0; i < 3; i++ {
					sc := uint32(src.Pix[so+i])
					dc := uint32(dst.Pix[do+i])
					dst.Pix[do+i] = uint8((sc*sa + dc*(255-sa) + 127) / 255)
				}
				dst.Pix[do+3] = uint8(sa + (da*(255-sa)+127)/255)
			}
			so += 4
			do += 4
		}
	}
}

// SubSurface returns a view sharing pixels with the given region.
func (s *ImageSurface) SubSurface(r Rect) Surface {
	min := s.img.Bounds().Min
	sub := s.img.SubImage(image.Rect(min.X+r.X, min.Y+r.Y, min.X+r.X+r.W, min.Y+r.Y+r.H)).(*image.RGBA)
	return &ImageSurface{img: sub, alpha: s.alpha}
}

// ScaleTo returns the surface scaled to (w, h) with nearest-neighbor
// sampling.
func (s *ImageSurface) ScaleTo(w, h int) Surface {
	dst := &ImageSurface{img: image.NewRGBA(image.Rect(0, 0, w, h)), alpha: s.alpha}
	xdraw.NearestNeighbor.Scale(dst.img, dst.img.Bounds(), s.img, s.img.Bounds(), xdraw.Src, nil)
	return dst
}

// MapChannels returns a copy of the surface with every channel byte passed
// through the corresponding lookup table.
func (s *ImageSurface) MapChannels(r, g, b, a *[256]uint8) Surface {
	src := s.img
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		so := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		do := dst.PixOffset(0, y)
		for x := 0; x < bounds.Dx(); x++ {
			dst.Pix[do+0] = r[src.Pix[so+0]]
			dst.Pix[do+1] = g[src.Pix[so+1]]
			dst.Pix[do+2] = b[src.Pix[so+2]]
			dst.Pix[do+3] = a[src.Pix[so+3]]
			so += 4
			do += 4
		}
	}
	return &ImageSurface{img: dst, alpha: s.alpha}
}

// HasAlpha reports whether the surface carries an alpha channel.
func (s *ImageSurface) HasAlpha() bool {
	return s.alpha
}

// ConvertAlpha returns a copy of the surface that carries alpha.
func (s *ImageSurface) ConvertAlpha() Surface {
	b := s.img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), s.img, b.Min, draw.Src)
	return &ImageSurface{img: dst, alpha: true}
}

// Fill sets every pixel to the given color.
func (s *ImageSurface) Fill(c Color) {
	rgba := color.RGBA{
		R: uint8(clamp(c.R, 0, 1) * 255),
		G: uint8(clamp(c.G, 0, 1) * 255),
		B: uint8(clamp(c.B, 0, 1) * 255),
		A: uint8(clamp(c.A, 0, 1) * 255),
	}
	draw.Draw(s.img, s.img.Bounds(), &image.Uniform{rgba}, image.Point{}, draw.Src)
}

// identityLUT maps every channel byte to itself.
var identityLUT [256]uint8

func init() {
	for i := range identityLUT {
		identityLUT[i] = uint8(i)
	}
}

// IdentityLUT returns the identity channel lookup table.
func IdentityLUT() *[256]uint8 {
	return &identityLUT
}

// Ramp returns a lookup table that maps the 0..255 input range linearly
// onto [start, end].
func Ramp(start, end int) *[256]uint8 {
	var lut [256]uint8
	for i := range lut {
		v := start + (end-start)*i/255
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		lut[i] = uint8(v)
	}
	return &lut
}
