/*
Package examine slices a source image into square tile sized cels.

Only complete cels are produced: an image whose dimensions are not a
multiple of the cel size loses its residual right and bottom strips.
*/
package examine

import (
	"context"
	"image"
	"image/draw"

	log "github.com/sirupsen/logrus"
)

// Cel is one tile sized region of a source image.
type Cel struct {
	Image   *image.NRGBA    // view into the source, shares its pixels
	Origin  image.Rectangle // pixel bounds within the source
	CharPos image.Point     // column and row in tile units
	Nth     int             // row-major sequence number
}

// Normalize returns src as an *image.NRGBA, converting only when needed.
func Normalize(src image.Image) *image.NRGBA {
	if m, ok := src.(*image.NRGBA); ok {
		return m
	}
	b := src.Bounds()
	m := image.NewNRGBA(b)
	draw.Draw(m, b, src, b.Min, draw.Src)
	return m
}

// Clone copies the pixels of m into a new image whose origin is (0, 0).
func Clone(m *image.NRGBA) *image.NRGBA {
	b := m.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		i := m.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+b.Dx()*4], m.Pix[i:i+b.Dx()*4])
	}
	return out
}

// Dimensions returns how many complete cels of the given size fit in b, and
// the size of the residual strips that are left over.
func Dimensions(b image.Rectangle, size int) (cols, rows int, residual image.Point) {
	if size <= 0 {
		return 0, 0, image.Point{}
	}
	cols, rows = b.Dx()/size, b.Dy()/size
	residual = image.Point{b.Dx() % size, b.Dy() % size}
	return
}

func cel(src *image.NRGBA, size, cx, cy, cols int) *Cel {
	b := src.Bounds()
	x := b.Min.X + cx*size
	y := b.Min.Y + cy*size
	origin := image.Rect(x, y, x+size, y+size)
	return &Cel{
		Image:   src.SubImage(origin).(*image.NRGBA),
		Origin:  origin,
		CharPos: image.Point{cx, cy},
		Nth:     cy*cols + cx,
	}
}

// Slice returns every complete cel of src in row-major order.
func Slice(src *image.NRGBA, size int) []*Cel {
	cols, rows, _ := Dimensions(src.Bounds(), size)
	out := make([]*Cel, 0, cols*rows)
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			out = append(out, cel(src, size, cx, cy, cols))
		}
	}
	return out
}

// ImageToCels streams the complete cels of src in row-major order. The
// channel is closed after the last cel or once ctx is done.
func ImageToCels(ctx context.Context, src *image.NRGBA, size int) <-chan *Cel {
	cols, rows, _ := Dimensions(src.Bounds(), size)
	out := make(chan *Cel, 1)
	go func() {
		defer close(out)
		for cy := 0; cy < rows; cy++ {
			for cx := 0; cx < cols; cx++ {
				select {
				case out <- cel(src, size, cx, cy, cols):
				case <-ctx.Done():
					log.Debug("ImageToCels: cancelled")
					return
				}
			}
		}
		log.Debug("ImageToCels: Closing channel")
	}()
	return out
}
