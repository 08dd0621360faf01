/*
Package prepare conditions a source image before it is matched: resizing it
onto a tile grid, trimming partial tiles and reducing its colours so that
compression noise does not defeat exact deduplication.
*/
package prepare

import (
	"fmt"
	"image"
	"image/color"

	nykakin "github.com/Nykakin/quantize"
	"github.com/anthonynsimon/bild/transform"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/nfnt/resize"
	log "github.com/sirupsen/logrus"

	"github.com/submersibletoaster/tilematcher/examine"
)

// Resize scales src with Lanczos3 to exactly cols x rows tiles of tileSize
// pixels.
func Resize(src image.Image, cols, rows, tileSize int) (*image.NRGBA, error) {
	if cols <= 0 || rows <= 0 || tileSize <= 0 {
		return nil, fmt.Errorf("prepare: resize to %dx%d tiles of %dpx", cols, rows, tileSize)
	}
	w, h := cols*tileSize, rows*tileSize
	log.Debugf("prepare: resize %v to %dx%d", src.Bounds().Size(), w, h)
	return examine.Normalize(resize.Resize(uint(w), uint(h), src, resize.Lanczos3)), nil
}

// ParseGrid reads a "COLSxROWS" grid size.
func ParseGrid(s string) (cols, rows int, err error) {
	if _, err = fmt.Sscanf(s, "%dx%d", &cols, &rows); err != nil {
		return 0, 0, fmt.Errorf("prepare: grid %q: want COLSxROWS", s)
	}
	if cols <= 0 || rows <= 0 {
		return 0, 0, fmt.Errorf("prepare: grid %q: want positive size", s)
	}
	return cols, rows, nil
}

// Trim crops the right and bottom strips that do not fill a whole tile.
func Trim(src image.Image, tileSize int) *image.NRGBA {
	b := src.Bounds()
	cols, rows, residual := examine.Dimensions(b, tileSize)
	if residual == (image.Point{}) {
		return examine.Normalize(src)
	}
	r := image.Rect(b.Min.X, b.Min.Y, b.Min.X+cols*tileSize, b.Min.Y+rows*tileSize)
	return examine.Normalize(transform.Crop(src, r))
}

// Quantizer selects a palette reduction algorithm.
type Quantizer string

const (
	MedianCut    Quantizer = "median"
	Hierarchical Quantizer = "hierarchical"
	KMeans       Quantizer = "kmeans"
)

// Palette picks at most n representative colours of src.
func Palette(src image.Image, n int, q Quantizer) (color.Palette, error) {
	if n <= 0 {
		return nil, fmt.Errorf("prepare: palette of %d colours", n)
	}
	switch q {
	case "", MedianCut:
		mc := quantize.MedianCutQuantizer{}
		return mc.Quantize(make(color.Palette, 0, n), src), nil
	case Hierarchical:
		hq := nykakin.NewHierarhicalQuantizer()
		colors, err := hq.Quantize(src, n)
		if err != nil {
			return nil, fmt.Errorf("prepare: hierarchical: %w", err)
		}
		pal := make(color.Palette, 0, len(colors))
		for _, c := range colors {
			pal = append(pal, c)
		}
		return pal, nil
	case KMeans:
		return kmeansPalette(src, n)
	}
	return nil, fmt.Errorf("prepare: unknown quantizer %q", q)
}

// kmeansPalette clusters a subsample of the opaque pixels of src.
func kmeansPalette(src image.Image, n int) (color.Palette, error) {
	b := src.Bounds()
	const maxSamples = 12000
	step := 1
	for (b.Dx()/step)*(b.Dy()/step) > maxSamples {
		step++
	}
	var obs clusters.Observations
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r, g, bl, a := src.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			obs = append(obs, clusters.Coordinates{float64(r) / 0xffff, float64(g) / 0xffff, float64(bl) / 0xffff})
		}
	}
	if len(obs) == 0 {
		return nil, fmt.Errorf("prepare: kmeans: no opaque pixels")
	}
	if n > len(obs) {
		n = len(obs)
	}
	cc, err := kmeans.New().Partition(obs, n)
	if err != nil {
		return nil, fmt.Errorf("prepare: kmeans: %w", err)
	}
	pal := make(color.Palette, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		pal = append(pal, color.NRGBA{unit(c.Center[0]), unit(c.Center[1]), unit(c.Center[2]), 0xff})
	}
	return pal, nil
}

func unit(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	}
	return uint8(v*0xff + 0.5)
}

// Quantize reduces src to at most n colours picked by q, optionally
// dithered with the named kernel.
func Quantize(src image.Image, n int, q Quantizer, ditherName string) (*image.NRGBA, error) {
	pal, err := Palette(src, n, q)
	if err != nil {
		return nil, err
	}
	log.Debugf("prepare: %s palette of %d colours", q, len(pal))
	return Remap(src, pal, ditherName)
}
