package signature

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"
)

// Mean produces MeanColor signatures.
type Mean struct{}

func (Mean) Kind() Kind { return MeanColor }

func (Mean) Sign(m *image.NRGBA) Signature {
	r, g, b := Average(m)
	return Signature{Kind: MeanColor, Vec: []float64{r, g, b}}
}

// Average returns the mean of the first three channels over m. An empty
// region averages to black.
func Average(m *image.NRGBA) (r, g, b float64) {
	bounds := m.Bounds()
	n := bounds.Dx() * bounds.Dy()
	if n == 0 {
		return 0, 0, 0
	}
	var sr, sg, sb uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		i := m.PixOffset(bounds.Min.X, y)
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			sr += uint64(m.Pix[i])
			sg += uint64(m.Pix[i+1])
			sb += uint64(m.Pix[i+2])
			i += 4
		}
	}
	f := float64(n)
	return float64(sr) / f, float64(sg) / f, float64(sb) / f
}

// Reduced produces Downsampled signatures: the region is scaled to 1/Factor
// of its edge length with nearest neighbour sampling and flattened to RGB.
type Reduced struct {
	Factor int
}

func (Reduced) Kind() Kind { return Downsampled }

func (s Reduced) Sign(m *image.NRGBA) Signature {
	factor := s.Factor
	if factor <= 0 {
		factor = DefaultFactor
	}
	b := m.Bounds()
	w, h := b.Dx()/factor, b.Dy()/factor
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	small := resize.Resize(uint(w), uint(h), m, resize.NearestNeighbor)
	sb := small.Bounds()
	vec := make([]float64, 0, sb.Dx()*sb.Dy()*3)
	for y := sb.Min.Y; y < sb.Max.Y; y++ {
		for x := sb.Min.X; x < sb.Max.X; x++ {
			c := color.NRGBAModel.Convert(small.At(x, y)).(color.NRGBA)
			vec = append(vec, float64(c.R), float64(c.G), float64(c.B))
		}
	}
	return Signature{Kind: Downsampled, Vec: vec}
}
