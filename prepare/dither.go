package prepare

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sort"
	"strings"

	"github.com/esimov/colorquant"

	"github.com/submersibletoaster/tilematcher/examine"
)

// Dithers are the error diffusion kernels accepted by Remap.
var Dithers = map[string]colorquant.Dither{
	"FloydSteinberg": {
		Filter: [][]float32{
			{0.0, 0.0, 0.0, 7.0 / 48.0, 5.0 / 48.0},
			{3.0 / 48.0, 5.0 / 48.0, 7.0 / 48.0, 5.0 / 48.0, 3.0 / 48.0},
			{1.0 / 48.0, 3.0 / 48.0, 5.0 / 48.0, 3.0 / 48.0, 1.0 / 48.0},
		},
	},
	"Burkes": {
		Filter: [][]float32{
			{0.0, 0.0, 0.0, 8.0 / 32.0, 4.0 / 32.0},
			{2.0 / 32.0, 4.0 / 32.0, 8.0 / 32.0, 4.0 / 32.0, 2.0 / 32.0},
			{0.0, 0.0, 0.0, 0.0, 0.0},
			{4.0 / 32.0, 8.0 / 32.0, 0.0, 0.0, 0.0},
		},
	},
	"Stucki": {
		Filter: [][]float32{
			{0.0, 0.0, 0.0, 8.0 / 42.0, 4.0 / 42.0},
			{2.0 / 42.0, 4.0 / 42.0, 8.0 / 42.0, 4.0 / 42.0, 2.0 / 42.0},
			{1.0 / 42.0, 2.0 / 42.0, 4.0 / 42.0, 2.0 / 42.0, 1.0 / 42.0},
		},
	},
	"Atkinson": {
		Filter: [][]float32{
			{0.0, 0.0, 1.0 / 8.0, 1.0 / 8.0},
			{1.0 / 8.0, 1.0 / 8.0, 1.0 / 8.0, 0.0},
			{0.0, 1.0 / 8.0, 0.0, 0.0},
		},
	},
	"Sierra-3": {
		Filter: [][]float32{
			{0.0, 0.0, 0.0, 5.0 / 32.0, 3.0 / 32.0},
			{2.0 / 32.0, 4.0 / 32.0, 5.0 / 32.0, 4.0 / 32.0, 2.0 / 32.0},
			{0.0, 2.0 / 32.0, 3.0 / 32.0, 2.0 / 32.0, 0.0},
		},
	},
	"Sierra-2": {
		Filter: [][]float32{
			{0.0, 0.0, 0.0, 4.0 / 16.0, 3.0 / 16.0},
			{1.0 / 16.0, 2.0 / 16.0, 3.0 / 16.0, 2.0 / 16.0, 1.0 / 16.0},
			{0.0, 0.0, 0.0, 0.0, 0.0},
		},
	},
	"Sierra-Lite": {
		Filter: [][]float32{
			{0.0, 0.0, 2.0 / 4.0},
			{1.0 / 4.0, 1.0 / 4.0, 0.0},
			{0.0, 0.0, 0.0},
		},
	},
}

// DitherNames lists the keys of Dithers in order.
func DitherNames() []string {
	out := make([]string, 0, len(Dithers))
	for k := range Dithers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// LookupDither finds a kernel by case insensitive name.
func LookupDither(name string) (colorquant.Dither, error) {
	for k, d := range Dithers {
		if strings.EqualFold(k, name) {
			return d, nil
		}
	}
	return colorquant.Dither{}, fmt.Errorf("prepare: unknown dither %q (have %s)", name, strings.Join(DitherNames(), ", "))
}

type quantizer interface {
	Quantize(src image.Image, dst draw.Image, n int, dither, quantize bool) image.Image
}

// Remap maps every pixel of src to the nearest colour of pal, diffusing the
// error with the named kernel. An empty name maps without dithering.
func Remap(src image.Image, pal color.Palette, ditherName string) (*image.NRGBA, error) {
	if len(pal) == 0 {
		return nil, fmt.Errorf("prepare: empty palette")
	}
	in := examine.Clone(examine.Normalize(src))
	dst := image.NewPaletted(in.Bounds(), pal)

	var q quantizer = colorquant.NoDither
	useDither := false
	if ditherName != "" {
		d, err := LookupDither(ditherName)
		if err != nil {
			return nil, err
		}
		q, useDither = d, true
	}
	return examine.Normalize(q.Quantize(in, dst, len(pal), useDither, false)), nil
}
