package pack

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/submersibletoaster/tilematcher/grid"
	"github.com/submersibletoaster/tilematcher/internal/testimg"
	"github.com/submersibletoaster/tilematcher/signature"
	"github.com/submersibletoaster/tilematcher/tileset"
)

var (
	red  = testimg.RGB(255, 0, 0)
	blue = testimg.RGB(0, 0, 255)
)

func dedupOf(colors ...color.Color) *tileset.Dedup {
	d := tileset.NewDedup(2)
	for _, c := range colors {
		d.Append(testimg.Solid(2, 2, c))
	}
	return d
}

func TestDimensions(t *testing.T) {
	for _, tc := range []struct{ n, columns, cols, rows int }{
		{0, 16, 16, 0},
		{1, 16, 16, 1},
		{16, 16, 16, 1},
		{17, 16, 16, 2},
		{5, 0, 16, 1},
		{5, 2, 2, 3},
	} {
		cols, rows := Dimensions(tc.n, tc.columns)
		assert.Equal(t, tc.cols, cols)
		assert.Equal(t, tc.rows, rows)
	}
}

func TestPackLayout(t *testing.T) {
	d := dedupOf(red, blue, red)
	sheet := Pack(d, 2, nil)
	assert.Equal(t, image.Rect(0, 0, 4, 4), sheet.Bounds())
	assert.Equal(t, color.Color(red), sheet.At(0, 0))
	assert.Equal(t, color.Color(blue), sheet.At(3, 1))
	assert.Equal(t, color.Color(red), sheet.At(1, 3))
	// padding slot stays transparent
	assert.Equal(t, color.Color(color.NRGBA{}), sheet.At(3, 3))
}

func TestPackBackground(t *testing.T) {
	sheet := Pack(dedupOf(red), 3, color.NRGBA{0, 255, 0, 255})
	assert.Equal(t, image.Rect(0, 0, 6, 2), sheet.Bounds())
	assert.Equal(t, color.Color(color.NRGBA{0, 255, 0, 255}), sheet.At(5, 1))
}

func TestPackRoundTrip(t *testing.T) {
	d := dedupOf(red, blue, testimg.RGB(1, 2, 3), testimg.RGB(9, 9, 9), blue)
	sheet := Pack(d, DefaultColumns, nil)
	idx, err := tileset.FromImage(sheet.SubImage(image.Rect(0, 0, 2*d.Len(), 2)), 2, signature.Mean{})
	require.NoError(t, err)
	require.Equal(t, d.Len(), idx.Len())
	for n := 0; n < d.Len(); n++ {
		assert.Equal(t, d.Tile(n).Pix, idx.Tile(n).Pix)
	}
}

func TestRender(t *testing.T) {
	g := grid.New(3, 1)
	g.Cells = [][]int{{1, 0, 1}}
	out, err := Render(g, dedupOf(red, blue))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 2), out.Bounds())
	assert.Equal(t, color.Color(blue), out.At(0, 0))
	assert.Equal(t, color.Color(red), out.At(2, 1))
	assert.Equal(t, color.Color(blue), out.At(5, 1))

	g.Cells[0][2] = 7
	_, err = Render(g, dedupOf(red, blue))
	assert.True(t, errors.Is(err, ErrIndex))
}

func TestLabel(t *testing.T) {
	d := tileset.NewDedup(16)
	d.Append(testimg.Solid(16, 16, red))
	d.Append(testimg.Solid(16, 16, red))
	sheet := Pack(d, 2, nil)
	before := append([]uint8(nil), sheet.Pix...)
	Label(sheet, 16, 2, d.Len(), color.White)
	assert.NotEqual(t, before, sheet.Pix)
	// bottom right corner of a tile is untouched
	assert.Equal(t, color.Color(red), sheet.At(31, 15))
}
