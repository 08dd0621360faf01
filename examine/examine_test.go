package examine

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/submersibletoaster/tilematcher/internal/testimg"
)

func TestDimensionsTruncate(t *testing.T) {
	cols, rows, res := Dimensions(image.Rect(0, 0, 8*3+5, 8*2+7), 8)
	assert.Equal(t, 3, cols)
	assert.Equal(t, 2, rows)
	assert.Equal(t, image.Point{5, 7}, res)

	cols, rows, _ = Dimensions(image.Rect(0, 0, 10, 10), 0)
	assert.Zero(t, cols)
	assert.Zero(t, rows)
}

func TestSliceOrderAndBounds(t *testing.T) {
	red, green, blue, black := testimg.RGB(255, 0, 0), testimg.RGB(0, 255, 0), testimg.RGB(0, 0, 255), testimg.RGB(0, 0, 0)
	m := testimg.Cells(4, [][]color.Color{{red, green}, {blue, black}})

	cels := Slice(m, 4)
	require.Len(t, cels, 4)
	want := []color.Color{red, green, blue, black}
	for i, c := range cels {
		assert.Equal(t, i, c.Nth)
		assert.Equal(t, image.Rect(0, 0, 4, 4).Add(image.Pt(c.CharPos.X*4, c.CharPos.Y*4)), c.Origin)
		assert.Equal(t, want[i], c.Image.At(c.Origin.Min.X, c.Origin.Min.Y))
	}
	assert.Equal(t, image.Point{1, 0}, cels[1].CharPos)
	assert.Equal(t, image.Point{0, 1}, cels[2].CharPos)
}

func TestSliceIncludesLastCompleteCel(t *testing.T) {
	m := testimg.Solid(16, 16, testimg.RGB(1, 1, 1))
	assert.Len(t, Slice(m, 8), 4)
}

func TestSliceOffsetOrigin(t *testing.T) {
	m := testimg.Solid(12, 12, testimg.RGB(1, 1, 1))
	sub := m.SubImage(image.Rect(4, 4, 12, 12)).(*image.NRGBA)
	cels := Slice(sub, 4)
	require.Len(t, cels, 4)
	assert.Equal(t, image.Rect(4, 4, 8, 8), cels[0].Origin)
}

func TestImageToCels(t *testing.T) {
	m := testimg.Solid(8*3+3, 8*2, testimg.RGB(1, 1, 1))
	var got []int
	for c := range ImageToCels(context.Background(), m, 8) {
		got = append(got, c.Nth)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, got)
}

func TestImageToCelsCancel(t *testing.T) {
	m := testimg.Solid(64, 64, testimg.RGB(1, 1, 1))
	ctx, cancel := context.WithCancel(context.Background())
	cels := ImageToCels(ctx, m, 1)
	<-cels
	cancel()
	n := 0
	for range cels {
		n++
	}
	assert.Less(t, n, 64*64-1)
}

func TestNormalizeAndClone(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 2, 2))
	rgba.Set(1, 1, testimg.RGB(9, 8, 7))
	n := Normalize(rgba)
	assert.Equal(t, testimg.RGB(9, 8, 7), n.At(1, 1))
	assert.Same(t, n, Normalize(n))

	sub := n.SubImage(image.Rect(1, 1, 2, 2)).(*image.NRGBA)
	c := Clone(sub)
	assert.Equal(t, image.Rect(0, 0, 1, 1), c.Bounds())
	assert.Equal(t, testimg.RGB(9, 8, 7), c.At(0, 0))
	c.Set(0, 0, testimg.RGB(0, 0, 0))
	assert.Equal(t, testimg.RGB(9, 8, 7), n.At(1, 1))
}
