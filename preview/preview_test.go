package preview

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/submersibletoaster/tilematcher/grid"
	"github.com/submersibletoaster/tilematcher/internal/testimg"
	"github.com/submersibletoaster/tilematcher/match"
	"github.com/submersibletoaster/tilematcher/tileset"
)

func rgb(c color.Color) [3]uint32 {
	r, g, b, _ := c.RGBA()
	return [3]uint32{r >> 8, g >> 8, b >> 8}
}

func TestSwatchPalette(t *testing.T) {
	rs := match.RuleSet{
		Rules: []match.Rule{
			{Name: "a", Tile: 3, Swatch: "#ff0000"},
			{Name: "b", Tile: 3, Swatch: "#00ff00"},
			{Name: "c", Tile: 4, Swatch: "nope"},
		},
		Default: match.Rule{Name: "d", Tile: 1, Swatch: "#0000ff"},
	}
	p := SwatchPalette(rs)
	assert.Equal(t, [3]uint32{255, 0, 0}, rgb(p(3)))
	assert.Equal(t, [3]uint32{0, 0, 255}, rgb(p(1)))
	assert.Equal(t, rgb(unknown), rgb(p(4)))
	assert.Equal(t, rgb(unknown), rgb(p(99)))
}

func TestDefaultRulesHaveSwatches(t *testing.T) {
	p := SwatchPalette(match.DefaultRules())
	for _, n := range match.DefaultRules().Tiles() {
		assert.NotEqual(t, rgb(unknown), rgb(p(n)), "tile %d", n)
	}
}

func TestTilePalette(t *testing.T) {
	d := tileset.NewDedup(2)
	d.Append(testimg.Solid(2, 2, testimg.RGB(10, 20, 30)))
	p := TilePalette(d)
	assert.Equal(t, [3]uint32{10, 20, 30}, rgb(p(0)))
	assert.Equal(t, rgb(unknown), rgb(p(1)))
	assert.Equal(t, rgb(unknown), rgb(p(-1)))
}

func TestWriteANSI(t *testing.T) {
	g := grid.New(3, 2)
	var buf bytes.Buffer
	assert.NoError(t, WriteANSI(&buf, g, func(int) color.Color { return color.Black }))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
	for _, l := range lines {
		assert.Equal(t, 3, strings.Count(l, "  "))
	}
}

func TestColors(t *testing.T) {
	g := grid.New(2, 1)
	g.Cells[0] = []int{2, 0}
	pal := Colors(g, func(n int) color.Color { return color.Gray{uint8(n)} })
	assert.Len(t, pal, 3)
	assert.Equal(t, color.Color(color.Gray{1}), pal[1])
}
