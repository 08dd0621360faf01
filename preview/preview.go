// Package preview draws maps and palettes on a truecolor terminal.
package preview

import (
	"bufio"
	"fmt"
	"image/color"
	"io"

	ansi "github.com/gookit/color"
	"github.com/joshdk/preview"
	"github.com/lucasb-eyer/go-colorful"
	log "github.com/sirupsen/logrus"

	"github.com/submersibletoaster/tilematcher/grid"
	"github.com/submersibletoaster/tilematcher/match"
	"github.com/submersibletoaster/tilematcher/signature"
	"github.com/submersibletoaster/tilematcher/tileset"
)

// Palette gives the colour a tile is drawn with.
type Palette func(tile int) color.Color

var unknown = color.NRGBA{0xff, 0x00, 0xff, 0xff}

// SwatchPalette colours each tile with the swatch of the first rule that
// produces it.
func SwatchPalette(rs match.RuleSet) Palette {
	swatch := make(map[int]color.Color)
	for _, r := range append(append([]match.Rule(nil), rs.Rules...), rs.Default) {
		if _, ok := swatch[r.Tile]; ok || r.Swatch == "" {
			continue
		}
		c, err := colorful.Hex(r.Swatch)
		if err != nil {
			log.Warnf("preview: rule %q: bad swatch %q", r.Name, r.Swatch)
			continue
		}
		swatch[r.Tile] = c
	}
	return func(tile int) color.Color {
		if c, ok := swatch[tile]; ok {
			return c
		}
		return unknown
	}
}

// TilePalette colours each tile with its mean colour.
func TilePalette(src tileset.Source) Palette {
	mean := make([]color.Color, src.Len())
	for i := range mean {
		r, g, b := signature.Average(src.Tile(i))
		mean[i] = color.NRGBA{uint8(r), uint8(g), uint8(b), 0xff}
	}
	return func(tile int) color.Color {
		if tile < 0 || tile >= len(mean) {
			return unknown
		}
		return mean[tile]
	}
}

func toANSI(in color.Color) ansi.RGBColor {
	r, g, b, _ := in.RGBA()
	return ansi.RGBColor{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 0}
}

// WriteANSI draws g with two blank columns per cell, one line per row.
func WriteANSI(w io.Writer, g *grid.Grid, p Palette) error {
	out := bufio.NewWriter(w)
	for _, row := range g.Cells {
		for _, tile := range row {
			c := toANSI(p(tile))
			fmt.Fprint(out, ansi.NewRGBStyle(c, c).Sprint("  "))
		}
		fmt.Fprint(out, "\033[0m\n")
	}
	return out.Flush()
}

// Show prints the colours of pal inline on terminals that support images.
func Show(pal color.Palette) {
	if len(pal) == 0 {
		return
	}
	preview.Show(pal)
}

// Colors returns the palette of every tile of g in index order.
func Colors(g *grid.Grid, p Palette) color.Palette {
	max := -1
	for _, row := range g.Cells {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}
	out := make(color.Palette, 0, max+1)
	for i := 0; i <= max; i++ {
		out = append(out, p(i))
	}
	return out
}
