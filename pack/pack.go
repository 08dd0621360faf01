/*
Package pack composes tiles into images: tileset sheets for the map editor and
reconstructions of a map from its grid.
*/
package pack

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/submersibletoaster/pixfont"

	"github.com/submersibletoaster/tilematcher/grid"
	"github.com/submersibletoaster/tilematcher/tileset"
)

// DefaultColumns is the width, in tiles, of a packed sheet.
const DefaultColumns = 16

// ErrIndex is returned when a grid refers to a tile the source lacks.
var ErrIndex = errors.New("pack: tile index out of range")

// Dimensions returns the sheet size in tiles for n tiles.
func Dimensions(n, columns int) (cols, rows int) {
	if columns <= 0 {
		columns = DefaultColumns
	}
	if n == 0 {
		return columns, 0
	}
	return columns, (n + columns - 1) / columns
}

// Pack lays out every tile of src left to right, top to bottom, columns
// tiles wide. Unused slots of the last row are left as bg, which is
// transparent when nil.
func Pack(src tileset.Source, columns int, bg color.Color) *image.NRGBA {
	ts := src.TileSize()
	cols, rows := Dimensions(src.Len(), columns)
	sheet := image.NewNRGBA(image.Rect(0, 0, cols*ts, rows*ts))
	if bg != nil {
		draw.Draw(sheet, sheet.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}
	for n := 0; n < src.Len(); n++ {
		x, y := (n%cols)*ts, (n/cols)*ts
		tile := src.Tile(n)
		draw.Draw(sheet, image.Rect(x, y, x+ts, y+ts), tile, tile.Bounds().Min, draw.Src)
	}
	log.Debugf("pack: %d tiles on a %dx%d sheet", src.Len(), cols, rows)
	return sheet
}

// Label writes each tile's index in its top left corner, on a dark backing
// so it stays readable on any tile.
func Label(sheet draw.Image, tileSize, columns, n int, fg color.Color) {
	cols, _ := Dimensions(n, columns)
	shade := image.NewUniform(color.NRGBA{0, 0, 0, 160})
	for i := 0; i < n; i++ {
		x, y := (i%cols)*tileSize, (i/cols)*tileSize
		s := strconv.Itoa(i)
		w := pixfont.MeasureString(s)
		draw.Draw(sheet, image.Rect(x, y, x+w+1, y+9).Intersect(image.Rect(x, y, x+tileSize, y+tileSize)), shade, image.Point{}, draw.Over)
		pixfont.DrawString(sheet, x+1, y+1, s, fg)
	}
}

// Render draws every cell of g with its tile from src.
func Render(g *grid.Grid, src tileset.Source) (*image.NRGBA, error) {
	ts := src.TileSize()
	out := image.NewNRGBA(image.Rect(0, 0, g.Width*ts, g.Height*ts))
	for y, row := range g.Cells {
		for x, n := range row {
			if n < 0 || n >= src.Len() {
				return nil, fmt.Errorf("%w: %d at %d,%d of %d tiles", ErrIndex, n, x, y, src.Len())
			}
			tile := src.Tile(n)
			draw.Draw(out, image.Rect(x*ts, y*ts, (x+1)*ts, (y+1)*ts), tile, tile.Bounds().Min, draw.Src)
		}
	}
	return out, nil
}
