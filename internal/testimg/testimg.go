// Package testimg builds small in-memory images for tests.
package testimg

import (
	"image"
	"image/color"
	"image/draw"
)

// Solid returns a w x h image filled with c.
func Solid(w, h int, c color.Color) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(m, m.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return m
}

// Cells lays colors out as a grid of solid tileSize cells, one row of colors
// per grid row.
func Cells(tileSize int, rows [][]color.Color) *image.NRGBA {
	h := len(rows)
	w := 0
	if h > 0 {
		w = len(rows[0])
	}
	m := image.NewNRGBA(image.Rect(0, 0, w*tileSize, h*tileSize))
	for y, row := range rows {
		for x, c := range row {
			r := image.Rect(x*tileSize, y*tileSize, (x+1)*tileSize, (y+1)*tileSize)
			draw.Draw(m, r, image.NewUniform(c), image.Point{}, draw.Src)
		}
	}
	return m
}

// Checker returns a tileSize square with a and b alternating per pixel.
func Checker(tileSize int, a, b color.Color) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, tileSize, tileSize))
	for y := 0; y < tileSize; y++ {
		for x := 0; x < tileSize; x++ {
			if (x+y)%2 == 0 {
				m.Set(x, y, a)
			} else {
				m.Set(x, y, b)
			}
		}
	}
	return m
}

// RGB is an opaque color.NRGBA.
func RGB(r, g, b uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}
