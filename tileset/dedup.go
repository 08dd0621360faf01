package tileset

import (
	"image"

	log "github.com/sirupsen/logrus"

	"github.com/submersibletoaster/tilematcher/examine"
)

// Dedup is an append-only tileset discovered from the cells of a source
// image. Every distinct exact pixel pattern is stored at most once, at the
// index of its first appearance.
//
// A Dedup is not safe for concurrent use; index assignment depends on the
// order of calls.
type Dedup struct {
	tileSize int
	entries  []Entry
	lookup   map[string]int
}

// NewDedup returns an empty Dedup for tiles of tileSize pixels.
func NewDedup(tileSize int) *Dedup {
	return &Dedup{
		tileSize: tileSize,
		lookup:   make(map[string]int),
	}
}

// key is the exact pixel content of m, row by row, all four channels.
func key(m *image.NRGBA) string {
	b := m.Bounds()
	row := b.Dx() * 4
	buf := make([]byte, 0, row*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := m.PixOffset(b.Min.X, y)
		buf = append(buf, m.Pix[i:i+row]...)
	}
	return string(buf)
}

// Intern returns the index of the tile with exactly the pixels of cell,
// appending a copy of cell as a new tile if it has not been seen before.
func (d *Dedup) Intern(cell *image.NRGBA) int {
	k := key(cell)
	if n, ok := d.lookup[k]; ok {
		return n
	}
	n := d.push(cell)
	d.lookup[k] = n
	log.Debugf("tileset: new tile %d", n)
	return n
}

// Append stores a copy of cell as a new tile regardless of whether an
// identical one exists, and returns its index.
func (d *Dedup) Append(cell *image.NRGBA) int {
	k := key(cell)
	n := d.push(cell)
	if _, ok := d.lookup[k]; !ok {
		d.lookup[k] = n
	}
	return n
}

func (d *Dedup) push(cell *image.NRGBA) int {
	n := len(d.entries)
	d.entries = append(d.entries, Entry{Index: n, Image: examine.Clone(cell)})
	return n
}

// Len returns the number of tiles discovered so far.
func (d *Dedup) Len() int { return len(d.entries) }

// TileSize returns the edge length of each tile in pixels.
func (d *Dedup) TileSize() int { return d.tileSize }

// Tile returns the pixels of tile n.
func (d *Dedup) Tile(n int) *image.NRGBA { return d.entries[n].Image }

// Entries returns all tiles in discovery order. Entries carry no signature.
func (d *Dedup) Entries() []Entry { return d.entries }
