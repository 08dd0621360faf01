/*
Package tileset holds the ordered tile collections that a map is expressed in.

An Index is built once from a reference tileset image, scanned row-major in
tile sized steps, and never changes afterwards. A Dedup starts empty and grows
as previously unseen cells are interned. In both, indices are assigned in
scan order starting at 0 and are never reused or reordered.
*/
package tileset

import (
	"errors"
	"fmt"
	"image"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/submersibletoaster/tilematcher/examine"
	"github.com/submersibletoaster/tilematcher/signature"
)

var (
	// ErrEmpty is returned when matching against an index with no tiles.
	ErrEmpty = errors.New("tileset: no tiles")
	// ErrTileSize is returned for a zero or negative tile size.
	ErrTileSize = errors.New("tileset: tile size must be positive")
	// ErrTooSmall is returned when a tileset image holds less than one tile.
	ErrTooSmall = errors.New("tileset: image smaller than one tile")
)

// Entry is one tile of a collection.
type Entry struct {
	Index     int
	Signature signature.Signature
	Image     *image.NRGBA
}

// Source is a read-only, ordered view of tiles.
type Source interface {
	Len() int
	TileSize() int
	Tile(i int) *image.NRGBA
}

// Index is a fixed reference tileset with precomputed signatures.
type Index struct {
	tileSize int
	columns  int
	signer   signature.Signer
	entries  []Entry

	tree   *kdtree.Tree
	lowest map[[3]float64]int
}

// FromImage scans src row-major in tileSize steps and signs every tile with
// signer. A src that is not an exact multiple of tileSize is truncated to the
// largest multiple and a warning is logged.
func FromImage(src image.Image, tileSize int, signer signature.Signer) (*Index, error) {
	if tileSize <= 0 {
		return nil, ErrTileSize
	}
	m := examine.Normalize(src)
	cols, rows, residual := examine.Dimensions(m.Bounds(), tileSize)
	if cols == 0 || rows == 0 {
		return nil, fmt.Errorf("%w: %v with %dpx tiles", ErrTooSmall, m.Bounds().Size(), tileSize)
	}
	if residual.X != 0 || residual.Y != 0 {
		log.Warnf("tileset: %v is not a multiple of %dpx, ignoring %dpx right and %dpx bottom",
			m.Bounds().Size(), tileSize, residual.X, residual.Y)
	}

	idx := &Index{
		tileSize: tileSize,
		columns:  cols,
		signer:   signer,
		entries:  make([]Entry, 0, cols*rows),
	}
	for _, c := range examine.Slice(m, tileSize) {
		tile := examine.Clone(c.Image)
		idx.entries = append(idx.entries, Entry{
			Index:     c.Nth,
			Signature: signer.Sign(tile),
			Image:     tile,
		})
	}
	log.Debugf("tileset: %d tiles (%dx%d) signed as %v", len(idx.entries), cols, rows, signer.Kind())
	return idx, nil
}

// Len returns the number of tiles.
func (i *Index) Len() int { return len(i.entries) }

// TileSize returns the edge length of each tile in pixels.
func (i *Index) TileSize() int { return i.tileSize }

// Columns returns the number of tiles per row of the source tileset image.
func (i *Index) Columns() int { return i.columns }

// Tile returns the pixels of tile n.
func (i *Index) Tile(n int) *image.NRGBA { return i.entries[n].Image }

// Entry returns tile n.
func (i *Index) Entry(n int) Entry { return i.entries[n] }

// Entries returns all tiles in index order. The slice must not be modified.
func (i *Index) Entries() []Entry { return i.entries }

// Signer returns the signer used for every entry. Cells compared against this
// index must be signed with it.
func (i *Index) Signer() signature.Signer { return i.signer }

// Nearest returns the index of the tile whose signature is closest to sig
// and the distance to it. Ties go to the lowest index.
func (i *Index) Nearest(sig signature.Signature) (int, float64, error) {
	if len(i.entries) == 0 {
		return 0, 0, ErrEmpty
	}
	if i.tree != nil && sig.Kind == signature.MeanColor {
		return i.nearestTree(sig)
	}
	return i.nearestScan(sig)
}

func (i *Index) nearestScan(sig signature.Signature) (int, float64, error) {
	best, bestDist := 0, math.Inf(1)
	for _, e := range i.entries {
		if d := sig.Distance(e.Signature); d < bestDist {
			best, bestDist = e.Index, d
		}
	}
	return best, bestDist, nil
}
