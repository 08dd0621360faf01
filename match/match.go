/*
Package match decides which tile best represents a cell.

Every strategy implements Strategy. Nearest compares cell signatures against
a fixed reference Index. Dedup and Extract grow a tileset from the cells
themselves. Bucket classifies the cell colour with an ordered rule table and
needs no tileset at all.
*/
package match

import (
	"fmt"
	"image"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/submersibletoaster/tilematcher/tileset"
)

// Strategy maps one cell to a tile index.
type Strategy interface {
	// Name identifies the strategy in logs and map provenance.
	Name() string
	// Classify returns the tile index for cell.
	Classify(cell *image.NRGBA) (int, error)
	// Pure reports whether Classify depends on nothing but the cell, which
	// allows cells to be classified concurrently.
	Pure() bool
}

// Match - scored candidate tile for a cell
type Match struct {
	Score float64 // Score - distance, nearest to zero being closest
	Index int     // Index - tile index of the candidate
}

// Results - Sortable slice of Match, best first, ties by lowest index
type Results []Match

func (r Results) Swap(i, j int) {
	r[j], r[i] = r[i], r[j]
}
func (r Results) Less(i, j int) bool {
	if r[i].Score == r[j].Score {
		return r[i].Index < r[j].Index
	}
	return r[i].Score < r[j].Score
}
func (r Results) Len() int {
	return len(r)
}

// Nearest assigns each cell the reference tile with the closest signature.
type Nearest struct {
	Index *tileset.Index
}

// NewNearest fails fast on an empty index.
func NewNearest(idx *tileset.Index) (*Nearest, error) {
	if idx == nil || idx.Len() == 0 {
		return nil, fmt.Errorf("match: nearest: %w", tileset.ErrEmpty)
	}
	return &Nearest{Index: idx}, nil
}

func (n *Nearest) Name() string { return "nearest-" + n.Index.Signer().Kind().String() }

func (n *Nearest) Pure() bool { return true }

func (n *Nearest) Classify(cell *image.NRGBA) (int, error) {
	if n.Index == nil {
		return 0, tileset.ErrEmpty
	}
	i, d, err := n.Index.Nearest(n.Index.Signer().Sign(cell))
	if err != nil {
		return 0, err
	}
	log.Debugf("nearest: tile %d at %.2f", i, d)
	return i, nil
}

// Rank scores cell against every reference tile and returns the best limit
// candidates, or all of them when limit is not positive.
func (n *Nearest) Rank(cell *image.NRGBA, limit int) Results {
	sig := n.Index.Signer().Sign(cell)
	out := make(Results, 0, n.Index.Len())
	for _, e := range n.Index.Entries() {
		out = append(out, Match{Score: sig.Distance(e.Signature), Index: e.Index})
	}
	sort.Sort(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Dedup maps identical cells to the same newly discovered tile.
type Dedup struct {
	Set *tileset.Dedup
}

func (d *Dedup) Name() string { return "dedup" }

// Pure is false: interning assigns indices in call order.
func (d *Dedup) Pure() bool { return false }

func (d *Dedup) Classify(cell *image.NRGBA) (int, error) {
	return d.Set.Intern(cell), nil
}

// Extract gives every cell its own new tile.
type Extract struct {
	Set *tileset.Dedup
}

func (e *Extract) Name() string { return "extract" }

func (e *Extract) Pure() bool { return false }

func (e *Extract) Classify(cell *image.NRGBA) (int, error) {
	return e.Set.Append(cell), nil
}
