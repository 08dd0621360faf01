package tileset

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/submersibletoaster/tilematcher/signature"
)

func point3(v []float64) [3]float64 {
	var k [3]float64
	copy(k[:], v)
	return k
}

// UseTree indexes the mean colour signatures in a k-d tree so that Nearest
// does not scan every tile. Results are identical to the linear scan,
// including the lowest index tie-break. Only MeanColor indexes support it.
func (i *Index) UseTree() error {
	if i.signer.Kind() != signature.MeanColor {
		return fmt.Errorf("tileset: k-d tree needs %v signatures, index uses %v", signature.MeanColor, i.signer.Kind())
	}
	if len(i.entries) == 0 {
		return ErrEmpty
	}

	// Identical signatures collapse onto the lowest index holding them.
	lowest := make(map[[3]float64]int, len(i.entries))
	pts := make(kdtree.Points, 0, len(i.entries))
	for _, e := range i.entries {
		k := point3(e.Signature.Vec)
		if _, ok := lowest[k]; ok {
			continue
		}
		lowest[k] = e.Index
		pts = append(pts, kdtree.Point{k[0], k[1], k[2]})
	}

	i.lowest = lowest
	i.tree = kdtree.New(pts, false)
	log.Debugf("tileset: k-d tree over %d distinct signatures", len(pts))
	return nil
}

func (i *Index) nearestTree(sig signature.Signature) (int, float64, error) {
	q := kdtree.Point(sig.Vec)
	_, d := i.tree.Nearest(q)

	// Gather every point at the nearest distance and keep the lowest index.
	keep := kdtree.NewDistKeeper(d)
	i.tree.NearestSet(keep, q)
	best := -1
	for _, c := range keep.Heap {
		if c.Comparable == nil || c.Dist > d {
			continue
		}
		n := i.lowest[point3(c.Comparable.(kdtree.Point))]
		if best < 0 || n < best {
			best = n
		}
	}
	if best < 0 {
		return i.nearestScan(sig)
	}
	return best, d, nil
}
