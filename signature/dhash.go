package signature

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/nfnt/resize"
	"github.com/steakknife/hamming"
)

const (
	hashWidth  = 9
	hashHeight = 8
)

// Hash produces DifferenceHash signatures.
type Hash struct{}

func (Hash) Kind() Kind { return DifferenceHash }

func (Hash) Sign(m *image.NRGBA) Signature {
	return Signature{Kind: DifferenceHash, Bits: MakeDHash(m)}
}

// DHash is a row gradient hash: bit n is set when pixel n of the reduced
// grayscale image is brighter than its right hand neighbour.
type DHash []uint8

// MakeDHash grays src, reduces it to 9x8 and packs the 64 comparisons.
func MakeDHash(src image.Image) DHash {
	gray := effect.Grayscale(src)
	small := resize.Resize(hashWidth, hashHeight, gray, resize.NearestNeighbor)
	b := small.Bounds()

	h := make(DHash, (hashWidth-1)*hashHeight/8)
	n := 0
	for y := b.Min.Y; y < b.Min.Y+hashHeight; y++ {
		for x := b.Min.X; x < b.Min.X+hashWidth-1; x++ {
			left, _, _, _ := small.At(x, y).RGBA()
			right, _, _, _ := small.At(x+1, y).RGBA()
			if left > right {
				h[n/8] |= 1 << uint(7-n%8)
			}
			n++
		}
	}
	return h
}

// Distance gives the hamming distance and normalized distance of two hashes.
func (d DHash) Distance(in DHash) (int, float64) {
	v := hamming.Uint8s(d, in)
	l := len(d) * 8
	if l == 0 {
		return v, 0
	}
	return v, float64(v) / float64(l)
}
