/*
Package signature reduces a tile sized pixel region to a fixed length
descriptor that can be compared against other descriptors of the same kind.

Three kinds are supported. MeanColor is the per-channel average of the
region and is compared by squared Euclidean distance. Downsampled scales the
region down by a fixed factor and flattens the remaining RGB values; it is
compared by summed absolute channel difference. DifferenceHash is a 64 bit
gradient hash compared by Hamming distance. Alpha is ignored by all three.

Signatures of different kinds are never comparable.
*/
package signature

import (
	"fmt"
	"image"
	"math"
	"strings"
)

// Kind selects the signature representation used for a run.
type Kind int

const (
	// MeanColor is the canonical representation.
	MeanColor Kind = iota
	// Downsampled is the region reduced by Reduced.Factor and flattened.
	Downsampled
	// DifferenceHash is a 9x8 gradient hash of the grayscale region.
	DifferenceHash
)

// DefaultFactor is the linear reduction used by Downsampled when none is given.
const DefaultFactor = 4

func (k Kind) String() string {
	switch k {
	case MeanColor:
		return "mean"
	case Downsampled:
		return "downsampled"
	case DifferenceHash:
		return "dhash"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mean", "meancolor":
		return MeanColor, nil
	case "downsampled", "down", "reduced":
		return Downsampled, nil
	case "dhash", "hash":
		return DifferenceHash, nil
	}
	return 0, fmt.Errorf("signature: unknown kind %q", s)
}

// Signature is a descriptor of one pixel region. Vec is used by MeanColor and
// Downsampled, Bits by DifferenceHash.
type Signature struct {
	Kind Kind
	Vec  []float64
	Bits DHash
}

// Distance compares two signatures of the same kind; zero means identical.
// It panics if the kinds differ.
func (s Signature) Distance(o Signature) float64 {
	if s.Kind != o.Kind {
		panic(fmt.Sprintf("signature: comparing %v with %v", s.Kind, o.Kind))
	}
	switch s.Kind {
	case MeanColor:
		if len(s.Vec) != len(o.Vec) {
			return math.Inf(1)
		}
		var sum float64
		for i, v := range s.Vec {
			d := v - o.Vec[i]
			sum += d * d
		}
		return sum
	case Downsampled:
		if len(s.Vec) != len(o.Vec) {
			return math.Inf(1)
		}
		var sum float64
		for i, v := range s.Vec {
			sum += math.Abs(v - o.Vec[i])
		}
		return sum
	case DifferenceHash:
		if len(s.Bits) != len(o.Bits) {
			return math.Inf(1)
		}
		d, _ := s.Bits.Distance(o.Bits)
		return float64(d)
	}
	panic(fmt.Sprintf("signature: unknown kind %v", s.Kind))
}

// Signer computes signatures of one kind. Implementations are pure.
type Signer interface {
	Kind() Kind
	Sign(m *image.NRGBA) Signature
}

// New returns the Signer for kind. factor is only used by Downsampled and
// falls back to DefaultFactor when not positive.
func New(kind Kind, factor int) (Signer, error) {
	switch kind {
	case MeanColor:
		return Mean{}, nil
	case Downsampled:
		if factor <= 0 {
			factor = DefaultFactor
		}
		return Reduced{Factor: factor}, nil
	case DifferenceHash:
		return Hash{}, nil
	}
	return nil, fmt.Errorf("signature: unknown kind %v", kind)
}
