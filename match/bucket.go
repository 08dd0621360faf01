package match

import (
	"fmt"
	"image"
	"math"

	"github.com/cenkalti/dominantcolor"
	log "github.com/sirupsen/logrus"

	"github.com/submersibletoaster/tilematcher/signature"
)

// Channel names a value derived from a cell colour.
type Channel string

const (
	Red        Channel = "r"
	Green      Channel = "g"
	Blue       Channel = "b"
	Brightness Channel = "brightness" // (r+g+b)/3
)

// Op is a comparison operator.
type Op string

const (
	GT Op = ">"
	GE Op = ">="
	LT Op = "<"
	LE Op = "<="
)

// RGB is a cell colour with 0-255 channels.
type RGB struct {
	R, G, B float64
}

func (c RGB) value(ch Channel) (float64, error) {
	switch ch {
	case Red:
		return c.R, nil
	case Green:
		return c.G, nil
	case Blue:
		return c.B, nil
	case Brightness:
		return (c.R + c.G + c.B) / 3, nil
	}
	return 0, fmt.Errorf("match: unknown channel %q", ch)
}

// Term is Scale*Channel + Offset, or just Offset without a channel. A zero
// Scale reads as 1.
type Term struct {
	Channel Channel `yaml:"channel,omitempty"`
	Scale   float64 `yaml:"scale,omitempty"`
	Offset  float64 `yaml:"offset,omitempty"`
}

func (t Term) eval(c RGB) float64 {
	if t.Channel == "" {
		return t.Offset
	}
	v, _ := c.value(t.Channel)
	s := t.Scale
	if s == 0 {
		s = 1
	}
	return s*v + t.Offset
}

// Condition compares Left (or |Left - Minus| with Abs, or Left - Minus
// without) against Right.
type Condition struct {
	Left  Channel `yaml:"left"`
	Minus Channel `yaml:"minus,omitempty"`
	Abs   bool    `yaml:"abs,omitempty"`
	Op    Op      `yaml:"op"`
	Right Term    `yaml:"right"`
}

func (k Condition) holds(c RGB) bool {
	l, _ := c.value(k.Left)
	if k.Minus != "" {
		m, _ := c.value(k.Minus)
		l -= m
	}
	if k.Abs {
		l = math.Abs(l)
	}
	r := k.Right.eval(c)
	switch k.Op {
	case GT:
		return l > r
	case GE:
		return l >= r
	case LT:
		return l < r
	case LE:
		return l <= r
	}
	return false
}

func (k Condition) validate() error {
	var probe RGB
	if _, err := probe.value(k.Left); err != nil {
		return err
	}
	for _, ch := range []Channel{k.Minus, k.Right.Channel} {
		if ch == "" {
			continue
		}
		if _, err := probe.value(ch); err != nil {
			return err
		}
	}
	switch k.Op {
	case GT, GE, LT, LE:
		return nil
	}
	return fmt.Errorf("match: unknown operator %q", k.Op)
}

// Rule assigns Tile to colours meeting every condition in When. A rule with
// no conditions matches everything.
type Rule struct {
	Name    string      `yaml:"name"`
	Terrain string      `yaml:"terrain"`
	Tile    int         `yaml:"tile"`
	Swatch  string      `yaml:"swatch,omitempty"`
	When    []Condition `yaml:"when,omitempty"`
}

// Matches reports whether c meets every condition of r.
func (r Rule) Matches(c RGB) bool {
	for _, k := range r.When {
		if !k.holds(c) {
			return false
		}
	}
	return true
}

// RuleSet is evaluated in order; the first matching rule wins and Default
// applies when none does.
type RuleSet struct {
	Rules   []Rule `yaml:"rules"`
	Default Rule   `yaml:"default"`
}

// Lookup returns the rule that classifies c.
func (rs RuleSet) Lookup(c RGB) Rule {
	for _, r := range rs.Rules {
		if r.Matches(c) {
			return r
		}
	}
	return rs.Default
}

// Validate checks every channel and operator name and that tiles are not
// negative.
func (rs RuleSet) Validate() error {
	for _, r := range append(append([]Rule(nil), rs.Rules...), rs.Default) {
		if r.Tile < 0 {
			return fmt.Errorf("match: rule %q: negative tile %d", r.Name, r.Tile)
		}
		for _, k := range r.When {
			if err := k.validate(); err != nil {
				return fmt.Errorf("rule %q: %w", r.Name, err)
			}
		}
	}
	return nil
}

// Tiles returns the distinct tile indices the set can produce, in rule order.
func (rs RuleSet) Tiles() []int {
	seen := make(map[int]bool)
	var out []int
	for _, r := range append(append([]Rule(nil), rs.Rules...), rs.Default) {
		if !seen[r.Tile] {
			seen[r.Tile] = true
			out = append(out, r.Tile)
		}
	}
	return out
}

// ColorSource selects how a cell is reduced to one colour for bucketing.
type ColorSource int

const (
	// ColorMean is the channel average truncated to whole values.
	ColorMean ColorSource = iota
	// ColorDominant is the most prominent colour cluster of the cell.
	ColorDominant
)

// ParseColorSource accepts "mean" or "dominant".
func ParseColorSource(s string) (ColorSource, error) {
	switch s {
	case "", "mean":
		return ColorMean, nil
	case "dominant":
		return ColorDominant, nil
	}
	return 0, fmt.Errorf("match: unknown color source %q", s)
}

// CellColor reduces cell to one colour.
func CellColor(cell *image.NRGBA, src ColorSource) RGB {
	if src == ColorDominant {
		c := dominantcolor.Find(cell)
		return RGB{float64(c.R), float64(c.G), float64(c.B)}
	}
	r, g, b := signature.Average(cell)
	return RGB{math.Trunc(r), math.Trunc(g), math.Trunc(b)}
}

// Bucket classifies cells by colour into a small fixed set of tiles.
type Bucket struct {
	Rules  RuleSet
	Source ColorSource
}

// NewBucket validates rules before use.
func NewBucket(rules RuleSet, src ColorSource) (*Bucket, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Bucket{Rules: rules, Source: src}, nil
}

func (b *Bucket) Name() string { return "bucket" }

func (b *Bucket) Pure() bool { return true }

// Classify never fails.
func (b *Bucket) Classify(cell *image.NRGBA) (int, error) {
	c := CellColor(cell, b.Source)
	r := b.Rules.Lookup(c)
	log.Debugf("bucket: %v -> %s (%d)", c, r.Name, r.Tile)
	return r.Tile, nil
}
