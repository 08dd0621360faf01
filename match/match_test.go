package match

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/submersibletoaster/tilematcher/internal/testimg"
	"github.com/submersibletoaster/tilematcher/signature"
	"github.com/submersibletoaster/tilematcher/tileset"
)

func rgbwIndex(t *testing.T) *tileset.Index {
	src := testimg.Cells(4, [][]color.Color{
		{testimg.RGB(255, 0, 0), testimg.RGB(0, 255, 0)},
		{testimg.RGB(0, 0, 255), testimg.RGB(0, 0, 0)},
	})
	idx, err := tileset.FromImage(src, 4, signature.Mean{})
	require.NoError(t, err)
	return idx
}

func TestNearestClassify(t *testing.T) {
	n, err := NewNearest(rgbwIndex(t))
	require.NoError(t, err)
	assert.True(t, n.Pure())
	assert.Equal(t, "nearest-mean", n.Name())

	for want, c := range []color.NRGBA{
		testimg.RGB(240, 10, 10),
		testimg.RGB(5, 230, 30),
		testimg.RGB(20, 20, 200),
		testimg.RGB(8, 8, 8),
	} {
		got, err := n.Classify(testimg.Solid(4, 4, c))
		require.NoError(t, err)
		assert.Equal(t, want, got, "colour %v", c)
	}
}

func TestNewNearestEmpty(t *testing.T) {
	_, err := NewNearest(nil)
	assert.True(t, errors.Is(err, tileset.ErrEmpty))
}

func TestRank(t *testing.T) {
	n, err := NewNearest(rgbwIndex(t))
	require.NoError(t, err)

	all := n.Rank(testimg.Solid(4, 4, testimg.RGB(200, 0, 0)), 0)
	require.Len(t, all, 4)
	assert.Equal(t, 0, all[0].Index)
	assert.Equal(t, float64(55*55), all[0].Score)
	for i := 1; i < len(all); i++ {
		assert.False(t, all.Less(i, i-1))
	}

	top := n.Rank(testimg.Solid(4, 4, testimg.RGB(200, 0, 0)), 2)
	assert.Len(t, top, 2)
	assert.Equal(t, all[:2], top)
}

func TestResultsTieOrder(t *testing.T) {
	r := Results{{Score: 1, Index: 3}, {Score: 1, Index: 1}, {Score: 0, Index: 9}}
	assert.True(t, r.Less(2, 0))
	assert.True(t, r.Less(1, 0))
	assert.False(t, r.Less(0, 1))
}

func TestDedupStrategy(t *testing.T) {
	s := &Dedup{Set: tileset.NewDedup(2)}
	assert.False(t, s.Pure())
	a := testimg.Solid(2, 2, testimg.RGB(1, 2, 3))
	b := testimg.Checker(2, testimg.RGB(1, 2, 3), testimg.RGB(0, 0, 0))

	n, _ := s.Classify(a)
	assert.Equal(t, 0, n)
	n, _ = s.Classify(b)
	assert.Equal(t, 1, n)
	n, _ = s.Classify(testimg.Solid(2, 2, testimg.RGB(1, 2, 3)))
	assert.Equal(t, 0, n)
	assert.Equal(t, 2, s.Set.Len())
}

func TestExtractStrategy(t *testing.T) {
	s := &Extract{Set: tileset.NewDedup(2)}
	a := testimg.Solid(2, 2, testimg.RGB(1, 2, 3))
	for want := 0; want < 3; want++ {
		n, err := s.Classify(a)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
}

func TestBucketScenarios(t *testing.T) {
	b, err := NewBucket(DefaultRules(), ColorMean)
	require.NoError(t, err)
	rules := DefaultRules()

	water := rules.Lookup(RGB{10, 10, 200})
	assert.Equal(t, "water", water.Terrain)
	n, err := b.Classify(testimg.Solid(4, 4, testimg.RGB(10, 10, 200)))
	require.NoError(t, err)
	assert.Equal(t, 250, n)

	grass := rules.Lookup(RGB{20, 140, 20})
	assert.Equal(t, "grass", grass.Terrain)
	n, err = b.Classify(testimg.Solid(4, 4, testimg.RGB(20, 140, 20)))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDefaultRulesOrder(t *testing.T) {
	rules := DefaultRules()
	cases := []struct {
		c    RGB
		want string
	}{
		{RGB{100, 150, 250}, "water"},
		{RGB{10, 10, 200}, "deep-water"},
		{RGB{230, 230, 230}, "snow"},
		{RGB{190, 195, 200}, "pale-snow"},
		{RGB{40, 100, 40}, "dense-grass"},
		{RGB{70, 100, 70}, "grass"},
		{RGB{200, 80, 60}, "red-desert"},
		{RGB{140, 100, 40}, "dark-rock"},
		{RGB{170, 120, 60}, "desert"},
		{RGB{120, 110, 60}, "earth"},
		{RGB{150, 140, 70}, "earth"},
		{RGB{160, 150, 70}, "light-earth"},
		{RGB{200, 180, 90}, "sand"},
		{RGB{50, 70, 90}, "forest"},
		{RGB{30, 30, 30}, "rock"},
		{RGB{60, 60, 70}, "default"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, rules.Lookup(tc.c).Name, "colour %v", tc.c)
	}
}

func TestBucketTruncatesMean(t *testing.T) {
	// mean red is 130.5, which truncates to 130 and misses the r > 130 rule
	src := testimg.Cells(1, [][]color.Color{{testimg.RGB(130, 50, 20), testimg.RGB(131, 50, 20)}})
	c := CellColor(src, ColorMean)
	assert.Equal(t, RGB{130, 50, 20}, c)
}

func TestBucketTotal(t *testing.T) {
	b, err := NewBucket(DefaultRules(), ColorMean)
	require.NoError(t, err)
	valid := map[int]bool{}
	for _, n := range DefaultRules().Tiles() {
		valid[n] = true
	}
	for r := 0; r < 256; r += 15 {
		for g := 0; g < 256; g += 15 {
			for bl := 0; bl < 256; bl += 15 {
				n, err := b.Classify(testimg.Solid(1, 1, testimg.RGB(uint8(r), uint8(g), uint8(bl))))
				require.NoError(t, err)
				assert.True(t, valid[n])
			}
		}
	}
}

func TestBucketDominant(t *testing.T) {
	b, err := NewBucket(DefaultRules(), ColorDominant)
	require.NoError(t, err)
	n, err := b.Classify(testimg.Solid(8, 8, testimg.RGB(10, 10, 200)))
	require.NoError(t, err)
	assert.Equal(t, 250, n)
}

func TestRuleSetYAML(t *testing.T) {
	doc := `
rules:
  - name: lava
    terrain: lava
    tile: 7
    when:
      - {left: r, op: ">", right: {offset: 200}}
      - {left: r, op: ">", right: {channel: g, scale: 2}}
  - name: flat
    terrain: plain
    tile: 2
    when:
      - {left: r, minus: b, abs: true, op: "<", right: {offset: 5}}
default: {name: void, terrain: void, tile: 0}
`
	var rs RuleSet
	require.NoError(t, yaml.Unmarshal([]byte(doc), &rs))
	require.NoError(t, rs.Validate())

	assert.Equal(t, 7, rs.Lookup(RGB{250, 100, 0}).Tile)
	assert.Equal(t, 2, rs.Lookup(RGB{250, 200, 248}).Tile)
	assert.Equal(t, 0, rs.Lookup(RGB{100, 0, 0}).Tile)
	assert.Equal(t, []int{7, 2, 0}, rs.Tiles())
}

func TestRuleSetValidate(t *testing.T) {
	bad := RuleSet{Rules: []Rule{{Name: "x", When: []Condition{{Left: "alpha", Op: GT}}}}}
	assert.Error(t, bad.Validate())
	bad = RuleSet{Rules: []Rule{{Name: "x", When: []Condition{{Left: Red, Op: "=="}}}}}
	assert.Error(t, bad.Validate())
	bad = RuleSet{Default: Rule{Tile: -1}}
	assert.Error(t, bad.Validate())
	_, err := NewBucket(bad, ColorMean)
	assert.Error(t, err)
}

func TestParseColorSource(t *testing.T) {
	s, err := ParseColorSource("dominant")
	require.NoError(t, err)
	assert.Equal(t, ColorDominant, s)
	s, err = ParseColorSource("")
	require.NoError(t, err)
	assert.Equal(t, ColorMean, s)
	_, err = ParseColorSource("median")
	assert.Error(t, err)
}
