/*
Package mapfile reads and writes the JSON map descriptor consumed by the game
client and map editor:

	{
	  "width": 13,
	  "height": 19,
	  "tileSize": 64,
	  "mapData": [[1, 1, 253, ...], ...],
	  "collisionTiles": [80, 81, 82, 83, 192, 193, 194, 195],
	  "tilesetImage": "Generated_Tileset.png",
	  "source": "extracted from world.png"
	}

mapData is indexed [row][column]. collisionTiles is always present, possibly
empty. tilesetImage and source are optional.
*/
package mapfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/submersibletoaster/tilematcher/grid"
)

// DefaultCollision are the tile indices of the world sheet that block
// movement.
var DefaultCollision = []int{80, 81, 82, 83, 192, 193, 194, 195}

// ErrShape is returned for a map whose mapData disagrees with its width and
// height.
var ErrShape = errors.New("mapfile: mapData does not match width and height")

type Map struct {
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	TileSize       int     `json:"tileSize"`
	MapData        [][]int `json:"mapData"`
	CollisionTiles []int   `json:"collisionTiles"`
	TilesetImage   string  `json:"tilesetImage,omitempty"`
	Source         string  `json:"source,omitempty"`
}

// New describes g. A nil collision set is written as an empty array.
func New(g *grid.Grid, tileSize int, collision []int) *Map {
	if collision == nil {
		collision = []int{}
	}
	data := make([][]int, len(g.Cells))
	for y, row := range g.Cells {
		data[y] = append([]int(nil), row...)
	}
	return &Map{
		Width:          g.Width,
		Height:         g.Height,
		TileSize:       tileSize,
		MapData:        data,
		CollisionTiles: append([]int{}, collision...),
	}
}

// Grid returns the tile indices as a grid.
func (m *Map) Grid() *grid.Grid {
	g := grid.New(m.Width, m.Height)
	for y := 0; y < m.Height && y < len(m.MapData); y++ {
		copy(g.Cells[y], m.MapData[y])
	}
	return g
}

// Validate checks that mapData is Height rows of Width entries.
func (m *Map) Validate() error {
	if m.Width < 0 || m.Height < 0 || len(m.MapData) != m.Height {
		return fmt.Errorf("%w: %d rows for height %d", ErrShape, len(m.MapData), m.Height)
	}
	for y, row := range m.MapData {
		if len(row) != m.Width {
			return fmt.Errorf("%w: row %d has %d entries for width %d", ErrShape, y, len(row), m.Width)
		}
	}
	return nil
}

// Read decodes and validates a map.
func Read(r io.Reader) (*Map, error) {
	m := &Map{}
	if err := json.NewDecoder(r).Decode(m); err != nil {
		return nil, fmt.Errorf("mapfile: decode: %w", err)
	}
	if m.CollisionTiles == nil {
		m.CollisionTiles = []int{}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Write encodes m with two space indentation.
func (m *Map) Write(w io.Writer) error {
	out := *m
	if out.CollisionTiles == nil {
		out.CollisionTiles = []int{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&out)
}

func Load(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func (m *Map) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.Write(f); err != nil {
		f.Close()
		return err
	}
	log.Infof("mapfile: wrote %dx%d map to %s", m.Width, m.Height, path)
	return f.Close()
}

// Usage is how often one tile index appears in a map.
type Usage struct {
	Tile    int
	Count   int
	Percent float64
}

// Stats counts every tile index, sorted by index.
func (m *Map) Stats() []Usage {
	counts := make(map[int]int)
	total := 0
	for _, row := range m.MapData {
		for _, v := range row {
			counts[v]++
			total++
		}
	}
	out := make([]Usage, 0, len(counts))
	for tile, n := range counts {
		out = append(out, Usage{Tile: tile, Count: n, Percent: float64(n) * 100 / float64(total)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tile < out[j].Tile })
	return out
}

func floorHalf(n int) int {
	if n < 0 {
		return -((-n + 1) / 2)
	}
	return n / 2
}

// Pad centres m on a width x height map filled with fill. A smaller target
// crops around the centre.
func (m *Map) Pad(width, height, fill int) (*Map, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("mapfile: pad to %dx%d", width, height)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	cx, cy := floorHalf(width-m.Width), floorHalf(height-m.Height)
	out := m.resized(width, height, func(x, y int) int {
		ox, oy := x-cx, y-cy
		if ox >= 0 && ox < m.Width && oy >= 0 && oy < m.Height {
			return m.MapData[oy][ox]
		}
		return fill
	})
	out.Source = fmt.Sprintf("padded from %dx%d map", m.Width, m.Height)
	return out, nil
}

// Repeat tiles m across a width x height map.
func (m *Map) Repeat(width, height int) (*Map, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("mapfile: repeat to %dx%d", width, height)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.Width == 0 || m.Height == 0 {
		return nil, fmt.Errorf("mapfile: repeat of an empty map")
	}
	out := m.resized(width, height, func(x, y int) int {
		return m.MapData[y%m.Height][x%m.Width]
	})
	out.Source = fmt.Sprintf("repeated from %dx%d map", m.Width, m.Height)
	return out, nil
}

func (m *Map) resized(width, height int, at func(x, y int) int) *Map {
	data := make([][]int, height)
	for y := range data {
		data[y] = make([]int, width)
		for x := range data[y] {
			data[y][x] = at(x, y)
		}
	}
	return &Map{
		Width:          width,
		Height:         height,
		TileSize:       m.TileSize,
		MapData:        data,
		CollisionTiles: append([]int{}, m.CollisionTiles...),
		TilesetImage:   m.TilesetImage,
	}
}
