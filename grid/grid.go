/*
Package grid turns a source image into a 2D grid of tile indices.

A Mapper slices the image into tile sized cels in row-major order, asks its
match.Strategy for the tile index of each cel and assembles the answers.
Cels may be classified by several workers when the strategy is pure, but the
grid is always filled, and the observer always notified, in scan order.
*/
package grid

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/submersibletoaster/tilematcher/examine"
	"github.com/submersibletoaster/tilematcher/match"
)

var (
	// ErrTileSize is returned for a zero or negative tile size.
	ErrTileSize = errors.New("grid: tile size must be positive")
	// ErrTooSmall is returned when the source holds less than one tile.
	ErrTooSmall = errors.New("grid: image smaller than one tile")
	// ErrNoStrategy is returned by a Mapper without a strategy.
	ErrNoStrategy = errors.New("grid: no match strategy")
)

// Grid is a Width x Height array of tile indices, Cells[y][x].
type Grid struct {
	Width  int
	Height int
	Cells  [][]int
}

// New returns a zeroed grid.
func New(width, height int) *Grid {
	cells := make([][]int, height)
	for y := range cells {
		cells[y] = make([]int, width)
	}
	return &Grid{Width: width, Height: height, Cells: cells}
}

func (g *Grid) At(x, y int) int { return g.Cells[y][x] }

func (g *Grid) Set(x, y, tile int) { g.Cells[y][x] = tile }

// Within reports whether every index lies in [0, n).
func (g *Grid) Within(n int) bool {
	for _, row := range g.Cells {
		for _, v := range row {
			if v < 0 || v >= n {
				return false
			}
		}
	}
	return true
}

// Observer is told how many rows of a grid are complete.
type Observer interface {
	Progress(row, rows int)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(row, rows int)

func (f ObserverFunc) Progress(row, rows int) { f(row, rows) }

// Mapper builds grids. The zero value is not usable: TileSize and Strategy
// are required.
type Mapper struct {
	TileSize int
	Strategy match.Strategy
	// Workers classifying cels concurrently. Strategies that are not pure
	// always run on one worker.
	Workers int
	// Observer, if set, is notified every Every completed rows and after the
	// last row.
	Observer Observer
	Every    int
}

type placed struct {
	cel  *examine.Cel
	tile int
	err  error
}

// placedBuff - Sortable by Nth so that results leave in scan order
type placedBuff []placed

func (p placedBuff) Len() int           { return len(p) }
func (p placedBuff) Less(i, j int) bool { return p[i].cel.Nth < p[j].cel.Nth }
func (p placedBuff) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

// Build classifies every complete cel of src. Residual right and bottom
// strips narrower than a tile are ignored. On any classification error no
// grid is returned.
func (m *Mapper) Build(ctx context.Context, src image.Image) (*Grid, error) {
	if m.TileSize <= 0 {
		return nil, ErrTileSize
	}
	if m.Strategy == nil {
		return nil, ErrNoStrategy
	}
	img := examine.Normalize(src)
	cols, rows, residual := examine.Dimensions(img.Bounds(), m.TileSize)
	if cols == 0 || rows == 0 {
		return nil, fmt.Errorf("%w: %dx%d at tile size %d", ErrTooSmall, img.Bounds().Dx(), img.Bounds().Dy(), m.TileSize)
	}
	if residual.X != 0 || residual.Y != 0 {
		log.Infof("grid: ignoring %dpx right and %dpx bottom residual", residual.X, residual.Y)
	}

	n := m.Workers
	if n < 1 || !m.Strategy.Pure() {
		n = 1
	}
	every := m.Every
	if every < 1 {
		every = 1
	}
	log.Debugf("grid: %dx%d cels, %s on %d workers", cols, rows, m.Strategy.Name(), n)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cels := examine.ImageToCels(ctx, img, m.TileSize)

	mid := make(chan placed, n)
	wait := sync.WaitGroup{}
	for i := 0; i < n; i++ {
		wait.Add(1)
		go func() {
			defer wait.Done()
			for cel := range cels {
				tile, err := m.Strategy.Classify(cel.Image)
				mid <- placed{cel, tile, err}
			}
		}()
	}
	go func() {
		wait.Wait()
		close(mid)
	}()

	g := New(cols, rows)
	var failed error
	next := 0
	buffer := make(placedBuff, 0, n)
	for p := range mid {
		if failed != nil {
			continue
		}
		if p.err != nil {
			failed = fmt.Errorf("grid: cel %d,%d: %w", p.cel.CharPos.X, p.cel.CharPos.Y, p.err)
			cancel()
			continue
		}
		buffer = append(buffer, p)
		sort.Sort(buffer)
		for len(buffer) != 0 && buffer[0].cel.Nth == next {
			pos := buffer[0].cel.CharPos
			g.Set(pos.X, pos.Y, buffer[0].tile)
			buffer = buffer[1:]
			next++
			if pos.X == cols-1 && m.Observer != nil {
				row := pos.Y + 1
				if row%every == 0 || row == rows {
					m.Observer.Progress(row, rows)
				}
			}
		}
	}
	if failed != nil {
		return nil, failed
	}
	if err := ctx.Err(); err != nil && next < cols*rows {
		return nil, err
	}
	return g, nil
}
