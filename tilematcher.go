/*
Package tilematcher converts a picture into a tile map: a grid of indices into
a tileset, plus the tileset itself when it is discovered from the picture.

Four modes are supported:

	Match    each cell gets the reference tile with the nearest signature
	Dedup    identical cells share one newly discovered tile
	Extract  every cell becomes its own new tile
	Bucket   each cell is classified by colour into a small terrain palette
*/
package tilematcher

import (
	"context"
	"errors"
	"fmt"
	"image"

	log "github.com/sirupsen/logrus"

	"github.com/submersibletoaster/tilematcher/grid"
	"github.com/submersibletoaster/tilematcher/mapfile"
	"github.com/submersibletoaster/tilematcher/match"
	"github.com/submersibletoaster/tilematcher/tileset"
)

type Mode int

const (
	Match Mode = iota
	Dedup
	Extract
	Bucket
)

func (m Mode) String() string {
	switch m {
	case Match:
		return "match"
	case Dedup:
		return "dedup"
	case Extract:
		return "extract"
	case Bucket:
		return "bucket"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ErrNoReference is returned by Match mode without a reference index.
var ErrNoReference = errors.New("tilematcher: match mode needs a reference tileset")

// Options configure one conversion.
type Options struct {
	Mode     Mode
	TileSize int

	// Reference is the tileset matched against in Match mode.
	Reference *tileset.Index
	// Rules and Source drive Bucket mode.
	Rules  match.RuleSet
	Source match.ColorSource

	Workers  int
	Every    int
	Observer grid.Observer

	Collision    []int
	TilesetImage string
	Description  string
}

// Result of a conversion.
type Result struct {
	Map      *mapfile.Map
	Grid     *grid.Grid
	Strategy string
	// Tiles is the tileset the grid indexes, nil in Bucket mode.
	Tiles tileset.Source
}

func (o *Options) strategy() (match.Strategy, tileset.Source, error) {
	switch o.Mode {
	case Match:
		if o.Reference == nil {
			return nil, nil, ErrNoReference
		}
		if o.Reference.TileSize() != o.TileSize {
			return nil, nil, fmt.Errorf("tilematcher: reference tiles are %dpx, source tiles %dpx", o.Reference.TileSize(), o.TileSize)
		}
		s, err := match.NewNearest(o.Reference)
		return s, o.Reference, err
	case Dedup:
		set := tileset.NewDedup(o.TileSize)
		return &match.Dedup{Set: set}, set, nil
	case Extract:
		set := tileset.NewDedup(o.TileSize)
		return &match.Extract{Set: set}, set, nil
	case Bucket:
		s, err := match.NewBucket(o.Rules, o.Source)
		return s, nil, err
	}
	return nil, nil, fmt.Errorf("tilematcher: unknown mode %v", o.Mode)
}

// Convert maps src to a grid and wraps it in a map descriptor.
func Convert(ctx context.Context, src image.Image, opts Options) (*Result, error) {
	s, tiles, err := opts.strategy()
	if err != nil {
		return nil, err
	}
	mapper := &grid.Mapper{
		TileSize: opts.TileSize,
		Strategy: s,
		Workers:  opts.Workers,
		Observer: opts.Observer,
		Every:    opts.Every,
	}
	g, err := mapper.Build(ctx, src)
	if err != nil {
		return nil, err
	}

	m := mapfile.New(g, opts.TileSize, opts.Collision)
	m.TilesetImage = opts.TilesetImage
	m.Source = opts.Description
	if tiles != nil {
		log.Infof("%s: %dx%d map over %d tiles", s.Name(), g.Width, g.Height, tiles.Len())
	} else {
		log.Infof("%s: %dx%d map", s.Name(), g.Width, g.Height)
	}
	return &Result{Map: m, Grid: g, Strategy: s.Name(), Tiles: tiles}, nil
}
