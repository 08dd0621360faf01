/*
Package config assembles run settings from built-in defaults, an optional
YAML file and TILEMATCHER_* environment variables, in that order of
increasing priority. Command line flags are applied last by the caller.

A file may carry its own colour bucket table:

	tileSize: 32
	workers: 4
	collisionTiles: [80, 81, 82, 83, 192, 193, 194, 195]
	buckets:
	  rules:
	    - name: water
	      terrain: water
	      tile: 253
	      when:
	        - {left: b, op: ">", right: {offset: 120}}
	  default: {name: grass, terrain: grass, tile: 1}
*/
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/submersibletoaster/tilematcher/mapfile"
	"github.com/submersibletoaster/tilematcher/match"
	"github.com/submersibletoaster/tilematcher/pack"
	"github.com/submersibletoaster/tilematcher/signature"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "TILEMATCHER_"

type Config struct {
	TileSize      int            `yaml:"tileSize"`
	Columns       int            `yaml:"columns"`
	Workers       int            `yaml:"workers"`
	ProgressEvery int            `yaml:"progressEvery"`
	Signature     string         `yaml:"signature"`
	Reduction     int            `yaml:"reduction"`
	KDTree        bool           `yaml:"kdtree"`
	ColorSource   string         `yaml:"colorSource"`
	Collision     []int          `yaml:"collisionTiles"`
	Buckets       *match.RuleSet `yaml:"buckets,omitempty"`
}

func Default() *Config {
	return &Config{
		TileSize:      64,
		Columns:       pack.DefaultColumns,
		Workers:       1,
		ProgressEvery: 1,
		Signature:     signature.MeanColor.String(),
		Reduction:     signature.DefaultFactor,
		ColorSource:   "mean",
	}
}

// Read overlays the YAML document in r onto c. Unknown keys are errors.
func (c *Config) Read(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// LoadFile overlays the YAML file at path onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Read(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("config: loaded %s", path)
	return nil
}

// ApplyEnv overlays any TILEMATCHER_* variables onto c.
func (c *Config) ApplyEnv() {
	c.TileSize = GetInt(EnvPrefix+"TILE_SIZE", c.TileSize)
	c.Columns = GetInt(EnvPrefix+"COLUMNS", c.Columns)
	c.Workers = GetInt(EnvPrefix+"WORKERS", c.Workers)
	c.ProgressEvery = GetInt(EnvPrefix+"PROGRESS_EVERY", c.ProgressEvery)
	c.Signature = Get(EnvPrefix+"SIGNATURE", c.Signature)
	c.Reduction = GetInt(EnvPrefix+"REDUCTION", c.Reduction)
	c.KDTree = GetBool(EnvPrefix+"KDTREE", c.KDTree)
	c.ColorSource = Get(EnvPrefix+"COLOR_SOURCE", c.ColorSource)
	c.Collision = GetInts(EnvPrefix+"COLLISION", c.Collision)
}

// Load builds the configuration: defaults, then the .env files if present,
// then path if not empty, then the environment.
func Load(path string, envFiles ...string) (*Config, error) {
	loadDotEnv(envFiles...)
	c := Default()
	if path != "" {
		if err := c.LoadFile(path); err != nil {
			return nil, err
		}
	}
	c.ApplyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func loadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			log.Warnf("config: %s: %v", f, err)
		}
	}
}

// Validate checks ranges and names.
func (c *Config) Validate() error {
	if c.TileSize <= 0 {
		return fmt.Errorf("config: tileSize %d must be positive", c.TileSize)
	}
	if c.Columns <= 0 {
		return fmt.Errorf("config: columns %d must be positive", c.Columns)
	}
	if _, err := signature.ParseKind(c.Signature); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := match.ParseColorSource(c.ColorSource); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Buckets != nil {
		if err := c.Buckets.Validate(); err != nil {
			return fmt.Errorf("config: buckets: %w", err)
		}
	}
	return nil
}

// CollisionTiles returns the configured collision tiles. When none are
// configured, maps over a discovered tileset get none and maps over the
// world sheet get mapfile.DefaultCollision.
func (c *Config) CollisionTiles(discovered bool) []int {
	switch {
	case c.Collision != nil:
		return append([]int{}, c.Collision...)
	case discovered:
		return []int{}
	}
	return append([]int{}, mapfile.DefaultCollision...)
}

// Rules returns the configured bucket table, or the built-in one.
func (c *Config) Rules() match.RuleSet {
	if c.Buckets != nil {
		return *c.Buckets
	}
	return match.DefaultRules()
}

// Signer builds the configured signature function.
func (c *Config) Signer() (signature.Signer, error) {
	k, err := signature.ParseKind(c.Signature)
	if err != nil {
		return nil, err
	}
	return signature.New(k, c.Reduction)
}
