package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"os/signal"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/submersibletoaster/tilematcher"
	"github.com/submersibletoaster/tilematcher/config"
	"github.com/submersibletoaster/tilematcher/imageio"
	"github.com/submersibletoaster/tilematcher/mapfile"
	"github.com/submersibletoaster/tilematcher/match"
	"github.com/submersibletoaster/tilematcher/pack"
	"github.com/submersibletoaster/tilematcher/prepare"
	"github.com/submersibletoaster/tilematcher/preview"
	"github.com/submersibletoaster/tilematcher/signature"
	"github.com/submersibletoaster/tilematcher/tileset"
)

func conversionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "map.json", Usage: "map descriptor to write"},
		&cli.StringFlag{Name: "collision", Usage: "comma separated collision tile indices"},
		&cli.StringFlag{Name: "source", Usage: "description stored in the map"},
		&cli.StringFlag{Name: "resize", Usage: "resize SOURCE to COLSxROWS tiles first"},
		&cli.IntFlag{Name: "quantize", Usage: "reduce SOURCE to N colours first"},
		&cli.StringFlag{Name: "quantizer", Value: string(prepare.MedianCut), Usage: "median, hierarchical or kmeans"},
		&cli.StringFlag{Name: "dither", Usage: "error diffusion kernel used by --quantize"},
		&cli.BoolFlag{Name: "show", Usage: "show the palette inline in the terminal"},
	}
}

func sheetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "columns", Usage: "tiles per row of the tileset sheet"},
		&cli.BoolFlag{Name: "labels", Usage: "draw tile indices on the sheet"},
	}
}

func signatureFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "signature", Usage: "mean, downsampled or dhash"},
		&cli.IntFlag{Name: "reduction", Usage: "downsampled signature reduction factor"},
		&cli.BoolFlag{Name: "kdtree", Usage: "index mean signatures in a k-d tree"},
	}
}

func needArgs(c *cli.Context, n int) {
	if c.NArg() < n {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// loadSource reads SOURCE and applies --resize and --quantize.
func loadSource(c *cli.Context, path string) (image.Image, error) {
	img, err := imageio.Load(path)
	if err != nil {
		return nil, err
	}
	if s := c.String("resize"); s != "" {
		cols, rows, err := prepare.ParseGrid(s)
		if err != nil {
			return nil, err
		}
		if img, err = prepare.Resize(img, cols, rows, cfg.TileSize); err != nil {
			return nil, err
		}
	}
	if n := c.Int("quantize"); n > 0 {
		trimmed := prepare.Trim(img, cfg.TileSize)
		pal, err := prepare.Palette(trimmed, n, prepare.Quantizer(c.String("quantizer")))
		if err != nil {
			return nil, err
		}
		if c.Bool("show") {
			preview.Show(pal)
		}
		if img, err = prepare.Remap(trimmed, pal, c.String("dither")); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// collision resolves the collision tiles for a map built in mode. Tilesets
// discovered from SOURCE have none unless they are configured.
func collision(c *cli.Context, mode tilematcher.Mode) ([]int, error) {
	if c.IsSet("collision") {
		return config.ParseInts(c.String("collision"))
	}
	return cfg.CollisionTiles(mode == tilematcher.Dedup || mode == tilematcher.Extract), nil
}

func describe(c *cli.Context, def string) string {
	if s := c.String("source"); s != "" {
		return s
	}
	return def
}

func columns(c *cli.Context) int {
	if c.IsSet("columns") {
		return c.Int("columns")
	}
	return cfg.Columns
}

func signer(c *cli.Context) (signature.Signer, error) {
	if c.IsSet("signature") {
		cfg.Signature = c.String("signature")
	}
	if c.IsSet("reduction") {
		cfg.Reduction = c.Int("reduction")
	}
	return cfg.Signer()
}

// reference loads a tileset image as a matching index.
func reference(c *cli.Context, path string) (*tileset.Index, error) {
	s, err := signer(c)
	if err != nil {
		return nil, err
	}
	img, err := imageio.Load(path)
	if err != nil {
		return nil, err
	}
	idx, err := tileset.FromImage(img, cfg.TileSize, s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if c.Bool("kdtree") || (!c.IsSet("kdtree") && cfg.KDTree) {
		if err := idx.UseTree(); err != nil {
			return nil, err
		}
	}
	log.Infof("%s: %d reference tiles, %s signatures", path, idx.Len(), s.Kind())
	return idx, nil
}

// convert runs opts over SOURCE and writes the map.
func convert(c *cli.Context, opts tilematcher.Options) (*tilematcher.Result, error) {
	path := c.Args().First()
	img, err := loadSource(c, path)
	if err != nil {
		return nil, err
	}
	if opts.Collision, err = collision(c, opts.Mode); err != nil {
		return nil, err
	}
	opts.TileSize = cfg.TileSize
	opts.Workers = cfg.Workers
	opts.Every = cfg.ProgressEvery
	opts.Observer = observer()
	opts.Description = describe(c, fmt.Sprintf("%s from %s", opts.Mode, filepath.Base(path)))

	ctx, cancel := interruptible()
	defer cancel()
	res, err := tilematcher.Convert(ctx, img, opts)
	if err != nil {
		return nil, err
	}
	for _, u := range res.Map.Stats() {
		log.Infof("tile %3d: %4d (%5.1f%%)", u.Tile, u.Count, u.Percent)
	}
	return res, res.Map.Save(c.String("out"))
}

func matchCommand() *cli.Command {
	return &cli.Command{
		Name:      "match",
		Usage:     "Map SOURCE onto the nearest tiles of a reference tileset",
		ArgsUsage: "SOURCE",
		Flags: append(append(conversionFlags(), signatureFlags()...),
			&cli.StringFlag{Name: "tileset", Aliases: []string{"t"}, Required: true, Usage: "reference tileset image"},
		),
		Action: func(c *cli.Context) error {
			needArgs(c, 1)
			idx, err := reference(c, c.String("tileset"))
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			_, err = convert(c, tilematcher.Options{
				Mode:         tilematcher.Match,
				Reference:    idx,
				TilesetImage: filepath.Base(c.String("tileset")),
			})
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			return nil
		},
	}
}

func discoverCommand(name, usage string, extract bool) *cli.Command {
	mode := tilematcher.Dedup
	if extract {
		mode = tilematcher.Extract
	}
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "SOURCE",
		Flags: append(append(conversionFlags(), sheetFlags()...),
			&cli.StringFlag{Name: "tileset-out", Aliases: []string{"t"}, Value: "tileset.png", Usage: "tileset sheet to write"},
		),
		Action: func(c *cli.Context) error {
			needArgs(c, 1)
			out := c.String("tileset-out")
			res, err := convert(c, tilematcher.Options{Mode: mode, TilesetImage: filepath.Base(out)})
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			cols := columns(c)
			sheet := pack.Pack(res.Tiles, cols, nil)
			if c.Bool("labels") {
				pack.Label(sheet, cfg.TileSize, cols, res.Tiles.Len(), color.White)
			}
			if err := imageio.Save(out, sheet); err != nil {
				return cli.NewExitError(err, 1)
			}
			return nil
		},
	}
}

func bucketCommand() *cli.Command {
	return &cli.Command{
		Name:      "bucket",
		Usage:     "Classify each cell of SOURCE by colour into terrain tiles",
		ArgsUsage: "SOURCE",
		Flags: append(conversionFlags(),
			&cli.StringFlag{Name: "color-source", Usage: "mean or dominant"},
			&cli.StringFlag{Name: "tileset", Aliases: []string{"t"}, Usage: "tileset image named in the map"},
		),
		Action: func(c *cli.Context) error {
			needArgs(c, 1)
			if c.IsSet("color-source") {
				cfg.ColorSource = c.String("color-source")
			}
			src, err := match.ParseColorSource(cfg.ColorSource)
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			rules := cfg.Rules()
			opts := tilematcher.Options{Mode: tilematcher.Bucket, Rules: rules, Source: src}
			if c.IsSet("tileset") {
				opts.TilesetImage = filepath.Base(c.String("tileset"))
			}
			res, err := convert(c, opts)
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			if c.Bool("show") {
				preview.Show(preview.Colors(res.Grid, preview.SwatchPalette(rules)))
			}
			return nil
		},
	}
}

func refCommand() *cli.Command {
	return &cli.Command{
		Name:      "ref",
		Usage:     "Check that every tile of TILESET matches itself first",
		ArgsUsage: "TILESET",
		Flags:     signatureFlags(),
		Action: func(c *cli.Context) error {
			needArgs(c, 1)
			idx, err := reference(c, c.Args().First())
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			nearest, err := match.NewNearest(idx)
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			perfect, shadowed := 0, 0
			for _, e := range idx.Entries() {
				r := nearest.Rank(e.Image, 3)
				if r[0].Index == e.Index {
					perfect++
					continue
				}
				shadowed++
				fmt.Fprintf(c.App.Writer, "%d\t", e.Index)
				for _, m := range r {
					fmt.Fprintf(c.App.Writer, "%.2f,%d\t", m.Score, m.Index)
				}
				fmt.Fprintln(c.App.Writer)
			}
			log.Infof("Perfect 1st match %d, shadowed %d", perfect, shadowed)
			return nil
		},
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Draw MAP with the tiles of a tileset image",
		ArgsUsage: "MAP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tileset", Aliases: []string{"t"}, Required: true, Usage: "tileset image"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "render.png", Usage: "image to write"},
		},
		Action: func(c *cli.Context) error {
			needArgs(c, 1)
			m, err := mapfile.Load(c.Args().First())
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			tiles, err := loadSheet(c.String("tileset"), m.TileSize)
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			img, err := pack.Render(m.Grid(), tiles)
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			if err := imageio.Save(c.String("out"), img); err != nil {
				return cli.NewExitError(err, 1)
			}
			return nil
		},
	}
}

func loadSheet(path string, tileSize int) (*tileset.Index, error) {
	img, err := imageio.Load(path)
	if err != nil {
		return nil, err
	}
	return tileset.FromImage(img, tileSize, signature.Mean{})
}

func resizeFlags(out string) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "width", Required: true, Usage: "new width in tiles"},
		&cli.IntFlag{Name: "height", Required: true, Usage: "new height in tiles"},
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: out, Usage: "map descriptor to write"},
	}
}

func padCommand() *cli.Command {
	return &cli.Command{
		Name:      "pad",
		Usage:     "Centre MAP on a larger map filled with one tile",
		ArgsUsage: "MAP",
		Flags:     append(resizeFlags("padded.json"), &cli.IntFlag{Name: "fill", Usage: "tile index around the original"}),
		Action: func(c *cli.Context) error {
			needArgs(c, 1)
			m, err := mapfile.Load(c.Args().First())
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			p, err := m.Pad(c.Int("width"), c.Int("height"), c.Int("fill"))
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			if err := p.Save(c.String("out")); err != nil {
				return cli.NewExitError(err, 1)
			}
			return nil
		},
	}
}

func repeatCommand() *cli.Command {
	return &cli.Command{
		Name:      "repeat",
		Usage:     "Repeat MAP across a larger map",
		ArgsUsage: "MAP",
		Flags:     resizeFlags("repeated.json"),
		Action: func(c *cli.Context) error {
			needArgs(c, 1)
			m, err := mapfile.Load(c.Args().First())
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			r, err := m.Repeat(c.Int("width"), c.Int("height"))
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			if err := r.Save(c.String("out")); err != nil {
				return cli.NewExitError(err, 1)
			}
			return nil
		},
	}
}

func previewCommand() *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Usage:     "Draw MAP in the terminal",
		ArgsUsage: "MAP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tileset", Aliases: []string{"t"}, Usage: "colour cells by their tile's mean colour"},
			&cli.BoolFlag{Name: "show", Usage: "show the palette inline in the terminal"},
		},
		Action: func(c *cli.Context) error {
			needArgs(c, 1)
			m, err := mapfile.Load(c.Args().First())
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			p := preview.SwatchPalette(cfg.Rules())
			if path := c.String("tileset"); path != "" {
				tiles, err := loadSheet(path, m.TileSize)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				p = preview.TilePalette(tiles)
			}
			g := m.Grid()
			if err := preview.WriteANSI(c.App.Writer, g, p); err != nil {
				return cli.NewExitError(err, 1)
			}
			if c.Bool("show") {
				preview.Show(preview.Colors(g, p))
			}
			return nil
		},
	}
}
