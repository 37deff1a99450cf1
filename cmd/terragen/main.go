// terragen synthesizes procedural terrain rasters, river site networks and
// thresholded bridge sketches.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/terragen/internal/bridges"
	"github.com/Faultbox/terragen/internal/config"
	"github.com/Faultbox/terragen/internal/fractal"
	"github.com/Faultbox/terragen/internal/logger"
	"github.com/Faultbox/terragen/internal/raster"
	"github.com/Faultbox/terragen/internal/rivers"
	"github.com/Faultbox/terragen/internal/terrain"
	"github.com/Faultbox/terragen/internal/tile"
	"github.com/Faultbox/terragen/pkg/math"
	"github.com/Faultbox/terragen/pkg/noise"
)

func main() {
	config.ParseFlags()

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)
	logger.Info("Command started", zap.String("command", command), zap.String("profile", cfg.Profile))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch command {
	case "tiles":
		err = cmdTiles(ctx, cfg)
	case "rivers":
		err = cmdRivers(cfg)
	case "bridges":
		err = cmdBridges(cfg)
	case "multi":
		err = cmdMulti(cfg)
	case "sample":
		err = cmdSample(cfg, args[1:])
	case "config":
		err = cmdConfig(cfg, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		stop()
		logger.Fatal(command+" failed", zap.Error(err))
	}
}

func printUsage() {
	fmt.Println(`terragen - procedural terrain raster generator

Usage:
  terragen [flags] <command> [args]

Commands:
  tiles              Render ground, terrace, water and ramp rasters per variant
  rivers             Render the river site network overlay
  bridges            Render the raw, terraced and bridged sketch rasters
  multi              Render the multifractal height map
  sample <x> <y>     Print the pipeline evaluation at a normalized point
  config             Print the effective configuration as YAML
  config save [path] Save the effective configuration (default: config dir)

Flags:
  -config <path>     Config file (default ./terragen.yaml)
  -profile <name>    Tuning profile (classic, blended)
  -out <dir>         Output directory
  -format <fmt>      Raster format (png, bmp, tiff)
  -backend <name>    Noise backend (perlin, simplex)
  -seed <n>          Noise seed offset
  -width, -height    Raster size in pixels
  -variants <n>      Number of variants
  -workers <n>       Concurrent variant workers (0 = GOMAXPROCS)
  -debug             Enable debug logging

Examples:
  terragen tiles
  terragen -profile blended -variants 8 -format tiff tiles
  terragen sample 0.25 0.75`)
}

func fieldSet(cfg *config.Config, count int) (*noise.Set, error) {
	return noise.NewSet(noise.Backend(cfg.Noise.Backend), cfg.Noise.Seed, count)
}

func cmdTiles(ctx context.Context, cfg *config.Config) error {
	log := logger.Named("tiles")

	format, err := raster.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	fields, err := fieldSet(cfg, cfg.Noise.Fields)
	if err != nil {
		return err
	}
	pl, err := terrain.FromConfig(cfg, fields)
	if err != nil {
		return err
	}

	d := &tile.Driver{
		Pipeline: pl,
		Width:    cfg.Grid.Width,
		Height:   cfg.Grid.Height,
		Workers:  cfg.Variants.Workers,
		Sinks:    raster.FileFactory(cfg.Output.Dir, format),
		Log:      log,
	}

	start := time.Now()
	results, err := d.Run(ctx, terrain.Variants(cfg.Variants.Count, cfg.Variants.PhaseStep))
	if err != nil {
		return err
	}

	var total noise.Diagnostics
	for i := range results {
		total.Merge(&results[i].Diagnostics)
	}
	log.Info("Tiles complete",
		zap.String("profile", cfg.Profile),
		zap.Int("variants", len(results)),
		zap.String("dir", cfg.Output.Dir),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("defects", total.OutOfRange),
	)
	if total.OutOfRange > 0 {
		log.Warn("Out-of-range samples were clamped", zap.String("last", total.LastDefect))
	}
	return nil
}

func cmdRivers(cfg *config.Config) error {
	log := logger.Named("rivers")

	format, err := raster.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	g := rivers.Generator{
		Seed:   cfg.Rivers.Seed,
		Sites:  cfg.Rivers.Sites,
		Width:  cfg.Rivers.Width,
		Height: cfg.Rivers.Height,
	}
	n, err := g.Generate()
	if err != nil {
		return err
	}

	sink, err := raster.FileFactory(cfg.Output.Dir, format)("rivers", n.Width, n.Height)
	if err != nil {
		return err
	}
	if err := n.Render(sink); err != nil {
		return err
	}
	log.Info("Rivers rendered",
		zap.Int("sites", len(n.Nodes)),
		zap.Int("vertices", len(n.Vertices)),
		zap.Int("site_pixels", n.Count(rivers.SiteColor)),
	)
	return nil
}

func cmdBridges(cfg *config.Config) error {
	log := logger.Named("bridges")

	format, err := raster.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	fields, err := fieldSet(cfg, bridges.Fields)
	if err != nil {
		return err
	}
	g := bridges.Generator{
		Fields:      fields,
		Width:       cfg.Grid.Width,
		Height:      cfg.Grid.Height,
		Seed:        cfg.Bridges.Seed,
		Probability: cfg.Bridges.Probability,
	}
	s, err := g.Generate()
	if err != nil {
		return err
	}

	sinks, err := raster.CreateAll(raster.FileFactory(cfg.Output.Dir, format), s.Width, s.Height,
		"sketch_raw", "sketch_terraced", "sketch_bridged")
	if err != nil {
		return err
	}
	if err := s.Render(sinks[0], sinks[1], sinks[2]); err != nil {
		return err
	}

	var marked int
	for _, v := range s.Bridged {
		if v == 255 {
			marked++
		}
	}
	log.Info("Bridges rendered", zap.Int("bridges", marked))
	return nil
}

func cmdSample(cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: terragen sample <x> <y>")
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("parsing x: %w", err)
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("parsing y: %w", err)
	}
	p := math.Vec2{X: x, Y: y}

	fields, err := fieldSet(cfg, cfg.Noise.Fields)
	if err != nil {
		return err
	}
	pl, err := terrain.FromConfig(cfg, fields)
	if err != nil {
		return err
	}

	var diag noise.Diagnostics
	v := terrain.Variant{}
	s := pl.Evaluate(p, v, &diag)
	px := pl.Pixel(p, v, &diag)

	fmt.Printf("Point:   (%.4f, %.4f)\n", x, y)
	fmt.Printf("Ground:  %.4f\n", s.Ground)
	fmt.Printf("Terrace: level %d height %.4f ramp %v\n", s.Terrace.Level, s.Terrace.Height, s.Terrace.Ramp)
	fmt.Printf("Water:   level %.4f wet %v\n", s.Water, s.Ground < s.Water)
	for i, ch := range px.Channels() {
		fmt.Printf("  %-8s %v\n", tile.Channels[i], ch)
	}

	n, err := rivers.Generator{
		Seed:   cfg.Rivers.Seed,
		Sites:  cfg.Rivers.Sites,
		Width:  cfg.Rivers.Width,
		Height: cfg.Rivers.Height,
	}.Generate()
	if err != nil {
		return err
	}
	land, err := n.LandAt(p)
	if err != nil {
		return err
	}
	fmt.Printf("Rivers:  closest sites %v\n", land.RiverSupports)
	return nil
}

func cmdMulti(cfg *config.Config) error {
	log := logger.Named("multi")

	format, err := raster.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	fields, err := fieldSet(cfg, cfg.Multi.Octaves)
	if err != nil {
		return err
	}
	octaves, err := fields.Range(0, cfg.Multi.Octaves)
	if err != nil {
		return err
	}
	m := fractal.Map{
		Noise: noise.Multi{
			Fields:      octaves,
			Frequency:   cfg.Multi.Frequency,
			Lacunarity:  cfg.Multi.Lacunarity,
			Persistence: cfg.Multi.Persistence,
		},
		Width:  cfg.Grid.Width,
		Height: cfg.Grid.Height,
	}

	sink, err := raster.FileFactory(cfg.Output.Dir, format)("multi", m.Width, m.Height)
	if err != nil {
		return err
	}
	var diag noise.Diagnostics
	if err := m.Render(sink, &diag); err != nil {
		return err
	}
	log.Info("Multifractal rendered",
		zap.Int("octaves", cfg.Multi.Octaves),
		zap.Float64("min", diag.Min),
		zap.Float64("max", diag.Max),
	)
	return nil
}

func cmdConfig(cfg *config.Config, args []string) error {
	if len(args) > 0 && args[0] == "save" {
		if len(args) > 1 {
			return cfg.SaveTo(args[1])
		}
		return cfg.Save()
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
