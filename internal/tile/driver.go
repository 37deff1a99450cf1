// Package tile renders independent variants of the terrain pipeline into
// per-channel rasters, one worker per variant.
package tile

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/terragen/internal/raster"
	"github.com/Faultbox/terragen/internal/terrain"
	"github.com/Faultbox/terragen/pkg/noise"
)

// Channel names one of the four rasters written per variant.
type Channel string

// Channels in emission order.
const (
	ChannelGround  Channel = "ground"
	ChannelTerrace Channel = "terrace"
	ChannelWater   Channel = "water"
	ChannelRamp    Channel = "ramp"
)

// Channels lists every channel in the order sinks are created.
var Channels = [4]Channel{ChannelGround, ChannelTerrace, ChannelWater, ChannelRamp}

// SinkName returns the raster name for a variant channel.
func SinkName(variant int, ch Channel) string {
	return fmt.Sprintf("v%d_%s", variant, ch)
}

// Driver renders variants of a pipeline.
type Driver struct {
	Pipeline *terrain.Pipeline
	Width    int
	Height   int
	Workers  int // 0 = GOMAXPROCS
	Sinks    raster.Factory
	Log      *zap.Logger
}

// Result summarizes one rendered variant.
type Result struct {
	Variant     int
	Diagnostics noise.Diagnostics
	Bytes       int64
	Elapsed     time.Duration
}

// sized is implemented by sinks that know their encoded size.
type sized interface {
	Size() int64
}

// Run renders every variant. The first failure cancels the remaining
// variants, whose rasters are removed; partial rasters are never kept.
func (d *Driver) Run(ctx context.Context, variants []terrain.Variant) ([]Result, error) {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	workers := d.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(variants))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, v := range variants {
		g.Go(func() error {
			res, err := d.render(ctx, v)
			if err != nil {
				return fmt.Errorf("variant %d: %w", v.Index, err)
			}
			results[i] = res
			log.Info("Variant rendered",
				zap.Int("variant", v.Index),
				zap.Duration("elapsed", res.Elapsed),
				zap.String("written", humanize.Bytes(uint64(res.Bytes))),
			)
			log.Debug("Variant sample range",
				zap.Int("variant", v.Index),
				zap.Int("samples", res.Diagnostics.Count),
				zap.Float64("min", res.Diagnostics.Min),
				zap.Float64("max", res.Diagnostics.Max),
				zap.Int("defects", res.Diagnostics.OutOfRange),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// render writes the four rasters of one variant in row-major order.
func (d *Driver) render(ctx context.Context, v terrain.Variant) (res Result, err error) {
	start := time.Now()
	res.Variant = v.Index

	sinks := make([]raster.Sink, 0, len(Channels))
	defer func() {
		if err != nil {
			for _, s := range sinks {
				err = multierr.Append(err, s.Abort())
			}
		}
	}()
	for _, ch := range Channels {
		s, cerr := d.Sinks(SinkName(v.Index, ch), d.Width, d.Height)
		if cerr != nil {
			return res, fmt.Errorf("creating %s sink: %w", ch, cerr)
		}
		sinks = append(sinks, s)
	}

	for yi := 0; yi < d.Height; yi++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		for xi := 0; xi < d.Width; xi++ {
			px := d.Pipeline.Pixel(terrain.Point(xi, yi, d.Width, d.Height), v, &res.Diagnostics)
			if err := writeAll(sinks, px); err != nil {
				return res, fmt.Errorf("pixel (%d,%d): %w", xi, yi, err)
			}
		}
	}

	for i, s := range sinks {
		if err := s.Flush(); err != nil {
			return res, fmt.Errorf("flushing %s: %w", Channels[i], err)
		}
		if sz, ok := s.(sized); ok {
			res.Bytes += sz.Size()
		}
	}
	res.Elapsed = time.Since(start)
	return res, nil
}

func writeAll(sinks []raster.Sink, px terrain.Pixel) error {
	for i, c := range px.Channels() {
		if err := sinks[i].WritePixel(c); err != nil {
			return fmt.Errorf("%s: %w", Channels[i], err)
		}
	}
	return nil
}
