package config

import (
	"flag"
	"strconv"
)

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagProfile  = flag.String("profile", "", "Tuning profile (classic, blended)")
	flagOut      = flag.String("out", "", "Output directory")
	flagFormat   = flag.String("format", "", "Raster format (png, bmp, tiff)")
	flagBackend  = flag.String("backend", "", "Noise backend (perlin, simplex)")
	flagSeed     = optionalInt64("seed", "Noise seed offset (may be negative)")
	flagWidth    = flag.Int("width", 0, "Tile width in pixels")
	flagHeight   = flag.Int("height", 0, "Tile height in pixels")
	flagVariants = flag.Int("variants", 0, "Number of independent variants")
	flagWorkers  = flag.Int("workers", -1, "Concurrent variant workers (0 = GOMAXPROCS)")
)

// int64Flag is an int64 flag that remembers whether it was given, so every
// value including negative ones can be an override.
type int64Flag struct {
	value int64
	set   bool
}

func optionalInt64(name, usage string) *int64Flag {
	f := &int64Flag{}
	flag.Var(f, name, usage)
	return f
}

func (f *int64Flag) String() string {
	if f == nil {
		return "0"
	}
	return strconv.FormatInt(f.value, 10)
}

func (f *int64Flag) Set(s string) error {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	f.value, f.set = v, true
	return nil
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
	if *flagFormat != "" {
		cfg.Output.Format = *flagFormat
	}
	if *flagBackend != "" {
		cfg.Noise.Backend = *flagBackend
	}
	if flagSeed.set {
		cfg.Noise.Seed = flagSeed.value
	}
	if *flagWidth > 0 {
		cfg.Grid.Width = *flagWidth
		cfg.Rivers.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Grid.Height = *flagHeight
		cfg.Rivers.Height = *flagHeight
	}
	if *flagVariants > 0 {
		cfg.Variants.Count = *flagVariants
	}
	if *flagWorkers >= 0 {
		cfg.Variants.Workers = *flagWorkers
	}
}
