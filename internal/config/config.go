// Package config handles generator configuration loading and management.
package config

import "math"

// Config holds all generator settings.
type Config struct {
	Profile  string        `yaml:"profile"`
	Output   OutputConfig  `yaml:"output"`
	Grid     GridConfig    `yaml:"grid"`
	Noise    NoiseConfig   `yaml:"noise"`
	Ground   GroundConfig  `yaml:"ground"`
	Terrace  TerraceConfig `yaml:"terrace"`
	Water    WaterConfig   `yaml:"water"`
	Ramp     RampConfig    `yaml:"ramp"`
	Variants VariantConfig `yaml:"variants"`
	Rivers   RiverConfig   `yaml:"rivers"`
	Bridges  BridgeConfig  `yaml:"bridges"`
	Multi    MultiConfig   `yaml:"multi"`
	Logging  LoggingConfig `yaml:"logging"`
}

// OutputConfig controls where rasters are written.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // png, bmp or tiff
}

// GridConfig holds the raster dimensions of each tile.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// NoiseConfig describes the shared field set.
type NoiseConfig struct {
	Backend string `yaml:"backend"` // perlin or simplex
	Seed    int64  `yaml:"seed"`
	Fields  int    `yaml:"fields"`
}

// OctaveConfig selects a range of fields and the frequency progression over it.
type OctaveConfig struct {
	Offset   int     `yaml:"offset"`
	Count    int     `yaml:"count"`
	Scalar   float64 `yaml:"scalar"`
	Factor   float64 `yaml:"factor"`
	Gain     float64 `yaml:"gain"` // 0 disables rescaling
	Reversed bool    `yaml:"reversed"`
}

// GroundConfig holds the height-field octaves.
type GroundConfig struct {
	Octaves OctaveConfig `yaml:"octaves"`
	Blend   BlendConfig  `yaml:"blend"`
}

// BlendConfig enables the sorted-sample secondary blend.
type BlendConfig struct {
	Enabled bool    `yaml:"enabled"`
	Offset  int     `yaml:"offset"`
	Scalar  float64 `yaml:"scalar"`
	Factor  float64 `yaml:"factor"`
}

// TerraceConfig holds terrace quantization settings.
type TerraceConfig struct {
	Count          int          `yaml:"count"`
	RampProportion float64      `yaml:"ramp_proportion"`
	CloseWhenOver  float64      `yaml:"close_when_over"`
	IncWhenOver    float64      `yaml:"inc_when_over"`
	Octaves        OctaveConfig `yaml:"octaves"`
}

// WaterConfig holds water level and shading settings.
type WaterConfig struct {
	Octaves     OctaveConfig `yaml:"octaves"`
	Base        float64      `yaml:"base"`
	Amplitude   float64      `yaml:"amplitude"`
	PhaseX      float64      `yaml:"phase_x"`
	PhaseY      float64      `yaml:"phase_y"`
	DepthGain   float64      `yaml:"depth_gain"`
	DarknessCap float64      `yaml:"darkness_cap"`
	Brightness  float64      `yaml:"brightness"`
	Secondary   float64      `yaml:"secondary"`
}

// RampConfig holds the ramp texture settings.
type RampConfig struct {
	Field     int     `yaml:"field"`
	Scalar    float64 `yaml:"scalar"`
	Threshold float64 `yaml:"threshold"`
}

// VariantConfig controls the number of independent tiles.
type VariantConfig struct {
	Count     int     `yaml:"count"`
	PhaseStep float64 `yaml:"phase_step"`
	Workers   int     `yaml:"workers"` // 0 = GOMAXPROCS
}

// RiverConfig holds river network generator settings.
type RiverConfig struct {
	Seed   uint64 `yaml:"seed"`
	Sites  int    `yaml:"sites"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// BridgeConfig holds the bridges sketch settings.
type BridgeConfig struct {
	Seed        uint64  `yaml:"seed"`
	Probability float64 `yaml:"probability"`
}

// MultiConfig holds the multifractal map settings.
type MultiConfig struct {
	Octaves     int     `yaml:"octaves"`
	Frequency   float64 `yaml:"frequency"`
	Lacunarity  float64 `yaml:"lacunarity"`
	Persistence float64 `yaml:"persistence"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns the classic profile.
func Default() *Config {
	return &Config{
		Profile: ProfileClassic,
		Output: OutputConfig{
			Dir:    "images",
			Format: "png",
		},
		Grid: GridConfig{
			Width:  512,
			Height: 512,
		},
		Noise: NoiseConfig{
			Backend: "perlin",
			Seed:    0,
			Fields:  16,
		},
		Ground: GroundConfig{
			Octaves: OctaveConfig{Offset: 0, Count: 8, Scalar: 1.0, Factor: 2.0},
		},
		Terrace: TerraceConfig{
			Count:          10,
			RampProportion: 0.2,
			CloseWhenOver:  0.15,
			IncWhenOver:    0.3,
			Octaves:        OctaveConfig{Offset: 8, Count: 6, Scalar: -1.0, Factor: 2.0, Reversed: true},
		},
		Water: WaterConfig{
			Octaves:     OctaveConfig{Offset: 14, Count: 2, Scalar: 0.5, Factor: 2.0},
			Base:        0.38,
			Amplitude:   0.06,
			PhaseX:      3.7,
			PhaseY:      1.3,
			DepthGain:   7.0,
			DarknessCap: 0.6,
			Brightness:  1.0,
			Secondary:   0.35,
		},
		Ramp: RampConfig{
			Field:     15,
			Scalar:    64,
			Threshold: 0.5,
		},
		Variants: VariantConfig{
			Count:     4,
			PhaseStep: 17.0,
			Workers:   0,
		},
		Rivers: RiverConfig{
			Seed:   1,
			Sites:  9,
			Width:  512,
			Height: 512,
		},
		Bridges: BridgeConfig{
			Seed:        4,
			Probability: 0.03,
		},
		Multi: MultiConfig{
			Octaves:     6,
			Frequency:   2.0,
			Lacunarity:  2 * math.Pi / 3,
			Persistence: 0.5,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
