package config

import (
	"fmt"
	"sort"
)

// Profile names.
const (
	ProfileClassic = "classic"
	ProfileBlended = "blended"
)

var profiles = map[string]func() *Config{
	ProfileClassic: Default,
	ProfileBlended: blended,
}

// Profile returns the defaults of a named tuning profile.
// An empty name selects the classic profile.
func Profile(name string) (*Config, error) {
	if name == "" {
		name = ProfileClassic
	}
	build, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q (have %v)", name, ProfileNames())
	}
	return build(), nil
}

// ProfileNames lists the known profiles in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// blended adds the sorted-sample ground blend and rescales the terrace pass.
func blended() *Config {
	cfg := Default()
	cfg.Profile = ProfileBlended
	cfg.Ground.Octaves.Factor = 2.03
	cfg.Ground.Blend = BlendConfig{
		Enabled: true,
		Offset:  2,
		Scalar:  4.0,
		Factor:  2.1,
	}
	cfg.Terrace.Count = 12
	cfg.Terrace.Octaves.Factor = 2.1
	cfg.Terrace.Octaves.Gain = 1.9
	return cfg
}
