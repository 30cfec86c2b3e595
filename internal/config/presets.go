package config

import "sort"

type preset struct {
	desc     string
	angle    float64 // degrees
	velocity float64 // rad/s
}

var presets = map[string]preset{
	"swing-up": {"hanging almost straight down", DefaultAngle, 0},
	"upright":  {"small tilt from the top", 5, 0},
	"kick":     {"at the top with an angular kick", 0, 3},
	"inverted": {"exactly at the bottom", 180, 0},
	"far":      {"well off both equilibria, rotating back", 120, -2},
}

// GetPreset returns a fresh default config with the preset's initial
// condition, or nil.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Initial = InitialConfig{Angle: p.angle, Velocity: p.velocity}
	return cfg
}

func DescribePreset(name string) string {
	return presets[name].desc
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
