package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/driftfield/internal/field"
)

type Preset struct {
	Description string
	Params      field.Params
}

// Presets overlay the default field parameters; zero fields keep the
// default.
var Presets = map[string]*Preset{
	"calm": {
		Description: "slow drift, short gentle links",
		Params: field.Params{
			Drift:             0.1,
			LinkDistance:      100,
			InteractionRadius: 110,
			RepelScale:        0.3,
			Ease:              0.03,
		},
	},
	"default": {
		Description: "the standard hero background",
		Params:      field.Params{},
	},
	"dense": {
		Description: "twice the population, fainter links",
		Params: field.Params{
			AreaPerParticle: 7500,
			MaxParticles:    200,
			LinkOpacity:     0.12,
		},
	},
	"storm": {
		Description: "fast drift and a strong wide pointer",
		Params: field.Params{
			Drift:             0.8,
			InteractionRadius: 220,
			RepelScale:        1.2,
			Ease:              0.08,
		},
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset replaces c.Params with the named preset over the defaults.
func (c *Config) ApplyPreset(name string) error {
	p := GetPreset(name)
	if p == nil {
		return fmt.Errorf("unknown preset %q (have %v)", name, ListPresets())
	}
	c.Preset = name
	c.Params = field.DefaultParams().Merge(p.Params)
	return nil
}
