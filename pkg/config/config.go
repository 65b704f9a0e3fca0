// Package config is for app wide settings that are unmarshalled from Viper
// (see: /cmd). Defaults live here; the CLI binds flags and an optional YAML
// file on top of them.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/masstools/massalign/pkg/align"
	"github.com/masstools/massalign/pkg/isobaric"
	"github.com/masstools/massalign/pkg/mass"
)

// AlignConfig is settings for the alignment engine.
type AlignConfig struct {
	// scoring constants
	Match        int `mapstructure:"match"`
	MassMismatch int `mapstructure:"mass-mismatch"`
	Mismatch     int `mapstructure:"mismatch"`
	GapOpen      int `mapstructure:"gap-open"`
	GapExtend    int `mapstructure:"gap-extend"`
	MassBase     int `mapstructure:"mass-base"`
	MassStep     int `mapstructure:"mass-step"`

	// the longest residue run considered for one mass match
	MaxRunLength int `mapstructure:"max-run-length"`
}

// IsobaricConfig is settings for isobaric generation.
type IsobaricConfig struct {
	// the maximum number of generated sequences
	MaxResults int `mapstructure:"max-results"`

	// the maximum candidate length (0 = derived from the target mass)
	MaxDepth int `mapstructure:"max-depth"`
}

// SearchConfig is settings for database search.
type SearchConfig struct {
	// how many ranked hits to keep (0 = all)
	TopN int `mapstructure:"top-n"`

	// worker count (0 = one per CPU)
	Threads int `mapstructure:"threads"`
}

// Config is the root-level settings struct, a mix of settings available in
// the optional config file and those available from the command line.
type Config struct {
	// mass tolerance, e.g. "10ppm" or "0.5da"
	Tolerance string `mapstructure:"tolerance"`

	Align    AlignConfig    `mapstructure:"align"`
	Isobaric IsobaricConfig `mapstructure:"isobaric"`
	Search   SearchConfig   `mapstructure:"search"`
}

// SetDefaults registers every setting's default with Viper; flag and file
// values override them.
func SetDefaults() {
	sc := align.DefaultScoring()
	viper.SetDefault("tolerance", sc.Tolerance.String())
	viper.SetDefault("align.match", sc.Match)
	viper.SetDefault("align.mass-mismatch", sc.MassMismatch)
	viper.SetDefault("align.mismatch", sc.Mismatch)
	viper.SetDefault("align.gap-open", sc.GapOpen)
	viper.SetDefault("align.gap-extend", sc.GapExtend)
	viper.SetDefault("align.mass-base", sc.MassBase)
	viper.SetDefault("align.mass-step", sc.MassStep)
	viper.SetDefault("align.max-run-length", sc.MaxRunLength)
	viper.SetDefault("isobaric.max-results", isobaric.DefaultMaxResults)
	viper.SetDefault("isobaric.max-depth", 0)
	viper.SetDefault("search.top-n", 10)
	viper.SetDefault("search.threads", 0)
}

// New returns a Config populated by Viper settings.
func New() (Config, error) {
	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("unable to decode settings: %w", err)
	}
	return c, nil
}

// Scoring builds alignment scoring constants from the config, parsing and
// validating the tolerance.
func (c Config) Scoring() (align.Scoring, error) {
	tol, err := mass.ParseTolerance(c.Tolerance)
	if err != nil {
		return align.Scoring{}, err
	}
	sc := align.Scoring{
		Match:        c.Align.Match,
		MassMismatch: c.Align.MassMismatch,
		Mismatch:     c.Align.Mismatch,
		GapOpen:      c.Align.GapOpen,
		GapExtend:    c.Align.GapExtend,
		MassBase:     c.Align.MassBase,
		MassStep:     c.Align.MassStep,
		MaxRunLength: c.Align.MaxRunLength,
		Tolerance:    tol,
	}
	if err := sc.Validate(); err != nil {
		return align.Scoring{}, err
	}
	return sc, nil
}

// IsobaricOptions builds generation options from the config.
func (c Config) IsobaricOptions(tol mass.Tolerance) isobaric.Options {
	return isobaric.Options{
		Tolerance:  tol,
		MaxResults: c.Isobaric.MaxResults,
		MaxDepth:   c.Isobaric.MaxDepth,
	}
}
