// Package config loads pixel-play settings from defaults, an optional TOML
// file, PIXELPLAY_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lixenwraith/pixel-play/constants"
	"github.com/lixenwraith/pixel-play/engine"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

const envPrefix = "PIXELPLAY"

type Config struct {
	Engine   Engine   `mapstructure:"engine" toml:"engine"`
	Surface  Surface  `mapstructure:"surface" toml:"surface"`
	Display  Display  `mapstructure:"display" toml:"display"`
	Audio    Audio    `mapstructure:"audio" toml:"audio"`
	Log      Log      `mapstructure:"log" toml:"log"`
	Snapshot Snapshot `mapstructure:"snapshot" toml:"snapshot"`

	// Seed for the random source; 0 picks a time-based seed
	Seed int64 `mapstructure:"seed" toml:"seed"`
}

type Engine struct {
	RecolorProbability float64  `mapstructure:"recolor_probability" toml:"recolor_probability"`
	OutwardProbability float64  `mapstructure:"outward_probability" toml:"outward_probability"`
	InwardProbability  float64  `mapstructure:"inward_probability" toml:"inward_probability"`
	MaxIterations      int      `mapstructure:"max_iterations" toml:"max_iterations"`
	StartDelay         Duration `mapstructure:"start_delay" toml:"start_delay"`
	ColorRetries       int      `mapstructure:"color_retries" toml:"color_retries"`
	ClearOnRestart     bool     `mapstructure:"clear_on_restart" toml:"clear_on_restart"`
	RecolorOnSeed      bool     `mapstructure:"recolor_on_seed" toml:"recolor_on_seed"`
}

type Surface struct {
	Width  int `mapstructure:"width" toml:"width"`
	Height int `mapstructure:"height" toml:"height"`
}

type Display struct {
	// ColorMode is auto, truecolor or 256
	ColorMode     string   `mapstructure:"color" toml:"color"`
	FrameInterval Duration `mapstructure:"frame_interval" toml:"frame_interval"`
}

type Audio struct {
	Enabled bool    `mapstructure:"enabled" toml:"enabled"`
	Volume  float64 `mapstructure:"volume" toml:"volume"`
}

type Log struct {
	Level string `mapstructure:"level" toml:"level"`
	File  string `mapstructure:"file" toml:"file"`
}

type Snapshot struct {
	Path  string `mapstructure:"path" toml:"path"`
	Scale int    `mapstructure:"scale" toml:"scale"`
}

// Default returns the stock configuration
func Default() Config {
	p := engine.DefaultParams()
	return Config{
		Engine: Engine{
			RecolorProbability: p.RecolorProbability,
			OutwardProbability: p.OutwardProbability,
			InwardProbability:  p.InwardProbability,
			MaxIterations:      p.MaxIterations,
			StartDelay:         Duration(p.StartDelay),
			ColorRetries:       p.ColorRetries,
			ClearOnRestart:     p.ClearOnRestart,
			RecolorOnSeed:      p.RecolorOnSeed,
		},
		Surface: Surface{
			Width:  constants.SurfaceWidth,
			Height: constants.SurfaceHeight,
		},
		Display: Display{
			ColorMode:     "auto",
			FrameInterval: Duration(constants.FrameUpdateInterval),
		},
		Audio: Audio{},
		Log: Log{
			Level: "info",
		},
		Snapshot: Snapshot{
			Path:  constants.SnapshotPath,
			Scale: constants.SnapshotScale,
		},
	}
}

// Params converts the engine section to engine parameters
func (e Engine) Params() engine.Params {
	return engine.Params{
		RecolorProbability: e.RecolorProbability,
		OutwardProbability: e.OutwardProbability,
		InwardProbability:  e.InwardProbability,
		MaxIterations:      e.MaxIterations,
		StartDelay:         e.StartDelay.ToDuration(),
		ColorRetries:       e.ColorRetries,
		ClearOnRestart:     e.ClearOnRestart,
		RecolorOnSeed:      e.RecolorOnSeed,
	}
}

// boundFlags are the flag names DefineFlags registers; each doubles as its config key
var boundFlags = []string{
	"seed",
	"engine.max_iterations",
	"engine.clear_on_restart",
	"engine.recolor_on_seed",
	"display.color",
	"display.frame_interval",
	"audio.enabled",
	"log.level",
	"log.file",
	"snapshot.path",
	"snapshot.scale",
}

// DefineFlags registers the overridable settings on cmd
func DefineFlags(cmd *cobra.Command) {
	d := Default()
	cmd.PersistentFlags().StringP("config", "c", "", "path to TOML config file")
	cmd.PersistentFlags().Int64("seed", d.Seed, "random seed, 0 for time-based")
	cmd.PersistentFlags().Int("engine.max_iterations", d.Engine.MaxIterations, "propagation frames per start")
	cmd.PersistentFlags().Bool("engine.clear_on_restart", d.Engine.ClearOnRestart, "clear the surface when propagation restarts from a new seed")
	cmd.PersistentFlags().Bool("engine.recolor_on_seed", d.Engine.RecolorOnSeed, "recolor the seed as soon as it is placed")
	cmd.PersistentFlags().String("display.color", d.Display.ColorMode, "color mode: auto, truecolor, 256")
	cmd.PersistentFlags().String("display.frame_interval", d.Display.FrameInterval.String(), "frame tick interval")
	cmd.PersistentFlags().Bool("audio.enabled", d.Audio.Enabled, "play sound cues")
	cmd.PersistentFlags().String("log.level", d.Log.Level, "log level: trace, debug, info, warn, error or none")
	cmd.PersistentFlags().String("log.file", d.Log.File, "log file; interactive mode discards logs without one")
	cmd.PersistentFlags().String("snapshot.path", d.Snapshot.Path, "PNG snapshot path")
	cmd.PersistentFlags().Int("snapshot.scale", d.Snapshot.Scale, "snapshot upscale factor")
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("seed", d.Seed)
	v.SetDefault("engine.recolor_probability", d.Engine.RecolorProbability)
	v.SetDefault("engine.outward_probability", d.Engine.OutwardProbability)
	v.SetDefault("engine.inward_probability", d.Engine.InwardProbability)
	v.SetDefault("engine.max_iterations", d.Engine.MaxIterations)
	v.SetDefault("engine.start_delay", d.Engine.StartDelay)
	v.SetDefault("engine.color_retries", d.Engine.ColorRetries)
	v.SetDefault("engine.clear_on_restart", d.Engine.ClearOnRestart)
	v.SetDefault("engine.recolor_on_seed", d.Engine.RecolorOnSeed)
	v.SetDefault("surface.width", d.Surface.Width)
	v.SetDefault("surface.height", d.Surface.Height)
	v.SetDefault("display.color", d.Display.ColorMode)
	v.SetDefault("display.frame_interval", d.Display.FrameInterval)
	v.SetDefault("audio.enabled", d.Audio.Enabled)
	v.SetDefault("audio.volume", d.Audio.Volume)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("snapshot.path", d.Snapshot.Path)
	v.SetDefault("snapshot.scale", d.Snapshot.Scale)
}

// Load resolves the configuration. cmd may be nil; configFile may be empty.
func Load(cmd *cobra.Command, configFile string) (Config, error) {
	v := viper.NewWithOptions(viper.WithDecodeHook(mapstructure.ComposeDecodeHookFunc(
		StringToDurationHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	)))

	setDefaults(v, Default())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		for _, name := range boundFlags {
			if f := cmd.Flags().Lookup(name); f != nil {
				_ = v.BindPFlag(name, f)
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var (
	colorModes = []string{"auto", "truecolor", "true", "24bit", "256"}
	logLevels  = []string{"trace", "debug", "info", "warn", "error", "none"}
)

// Validate rejects settings the engine or host cannot run with
func (c Config) Validate() error {
	probs := []struct {
		key string
		val float64
	}{
		{"engine.recolor_probability", c.Engine.RecolorProbability},
		{"engine.outward_probability", c.Engine.OutwardProbability},
		{"engine.inward_probability", c.Engine.InwardProbability},
	}
	for _, p := range probs {
		if p.val < 0 || p.val > 1 {
			return fmt.Errorf("%w: %s must be within [0, 1], got %v", ErrInvalid, p.key, p.val)
		}
	}

	switch {
	case c.Engine.MaxIterations <= 0:
		return fmt.Errorf("%w: engine.max_iterations must be positive, got %d", ErrInvalid, c.Engine.MaxIterations)
	case c.Engine.StartDelay < 0:
		return fmt.Errorf("%w: engine.start_delay must not be negative, got %s", ErrInvalid, c.Engine.StartDelay)
	case c.Engine.ColorRetries < 1:
		return fmt.Errorf("%w: engine.color_retries must be at least 1, got %d", ErrInvalid, c.Engine.ColorRetries)
	case c.Surface.Width <= 0 || c.Surface.Height <= 0:
		return fmt.Errorf("%w: surface must be positive, got %dx%d", ErrInvalid, c.Surface.Width, c.Surface.Height)
	case c.Display.FrameInterval <= 0:
		return fmt.Errorf("%w: display.frame_interval must be positive, got %s", ErrInvalid, c.Display.FrameInterval)
	case c.Snapshot.Scale < 1:
		return fmt.Errorf("%w: snapshot.scale must be at least 1, got %d", ErrInvalid, c.Snapshot.Scale)
	}

	if !contains(colorModes, strings.ToLower(c.Display.ColorMode)) {
		return fmt.Errorf("%w: unknown display.color %q", ErrInvalid, c.Display.ColorMode)
	}
	if !contains(logLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("%w: unknown log.level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Encode writes cfg as TOML
func Encode(w io.Writer, cfg Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	return nil
}
