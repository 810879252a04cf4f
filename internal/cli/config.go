package cli

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/blockcanvas/pkg/board"
	"github.com/matzehuels/blockcanvas/pkg/errors"
	"github.com/matzehuels/blockcanvas/pkg/geom"
	"github.com/matzehuels/blockcanvas/pkg/gesture"
	"github.com/matzehuels/blockcanvas/pkg/placement"
	"github.com/matzehuels/blockcanvas/pkg/schedule"
	"github.com/matzehuels/blockcanvas/pkg/snap"
)

// =============================================================================
// Configuration
// =============================================================================

const (
	// configName is the base name of the config file (blockcanvas.toml).
	configName = appName

	// envPrefix prefixes environment overrides, e.g. BLOCKCANVAS_SNAP_TOLERANCE.
	envPrefix = "BLOCKCANVAS"
)

// fileConfig mirrors the config file layout.
type fileConfig struct {
	Canvas  map[string]geom.CanvasConfig `mapstructure:"canvas"`
	Snap    snap.Options                 `mapstructure:"snap"`
	Gesture gestureConfig                `mapstructure:"gesture"`
	Hints   map[string]geom.Size         `mapstructure:"hints"`
}

type gestureConfig struct {
	SafetyTimeout  time.Duration `mapstructure:"safety_timeout"`
	UpdateInterval time.Duration `mapstructure:"update_interval"`
}

// newViper returns a viper instance with every key defaulted, so that
// environment overrides apply even when no config file exists.
func newViper() *viper.Viper {
	v := viper.New()
	for vp, cfg := range geom.DefaultConfigs() {
		v.SetDefault("canvas."+vp.String()+".width", cfg.Width)
		v.SetDefault("canvas."+vp.String()+".grid_columns", cfg.GridColumns)
		v.SetDefault("canvas."+vp.String()+".min_height", cfg.MinHeight)
	}
	so := snap.DefaultOptions()
	v.SetDefault("snap.enabled", so.Enabled)
	v.SetDefault("snap.tolerance", so.Tolerance)
	v.SetDefault("snap.sizes", so.Sizes)
	v.SetDefault("gesture.safety_timeout", gesture.DefaultSafetyTimeout)
	v.SetDefault("gesture.update_interval", schedule.DefaultInterval)
	for typ, size := range placement.DefaultHints() {
		v.SetDefault("hints."+typ+".width", size.Width)
		v.SetDefault("hints."+typ+".height", size.Height)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig reads the board configuration. An explicit path must exist;
// otherwise blockcanvas.toml is looked up in the working directory and the
// user config directory, and built-in defaults apply when none is found.
// It returns the file used, or "" for defaults only.
func loadConfig(path string) (board.Config, string, error) {
	v := newViper()
	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case stderrors.As(err, &notFound):
		case path != "" && os.IsNotExist(err):
			return board.Config{}, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		default:
			return board.Config{}, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
		}
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return board.Config{}, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	cfg, err := fc.boardConfig()
	if err != nil {
		return board.Config{}, "", err
	}
	return cfg, v.ConfigFileUsed(), nil
}

// boardConfig validates fc and converts it.
func (fc fileConfig) boardConfig() (board.Config, error) {
	cfg := board.Config{
		Canvases:       make(map[geom.Viewport]geom.CanvasConfig, len(fc.Canvas)),
		Snap:           fc.Snap,
		Hints:          make(placement.Hints, len(fc.Hints)),
		SafetyTimeout:  fc.Gesture.SafetyTimeout,
		UpdateInterval: fc.Gesture.UpdateInterval,
	}
	for name, c := range fc.Canvas {
		vp, err := errors.ParseViewport(name)
		if err != nil {
			return board.Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "canvas")
		}
		cfg.Canvases[vp] = c
	}
	for typ, size := range fc.Hints {
		if err := errors.ValidateBlockType(typ); err != nil {
			return board.Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "hints")
		}
		if size.Width < geom.MinWidth || size.Height < geom.MinHeight {
			return board.Config{}, errors.New(errors.ErrCodeInvalidConfig,
				"hints.%s: size %vx%v is below the %vx%v minimum", typ, size.Width, size.Height, geom.MinWidth, geom.MinHeight)
		}
		cfg.Hints[typ] = size
	}
	if cfg.SafetyTimeout <= 0 {
		return board.Config{}, errors.New(errors.ErrCodeInvalidConfig, "gesture.safety_timeout must be positive")
	}
	if cfg.UpdateInterval <= 0 {
		return board.Config{}, errors.New(errors.ErrCodeInvalidConfig, "gesture.update_interval must be positive")
	}
	if err := cfg.Validate(); err != nil {
		return board.Config{}, err
	}
	return cfg, nil
}

// configDir returns the config directory using XDG standard (~/.config/blockcanvas/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
