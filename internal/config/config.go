package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	Console ConsoleConfig `mapstructure:"console"`
	Logging LoggingConfig `mapstructure:"logging"`
	History HistoryConfig `mapstructure:"history"`
}

// GameConfig holds match rules
type GameConfig struct {
	WinningScore int    `mapstructure:"winning_score"`
	FirstMover   string `mapstructure:"first_mover"`
	Seed         int64  `mapstructure:"seed"`
	// HumanMarker is X or O; the computer always plays the other one
	HumanMarker string `mapstructure:"human_marker"`
}

// ConsoleConfig holds terminal presentation settings
type ConsoleConfig struct {
	ClearScreen bool `mapstructure:"clear_screen"`
	Color       bool `mapstructure:"color"`
}

// LoggingConfig holds diagnostic log settings. Logs never go to stdout.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// HistoryConfig controls the match history file
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// ErrNoConfigFile is returned by Watch when only defaults, env and flags are in use
var ErrNoConfigFile = errors.New("no config file loaded")

// flagKeys maps command-line flag names to config keys
var flagKeys = map[string]string{
	"winning-score": "game.winning_score",
	"first-mover":   "game.first_mover",
	"seed":          "game.seed",
	"log-level":     "logging.level",
	"log-file":      "logging.file",
	"history-dir":   "history.dir",
}

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Game defaults
	v.SetDefault("game.winning_score", 3)
	v.SetDefault("game.first_mover", "random")
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.human_marker", "X")

	// Console defaults
	v.SetDefault("console.clear_screen", true)
	v.SetDefault("console.color", true)

	// Logging defaults
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")

	// History defaults
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.dir", "history")
}

// RegisterFlags defines the command-line flags that override config keys
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file")
	fs.Int("winning-score", 3, "round wins needed to take the match")
	fs.String("first-mover", "random", "who opens the first round: random, human or computer")
	fs.Int64("seed", 0, "random seed for the computer player (0 = time based)")
	fs.String("log-level", "warn", "log level: trace, debug, info, warn, error")
	fs.String("log-file", "", "write logs to this file instead of stderr")
	fs.Bool("history", false, "append finished matches to the history directory")
	fs.String("history-dir", "history", "directory for match history files")
	fs.Bool("no-clear", false, "do not clear the screen between moves")
}

// Loader owns a viper instance and the decoded configuration
type Loader struct {
	mu  sync.RWMutex
	v   *viper.Viper
	cfg *Config

	// set only when ReadInConfig succeeded
	fileLoaded bool
}

// NewLoader creates a loader with defaults and environment overrides (TTT_ prefix)
func NewLoader() *Loader {
	v := viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	v.SetEnvPrefix("TTT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// BindFlags makes explicitly set flags take precedence over file and env values
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := l.v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	if fs.Changed("history") {
		enabled, err := fs.GetBool("history")
		if err != nil {
			return err
		}
		l.v.Set("history.enabled", enabled)
	}
	if fs.Changed("no-clear") {
		noClear, err := fs.GetBool("no-clear")
		if err != nil {
			return err
		}
		l.v.Set("console.clear_screen", !noClear)
	}
	return nil
}

// Load reads the config file, decodes and validates the result. An empty path
// searches ./config.yaml, ./config/ and $HOME/.tictactoe. A named file that does
// not exist is not an error; defaults apply.
func (l *Loader) Load(configPath string) (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if configPath != "" {
		l.v.SetConfigFile(configPath)
	} else {
		l.v.SetConfigName("config")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		l.v.AddConfigPath("./config")
		l.v.AddConfigPath("$HOME/.tictactoe")
	}

	l.fileLoaded = false
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case configPath != "" && isNotExist(err):
			// Specific file requested but not found - use defaults
		case errors.As(err, &notFound):
			// No config in default locations
		default:
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		l.fileLoaded = true
	}

	cfg, err := l.decode()
	if err != nil {
		return nil, err
	}
	l.cfg = cfg
	return cfg, nil
}

// MergeEnvironment overlays config.<env>.yaml from the working directory, if present
func (l *Loader) MergeEnvironment(env string) error {
	if env == "" {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// read the overlay separately so the watched file stays the base config
	envFile := fmt.Sprintf("config.%s.yaml", env)
	overlay := viper.New()
	overlay.SetConfigFile(envFile)
	if err := overlay.ReadInConfig(); err != nil {
		if isNotExist(err) {
			return nil
		}
		return fmt.Errorf("error reading environment config %s: %w", envFile, err)
	}
	if err := l.v.MergeConfigMap(overlay.AllSettings()); err != nil {
		return fmt.Errorf("error merging environment config %s: %w", envFile, err)
	}

	cfg, err := l.decode()
	if err != nil {
		return err
	}
	l.cfg = cfg
	return nil
}

// Config returns the last successfully loaded configuration
func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.cfg
}

// Set overrides one key at runtime. The change is rejected if the result is invalid.
func (l *Loader) Set(key string, value interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.v.Get(key)
	l.v.Set(key, value)
	cfg, err := l.decode()
	if err != nil {
		l.v.Set(key, prev)
		return err
	}
	l.cfg = cfg
	return nil
}

// ConfigFileUsed returns the path of the loaded config file, if any
func (l *Loader) ConfigFileUsed() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.fileLoaded {
		return ""
	}
	return l.v.ConfigFileUsed()
}

// Watch reloads the config file whenever it changes and passes each valid new
// configuration to onChange. Invalid edits are ignored and the previous
// configuration stays in effect.
func (l *Loader) Watch(logger zerolog.Logger, onChange func(*Config)) error {
	l.mu.RLock()
	loaded := l.fileLoaded
	l.mu.RUnlock()
	if !loaded {
		return ErrNoConfigFile
	}

	logger = logger.With().Str("component", "ConfigWatcher").Logger()

	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		l.mu.Lock()
		cfg, err := l.decode()
		if err == nil {
			l.cfg = cfg
		}
		l.mu.Unlock()

		if err != nil {
			logger.Warn().Err(err).Str("file", e.Name).Msg("Ignoring invalid config change")
			return
		}
		logger.Info().Str("file", e.Name).Msg("Config reloaded")
		if onChange != nil {
			onChange(cfg)
		}
	})
	l.v.WatchConfig()
	return nil
}

// decode unmarshals and validates the current viper state. Callers hold l.mu.
func (l *Loader) decode() (*Config, error) {
	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	cfg.normalize()
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Game.FirstMover = strings.ToLower(strings.TrimSpace(c.Game.FirstMover))
	c.Game.HumanMarker = strings.ToUpper(strings.TrimSpace(c.Game.HumanMarker))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}

// Validate validates the configuration values
func Validate(c *Config) error {
	// Validate match rules
	if c.Game.WinningScore < 1 {
		return fmt.Errorf("game.winning_score must be at least 1")
	}
	switch c.Game.FirstMover {
	case "random", "human", "computer":
	default:
		return fmt.Errorf("game.first_mover must be random, human or computer, got %q", c.Game.FirstMover)
	}
	if !isMarker(c.Game.HumanMarker) {
		return fmt.Errorf("game.human_marker must be X or O, got %q", c.Game.HumanMarker)
	}

	// Validate logging
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}

	// Validate history
	if c.History.Enabled && strings.TrimSpace(c.History.Dir) == "" {
		return fmt.Errorf("history.dir must be set when history is enabled")
	}

	return nil
}

func isMarker(s string) bool {
	return s == "X" || s == "O"
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
