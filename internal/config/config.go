package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bengler/prosemirror/internal/config/loader"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "PMEDIT_"

// Config is the complete configuration.
type Config struct {
	Selection SelectionConfig
	Host      HostConfig
	Logging   LoggingConfig
}

// SelectionConfig tunes the selection reconciliation timers.
type SelectionConfig struct {
	// UpdateInterval is the delay before checking the host after a raw
	// selection notification, and the re-check interval while an edit is
	// in flight or a composition is active.
	UpdateInterval time.Duration

	// UpdateBackoff is the single longer retry used when the first check
	// found no host change.
	UpdateBackoff time.Duration

	// SyncStartDelay is the delay before the first idle sync check.
	SyncStartDelay time.Duration

	// SyncInterval is the period of idle sync checks while focused.
	SyncInterval time.Duration

	// ForceFocusBeforeRange focuses the surface before installing a range
	// when focus is being taken. Some hosts drop ranges installed on an
	// unfocused surface.
	ForceFocusBeforeRange bool
}

// HostConfig configures the presentation surface.
type HostConfig struct {
	FocusOnStart bool
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Selection: SelectionConfig{
			UpdateInterval: 20 * time.Millisecond,
			UpdateBackoff:  50 * time.Millisecond,
			SyncStartDelay: 50 * time.Millisecond,
			SyncInterval:   100 * time.Millisecond,
		},
		Host:    HostConfig{FocusOnStart: true},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Validate checks that all values are usable.
func (c Config) Validate() error {
	durations := []struct {
		key string
		d   time.Duration
	}{
		{"selection.updateInterval", c.Selection.UpdateInterval},
		{"selection.updateBackoff", c.Selection.UpdateBackoff},
		{"selection.syncStartDelay", c.Selection.SyncStartDelay},
		{"selection.syncInterval", c.Selection.SyncInterval},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return invalid(d.key, "must be positive, got %v", d.d)
		}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("logging.level", "unknown level %q", c.Logging.Level)
	}
	return nil
}

// FromMap decodes a merged configuration map on top of Default. Unknown
// keys are ignored.
func FromMap(m map[string]any) (Config, error) {
	cfg := Default()

	sel := section(m, "selection")
	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"updateInterval", &cfg.Selection.UpdateInterval},
		{"updateBackoff", &cfg.Selection.UpdateBackoff},
		{"syncStartDelay", &cfg.Selection.SyncStartDelay},
		{"syncInterval", &cfg.Selection.SyncInterval},
	}
	for _, d := range durations {
		v, ok := sel[d.key]
		if !ok {
			continue
		}
		parsed, err := toDuration(v)
		if err != nil {
			return cfg, invalid("selection."+d.key, "%v", err)
		}
		*d.dst = parsed
	}
	if v, ok := sel["forceFocusBeforeRange"]; ok {
		b, isBool := v.(bool)
		if !isBool {
			return cfg, invalid("selection.forceFocusBeforeRange", "want bool, got %T", v)
		}
		cfg.Selection.ForceFocusBeforeRange = b
	}

	if v, ok := section(m, "host")["focusOnStart"]; ok {
		b, isBool := v.(bool)
		if !isBool {
			return cfg, invalid("host.focusOnStart", "want bool, got %T", v)
		}
		cfg.Host.FocusOnStart = b
	}

	if v, ok := section(m, "logging")["level"]; ok {
		s, isString := v.(string)
		if !isString {
			return cfg, invalid("logging.level", "want string, got %T", v)
		}
		cfg.Logging.Level = s
	}

	return cfg, cfg.Validate()
}

// Load builds the configuration from defaults, the file at path (if path
// is non-empty and exists) and the environment.
func Load(path string) (Config, error) {
	return LoadWith(loader.DefaultFS(), path, loader.NewEnvLoader(EnvPrefix))
}

// LoadWith is Load with an explicit file system and environment loader.
func LoadWith(fsys loader.FileSystem, path string, env loader.Loader) (Config, error) {
	merged := map[string]any{}
	if path != "" {
		fl, err := loader.ForPath(fsys, path)
		if err != nil {
			return Config{}, err
		}
		fileMap, err := fl.Load()
		if err != nil {
			return Config{}, err
		}
		merged = loader.DeepMerge(merged, fileMap)
	}
	if env != nil {
		envMap, err := env.Load()
		if err != nil {
			return Config{}, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, envMap)
	}
	return FromMap(merged)
}

func section(m map[string]any, name string) map[string]any {
	s, _ := m[name].(map[string]any)
	return s
}

// toDuration accepts Go duration strings, time.Duration, and plain numbers
// of milliseconds.
func toDuration(v any) (time.Duration, error) {
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		return time.ParseDuration(d)
	case int:
		return time.Duration(d) * time.Millisecond, nil
	case int64:
		return time.Duration(d) * time.Millisecond, nil
	case float64:
		if d != math.Trunc(d) {
			return 0, fmt.Errorf("fractional milliseconds %v", d)
		}
		return time.Duration(d) * time.Millisecond, nil
	default:
		return 0, fmt.Errorf("want duration, got %T", v)
	}
}
