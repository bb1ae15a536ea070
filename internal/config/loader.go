package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/zero-day-ai/toolgraph/internal/types"
)

// ConfigLoader handles loading configuration from files.
type ConfigLoader interface {
	// Load reads path, which must exist.
	Load(path string) (*Config, error)
	// LoadWithDefaults reads path when it exists and falls back to defaults otherwise.
	LoadWithDefaults(path string) (*Config, error)
}

// LoaderOption configures a ConfigLoader.
type LoaderOption func(*viperConfigLoader)

// WithFlags binds command-line flags over file and environment values.
// bindings maps flag names to config keys, e.g. "neo4j-uri" -> "neo4j.uri".
// A flag only overrides when it was set explicitly.
func WithFlags(flags *pflag.FlagSet, bindings map[string]string) LoaderOption {
	return func(l *viperConfigLoader) {
		l.flags = flags
		l.bindings = bindings
	}
}

// viperConfigLoader implements ConfigLoader using Viper.
// Precedence, highest first: flags, TOOLGRAPH_* environment, config file, defaults.
type viperConfigLoader struct {
	validator ConfigValidator
	flags     *pflag.FlagSet
	bindings  map[string]string
}

// NewConfigLoader creates a new ConfigLoader instance.
func NewConfigLoader(validator ConfigValidator, opts ...LoaderOption) ConfigLoader {
	l := &viperConfigLoader{
		validator: validator,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads configuration from the specified file path.
// Returns an error if the file doesn't exist or cannot be parsed.
func (l *viperConfigLoader) Load(path string) (*Config, error) {
	return l.load(path, true)
}

// LoadWithDefaults loads configuration from the specified file path.
// If the file doesn't exist, defaults are used; environment and flags still apply.
func (l *viperConfigLoader) LoadWithDefaults(path string) (*Config, error) {
	return l.load(path, false)
}

func (l *viperConfigLoader) load(path string, required bool) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := l.bindFlags(v); err != nil {
		return nil, err
	}

	if path != "" {
		_, statErr := os.Stat(path)
		switch {
		case statErr == nil:
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, types.WrapError(types.CONFIG_PARSE_FAILED, fmt.Sprintf("failed to read config file %s", path), err)
			}
		case errors.Is(statErr, fs.ErrNotExist) && !required:
			// defaults, environment and flags only
		default:
			return nil, types.WrapError(types.CONFIG_LOAD_FAILED, fmt.Sprintf("config file %s is not readable", path), statErr)
		}
	}

	interpolate(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED, "failed to unmarshal config", err)
	}

	if err := l.validator.Validate(&cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_VALIDATION_FAILED, "invalid configuration", err)
	}

	return &cfg, nil
}

func (l *viperConfigLoader) bindFlags(v *viper.Viper) error {
	if l.flags == nil {
		return nil
	}
	for name, key := range l.bindings {
		flag := l.flags.Lookup(name)
		if flag == nil {
			return types.NewError(types.CONFIG_LOAD_FAILED, fmt.Sprintf("unknown flag %q bound to %s", name, key))
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return types.WrapError(types.CONFIG_LOAD_FAILED, fmt.Sprintf("failed to bind flag %q", name), err)
		}
	}
	return nil
}

// interpolate resolves ${VAR_NAME} references in string values. Values coming
// from the environment or flags never contain references, so only file and
// default values are rewritten.
func interpolate(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		raw, ok := v.Get(key).(string)
		if !ok || !strings.Contains(raw, "${") {
			continue
		}
		v.Set(key, interpolateString(raw))
	}
}

var envRefPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// interpolateString replaces ${VAR_NAME} with environment variable values.
// Unset variables are left as written.
func interpolateString(s string) string {
	return envRefPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if envValue, ok := os.LookupEnv(varName); ok && envValue != "" {
			return envValue
		}
		return match
	})
}
