package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/zero-day-ai/toolgraph/internal/types"
)

const (
	// DefaultConfigPath is read when --config is not given. A missing file is not an error.
	DefaultConfigPath = "toolgraph.yaml"

	// DefaultDotEnvPath is loaded before configuration when present.
	DefaultDotEnvPath = ".env"

	// EnvPrefix prefixes every environment override, e.g. TOOLGRAPH_NEO4J_PASSWORD.
	EnvPrefix = "TOOLGRAPH"
)

// LoadDotEnv exports the variables in path into the process environment.
// Variables already set win over the file. A missing file is ignored.
func LoadDotEnv(path string) error {
	if path == "" {
		path = DefaultDotEnvPath
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return types.WrapError(types.CONFIG_LOAD_FAILED, "failed to load "+path, err)
	}
	return nil
}
