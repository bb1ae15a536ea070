// Package config loads toolgraph configuration from a YAML file, TOOLGRAPH_*
// environment variables, an optional .env file and command-line flags.
package config

import (
	"time"

	"github.com/zero-day-ai/toolgraph/internal/graph"
	"github.com/zero-day-ai/toolgraph/internal/observability"
)

// Config is the root configuration structure for toolgraph.
type Config struct {
	Neo4j   Neo4jConfig                 `mapstructure:"neo4j" yaml:"neo4j" validate:"required"`
	Logging observability.LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Tracing observability.TracingConfig `mapstructure:"tracing" yaml:"tracing"`
	Catalog CatalogConfig               `mapstructure:"catalog" yaml:"catalog"`
	Load    LoadConfig                  `mapstructure:"load" yaml:"load"`
}

// Neo4jConfig contains the graph store connection settings.
type Neo4jConfig struct {
	URI                     string        `mapstructure:"uri" yaml:"uri" validate:"required,neo4j_uri"`
	Username                string        `mapstructure:"username" yaml:"username" validate:"required"`
	Password                string        `mapstructure:"password" yaml:"password" validate:"required"`
	Database                string        `mapstructure:"database" yaml:"database"`
	MaxConnections          int           `mapstructure:"max_connections" yaml:"max_connections" validate:"min=1,max=100"`
	ConnectionTimeout       time.Duration `mapstructure:"connection_timeout" yaml:"connection_timeout" validate:"min=1s"`
	MaxTransactionRetryTime time.Duration `mapstructure:"max_transaction_retry_time" yaml:"max_transaction_retry_time" validate:"min=1s"`
	BrowserURL              string        `mapstructure:"browser_url" yaml:"browser_url" validate:"omitempty,url"`
}

// CatalogConfig selects the catalog to load. An empty Path means the embedded catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path" yaml:"path" validate:"omitempty,filepath"`
}

// LoadConfig tunes the load run.
type LoadConfig struct {
	// Strict turns skipped relationships into a failed run.
	Strict bool `mapstructure:"strict" yaml:"strict"`
}

// GraphClientConfig converts the neo4j section into a graph client configuration.
func (c Neo4jConfig) GraphClientConfig() graph.GraphClientConfig {
	return graph.GraphClientConfig{
		URI:                     c.URI,
		Username:                c.Username,
		Password:                c.Password,
		Database:                c.Database,
		MaxConnectionPoolSize:   c.MaxConnections,
		ConnectionTimeout:       c.ConnectionTimeout,
		MaxTransactionRetryTime: c.MaxTransactionRetryTime,
	}
}
