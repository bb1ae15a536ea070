package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/zero-day-ai/toolgraph/internal/observability"
)

// DefaultConfig returns a Config for a local development Neo4j.
// The password has no default.
func DefaultConfig() *Config {
	return &Config{
		Neo4j: Neo4jConfig{
			URI:                     "bolt://localhost:7687",
			Username:                "neo4j",
			MaxConnections:          10,
			ConnectionTimeout:       30 * time.Second,
			MaxTransactionRetryTime: 30 * time.Second,
			BrowserURL:              "http://localhost:7474",
		},
		Logging: observability.LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracing: observability.TracingConfig{
			Enabled:     false,
			Provider:    observability.ProviderOTLP,
			Endpoint:    "localhost:4317",
			ServiceName: "toolgraph",
			SampleRate:  1.0,
		},
	}
}

// setDefaults registers every key with viper so environment variables can
// override keys that are absent from the config file.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("neo4j.uri", d.Neo4j.URI)
	v.SetDefault("neo4j.username", d.Neo4j.Username)
	v.SetDefault("neo4j.password", d.Neo4j.Password)
	v.SetDefault("neo4j.database", d.Neo4j.Database)
	v.SetDefault("neo4j.max_connections", d.Neo4j.MaxConnections)
	v.SetDefault("neo4j.connection_timeout", d.Neo4j.ConnectionTimeout)
	v.SetDefault("neo4j.max_transaction_retry_time", d.Neo4j.MaxTransactionRetryTime)
	v.SetDefault("neo4j.browser_url", d.Neo4j.BrowserURL)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)

	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.provider", d.Tracing.Provider)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.tls_cert_file", d.Tracing.TLSCertFile)
	v.SetDefault("tracing.insecure_mode", d.Tracing.InsecureMode)

	v.SetDefault("catalog.path", d.Catalog.Path)
	v.SetDefault("load.strict", d.Load.Strict)
}
