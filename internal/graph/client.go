package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/zero-day-ai/toolgraph/internal/types"
)

// GraphClient is the capability the loader and validator consume:
// execute a parameterised Cypher statement and return key/value rows.
type GraphClient interface {
	// Connect opens the connection and verifies the store is reachable.
	// Returns an ErrCodeGraphConnectionFailed error if it is not.
	Connect(ctx context.Context) error

	// Close releases the connection. Calling Close on a closed client is a no-op.
	Close(ctx context.Context) error

	// Health returns the current health status of the graph database connection.
	Health(ctx context.Context) types.HealthStatus

	// Query executes a read-only Cypher statement.
	Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error)

	// Write executes a Cypher statement in a write transaction.
	Write(ctx context.Context, cypher string, params map[string]any) (QueryResult, error)
}

// QueryResult represents the result of a Cypher query execution.
type QueryResult struct {
	// Records contains the result rows as maps of column name to value.
	Records []map[string]any

	// Columns contains the names of the columns in the result set.
	Columns []string

	// Summary contains metadata about the query execution.
	Summary QuerySummary
}

// First returns the first record, if any.
func (r QueryResult) First() (map[string]any, bool) {
	if len(r.Records) == 0 {
		return nil, false
	}
	return r.Records[0], true
}

// QuerySummary carries the update counters reported by the store.
type QuerySummary struct {
	ExecutionTime time.Duration

	NodesCreated         int
	NodesDeleted         int
	RelationshipsCreated int
	RelationshipsDeleted int
	PropertiesSet        int
}

// GraphClientConfig contains configuration options for graph database clients.
type GraphClientConfig struct {
	// URI is the connection URI for the graph database.
	// For Neo4j, use:
	//   - "bolt://host:port" for unencrypted connections
	//   - "bolt+s://host:port" for TLS encrypted connections
	//   - "bolt+ssc://host:port" for TLS with self-signed certificates
	//   - "neo4j://" or "neo4j+s://" for routing
	URI string

	// Username for authentication.
	Username string

	// Password for authentication.
	Password string

	// Database name to connect to.
	// Empty string uses the default database.
	Database string

	// MaxConnectionPoolSize limits the number of connections in the pool.
	// Zero or negative values use the driver default.
	MaxConnectionPoolSize int

	// ConnectionTimeout is the maximum time to wait for a connection.
	ConnectionTimeout time.Duration

	// MaxTransactionRetryTime bounds the driver's own transaction retries.
	MaxTransactionRetryTime time.Duration
}

// DefaultConfig returns a GraphClientConfig for a local development instance.
// Password is deliberately empty: it has to be supplied by configuration.
func DefaultConfig() GraphClientConfig {
	return GraphClientConfig{
		URI:                     "bolt://localhost:7687",
		Username:                "neo4j",
		MaxConnectionPoolSize:   10,
		ConnectionTimeout:       30 * time.Second,
		MaxTransactionRetryTime: 30 * time.Second,
	}
}

// Validate checks if the configuration is valid.
func (c GraphClientConfig) Validate() error {
	if c.URI == "" {
		return types.NewError(ErrCodeGraphInvalidConfig, "URI cannot be empty")
	}
	if c.Username == "" {
		return types.NewError(ErrCodeGraphInvalidConfig, "Username cannot be empty")
	}
	if c.Password == "" {
		return types.NewError(ErrCodeGraphInvalidConfig, "Password cannot be empty")
	}
	if c.ConnectionTimeout <= 0 {
		return types.NewError(ErrCodeGraphInvalidConfig, "ConnectionTimeout must be positive")
	}
	if c.MaxTransactionRetryTime <= 0 {
		return types.NewError(ErrCodeGraphInvalidConfig, "MaxTransactionRetryTime must be positive")
	}
	return nil
}

// String describes the target without leaking credentials.
func (c GraphClientConfig) String() string {
	db := c.Database
	if db == "" {
		db = "<default>"
	}
	return fmt.Sprintf("%s (user=%s, database=%s)", c.URI, c.Username, db)
}
