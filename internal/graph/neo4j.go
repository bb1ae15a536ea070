package graph

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/zero-day-ai/toolgraph/internal/types"
)

// Neo4jClient implements GraphClient for Neo4j graph databases.
// It holds one driver and one session between Connect and Close.
type Neo4jClient struct {
	config GraphClientConfig

	mu      sync.Mutex
	driver  neo4j.DriverWithContext
	session neo4j.SessionWithContext
}

// NewNeo4jClient creates a new Neo4j client with the given configuration.
// The client must be connected via Connect() before use.
func NewNeo4jClient(config GraphClientConfig) (*Neo4jClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Neo4jClient{
		config: config,
	}, nil
}

// Connect creates the driver, verifies connectivity and opens the session.
// There is a single attempt: an unreachable store is reported immediately.
func (c *Neo4jClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.driver != nil {
		return nil
	}

	auth := neo4j.BasicAuth(c.config.Username, c.config.Password, "")

	driverConfig := func(config *neo4j.Config) {
		if c.config.MaxConnectionPoolSize > 0 {
			config.MaxConnectionPoolSize = c.config.MaxConnectionPoolSize
		}
		config.ConnectionAcquisitionTimeout = c.config.ConnectionTimeout
		config.SocketConnectTimeout = c.config.ConnectionTimeout
		config.MaxTransactionRetryTime = c.config.MaxTransactionRetryTime
		// Encryption is controlled by URI scheme (bolt:// vs bolt+s://)
	}

	driver, err := neo4j.NewDriverWithContext(c.config.URI, auth, driverConfig)
	if err != nil {
		return types.WrapError(ErrCodeGraphConnectionFailed,
			fmt.Sprintf("failed to create driver for %s", c.config.URI), err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		connErr := types.WrapError(ErrCodeGraphConnectionFailed,
			fmt.Sprintf("cannot reach %s", c.config.URI), err)
		// Rejected credentials stay non-retryable.
		connErr.Retryable = neo4j.IsConnectivityError(err)
		return connErr
	}

	c.driver = driver
	c.session = driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.config.Database,
	})
	return nil
}

// Close closes the session and the driver.
func (c *Neo4jClient) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.driver == nil {
		return nil
	}

	var sessionErr error
	if c.session != nil {
		sessionErr = c.session.Close(ctx)
		c.session = nil
	}

	driverErr := c.driver.Close(ctx)
	c.driver = nil

	if driverErr != nil {
		return types.WrapError(ErrCodeGraphConnectionClosed, "failed to close driver", driverErr)
	}
	if sessionErr != nil {
		return types.WrapError(ErrCodeGraphConnectionClosed, "failed to close session", sessionErr)
	}
	return nil
}

// Health returns the current health status of the Neo4j connection.
func (c *Neo4jClient) Health(ctx context.Context) types.HealthStatus {
	c.mu.Lock()
	driver := c.driver
	c.mu.Unlock()

	if driver == nil {
		return types.Unhealthy("driver not initialized")
	}

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := driver.VerifyConnectivity(healthCtx); err != nil {
		return types.Unhealthy(fmt.Sprintf("connectivity check failed: %v", err))
	}

	return types.Healthy("connected to Neo4j at " + c.config.URI)
}

// Query executes cypher in a read transaction.
func (c *Neo4jClient) Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	res, err := c.execute(ctx, neo4j.AccessModeRead, cypher, params)
	if err != nil {
		return QueryResult{}, types.WrapError(ErrCodeGraphQueryFailed, "query execution failed", err)
	}
	return res, nil
}

// Write executes cypher in a write transaction.
func (c *Neo4jClient) Write(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	res, err := c.execute(ctx, neo4j.AccessModeWrite, cypher, params)
	if err != nil {
		return QueryResult{}, types.WrapError(ErrCodeGraphWriteFailed, "write execution failed", err)
	}
	return res, nil
}

func (c *Neo4jClient) execute(ctx context.Context, mode neo4j.AccessMode, cypher string, params map[string]any) (QueryResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return QueryResult{}, types.NewError(ErrCodeGraphConnectionClosed, "driver not connected")
	}

	startTime := time.Now()

	work := func(tx neo4j.ManagedTransaction) (any, error) {
		neoResult, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}

		records, err := neoResult.Collect(ctx)
		if err != nil {
			return nil, err
		}

		summary, err := neoResult.Consume(ctx)
		if err != nil {
			return nil, err
		}

		return convertNeo4jResult(records, summary), nil
	}

	var (
		result any
		err    error
	)
	if mode == neo4j.AccessModeWrite {
		result, err = c.session.ExecuteWrite(ctx, work)
	} else {
		result, err = c.session.ExecuteRead(ctx, work)
	}
	if err != nil {
		return QueryResult{}, err
	}

	queryResult := result.(QueryResult)
	queryResult.Summary.ExecutionTime = time.Since(startTime)

	return queryResult, nil
}

// convertNeo4jResult converts Neo4j records and summary to our QueryResult format.
func convertNeo4jResult(records []*neo4j.Record, summary neo4j.ResultSummary) QueryResult {
	result := QueryResult{
		Records: make([]map[string]any, 0, len(records)),
		Columns: []string{},
	}

	if len(records) > 0 {
		result.Columns = records[0].Keys
	}

	for _, record := range records {
		recordMap := make(map[string]any, len(record.Keys))
		for i, key := range record.Keys {
			recordMap[key] = record.Values[i]
		}
		result.Records = append(result.Records, recordMap)
	}

	if summary != nil && summary.Counters() != nil {
		counters := summary.Counters()
		result.Summary = QuerySummary{
			NodesCreated:         counters.NodesCreated(),
			NodesDeleted:         counters.NodesDeleted(),
			RelationshipsCreated: counters.RelationshipsCreated(),
			RelationshipsDeleted: counters.RelationshipsDeleted(),
			PropertiesSet:        counters.PropertiesSet(),
		}
	}

	return result
}
