// Package graphtest starts a disposable Neo4j for integration tests.
package graphtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/zero-day-ai/toolgraph/internal/graph"
)

const (
	image    = "neo4j:5"
	password = "toolgraph-test"
)

// Container is a running Neo4j and a client connected to it.
type Container struct {
	Container testcontainers.Container
	Client    *graph.Neo4jClient
	Config    graph.GraphClientConfig
}

// StartNeo4j starts a Neo4j container and returns a connected client.
// The test is skipped when Docker is unavailable. Cleanup is registered on t.
func StartNeo4j(t *testing.T) *Container {
	t.Helper()
	ctx := context.Background()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		t.Skip("Docker not available, skipping integration test")
	}
	if err := provider.Health(ctx); err != nil {
		t.Skip("Docker not running, skipping integration test")
	}

	req := testcontainers.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{"7687/tcp"},
		Env: map[string]string{
			"NEO4J_AUTH": "neo4j/" + password,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("7687/tcp"),
			wait.ForLog("Started."),
		).WithDeadline(120 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start Neo4j container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "7687")
	require.NoError(t, err)

	config := graph.DefaultConfig()
	config.URI = fmt.Sprintf("bolt://%s:%s", host, port.Port())
	config.Password = password

	client, err := graph.NewNeo4jClient(config)
	require.NoError(t, err)
	require.NoError(t, client.Connect(ctx))
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	require.True(t, client.Health(ctx).IsHealthy(), "Neo4j should be healthy")

	return &Container{Container: container, Client: client, Config: config}
}

// Clean removes all nodes and relationships.
func (c *Container) Clean(t *testing.T) {
	t.Helper()
	_, err := c.Client.Write(context.Background(), "MATCH (n) DETACH DELETE n", nil)
	require.NoError(t, err)
}

// Count runs a query returning a single "total" column.
func (c *Container) Count(t *testing.T, cypher string, params map[string]any) int64 {
	t.Helper()
	res, err := c.Client.Query(context.Background(), cypher, params)
	require.NoError(t, err)
	record, ok := res.First()
	require.True(t, ok, "count query returned no rows: %s", cypher)
	total, err := graph.Int64(record, "total")
	require.NoError(t, err)
	return total
}
