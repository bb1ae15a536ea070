//go:build integration
// +build integration

package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/toolgraph/internal/catalog"
	"github.com/zero-day-ai/toolgraph/internal/graph"
	"github.com/zero-day-ai/toolgraph/internal/graph/graphtest"
	"github.com/zero-day-ai/toolgraph/internal/report"
)

// Each run opens and closes its own client, so the runner gets a fresh one.
func newClient(t *testing.T, neo *graphtest.Container) graph.GraphClient {
	t.Helper()
	client, err := graph.NewNeo4jClient(neo.Config)
	require.NoError(t, err)
	return client
}

func TestIntegration_RunTwice(t *testing.T) {
	neo := graphtest.StartNeo4j(t)
	neo.Clean(t)
	ctx := context.Background()

	cat, err := catalog.Default()
	require.NoError(t, err)

	first, err := New(newClient(t, neo), cat).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, first.NodesCreated())
	assert.False(t, first.HasFailures())

	second, err := New(newClient(t, neo), cat).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.NodesCreated())
	assert.Equal(t, 12, second.NodesUpdated())

	assert.Equal(t, first.Report.EntityCounts, second.Report.EntityCounts)
	assert.Equal(t, first.Report.TotalEdges, second.Report.TotalEdges)
	assert.Equal(t, int64(15), second.Report.TotalEdges)

	assert.Equal(t, []report.Count{{Key: "nibo", Total: 5}, {Key: "omie", Total: 5}}, second.Report.IntegrationsByProvider)
	assert.Equal(t, []report.Count{{Key: "simple", Total: 5}, {Key: "moderate", Total: 4}, {Key: "complex", Total: 1}},
		second.Report.IntegrationsByComplexity)
	assert.True(t, second.Report.Complete())
}

func TestIntegration_GhostTarget(t *testing.T) {
	neo := graphtest.StartNeo4j(t)
	neo.Clean(t)

	cat, err := catalog.Default()
	require.NoError(t, err)
	cat.Relationships = append(cat.Relationships, catalog.Relationship{
		Source: catalog.IntegrationRef{Name: "incluir_projeto", Provider: "omie"},
		Target: catalog.IntegrationRef{Name: "never_loaded", Provider: "omie"},
		Kind:   catalog.KindRequiresClient,
	})

	result, err := New(newClient(t, neo), cat).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.FailedRelationships(), 1)
	assert.Equal(t, 5, result.Relationships.RelationshipsCreated, "the other edges are still created")
	assert.Equal(t, int64(0), neo.Count(t,
		`MATCH (i:Integration {name: 'never_loaded'}) RETURN count(i) AS total`, nil))
}

func TestIntegration_ValidateDoesNotWrite(t *testing.T) {
	neo := graphtest.StartNeo4j(t)
	neo.Clean(t)

	rep, err := New(newClient(t, neo), nil).Validate(context.Background())
	require.NoError(t, err)

	assert.Empty(t, rep.EntityCounts)
	assert.Equal(t, int64(0), rep.TotalEdges)
	assert.Equal(t, int64(0), neo.Count(t, `MATCH (n) RETURN count(n) AS total`, nil))
}
