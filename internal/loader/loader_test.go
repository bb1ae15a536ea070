package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zero-day-ai/toolgraph/internal/catalog"
	"github.com/zero-day-ai/toolgraph/internal/graph"
	"github.com/zero-day-ai/toolgraph/internal/types"
)

// recordingProgress captures progress lines for assertions.
type recordingProgress struct {
	steps []string
	fails []string
}

func (p *recordingProgress) Section(string) {}

func (p *recordingProgress) Step(format string, args ...any) {
	p.steps = append(p.steps, fmt.Sprintf(format, args...))
}

func (p *recordingProgress) Fail(format string, args ...any) {
	p.fails = append(p.fails, fmt.Sprintf(format, args...))
}

func connectedMock(t *testing.T) *graph.MockGraphClient {
	t.Helper()
	mock := graph.NewMockGraphClient()
	require.NoError(t, mock.Connect(context.Background()))
	return mock
}

func omie() catalog.Provider {
	return catalog.Provider{
		Name:       "omie",
		FullName:   "Omie ERP",
		Type:       "erp_system",
		Website:    "https://www.omie.com.br",
		APIVersion: "v1",
		Status:     catalog.StatusActive,
	}
}

func listarClientes() catalog.Integration {
	return catalog.Integration{
		Name:        "listar_clientes",
		Description: "Listar clientes cadastrados",
		Provider:    "omie",
		Category:    "management_systems",
		Version:     "1.0",
		Status:      catalog.StatusActive,
		Endpoints:   []string{"geral.clientes"},
		Complexity:  catalog.ComplexitySimple,
		StoryPoints: 2,
	}
}

func rel(source, target string, kind catalog.RelationshipKind) catalog.Relationship {
	return catalog.Relationship{
		Source: catalog.IntegrationRef{Name: source, Provider: "omie"},
		Target: catalog.IntegrationRef{Name: target, Provider: "omie"},
		Kind:   kind,
	}
}

func created(nodes, rels int) graph.QueryResult {
	return graph.QueryResult{
		Records: []map[string]any{{"name": "x", "kind": "X"}},
		Summary: graph.QuerySummary{NodesCreated: nodes, RelationshipsCreated: rels},
	}
}

func TestNewGraphLoader(t *testing.T) {
	mock := graph.NewMockGraphClient()
	l := NewGraphLoader(mock, WithRunID("run-1"), WithProgress(nil))

	require.NotNil(t, l)
	assert.Equal(t, "run-1", l.runID)
	assert.IsType(t, NopProgress{}, l.progress, "nil progress keeps the default")
}

func TestUpsertProvider(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		mock := connectedMock(t)
		mock.AddQueryResult(created(1, 0))
		progress := &recordingProgress{}
		l := NewGraphLoader(mock, WithRunID("run-1"), WithProgress(progress))

		wasCreated, err := l.UpsertProvider(context.Background(), omie())

		require.NoError(t, err)
		assert.True(t, wasCreated)

		calls := mock.GetCallsByMethod("Write")
		require.Len(t, calls, 1)
		assert.Contains(t, calls[0].Cypher, "MERGE (p:Provider {name: $name})")
		assert.Contains(t, calls[0].Cypher, "ON CREATE SET p.created_at")
		assert.Equal(t, "omie", calls[0].Params["name"])
		assert.Equal(t, "run-1", calls[0].Params["run_id"])

		props := calls[0].Params["props"].(map[string]any)
		assert.Equal(t, "Omie ERP", props["full_name"])
		assert.Equal(t, "active", props["status"])

		assert.Equal(t, []string{"Provider Omie ERP (omie) created"}, progress.steps)
	})

	t.Run("updated", func(t *testing.T) {
		mock := connectedMock(t)
		mock.AddQueryResult(created(0, 0))
		l := NewGraphLoader(mock)

		wasCreated, err := l.UpsertProvider(context.Background(), omie())

		require.NoError(t, err)
		assert.False(t, wasCreated)
	})

	t.Run("empty name", func(t *testing.T) {
		mock := connectedMock(t)
		l := NewGraphLoader(mock)

		_, err := l.UpsertProvider(context.Background(), catalog.Provider{FullName: "nameless"})

		require.Error(t, err)
		assert.True(t, types.HasCode(err, ErrCodeInvalidDefinition))
		assert.Empty(t, mock.GetCallsByMethod("Write"))
	})

	t.Run("store error", func(t *testing.T) {
		mock := connectedMock(t)
		mock.AddQueryError(types.NewError(graph.ErrCodeGraphWriteFailed, "boom"))
		l := NewGraphLoader(mock)

		_, err := l.UpsertProvider(context.Background(), omie())

		require.Error(t, err)
		assert.True(t, types.HasCode(err, ErrCodeUpsertFailed))
		assert.True(t, graph.IsStoreError(err))
		assert.False(t, IsItemError(err))
	})

	t.Run("nil client", func(t *testing.T) {
		l := NewGraphLoader(nil)

		_, err := l.UpsertProvider(context.Background(), omie())

		require.Error(t, err)
	})
}

func TestUpsertIntegration(t *testing.T) {
	t.Run("keys on name and provider", func(t *testing.T) {
		mock := connectedMock(t)
		mock.AddQueryResult(created(1, 0))
		progress := &recordingProgress{}
		l := NewGraphLoader(mock, WithProgress(progress))

		wasCreated, err := l.UpsertIntegration(context.Background(), listarClientes())

		require.NoError(t, err)
		assert.True(t, wasCreated)

		call := mock.GetCallsByMethod("Write")[0]
		assert.Contains(t, call.Cypher, "MERGE (i:Integration {name: $name, provider: $provider})")
		assert.Equal(t, "listar_clientes", call.Params["name"])
		assert.Equal(t, "omie", call.Params["provider"])

		props := call.Params["props"].(map[string]any)
		assert.Equal(t, int64(2), props["story_points"])
		assert.Equal(t, []string{"geral.clientes"}, props["endpoints"])

		assert.Equal(t, []string{"Integration listar_clientes (omie) created"}, progress.steps)
	})

	t.Run("missing provider", func(t *testing.T) {
		mock := connectedMock(t)
		l := NewGraphLoader(mock)
		i := listarClientes()
		i.Provider = ""

		_, err := l.UpsertIntegration(context.Background(), i)

		require.Error(t, err)
		assert.True(t, types.HasCode(err, ErrCodeInvalidDefinition))
	})

	t.Run("not connected", func(t *testing.T) {
		l := NewGraphLoader(graph.NewMockGraphClient())

		_, err := l.UpsertIntegration(context.Background(), listarClientes())

		require.Error(t, err)
		assert.True(t, types.HasCode(err, graph.ErrCodeGraphConnectionClosed))
	})
}

func TestMergeRelationship(t *testing.T) {
	t.Run("created then existing", func(t *testing.T) {
		mock := connectedMock(t)
		mock.AddQueryResult(created(0, 1))
		mock.AddQueryResult(created(0, 0))
		l := NewGraphLoader(mock)
		r := rel("incluir_projeto", "listar_clientes", catalog.KindRequiresClient)

		first, err := l.MergeRelationship(context.Background(), r)
		require.NoError(t, err)
		assert.True(t, first)

		second, err := l.MergeRelationship(context.Background(), r)
		require.NoError(t, err)
		assert.False(t, second)

		call := mock.GetCallsByMethod("Write")[0]
		assert.Contains(t, call.Cypher, "MERGE (source)-[r:REQUIRES_CLIENT]->(target)")
		assert.NotContains(t, call.Cypher, "MERGE (source:Integration", "endpoints are matched, never merged")
		assert.Equal(t, "incluir_projeto", call.Params["source_name"])
		assert.Equal(t, "listar_clientes", call.Params["target_name"])
		assert.Equal(t, "omie", call.Params["target_provider"])
	})

	t.Run("invalid kind is rejected before any query", func(t *testing.T) {
		mock := connectedMock(t)
		l := NewGraphLoader(mock)

		for _, kind := range []catalog.RelationshipKind{
			"DEPENDS_ON",
			"X]->() DETACH DELETE n //",
			"",
			catalog.KindProvidedBy,
		} {
			_, err := l.MergeRelationship(context.Background(), rel("a", "b", kind))
			require.Error(t, err, "kind %q", kind)
			assert.True(t, types.HasCode(err, ErrCodeInvalidRelationshipKind))
			assert.True(t, IsItemError(err))
		}
		assert.Empty(t, mock.GetCallsByMethod("Write"))
	})

	tests := []struct {
		name    string
		sources int64
		targets int64
		want    string
	}{
		{name: "missing target", sources: 1, targets: 0, want: "target omie/ghost not found"},
		{name: "missing source", sources: 0, targets: 1, want: "source omie/incluir_projeto not found"},
		{name: "missing both", sources: 0, targets: 0, want: "source omie/incluir_projeto and target omie/ghost not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := connectedMock(t)
			mock.AddQueryResult(graph.QueryResult{})
			mock.AddQueryResult(graph.QueryResult{
				Records: []map[string]any{{"sources": tt.sources, "targets": tt.targets}},
			})
			l := NewGraphLoader(mock)

			wasCreated, err := l.MergeRelationship(context.Background(), rel("incluir_projeto", "ghost", catalog.KindRequiresClient))

			require.Error(t, err)
			assert.False(t, wasCreated)
			assert.True(t, types.HasCode(err, ErrCodeEndpointNotFound))
			assert.Contains(t, err.Error(), tt.want)

			lookups := mock.GetCallsByMethod("Query")
			require.Len(t, lookups, 1)
			assert.Contains(t, lookups[0].Cypher, "OPTIONAL MATCH")
		})
	}

	t.Run("store error", func(t *testing.T) {
		mock := connectedMock(t)
		mock.AddQueryError(errors.New("connection reset"))
		l := NewGraphLoader(mock)

		_, err := l.MergeRelationship(context.Background(), rel("a", "b", catalog.KindUsesCategories))

		require.Error(t, err)
		assert.True(t, types.HasCode(err, ErrCodeUpsertFailed))
		assert.False(t, IsItemError(err))
	})
}

func TestLoadProviders(t *testing.T) {
	t.Run("counts created and updated", func(t *testing.T) {
		mock := connectedMock(t)
		mock.AddQueryResult(created(1, 0))
		mock.AddQueryResult(created(0, 0))
		l := NewGraphLoader(mock)

		nibo := omie()
		nibo.Name = "nibo"

		result, err := l.LoadProviders(context.Background(), []catalog.Provider{omie(), nibo})

		require.NoError(t, err)
		assert.Equal(t, 1, result.NodesCreated)
		assert.Equal(t, 1, result.NodesUpdated)
		assert.False(t, result.HasErrors())
	})

	t.Run("store error aborts", func(t *testing.T) {
		mock := connectedMock(t)
		mock.AddQueryError(errors.New("down"))
		l := NewGraphLoader(mock)

		result, err := l.LoadProviders(context.Background(), []catalog.Provider{omie(), omie()})

		require.Error(t, err)
		assert.NotNil(t, result)
		assert.Len(t, mock.GetCallsByMethod("Write"), 1, "second provider is not attempted")
	})
}

func TestLoadIntegrations(t *testing.T) {
	mock := connectedMock(t)
	mock.SetResponder(func(method, cypher string, params map[string]any) (graph.QueryResult, error) {
		if params["name"] == "listar_projetos" {
			return graph.QueryResult{}, errors.New("down")
		}
		return created(1, 0), nil
	})
	l := NewGraphLoader(mock)

	projetos := listarClientes()
	projetos.Name = "listar_projetos"

	result, err := l.LoadIntegrations(context.Background(), []catalog.Integration{listarClientes(), projetos, listarClientes()})

	require.Error(t, err)
	assert.Equal(t, 1, result.NodesCreated)
	assert.Len(t, mock.GetCallsByMethod("Write"), 2)
}

func TestLoadRelationships(t *testing.T) {
	t.Run("missing endpoint does not stop the phase", func(t *testing.T) {
		mock := connectedMock(t)
		mock.SetResponder(func(method, cypher string, params map[string]any) (graph.QueryResult, error) {
			if method == "Query" {
				return graph.QueryResult{Records: []map[string]any{{"sources": int64(1), "targets": int64(0)}}}, nil
			}
			if params["target_name"] == "ghost" {
				return graph.QueryResult{}, nil
			}
			if strings.Contains(cypher, "USES_CATEGORIES") {
				return created(0, 0), nil
			}
			return created(0, 1), nil
		})
		progress := &recordingProgress{}
		l := NewGraphLoader(mock, WithProgress(progress))

		rels := []catalog.Relationship{
			rel("consultar_contas_pagar", "consultar_categorias", catalog.KindUsesCategories),
			rel("incluir_projeto", "ghost", catalog.KindRequiresClient),
			rel("incluir_projeto", "listar_clientes", catalog.KindRequiresClient),
			rel("incluir_projeto", "listar_clientes", "DEPENDS_ON"),
		}

		result, err := l.LoadRelationships(context.Background(), rels)

		require.NoError(t, err)
		require.Len(t, result.Outcomes, 4)
		assert.Equal(t, 1, result.RelationshipsCreated)
		assert.Equal(t, 1, result.RelationshipsExisting)
		assert.Len(t, result.Errors, 2)

		assert.True(t, result.Outcomes[0].OK())
		assert.False(t, result.Outcomes[0].Created)
		assert.False(t, result.Outcomes[1].OK())
		assert.True(t, types.HasCode(result.Outcomes[1].Err, ErrCodeEndpointNotFound))
		assert.True(t, result.Outcomes[2].Created)
		assert.True(t, types.HasCode(result.Outcomes[3].Err, ErrCodeInvalidRelationshipKind))

		failed := result.Failed()
		require.Len(t, failed, 2)
		assert.Equal(t, "ghost", failed[0].Relationship.Target.Name)

		assert.Len(t, progress.steps, 2)
		require.Len(t, progress.fails, 2)
		assert.Equal(t, "Relationship incluir_projeto -> ghost (REQUIRES_CLIENT) skipped: target omie/ghost not found", progress.fails[0])
	})

	t.Run("store error aborts", func(t *testing.T) {
		mock := connectedMock(t)
		mock.AddQueryResult(created(0, 1))
		mock.AddQueryError(errors.New("down"))
		l := NewGraphLoader(mock)

		rels := []catalog.Relationship{
			rel("a", "b", catalog.KindUsesCategories),
			rel("c", "d", catalog.KindUsesCategories),
			rel("e", "f", catalog.KindUsesCategories),
		}

		result, err := l.LoadRelationships(context.Background(), rels)

		require.Error(t, err)
		assert.Len(t, result.Outcomes, 1)
		assert.Len(t, mock.GetCallsByMethod("Write"), 2)
	})
}

func TestLinkProviders(t *testing.T) {
	t.Run("all linked", func(t *testing.T) {
		mock := connectedMock(t)
		mock.AddQueryResult(graph.QueryResult{
			Records: []map[string]any{{"linked": int64(10)}},
			Summary: graph.QuerySummary{RelationshipsCreated: 3},
		})
		mock.AddQueryResult(graph.QueryResult{})
		l := NewGraphLoader(mock)

		result, err := l.LinkProviders(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 3, result.RelationshipsCreated)
		assert.Equal(t, 7, result.RelationshipsExisting)
		assert.False(t, result.HasErrors())

		writes := mock.GetCallsContaining("MERGE (i)-[r:PROVIDED_BY]->(p)")
		assert.Len(t, writes, 1)
	})

	t.Run("orphan integration is reported", func(t *testing.T) {
		mock := connectedMock(t)
		mock.AddQueryResult(graph.QueryResult{Records: []map[string]any{{"linked": int64(0)}}})
		mock.AddQueryResult(graph.QueryResult{
			Records: []map[string]any{{"name": "listar_clientes", "provider": "acme"}},
		})
		progress := &recordingProgress{}
		l := NewGraphLoader(mock, WithProgress(progress))

		result, err := l.LinkProviders(context.Background())

		require.NoError(t, err)
		require.Len(t, result.Errors, 1)
		assert.True(t, types.HasCode(result.Errors[0], ErrCodeUnlinkedIntegration))
		assert.Contains(t, result.Errors[0].Error(), "acme/listar_clientes")
		assert.Len(t, progress.fails, 1)
	})

	t.Run("malformed unlinked row", func(t *testing.T) {
		mock := connectedMock(t)
		mock.AddQueryResult(graph.QueryResult{Records: []map[string]any{{"linked": int64(0)}}})
		mock.AddQueryResult(graph.QueryResult{
			Records: []map[string]any{{"name": "listar_clientes"}},
		})
		l := NewGraphLoader(mock)

		result, err := l.LinkProviders(context.Background())

		require.Error(t, err)
		assert.True(t, types.HasCode(err, graph.ErrCodeGraphResultParsing))
		require.NotNil(t, result)
		assert.False(t, result.HasErrors(), "no empty integration ref is recorded")
	})

	t.Run("unlinked check matches the provider by name", func(t *testing.T) {
		assert.Contains(t, unlinkedIntegrationsCypher, "(:Provider {name: i.provider})")
	})

	t.Run("store error", func(t *testing.T) {
		mock := connectedMock(t)
		mock.AddQueryError(errors.New("down"))
		l := NewGraphLoader(mock)

		_, err := l.LinkProviders(context.Background())

		require.Error(t, err)
		assert.True(t, types.HasCode(err, ErrCodeUpsertFailed))
	})
}

func TestRelationshipOutcome_MarshalJSON(t *testing.T) {
	out := RelationshipOutcome{
		Relationship: rel("a", "b", catalog.KindRequiresClient),
		Err:          types.NewError(ErrCodeEndpointNotFound, "target omie/b not found"),
	}

	data, err := json.Marshal(out)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, false, decoded["created"])
	assert.Equal(t, "[LOADER_ENDPOINT_NOT_FOUND] target omie/b not found", decoded["error"])
	assert.Equal(t, "REQUIRES_CLIENT", decoded["relationship"].(map[string]any)["kind"])
}

func TestLoadResult_MarshalJSON(t *testing.T) {
	result := &LoadResult{RelationshipsCreated: 1, RelationshipsExisting: 9}
	result.AddError(types.NewError(ErrCodeUnlinkedIntegration, "integration nibo/x has no provider node named \"nibo\""))

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.EqualValues(t, 1, decoded["relationships_created"])
	assert.EqualValues(t, 9, decoded["relationships_existing"])
	assert.NotContains(t, decoded, "outcomes")
	require.Len(t, decoded["errors"], 1)
	assert.Contains(t, decoded["errors"].([]any)[0], "LOADER_UNLINKED_INTEGRATION")
}

func TestMessage(t *testing.T) {
	inner := types.NewError(ErrCodeEndpointNotFound, "target missing")
	wrapped := types.WrapError(ErrCodeUpsertFailed, "outer", inner)

	assert.Equal(t, "target missing", message(wrapped))
	assert.Equal(t, "plain", message(errors.New("plain")))
}
