// Package graph is the boundary between toolgraph and the Neo4j graph store.
//
// Everything above this package talks to the store through GraphClient, whose
// two data operations mirror the only capability the loader needs: run a
// parameterised Cypher statement and get key/value rows back.
//
//   - Query runs in a read transaction. The validator uses it; it must never mutate.
//   - Write runs in a write transaction. The loader uses it for MERGE statements.
//
// # Implementations
//
// Neo4jClient owns one driver and one session for its whole lifetime. Connect
// verifies connectivity before returning, so an unreachable store or rejected
// credentials surface as ErrCodeGraphConnectionFailed before any write happens.
// The session is not shared between goroutines: calls are serialised.
//
// MockGraphClient records calls and replays scripted results for unit tests.
//
// TracedClient decorates any GraphClient with one OpenTelemetry span per call.
//
// # Example
//
//	client, err := graph.NewNeo4jClient(cfg)
//	if err != nil {
//	    return err
//	}
//	if err := client.Connect(ctx); err != nil {
//	    return err
//	}
//	defer client.Close(ctx)
//
//	res, err := client.Query(ctx, "MATCH (p:Provider) RETURN count(p) AS total", nil)
//
// # Errors
//
// All failures are *types.Error values carrying one of the ErrCodeGraph* codes,
// so callers can classify them with types.HasCode.
package graph
