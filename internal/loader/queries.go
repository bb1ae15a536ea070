package loader

import "fmt"

// Node upserts set created_at only when MERGE creates the node; every write
// refreshes updated_at and the declared attributes.
const (
	upsertProviderCypher = `
		MERGE (p:Provider {name: $name})
		ON CREATE SET p.created_at = datetime()
		SET p += $props,
		    p.updated_at = datetime(),
		    p.last_load_run = $run_id
		RETURN p.name AS name`

	upsertIntegrationCypher = `
		MERGE (i:Integration {name: $name, provider: $provider})
		ON CREATE SET i.created_at = datetime()
		SET i += $props,
		    i.updated_at = datetime(),
		    i.last_load_run = $run_id
		RETURN i.name AS name`

	// endpointProbeCypher explains an edge merge that matched nothing.
	endpointProbeCypher = `
		OPTIONAL MATCH (source:Integration {name: $source_name, provider: $source_provider})
		WITH count(source) AS sources
		OPTIONAL MATCH (target:Integration {name: $target_name, provider: $target_provider})
		RETURN sources, count(target) AS targets`

	linkProvidersCypher = `
		MATCH (i:Integration)
		MATCH (p:Provider {name: i.provider})
		MERGE (i)-[r:PROVIDED_BY]->(p)
		ON CREATE SET r.created_at = datetime()
		RETURN count(r) AS linked`

	unlinkedIntegrationsCypher = `
		MATCH (i:Integration)
		WHERE NOT EXISTS { MATCH (i)-[:PROVIDED_BY]->(:Provider {name: i.provider}) }
		RETURN i.name AS name, i.provider AS provider
		ORDER BY provider, name`
)

// mergeRelationshipCypher builds the edge merge for kind. Relationship types
// cannot be parameters in Cypher, so kind must already be validated.
// MATCH (not MERGE) on the endpoints keeps a missing endpoint from becoming a ghost node.
func mergeRelationshipCypher(kind string) string {
	return fmt.Sprintf(`
		MATCH (source:Integration {name: $source_name, provider: $source_provider})
		MATCH (target:Integration {name: $target_name, provider: $target_provider})
		MERGE (source)-[r:%s]->(target)
		ON CREATE SET r.created_at = datetime()
		RETURN type(r) AS kind`, kind)
}
