package report

// All report queries are read-only.
const (
	entityCountsCypher = `
		MATCH (n)
		UNWIND labels(n) AS label
		RETURN label AS key, count(*) AS total
		ORDER BY key`

	totalEdgesCypher = `
		MATCH ()-[r]->()
		RETURN count(r) AS total`

	integrationsByProviderCypher = `
		MATCH (i:Integration)
		RETURN i.provider AS key, count(i) AS total
		ORDER BY total DESC, key`

	integrationsByComplexityCypher = `
		MATCH (i:Integration)
		RETURN i.complexity AS key, count(i) AS total
		ORDER BY total DESC, key`

	edgesByKindCypher = `
		MATCH ()-[r]->()
		RETURN type(r) AS key, count(r) AS total
		ORDER BY total DESC, key`

	unownedIntegrationsCypher = `
		MATCH (i:Integration)
		WHERE NOT EXISTS { MATCH (i)-[:PROVIDED_BY]->(:Provider {name: i.provider}) }
		RETURN i.name AS name, i.provider AS provider
		ORDER BY provider, name`
)
