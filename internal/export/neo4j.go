// Package export loads an analyzed diagram graph into Neo4j.
package export

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"go-umlgraph/internal/diagram"
	"go-umlgraph/internal/errors"
	"go-umlgraph/internal/logger"
)

// Neo4jLoader writes diagram entities and relationships to Neo4j using
// batch UNWIND queries.
type Neo4jLoader struct {
	driver neo4j.DriverWithContext
	ctx    context.Context
}

// NewNeo4jLoader connects to Neo4j and returns a ready-to-use loader.
func NewNeo4jLoader(ctx context.Context, uri, user, password string) (*Neo4jLoader, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create neo4j driver")
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, errors.WithHintf(errors.Wrapf(err, "cannot reach neo4j at %s", uri),
			"check --neo4j-uri and that the server is running")
	}
	return &Neo4jLoader{driver: driver, ctx: ctx}, nil
}

// Close releases the underlying Neo4j driver resources.
func (l *Neo4jLoader) Close() {
	l.driver.Close(l.ctx)
}

// runCypher runs a single Cypher statement with optional parameters.
func (l *Neo4jLoader) runCypher(cypher string, params map[string]any) error {
	_, err := neo4j.ExecuteQuery(l.ctx, l.driver, cypher, params, neo4j.EagerResultTransformer)
	return err
}

// Load writes g: indexes, entities, then relationships per kind.
func (l *Neo4jLoader) Load(g *diagram.Graph, clean bool) error {
	if clean {
		if err := l.CleanGraph(); err != nil {
			return err
		}
	}
	if err := l.CreateIndexes(); err != nil {
		return err
	}
	if err := l.LoadEntities(g.Entities()); err != nil {
		return err
	}
	return l.LoadRelationships(g)
}

// CleanGraph removes previously exported diagram nodes and their edges.
func (l *Neo4jLoader) CleanGraph() error {
	logger.Infow("Cleaning existing diagram data")
	return errors.Wrap(l.runCypher("MATCH (n:DiagramEntity) DETACH DELETE n", nil), "failed to clean graph")
}

// CreateIndexes ensures the required Neo4j indexes exist.
func (l *Neo4jLoader) CreateIndexes() error {
	return errors.Wrap(
		l.runCypher("CREATE INDEX diagram_entity_name IF NOT EXISTS FOR (n:DiagramEntity) ON (n.name)", nil),
		"failed to create index")
}

// LoadEntities upserts DiagramEntity nodes keyed by display name.
func (l *Neo4jLoader) LoadEntities(entities []*diagram.Entity) error {
	logger.Infow("Exporting entities", "count", len(entities))
	err := l.runCypher(
		`UNWIND $batch AS row
		 MERGE (n:DiagramEntity {name: row.name})
		 SET n.interface = row.interface, n.fields = row.fields, n.members = row.members`,
		map[string]any{"batch": entityBatch(entities)},
	)
	return errors.Wrap(err, "failed to export entities")
}

// LoadRelationships creates one edge per relationship. Edges are created,
// not merged, so repeated references stay visible as parallel edges.
func (l *Neo4jLoader) LoadRelationships(g *diagram.Graph) error {
	batches := relationshipBatches(g)
	for _, kind := range diagram.Kinds {
		batch := batches[kind]
		if len(batch) == 0 {
			continue
		}
		logger.Infow("Exporting relationships", "kind", kind.String(), "count", len(batch))
		if err := l.runCypher(relationshipCypher(kind), map[string]any{"batch": batch}); err != nil {
			return errors.Wrapf(err, "failed to export %s relationships", kind)
		}
	}
	return nil
}

// relationshipCypher builds the statement for one kind. Relationship types
// cannot be parameters in Cypher, so the kind is spliced in; it comes from
// the closed Kind set.
func relationshipCypher(kind diagram.Kind) string {
	return `UNWIND $batch AS row
		 MERGE (from:DiagramEntity {name: row.from})
		 MERGE (to:DiagramEntity {name: row.to})
		 CREATE (from)-[r:` + kind.String() + ` {seq: row.seq}]->(to)`
}

func entityBatch(entities []*diagram.Entity) []map[string]any {
	batch := make([]map[string]any, 0, len(entities))
	for _, e := range entities {
		batch = append(batch, map[string]any{
			"name":      e.Name,
			"interface": e.Interface,
			"fields":    nonNil(e.Fields),
			"members":   nonNil(e.Members),
		})
	}
	return batch
}

// relationshipBatches groups relationships by kind. seq is the position of
// the relationship in the graph sequence.
func relationshipBatches(g *diagram.Graph) map[diagram.Kind][]map[string]any {
	out := make(map[diagram.Kind][]map[string]any, len(diagram.Kinds))
	for seq, e := range g.Elements {
		rel, ok := e.(diagram.Relationship)
		if !ok {
			continue
		}
		out[rel.Kind] = append(out[rel.Kind], map[string]any{
			"from": rel.From,
			"to":   rel.To,
			"seq":  seq,
		})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
