package cypher

import (
	"github.com/saulfrancisco-ruizacevedo/gocypher"

	"neo4j-explorer-backend/pkg/utils"
)

// NodeQuery builds CREATE (n:<label> {props}) RETURN n with every property
// value bound as a parameter.
func NodeQuery(label string, props map[string]any) (string, map[string]interface{}, error) {
	if err := utils.ValidateIdentifier("label", label); err != nil {
		return "", nil, err
	}

	return gocypher.NewQueryBuilder().
		Create(gocypher.N("n", label).WithProperties(props)).
		Return("n").
		Build()
}

// RelationshipQuery builds
// MATCH (a:<start> {..}), (b:<end> {..}) CREATE (a)-[:<type>]->(b) RETURN a, b.
func RelationshipQuery(relType, startLabel string, startProps map[string]any, endLabel string, endProps map[string]any) (string, map[string]interface{}, error) {
	if err := utils.ValidateIdentifier("relationship type", relType); err != nil {
		return "", nil, err
	}
	if err := utils.ValidateIdentifier("start label", startLabel); err != nil {
		return "", nil, err
	}
	if err := utils.ValidateIdentifier("end label", endLabel); err != nil {
		return "", nil, err
	}

	return gocypher.NewQueryBuilder().
		Match(gocypher.N("a", startLabel).WithProperties(startProps)).
		Match(gocypher.N("b", endLabel).WithProperties(endProps)).
		Create(
			gocypher.NRef("a"),
			gocypher.R("r", relType).To(),
			gocypher.NRef("b"),
		).
		Return("a", "b").
		Build()
}
