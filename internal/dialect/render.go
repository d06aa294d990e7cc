package dialect

import (
	"fmt"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"

	"github.com/roach88/quadmap/internal/queryir"
)

// rdfType is the full rdf:type IRI.
var rdfType = quad.IRI(rdf.Type).Full()

// renderer produces query text for one dialect.
type renderer interface {
	describe(q queryir.Describe) string
	exists(q queryir.Exists) string
	instancesOf(q queryir.InstancesOf) string
}

// selectDialect resolves the dialect actually rendered for d.
// Anything that is not SeRQL falls through to SPARQL.
func selectDialect(d Dialect) Dialect {
	if d == SeRQL {
		return SeRQL
	}
	return SPARQL
}

func rendererFor(d Dialect) renderer {
	switch selectDialect(d) {
	case SeRQL:
		return serqlRenderer{}
	default:
		return sparqlRenderer{}
	}
}

// Render returns the query text for q in dialect d.
// The plan is validated first; invalid plans are never rendered.
func Render(d Dialect, q queryir.Query) (string, error) {
	if err := queryir.Validate(q).Err(); err != nil {
		return "", err
	}

	r := rendererFor(d)
	switch query := q.(type) {
	case queryir.Describe:
		return r.describe(query), nil
	case *queryir.Describe:
		return r.describe(*query), nil
	case queryir.Exists:
		return r.exists(query), nil
	case *queryir.Exists:
		return r.exists(*query), nil
	case queryir.InstancesOf:
		return r.instancesOf(query), nil
	case *queryir.InstancesOf:
		return r.instancesOf(*query), nil
	default:
		return "", fmt.Errorf("unsupported query type: %T", q)
	}
}
