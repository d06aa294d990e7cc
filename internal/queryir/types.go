package queryir

import (
	"github.com/cayleygraph/quad"

	"github.com/roach88/quadmap/internal/rdfid"
)

// Query represents an abstract graph query.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in renderers and compilers.
//
// Query types:
//   - Describe: all statements with a given subject
//   - Exists: whether any statement has a given subject
//   - InstancesOf: all resources typed with a given class
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// Describe fetches every statement whose subject is Subject.
//
// Semantics:
//
//	CONSTRUCT {?s ?p ?o} [FROM <Graph>] WHERE {?s ?p ?o. FILTER(?s = Subject)}
//
// Graph is optional; the zero ID means no named-graph restriction.
type Describe struct {
	Subject rdfid.ID
	Graph   rdfid.ID
}

func (Describe) queryNode() {}

// Exists asks whether at least one statement has Subject as its subject.
//
// Semantics:
//
//	SELECT DISTINCT ?s [FROM <Graph>] WHERE {?s ?p ?o. FILTER(?s = Subject)} LIMIT 1
type Exists struct {
	Subject rdfid.ID
	Graph   rdfid.ID
}

func (Exists) queryNode() {}

// InstancesOf enumerates resources typed with Class, bound to Var.
//
// Semantics:
//
//	SELECT DISTINCT ?Var WHERE {?Var rdf:type <Class>}
type InstancesOf struct {
	Var   string
	Class quad.IRI
}

func (InstancesOf) queryNode() {}

// DefaultVar is the result variable used for enumeration.
const DefaultVar = "result"
