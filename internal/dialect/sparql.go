package dialect

import (
	"github.com/roach88/quadmap/internal/queryir"
	"github.com/roach88/quadmap/internal/rdfid"
)

type sparqlRenderer struct{}

// from scopes a SPARQL query to a named graph. No graph, no clause.
func (sparqlRenderer) from(graph rdfid.ID) string {
	if graph.IsZero() {
		return ""
	}
	return "from " + graph.Term() + "\n"
}

func (r sparqlRenderer) describe(q queryir.Describe) string {
	return "construct {?s ?p ?o}\n" +
		r.from(q.Graph) +
		"where {?s ?p ?o. filter(?s = " + q.Subject.Term() + ") }"
}

func (r sparqlRenderer) exists(q queryir.Exists) string {
	return "select distinct ?s\n" +
		r.from(q.Graph) +
		"where {?s ?p ?o. filter(?s = " + q.Subject.Term() + ") } limit 1"
}

func (sparqlRenderer) instancesOf(q queryir.InstancesOf) string {
	v := "?" + q.Var
	return "select distinct " + v + "\n" +
		"where {" + v + " " + rdfType.String() + " " + q.Class.Full().String() + ". }"
}
