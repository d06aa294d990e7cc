package dialect

import (
	"github.com/roach88/quadmap/internal/queryir"
	"github.com/roach88/quadmap/internal/rdfid"
)

type serqlRenderer struct{}

// from is mandatory in SeRQL; a named graph becomes a context clause.
func (serqlRenderer) from(graph rdfid.ID) string {
	if graph.IsZero() {
		return "from\n"
	}
	return "from context " + graph.Term() + "\n"
}

func (r serqlRenderer) describe(q queryir.Describe) string {
	return "construct {s} p {o}\n" +
		r.from(q.Graph) +
		"{s} p {o} where s = " + q.Subject.Term()
}

func (r serqlRenderer) exists(q queryir.Exists) string {
	return "select distinct s\n" +
		r.from(q.Graph) +
		"{s} p {o} where s = " + q.Subject.Term() + " limit 1"
}

func (serqlRenderer) instancesOf(q queryir.InstancesOf) string {
	return "select distinct " + q.Var + "\n" +
		"from\n" +
		"{" + q.Var + "} " + rdfType.String() + " {" + q.Class.Full().String() + "}"
}
