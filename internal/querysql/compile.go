// Package querysql compiles query plans into SQL over the local quads table.
package querysql

import (
	"fmt"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"

	"github.com/roach88/quadmap/internal/queryir"
	"github.com/roach88/quadmap/internal/rdfid"
)

// Table is the name of the quads table.
const Table = "quads"

// Column names in the quads table. Terms are stored in their N-Quads form
// (<iri>, _:label, "literal"); the default graph is the empty string.
const (
	ColSubject   = "subject"
	ColPredicate = "predicate"
	ColObject    = "object"
	ColGraph     = "graph"
)

// ExistsVar is the variable an Exists result is bound to.
const ExistsVar = "s"

// rdfType is rdf:type in stored form.
var rdfType = quad.IRI(rdf.Type).Full().String()

// SQLCompiler compiles query plans to parameterized SQL for SQLite.
//
// Every query has an ORDER BY so results come back in a stable order.
// Values are always bound as parameters, never interpolated.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts a plan to parameterized SQL.
// Returns (sql, params, error) tuple.
//
// Describe selects subject, predicate, object, graph. Exists selects
// subject as ExistsVar with LIMIT 1. InstancesOf selects distinct subjects
// aliased to the plan's variable name.
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}
	if err := queryir.Validate(q).Err(); err != nil {
		return "", nil, err
	}

	switch query := q.(type) {
	case queryir.Describe:
		return c.compileDescribe(query)
	case *queryir.Describe:
		return c.compileDescribe(*query)
	case queryir.Exists:
		return c.compileExists(query)
	case *queryir.Exists:
		return c.compileExists(*query)
	case queryir.InstancesOf:
		return c.compileInstancesOf(query)
	case *queryir.InstancesOf:
		return c.compileInstancesOf(*query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

func (c *SQLCompiler) compileDescribe(q queryir.Describe) (string, []any, error) {
	where, params := c.subjectFilter(q.Subject, q.Graph)

	sql := fmt.Sprintf("SELECT %s, %s, %s, %s FROM %s WHERE %s ORDER BY %s",
		ColSubject, ColPredicate, ColObject, ColGraph,
		Table,
		where,
		c.stableOrderKey())

	return sql, params, nil
}

func (c *SQLCompiler) compileExists(q queryir.Exists) (string, []any, error) {
	where, params := c.subjectFilter(q.Subject, q.Graph)

	sql := fmt.Sprintf("SELECT %s AS %s FROM %s WHERE %s ORDER BY %s LIMIT 1",
		ColSubject, quoteIdent(ExistsVar),
		Table,
		where,
		c.stableOrderKey())

	return sql, params, nil
}

// compileInstancesOf orders by the subject term since DISTINCT drops id.
func (c *SQLCompiler) compileInstancesOf(q queryir.InstancesOf) (string, []any, error) {
	where, params := and(
		equals(ColPredicate, rdfType),
		equals(ColObject, q.Class.Full().String()),
	)

	sql := fmt.Sprintf("SELECT DISTINCT %s AS %s FROM %s WHERE %s ORDER BY %s COLLATE BINARY ASC",
		ColSubject, quoteIdent(q.Var),
		Table,
		where,
		ColSubject)

	return sql, params, nil
}

// subjectFilter matches statements about subject, scoped to graph when
// graph is present.
func (c *SQLCompiler) subjectFilter(subject, graph rdfid.ID) (string, []any) {
	preds := []predicate{equals(ColSubject, subject.Term())}
	if !graph.IsZero() {
		preds = append(preds, equals(ColGraph, graph.Term()))
	}
	return and(preds...)
}

// stableOrderKey returns the ORDER BY clause for statement queries.
// Insertion order breaks ties; COLLATE BINARY keeps text ordering identical
// across SQLite versions.
func (c *SQLCompiler) stableOrderKey() string {
	return ColPredicate + " COLLATE BINARY ASC, " + ColObject + " COLLATE BINARY ASC, id ASC"
}

// predicate is a single "column = ?" condition.
type predicate struct {
	field string
	value any
}

func equals(field string, value any) predicate {
	return predicate{field: field, value: value}
}

// and joins conditions with AND. Values are returned as parameters in
// condition order.
func and(preds ...predicate) (string, []any) {
	if len(preds) == 0 {
		return "1 = 1", nil
	}

	parts := make([]string, 0, len(preds))
	params := make([]any, 0, len(preds))
	for _, p := range preds {
		parts = append(parts, p.field+" = ?")
		params = append(params, p.value)
	}
	return strings.Join(parts, " AND "), params
}

// quoteIdent quotes a column alias. Plan variables are already restricted
// to plain identifiers.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
