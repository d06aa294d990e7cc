// Package source defines the collaborators that execute queries: data
// sources, result cursors, and persistence managers.
//
// Nothing here parses or executes query text. Implementations live
// elsewhere (the SQLite store, test spies, remote endpoints).
package source

import (
	"bytes"
	"context"
	"reflect"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"

	"github.com/roach88/quadmap/internal/dialect"
)

// Graph is a set of statements.
type Graph []quad.Quad

// NQuads renders g as N-Quads, one statement per line, in order.
func (g Graph) NQuads() ([]string, error) {
	var buf bytes.Buffer
	w := nquads.NewWriter(&buf)
	for _, q := range g {
		if err := w.WriteQuad(q); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	lines := []string{}
	for _, line := range strings.Split(buf.String(), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// DataSource executes rendered statements against a triple store.
type DataSource interface {
	// Dialect returns the query language the source speaks.
	Dialect() dialect.Dialect

	// GraphQuery executes a construct statement.
	GraphQuery(ctx context.Context, stmt dialect.Statement) (Graph, error)

	// SelectQuery executes a select statement. The caller must Close the
	// returned ResultSet.
	SelectQuery(ctx context.Context, stmt dialect.Statement) (ResultSet, error)
}

// NamedGraphSupport is implemented by data sources that can scope queries
// to a named graph.
type NamedGraphSupport interface {
	SupportsNamedGraphs() bool
}

// SupportsNamedGraphs reports whether src can scope queries to named graphs.
func SupportsNamedGraphs(src DataSource) bool {
	ng, ok := src.(NamedGraphSupport)
	return ok && ng.SupportsNamedGraphs()
}

// ResultSet is a cursor over select results.
//
// Usage:
//
//	rs, err := src.SelectQuery(ctx, stmt)
//	if err != nil {
//	    return err
//	}
//	defer rs.Close()
//	for rs.Next() {
//	    row := rs.Binding()
//	}
//	return rs.Err()
type ResultSet interface {
	// Next advances to the next row. It returns false when the rows are
	// exhausted or an error occurred.
	Next() bool

	// Binding returns the current row, keyed by variable name.
	Binding() map[string]quad.Value

	// Err returns the error, if any, that stopped iteration.
	Err() error

	// Close releases the cursor. It must be called exactly once.
	Close() error
}

// Manager is a persistence manager that materialises native query results.
type Manager interface {
	// Delegate returns the underlying data source. Enumeration only works
	// when it implements DataSource.
	Delegate() any

	// NativeQuery executes stmt and returns one materialised value per row.
	// Rows are expected to be of type typ.
	NativeQuery(ctx context.Context, stmt dialect.Statement, typ reflect.Type) ([]any, error)
}
