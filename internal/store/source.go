package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cayleygraph/quad"

	"github.com/roach88/quadmap/internal/dialect"
	"github.com/roach88/quadmap/internal/queryir"
	"github.com/roach88/quadmap/internal/querysql"
	"github.com/roach88/quadmap/internal/source"
)

var (
	_ source.DataSource        = (*Store)(nil)
	_ source.NamedGraphSupport = (*Store)(nil)
)

// Dialect returns the dialect the store declares. Statements are executed
// from their plan, so any dialect is accepted.
func (s *Store) Dialect() dialect.Dialect {
	return s.dialect
}

// SupportsNamedGraphs reports whether callers may scope queries to a named
// graph. Every stored statement carries a graph either way.
func (s *Store) SupportsNamedGraphs() bool {
	return s.graphs
}

// GraphQuery executes a construct statement.
// Returns an empty graph (not nil) if nothing matches.
func (s *Store) GraphQuery(ctx context.Context, stmt dialect.Statement) (source.Graph, error) {
	if stmt.Form != dialect.FormConstruct {
		return nil, fmt.Errorf("graph query: %s statement is not a construct", stmt.Form)
	}

	sqlText, params, err := s.compiler.Compile(stmt.Plan)
	if err != nil {
		return nil, fmt.Errorf("graph query: %w", err)
	}
	s.logger.Debug("graph query", "sql", sqlText, "params", params)

	rows, err := s.db.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("graph query: %w", err)
	}
	defer rows.Close()

	g := source.Graph{}
	for rows.Next() {
		q, err := scanQuad(rows)
		if err != nil {
			return nil, fmt.Errorf("graph query: %w", err)
		}
		g = append(g, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("graph query: iterate: %w", err)
	}
	return g, nil
}

// SelectQuery executes a select statement. The returned ResultSet binds
// each column to the variable named in the statement.
func (s *Store) SelectQuery(ctx context.Context, stmt dialect.Statement) (source.ResultSet, error) {
	if stmt.Form != dialect.FormSelect {
		return nil, fmt.Errorf("select query: %s statement is not a select", stmt.Form)
	}

	sqlText, params, err := s.compiler.Compile(stmt.Plan)
	if err != nil {
		return nil, fmt.Errorf("select query: %w", err)
	}
	s.logger.Debug("select query", "sql", sqlText, "params", params)

	rows, err := s.db.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("select query: %w", err)
	}

	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("select query: columns: %w", err)
	}

	return &resultSet{rows: rows, columns: cols}, nil
}

// resultSet adapts sql.Rows to source.ResultSet.
type resultSet struct {
	rows    *sql.Rows
	columns []string
	current map[string]quad.Value
	err     error
}

func (r *resultSet) Next() bool {
	if r.err != nil || !r.rows.Next() {
		return false
	}

	raw := make([]string, len(r.columns))
	dest := make([]any, len(raw))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := r.rows.Scan(dest...); err != nil {
		r.err = fmt.Errorf("scan row: %w", err)
		return false
	}

	binding := make(map[string]quad.Value, len(raw))
	for i, col := range r.columns {
		v, err := decodeTerm(raw[i])
		if err != nil {
			r.err = err
			return false
		}
		binding[col] = v
	}
	r.current = binding
	return true
}

func (r *resultSet) Binding() map[string]quad.Value {
	return r.current
}

func (r *resultSet) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.rows.Err()
}

func (r *resultSet) Close() error {
	return r.rows.Close()
}

// bindingVar returns the variable a select plan binds results to.
func bindingVar(plan queryir.Query) string {
	switch q := plan.(type) {
	case queryir.InstancesOf:
		return q.Var
	case *queryir.InstancesOf:
		return q.Var
	default:
		return querysql.ExistsVar
	}
}
