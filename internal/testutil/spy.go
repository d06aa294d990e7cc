package testutil

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/cayleygraph/quad"

	"github.com/roach88/quadmap/internal/dialect"
	"github.com/roach88/quadmap/internal/source"
)

// SpySource is a source.DataSource that records every statement it receives
// and answers with canned results.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type SpySource struct {
	// Lang is the declared dialect.
	Lang dialect.Dialect

	// NamedGraphs is returned from SupportsNamedGraphs.
	NamedGraphs bool

	// Graph is returned from GraphQuery.
	Graph source.Graph

	// Rows are served by cursors returned from SelectQuery.
	Rows []map[string]quad.Value

	// GraphErr and SelectErr fail the corresponding query.
	GraphErr  error
	SelectErr error

	// PanicOnNext makes cursors panic with this value on Next.
	PanicOnNext any

	// RowsErr is reported by cursors from Err once rows are exhausted.
	RowsErr error

	// CloseErr is returned from cursor Close.
	CloseErr error

	mu         sync.Mutex
	statements []dialect.Statement
	cursors    []*SpyResultSet
}

var (
	_ source.DataSource        = (*SpySource)(nil)
	_ source.NamedGraphSupport = (*SpySource)(nil)
)

// NewSpySource creates a spy speaking d.
func NewSpySource(d dialect.Dialect) *SpySource {
	return &SpySource{Lang: d}
}

// Dialect returns the declared dialect.
func (s *SpySource) Dialect() dialect.Dialect {
	return s.Lang
}

// SupportsNamedGraphs returns the NamedGraphs field.
func (s *SpySource) SupportsNamedGraphs() bool {
	return s.NamedGraphs
}

// GraphQuery records stmt and returns Graph or GraphErr.
func (s *SpySource) GraphQuery(_ context.Context, stmt dialect.Statement) (source.Graph, error) {
	s.record(stmt)
	if s.GraphErr != nil {
		return nil, s.GraphErr
	}
	return s.Graph, nil
}

// SelectQuery records stmt and returns a new SpyResultSet over Rows.
func (s *SpySource) SelectQuery(_ context.Context, stmt dialect.Statement) (source.ResultSet, error) {
	s.record(stmt)
	if s.SelectErr != nil {
		return nil, s.SelectErr
	}

	rs := &SpyResultSet{
		rows:        s.Rows,
		panicOnNext: s.PanicOnNext,
		err:         s.RowsErr,
		closeErr:    s.CloseErr,
	}

	s.mu.Lock()
	s.cursors = append(s.cursors, rs)
	s.mu.Unlock()

	return rs, nil
}

func (s *SpySource) record(stmt dialect.Statement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statements = append(s.statements, stmt)
}

// Calls returns how many queries were issued.
func (s *SpySource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.statements)
}

// Statements returns a copy of the recorded statements in call order.
func (s *SpySource) Statements() []dialect.Statement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dialect.Statement, len(s.statements))
	copy(out, s.statements)
	return out
}

// Last returns the most recent statement. ok is false if none were issued.
func (s *SpySource) Last() (stmt dialect.Statement, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.statements) == 0 {
		return dialect.Statement{}, false
	}
	return s.statements[len(s.statements)-1], true
}

// Cursors returns the cursors handed out by SelectQuery.
func (s *SpySource) Cursors() []*SpyResultSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*SpyResultSet, len(s.cursors))
	copy(out, s.cursors)
	return out
}

// SpyResultSet is a source.ResultSet that counts Close calls.
type SpyResultSet struct {
	rows        []map[string]quad.Value
	pos         int
	panicOnNext any
	err         error
	closeErr    error
	closes      atomic.Int32
}

// Next advances the cursor, or panics if configured to.
func (r *SpyResultSet) Next() bool {
	if r.panicOnNext != nil {
		panic(r.panicOnNext)
	}
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

// Binding returns the current row.
func (r *SpyResultSet) Binding() map[string]quad.Value {
	if r.pos == 0 || r.pos > len(r.rows) {
		return nil
	}
	return r.rows[r.pos-1]
}

// Err returns the configured error once rows are exhausted.
func (r *SpyResultSet) Err() error {
	if r.pos < len(r.rows) {
		return nil
	}
	return r.err
}

// Close records the call and returns the configured error.
func (r *SpyResultSet) Close() error {
	r.closes.Add(1)
	return r.closeErr
}

// Closes returns how many times Close was called.
func (r *SpyResultSet) Closes() int {
	return int(r.closes.Load())
}

// SpyManager is a source.Manager that returns canned native-query rows.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type SpyManager struct {
	// Source is returned from Delegate.
	Source any

	// Rows are returned from NativeQuery.
	Rows []any

	// Err fails NativeQuery.
	Err error

	mu         sync.Mutex
	statements []dialect.Statement
	types      []reflect.Type
}

var _ source.Manager = (*SpyManager)(nil)

// Delegate returns Source.
func (m *SpyManager) Delegate() any {
	return m.Source
}

// NativeQuery records the call and returns Rows or Err.
func (m *SpyManager) NativeQuery(_ context.Context, stmt dialect.Statement, typ reflect.Type) ([]any, error) {
	m.mu.Lock()
	m.statements = append(m.statements, stmt)
	m.types = append(m.types, typ)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Rows, nil
}

// Statements returns the recorded statements in call order.
func (m *SpyManager) Statements() []dialect.Statement {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]dialect.Statement, len(m.statements))
	copy(out, m.statements)
	return out
}

// Types returns the requested row types in call order.
func (m *SpyManager) Types() []reflect.Type {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]reflect.Type, len(m.types))
	copy(out, m.types)
	return out
}
