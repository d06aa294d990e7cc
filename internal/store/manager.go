package store

import (
	"context"
	"fmt"
	"reflect"

	"github.com/roach88/quadmap/internal/dialect"
	"github.com/roach88/quadmap/internal/rdfid"
	"github.com/roach88/quadmap/internal/source"
)

// Materializer builds one result value of type typ for the resource id.
type Materializer func(typ reflect.Type, id rdfid.ID) (any, error)

// Manager is a persistence manager over a Store.
type Manager struct {
	store       *Store
	materialize Materializer
}

var _ source.Manager = (*Manager)(nil)

// NewManager creates a Manager over s. A nil m uses NewInstance.
func NewManager(s *Store, m Materializer) *Manager {
	if m == nil {
		m = NewInstance
	}
	return &Manager{store: s, materialize: m}
}

// Delegate returns the underlying Store.
func (m *Manager) Delegate() any {
	return m.store
}

// NativeQuery executes a select statement and materialises one value of
// type typ per result row.
func (m *Manager) NativeQuery(ctx context.Context, stmt dialect.Statement, typ reflect.Type) (out []any, err error) {
	rs, err := m.store.SelectQuery(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rs.Close(); closeErr != nil && err == nil {
			out, err = nil, fmt.Errorf("native query: close: %w", closeErr)
		}
	}()

	name := bindingVar(stmt.Plan)
	out = []any{}
	for rs.Next() {
		v, ok := rs.Binding()[name]
		if !ok {
			return nil, fmt.Errorf("native query: variable %q not bound", name)
		}
		id, err := rdfid.FromValue(v)
		if err != nil {
			return nil, fmt.Errorf("native query: %w", err)
		}
		obj, err := m.materialize(typ, id)
		if err != nil {
			return nil, fmt.Errorf("native query: materialise %s: %w", id, err)
		}
		out = append(out, obj)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("native query: %w", err)
	}
	return out, nil
}

// NewInstance allocates a zero value of typ and assigns id when the value
// is rdfid.Identifiable. Pointer types yield a pointer to a new value.
func NewInstance(typ reflect.Type, id rdfid.ID) (any, error) {
	if typ == nil {
		return nil, fmt.Errorf("nil type")
	}

	elem := typ
	if typ.Kind() == reflect.Pointer {
		elem = typ.Elem()
	}

	ptr := reflect.New(elem)
	if ident, ok := ptr.Interface().(rdfid.Identifiable); ok {
		ident.SetRDFID(id)
	}

	if typ.Kind() == reflect.Pointer {
		return ptr.Interface(), nil
	}
	return ptr.Elem().Interface(), nil
}
