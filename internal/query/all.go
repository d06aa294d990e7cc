package query

import (
	"context"
	"fmt"
	"reflect"

	"github.com/roach88/quadmap/internal/dialect"
	"github.com/roach88/quadmap/internal/entity"
	"github.com/roach88/quadmap/internal/queryir"
	"github.com/roach88/quadmap/internal/source"
)

// All returns every stored instance of T. It returns an empty slice when T
// is not a compatible entity type, when m is nil, or when m's delegate is
// not a data source.
func All[T any](ctx context.Context, s *Session, m source.Manager) ([]T, error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if m == nil || !s.registry.IsCompatible(typ) {
		return []T{}, nil
	}
	src, ok := m.Delegate().(source.DataSource)
	if !ok {
		s.logger.Debug("enumeration skipped: delegate is not a data source",
			"type", typ.String(),
			"delegate", fmt.Sprintf("%T", m.Delegate()))
		return []T{}, nil
	}

	md, _ := s.registry.Lookup(typ)
	plan := queryir.InstancesOf{Var: queryir.DefaultVar, Class: entity.ClassIRI(md)}
	stmt, err := dialect.Build(src.Dialect(), plan)
	if err != nil {
		return nil, queryFailed("all", "cannot build query", "", err)
	}

	s.logger.Debug("all",
		"type", typ.String(),
		"class", string(plan.Class),
		"dialect", stmt.Dialect.String(),
		"query", stmt.Text)

	rows, err := m.NativeQuery(ctx, stmt, typ)
	if err != nil {
		return nil, queryFailed("all", fmt.Sprintf("native query for %s failed", typ), stmt.Text, err)
	}

	out := make([]T, 0, len(rows))
	for i, row := range rows {
		v, ok := row.(T)
		if !ok {
			return nil, &PersistenceError{
				Code:    ErrCodeCastFailed,
				Op:      "all",
				Message: fmt.Sprintf("row %d is %T, want %s", i, row, typ),
				Query:   stmt.Text,
				Err:     ErrTypeMismatch,
			}
		}
		out = append(out, v)
	}
	return out, nil
}
