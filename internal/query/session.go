package query

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/quadmap/internal/dialect"
	"github.com/roach88/quadmap/internal/entity"
	"github.com/roach88/quadmap/internal/queryir"
	"github.com/roach88/quadmap/internal/rdfid"
	"github.com/roach88/quadmap/internal/source"
)

// Session executes graph operations for entities registered in a Registry.
//
// A Session holds no per-call state and is safe for concurrent use when the
// underlying data sources are.
type Session struct {
	registry *entity.Registry
	logger   *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Session over reg.
func New(reg *entity.Registry, opts ...Option) *Session {
	s := &Session{
		registry: reg,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the registry the session resolves metadata from.
func (s *Session) Registry() *entity.Registry {
	return s.registry
}

// scope returns the named graph for obj when src can honour it.
func (s *Session) scope(src source.DataSource, obj any) rdfid.ID {
	if !source.SupportsNamedGraphs(src) || !s.registry.HasNamedGraph(obj) {
		return rdfid.ID{}
	}
	graph, ok := s.registry.NamedGraphOf(obj)
	if !ok {
		return rdfid.ID{}
	}
	return graph
}

// Describe returns every statement whose subject is obj's identifier,
// restricted to obj's named graph when the source supports named graphs.
// An object with no identifier yields an empty graph without a query.
func (s *Session) Describe(ctx context.Context, src source.DataSource, obj any) (source.Graph, error) {
	id, err := rdfid.Resolve(obj)
	if err != nil {
		return nil, err
	}
	if id.IsZero() {
		return source.Graph{}, nil
	}

	plan := queryir.Describe{Subject: id, Graph: s.scope(src, obj)}
	stmt, err := dialect.Build(src.Dialect(), plan)
	if err != nil {
		return nil, queryFailed("describe", "cannot build query", "", err)
	}

	s.logger.Debug("describe",
		"subject", id.String(),
		"dialect", stmt.Dialect.String(),
		"query", stmt.Text)

	g, err := src.GraphQuery(ctx, stmt)
	if err != nil {
		return nil, queryFailed("describe", fmt.Sprintf("graph query for %s failed", id), stmt.Text, err)
	}
	if g == nil {
		g = source.Graph{}
	}
	return g, nil
}

// Exists reports whether the store holds at least one statement with obj's
// identifier as its subject, restricted to obj's named graph when the
// source supports named graphs. An object with no identifier is reported
// as absent without a query.
//
// The result cursor is closed exactly once on every path.
func (s *Session) Exists(ctx context.Context, src source.DataSource, obj any) (found bool, err error) {
	id, err := rdfid.Resolve(obj)
	if err != nil {
		return false, err
	}
	if id.IsZero() {
		return false, nil
	}

	plan := queryir.Exists{Subject: id, Graph: s.scope(src, obj)}
	stmt, err := dialect.Build(src.Dialect(), plan)
	if err != nil {
		return false, queryFailed("exists", "cannot build query", "", err)
	}

	s.logger.Debug("exists",
		"subject", id.String(),
		"dialect", stmt.Dialect.String(),
		"query", stmt.Text)

	rs, err := src.SelectQuery(ctx, stmt)
	if err != nil {
		return false, queryFailed("exists", fmt.Sprintf("select query for %s failed", id), stmt.Text, err)
	}
	if rs == nil {
		return false, queryFailed("exists", "data source returned no result set", stmt.Text, nil)
	}
	defer func() {
		closeErr := rs.Close()
		if closeErr != nil && err == nil {
			found = false
			err = queryFailed("exists", "cannot close result set", stmt.Text, closeErr)
		}
	}()

	found = rs.Next()
	if rowsErr := rs.Err(); rowsErr != nil {
		return false, queryFailed("exists", fmt.Sprintf("reading results for %s failed", id), stmt.Text, rowsErr)
	}
	return found, nil
}
