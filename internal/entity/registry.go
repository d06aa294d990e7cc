package entity

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/roach88/quadmap/internal/rdfid"
)

// ErrAlreadyRegistered is returned when metadata is attached to a type twice.
var ErrAlreadyRegistered = errors.New("type already registered")

// Registry maps Go types to their Metadata.
//
// Thread-safety: all methods are safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	types  map[reflect.Type]Metadata
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for recoverable named-graph warnings.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		types:  make(map[reflect.Type]Metadata),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// baseType strips one level of pointer so T and *T share metadata.
func baseType(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}

// Register attaches md to t. Each type may be registered once.
// A static named graph with a non-empty value must be an absolute URI.
func (r *Registry) Register(t reflect.Type, md Metadata) error {
	if t == nil {
		return fmt.Errorf("register: nil type")
	}
	t = baseType(t)

	if md.NamedGraph.Policy == GraphStatic && md.NamedGraph.Value != "" {
		if _, err := rdfid.NewURI(md.NamedGraph.Value); err != nil {
			return fmt.Errorf("register %s: named graph: %w", t, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[t]; exists {
		return fmt.Errorf("register %s: %w", t, ErrAlreadyRegistered)
	}
	r.types[t] = md
	return nil
}

// RegisterType attaches md to T.
func RegisterType[T any](r *Registry, md Metadata) error {
	return r.Register(reflect.TypeOf((*T)(nil)).Elem(), md)
}

// Lookup returns the metadata registered for t.
func (r *Registry) Lookup(t reflect.Type) (Metadata, bool) {
	if t == nil {
		return Metadata{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	md, ok := r.types[baseType(t)]
	return md, ok
}

// LookupValue returns the metadata registered for obj's dynamic type.
func (r *Registry) LookupValue(obj any) (Metadata, bool) {
	if obj == nil {
		return Metadata{}, false
	}
	return r.Lookup(reflect.TypeOf(obj))
}

// IsCompatible reports whether t can take part in graph operations: it is
// registered as an entity, has an RDF class, and supports rdfid.Identifiable.
// Partial compliance is simply incompatible.
func (r *Registry) IsCompatible(t reflect.Type) bool {
	md, ok := r.Lookup(t)
	if !ok {
		return false
	}
	return md.Entity && md.Class != "" && rdfid.Supports(t)
}

// HasNamedGraph reports whether obj's type declares a named-graph policy.
func (r *Registry) HasNamedGraph(obj any) bool {
	md, ok := r.LookupValue(obj)
	return ok && HasNamedGraph(md)
}

// NamedGraphOf returns the named graph that operations on obj are scoped to.
// ok is false when there is none. Failures to derive an instance-scoped
// graph are logged and reported as no graph.
func (r *Registry) NamedGraphOf(obj any) (graph rdfid.ID, ok bool) {
	md, found := r.LookupValue(obj)
	if !found || !HasNamedGraph(md) {
		return rdfid.ID{}, false
	}

	switch md.NamedGraph.Policy {
	case GraphInstance:
		id, err := rdfid.Resolve(obj)
		if err != nil {
			r.logger.Warn("cannot derive instance named graph",
				"type", fmt.Sprintf("%T", obj),
				"error", err)
			return rdfid.ID{}, false
		}
		if !id.IsURI() {
			r.logger.Warn("cannot derive instance named graph: identifier is not a URI",
				"type", fmt.Sprintf("%T", obj),
				"kind", id.Kind().String(),
				"id", id.String())
			return rdfid.ID{}, false
		}
		return id, true

	case GraphStatic:
		id, err := rdfid.NewURI(md.NamedGraph.Value)
		if err != nil {
			r.logger.Warn("static named graph is not a URI",
				"type", fmt.Sprintf("%T", obj),
				"graph", md.NamedGraph.Value,
				"error", err)
			return rdfid.ID{}, false
		}
		return id, true

	default:
		return rdfid.ID{}, false
	}
}

// Types returns the number of registered types.
func (r *Registry) Types() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}
