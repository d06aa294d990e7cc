package entity

import (
	"fmt"
	"strings"

	"github.com/cayleygraph/quad"
)

// GraphPolicy selects how an entity's named graph is derived.
type GraphPolicy uint8

const (
	// GraphNone means no named-graph restriction.
	GraphNone GraphPolicy = iota

	// GraphInstance derives the graph URI from the instance's own identifier.
	GraphInstance

	// GraphStatic uses a fixed graph URI.
	GraphStatic
)

// String returns the policy name used in mapping files.
func (p GraphPolicy) String() string {
	switch p {
	case GraphInstance:
		return "instance"
	case GraphStatic:
		return "static"
	default:
		return "none"
	}
}

// ParseGraphPolicy parses a policy name (case-insensitive).
func ParseGraphPolicy(s string) (GraphPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return GraphNone, nil
	case "instance":
		return GraphInstance, nil
	case "static":
		return GraphStatic, nil
	default:
		return GraphNone, fmt.Errorf("unknown named graph type %q: must be one of none, instance, static", s)
	}
}

// NamedGraph is a type's named-graph policy. Value is only meaningful for
// GraphStatic.
type NamedGraph struct {
	Policy GraphPolicy
	Value  string
}

// Metadata is the immutable RDF description of an entity type.
type Metadata struct {
	// Entity marks the type as persistable.
	Entity bool

	// Class is the RDF class of instances. CURIEs are expanded with
	// registered namespace prefixes.
	Class string

	// NamedGraph is the optional named-graph policy.
	NamedGraph NamedGraph
}

// HasNamedGraph reports whether md declares a usable named-graph policy:
// instance-scoped, or static with a non-empty graph URI.
func HasNamedGraph(md Metadata) bool {
	switch md.NamedGraph.Policy {
	case GraphInstance:
		return true
	case GraphStatic:
		return md.NamedGraph.Value != ""
	default:
		return false
	}
}

// ClassIRI returns the full class IRI of md.
func ClassIRI(md Metadata) quad.IRI {
	return quad.IRI(md.Class).Full()
}
