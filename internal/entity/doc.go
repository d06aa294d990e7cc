// Package entity holds per-type RDF metadata for application entities.
//
// Metadata is declared once per Go type and never changes afterwards:
//
//   - Entity: the type is a persistable entity
//   - Class: the RDF class (full IRI or CURIE) that instances are typed with
//   - NamedGraph: where operations on instances are scoped
//
// Registration replaces annotation scanning. The registry is the single
// lookup point; types not in it have no metadata.
//
// # Named graphs
//
// A NamedGraph policy is one of:
//
//	GraphNone      operate on the store without a graph restriction
//	GraphInstance  the graph URI is the instance's own URI identifier
//	GraphStatic    the graph URI is fixed at registration time
//
// NamedGraphOf never fails the caller. An instance-scoped graph that cannot
// be derived (blank node or absent identifier) is logged as a warning and
// treated as "no named graph".
//
// # Mapping files
//
// Metadata can also be declared in CUE and bound to Go types by name:
//
//	namespace: foaf: "http://xmlns.com/foaf/0.1/"
//
//	entity: Person: {
//	    class: "foaf:Person"
//	    named_graph: {type: "static", value: "urn:people"}
//	}
package entity
