// Package queryir provides the abstract query plans used to talk to an RDF
// store.
//
// A plan says *what* to ask (describe a resource, check that it exists,
// enumerate instances of a class). It says nothing about syntax; the dialect
// package renders plans into SPARQL or SeRQL text, and the querysql package
// compiles them into SQL for the local SQLite store.
//
//	[entity + metadata] → [Query plan] → [SPARQL text]
//	                                   → [SeRQL text]
//	                                   → [SQLite SQL]
//
// SEALED INTERFACE:
//
// Query is sealed using the marker method pattern. Only types in this
// package implement it, so renderers can switch exhaustively:
//
//	switch q := query.(type) {
//	case Describe:
//	case Exists:
//	case InstancesOf:
//	default:
//	    // unreachable for plans built by this module
//	}
//
// Identifiers in plans are rdfid.IDs and must already be resolved; an
// unclassified textual key is rejected by Validate.
package queryir
