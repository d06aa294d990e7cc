// Package rdfid provides RDF identifiers for application entities.
//
// An ID names a graph resource in one of two ways:
//
//   - URI: a globally unique absolute URI (KindURI)
//   - Blank node: a store-local opaque label (KindBlank)
//
// A third kind, KindText, holds a caller-supplied textual key that has not
// been classified yet. Resolve classifies it: text that parses as an absolute
// URI becomes a URI, anything else becomes a blank node label.
//
// The zero ID is the absent state. An object whose identifier is absent is
// not yet "in" the graph; operations that need an identifier treat it as an
// empty result rather than an error.
//
// # Identity-bearing objects
//
// Entities expose their identifier through Identifiable. Ref is an
// embeddable implementation with set-once semantics:
//
//	type Person struct {
//	    rdfid.Ref
//	    Name string
//	}
//
//	p := &Person{Name: "Alice"}
//	p.SetRDFID(rdfid.NewURN())
//
// # Primary keys
//
// AsPrimaryKey converts arbitrary caller values (URLs, strings, Stringers)
// into an ID. The blank node grammar it accepts is deliberately narrow: a
// letter or underscore followed by at most one more label character.
package rdfid
