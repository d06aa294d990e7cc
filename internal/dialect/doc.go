// Package dialect renders query plans into the text of a concrete query
// language.
//
// Two dialects are supported:
//
//	SPARQL  the default, and the fallback for any unrecognised dialect
//	SeRQL   the Sesame RDF Query Language
//
// Selection is a two-way branch: a data source that declares SeRQL gets
// SeRQL text, and everything else gets SPARQL. Each dialect implements the
// renderer interface, which has one method per plan type, so a new plan type
// or dialect cannot be added without covering every combination.
//
// Rendered text is handed to executors verbatim inside a Statement, together
// with the plan it came from.
package dialect
