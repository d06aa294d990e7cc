// Package store provides a SQLite-backed RDF quad store.
//
// The store is a local data source for graph operations:
//   - Add and Load insert statements idempotently
//   - GraphQuery and SelectQuery execute rendered statements
//   - Manager materialises enumeration results as entity values
//
// Statements are executed from their query plan, compiled to SQL by the
// querysql package. The rendered SPARQL or SeRQL text is not parsed.
//
// # Storage
//
// One quads table with UNIQUE(subject, predicate, object, graph). Terms are
// stored in their N-Quads form (<iri>, _:label, "literal"^^<type>), so a
// stored row can always be parsed back into a quad.Quad.
//
// # Deterministic Query Results
//
//   - Every query has an ORDER BY with COLLATE BINARY on text columns
//   - Values are always bound as parameters
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
