package store

import (
	"path/filepath"
	"testing"

	"github.com/cayleygraph/quad"
)

// createTestStore creates a new temporary store for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

const (
	foafName   = "http://xmlns.com/foaf/0.1/name"
	foafPerson = "http://xmlns.com/foaf/0.1/Person"
	rdfTypeIRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	alice      = "http://example.org/people/alice"
	bob        = "http://example.org/people/bob"
)

// seedPeople returns two typed people, bob's data in a named graph.
func seedPeople() []quad.Quad {
	return []quad.Quad{
		quad.Make(quad.IRI(alice), quad.IRI(rdfTypeIRI), quad.IRI(foafPerson), nil),
		quad.Make(quad.IRI(alice), quad.IRI(foafName), quad.String("Alice"), nil),
		quad.Make(quad.IRI(bob), quad.IRI(rdfTypeIRI), quad.IRI(foafPerson), quad.IRI("urn:graph:bob")),
		quad.Make(quad.IRI(bob), quad.IRI(foafName), quad.String("Bob"), quad.IRI("urn:graph:bob")),
	}
}
