package store

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	n, err := s.Add(ctx, seedPeople()...)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	n, err = s.Add(ctx, seedPeople()...)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestAdd_StoresTermsInNQuadsForm(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Add(context.Background(),
		quad.Make(quad.BNode("b1"), quad.IRI(foafName), quad.String("Zoe"), quad.IRI("urn:g")))
	require.NoError(t, err)

	var subject, predicate, object, graph string
	err = s.db.QueryRow(`SELECT subject, predicate, object, graph FROM quads`).
		Scan(&subject, &predicate, &object, &graph)
	require.NoError(t, err)

	assert.Equal(t, "_:b1", subject)
	assert.Equal(t, "<"+foafName+">", predicate)
	assert.Equal(t, `"Zoe"`, object)
	assert.Equal(t, "<urn:g>", graph)
}

func TestAdd_RejectsIncompleteStatement(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Add(context.Background(), quad.Quad{Subject: quad.IRI(alice)})
	require.Error(t, err)

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count, "failed batch must not be partially written")
}

func TestLoad(t *testing.T) {
	s := createTestStore(t)

	input := strings.Join([]string{
		`<http://example.org/people/alice> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://xmlns.com/foaf/0.1/Person> .`,
		`<http://example.org/people/alice> <http://xmlns.com/foaf/0.1/name> "Alice" .`,
		`_:b0 <http://xmlns.com/foaf/0.1/knows> <http://example.org/people/alice> <urn:graph:social> .`,
		`<http://example.org/people/alice> <http://xmlns.com/foaf/0.1/name> "Alice" .`,
	}, "\n") + "\n"

	read, inserted, err := s.Load(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, int64(4), read)
	assert.Equal(t, int64(3), inserted)
}

func TestLoad_Empty(t *testing.T) {
	s := createTestStore(t)

	read, inserted, err := s.Load(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, read)
	assert.Zero(t, inserted)
}

func TestLoad_Malformed(t *testing.T) {
	s := createTestStore(t)

	_, _, err := s.Load(context.Background(), strings.NewReader("<urn:s> <urn:p>\n"))
	assert.Error(t, err)
}

func TestDump_RoundTrip(t *testing.T) {
	src := createTestStore(t)
	ctx := context.Background()

	_, err := src.Add(ctx, seedPeople()...)
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := src.Dump(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	dst := createTestStore(t)
	read, inserted, err := dst.Load(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(4), read)
	assert.Equal(t, int64(4), inserted)
}
