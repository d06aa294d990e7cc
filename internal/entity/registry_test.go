package entity

import (
	"bytes"
	"log/slog"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quadmap/internal/rdfid"
)

type person struct {
	rdfid.Ref
	Name string
}

type document struct {
	rdfid.Ref
}

type note struct {
	rdfid.Ref
}

type tag struct {
	Label string
}

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	md := Metadata{Entity: true, Class: "http://xmlns.com/foaf/0.1/Person"}

	require.NoError(t, RegisterType[person](r, md))

	got, ok := r.Lookup(reflect.TypeOf((*person)(nil)).Elem())
	require.True(t, ok)
	assert.Equal(t, md, got)

	// Pointer and value types share metadata
	got, ok = r.Lookup(reflect.TypeOf((**person)(nil)).Elem())
	require.True(t, ok)
	assert.Equal(t, md, got)

	got, ok = r.LookupValue(&person{})
	require.True(t, ok)
	assert.Equal(t, md, got)

	assert.Equal(t, 1, r.Types())
}

func TestRegister_Twice(t *testing.T) {
	r := NewRegistry()
	md := Metadata{Entity: true, Class: "urn:class:Person"}

	require.NoError(t, RegisterType[person](r, md))
	err := RegisterType[*person](r, md)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestRegister_InvalidStaticGraph(t *testing.T) {
	r := NewRegistry()
	err := RegisterType[person](r, Metadata{
		Entity:     true,
		Class:      "urn:class:Person",
		NamedGraph: NamedGraph{Policy: GraphStatic, Value: "not a uri"},
	})
	require.Error(t, err)
	assert.True(t, rdfid.IsInvalidKey(err))
}

func TestRegister_NilType(t *testing.T) {
	assert.Error(t, NewRegistry().Register(nil, Metadata{}))
}

func TestLookup_Unregistered(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Lookup(reflect.TypeOf((*person)(nil)).Elem())
	assert.False(t, ok)

	_, ok = r.LookupValue(nil)
	assert.False(t, ok)

	_, ok = r.Lookup(nil)
	assert.False(t, ok)
}

func TestIsCompatible(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		md   Metadata
		want bool
	}{
		{
			name: "all present",
			typ:  reflect.TypeOf((*person)(nil)).Elem(),
			md:   Metadata{Entity: true, Class: "urn:class:Person"},
			want: true,
		},
		{
			name: "missing entity marker",
			typ:  reflect.TypeOf((*person)(nil)).Elem(),
			md:   Metadata{Entity: false, Class: "urn:class:Person"},
			want: false,
		},
		{
			name: "missing rdf class",
			typ:  reflect.TypeOf((*person)(nil)).Elem(),
			md:   Metadata{Entity: true},
			want: false,
		},
		{
			name: "missing identity capability",
			typ:  reflect.TypeOf((*tag)(nil)).Elem(),
			md:   Metadata{Entity: true, Class: "urn:class:Tag"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			require.NoError(t, r.Register(tt.typ, tt.md))

			assert.Equal(t, tt.want, r.IsCompatible(tt.typ))
			assert.Equal(t, tt.want, r.IsCompatible(reflect.PointerTo(tt.typ)))
		})
	}
}

func TestIsCompatible_Unregistered(t *testing.T) {
	assert.False(t, NewRegistry().IsCompatible(reflect.TypeOf((*person)(nil)).Elem()))
}

func TestHasNamedGraph(t *testing.T) {
	tests := []struct {
		name string
		ng   NamedGraph
		want bool
	}{
		{"none", NamedGraph{}, false},
		{"instance", NamedGraph{Policy: GraphInstance}, true},
		{"static with value", NamedGraph{Policy: GraphStatic, Value: "urn:g1"}, true},
		{"static without value", NamedGraph{Policy: GraphStatic}, false},
		{"none ignores value", NamedGraph{Policy: GraphNone, Value: "urn:g1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := Metadata{Entity: true, Class: "urn:c", NamedGraph: tt.ng}
			assert.Equal(t, tt.want, HasNamedGraph(md))

			r := NewRegistry()
			require.NoError(t, RegisterType[person](r, md))
			assert.Equal(t, tt.want, r.HasNamedGraph(&person{}))
		})
	}
}

func TestNamedGraphOf_Static(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, RegisterType[document](r, Metadata{
		Entity:     true,
		Class:      "urn:class:Document",
		NamedGraph: NamedGraph{Policy: GraphStatic, Value: "urn:g1"},
	}))

	ids := []rdfid.ID{
		{},
		rdfid.MustURI("http://example.org/doc/1"),
		rdfid.MustBlank("b1"),
	}

	for _, id := range ids {
		t.Run(id.Kind().String(), func(t *testing.T) {
			doc := &document{}
			doc.SetRDFID(id)

			g, ok := r.NamedGraphOf(doc)
			require.True(t, ok)
			assert.Equal(t, rdfid.MustURI("urn:g1"), g)
		})
	}
}

func TestNamedGraphOf_Instance(t *testing.T) {
	logger, buf := captureLogger()
	r := NewRegistry(WithLogger(logger))
	require.NoError(t, RegisterType[note](r, Metadata{
		Entity:     true,
		Class:      "urn:class:Note",
		NamedGraph: NamedGraph{Policy: GraphInstance},
	}))

	n := &note{}
	n.SetRDFID(rdfid.MustURI("http://example.org/notes/1"))

	g, ok := r.NamedGraphOf(n)
	require.True(t, ok)
	assert.Equal(t, rdfid.MustURI("http://example.org/notes/1"), g)
	assert.Empty(t, buf.String())
}

func TestNamedGraphOf_InstanceBlankNode(t *testing.T) {
	logger, buf := captureLogger()
	r := NewRegistry(WithLogger(logger))
	require.NoError(t, RegisterType[note](r, Metadata{
		Entity:     true,
		Class:      "urn:class:Note",
		NamedGraph: NamedGraph{Policy: GraphInstance},
	}))

	n := &note{}
	n.SetRDFID(rdfid.MustBlank("_:b1"))

	var (
		g  rdfid.ID
		ok bool
	)
	assert.NotPanics(t, func() { g, ok = r.NamedGraphOf(n) })
	assert.False(t, ok)
	assert.True(t, g.IsZero())
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "identifier is not a URI")
}

func TestNamedGraphOf_InstanceAbsent(t *testing.T) {
	logger, buf := captureLogger()
	r := NewRegistry(WithLogger(logger))
	require.NoError(t, RegisterType[note](r, Metadata{
		Entity:     true,
		Class:      "urn:class:Note",
		NamedGraph: NamedGraph{Policy: GraphInstance},
	}))

	_, ok := r.NamedGraphOf(&note{})
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestNamedGraphOf_NoPolicy(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, RegisterType[person](r, Metadata{Entity: true, Class: "urn:class:Person"}))

	p := &person{}
	p.SetRDFID(rdfid.MustURI("http://example.org/p"))

	_, ok := r.NamedGraphOf(p)
	assert.False(t, ok)

	_, ok = r.NamedGraphOf(&tag{})
	assert.False(t, ok, "unregistered types have no graph")
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, RegisterType[document](r, Metadata{
		Entity:     true,
		Class:      "urn:class:Document",
		NamedGraph: NamedGraph{Policy: GraphStatic, Value: "urn:g1"},
	}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.True(t, r.IsCompatible(reflect.TypeOf((*document)(nil)).Elem()))
				_, ok := r.NamedGraphOf(&document{})
				assert.True(t, ok)
			}
		}()
	}
	wg.Wait()
}

func TestGraphPolicy_Parse(t *testing.T) {
	tests := []struct {
		in   string
		want GraphPolicy
	}{
		{"", GraphNone},
		{"none", GraphNone},
		{"Instance", GraphInstance},
		{" static ", GraphStatic},
	}
	for _, tt := range tests {
		got, err := ParseGraphPolicy(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.want, mustParse(t, got.String()))
	}

	_, err := ParseGraphPolicy("context")
	assert.Error(t, err)
}

func mustParse(t *testing.T, s string) GraphPolicy {
	t.Helper()
	p, err := ParseGraphPolicy(s)
	require.NoError(t, err)
	return p
}

func TestClassIRI_FullPassesThrough(t *testing.T) {
	md := Metadata{Class: "http://xmlns.com/foaf/0.1/Person"}
	assert.Equal(t, "http://xmlns.com/foaf/0.1/Person", string(ClassIRI(md)))
}
