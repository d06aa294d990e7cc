package rdfid

import (
	"fmt"
	"net/url"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Ref
	Name string
}

type plain struct {
	Name string
}

type code int

func (c code) String() string { return fmt.Sprintf("http://example.org/code/%d", int(c)) }

func TestRef_SetOnce(t *testing.T) {
	p := &person{}
	assert.True(t, p.RDFID().IsZero())

	first := MustURI("http://example.org/alice")
	p.SetRDFID(first)
	p.SetRDFID(MustURI("http://example.org/bob"))

	assert.Equal(t, first, p.RDFID())
}

func TestSupports(t *testing.T) {
	assert.True(t, Supports(reflect.TypeOf((*person)(nil)).Elem()))
	assert.True(t, Supports(reflect.TypeOf((**person)(nil)).Elem()))
	assert.False(t, Supports(reflect.TypeOf((*plain)(nil)).Elem()))
	assert.False(t, Supports(nil))
}

func TestResolve_URIRoundTrip(t *testing.T) {
	tests := []string{
		"http://example.org/alice",
		"urn:g1",
		"http://example.org/café",
		"http://example.org/cafe\u0301",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			p := &person{}
			p.SetRDFID(MustURI(raw))

			id, err := Resolve(p)
			require.NoError(t, err)
			assert.True(t, id.IsURI())
			assert.Equal(t, ASCII(raw), id.String())
		})
	}
}

func TestResolve_Inputs(t *testing.T) {
	u, err := url.Parse("http://example.org/u")
	require.NoError(t, err)

	withBlank := &person{}
	withBlank.SetRDFID(MustBlank("b1"))

	withTextURI := &person{}
	withTextURI.SetRDFID(Text("http://example.org/sniffed"))

	withTextLabel := &person{}
	withTextLabel.SetRDFID(Text("node7"))

	tests := []struct {
		name string
		obj  any
		want ID
	}{
		{"typed uri key", MustURI("http://example.org/k"), MustURI("http://example.org/k")},
		{"typed blank key", MustBlank("k1"), MustBlank("k1")},
		{"url pointer", u, MustURI("http://example.org/u")},
		{"url value", *u, MustURI("http://example.org/u")},
		{"entity with blank id", withBlank, MustBlank("b1")},
		{"text sniffed as uri", withTextURI, MustURI("http://example.org/sniffed")},
		{"text kept as label", withTextLabel, MustBlank("node7")},
		{"entity value", person{Ref: NewRef(MustURI("http://example.org/v"))}, MustURI("http://example.org/v")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Resolve(tt.obj)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestResolve_AbsentIdentifier(t *testing.T) {
	id, err := Resolve(&person{Name: "nobody"})
	require.NoError(t, err)
	assert.True(t, id.IsZero())
}

func TestResolve_NotIdentifiable(t *testing.T) {
	var nilPerson *person

	tests := []struct {
		name string
		obj  any
	}{
		{"nil", nil},
		{"nil entity pointer", nilPerson},
		{"plain struct", plain{Name: "x"}},
		{"bare string", "http://example.org/a"},
		{"unclassifiable text", Text("not a uri!!")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.obj)
			require.Error(t, err)
			assert.True(t, IsInvalidKey(err))
		})
	}
}

func TestResolve_TextOutsideBlankLabelGrammar(t *testing.T) {
	for _, raw := range []string{"1abc", "b.1", "-x"} {
		t.Run(raw, func(t *testing.T) {
			_, err := Resolve(Text(raw))
			require.Error(t, err)
			assert.True(t, IsInvalidKey(err))
			assert.Contains(t, err.Error(), raw)
		})
	}

	id, err := Resolve(Text("node-7"))
	require.NoError(t, err)
	assert.Equal(t, MustBlank("node-7"), id)
}

func TestResolve_DoesNotMutate(t *testing.T) {
	p := &person{}
	p.SetRDFID(Text("http://example.org/raw"))

	_, err := Resolve(p)
	require.NoError(t, err)
	assert.Equal(t, KindText, p.RDFID().Kind())
}

func TestAsPrimaryKey(t *testing.T) {
	u, err := url.Parse("http://example.org/from-url")
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  any
		want ID
	}{
		{"absolute uri string", "http://example.org/alice", MustURI("http://example.org/alice")},
		{"urn string", "urn:g1", MustURI("urn:g1")},
		{"url pointer", u, MustURI("http://example.org/from-url")},
		{"url value", *u, MustURI("http://example.org/from-url")},
		{"typed key passes through", MustBlank("long_label"), MustBlank("long_label")},
		{"text key classified", Text("urn:x"), MustURI("urn:x")},
		{"stringer", code(7), MustURI("http://example.org/code/7")},
		{"single letter label", "a", MustBlank("a")},
		{"underscore label", "_", MustBlank("_")},
		{"two character label", "b1", MustBlank("b1")},
		{"letter and hyphen", "x-", MustBlank("x-")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := AsPrimaryKey(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestAsPrimaryKey_BlankLabelIsExact(t *testing.T) {
	id, err := AsPrimaryKey("q")
	require.NoError(t, err)
	assert.True(t, id.IsBlank())
	assert.Equal(t, "q", id.String())
}

func TestAsPrimaryKey_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"nil", nil},
		{"absent id", ID{}},
		{"not a uri", "not a uri!!"},
		{"empty string", ""},
		{"three character label", "abc"},
		{"leading digit", "1a"},
		{"integer", 42},
		{"blank prefix", "_:b1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AsPrimaryKey(tt.raw)
			require.Error(t, err)
			assert.True(t, IsInvalidKey(err))
		})
	}
}

func TestKeyError_IncludesValue(t *testing.T) {
	_, err := AsPrimaryKey("not a uri!!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"not a uri!!"`)

	_, err = AsPrimaryKey(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "<nil>")
}
