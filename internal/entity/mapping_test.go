package entity

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peopleMappings = `
package mappings

namespace: ex: "http://example.org/vocab#"

entity: Person: {
	class: "ex:Person"
}

entity: Document: {
	class: "http://example.org/vocab#Document"
	named_graph: {type: "static", value: "urn:g1"}
}

entity: Note: {
	class: "ex:Note"
	named_graph: type: "instance"
}

entity: Draft: {
	class:       "ex:Draft"
	persistable: false
}
`

func TestCompileMappings(t *testing.T) {
	v := cuecontext.New().CompileString(peopleMappings)
	require.NoError(t, v.Err())

	m, err := CompileMappings(v)
	require.NoError(t, err)

	assert.Equal(t, []string{"Document", "Draft", "Note", "Person"}, m.Names())
	assert.Equal(t, "http://example.org/vocab#", m.Namespaces["ex"])

	person := m.Entities["Person"]
	assert.True(t, person.Entity)
	assert.Equal(t, "ex:Person", person.Class)
	assert.Equal(t, GraphNone, person.NamedGraph.Policy)
	assert.Equal(t, "http://example.org/vocab#Person", string(ClassIRI(person)))

	doc := m.Entities["Document"]
	assert.Equal(t, NamedGraph{Policy: GraphStatic, Value: "urn:g1"}, doc.NamedGraph)

	assert.Equal(t, GraphInstance, m.Entities["Note"].NamedGraph.Policy)
	assert.False(t, m.Entities["Draft"].Entity)
}

func TestCompileEntity_Errors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{
			name:  "missing class",
			src:   `entity: X: {named_graph: type: "instance"}`,
			field: "class",
		},
		{
			name:  "empty class",
			src:   `entity: X: {class: ""}`,
			field: "class",
		},
		{
			name:  "unknown graph type",
			src:   `entity: X: {class: "urn:c", named_graph: type: "context"}`,
			field: "named_graph.type",
		},
		{
			name:  "missing graph type",
			src:   `entity: X: {class: "urn:c", named_graph: value: "urn:g"}`,
			field: "named_graph.type",
		},
		{
			name:  "static graph not a uri",
			src:   `entity: X: {class: "urn:c", named_graph: {type: "static", value: "g 1"}}`,
			field: "named_graph.value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := cuecontext.New().CompileString(tt.src)
			require.NoError(t, v.Err())

			_, err := CompileEntity(v.LookupPath(cue.ParsePath("entity.X")))
			require.Error(t, err)

			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestCompileMappings_NoEntities(t *testing.T) {
	v := cuecontext.New().CompileString(`namespace: ex: "http://example.org/"`)
	require.NoError(t, v.Err())

	_, err := CompileMappings(v)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "entity", ce.Field)
}

func TestCompileMappings_BadNamespace(t *testing.T) {
	v := cuecontext.New().CompileString(`
		namespace: ex: "not a namespace"
		entity: X: class: "ex:X"
	`)
	require.NoError(t, v.Err())

	_, err := CompileMappings(v)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "namespace.ex", ce.Field)
}

func TestLoadMappings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "people.cue"), []byte(peopleMappings), 0o644))

	m, err := LoadMappings(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, m.FileCount)
	assert.Len(t, m.Entities, 4)
}

func TestLoadMappings_Errors(t *testing.T) {
	_, err := LoadMappings(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	_, err = LoadMappings(t.TempDir())
	assert.ErrorContains(t, err, "no CUE files")

	file := filepath.Join(t.TempDir(), "file.cue")
	require.NoError(t, os.WriteFile(file, []byte(peopleMappings), 0o644))
	_, err = LoadMappings(file)
	assert.ErrorContains(t, err, "not a directory")
}

func TestMappings_Bind(t *testing.T) {
	v := cuecontext.New().CompileString(peopleMappings)
	m, err := CompileMappings(v)
	require.NoError(t, err)

	r := NewRegistry()
	require.NoError(t, m.Bind(r, "Document", reflect.TypeOf((*document)(nil)).Elem()))
	require.NoError(t, m.Bind(r, "Draft", reflect.TypeOf((*note)(nil)).Elem()))

	assert.True(t, r.IsCompatible(reflect.TypeOf((*document)(nil)).Elem()))
	assert.False(t, r.IsCompatible(reflect.TypeOf((*note)(nil)).Elem()), "persistable: false is not an entity")

	err = m.Bind(r, "Missing", reflect.TypeOf((*person)(nil)).Elem())
	assert.ErrorContains(t, err, `no entity named "Missing"`)
}
