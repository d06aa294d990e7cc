package entity

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
	"github.com/cayleygraph/quad/voc"

	"github.com/roach88/quadmap/internal/rdfid"
)

// Mappings holds entity metadata declared in CUE, keyed by entity name.
type Mappings struct {
	Entities   map[string]Metadata
	Namespaces map[string]string
	FileCount  int
}

// CompileError represents a mapping compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadMappings loads every .cue file in dir and compiles the namespace and
// entity declarations. Namespace prefixes are registered globally so CURIE
// classes expand.
func LoadMappings(dir string) (*Mappings, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("mappings directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.cue"))
	if err != nil {
		return nil, fmt.Errorf("scan mappings: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", inst.Err)
	}

	value := ctx.BuildInstance(inst)
	m, err := CompileMappings(value)
	if err != nil {
		return nil, err
	}
	m.FileCount = len(files)
	return m, nil
}

// CompileMappings compiles an already-built CUE value.
func CompileMappings(v cue.Value) (*Mappings, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	m := &Mappings{
		Entities:   make(map[string]Metadata),
		Namespaces: make(map[string]string),
	}

	nsVal := v.LookupPath(cue.ParsePath("namespace"))
	if nsVal.Exists() {
		iter, err := nsVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			ns, err := iter.Value().String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			if !rdfid.IsURI(ns) {
				return nil, &CompileError{
					Field:   "namespace." + iter.Label(),
					Message: fmt.Sprintf("%q is not an absolute URI", ns),
					Pos:     iter.Value().Pos(),
				}
			}
			m.Namespaces[iter.Label()] = ns
		}
	}

	// Prefixes must be known before classes are expanded.
	for prefix, ns := range m.Namespaces {
		voc.RegisterPrefix(prefix+":", ns)
	}

	entVal := v.LookupPath(cue.ParsePath("entity"))
	if entVal.Exists() {
		iter, err := entVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			md, err := CompileEntity(iter.Value())
			if err != nil {
				return nil, err
			}
			m.Entities[iter.Label()] = md
		}
	}

	if len(m.Entities) == 0 {
		return nil, &CompileError{Field: "entity", Message: "no entities declared", Pos: v.Pos()}
	}

	return m, nil
}

// CompileEntity compiles one entity declaration:
//
//	{class: string, persistable?: bool, named_graph?: {type: string, value?: string}}
func CompileEntity(v cue.Value) (Metadata, error) {
	if err := v.Err(); err != nil {
		return Metadata{}, formatCUEError(err)
	}

	md := Metadata{Entity: true}

	classVal := v.LookupPath(cue.ParsePath("class"))
	if !classVal.Exists() {
		return Metadata{}, &CompileError{Field: "class", Message: "class is required", Pos: v.Pos()}
	}
	class, err := classVal.String()
	if err != nil {
		return Metadata{}, formatCUEError(err)
	}
	if class == "" {
		return Metadata{}, &CompileError{Field: "class", Message: "class must be non-empty", Pos: classVal.Pos()}
	}
	md.Class = class

	if pVal := v.LookupPath(cue.ParsePath("persistable")); pVal.Exists() {
		persistable, err := pVal.Bool()
		if err != nil {
			return Metadata{}, formatCUEError(err)
		}
		md.Entity = persistable
	}

	ngVal := v.LookupPath(cue.ParsePath("named_graph"))
	if ngVal.Exists() {
		ng, err := compileNamedGraph(ngVal)
		if err != nil {
			return Metadata{}, err
		}
		md.NamedGraph = ng
	}

	return md, nil
}

func compileNamedGraph(v cue.Value) (NamedGraph, error) {
	var ng NamedGraph

	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return ng, &CompileError{Field: "named_graph.type", Message: "type is required", Pos: v.Pos()}
	}
	typ, err := typeVal.String()
	if err != nil {
		return ng, formatCUEError(err)
	}
	ng.Policy, err = ParseGraphPolicy(typ)
	if err != nil {
		return ng, &CompileError{Field: "named_graph.type", Message: err.Error(), Pos: typeVal.Pos()}
	}

	if valueVal := v.LookupPath(cue.ParsePath("value")); valueVal.Exists() {
		value, err := valueVal.String()
		if err != nil {
			return ng, formatCUEError(err)
		}
		if ng.Policy == GraphStatic && value != "" && !rdfid.IsURI(value) {
			return ng, &CompileError{
				Field:   "named_graph.value",
				Message: fmt.Sprintf("%q is not an absolute URI", value),
				Pos:     valueVal.Pos(),
			}
		}
		ng.Value = value
	}

	return ng, nil
}

// Names returns the declared entity names in sorted order.
func (m *Mappings) Names() []string {
	names := make([]string, 0, len(m.Entities))
	for name := range m.Entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bind registers t in r with the metadata declared for name.
func (m *Mappings) Bind(r *Registry, name string, t reflect.Type) error {
	md, ok := m.Entities[name]
	if !ok {
		return fmt.Errorf("bind %s: no entity named %q in mappings", t, name)
	}
	return r.Register(t, md)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
