package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/quadmap/internal/dialect"
)

// Scenario defines a conformance test scenario.
// Scenarios load mappings and data, run a flow of graph operations, and
// assert on the resulting trace and store.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Mappings is the directory of CUE mapping files.
	Mappings string `yaml:"mappings"`

	// Data is an optional N-Quads file loaded before the flow.
	Data string `yaml:"data,omitempty"`

	// Dialect is the query language the store declares. Defaults to sparql.
	Dialect string `yaml:"dialect,omitempty"`

	// NamedGraphs toggles the store's named-graph support. Defaults to true.
	NamedGraphs *bool `yaml:"named_graphs,omitempty"`

	// Flow contains the operations to perform, in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final trace and store.
	// Supported types: query_contains, query_order, query_count, store_size
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// QueryDialect returns the declared dialect, defaulting to SPARQL.
func (s *Scenario) QueryDialect() dialect.Dialect {
	return dialect.Parse(s.Dialect)
}

// SupportsNamedGraphs returns the named_graphs setting, defaulting to true.
func (s *Scenario) SupportsNamedGraphs() bool {
	return s.NamedGraphs == nil || *s.NamedGraphs
}

// Operation names.
const (
	OpDescribe = "describe"
	OpExists   = "exists"
	OpList     = "list"
)

// FlowStep is one graph operation on an entity bound by mapping name.
type FlowStep struct {
	// Op is describe, exists, or list.
	Op string `yaml:"op"`

	// Entity is the mapping name the operation is typed with.
	Entity string `yaml:"entity"`

	// ID is the primary key of the instance for describe and exists.
	// Empty means the instance has no identifier.
	ID string `yaml:"id,omitempty"`

	// Expect specifies the expected outcome.
	// If nil, the step is only traced.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a step.
// Only the fields that are set are checked.
type ExpectClause struct {
	// Exists is the expected answer of an exists step.
	Exists *bool `yaml:"exists,omitempty"`

	// Count is the expected statement count of a describe step or the
	// expected instance count of a list step.
	Count *int `yaml:"count,omitempty"`

	// IDs are the expected identifiers of a list step, in order.
	IDs []string `yaml:"ids,omitempty"`

	// Error is the expected error class. Empty expects success.
	Error string `yaml:"error,omitempty"`
}

// Error classes recorded in the trace.
const (
	ErrClassInvalidKey  = "invalid_key"
	ErrClassQueryFailed = "query_failed"
	ErrClassCastFailed  = "cast_failed"
	ErrClassMapping     = "mapping"
	ErrClassOther       = "error"
)

// Assertion validates the trace or the store.
type Assertion struct {
	// Type specifies the assertion type:
	// - "query_contains": some step of Op issued a query containing Text
	// - "query_order": the Ops issued queries in this order
	// - "query_count": steps of Op issued exactly Count queries
	// - "store_size": the store holds exactly Count statements
	Type string `yaml:"type"`

	// Op is the operation (used by query_contains, query_count).
	Op string `yaml:"op,omitempty"`

	// Text is the expected query fragment (used by query_contains).
	Text string `yaml:"text,omitempty"`

	// Count is the expected number (used by query_count, store_size).
	Count int `yaml:"count,omitempty"`

	// Ops is the expected operation order (used by query_order).
	Ops []string `yaml:"ops,omitempty"`
}

// Assertion type constants.
const (
	AssertQueryContains = "query_contains"
	AssertQueryOrder    = "query_order"
	AssertQueryCount    = "query_count"
	AssertStoreSize     = "store_size"
)

// LoadScenario reads and parses a scenario YAML file.
// Mapping and data paths are resolved relative to the scenario file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving relative mapping and data paths against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve paths BEFORE validation
	scenario.Mappings = resolvePath(basePath, scenario.Mappings)
	scenario.Data = resolvePath(basePath, scenario.Data)

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func resolvePath(base, p string) string {
	if p == "" || base == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Mappings == "" {
		return fmt.Errorf("mappings directory is required")
	}
	if info, err := os.Stat(s.Mappings); err != nil || !info.IsDir() {
		return fmt.Errorf("mappings directory not found: %s", s.Mappings)
	}

	if s.Data != "" {
		if _, err := os.Stat(s.Data); os.IsNotExist(err) {
			return fmt.Errorf("data file not found: %s", s.Data)
		}
	}

	if d := s.QueryDialect(); !d.Known() {
		return fmt.Errorf("unknown dialect %q", s.Dialect)
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for i, step := range s.Flow {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep validates a single flow step based on its op.
func validateStep(index int, step *FlowStep) error {
	if step.Entity == "" {
		return fmt.Errorf("flow[%d]: entity is required", index)
	}

	switch step.Op {
	case OpDescribe, OpExists:
	case OpList:
		if step.ID != "" {
			return fmt.Errorf("flow[%d]: id is not allowed for list", index)
		}
	case "":
		return fmt.Errorf("flow[%d]: op is required", index)
	default:
		return fmt.Errorf("flow[%d]: unknown op %q", index, step.Op)
	}

	e := step.Expect
	if e == nil {
		return nil
	}
	if e.Exists != nil && step.Op != OpExists {
		return fmt.Errorf("flow[%d].expect: exists is only valid for exists", index)
	}
	if e.Count != nil && step.Op == OpExists {
		return fmt.Errorf("flow[%d].expect: count is not valid for exists", index)
	}
	if e.IDs != nil && step.Op != OpList {
		return fmt.Errorf("flow[%d].expect: ids is only valid for list", index)
	}
	switch e.Error {
	case "", ErrClassInvalidKey, ErrClassQueryFailed, ErrClassCastFailed, ErrClassMapping, ErrClassOther:
	default:
		return fmt.Errorf("flow[%d].expect: unknown error class %q", index, e.Error)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertQueryContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for query_contains", index)
		}
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for query_contains", index)
		}
	case AssertQueryOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for query_order", index)
		}
	case AssertQueryCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for query_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for query_count", index)
		}
	case AssertStoreSize:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for store_size", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
