package queryir

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/quadmap/internal/rdfid"
)

// ValidationResult contains the problems found in a query plan.
type ValidationResult struct {
	// Valid is true when the plan can be rendered in every dialect.
	Valid bool

	// Problems lists what is wrong with the plan.
	// Empty when Valid is true.
	Problems []string
}

// Err returns the problems as a single error, or nil when the plan is valid.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("invalid query plan: %s", strings.Join(r.Problems, "; "))
}

// varName is the variable grammar shared by SPARQL and SeRQL.
var varName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks that a plan can be rendered:
//  1. Describe and Exists have a present, classified subject
//  2. A named graph, when given, is a URI
//  3. InstancesOf has a non-empty class and a plain variable name
//
// Validate is a pure function with no side effects.
func Validate(query Query) ValidationResult {
	v := &validator{
		problems: []string{},
	}
	v.validateQuery(query)

	return ValidationResult{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

// validator accumulates problems during traversal.
type validator struct {
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	if q == nil {
		v.addProblem("nil query")
		return
	}

	switch query := q.(type) {
	case Describe:
		v.validateSubject("describe", query.Subject, query.Graph)
	case *Describe:
		v.validateSubject("describe", query.Subject, query.Graph)
	case Exists:
		v.validateSubject("exists", query.Subject, query.Graph)
	case *Exists:
		v.validateSubject("exists", query.Subject, query.Graph)
	case InstancesOf:
		v.validateInstancesOf(query)
	case *InstancesOf:
		v.validateInstancesOf(*query)
	default:
		v.addProblem("unknown query type: %T", q)
	}
}

func (v *validator) validateSubject(op string, subject, graph rdfid.ID) {
	switch subject.Kind() {
	case rdfid.KindURI, rdfid.KindBlank:
	case rdfid.KindNone:
		v.addProblem("%s: subject is absent", op)
	default:
		v.addProblem("%s: subject %q is unclassified (%s)", op, subject.String(), subject.Kind())
	}

	if !graph.IsZero() && !graph.IsURI() {
		v.addProblem("%s: named graph %q must be a URI, got %s", op, graph.String(), graph.Kind())
	}
}

func (v *validator) validateInstancesOf(q InstancesOf) {
	if q.Class == "" {
		v.addProblem("instances: class is empty")
	}
	if !varName.MatchString(q.Var) {
		v.addProblem("instances: variable %q is not a plain identifier", q.Var)
	}
}
