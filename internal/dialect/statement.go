package dialect

import (
	"fmt"

	"github.com/roach88/quadmap/internal/queryir"
)

// Form is the result shape of a statement.
type Form uint8

const (
	// FormConstruct statements return a set of triples.
	FormConstruct Form = iota + 1

	// FormSelect statements return a cursor of variable bindings.
	FormSelect
)

func (f Form) String() string {
	switch f {
	case FormConstruct:
		return "construct"
	case FormSelect:
		return "select"
	default:
		return fmt.Sprintf("form(%d)", uint8(f))
	}
}

// Statement is a rendered query ready for execution.
type Statement struct {
	// Form is the expected result shape.
	Form Form

	// Dialect is the language Text is written in.
	Dialect Dialect

	// Text is the query text, handed to executors verbatim.
	Text string

	// Plan is the plan Text was rendered from.
	Plan queryir.Query
}

// FormOf returns the result shape of a plan.
func FormOf(q queryir.Query) Form {
	switch q.(type) {
	case queryir.Describe, *queryir.Describe:
		return FormConstruct
	default:
		return FormSelect
	}
}

// Build renders q for d and wraps it in a Statement.
func Build(d Dialect, q queryir.Query) (Statement, error) {
	text, err := Render(d, q)
	if err != nil {
		return Statement{}, err
	}
	return Statement{
		Form:    FormOf(q),
		Dialect: selectDialect(d),
		Text:    text,
		Plan:    q,
	}, nil
}
