package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		query := event.Query
		if query == "" {
			query = "(no query)"
		}
		fmt.Fprintf(&buf, "  [%d] %s %s %s: %s\n",
			event.Seq, event.Op, event.Entity, event.ID,
			strings.ReplaceAll(query, "\n", " "))
	}

	return buf.String()
}

// assertQueryContains checks that some step of the given op issued a query
// containing the expected text.
func assertQueryContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.Op == assertion.Op && event.Query != "" && strings.Contains(event.Query, assertion.Text) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertQueryContains,
		Expected: fmt.Sprintf("%s query containing %q", assertion.Op, assertion.Text),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertQueryOrder checks that the ops issued queries in the specified order.
// Ops don't need to be consecutive (intervening steps are allowed).
func assertQueryOrder(trace []TraceEvent, assertion Assertion) error {
	// Step 1: Find first querying position of each expected op
	positions := make(map[string]int)
	for _, event := range trace {
		if event.Query == "" {
			continue
		}
		if positions[event.Op] == 0 {
			positions[event.Op] = event.Seq
		}
	}

	// Step 2: Verify all ops found
	for _, op := range assertion.Ops {
		if positions[op] == 0 {
			return &AssertionError{
				Type:     AssertQueryOrder,
				Expected: fmt.Sprintf("queries from all ops: %v", assertion.Ops),
				Actual:   fmt.Sprintf("no query from op: %s", op),
				Trace:    trace,
			}
		}
	}

	// Step 3: Verify order
	for i := 1; i < len(assertion.Ops); i++ {
		prev := assertion.Ops[i-1]
		curr := assertion.Ops[i]

		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertQueryOrder,
				Expected: fmt.Sprintf("queries in order: %v", assertion.Ops),
				Actual: fmt.Sprintf("%s (step %d) should be before %s (step %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}

	return nil
}

// assertQueryCount checks that steps of the op issued exactly Count queries.
func assertQueryCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Op == assertion.Op && event.Query != "" {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertQueryCount,
			Expected: fmt.Sprintf("%s issued %d queries", assertion.Op, assertion.Count),
			Actual:   fmt.Sprintf("%s issued %d queries", assertion.Op, count),
			Trace:    trace,
		}
	}

	return nil
}

// assertStoreSize checks the statement count after the flow.
func assertStoreSize(result *Result, assertion Assertion) error {
	if result.StoreSize != int64(assertion.Count) {
		return &AssertionError{
			Type:     AssertStoreSize,
			Expected: fmt.Sprintf("%d statements", assertion.Count),
			Actual:   fmt.Sprintf("%d statements", result.StoreSize),
			Trace:    result.Trace,
		}
	}
	return nil
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string

	for i, assertion := range assertions {
		var err error
		switch assertion.Type {
		case AssertQueryContains:
			err = assertQueryContains(result.Trace, assertion)
		case AssertQueryOrder:
			err = assertQueryOrder(result.Trace, assertion)
		case AssertQueryCount:
			err = assertQueryCount(result.Trace, assertion)
		case AssertStoreSize:
			err = assertStoreSize(result, assertion)
		default:
			err = fmt.Errorf("unknown assertion type %q", assertion.Type)
		}

		if err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}

	return errs
}
