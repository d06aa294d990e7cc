package store

import (
	"fmt"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
)

// encodeTerm returns the stored form of v. A nil label is the default
// graph, stored as the empty string.
func encodeTerm(v quad.Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}

// placeholder terms used to parse a lone object term.
const (
	probeSubject   = "<urn:quadmap:probe>"
	probePredicate = "<urn:quadmap:probe>"
)

// decodeTerm parses a stored term back into a value.
func decodeTerm(s string) (quad.Value, error) {
	switch {
	case s == "":
		return nil, nil
	case strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">"):
		return quad.IRI(s[1 : len(s)-1]), nil
	case strings.HasPrefix(s, "_:"):
		return quad.BNode(s[2:]), nil
	}

	q, err := nquads.Parse(probeSubject + " " + probePredicate + " " + s + " .")
	if err != nil {
		return nil, fmt.Errorf("decode term %q: %w", s, err)
	}
	return q.Object, nil
}

// decodeQuad parses a stored row back into a statement.
func decodeQuad(subject, predicate, object, graph string) (quad.Quad, error) {
	line := subject + " " + predicate + " " + object
	if graph != "" {
		line += " " + graph
	}
	q, err := nquads.Parse(line + " .")
	if err != nil {
		return quad.Quad{}, fmt.Errorf("decode statement: %w", err)
	}
	return q, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuad(row rowScanner) (quad.Quad, error) {
	var subject, predicate, object, graph string
	if err := row.Scan(&subject, &predicate, &object, &graph); err != nil {
		return quad.Quad{}, fmt.Errorf("scan statement: %w", err)
	}
	return decodeQuad(subject, predicate, object, graph)
}
