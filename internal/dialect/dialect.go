package dialect

import "strings"

// Dialect names the query language spoken by a data source.
type Dialect string

const (
	// SPARQL is the W3C SPARQL query language.
	SPARQL Dialect = "sparql"

	// SeRQL is the Sesame RDF Query Language.
	SeRQL Dialect = "serql"
)

// Parse maps a dialect name to a Dialect. Names are case-insensitive.
// An empty name is SPARQL; unknown names are preserved and render as SPARQL.
func Parse(s string) Dialect {
	switch name := strings.ToLower(strings.TrimSpace(s)); name {
	case "", string(SPARQL):
		return SPARQL
	case string(SeRQL):
		return SeRQL
	default:
		return Dialect(name)
	}
}

// Known reports whether d is one of the supported dialects.
func (d Dialect) Known() bool {
	return d == SPARQL || d == SeRQL
}

func (d Dialect) String() string {
	return string(d)
}
