package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quadmap/internal/rdfid"
)

func TestValidate_ValidPlans(t *testing.T) {
	plans := []struct {
		name  string
		query Query
	}{
		{"describe uri", Describe{Subject: rdfid.MustURI("http://example.org/a")}},
		{"describe blank in graph", Describe{Subject: rdfid.MustBlank("b1"), Graph: rdfid.MustURI("urn:g1")}},
		{"exists pointer", &Exists{Subject: rdfid.MustURI("urn:a")}},
		{"instances", InstancesOf{Var: DefaultVar, Class: "urn:class:Person"}},
		{"instances pointer", &InstancesOf{Var: "_x1", Class: "urn:class:Person"}},
	}

	for _, tt := range plans {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.query)
			assert.True(t, result.Valid, "problems: %v", result.Problems)
			assert.Empty(t, result.Problems)
			assert.NoError(t, result.Err())
		})
	}
}

func TestValidate_Problems(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		problem string
	}{
		{"nil", nil, "nil query"},
		{"absent subject", Describe{}, "subject is absent"},
		{"unclassified subject", Exists{Subject: rdfid.Text("urn:a")}, "unclassified"},
		{"blank graph", Describe{Subject: rdfid.MustURI("urn:a"), Graph: rdfid.MustBlank("g")}, "must be a URI"},
		{"empty class", InstancesOf{Var: "result"}, "class is empty"},
		{"bad variable", InstancesOf{Var: "?result", Class: "urn:c"}, "not a plain identifier"},
		{"injected variable", InstancesOf{Var: "x} . {y", Class: "urn:c"}, "not a plain identifier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.query)
			assert.False(t, result.Valid)
			require.NotEmpty(t, result.Problems)
			assert.Contains(t, result.Problems[0], tt.problem)

			err := result.Err()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.problem)
		})
	}
}

func TestValidate_AccumulatesProblems(t *testing.T) {
	result := Validate(Exists{Graph: rdfid.MustBlank("g")})
	assert.False(t, result.Valid)
	assert.Len(t, result.Problems, 2)
}
