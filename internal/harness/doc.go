// Package harness runs conformance scenarios against the quad store.
//
// A scenario loads entity mappings and N-Quads data into a fresh in-memory
// store, performs graph operations through a query session, and checks both
// the outcomes and the query text every operation issued.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	mappings: mappings        # directory of CUE mapping files
//	data: people.nq           # optional N-Quads file
//	dialect: sparql           # sparql (default) or serql
//	named_graphs: true        # default true
//	flow:
//	  - op: describe
//	    entity: person
//	    id: http://example.org/people/alice
//	    expect: { count: 2 }
//	  - op: exists
//	    entity: person
//	    id: b1
//	    expect: { exists: false }
//	  - op: list
//	    entity: person
//	    expect: { ids: [http://example.org/people/alice] }
//	assertions:
//	  - type: query_contains
//	    op: describe
//	    text: "from <urn:graph:accounts>"
//	  - type: store_size
//	    count: 5
//
// Paths are relative to the scenario file.
//
// # Assertion Types
//
//   - query_contains: some step of the given op issued text containing Text
//   - query_order: the ops issued queries in the given order
//   - query_count: the op issued exactly Count queries
//   - store_size: the store holds exactly Count statements after the flow
//
// # Deterministic Testing
//
// Every scenario runs against its own in-memory SQLite store with logging
// discarded. Store results are ordered with COLLATE BINARY, so the trace of
// a scenario is identical across runs and can be compared against a golden
// file.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/people.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(ctx, scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
