package harness

// TraceEvent records one flow step: the query it issued and its outcome.
type TraceEvent struct {
	Seq    int    `json:"seq"`
	Op     string `json:"op"`
	Entity string `json:"entity"`
	ID     string `json:"id,omitempty"`

	// Query is the statement text sent to the store. Empty when the step
	// was answered without a query.
	Query string `json:"query,omitempty"`

	// Result is the step outcome: N-Quads lines for describe, a bool for
	// exists, identifiers for list.
	Result any `json:"result,omitempty"`

	// Error is the error class of a failed step.
	Error string `json:"error,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expect clause and assertion matched.
	Pass bool `json:"pass"`

	// Trace contains one event per flow step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// StoreSize is the statement count after the flow.
	StoreSize int64 `json:"store_size"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step event, numbering it from 1.
func (r *Result) AddTrace(ev TraceEvent) {
	ev.Seq = len(r.Trace) + 1
	r.Trace = append(r.Trace, ev)
}
