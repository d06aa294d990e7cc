package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"slices"

	"github.com/roach88/quadmap/internal/dialect"
	"github.com/roach88/quadmap/internal/entity"
	"github.com/roach88/quadmap/internal/query"
	"github.com/roach88/quadmap/internal/rdfid"
	"github.com/roach88/quadmap/internal/source"
	"github.com/roach88/quadmap/internal/store"
)

// resource is the entity type every mapping name is bound to.
type resource struct {
	rdfid.Ref
}

var resourceType = reflect.TypeOf((*resource)(nil)).Elem()

// Harness is the test execution engine for one scenario.
type Harness struct {
	store    *store.Store
	rec      *recorder
	mappings *entity.Mappings
	sessions map[string]*query.Session
	logger   *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory store with the scenario's dialect
// 2. Load mappings and data
// 3. Execute flow steps with expect validation
// 4. Evaluate assertions against the trace and store
//
// An error is returned only when the scenario cannot be set up. Failed
// expectations and assertions are reported in the Result.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.Open(":memory:",
		store.WithDialect(scenario.QueryDialect()),
		store.WithNamedGraphs(scenario.SupportsNamedGraphs()),
		store.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	mappings, err := entity.LoadMappings(scenario.Mappings)
	if err != nil {
		return nil, fmt.Errorf("failed to load mappings: %w", err)
	}

	if scenario.Data != "" {
		if err := loadData(ctx, st, scenario.Data); err != nil {
			return nil, err
		}
	}

	h := &Harness{
		store:    st,
		rec:      &recorder{Store: st},
		mappings: mappings,
		sessions: make(map[string]*query.Session),
		logger:   logger,
	}

	result := NewResult()
	for i, step := range scenario.Flow {
		ev := h.executeStep(ctx, step)
		result.AddTrace(ev)
		for _, msg := range checkExpect(i, step, ev) {
			result.AddError(msg)
		}
	}

	size, err := st.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count statements: %w", err)
	}
	result.StoreSize = size

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

func loadData(ctx context.Context, st *store.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	if _, _, err := st.Load(ctx, f); err != nil {
		return fmt.Errorf("failed to load data: %w", err)
	}
	return nil
}

// session returns the session that binds name to the resource type.
// Sessions are cached per mapping name.
func (h *Harness) session(name string) (*query.Session, error) {
	if s, ok := h.sessions[name]; ok {
		return s, nil
	}
	reg := entity.NewRegistry(entity.WithLogger(h.logger))
	if err := h.mappings.Bind(reg, name, resourceType); err != nil {
		return nil, err
	}
	s := query.New(reg, query.WithLogger(h.logger))
	h.sessions[name] = s
	return s, nil
}

// executeStep performs one operation and records what it issued.
func (h *Harness) executeStep(ctx context.Context, step FlowStep) (ev TraceEvent) {
	ev = TraceEvent{Op: step.Op, Entity: step.Entity, ID: step.ID}

	sess, err := h.session(step.Entity)
	if err != nil {
		ev.Error = ErrClassMapping
		return ev
	}

	h.rec.reset()
	defer func() {
		if stmts := h.rec.issued(); len(stmts) > 0 {
			ev.Query = stmts[len(stmts)-1].Text
		}
	}()

	switch step.Op {
	case OpDescribe:
		obj, err := newResource(step.ID)
		if err != nil {
			ev.Error = classify(err)
			return ev
		}
		g, err := sess.Describe(ctx, h.rec, obj)
		if err != nil {
			ev.Error = classify(err)
			return ev
		}
		lines, err := g.NQuads()
		if err != nil {
			ev.Error = ErrClassOther
			return ev
		}
		ev.Result = lines

	case OpExists:
		obj, err := newResource(step.ID)
		if err != nil {
			ev.Error = classify(err)
			return ev
		}
		found, err := sess.Exists(ctx, h.rec, obj)
		if err != nil {
			ev.Error = classify(err)
			return ev
		}
		ev.Result = found

	case OpList:
		all, err := query.All[*resource](ctx, sess, &recordingManager{
			Manager: store.NewManager(h.store, nil),
			rec:     h.rec,
		})
		if err != nil {
			ev.Error = classify(err)
			return ev
		}
		ids := make([]string, 0, len(all))
		for _, r := range all {
			ids = append(ids, r.RDFID().String())
		}
		ev.Result = ids
	}

	return ev
}

// newResource returns a resource identified by the primary key raw.
// An empty key yields a resource without an identifier.
func newResource(raw string) (*resource, error) {
	if raw == "" {
		return &resource{}, nil
	}
	id, err := rdfid.AsPrimaryKey(raw)
	if err != nil {
		return nil, err
	}
	return &resource{Ref: rdfid.NewRef(id)}, nil
}

// classify maps an operation error to its trace error class.
func classify(err error) string {
	switch {
	case rdfid.IsInvalidKey(err):
		return ErrClassInvalidKey
	case query.IsCastFailure(err):
		return ErrClassCastFailed
	case query.IsQueryFailure(err):
		return ErrClassQueryFailed
	default:
		return ErrClassOther
	}
}

// checkExpect compares a traced step against its expect clause.
func checkExpect(index int, step FlowStep, ev TraceEvent) []string {
	want := step.Expect
	if want == nil {
		if ev.Error != "" {
			return []string{fmt.Sprintf("flow[%d] %s %s: unexpected error %s", index, step.Op, step.Entity, ev.Error)}
		}
		return nil
	}

	var errs []string
	fail := func(format string, args ...any) {
		prefix := fmt.Sprintf("flow[%d] %s %s: ", index, step.Op, step.Entity)
		errs = append(errs, prefix+fmt.Sprintf(format, args...))
	}

	if want.Error != ev.Error {
		fail("expected error %q, got %q", want.Error, ev.Error)
		return errs
	}
	if ev.Error != "" {
		return errs
	}

	if want.Exists != nil {
		if got, _ := ev.Result.(bool); got != *want.Exists {
			fail("expected exists=%t, got %t", *want.Exists, got)
		}
	}

	if want.Count != nil {
		if got := resultLen(ev.Result); got != *want.Count {
			fail("expected count %d, got %d", *want.Count, got)
		}
	}

	if want.IDs != nil {
		got, _ := ev.Result.([]string)
		if !slices.Equal(got, want.IDs) {
			fail("expected ids %v, got %v", want.IDs, got)
		}
	}

	return errs
}

func resultLen(v any) int {
	if s, ok := v.([]string); ok {
		return len(s)
	}
	return 0
}

// recorder is the store as seen by sessions. It records the statements
// each step issues.
type recorder struct {
	*store.Store
	stmts []dialect.Statement
}

var (
	_ source.DataSource        = (*recorder)(nil)
	_ source.NamedGraphSupport = (*recorder)(nil)
)

func (r *recorder) reset() {
	r.stmts = nil
}

func (r *recorder) record(stmt dialect.Statement) {
	r.stmts = append(r.stmts, stmt)
}

func (r *recorder) issued() []dialect.Statement {
	return r.stmts
}

func (r *recorder) GraphQuery(ctx context.Context, stmt dialect.Statement) (source.Graph, error) {
	r.record(stmt)
	return r.Store.GraphQuery(ctx, stmt)
}

func (r *recorder) SelectQuery(ctx context.Context, stmt dialect.Statement) (source.ResultSet, error) {
	r.record(stmt)
	return r.Store.SelectQuery(ctx, stmt)
}

// recordingManager routes enumeration through the recorder.
type recordingManager struct {
	*store.Manager
	rec *recorder
}

var _ source.Manager = (*recordingManager)(nil)

func (m *recordingManager) Delegate() any {
	return m.rec
}

func (m *recordingManager) NativeQuery(ctx context.Context, stmt dialect.Statement, typ reflect.Type) ([]any, error) {
	m.rec.record(stmt)
	return m.Manager.NativeQuery(ctx, stmt, typ)
}
