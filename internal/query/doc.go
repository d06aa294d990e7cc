// Package query runs describe, exists, and enumeration operations for
// registered entity types against a data source.
//
// A Session resolves an object's identifier and named graph, renders the
// plan in the source's dialect, and executes it:
//
//	sess := query.New(reg, query.WithLogger(logger))
//	g, err := sess.Describe(ctx, src, obj)
//	ok, err := sess.Exists(ctx, src, obj)
//	all, err := query.All[*Person](ctx, sess, mgr)
//
// Objects with no identifier yet are treated as unknown to the store; no
// query is issued for them.
//
// ERROR HANDLING:
//
// Construction and execution failures are reported as *PersistenceError
// with code QUERY_FAILED. Enumeration rows of the wrong type are reported
// with code CAST_FAILED. Invalid-key errors from identifier resolution are
// returned unchanged.
package query
