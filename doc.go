// Package namedbind lets callers write SQL with :name placeholders against
// engines that only understand positional ones.
//
// A template is parsed once, when the statement is constructed. Every
// execution then builds a fresh argument list by calling the statement's
// Binder once per placeholder occurrence, in the order the occurrences appear:
//
//	q, err := namedbind.NewPreparedQuery(
//		"INSERT INTO t (a, b) VALUES (:a, :b)",
//		func(b *namedbind.Builder, name string) *namedbind.Builder {
//			switch name {
//			case ":a":
//				return b.Bind(1)
//			default:
//				return b.Bind(2)
//			}
//		})
//	res := q.Exec(ctx, db)
//
// A statement should not be executed concurrently: the binder usually reads
// variables captured by its closure, so each call site keeps its own
// statement and binder.
//
// A name used twice is bound twice. By default each occurrence must receive
// exactly one value; see DBWithLenientBinding.
//
// Placeholder detection is textual. Text such as ':x' inside a string literal
// or a comment, or the ::type cast syntax, is replaced like any placeholder.
package namedbind
