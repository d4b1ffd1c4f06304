package namedbind

// Query is the positional SQL plus the arguments accumulated for it.
type Query struct {
	SQL  string
	Args []any
}

type QueryBuilder interface {
	Build() (*Query, error)
}

// Scannable is implemented by result types that decode themselves:
// TargetFields returns one pointer per selected column, in column order.
type Scannable interface {
	TargetFields() []any
}
