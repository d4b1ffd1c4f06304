package namedbind

import "context"

const (
	TypeExec          = "EXEC"
	TypeFetchAll      = "FETCH_ALL"
	TypeFetchOne      = "FETCH_ONE"
	TypeFetchOptional = "FETCH_OPTIONAL"
)

// QueryContext 中间件的上下文
type QueryContext struct {
	// Type 声明执行的方式，即 EXEC, FETCH_ALL, FETCH_ONE 和 FETCH_OPTIONAL
	Type string
	// ID 每一次执行都不一样，方便把日志和 trace 关联起来
	ID string

	// Builder 已经绑定好全部参数
	// 中间件可以转换到 *Builder 来篡改查询
	Builder QueryBuilder
	// Order 是占位符出现的顺序，和 Builder 中的参数一一对应
	Order []string
}

type QueryResult struct {
	// Result 在不同的执行方式里面，类型是不同的
	// FetchOne 和 FetchOptional 里面是 *T，没有数据的时候是 nil
	// FetchAll 里面是 []*T
	// Exec 里面是 sql.Result
	Result any
	Err    error
}

type Middleware func(next Handler) Handler

type Handler func(ctx context.Context, qc *QueryContext) *QueryResult
