package namedbind

import "github.com/coderi421/namedbind/internal/errs"

// 将内部的 sentinel error 暴露出去
var (
	// ErrTemplateParse 模板无法解析，实际上只有正则无法编译的时候才会出现
	ErrTemplateParse = errs.ErrTemplateParse
	// ErrEngine wraps failures from the SQL engine; errors.Is still reaches the cause.
	ErrEngine = errs.ErrEngine
	// ErrNoRows 代表没有找到数据
	ErrNoRows = errs.ErrNoRows
	// ErrTooManyRows 代表 FetchOne 或者 FetchOptional 拿到了多行
	ErrTooManyRows = errs.ErrTooManyRows
	// ErrEmptyResult 代表中间件拦截了执行，但是没有给出结果
	ErrEmptyResult = errs.ErrEmptyResult
	// ErrUnboundPlaceholder 代表 binder 没有为某个占位符提供值
	ErrUnboundPlaceholder = errs.ErrUnboundPlaceholder
	// ErrPlaceholderOverbound 代表 binder 为同一个占位符提供了多个值
	ErrPlaceholderOverbound = errs.ErrPlaceholderOverbound
)
