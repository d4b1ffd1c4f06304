package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrTemplateParse 占位符的正则无法构造
	ErrTemplateParse = errors.New("namedbind: failed to parse SQL template")
	// ErrEngine wraps every failure that comes back from the SQL engine.
	ErrEngine = errors.New("namedbind: engine error")
	// ErrNoRows 代表没有找到数据
	ErrNoRows = errors.New("namedbind: no rows in result set")
	// ErrTooManyRows 期望最多一行，但是返回了多行
	ErrTooManyRows = errors.New("namedbind: more than one row in result set")

	// ErrEmptyResult 中间件没有返回结果，也没有返回 error
	ErrEmptyResult = errors.New("namedbind: no result returned by the middleware chain")

	ErrUnboundPlaceholder   = errors.New("namedbind: placeholder was not bound by the binder")
	ErrPlaceholderOverbound = errors.New("namedbind: placeholder was bound more than once")

	// ErrPointerOnly 只支持一级指针作为输入
	// 看到这个 error 说明你输入了其它的东西
	// 我们并不希望用户能够直接使用 err == ErrPointerOnly
	// 所以放在我们的 internal 包里
	ErrPointerOnly            = errors.New("namedbind: only pointer to struct is supported")
	ErrTooManyReturnedColumns = errors.New("namedbind: too many returned columns")
)

func NewErrTemplateParse(err error) error {
	return fmt.Errorf("%w: %w", ErrTemplateParse, err)
}

// NewErrEngine 包装而不是改写底层错误，errors.Is 依旧能找到原始的错误
func NewErrEngine(err error) error {
	return fmt.Errorf("%w: %w", ErrEngine, err)
}

func NewErrUnboundPlaceholder(name string) error {
	return fmt.Errorf("%w: %s", ErrUnboundPlaceholder, name)
}

func NewErrPlaceholderOverbound(name string, n int) error {
	return fmt.Errorf("%w: %s received %d values", ErrPlaceholderOverbound, name, n)
}

func NewErrUnknownField(name string) error {
	return fmt.Errorf("namedbind: unknown field %s", name)
}

func NewErrUnknownColumn(name string) error {
	return fmt.Errorf("namedbind: unknown column %s", name)
}

func NewErrInvalidTagContent(pair string) error {
	return fmt.Errorf("namedbind: invalid tag content %s", pair)
}

func NewErrScalarColumns(n int) error {
	return fmt.Errorf("namedbind: scalar result needs exactly one column, got %d", n)
}
