package namedbind

import "github.com/coderi421/namedbind/internal/errs"

var _ QueryBuilder = &Builder{}

// Binder supplies the value of one placeholder occurrence. It is called once
// per occurrence, in the order the occurrences appear in the template, and
// normally returns b after one call to Bind.
type Binder func(b *Builder, name string) *Builder

// Builder accumulates positional arguments for one execution.
// 每次执行都会创建一个新的 Builder
type Builder struct {
	sql  string
	args []any
}

func newBuilder(sql string, n int) *Builder {
	return &Builder{
		sql:  sql,
		args: make([]any, 0, n),
	}
}

// Bind appends val as the next positional argument.
func (b *Builder) Bind(val any) *Builder {
	b.args = append(b.args, val)
	return b
}

func (b *Builder) Build() (*Query, error) {
	return &Query{
		SQL:  b.sql,
		Args: b.args,
	}, nil
}

// MapBinder binds each placeholder to vals[name]. The key may be written with
// or without the leading colon. A name missing from vals is left unbound.
func MapBinder(vals map[string]any) Binder {
	return func(b *Builder, name string) *Builder {
		if v, ok := vals[name]; ok {
			return b.Bind(v)
		}
		if v, ok := vals[name[1:]]; ok {
			return b.Bind(v)
		}
		return b
	}
}

// replay 按占位符的顺序调用 binder
// strict 模式下每个占位符必须刚好绑定一个值
func replay(sql string, order []string, binder Binder, strict bool) (*Builder, error) {
	b := newBuilder(sql, len(order))
	for _, name := range order {
		before := len(b.args)
		// binder 返回 nil 的时候当作没有改动
		if next := binder(b, name); next != nil {
			b = next
		}
		if !strict {
			continue
		}
		switch added := len(b.args) - before; {
		case added <= 0:
			return nil, errs.NewErrUnboundPlaceholder(name)
		case added > 1:
			return nil, errs.NewErrPlaceholderOverbound(name, added)
		}
	}
	return b, nil
}
