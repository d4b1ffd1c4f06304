package namedbind

import "github.com/google/uuid"

type StatementOption func(*statementConfig)

type statementConfig struct {
	dialect Dialect
}

// WithDialect picks the positional marker written into the SQL. MySQL is the
// default.
func WithDialect(d Dialect) StatementOption {
	return func(c *statementConfig) {
		c.dialect = d
	}
}

// statement 是 PreparedQuery 和 PreparedQueryAs 共用的部分
// 创建之后不会再修改，但是 binder 可能有状态，所以不保证并发安全
type statement struct {
	sql    string
	order  []string
	binder Binder
}

func newStatement(template string, binder Binder, opts []StatementOption) (statement, error) {
	cfg := statementConfig{dialect: MySQL}
	for _, opt := range opts {
		opt(&cfg)
	}
	p, err := Parse(template, cfg.dialect)
	if err != nil {
		return statement{}, err
	}
	if binder == nil {
		binder = func(b *Builder, _ string) *Builder { return b }
	}
	return statement{
		sql:    p.SQL,
		order:  p.Order,
		binder: binder,
	}, nil
}

// SQL returns the positional SQL sent to the engine.
func (s statement) SQL() string {
	return s.sql
}

// Order returns a copy of the placeholder names in occurrence order.
func (s statement) Order() []string {
	res := make([]string, len(s.order))
	copy(res, s.order)
	return res
}

// prepare 重新执行一遍 binder，然后构造中间件的上下文
func (s statement) prepare(c core, typ string) (*QueryContext, error) {
	b, err := replay(s.sql, s.order, s.binder, !c.lenient)
	if err != nil {
		return nil, err
	}
	return &QueryContext{
		Type:    typ,
		ID:      uuid.NewString(),
		Builder: b,
		Order:   s.Order(),
	}, nil
}
