package namedbind

import "strconv"

var (
	MySQL      Dialect = mysqlDialect{}
	SQLite3    Dialect = sqlite3Dialect{}
	PostgreSQL Dialect = postgresDialect{}
)

// Dialect decides which positional marker replaces a named placeholder.
type Dialect interface {
	// Name 用作缓存 key 的一部分
	Name() string
	// placeholder 返回第 idx 个（从 0 开始）占位符
	placeholder(idx int) string
}

type standardSQL struct{}

func (standardSQL) placeholder(int) string {
	return "?"
}

type mysqlDialect struct {
	standardSQL
}

func (mysqlDialect) Name() string {
	return "mysql"
}

type sqlite3Dialect struct {
	standardSQL
}

func (sqlite3Dialect) Name() string {
	return "sqlite3"
}

type postgresDialect struct{}

func (postgresDialect) Name() string {
	return "postgres"
}

// $1 $2 ...
func (postgresDialect) placeholder(idx int) string {
	return "$" + strconv.Itoa(idx+1)
}
