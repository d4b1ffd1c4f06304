package valuer

import (
	"database/sql"

	"github.com/coderi421/namedbind/model"
)

// Value 是对结构体实例的内部抽象
type Value interface {
	// SetColumns 把当前行的数据写到结构体对应的字段上
	SetColumns(rows *sql.Rows) error
}

// Creator 本质上也可以看所是 factory 模式，极其简单的 factory 模式
// val 必须是指向结构体的一级指针，meta 是它的映射关系
type Creator func(val any, meta *model.Model) Value
