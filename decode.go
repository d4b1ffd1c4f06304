package namedbind

import (
	"database/sql"
	"reflect"
	"time"

	"github.com/coderi421/namedbind/internal/errs"
)

var timeType = reflect.TypeOf(time.Time{})

// decode 把当前行转换成 *T
// 1. *T 实现了 Scannable，直接扫到 TargetFields 里面
// 2. T 是标量（包括 time.Time 和 sql.Scanner），只允许一列
// 3. 其它情况走 valuer，按照列名映射到字段
func decode[T any](c core, rows *sql.Rows) (*T, error) {
	tp := new(T)
	if s, ok := any(tp).(Scannable); ok {
		return tp, rows.Scan(s.TargetFields()...)
	}

	if isScalar[T](tp) {
		cols, err := rows.Columns()
		if err != nil {
			return nil, err
		}
		if len(cols) != 1 {
			return nil, errs.NewErrScalarColumns(len(cols))
		}
		return tp, rows.Scan(tp)
	}

	meta, err := c.r.Get(tp)
	if err != nil {
		return nil, err
	}
	if err = c.valCreator(tp, meta).SetColumns(rows); err != nil {
		return nil, err
	}
	return tp, nil
}

func isScalar[T any](tp *T) bool {
	if _, ok := any(tp).(sql.Scanner); ok {
		return true
	}
	typ := reflect.TypeOf(tp).Elem()
	return typ.Kind() != reflect.Struct || typ == timeType
}
