package unsafe

import (
	"database/sql"
	"reflect"
	"unsafe"

	"github.com/coderi421/namedbind/internal/errs"
	"github.com/coderi421/namedbind/internal/valuer"
	"github.com/coderi421/namedbind/model"
)

type unsafeValue struct {
	addr unsafe.Pointer // 使用 unsafe Pointer 而不是 uintptr 是因为 gc 后 uintptr 会发生变化
	meta *model.Model
}

var _ valuer.Creator = NewUnsafeValue

// NewUnsafeValue writes columns straight to field offsets instead of going
// through reflect.Value.Set.
func NewUnsafeValue(val any, meta *model.Model) valuer.Value {
	return unsafeValue{
		addr: reflect.ValueOf(val).UnsafePointer(),
		meta: meta,
	}
}

func (u unsafeValue) SetColumns(rows *sql.Rows) error {
	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	if len(columns) > len(u.meta.ColumnMap) {
		return errs.ErrTooManyReturnedColumns
	}

	colValues := make([]any, len(columns))
	for i, column := range columns {
		cm, ok := u.meta.ColumnMap[column]
		if !ok {
			return errs.NewErrUnknownColumn(column)
		}
		// 字段的地址 = 结构体起始地址 + 偏移量
		ptr := unsafe.Add(u.addr, cm.Offset)
		val := reflect.NewAt(cm.Type, ptr)
		colValues[i] = val.Interface()
	}

	return rows.Scan(colValues...)
}
