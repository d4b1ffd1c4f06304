package valuer

import (
	"database/sql"
	"reflect"

	"github.com/coderi421/namedbind/internal/errs"
	"github.com/coderi421/namedbind/model"
)

// reflectValue 基于反射的 Value
type reflectValue struct {
	val  reflect.Value
	meta *model.Model
}

var _ Creator = NewReflectValue

// NewReflectValue 返回一个封装好的，基于反射实现的 Value
// 输入 val 必须是一个指向结构体实例的指针，而不能是任何其它类型
func NewReflectValue(val any, meta *model.Model) Value {
	return reflectValue{
		val:  reflect.ValueOf(val).Elem(),
		meta: meta,
	}
}

// SetColumns scans the current row and assigns every column to the field
// mapped to it.
func (r reflectValue) SetColumns(rows *sql.Rows) error {
	columnNames, err := rows.Columns()
	if err != nil {
		return err
	}

	if len(columnNames) > len(r.meta.ColumnMap) {
		return errs.ErrTooManyReturnedColumns
	}

	// colValues 和 colEleValues 实质上最终都指向同一个对象
	colValues := make([]any, len(columnNames))
	colEleValues := make([]reflect.Value, len(columnNames))
	for i, name := range columnNames {
		field, ok := r.meta.ColumnMap[name]
		if !ok {
			return errs.NewErrUnknownColumn(name)
		}
		value := reflect.New(field.Type)
		colValues[i] = value.Interface()
		colEleValues[i] = value.Elem()
	}

	// scan 接收的是 []any 而不是 []reflect.Value
	if err = rows.Scan(colValues...); err != nil {
		return err
	}

	for i, c := range columnNames {
		cm := r.meta.ColumnMap[c]
		fd := r.val.Field(cm.Index)
		fd.Set(colEleValues[i])
	}
	return nil
}
