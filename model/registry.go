package model

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/coderi421/namedbind/internal/errs"
)

// Registry keeps the column mapping of every result type that has been decoded.
type Registry interface {
	Get(val any) (*Model, error)
	Register(val any, opts ...Option) (*Model, error)
}

// reflect.Type 作为 key 可以解决同名结构体的冲突问题，sync.Map 保证并发安全
type registry struct {
	models sync.Map
}

func NewRegistry() Registry {
	return &registry{}
}

// Get fetches the model associated with a given value.
// If the model is not found in the registry, it is parsed and stored for future use.
func (r *registry) Get(val any) (*Model, error) {
	typ := reflect.TypeOf(val)

	m, ok := r.models.Load(typ)
	if ok {
		return m.(*Model), nil
	}

	return r.Register(val)
}

// Register parses val, applies opts and stores the resulting model.
// A later Register for the same type replaces the earlier one.
func (r *registry) Register(val any, opts ...Option) (*Model, error) {
	m, err := r.parseModel(val)
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		err = opt(m)
		if err != nil {
			return nil, err
		}
	}

	// WithColumnName 可能修改了列名，需要重建 ColumnMap
	m.ColumnMap = make(map[string]*Field, len(m.Fields))
	for _, fd := range m.Fields {
		m.ColumnMap[fd.ColName] = fd
	}

	r.models.Store(reflect.TypeOf(val), m)
	return m, nil
}

// parseModel only accepts a one-level pointer to a struct.
// db:"column=user_id"
func (r *registry) parseModel(val any) (*Model, error) {
	typ := reflect.TypeOf(val)

	if typ == nil || typ.Kind() != reflect.Ptr || typ.Elem().Kind() != reflect.Struct {
		// *User 可以，**User 和 User 都不行
		return nil, errs.ErrPointerOnly
	}
	typ = typ.Elem()

	numField := typ.NumField()
	fields := make([]*Field, 0, numField)
	fds := make(map[string]*Field, numField)

	for i := 0; i < numField; i++ {
		fdStruct := typ.Field(i)
		// 私有字段没办法通过反射赋值
		if !fdStruct.IsExported() {
			continue
		}

		tags, err := r.parseTag(fdStruct.Tag)
		if err != nil {
			return nil, err
		}

		colName := tags[tagKeyColumn]
		if colName == "" {
			// ItemId -> item_id
			colName = underscoreName(fdStruct.Name)
		}

		f := &Field{
			ColName: colName,
			GoName:  fdStruct.Name,
			Type:    fdStruct.Type,
			Index:   i,
			Offset:  fdStruct.Offset,
		}
		fields = append(fields, f)
		fds[fdStruct.Name] = f
	}

	return &Model{
		Fields:   fields,
		FieldMap: fds,
	}, nil
}

// parseTag returns an empty map rather than nil for a missing tag.
func (r *registry) parseTag(tag reflect.StructTag) (map[string]string, error) {
	dbTag := tag.Get(tagName)
	if dbTag == "" {
		return map[string]string{}, nil
	}

	res := make(map[string]string, 1)
	pairs := strings.Split(dbTag, ",")
	for _, pair := range pairs {
		kv := strings.Split(pair, "=")
		if len(kv) != 2 {
			return nil, errs.NewErrInvalidTagContent(pair)
		}
		res[kv[0]] = kv[1]
	}

	return res, nil
}

// underscoreName UserName -> user_name
func underscoreName(name string) string {
	var sb strings.Builder
	sb.Grow(len(name) + 4)
	for i, v := range name {
		if unicode.IsUpper(v) {
			if i != 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(v))
		} else {
			sb.WriteRune(v)
		}
	}
	return sb.String()
}

// WithColumnName overrides the column a struct field is decoded from.
func WithColumnName(field, columnName string) Option {
	return func(model *Model) error {
		fd, ok := model.FieldMap[field]
		if !ok {
			return errs.NewErrUnknownField(field)
		}
		fd.ColName = columnName
		return nil
	}
}
