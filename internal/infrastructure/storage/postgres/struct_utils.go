package postgres

import (
	"reflect"
	"sync"
)

// column is one "db"-tagged field, addressed by its index path so fields of
// embedded structs (entity.Document) resolve in a single FieldByIndex.
type column struct {
	name  string
	index []int
}

// plans caches the columns of each struct type.
var plans sync.Map

func columnsOf(t reflect.Type) []column {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := plans.Load(t); ok {
		return cached.([]column)
	}

	var cols []column
	if t.Kind() == reflect.Struct {
		cols = walkColumns(t, nil)
	}
	plans.Store(t, cols)
	return cols
}

func walkColumns(t reflect.Type, prefix []int) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		index := append(append([]int(nil), prefix...), i)

		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			cols = append(cols, walkColumns(f.Type, index)...)
			continue
		}
		if tag := f.Tag.Get("db"); tag != "" && tag != "-" {
			cols = append(cols, column{name: tag, index: index})
		}
	}
	return cols
}

// ExtractDBColumns lists the "db" column names of T in field order, embedded
// structs included. Repositories call it once at construction.
func ExtractDBColumns[T any]() []string {
	cols := columnsOf(reflect.TypeOf((*T)(nil)).Elem())
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}

// StructToMap returns every "db" column of v with its value, ready for
// squirrel SetMap. It returns nil if v is not a struct.
func StructToMap(v any) map[string]any {
	return ColumnValues(v)
}

// ColumnValues is StructToMap restricted to only; with no names every column is returned.
func ColumnValues(v any, only ...string) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	var keep map[string]bool
	if len(only) > 0 {
		keep = make(map[string]bool, len(only))
		for _, name := range only {
			keep[name] = true
		}
	}

	cols := columnsOf(rv.Type())
	out := make(map[string]any, len(cols))
	for _, c := range cols {
		if keep != nil && !keep[c.name] {
			continue
		}
		out[c.name] = rv.FieldByIndex(c.index).Interface()
	}
	return out
}
