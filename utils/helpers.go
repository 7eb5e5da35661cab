package utils

import (
	"reflect"
)

func Ptr[T any](v T) *T {
	return &v
}

func Map[T, U any](src []T, f func(T) U) []U {
	dst := make([]U, len(src))
	for i, v := range src {
		dst[i] = f(v)
	}
	return dst
}

// ColumnList returns the db-tagged column names of a database model struct,
// in declaration order. Used to build SELECT column lists that stay in sync
// with the struct definition.
func ColumnList[DBModel any]() []string {
	var dbModel DBModel
	t := reflect.TypeOf(dbModel)

	columns := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tag, ok := t.Field(i).Tag.Lookup("db"); ok && tag != "-" {
			columns = append(columns, tag)
		}
	}
	return columns
}
