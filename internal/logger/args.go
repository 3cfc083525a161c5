// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mia-platform/logbridge/internal/format"
)

// Fields is the structured part of a record, keys keep their first insertion order.
type Fields = orderedmap.OrderedMap[string, any]

func NewFields() *Fields {
	return orderedmap.New[string, any]()
}

type argKind int

const (
	primitiveArg argKind = iota
	errorArg
	objectArg
)

// classify decides how a single log argument takes part in a record.
func classify(arg any) argKind {
	if arg == nil || isNilPointer(arg) {
		return primitiveArg
	}

	switch arg.(type) {
	case error:
		return errorArg
	case *Fields:
		return objectArg
	case fmt.Stringer, []byte:
		return primitiveArg
	}

	value := reflect.ValueOf(arg)
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}

	switch value.Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array:
		return objectArg
	default:
		return primitiveArg
	}
}

// isNilPointer reports whether arg holds a typed nil pointer, like a nil
// *fs.PathError stored in an error.
func isNilPointer(arg any) bool {
	value := reflect.ValueOf(arg)
	return value.Kind() == reflect.Pointer && value.IsNil()
}

// NormalizeArgs collapses the arguments of a log call into at most one merged
// *Fields followed by at most one message.
//
// Errors add the err, stack and message keys, other structured values add
// their top level entries and everything else becomes part of the message,
// formatted with format.Sprint. On key collision the last argument wins.
// The result is empty when no argument contributes anything.
func NormalizeArgs(args []any) []any {
	fields := NewFields()
	parts := make([]any, 0, len(args))

	for _, arg := range args {
		switch classify(arg) {
		case errorArg:
			mergeError(fields, arg.(error))
		case objectArg:
			mergeObject(fields, arg)
		default:
			parts = append(parts, fmt.Sprint(arg))
		}
	}

	message := ""
	if len(parts) > 0 {
		message = format.Sprint(parts...)
	}

	switch {
	case fields.Len() > 0 && message != "":
		return []any{fields, message}
	case fields.Len() > 0:
		return []any{fields}
	case message != "":
		return []any{message}
	default:
		return nil
	}
}

func mergeError(fields *Fields, err error) {
	fields.Set("err", err)
	// errors that carry a stack trace print it with the %+v verb
	if _, ok := err.(fmt.Formatter); ok {
		fields.Set("stack", fmt.Sprintf("%+v", err))
	}
	fields.Set("message", err.Error())
}

// mergeObject copies the top level entries of arg, nested values are kept by reference.
func mergeObject(fields *Fields, arg any) {
	switch value := arg.(type) {
	case *Fields:
		for key, entry := range value.FromOldest() {
			fields.Set(key, entry)
		}
		return
	case map[string]any:
		for _, key := range slices.Sorted(maps.Keys(value)) {
			fields.Set(key, value[key])
		}
		return
	}

	value := reflect.ValueOf(arg)
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}

	switch value.Kind() {
	case reflect.Map:
		entries := make(map[string]any, value.Len())
		iter := value.MapRange()
		for iter.Next() {
			entries[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
		}
		for _, key := range slices.Sorted(maps.Keys(entries)) {
			fields.Set(key, entries[key])
		}
	case reflect.Struct:
		valueType := value.Type()
		for i := range valueType.NumField() {
			field := valueType.Field(i)
			if !field.IsExported() {
				continue
			}
			if name, ok := fieldName(field); ok {
				fields.Set(name, value.Field(i).Interface())
			}
		}
	case reflect.Slice, reflect.Array:
		for i := range value.Len() {
			fields.Set(strconv.Itoa(i), value.Index(i).Interface())
		}
	}
}

// fieldName returns the key of a struct field, honoring its json tag.
func fieldName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false
	}

	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name, true
	}
	return field.Name, true
}
