package typesystem

import (
	"reflect"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/funvibe/overload/internal/config"
)

// Callable is implemented by values the Function type accepts besides Go funcs,
// dispatchers included.
type Callable interface {
	Call(args ...any) (any, error)
}

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

func isNumber(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isString(v any) bool {
	return v != nil && reflect.ValueOf(v).Kind() == reflect.String
}

func isBoolean(v any) bool {
	return v != nil && reflect.ValueOf(v).Kind() == reflect.Bool
}

func isFunction(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(Callable); ok {
		return true
	}
	return reflect.ValueOf(v).Kind() == reflect.Func
}

func isArray(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		return true
	case reflect.Array:
		return rv.Type() != uuidType
	}
	return false
}

func isDate(v any) bool {
	_, ok := v.(time.Time)
	return ok
}

func isRegExp(v any) bool {
	re, ok := v.(*regexp.Regexp)
	return ok && re != nil
}

func isUUID(v any) bool {
	_, ok := v.(uuid.UUID)
	return ok
}

// isObject accepts string-keyed maps and plain structs.
func isObject(v any) bool {
	if v == nil {
		return false
	}
	rt := reflect.TypeOf(v)
	switch rt.Kind() {
	case reflect.Map:
		return rt.Key().Kind() == reflect.String
	case reflect.Struct:
		return rt != timeType
	}
	return false
}

func isNull(v any) bool {
	return v == nil
}

func anyTest(any) bool { return true }

// DefaultTypes returns the built-in types in registration order, without any.
func DefaultTypes() []Type {
	return []Type{
		{Name: config.NumberTypeName, Test: isNumber},
		{Name: config.StringTypeName, Test: isString},
		{Name: config.BooleanTypeName, Test: isBoolean},
		{Name: config.FunctionTypeName, Test: isFunction},
		{Name: config.ArrayTypeName, Test: isArray},
		{Name: config.DateTypeName, Test: isDate},
		{Name: config.RegExpTypeName, Test: isRegExp},
		{Name: config.UUIDTypeName, Test: isUUID},
		{Name: config.ObjectTypeName, Test: isObject},
		{Name: config.NullTypeName, Test: isNull},
	}
}

// AnyType is the wildcard type every registry ends with.
func AnyType() Type {
	return Type{Name: config.AnyTypeName, Test: anyTest, IsAny: true}
}
