package internal

import (
	"reflect"
	"strconv"
)

// Scalar is the set of types route and query values convert to.
type Scalar interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// ContextValue returns the value stored under key, or the zero T.
func ContextValue[T any](c Context, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}

// Param returns a typed route parameter, or the zero T if it does not parse.
func Param[T Scalar](c Context, name string) T {
	v, _ := convert[T](c.Param(name))
	return v
}

// Query returns a typed query parameter, or the zero T if it does not parse.
func Query[T Scalar](c Context, name string) T {
	v, _ := convert[T](c.Query(name))
	return v
}

// QueryDefault returns defaultValue when the parameter is empty or invalid.
func QueryDefault[T Scalar](c Context, name string, defaultValue T) T {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}
	if v, ok := convert[T](raw); ok {
		return v
	}
	return defaultValue
}

func convert[T Scalar](raw string) (T, bool) {
	var out T
	rv := reflect.ValueOf(&out).Elem()
	switch rv.Kind() {
	case reflect.String:
		rv.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || rv.OverflowInt(n) {
			return out, false
		}
		rv.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return out, false
		}
		rv.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return out, false
		}
		rv.SetBool(b)
	default:
		return out, false
	}
	return out, true
}
