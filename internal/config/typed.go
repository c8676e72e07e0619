package config

import (
	"fmt"
	"math"
)

// Returns the value for key asserted to type T.
func As[T any](g Getter, key string) (T, error) {
	var zero T
	v, err := g.Get(key)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q is %T, want %T", ErrType, key, v, zero)
	}
	return t, nil
}

// Returns the value for key as a string.
func String(g Getter, key string) (string, error) {
	return As[string](g, key)
}

// Returns the value for key as a bool.
func Bool(g Getter, key string) (bool, error) {
	return As[bool](g, key)
}

// Returns the value for key as an int.
//
// Accepts any Go integer type and integral floats, which is what TOML and
// YAML decoders produce for numbers.
func Int(g Getter, key string) (int, error) {
	v, err := g.Get(key)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case int32:
		return int(n), nil
	case uint:
		return int(n), nil
	case uint64:
		return int(n), nil
	case uint32:
		return int(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("%w: %q is %T, want integer", ErrType, key, v)
}

// Returns the value for key as a list of strings.
//
// Accepts []string, []any holding only strings, or a single string, which
// is treated as a one-element list.
func Strings(g Getter, key string) ([]string, error) {
	v, err := g.Get(key)
	if err != nil {
		return nil, err
	}
	switch l := v.(type) {
	case []string:
		return l, nil
	case string:
		return []string{l}, nil
	case []any:
		out := make([]string, 0, len(l))
		for i, e := range l {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %q[%d] is %T, want string", ErrType, key, i, e)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %q is %T, want list of strings", ErrType, key, v)
}

// Returns the value for key as a string map.
//
// Accepts map[string]string, [Map] and map[string]any. Non-string values are
// formatted with fmt.Sprint.
func StringMap(g Getter, key string) (map[string]string, error) {
	v, err := g.Get(key)
	if err != nil {
		return nil, err
	}
	switch m := v.(type) {
	case map[string]string:
		return m, nil
	case Map:
		return stringify(m), nil
	case map[string]any:
		return stringify(m), nil
	}
	return nil, fmt.Errorf("%w: %q is %T, want mapping", ErrType, key, v)
}

func stringify(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = fmt.Sprint(v)
	}
	return out
}
