package gather

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrParamMissing is returned when a requested parameter key is absent
var ErrParamMissing = errors.New("parameter missing")

// ErrParamType is returned when a parameter cannot be converted to the requested type
var ErrParamType = errors.New("parameter has wrong type")

// Param is a single named argument of a primitive operation
type Param struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// KV builds a Param
func KV(key string, value any) Param {
	return Param{Key: key, Value: value}
}

// Params is an ordered list of named arguments. Order is preserved so that
// history records print the same way they were declared.
type Params []Param

// Get returns the raw value stored under key
func (p Params) Get(key string) (any, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present
func (p Params) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Set returns a copy of p with key bound to value. An existing key keeps its
// position; a new key is appended.
func (p Params) Set(key string, value any) Params {
	out := p.Clone()
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Param{Key: key, Value: value})
}

// Clone returns an independent copy of p
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	copy(out, p)
	return out
}

// Float returns the value under key as a float64
func (p Params) Float(key string) (float64, error) {
	v, ok := p.Get(key)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrParamMissing, key)
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q", ErrParamType, key, x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s is %T", ErrParamType, key, v)
	}
}

// FloatOr returns the value under key, or def when the key is absent
func (p Params) FloatOr(key string, def float64) (float64, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.Float(key)
}

// Int returns the value under key as an int. Float values must be integral.
func (p Params) Int(key string) (int, error) {
	v, ok := p.Get(key)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrParamMissing, key)
	}
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	default:
		f, err := p.Float(key)
		if err != nil {
			return 0, err
		}
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("%w: %s=%v is not an integer", ErrParamType, key, f)
		}
		return int(f), nil
	}
}

// IntOr returns the value under key, or def when the key is absent
func (p Params) IntOr(key string, def int) (int, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.Int(key)
}

// Text returns the value under key as a string
func (p Params) Text(key string) (string, error) {
	v, ok := p.Get(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrParamMissing, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T", ErrParamType, key, v)
	}
	return s, nil
}

// TextOr returns the value under key, or def when the key is absent
func (p Params) TextOr(key, def string) (string, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.Text(key)
}

// Pretty renders the params as "k=v, k=v"
func (p Params) Pretty() string {
	parts := make([]string, 0, len(p))
	for _, kv := range p {
		parts = append(parts, fmt.Sprintf("%s=%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}
