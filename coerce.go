package rig

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// Coercer converts a value — typically a string from a Constant reference,
// or whatever a Factory.Produce returned — to a slot's declared type
// (spec.md §4.6). The default implementation applies, in order: identity
// when the value is already assignable to the target; Go's native
// conversion when both types are numeric or share a kind; a registered
// parser for the concrete target type when the value is a string; and
// otherwise a type-mismatch failure. A nil value is returned as nil.
type Coercer interface {
	Coerce(value any, target reflect.Type) (any, error)
}

// ConverterFunc parses a string into a value of one declared type.
type ConverterFunc func(s string) (any, error)

// parserRegistry is the default Coercer: identity plus a table of
// per-reflect.Type string parsers, matching the "registered textual parser
// for the target type" step of spec.md §4.6.
type parserRegistry struct {
	parsers map[reflect.Type]ConverterFunc
}

// NewCoercer returns the default Coercer, pre-populated with parsers for the
// scalar types every blueprint format needs: int, int32, int64, uint,
// uint64, float32, float64, bool, string, and time.Duration.
func NewCoercer() Coercer {
	r := &parserRegistry{parsers: make(map[reflect.Type]ConverterFunc)}
	r.RegisterParser(reflect.TypeOf(""), func(s string) (any, error) { return s, nil })
	r.RegisterParser(reflect.TypeOf(true), func(s string) (any, error) { return strconv.ParseBool(s) })
	r.RegisterParser(reflect.TypeOf(int(0)), func(s string) (any, error) {
		v, err := strconv.ParseInt(s, 10, 64)
		return int(v), err
	})
	r.RegisterParser(reflect.TypeOf(int32(0)), func(s string) (any, error) {
		v, err := strconv.ParseInt(s, 10, 32)
		return int32(v), err
	})
	r.RegisterParser(reflect.TypeOf(int64(0)), func(s string) (any, error) {
		return strconv.ParseInt(s, 10, 64)
	})
	r.RegisterParser(reflect.TypeOf(uint(0)), func(s string) (any, error) {
		v, err := strconv.ParseUint(s, 10, 64)
		return uint(v), err
	})
	r.RegisterParser(reflect.TypeOf(uint64(0)), func(s string) (any, error) {
		return strconv.ParseUint(s, 10, 64)
	})
	r.RegisterParser(reflect.TypeOf(float32(0)), func(s string) (any, error) {
		v, err := strconv.ParseFloat(s, 32)
		return float32(v), err
	})
	r.RegisterParser(reflect.TypeOf(float64(0)), func(s string) (any, error) {
		return strconv.ParseFloat(s, 64)
	})
	r.RegisterParser(reflect.TypeOf(time.Duration(0)), func(s string) (any, error) {
		return time.ParseDuration(s)
	})
	return r
}

// RegisterParser installs (or replaces) the textual parser for one declared
// type, so hosts can add domain types (currency amounts, durations with a
// house-specific format, decimals, ...) without forking the coercer.
func (r *parserRegistry) RegisterParser(target reflect.Type, fn ConverterFunc) {
	r.parsers[target] = fn
}

// Coerce implements Coercer.
func (r *parserRegistry) Coerce(value any, target reflect.Type) (any, error) {
	if value == nil {
		return nil, nil
	}

	valueType := reflect.TypeOf(value)
	if valueType.AssignableTo(target) {
		return value, nil
	}
	if valueType.ConvertibleTo(target) && sameKindFamily(valueType.Kind(), target.Kind()) {
		return reflect.ValueOf(value).Convert(target).Interface(), nil
	}

	s, isString := value.(string)
	if !isString {
		return nil, fmt.Errorf("rig: value of type %s is not assignable to %s and is not a string to parse", valueType, target)
	}

	if parse, ok := r.parsers[target]; ok {
		parsed, err := parse(s)
		if err != nil {
			return nil, fmt.Errorf("rig: parsing %q as %s: %w", s, target, err)
		}
		return parsed, nil
	}

	return nil, fmt.Errorf("rig: no registered parser converts a string to %s", target)
}

// sameKindFamily restricts Go's native convertibility (which, for instance,
// allows converting string -> []byte) to conversions within the same
// numeric/string/bool family, so an accidental reflect.ConvertibleTo match
// doesn't silently reinterpret bytes.
func sameKindFamily(a, b reflect.Kind) bool {
	numeric := func(k reflect.Kind) bool {
		switch k {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return true
		default:
			return false
		}
	}
	if numeric(a) && numeric(b) {
		return true
	}
	return a == b
}
