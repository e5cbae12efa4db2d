package input

import "fmt"

// Error is a structural input-tree error: malformed shape, wrong arity, or
// a value that doesn't coerce to the requested kind. Builder-level callers
// turn these into builder.Error values with code InvalidInput; some keep
// the *Error as an unwrappable cause, others copy only its message.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

func errorf(format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// CoerceToList implements spec §4.1's input coercion: a nested directive's
// value is one of {map, list-of-maps}; a single map is coerced to a
// singleton list for many-sided relations.
func CoerceToList(v Value) ([]Value, error) {
	switch t := v.(type) {
	case *Map:
		return []Value{t}, nil
	case List:
		return t.Items, nil
	default:
		return nil, errorf("expected a map or a list of maps, got %T", v)
	}
}

// CoerceToSingle implements the one-to-one arity rule: exactly one element
// is accepted, everything else is InvalidInput (spec scenario S5).
func CoerceToSingle(v Value) (Value, error) {
	items, err := CoerceToList(v)
	if err != nil {
		return nil, err
	}
	if len(items) != 1 {
		return nil, errorf("expected exactly one entry for one-to-one relation, got %d", len(items))
	}
	return items[0], nil
}

// AsMap coerces a Value to *Map or fails.
func AsMap(v Value) (*Map, error) {
	m, ok := v.(*Map)
	if !ok {
		return nil, errorf("expected a map, got %T", v)
	}
	return m, nil
}

// AsScalar coerces a Value to Scalar or fails.
func AsScalar(v Value) (Scalar, error) {
	s, ok := v.(Scalar)
	if !ok {
		return Scalar{}, errorf("expected a scalar, got %T", v)
	}
	return s, nil
}
