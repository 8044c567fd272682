package soitin

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueType enumerates the semantic types a unit parameter can have.
type ValueType int

const (
	IntValue ValueType = iota
	FloatValue
	StringValue
)

func (t ValueType) String() string {
	switch t {
	case IntValue:
		return "int"
	case FloatValue:
		return "float"
	case StringValue:
		return "string"
	}
	return "unknown"
}

// Value is a tagged variant over the parameter types {int, float, string}.
// The zero Value is the int 0.
type Value struct {
	typ ValueType
	i   int
	f   float64
	s   string
}

func Int(i int) Value       { return Value{typ: IntValue, i: i} }
func Float(f float64) Value { return Value{typ: FloatValue, f: f} }
func Str(s string) Value    { return Value{typ: StringValue, s: s} }

// ParseValue tokenizes a command value greedily as a number when the token
// starts like one: int if it has no fractional or exponent marker, float
// otherwise. Anything else is kept as a string.
func ParseValue(tok string) Value {
	if len(tok) > 0 && (tok[0] == '-' || tok[0] == '+' || (tok[0] >= '0' && tok[0] <= '9')) {
		if strings.ContainsAny(tok, ".eE") {
			if f, err := strconv.ParseFloat(tok, 64); err == nil {
				return Float(f)
			}
		} else if i, err := strconv.Atoi(tok); err == nil {
			return Int(i)
		}
	}
	return Str(tok)
}

func (v Value) Type() ValueType { return v.typ }

// Int converts the value to an int, parsing strings when possible.
func (v Value) Int() (int, error) {
	switch v.typ {
	case IntValue:
		return v.i, nil
	case FloatValue:
		return int(v.f), nil
	case StringValue:
		if i, err := strconv.Atoi(v.s); err == nil {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: cannot convert %v to int", ErrTypeMismatch, v)
}

// Float converts the value to a float64, parsing strings when possible.
func (v Value) Float() (float64, error) {
	switch v.typ {
	case IntValue:
		return float64(v.i), nil
	case FloatValue:
		return v.f, nil
	case StringValue:
		if f, err := strconv.ParseFloat(v.s, 64); err == nil {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: cannot convert %v to float", ErrTypeMismatch, v)
}

// Text returns the value as a string; numbers are formatted.
func (v Value) Text() string {
	switch v.typ {
	case IntValue:
		return strconv.Itoa(v.i)
	case FloatValue:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	}
	return v.s
}

// Convert coerces the value to the given semantic type, returning
// ErrTypeMismatch when the conversion is impossible.
func (v Value) Convert(t ValueType) (Value, error) {
	switch t {
	case IntValue:
		i, err := v.Int()
		if err != nil {
			return Value{}, err
		}
		return Int(i), nil
	case FloatValue:
		f, err := v.Float()
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case StringValue:
		return Str(v.Text()), nil
	}
	return Value{}, fmt.Errorf("%w: unknown target type %v", ErrTypeMismatch, t)
}

func (v Value) String() string { return v.Text() }
