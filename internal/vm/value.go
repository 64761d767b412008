package vm

import (
	"fmt"
	"math"

	"github.com/hydorlang/hydor/internal/typesystem"
)

// ValueType identifies the variant stored in a Value.
type ValueType uint8

const (
	ValNil ValueType = iota
	ValInt
	ValFloat
	ValBool
	ValString
)

// Value is a stack-allocated tagged union. Scalars are stored unboxed
// in Data (int32 or float64 bits, bool as 0/1); strings store an index
// into the owning chunk's string table, never the text itself, so
// push/pop never copies string contents.
type Value struct {
	Type ValueType
	Data uint64
}

// Constructors

func NilVal() Value {
	return Value{Type: ValNil}
}

func IntVal(v int32) Value {
	return Value{Type: ValInt, Data: uint64(uint32(v))}
}

func FloatVal(v float64) Value {
	return Value{Type: ValFloat, Data: math.Float64bits(v)}
}

func BoolVal(v bool) Value {
	var data uint64
	if v {
		data = 1
	}
	return Value{Type: ValBool, Data: data}
}

func StringVal(index int) Value {
	return Value{Type: ValString, Data: uint64(index)}
}

// Accessors. Calling one on a mismatched variant is a programmer error;
// callers guard with the predicates below.

func (v Value) AsInt() int32 {
	return int32(uint32(v.Data))
}

func (v Value) AsFloat() float64 {
	return math.Float64frombits(v.Data)
}

func (v Value) AsBool() bool {
	return v.Data == 1
}

// StringIndex returns the string table index of a ValString value.
func (v Value) StringIndex() int {
	return int(v.Data)
}

// AsNumber widens an int or float to float64 for comparison.
func (v Value) AsNumber() float64 {
	if v.Type == ValInt {
		return float64(v.AsInt())
	}
	return v.AsFloat()
}

// Predicates

func (v Value) IsInt() bool    { return v.Type == ValInt }
func (v Value) IsFloat() bool  { return v.Type == ValFloat }
func (v Value) IsBool() bool   { return v.Type == ValBool }
func (v Value) IsNil() bool    { return v.Type == ValNil }
func (v Value) IsString() bool { return v.Type == ValString }

func (v Value) IsNumber() bool {
	return v.Type == ValInt || v.Type == ValFloat
}

// TypeOf maps the runtime variant to a static type tag for error
// messages.
func (v Value) TypeOf() typesystem.Type {
	switch v.Type {
	case ValInt:
		return typesystem.Integer
	case ValFloat:
		return typesystem.Float
	case ValBool:
		return typesystem.Boolean
	case ValString:
		return typesystem.String
	default:
		return typesystem.Nil
	}
}

// Equals implements the scalar equality rule: int and float compare
// equal when their numeric values coincide after widening; bool and nil
// compare by variant and payload. String values compare resolved text,
// which needs the table, so the VM handles them before calling this.
// Equality is total: mismatched variants are unequal, never an error.
func (v Value) Equals(other Value) bool {
	if v.Type != other.Type {
		// Implicit int -> float widening.
		if v.IsNumber() && other.IsNumber() {
			return v.AsNumber() == other.AsNumber()
		}
		return false
	}
	switch v.Type {
	case ValInt, ValBool, ValString:
		return v.Data == other.Data
	case ValFloat:
		return v.AsFloat() == other.AsFloat()
	case ValNil:
		return true
	default:
		return false
	}
}

// Inspect returns the display form of scalar values. String values
// render as a table reference; use VM.InspectValue for resolved text.
func (v Value) Inspect() string {
	switch v.Type {
	case ValInt:
		return fmt.Sprintf("%d", v.AsInt())
	case ValFloat:
		return fmt.Sprintf("%g", v.AsFloat())
	case ValBool:
		return fmt.Sprintf("%t", v.AsBool())
	case ValNil:
		return "nil"
	case ValString:
		return fmt.Sprintf("<string #%d>", v.StringIndex())
	default:
		return "<?>"
	}
}
