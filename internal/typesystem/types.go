// Package typesystem defines the static type tags shared by the type
// checker (as the result of checking an expression) and the VM (as
// human-readable tags in runtime error messages).
package typesystem

type Type int

const (
	Integer Type = iota
	Float
	Boolean
	String
	Nil
)

var typeNames = map[Type]string{
	Integer: "int",
	Float:   "float",
	Boolean: "bool",
	String:  "string",
	Nil:     "nil",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsNumeric reports whether t is int or float.
func (t Type) IsNumeric() bool {
	return t == Integer || t == Float
}

// FromAnnotation maps a source-level type annotation identifier to its
// Type. The second result is false for unknown annotations.
func FromAnnotation(name string) (Type, bool) {
	switch name {
	case "int":
		return Integer, true
	case "float":
		return Float, true
	case "bool":
		return Boolean, true
	case "string":
		return String, true
	default:
		return Nil, false
	}
}
