package abis

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a parsed ABI type.
type Kind int

const (
	KindInteger Kind = iota
	KindAddress
	KindBool
	KindString
	KindBytes
	KindFixedBytes
	KindArray
	KindTuple
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindAddress:
		return "address"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindFixedBytes:
		return "fixed-bytes"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Type is a parsed ABI type.
type Type struct {
	Kind Kind
	// Name is the declared type string, e.g. uint256[] or tuple.
	Name string
	// Bits is the width of integer types.
	Bits   int
	Signed bool
	// Size is the length of bytesN and of fixed arrays; -1 for dynamic arrays.
	Size   int
	Elem   *Type
	Fields []Field
}

// Field is a named tuple component.
type Field struct {
	Name string
	Type Type
}

// bigIntegerTypes are rendered through arbitrary-precision conversion.
var bigIntegerTypes = map[string]struct{}{
	"uint256": {},
	"uint128": {},
	"int256":  {},
	"int128":  {},
}

// IsBigInteger reports whether values of t may exceed native integer precision.
func (t Type) IsBigInteger() bool {
	if t.Kind != KindInteger {
		return false
	}
	_, ok := bigIntegerTypes[t.Name]
	return ok || t.Bits > 64
}

// ParseType parses the declared type of a parameter, including array
// dimensions and tuple components.
func ParseType(spec ParameterSpec) (Type, error) {
	return parseType(spec.Type, spec.Components)
}

func parseType(name string, components []ParameterSpec) (Type, error) {
	if strings.HasSuffix(name, "]") {
		open := strings.LastIndex(name, "[")
		if open <= 0 {
			return Type{}, fmt.Errorf("malformed array type %q", name)
		}
		elem, err := parseType(name[:open], components)
		if err != nil {
			return Type{}, err
		}
		size := -1
		if dim := name[open+1 : len(name)-1]; dim != "" {
			size, err = strconv.Atoi(dim)
			if err != nil || size <= 0 {
				return Type{}, fmt.Errorf("malformed array length in %q", name)
			}
		}
		return Type{Kind: KindArray, Name: name, Size: size, Elem: &elem}, nil
	}

	switch {
	case name == "address":
		return Type{Kind: KindAddress, Name: name}, nil
	case name == "bool":
		return Type{Kind: KindBool, Name: name}, nil
	case name == "string":
		return Type{Kind: KindString, Name: name}, nil
	case name == "bytes":
		return Type{Kind: KindBytes, Name: name}, nil
	case name == "tuple":
		if len(components) == 0 {
			return Type{}, fmt.Errorf("tuple without components")
		}
		fields := make([]Field, len(components))
		for i, component := range components {
			fieldType, err := ParseType(component)
			if err != nil {
				return Type{}, err
			}
			fields[i] = Field{Name: component.Name, Type: fieldType}
		}
		return Type{Kind: KindTuple, Name: name, Fields: fields}, nil
	case strings.HasPrefix(name, "bytes"):
		size, err := strconv.Atoi(strings.TrimPrefix(name, "bytes"))
		if err != nil || size < 1 || size > 32 {
			return Type{}, fmt.Errorf("unsupported type %q", name)
		}
		return Type{Kind: KindFixedBytes, Name: name, Size: size}, nil
	case strings.HasPrefix(name, "uint"):
		return parseInteger(name, strings.TrimPrefix(name, "uint"), false)
	case strings.HasPrefix(name, "int"):
		return parseInteger(name, strings.TrimPrefix(name, "int"), true)
	default:
		return Type{}, fmt.Errorf("unsupported type %q", name)
	}
}

func parseInteger(name, width string, signed bool) (Type, error) {
	bits, err := strconv.Atoi(width)
	if err != nil || bits < 8 || bits > 256 || bits%8 != 0 {
		return Type{}, fmt.Errorf("unsupported type %q", name)
	}
	return Type{Kind: KindInteger, Name: name, Bits: bits, Signed: signed}, nil
}
