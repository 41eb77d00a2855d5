package abis

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	bytesTruncateAt = 50
	bytesKeep       = 48
	ellipsis        = "…"
)

// Argument is a decoded value rendered for display. Arrays and tuples carry
// their elements as children.
type Argument struct {
	Name     string     `yaml:"name,omitempty"`
	Type     string     `yaml:"type,omitempty"`
	Value    string     `yaml:"value,omitempty"`
	Children []Argument `yaml:"children,omitempty"`
}

// RenderArguments pairs decoded values with their parameters. Values beyond
// the declared parameters are rendered with their default form.
func RenderArguments(params []ParameterSpec, values []any) []Argument {
	rendered := make([]Argument, 0, len(values))
	for i, value := range values {
		if i >= len(params) {
			rendered = append(rendered, Argument{Value: formatDefault(value)})
			continue
		}
		t, err := ParseType(params[i])
		if err != nil {
			rendered = append(rendered, Argument{Name: params[i].Name, Type: params[i].Type, Value: formatDefault(value)})
			continue
		}
		argument := Render(t, value)
		argument.Name = params[i].Name
		rendered = append(rendered, argument)
	}
	return rendered
}

// Render formats a decoded value according to its type.
func Render(t Type, value any) Argument {
	argument := Argument{Type: t.Name}

	switch t.Kind {
	case KindInteger:
		if t.IsBigInteger() {
			argument.Value = formatInteger(value)
		} else {
			argument.Value = formatDefault(value)
		}
	case KindArray:
		elements, ok := sequence(value)
		if !ok {
			argument.Value = formatDefault(value)
			break
		}
		argument.Children = make([]Argument, len(elements))
		for i, element := range elements {
			argument.Children[i] = Render(*t.Elem, element)
		}
	case KindTuple:
		fields, ok := structFields(value, len(t.Fields))
		if !ok {
			argument.Value = formatDefault(value)
			break
		}
		argument.Children = make([]Argument, len(fields))
		for i, field := range fields {
			child := Render(t.Fields[i].Type, field)
			child.Name = t.Fields[i].Name
			argument.Children[i] = child
		}
	case KindBytes:
		argument.Value = truncateBytes(formatDefault(value))
	case KindAddress, KindBool, KindString, KindFixedBytes:
		argument.Value = formatDefault(value)
	}

	return argument
}

// truncateBytes shortens long raw payloads for display.
func truncateBytes(text string) string {
	if len(text) < bytesTruncateAt {
		return text
	}
	return text[:bytesKeep] + ellipsis
}

// formatInteger prints integers exactly, whatever their width.
func formatInteger(value any) string {
	switch v := value.(type) {
	case *big.Int:
		if v == nil {
			return "0"
		}
		return v.String()
	default:
		return formatDefault(value)
	}
}

func formatDefault(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return hexutil.Encode(v)
	case common.Address:
		return v.Hex()
	case common.Hash:
		return v.Hex()
	case *big.Int:
		return formatInteger(v)
	case fmt.Stringer:
		return v.String()
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		raw := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(raw), rv)
		return hexutil.Encode(raw)
	}
	return fmt.Sprint(value)
}

func sequence(value any) ([]any, bool) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	elements := make([]any, rv.Len())
	for i := range elements {
		elements[i] = rv.Index(i).Interface()
	}
	return elements, true
}

func structFields(value any, want int) ([]any, bool) {
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct || rv.NumField() != want {
		return nil, false
	}
	fields := make([]any, want)
	for i := range fields {
		if !rv.Type().Field(i).IsExported() {
			return nil, false
		}
		fields[i] = rv.Field(i).Interface()
	}
	return fields, true
}

// FormatArguments lays rendered arguments out as indented text lines.
func FormatArguments(arguments []Argument) string {
	var b strings.Builder
	writeArguments(&b, arguments, 0)
	return b.String()
}

func writeArguments(b *strings.Builder, arguments []Argument, depth int) {
	for _, argument := range arguments {
		b.WriteString(strings.Repeat("  ", depth))
		label := argument.Name
		if label == "" {
			label = "-"
		}
		b.WriteString(label)
		if argument.Type != "" {
			b.WriteString(" (" + argument.Type + ")")
		}
		if argument.Value != "" || len(argument.Children) == 0 {
			b.WriteString(": " + argument.Value)
		}
		b.WriteString("\n")
		writeArguments(b, argument.Children, depth+1)
	}
}
