package abis

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var bigIntType = reflect.TypeOf(&big.Int{})

// EncodeText encodes arguments given as text. Scalars are written plainly
// (decimal or 0x-hex integers, hex bytes, true/false); arrays and tuples are
// written as JSON, tuples either positionally or keyed by component name.
func (d *FunctionDescriptor) EncodeText(args []string) ([]byte, error) {
	if len(args) != len(d.method.Inputs) {
		return nil, &EncodingError{
			Function: d.signature,
			Reason:   fmt.Sprintf("expected %d arguments, got %d", len(d.method.Inputs), len(args)),
		}
	}

	values := make([]any, len(args))
	for i, text := range args {
		value, err := coerceText(d.method.Inputs[i].Type, text)
		if err != nil {
			return nil, &EncodingError{
				Function: d.signature,
				Argument: d.inputs[i].Name,
				Reason:   fmt.Sprintf("invalid %s value", d.inputs[i].Type),
				Err:      err,
			}
		}
		values[i] = value
	}

	return d.Encode(values)
}

func coerceText(t abi.Type, text string) (any, error) {
	var raw any = strings.TrimSpace(text)
	switch t.T {
	case abi.SliceTy, abi.ArrayTy, abi.TupleTy:
		decoder := json.NewDecoder(strings.NewReader(text))
		decoder.UseNumber()
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("expected a JSON value: %w", err)
		}
	}

	value, err := coerce(t, raw)
	if err != nil {
		return nil, err
	}
	return value.Interface(), nil
}

// coerce converts a text or JSON-decoded value into the Go type the packer
// expects for t.
func coerce(t abi.Type, raw any) (reflect.Value, error) {
	switch t.T {
	case abi.IntTy, abi.UintTy:
		n, err := toInteger(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return integerValue(t, n)

	case abi.BoolTy:
		switch v := raw.(type) {
		case bool:
			return reflect.ValueOf(v), nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("expected true or false, got %q", v)
			}
			return reflect.ValueOf(b), nil
		}

	case abi.StringTy:
		if v, ok := raw.(string); ok {
			return reflect.ValueOf(v), nil
		}

	case abi.AddressTy:
		if v, ok := raw.(string); ok {
			if !common.IsHexAddress(v) {
				return reflect.Value{}, fmt.Errorf("invalid address %q", v)
			}
			return reflect.ValueOf(common.HexToAddress(v)), nil
		}

	case abi.BytesTy:
		if v, ok := raw.(string); ok {
			b, err := hexutil.Decode(v)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("invalid hex bytes %q: %w", v, err)
			}
			return reflect.ValueOf(b), nil
		}

	case abi.FixedBytesTy:
		if v, ok := raw.(string); ok {
			b, err := hexutil.Decode(v)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("invalid hex bytes %q: %w", v, err)
			}
			if len(b) != t.Size {
				return reflect.Value{}, fmt.Errorf("expected %d bytes, got %d", t.Size, len(b))
			}
			array := reflect.New(t.GetType()).Elem()
			reflect.Copy(array, reflect.ValueOf(b))
			return array, nil
		}

	case abi.SliceTy:
		items, ok := raw.([]any)
		if !ok {
			break
		}
		slice := reflect.MakeSlice(t.GetType(), len(items), len(items))
		for i, item := range items {
			element, err := coerce(*t.Elem, item)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			slice.Index(i).Set(element)
		}
		return slice, nil

	case abi.ArrayTy:
		items, ok := raw.([]any)
		if !ok {
			break
		}
		if len(items) != t.Size {
			return reflect.Value{}, fmt.Errorf("expected %d elements, got %d", t.Size, len(items))
		}
		array := reflect.New(t.GetType()).Elem()
		for i, item := range items {
			element, err := coerce(*t.Elem, item)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			array.Index(i).Set(element)
		}
		return array, nil

	case abi.TupleTy:
		return coerceTuple(t, raw)

	default:
		return reflect.Value{}, fmt.Errorf("unsupported type %s", t.String())
	}

	return reflect.Value{}, fmt.Errorf("unexpected %T for %s", raw, t.String())
}

func coerceTuple(t abi.Type, raw any) (reflect.Value, error) {
	items := make([]any, len(t.TupleElems))
	switch v := raw.(type) {
	case []any:
		if len(v) != len(items) {
			return reflect.Value{}, fmt.Errorf("expected %d components, got %d", len(items), len(v))
		}
		copy(items, v)
	case map[string]any:
		for i, name := range t.TupleRawNames {
			item, ok := v[name]
			if !ok {
				return reflect.Value{}, fmt.Errorf("missing component %q", name)
			}
			items[i] = item
		}
	default:
		return reflect.Value{}, fmt.Errorf("unexpected %T for %s", raw, t.String())
	}

	tuple := reflect.New(t.TupleType).Elem()
	for i, item := range items {
		component, err := coerce(*t.TupleElems[i], item)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("component %q: %w", t.TupleRawNames[i], err)
		}
		tuple.Field(i).Set(component)
	}
	return tuple, nil
}

func toInteger(raw any) (*big.Int, error) {
	var text string
	switch v := raw.(type) {
	case string:
		text = v
	case json.Number:
		text = v.String()
	default:
		return nil, fmt.Errorf("unexpected %T for an integer", raw)
	}

	n := new(big.Int)
	var ok bool
	if hex, isHex := strings.CutPrefix(strings.ToLower(text), "0x"); isHex {
		_, ok = n.SetString(hex, 16)
	} else {
		_, ok = n.SetString(text, 10)
	}
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", text)
	}
	return n, nil
}

var errIntegerRange = errors.New("integer out of range")

func integerValue(t abi.Type, n *big.Int) (reflect.Value, error) {
	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return reflect.Value{}, fmt.Errorf("%w for uint%d: %s", errIntegerRange, t.Size, n)
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		lowest := new(big.Int).Neg(limit)
		if n.Cmp(lowest) < 0 || n.Cmp(limit) >= 0 {
			return reflect.Value{}, fmt.Errorf("%w for int%d: %s", errIntegerRange, t.Size, n)
		}
	}

	goType := t.GetType()
	if goType == bigIntType {
		return reflect.ValueOf(new(big.Int).Set(n)), nil
	}
	value := reflect.New(goType).Elem()
	if t.T == abi.UintTy {
		value.SetUint(n.Uint64())
	} else {
		value.SetInt(n.Int64())
	}
	return value, nil
}
