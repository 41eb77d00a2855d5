package abis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Mutability is the state mutability tag of a contract function.
type Mutability int

const (
	MutabilityNonPayable Mutability = iota
	MutabilityPayable
	MutabilityView
	MutabilityPure
)

func (m Mutability) String() string {
	switch m {
	case MutabilityPayable:
		return "payable"
	case MutabilityView:
		return "view"
	case MutabilityPure:
		return "pure"
	default:
		return "nonpayable"
	}
}

// ReadOnly reports whether the function cannot change contract state.
func (m Mutability) ReadOnly() bool {
	return m == MutabilityView || m == MutabilityPure
}

func parseMutability(value string) (Mutability, error) {
	switch value {
	case "nonpayable":
		return MutabilityNonPayable, nil
	case "payable":
		return MutabilityPayable, nil
	case "view":
		return MutabilityView, nil
	case "pure":
		return MutabilityPure, nil
	default:
		return 0, fmt.Errorf("unknown state mutability %q", value)
	}
}

// ParameterSpec is one function parameter as declared in the ABI.
type ParameterSpec struct {
	Name             string          `json:"name" yaml:"name"`
	Type             string          `json:"type" yaml:"type"`
	ArrayElementType string          `json:"arrayElementType,omitempty" yaml:"array-element-type,omitempty"`
	Components       []ParameterSpec `json:"components,omitempty" yaml:"components,omitempty"`
}

// CanonicalType returns the type as written in a function signature, with
// tuples expanded to their parenthesized component types.
func (p ParameterSpec) CanonicalType() string {
	if !strings.HasPrefix(p.Type, "tuple") {
		return p.Type
	}
	parts := make([]string, len(p.Components))
	for i, component := range p.Components {
		parts[i] = component.CanonicalType()
	}
	return "(" + strings.Join(parts, ",") + ")" + strings.TrimPrefix(p.Type, "tuple")
}

// FunctionABI is a validated function entry of a contract ABI.
type FunctionABI struct {
	Name       string
	Mutability Mutability
	Inputs     []ParameterSpec
	Outputs    []ParameterSpec
}

// Signature returns the canonical signature, e.g. transfer(address,uint256).
func (f FunctionABI) Signature() string {
	types := make([]string, len(f.Inputs))
	for i, input := range f.Inputs {
		types[i] = input.CanonicalType()
	}
	return f.Name + "(" + strings.Join(types, ",") + ")"
}

// ContractABI holds the validated functions of a contract together with the
// go-ethereum codec built from the same definition.
type ContractABI struct {
	Functions []FunctionABI
	codec     abi.ABI
}

// Codec returns the underlying go-ethereum ABI, used for read-only calls and
// event decoding.
func (c *ContractABI) Codec() *abi.ABI {
	return &c.codec
}

type rawParameter struct {
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Components []rawParameter `json:"components"`
}

type rawEntry struct {
	Type            string          `json:"type"`
	Name            string          `json:"name"`
	Inputs          *[]rawParameter `json:"inputs"`
	Outputs         []rawParameter  `json:"outputs"`
	StateMutability *string         `json:"stateMutability"`
	Constant        *bool           `json:"constant"`
	Payable         *bool           `json:"payable"`
}

// ParseABI validates a JSON contract ABI and builds its codec. Only function
// entries are validated; events, errors and special functions are left to the
// codec.
func ParseABI(data []byte) (*ContractABI, error) {
	var entries []rawEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &ParseError{Reason: "abi is not a JSON array of entries", Err: err}
	}

	contract := &ContractABI{}
	for _, entry := range entries {
		// Solidity treats an entry without a type as a function.
		if entry.Type != "" && entry.Type != "function" {
			continue
		}
		function, err := parseFunction(entry)
		if err != nil {
			return nil, err
		}
		contract.Functions = append(contract.Functions, function)
	}

	normalized, err := normalizeEntryTypes(data)
	if err != nil {
		return nil, &ParseError{Reason: "abi is not a JSON array of entries", Err: err}
	}
	codec, err := abi.JSON(bytes.NewReader(normalized))
	if err != nil {
		return nil, &ParseError{Reason: "abi rejected by codec", Err: err}
	}
	contract.codec = codec

	return contract, nil
}

// normalizeEntryTypes fills in "type":"function" on untyped entries, which the
// go-ethereum codec refuses.
func normalizeEntryTypes(data []byte) ([]byte, error) {
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	changed := false
	for _, entry := range entries {
		if typ, ok := entry["type"]; ok && string(typ) != `""` && string(typ) != "null" {
			continue
		}
		entry["type"] = json.RawMessage(`"function"`)
		changed = true
	}
	if !changed {
		return data, nil
	}
	return json.Marshal(entries)
}

func parseFunction(entry rawEntry) (FunctionABI, error) {
	if entry.Name == "" {
		return FunctionABI{}, &ParseError{Reason: "function entry without a name"}
	}
	if entry.Inputs == nil {
		return FunctionABI{}, &ParseError{Function: entry.Name, Reason: "missing inputs list"}
	}

	mutability, err := entryMutability(entry)
	if err != nil {
		return FunctionABI{}, &ParseError{Function: entry.Name, Reason: "malformed mutability", Err: err}
	}

	inputs, err := parseParameters(*entry.Inputs)
	if err != nil {
		return FunctionABI{}, &ParseError{Function: entry.Name, Reason: "invalid input", Err: err}
	}
	outputs, err := parseParameters(entry.Outputs)
	if err != nil {
		return FunctionABI{}, &ParseError{Function: entry.Name, Reason: "invalid output", Err: err}
	}

	return FunctionABI{
		Name:       entry.Name,
		Mutability: mutability,
		Inputs:     inputs,
		Outputs:    outputs,
	}, nil
}

// entryMutability reads stateMutability, falling back to the pre-0.5 solc
// constant/payable flags.
func entryMutability(entry rawEntry) (Mutability, error) {
	if entry.StateMutability != nil {
		return parseMutability(*entry.StateMutability)
	}
	if entry.Constant != nil && *entry.Constant {
		return MutabilityView, nil
	}
	if entry.Payable != nil && *entry.Payable {
		return MutabilityPayable, nil
	}
	return MutabilityNonPayable, nil
}

func parseParameters(raw []rawParameter) ([]ParameterSpec, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	specs := make([]ParameterSpec, 0, len(raw))
	for i, parameter := range raw {
		if parameter.Type == "" {
			return nil, fmt.Errorf("parameter %d has no type", i)
		}
		components, err := parseParameters(parameter.Components)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		spec := ParameterSpec{
			Name:       parameter.Name,
			Type:       parameter.Type,
			Components: components,
		}
		if element, ok := strings.CutSuffix(parameter.Type, "[]"); ok {
			spec.ArrayElementType = element
		}
		if _, err := ParseType(spec); err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
