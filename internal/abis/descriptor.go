package abis

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// FunctionDescriptor encodes and decodes calls to one state-changing contract
// function. It is immutable once built.
type FunctionDescriptor struct {
	contractLabel string
	functionName  string
	signature     string
	selector      Selector
	mutability    Mutability
	inputs        []ParameterSpec
	outputs       []ParameterSpec
	method        abi.Method
}

// ContractLabel is the display name of the owning contract.
func (d *FunctionDescriptor) ContractLabel() string { return d.contractLabel }

// FunctionName is the bare name, or the full signature for overloaded names.
func (d *FunctionDescriptor) FunctionName() string { return d.functionName }

func (d *FunctionDescriptor) Signature() string { return d.signature }

func (d *FunctionDescriptor) Selector() Selector { return d.selector }

func (d *FunctionDescriptor) Mutability() Mutability { return d.mutability }

// Inputs returns a copy of the declared inputs in encoding order.
func (d *FunctionDescriptor) Inputs() []ParameterSpec { return cloneParameters(d.inputs) }

// Outputs returns a copy of the declared outputs.
func (d *FunctionDescriptor) Outputs() []ParameterSpec { return cloneParameters(d.outputs) }

// Encode packs the selector and arguments into calldata.
func (d *FunctionDescriptor) Encode(args []any) ([]byte, error) {
	if len(args) != len(d.method.Inputs) {
		return nil, &EncodingError{
			Function: d.signature,
			Reason:   fmt.Sprintf("expected %d arguments, got %d", len(d.method.Inputs), len(args)),
		}
	}
	packed, err := d.pack(args)
	if err != nil {
		return nil, &EncodingError{Function: d.signature, Reason: "argument mismatch", Err: err}
	}

	calldata := make([]byte, 0, len(d.selector)+len(packed))
	calldata = append(calldata, d.selector[:]...)
	return append(calldata, packed...), nil
}

// pack runs the go-ethereum packer, which panics on nil pointers such as a
// typed nil *big.Int.
func (d *FunctionDescriptor) pack(args []any) (packed []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("abi: cannot pack arguments: %v", r)
		}
	}()
	return d.method.Inputs.Pack(args...)
}

// DecodeCallData unpacks calldata, selector included, into argument values.
func (d *FunctionDescriptor) DecodeCallData(calldata []byte) ([]any, error) {
	selector, ok := SelectorFromCalldata(calldata)
	if !ok {
		return nil, &DecodingError{Function: d.signature, Reason: "calldata shorter than a selector"}
	}
	if selector != d.selector {
		return nil, &DecodingError{Function: d.signature, Reason: fmt.Sprintf("selector %s does not match %s", selector, d.selector)}
	}
	values, err := d.method.Inputs.Unpack(calldata[len(selector):])
	if err != nil {
		return nil, &DecodingError{Function: d.signature, Reason: "malformed calldata", Err: err}
	}
	return values, nil
}

// DecodeReturnData unpacks return data according to the declared outputs.
// ABI-encoded return data is always a whole number of 32-byte words, so
// anything else (revert payloads included) is rejected.
func (d *FunctionDescriptor) DecodeReturnData(data []byte) ([]any, error) {
	if len(d.method.Outputs) == 0 {
		return nil, &DecodingError{Function: d.signature, Reason: "function declares no outputs"}
	}
	if len(data)%32 != 0 {
		return nil, &DecodingError{Function: d.signature, Reason: fmt.Sprintf("return data of %d bytes is not word aligned", len(data))}
	}
	values, err := d.method.Outputs.Unpack(data)
	if err != nil {
		return nil, &DecodingError{Function: d.signature, Reason: "malformed return data", Err: err}
	}
	return values, nil
}

func cloneParameters(specs []ParameterSpec) []ParameterSpec {
	if specs == nil {
		return nil
	}
	cloned := make([]ParameterSpec, len(specs))
	for i, spec := range specs {
		cloned[i] = spec
		cloned[i].Components = cloneParameters(spec.Components)
	}
	return cloned
}
