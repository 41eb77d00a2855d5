package abis

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	// NullReturn stands in for calls that returned no data.
	NullReturn = "null"
	// UnknownName labels calls no registry recognises.
	UnknownName = "Unknown"

	// revertHeaderSize skips the Error(string) selector plus the string
	// offset and length words.
	revertHeaderSize = 4 + 64
)

// ReturnKind tells which representation a DecodedReturn carries.
type ReturnKind int

const (
	ReturnNull ReturnKind = iota
	ReturnValues
	ReturnRevertReason
	ReturnRaw
)

func (k ReturnKind) String() string {
	switch k {
	case ReturnValues:
		return "values"
	case ReturnRevertReason:
		return "revert-reason"
	case ReturnRaw:
		return "raw"
	default:
		return NullReturn
	}
}

// DecodedReturn is the most informative reading of a call's return data.
type DecodedReturn struct {
	Kind   ReturnKind
	Values []any
	Reason string
	Raw    []byte
}

func (r DecodedReturn) String() string {
	switch r.Kind {
	case ReturnRevertReason:
		return r.Reason
	case ReturnRaw:
		return hexutil.Encode(r.Raw)
	case ReturnValues:
		return "values"
	default:
		return NullReturn
	}
}

// returnStrategy tries one reading of return data.
type returnStrategy func(descriptor *FunctionDescriptor, data []byte) (DecodedReturn, bool)

// returnStrategies are ordered from most to least informative; the last one
// always succeeds.
var returnStrategies = []returnStrategy{
	structuredReturn,
	revertReasonReturn,
	rawReturn,
}

// DecodeReturn reads return data with the descriptor if there is one, then as
// a revert reason, then as raw bytes. It never fails. The descriptor may be
// nil.
func DecodeReturn(descriptor *FunctionDescriptor, data []byte) DecodedReturn {
	if len(data) == 0 {
		return DecodedReturn{Kind: ReturnNull}
	}
	for _, strategy := range returnStrategies {
		if decoded, ok := strategy(descriptor, data); ok {
			return decoded
		}
	}
	return DecodedReturn{Kind: ReturnRaw, Raw: bytes.Clone(data)}
}

func structuredReturn(descriptor *FunctionDescriptor, data []byte) (DecodedReturn, bool) {
	if descriptor == nil {
		return DecodedReturn{}, false
	}
	values, err := descriptor.DecodeReturnData(data)
	if err != nil {
		return DecodedReturn{}, false
	}
	return DecodedReturn{Kind: ReturnValues, Values: values}, true
}

func revertReasonReturn(_ *FunctionDescriptor, data []byte) (DecodedReturn, bool) {
	if len(data) < revertHeaderSize {
		return DecodedReturn{}, false
	}
	message := data[revertHeaderSize:]
	if !utf8.Valid(message) {
		return DecodedReturn{}, false
	}
	return DecodedReturn{
		Kind:   ReturnRevertReason,
		Reason: strings.ReplaceAll(string(message), "\x00", ""),
	}, true
}

func rawReturn(_ *FunctionDescriptor, data []byte) (DecodedReturn, bool) {
	return DecodedReturn{Kind: ReturnRaw, Raw: bytes.Clone(data)}, true
}

// DecodedCall describes one contract call for display.
type DecodedCall struct {
	ContractName string
	FunctionName string
	Inputs       []ParameterSpec
	Outputs      []ParameterSpec
	CallData     []any
	Return       DecodedReturn
	Matched      bool
}

// RenderInputs renders the call arguments against their declared types.
func (c DecodedCall) RenderInputs() []Argument {
	return RenderArguments(c.Inputs, c.CallData)
}

// RenderReturn renders the return data according to its representation.
func (c DecodedCall) RenderReturn() []Argument {
	switch c.Return.Kind {
	case ReturnValues:
		return RenderArguments(c.Outputs, c.Return.Values)
	case ReturnRevertReason:
		return []Argument{{Name: "reason", Type: "string", Value: c.Return.Reason}}
	case ReturnRaw:
		return RenderArguments(rawParameters(), []any{c.Return.Raw})
	default:
		return []Argument{{Value: NullReturn}}
	}
}

// Decoder resolves and decodes calls against a catalog.
type Decoder struct {
	catalog *Catalog
}

func NewDecoder(catalog *Catalog) *Decoder {
	return &Decoder{catalog: catalog}
}

// DecodeCall decodes a call made to address with the given calldata and the
// data it returned. Unrecognised calls come back as Unknown with the raw
// calldata as their only argument. A recognised call whose calldata does not
// decode keeps its names but falls back to the raw argument as well.
func (d *Decoder) DecodeCall(address common.Address, calldata, returnData []byte) DecodedCall {
	descriptor, ok := d.catalog.Resolve(address, calldata)
	if !ok {
		return DecodedCall{
			ContractName: UnknownName,
			FunctionName: UnknownName,
			Inputs:       rawParameters(),
			CallData:     []any{bytes.Clone(calldata)},
			Return:       DecodeReturn(nil, returnData),
		}
	}

	call := DecodedCall{
		ContractName: descriptor.ContractLabel(),
		FunctionName: descriptor.FunctionName(),
		Inputs:       descriptor.Inputs(),
		Outputs:      descriptor.Outputs(),
		Return:       DecodeReturn(descriptor, returnData),
		Matched:      true,
	}
	values, err := descriptor.DecodeCallData(calldata)
	if err != nil {
		call.Inputs = rawParameters()
		call.CallData = []any{bytes.Clone(calldata)}
		return call
	}
	call.CallData = values
	return call
}

func rawParameters() []ParameterSpec {
	return []ParameterSpec{{Name: "raw", Type: "bytes"}}
}
