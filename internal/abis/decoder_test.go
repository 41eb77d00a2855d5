package abis

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// revertPayload builds Error(string) revert data.
func revertPayload(reason string) []byte {
	data := common.FromHex("0x08c379a0")
	data = append(data, common.LeftPadBytes(big.NewInt(32).Bytes(), 32)...)
	data = append(data, common.LeftPadBytes(big.NewInt(int64(len(reason))).Bytes(), 32)...)
	padded := make([]byte, (len(reason)+31)/32*32)
	copy(padded, reason)
	return append(data, padded...)
}

func TestDecodeReturn(t *testing.T) {
	token := mustBuild(t, "Token", tokenABI)
	transfer, ok := token.Function("transfer")
	require.True(t, ok)
	org := mustBuild(t, "Org", orgABI)
	fund, ok := org.Function("fund")
	require.True(t, ok)

	invalidUTF8 := bytes.Repeat([]byte{0xff}, 100)

	tests := []struct {
		name       string
		descriptor *FunctionDescriptor
		data       []byte
		kind       ReturnKind
		check      func(t *testing.T, decoded DecodedReturn)
	}{
		{
			name:       "empty",
			descriptor: transfer,
			data:       nil,
			kind:       ReturnNull,
			check: func(t *testing.T, decoded DecodedReturn) {
				assert.Equal(t, "null", decoded.String())
			},
		},
		{
			name:       "structured",
			descriptor: transfer,
			data:       common.LeftPadBytes([]byte{1}, 32),
			kind:       ReturnValues,
			check: func(t *testing.T, decoded DecodedReturn) {
				assert.Equal(t, []any{true}, decoded.Values)
			},
		},
		{
			name:       "revert reason",
			descriptor: transfer,
			data:       revertPayload("Insufficient balance"),
			kind:       ReturnRevertReason,
			check: func(t *testing.T, decoded DecodedReturn) {
				assert.Equal(t, "Insufficient balance", decoded.Reason)
			},
		},
		{
			name:       "revert reason without descriptor",
			descriptor: nil,
			data:       revertPayload("Not an employee"),
			kind:       ReturnRevertReason,
			check: func(t *testing.T, decoded DecodedReturn) {
				assert.Equal(t, "Not an employee", decoded.String())
			},
		},
		{
			name:       "function without outputs",
			descriptor: fund,
			data:       common.LeftPadBytes([]byte{1}, 32),
			kind:       ReturnRaw,
		},
		{
			name:       "invalid utf8",
			descriptor: nil,
			data:       invalidUTF8,
			kind:       ReturnRaw,
			check: func(t *testing.T, decoded DecodedReturn) {
				assert.Equal(t, invalidUTF8, decoded.Raw)
			},
		},
		{
			name:       "too short for a revert",
			descriptor: nil,
			data:       []byte{0xde, 0xad},
			kind:       ReturnRaw,
			check: func(t *testing.T, decoded DecodedReturn) {
				assert.Equal(t, "0xdead", decoded.String())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded := DecodeReturn(tt.descriptor, tt.data)
			assert.Equal(t, tt.kind, decoded.Kind)
			if tt.check != nil {
				tt.check(t, decoded)
			}
		})
	}
}

func TestDecodeReturnCopiesRawData(t *testing.T) {
	data := []byte{0x01, 0x02}
	decoded := DecodeReturn(nil, data)
	data[0] = 0xff

	assert.Equal(t, []byte{0x01, 0x02}, decoded.Raw)
}

func TestDecodeCall(t *testing.T) {
	decoder := NewDecoder(testCatalog(t))
	token, ok := decoder.catalog.Contract("Token")
	require.True(t, ok)
	transfer, ok := token.Function("transfer")
	require.True(t, ok)

	calldata, err := transfer.Encode([]any{holderAddress, big.NewInt(1000)})
	require.NoError(t, err)

	call := decoder.DecodeCall(otherAddress, calldata, common.LeftPadBytes([]byte{1}, 32))
	assert.True(t, call.Matched)
	assert.Equal(t, "Token", call.ContractName)
	assert.Equal(t, "transfer", call.FunctionName)
	require.Len(t, call.CallData, 2)
	assert.Equal(t, holderAddress, call.CallData[0])
	amount, ok := call.CallData[1].(*big.Int)
	require.True(t, ok)
	assert.Equal(t, "1000", amount.String())

	inputs := call.RenderInputs()
	require.Len(t, inputs, 2)
	assert.Equal(t, Argument{Name: "to", Type: "address", Value: holderAddress.Hex()}, inputs[0])
	assert.Equal(t, Argument{Name: "amount", Type: "uint256", Value: "1000"}, inputs[1])

	assert.Equal(t, []Argument{{Type: "bool", Value: "true"}}, call.RenderReturn())
}

func TestDecodeCallUnknown(t *testing.T) {
	decoder := NewDecoder(testCatalog(t))
	calldata := common.FromHex("0xdeadbeef0102")

	call := decoder.DecodeCall(otherAddress, calldata, nil)
	assert.False(t, call.Matched)
	assert.Equal(t, UnknownName, call.ContractName)
	assert.Equal(t, UnknownName, call.FunctionName)
	assert.Equal(t, []any{calldata}, call.CallData)

	assert.Equal(t, []Argument{{Name: "raw", Type: "bytes", Value: "0xdeadbeef0102"}}, call.RenderInputs())
	assert.Equal(t, []Argument{{Value: "null"}}, call.RenderReturn())
}

func TestDecodeCallMalformedCalldata(t *testing.T) {
	decoder := NewDecoder(testCatalog(t))
	calldata := append(common.FromHex("0x095ea7b3"), 0x01, 0x02, 0x03)

	call := decoder.DecodeCall(otherAddress, calldata, revertPayload("paused"))
	assert.True(t, call.Matched)
	assert.Equal(t, "Token", call.ContractName)
	assert.Equal(t, "approve", call.FunctionName)
	assert.Equal(t, []any{calldata}, call.CallData)
	assert.Equal(t, []Argument{{Name: "raw", Type: "bytes", Value: hexutil.Encode(calldata)}}, call.RenderInputs())
	assert.Equal(t, []Argument{{Name: "reason", Type: "string", Value: "paused"}}, call.RenderReturn())
}

func TestDecodeCallDataRejectsForeignSelector(t *testing.T) {
	token := mustBuild(t, "Token", tokenABI)
	transfer, ok := token.Function("transfer")
	require.True(t, ok)

	_, err := transfer.DecodeCallData(common.FromHex("0x095ea7b3"))
	var decodingErr *DecodingError
	require.ErrorAs(t, err, &decodingErr)
	assert.Equal(t, "transfer(address,uint256)", decodingErr.Function)

	_, err = transfer.DecodeCallData([]byte{0xa9})
	require.ErrorAs(t, err, &decodingErr)
}
