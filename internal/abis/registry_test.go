package abis

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBuild(t *testing.T, label, abiJSON string) *ContractRegistry {
	t.Helper()
	registry, err := BuildJSON(label, []byte(abiJSON))
	require.NoError(t, err)
	return registry
}

func TestBuildExcludesReadOnlyFunctions(t *testing.T) {
	registry := mustBuild(t, "Token", tokenABI)

	require.Equal(t, 2, registry.Len())
	for _, descriptor := range registry.Descriptors() {
		assert.False(t, descriptor.Mutability().ReadOnly(), descriptor.Signature())
	}

	_, ok := registry.Function("balanceOf")
	assert.False(t, ok)
	_, ok = registry.Function("name")
	assert.False(t, ok)
}

func TestBuildSelectors(t *testing.T) {
	registry := mustBuild(t, "Token", tokenABI)

	tests := []struct {
		selector string
		name     string
	}{
		{"0xa9059cbb", "transfer"},
		{"0x095EA7B3", "approve"},
	}
	for _, tt := range tests {
		selector, err := ParseSelector(tt.selector)
		require.NoError(t, err)

		descriptor, ok := registry.Lookup(selector)
		require.True(t, ok, tt.selector)
		assert.Equal(t, tt.name, descriptor.FunctionName())
		assert.Equal(t, "Token", descriptor.ContractLabel())
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	first := mustBuild(t, "Org", orgABI)
	second := mustBuild(t, "Org", orgABI)

	require.Equal(t, first.Len(), second.Len())
	for i, descriptor := range first.Descriptors() {
		other := second.Descriptors()[i]
		assert.Equal(t, descriptor.Selector(), other.Selector())
		assert.Equal(t, descriptor.Signature(), other.Signature())
		assert.Equal(t, descriptor.Inputs(), other.Inputs())
	}
}

func TestBuildNamesOverloadsBySignature(t *testing.T) {
	registry := mustBuild(t, "Org", orgABI)

	short, ok := registry.Function("transfer(address,uint256)")
	require.True(t, ok)
	assert.Equal(t, "transfer(address,uint256)", short.FunctionName())

	long, ok := registry.Function("transfer(address,uint256,bytes)")
	require.True(t, ok)
	assert.NotEqual(t, short.Selector(), long.Selector())

	vote, ok := registry.Function("vote")
	require.True(t, ok)
	assert.Equal(t, "vote", vote.FunctionName())
}

func TestBuildTupleSelector(t *testing.T) {
	registry := mustBuild(t, "Org", orgABI)

	descriptor, ok := registry.Function("setMembers")
	require.True(t, ok)

	want := crypto.Keccak256([]byte("setMembers(address[],(uint256,bytes))"))[:4]
	assert.Equal(t, want, descriptor.Selector().Bytes())
}

func TestDescriptorInputsAreCopies(t *testing.T) {
	registry := mustBuild(t, "Org", orgABI)
	descriptor, ok := registry.Function("setMembers")
	require.True(t, ok)

	inputs := descriptor.Inputs()
	inputs[1].Components[0].Name = "changed"

	assert.Equal(t, "weight", descriptor.Inputs()[1].Components[0].Name)
}

func TestSelectorParsing(t *testing.T) {
	upper, err := ParseSelector("0XA9059CBB")
	require.NoError(t, err)
	bare, err := ParseSelector("a9059cbb")
	require.NoError(t, err)

	assert.Equal(t, upper, bare)
	assert.Equal(t, "0xa9059cbb", upper.String())
	assert.Equal(t, SelectorOf("transfer(address,uint256)"), upper)

	_, err = ParseSelector("0xa9059c")
	assert.Error(t, err)
	_, err = ParseSelector("zz")
	assert.Error(t, err)
}

func TestDescriptorDecodeReturnData(t *testing.T) {
	transfer, ok := mustBuild(t, "Token", tokenABI).Function("transfer")
	require.True(t, ok)

	word := make([]byte, 32)
	word[31] = 1
	values, err := transfer.DecodeReturnData(word)
	require.NoError(t, err)
	assert.Equal(t, []any{true}, values)

	var decodingErr *DecodingError
	_, err = transfer.DecodeReturnData(append(word, 0x01, 0x02, 0x03, 0x04))
	require.True(t, errors.As(err, &decodingErr))
	assert.Contains(t, decodingErr.Reason, "not word aligned")

	_, err = transfer.DecodeReturnData(word[:31])
	require.True(t, errors.As(err, &decodingErr))
	assert.Contains(t, decodingErr.Reason, "not word aligned")

	_, err = orgFunction(t, "transfer(address,uint256)").DecodeReturnData(word)
	require.True(t, errors.As(err, &decodingErr))
	assert.Equal(t, "function declares no outputs", decodingErr.Reason)
}
