package abis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenABI = `[
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"name","stateMutability":"pure","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"event","name":"Transfer","anonymous":false,"inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]}
]`

const orgABI = `[
  {"type":"constructor","stateMutability":"nonpayable","inputs":[{"name":"owner","type":"address"}]},
  {"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"},{"name":"memo","type":"bytes"}],"outputs":[]},
  {"type":"function","name":"vote","stateMutability":"nonpayable","inputs":[{"name":"proposalId","type":"uint256"},{"name":"direction","type":"uint8"},{"name":"reason","type":"string"}],"outputs":[]},
  {"type":"function","name":"setMembers","stateMutability":"nonpayable","inputs":[{"name":"members","type":"address[]"},{"name":"config","type":"tuple","components":[{"name":"weight","type":"uint256"},{"name":"data","type":"bytes"}]}],"outputs":[{"name":"count","type":"uint256"}]},
  {"type":"function","name":"setCodes","stateMutability":"nonpayable","inputs":[{"name":"codes","type":"bytes4[2]"},{"name":"enabled","type":"bool"}],"outputs":[]},
  {"type":"function","name":"fund","stateMutability":"payable","inputs":[],"outputs":[]},
  {"type":"function","name":"members","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address[]"}]}
]`

func TestParseABI(t *testing.T) {
	contract, err := ParseABI([]byte(orgABI))
	require.NoError(t, err)

	require.Len(t, contract.Functions, 7)
	assert.Equal(t, "transfer(address,uint256)", contract.Functions[0].Signature())
	assert.Equal(t, "transfer(address,uint256,bytes)", contract.Functions[1].Signature())
	assert.Equal(t, "setMembers(address[],(uint256,bytes))", contract.Functions[3].Signature())
	assert.Equal(t, "setCodes(bytes4[2],bool)", contract.Functions[4].Signature())
	assert.Equal(t, MutabilityPayable, contract.Functions[5].Mutability)
	assert.Equal(t, MutabilityView, contract.Functions[6].Mutability)

	members := contract.Functions[3].Inputs[0]
	assert.Equal(t, "address", members.ArrayElementType)
	assert.Len(t, contract.Functions[3].Inputs[1].Components, 2)

	assert.Contains(t, contract.Codec().Methods, "setMembers")
}

func TestParseABILegacyMutability(t *testing.T) {
	contract, err := ParseABI([]byte(`[
	  {"name":"total","constant":true,"payable":false,"inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	  {"name":"deposit","constant":false,"payable":true,"inputs":[],"outputs":[]},
	  {"name":"withdraw","constant":false,"payable":false,"inputs":[{"name":"amount","type":"uint256"}],"outputs":[]}
	]`))
	require.NoError(t, err)

	require.Len(t, contract.Functions, 3)
	assert.Equal(t, MutabilityView, contract.Functions[0].Mutability)
	assert.Equal(t, MutabilityPayable, contract.Functions[1].Mutability)
	assert.Equal(t, MutabilityNonPayable, contract.Functions[2].Mutability)

	assert.Contains(t, contract.Codec().Methods, "total")
	assert.Contains(t, contract.Codec().Methods, "withdraw")
}

func TestParseABIUntypedFunction(t *testing.T) {
	contract, err := ParseABI([]byte(`[{"name":"withdraw","type":"","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]}]`))
	require.NoError(t, err)

	require.Len(t, contract.Functions, 1)
	assert.Equal(t, "withdraw(uint256)", contract.Functions[0].Signature())

	method, ok := contract.Codec().Methods["withdraw"]
	require.True(t, ok)
	assert.Equal(t, "withdraw(uint256)", method.Sig)
}

func TestParseABIErrors(t *testing.T) {
	tests := []struct {
		name     string
		abi      string
		function string
	}{
		{
			name: "not an array",
			abi:  `{"type":"function"}`,
		},
		{
			name:     "missing inputs",
			abi:      `[{"type":"function","name":"vote","stateMutability":"nonpayable","outputs":[]}]`,
			function: "vote",
		},
		{
			name:     "malformed mutability",
			abi:      `[{"type":"function","name":"vote","stateMutability":"sometimes","inputs":[],"outputs":[]}]`,
			function: "vote",
		},
		{
			name:     "unsupported type",
			abi:      `[{"type":"function","name":"vote","stateMutability":"nonpayable","inputs":[{"name":"x","type":"uint7"}],"outputs":[]}]`,
			function: "vote",
		},
		{
			name:     "tuple without components",
			abi:      `[{"type":"function","name":"vote","stateMutability":"nonpayable","inputs":[{"name":"x","type":"tuple"}],"outputs":[]}]`,
			function: "vote",
		},
		{
			name: "nameless function",
			abi:  `[{"type":"function","stateMutability":"nonpayable","inputs":[],"outputs":[]}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseABI([]byte(tt.abi))
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.function, parseErr.Function)
		})
	}
}

func TestParseType(t *testing.T) {
	typ, err := ParseType(ParameterSpec{Type: "uint256[][3]"})
	require.NoError(t, err)
	assert.Equal(t, KindArray, typ.Kind)
	assert.Equal(t, 3, typ.Size)
	assert.Equal(t, KindArray, typ.Elem.Kind)
	assert.Equal(t, -1, typ.Elem.Size)
	assert.Equal(t, "uint256", typ.Elem.Elem.Name)
	assert.True(t, typ.Elem.Elem.IsBigInteger())

	small, err := ParseType(ParameterSpec{Type: "uint32"})
	require.NoError(t, err)
	assert.Equal(t, 32, small.Bits)
	assert.False(t, small.IsBigInteger())

	signed, err := ParseType(ParameterSpec{Type: "int128"})
	require.NoError(t, err)
	assert.True(t, signed.Signed)
	assert.True(t, signed.IsBigInteger())

	fixed, err := ParseType(ParameterSpec{Type: "bytes32"})
	require.NoError(t, err)
	assert.Equal(t, KindFixedBytes, fixed.Kind)
	assert.Equal(t, 32, fixed.Size)

	for _, bad := range []string{"bytes33", "uint", "int300", "foo", "uint256[0]", "[]"} {
		_, err := ParseType(ParameterSpec{Type: bad})
		assert.Error(t, err, bad)
	}
}
