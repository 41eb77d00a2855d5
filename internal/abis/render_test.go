package abis

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustType(t *testing.T, spec ParameterSpec) Type {
	t.Helper()
	typ, err := ParseType(spec)
	require.NoError(t, err)
	return typ
}

func TestRenderIntegers(t *testing.T) {
	beyondFloat, ok := new(big.Int).SetString("9007199254740993", 10)
	require.True(t, ok)
	huge := new(big.Int).Lsh(big.NewInt(1), 200)

	tests := []struct {
		typ   string
		value any
		want  string
	}{
		{"uint256", beyondFloat, "9007199254740993"},
		{"uint256", huge, huge.String()},
		{"int256", big.NewInt(-5), "-5"},
		{"uint96", new(big.Int).Lsh(big.NewInt(1), 90), new(big.Int).Lsh(big.NewInt(1), 90).String()},
		{"uint128", (*big.Int)(nil), "0"},
		{"uint8", uint8(7), "7"},
		{"int64", int64(-42), "-42"},
	}
	for _, tt := range tests {
		t.Run(tt.typ+"/"+tt.want, func(t *testing.T) {
			argument := Render(mustType(t, ParameterSpec{Type: tt.typ}), tt.value)
			assert.Equal(t, tt.want, argument.Value)
			assert.Equal(t, tt.typ, argument.Type)
		})
	}
}

func TestRenderArrays(t *testing.T) {
	argument := Render(
		mustType(t, ParameterSpec{Type: "uint256[]"}),
		[]*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)},
	)

	assert.Empty(t, argument.Value)
	assert.Equal(t, []Argument{
		{Type: "uint256", Value: "1"},
		{Type: "uint256", Value: "2"},
		{Type: "uint256", Value: "3"},
	}, argument.Children)

	nested := Render(
		mustType(t, ParameterSpec{Type: "address[][]"}),
		[][]common.Address{{holderAddress}, {}},
	)
	require.Len(t, nested.Children, 2)
	assert.Equal(t, "address[]", nested.Children[0].Type)
	assert.Equal(t, []Argument{{Type: "address", Value: holderAddress.Hex()}}, nested.Children[0].Children)
	assert.Empty(t, nested.Children[1].Children)

	fixed := Render(mustType(t, ParameterSpec{Type: "bytes4[2]"}), [2][4]byte{{1, 2, 3, 4}, {0xaa, 0xbb, 0xcc, 0xdd}})
	assert.Equal(t, []Argument{
		{Type: "bytes4", Value: "0x01020304"},
		{Type: "bytes4", Value: "0xaabbccdd"},
	}, fixed.Children)
}

func TestRenderTuple(t *testing.T) {
	typ := mustType(t, ParameterSpec{
		Type: "tuple",
		Components: []ParameterSpec{
			{Name: "weight", Type: "uint256"},
			{Name: "data", Type: "bytes"},
		},
	})
	value := struct {
		Weight *big.Int
		Data   []byte
	}{big.NewInt(5), []byte{0x01, 0x02}}

	argument := Render(typ, value)
	assert.Equal(t, []Argument{
		{Name: "weight", Type: "uint256", Value: "5"},
		{Name: "data", Type: "bytes", Value: "0x0102"},
	}, argument.Children)

	// A value that does not fit the tuple falls back to its default form.
	assert.Equal(t, "7", Render(typ, 7).Value)
}

func TestRenderBytesTruncation(t *testing.T) {
	typ := mustType(t, ParameterSpec{Type: "bytes"})

	// 24 bytes render as 50 characters and get shortened.
	long := Render(typ, make([]byte, 24)).Value
	assert.Equal(t, "0x"+strings.Repeat("0", 46)+"…", long)

	// 23 bytes render as 48 characters and are kept.
	short := Render(typ, make([]byte, 23)).Value
	assert.Equal(t, "0x"+strings.Repeat("0", 46), short)

	assert.Equal(t, strings.Repeat("a", 49), truncateBytes(strings.Repeat("a", 49)))
	assert.Equal(t, strings.Repeat("a", 48)+"…", truncateBytes(strings.Repeat("a", 50)))

	// Fixed-size byte values are never shortened.
	word := Render(mustType(t, ParameterSpec{Type: "bytes32"}), [32]byte{})
	assert.Equal(t, "0x"+strings.Repeat("0", 64), word.Value)
}

func TestRenderScalars(t *testing.T) {
	assert.Equal(t, "true", Render(mustType(t, ParameterSpec{Type: "bool"}), true).Value)
	assert.Equal(t, "hello", Render(mustType(t, ParameterSpec{Type: "string"}), "hello").Value)
	assert.Equal(t, holderAddress.Hex(), Render(mustType(t, ParameterSpec{Type: "address"}), holderAddress).Value)
}

func TestRenderArguments(t *testing.T) {
	params := []ParameterSpec{
		{Name: "members", Type: "address[]", ArrayElementType: "address"},
		{Name: "amount", Type: "uint256"},
	}
	values := []any{[]common.Address{holderAddress}, big.NewInt(5), "extra"}

	arguments := RenderArguments(params, values)
	require.Len(t, arguments, 3)
	assert.Equal(t, "members", arguments[0].Name)
	assert.Equal(t, "amount", arguments[1].Name)
	assert.Equal(t, Argument{Value: "extra"}, arguments[2])

	want := "members (address[])\n" +
		"  - (address): " + holderAddress.Hex() + "\n" +
		"amount (uint256): 5\n" +
		"-: extra\n"
	assert.Equal(t, want, FormatArguments(arguments))
}
