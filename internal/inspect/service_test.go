package inspect

import (
	"bytes"
	"testing"

	"github.com/compose-network/cao-console/configs"
	"github.com/compose-network/cao-console/internal/abis"
	"github.com/compose-network/cao-console/internal/contracts"
	"github.com/compose-network/cao-console/internal/output"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var (
	caoTokenAddress = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	delegatee       = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

func newTestService(t *testing.T, format output.Format) (*Service, *bytes.Buffer) {
	t.Helper()

	bundle, err := contracts.FromConfig(configs.MustDefaultConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	return NewService(bundle, output.NewPrinter(&buf, format)), &buf
}

func TestDecode(t *testing.T) {
	service, buf := newTestService(t, output.FormatYAML)

	calldata := append(abis.SelectorOf("delegate(address)").Bytes(), common.LeftPadBytes(delegatee.Bytes(), 32)...)
	require.NoError(t, service.Decode(caoTokenAddress, calldata, nil))

	var got struct {
		Call struct {
			Contract  string          `yaml:"contract"`
			Function  string          `yaml:"function"`
			Matched   bool            `yaml:"matched"`
			Arguments []abis.Argument `yaml:"arguments"`
			Return    []abis.Argument `yaml:"return"`
		} `yaml:"call"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "CAO Token", got.Call.Contract)
	assert.Equal(t, "delegate", got.Call.Function)
	assert.True(t, got.Call.Matched)
	assert.Equal(t, []abis.Argument{{Name: "delegatee", Type: "address", Value: delegatee.Hex()}}, got.Call.Arguments)
	assert.Equal(t, []abis.Argument{{Value: abis.NullReturn}}, got.Call.Return)
}

func TestDecodeUnknownAsTable(t *testing.T) {
	service, buf := newTestService(t, output.FormatTable)

	require.NoError(t, service.Decode(caoTokenAddress, []byte{0x01, 0x02}, []byte{0xff}))

	out := buf.String()
	assert.Contains(t, out, abis.UnknownName)
	assert.Contains(t, out, "raw (bytes): 0x0102")
	assert.Contains(t, out, "0xff")
}

func TestEncode(t *testing.T) {
	service, buf := newTestService(t, output.FormatYAML)

	require.NoError(t, service.Encode("cao token", "delegate", []string{delegatee.Hex()}))

	var got encodeResult
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "CAO Token", got.Contract)
	assert.Equal(t, "delegate(address)", got.Signature)
	assert.Equal(t, output.Quoted("0x5c19a95c"), got.Selector)

	want := append(abis.SelectorOf("delegate(address)").Bytes(), common.LeftPadBytes(delegatee.Bytes(), 32)...)
	assert.Equal(t, output.Quoted(hexutil.Encode(want)), got.Calldata)
}

func TestEncodeErrors(t *testing.T) {
	service, _ := newTestService(t, output.FormatYAML)

	assert.ErrorContains(t, service.Encode("Treasury", "pay", nil), `unknown contract "Treasury"`)
	assert.ErrorContains(t, service.Encode("CAO Token", "balanceOf", []string{delegatee.Hex()}), `no state-changing function "balanceOf"`)
	assert.ErrorContains(t, service.Encode("CAO Token", "delegate", nil), "expected 1 arguments, got 0")
	assert.ErrorContains(t, service.Encode("Incentive", "getName", nil), "has no resolvable functions")
}

func TestSelectors(t *testing.T) {
	service, buf := newTestService(t, output.FormatYAML)

	require.NoError(t, service.Selectors(""))

	var got selectorsResult
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))

	require.Len(t, got.Collisions, 2)
	assert.Contains(t, got.Collisions[0].Kept, "Main Fund Token.")
	assert.Contains(t, got.Collisions[0].Shadowed, "ERC20.")

	var delegate *selectorEntry
	for i, entry := range got.Selectors {
		assert.NotEqual(t, "view", entry.Mutability)
		if entry.Signature == "delegate(address)" {
			delegate = &got.Selectors[i]
		}
	}
	require.NotNil(t, delegate)
	assert.Equal(t, "CAO Token", delegate.Contract)
	assert.Equal(t, output.Quoted(caoTokenAddress.Hex()), delegate.Address)
}

func TestSelectorsForOneContract(t *testing.T) {
	service, buf := newTestService(t, output.FormatTable)

	require.NoError(t, service.Selectors("HR"))

	out := buf.String()
	assert.Contains(t, out, "addEmployee(address,uint256)")
	assert.NotContains(t, out, "delegate(address)")
	assert.Contains(t, out, "Generic selector collisions")
}

func TestParseHex(t *testing.T) {
	decoded, err := parseHex("data", "a9059cbb")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xa9, 0x05, 0x9c, 0xbb}, decoded)

	decoded, err = parseHex("data", "0x")
	require.NoError(t, err)
	assert.Empty(t, decoded)

	_, err = parseHex("data", "0xabc")
	assert.ErrorContains(t, err, "--data is not valid hex")
}
