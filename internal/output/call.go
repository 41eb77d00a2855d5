package output

import (
	"strings"

	"github.com/compose-network/cao-console/internal/abis"
	"github.com/ethereum/go-ethereum/common"
)

// Call is a decoded contract call laid out for display.
type Call struct {
	Target    Quoted          `yaml:"target"`
	Value     string          `yaml:"value,omitempty"`
	Contract  string          `yaml:"contract"`
	Function  string          `yaml:"function"`
	Matched   bool            `yaml:"matched"`
	Arguments []abis.Argument `yaml:"arguments"`
	Return    []abis.Argument `yaml:"return"`
}

func NewCall(target common.Address, call abis.DecodedCall) Call {
	return Call{
		Target:    Quoted(target.Hex()),
		Contract:  call.ContractName,
		Function:  call.FunctionName,
		Matched:   call.Matched,
		Arguments: call.RenderInputs(),
		Return:    call.RenderReturn(),
	}
}

// Rows lays the call out as key/value rows.
func (c Call) Rows() [][]string {
	rows := [][]string{
		{"Target", string(c.Target)},
		{"Contract", c.Contract},
		{"Function", c.Function},
	}
	if c.Value != "" {
		rows = append(rows, []string{"Value", c.Value})
	}
	return append(rows,
		[]string{"Arguments", formatArguments(c.Arguments)},
		[]string{"Return", formatArguments(c.Return)},
	)
}

func formatArguments(arguments []abis.Argument) string {
	return strings.TrimSuffix(abis.FormatArguments(arguments), "\n")
}
