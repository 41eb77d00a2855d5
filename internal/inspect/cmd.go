package inspect

import (
	"fmt"
	"strings"

	"github.com/compose-network/cao-console/configs"
	"github.com/compose-network/cao-console/internal/contracts"
	"github.com/compose-network/cao-console/internal/output"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

var DecodeCMD = &cobra.Command{
	Use:   "decode",
	Short: "Decode calldata sent to an organization contract",
	Long: `Decode resolves calldata against the contract bound to the target address,
then against the fund and token contracts, and renders its arguments.

Examples:
  caoctl decode --to 0x5FbDB2315678afecb367f032d93F642f64180aa3 --data 0x5c19a95c...
  caoctl decode --to 0x... --data 0xa9059cbb... --return 0x000...01
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")
		data, _ := cmd.Flags().GetString("data")
		returned, _ := cmd.Flags().GetString("return")

		if !common.IsHexAddress(to) {
			return fmt.Errorf("--to %q is not an address", to)
		}
		calldata, err := parseHex("data", data)
		if err != nil {
			return err
		}
		var returnData []byte
		if returned != "" {
			if returnData, err = parseHex("return", returned); err != nil {
				return err
			}
		}

		service, err := newService(cmd)
		if err != nil {
			return err
		}
		return service.Decode(common.HexToAddress(to), calldata, returnData)
	},
}

var EncodeCMD = &cobra.Command{
	Use:   "encode",
	Short: "Encode a call to a state-changing function",
	Long: `Encode builds calldata from text arguments. Scalars are written plainly,
arrays and tuples as JSON.

Examples:
  caoctl encode --contract "CAO Token" --function delegate --arg 0x70997970C51812dc3A010C7d01b50e0d17dc79C8
  caoctl encode --contract HR --function addEmployee --arg 0x... --arg 1000
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		contract, _ := cmd.Flags().GetString("contract")
		function, _ := cmd.Flags().GetString("function")
		arguments, _ := cmd.Flags().GetStringArray("arg")

		service, err := newService(cmd)
		if err != nil {
			return err
		}
		return service.Encode(contract, function, arguments)
	},
}

var SelectorsCMD = &cobra.Command{
	Use:   "selectors",
	Short: "List the functions calls can be resolved to",
	RunE: func(cmd *cobra.Command, args []string) error {
		contract, _ := cmd.Flags().GetString("contract")

		service, err := newService(cmd)
		if err != nil {
			return err
		}
		return service.Selectors(contract)
	},
}

func init() {
	DecodeCMD.Flags().String("to", "", "Address the call was sent to")
	DecodeCMD.Flags().String("data", "", "Calldata, 0x-prefixed hex")
	DecodeCMD.Flags().String("return", "", "Data the call returned, 0x-prefixed hex")
	_ = DecodeCMD.MarkFlagRequired("to")
	_ = DecodeCMD.MarkFlagRequired("data")

	EncodeCMD.Flags().String("contract", "", "Contract label, e.g. \"CAO Token\"")
	EncodeCMD.Flags().String("function", "", "Function name or full signature")
	EncodeCMD.Flags().StringArray("arg", nil, "Function argument, repeated in declaration order")
	_ = EncodeCMD.MarkFlagRequired("contract")
	_ = EncodeCMD.MarkFlagRequired("function")

	SelectorsCMD.Flags().String("contract", "", "Only list this contract")
}

func newService(cmd *cobra.Command) (*Service, error) {
	bundle, err := contracts.FromConfig(configs.Values)
	if err != nil {
		return nil, err
	}
	printer, err := output.New(cmd.OutOrStdout(), configs.Values.Output)
	if err != nil {
		return nil, err
	}
	return NewService(bundle, printer), nil
}

// parseHex decodes hex with or without the 0x prefix.
func parseHex(flag, value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "0x") && !strings.HasPrefix(value, "0X") {
		value = "0x" + value
	}
	decoded, err := hexutil.Decode(value)
	if err != nil {
		return nil, fmt.Errorf("--%s is not valid hex: %w", flag, err)
	}
	return decoded, nil
}
