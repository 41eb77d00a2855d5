package remunerations

import (
	"fmt"

	"github.com/compose-network/cao-console/configs"
	"github.com/compose-network/cao-console/internal/cao"
	"github.com/compose-network/cao-console/internal/output"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var CMD = &cobra.Command{
	Use:   "remunerations",
	Short: "Show and claim employee remuneration",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show an employee's remuneration and the tokens it can be claimed in",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

var claimCmd = &cobra.Command{
	Use:   "claim <token>",
	Short: "Claim the sender's remuneration in a fund or reserve token",
	Args:  cobra.ExactArgs(1),
	RunE:  runClaim,
}

var flagAccount string

func init() {
	showCmd.Flags().StringVar(&flagAccount, "account", "", "Employee to show (defaults to the sender)")

	CMD.AddCommand(showCmd, claimCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	var account *common.Address
	if flagAccount != "" {
		if !common.IsHexAddress(flagAccount) {
			return fmt.Errorf("--account %q is not an address", flagAccount)
		}
		address := common.HexToAddress(flagAccount)
		account = &address
	}

	service, closeFn, err := newService(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	return service.Show(cmd.Context(), account)
}

func runClaim(cmd *cobra.Command, args []string) error {
	if !common.IsHexAddress(args[0]) {
		return fmt.Errorf("token %q is not an address", args[0])
	}

	service, closeFn, err := newService(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	return service.Claim(cmd.Context(), common.HexToAddress(args[0]))
}

func newService(cmd *cobra.Command) (*Service, func(), error) {
	printer, err := output.New(cmd.OutOrStdout(), configs.Values.Output)
	if err != nil {
		return nil, nil, err
	}
	gateway, closeFn, err := cao.Open(cmd.Context(), configs.Values)
	if err != nil {
		return nil, nil, err
	}
	return NewService(gateway, printer), closeFn, nil
}
